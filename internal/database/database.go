package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"evdeger/server/internal/models"
	"evdeger/server/internal/valuation"
)

// Database wraps the sqlite listing corpus. All valuation-path methods are
// read-only; writes go through the gorm upsert used by the ingest pipeline.
type Database struct {
	db *sql.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return nil, err
	}

	return &Database{db: db}, nil
}

// GetComparables fetches up to filter.Limit candidate listings, ordered by
// the coarse proximity heuristic: area distance plus fixed penalties for
// room, age, district, and neighborhood mismatches.
func (d *Database) GetComparables(ctx context.Context, filter valuation.ComparableFilter) ([]models.Listing, error) {
	query := `
        SELECT id, province, district, neighborhood, property_type,
               net_sqm, gross_sqm, room_count, building_age, floor_location,
               total_floors, heating_type, bathroom_count,
               balcony, parking, elevator, furnished, suitable_for_credit,
               usage_status, dues, deed_status, interior_features, view_features,
               price, listing_date,
               COALESCE(created_at, CURRENT_TIMESTAMP) as created_at
        FROM listings
        WHERE 1=1
    `
	var args []interface{}

	if filter.Province != "" {
		query += " AND province = ?"
		args = append(args, filter.Province)
	}
	if filter.PropertyType != "" {
		query += " AND property_type = ?"
		args = append(args, filter.PropertyType)
	}
	if filter.District != "" {
		query += " AND district = ?"
		args = append(args, filter.District)
	}
	if filter.Neighborhood != "" {
		query += " AND neighborhood = ?"
		args = append(args, filter.Neighborhood)
	}

	query += `
        ORDER BY
            CASE WHEN net_sqm IS NOT NULL THEN ABS(net_sqm - ?) ELSE 999999 END * 2 +
            CASE WHEN room_count LIKE '%' || ? || '%' THEN 0 ELSE 100 END +
            CASE WHEN building_age LIKE '%' || ? || '%' THEN 0 ELSE 50 END +
            CASE WHEN district = ? THEN 0 ELSE 200 END +
            CASE WHEN neighborhood = ? THEN 0 ELSE 100 END
        LIMIT ?
    `
	args = append(args,
		filter.NetSqm,
		filter.RoomToken,
		filter.AgeToken,
		filter.District,
		filter.Neighborhood,
		filter.Limit,
	)

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []models.Listing
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, listing)
	}
	return listings, rows.Err()
}

// GetRegionAvgUnitPrice averages price per square meter over the region.
// Listings without a positive area or price never enter the average.
// Returns 0 when the region has no usable rows.
func (d *Database) GetRegionAvgUnitPrice(ctx context.Context, filter valuation.RegionFilter) (float64, error) {
	query := `
        SELECT COALESCE(AVG(price / NULLIF(net_sqm, 0)), 0)
        FROM listings
        WHERE district = ?
        AND net_sqm > 0
        AND price > 0
    `
	args := []interface{}{filter.District}

	if filter.Neighborhood != "" {
		query += " AND neighborhood = ?"
		args = append(args, filter.Neighborhood)
	}
	if filter.PropertyType != "" {
		query += " AND property_type = ?"
		args = append(args, filter.PropertyType)
	}

	var avg float64
	err := d.db.QueryRowContext(ctx, query, args...).Scan(&avg)
	return avg, err
}

// GetMarketTrend computes the average unit price of the last month against
// the prior 1-3 month window in the same region. Either average is 0 when
// its window has no dated rows.
func (d *Database) GetMarketTrend(ctx context.Context, filter valuation.RegionFilter) (valuation.MarketTrend, error) {
	query := `
        SELECT
            COALESCE(AVG(CASE
                WHEN julianday('now') - julianday(listing_date) <= 30
                THEN price / NULLIF(net_sqm, 0) END), 0) as last_month_avg,
            COALESCE(AVG(CASE
                WHEN julianday('now') - julianday(listing_date) > 30
                 AND julianday('now') - julianday(listing_date) <= 90
                THEN price / NULLIF(net_sqm, 0) END), 0) as prev_months_avg
        FROM listings
        WHERE district = ?
        AND net_sqm > 0
        AND price > 0
        AND listing_date IS NOT NULL
        AND julianday('now') - julianday(listing_date) <= 90
    `
	args := []interface{}{filter.District}

	if filter.Neighborhood != "" {
		query += " AND neighborhood = ?"
		args = append(args, filter.Neighborhood)
	}
	if filter.PropertyType != "" {
		query += " AND property_type = ?"
		args = append(args, filter.PropertyType)
	}

	var trend valuation.MarketTrend
	err := d.db.QueryRowContext(ctx, query, args...).Scan(&trend.LastMonthAvg, &trend.PrevMonthsAvg)
	return trend, err
}

// CountRegionListings counts every listing in the region, priced or not.
// Feeds the corpus-density confidence adjustment.
func (d *Database) CountRegionListings(ctx context.Context, district, neighborhood string) (int, error) {
	query := "SELECT COUNT(*) FROM listings WHERE district = ?"
	args := []interface{}{district}

	if neighborhood != "" {
		query += " AND neighborhood = ?"
		args = append(args, neighborhood)
	}

	var count int
	err := d.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

// lookupColumns whitelists the columns the distinct-value endpoints may
// query. Anything else is rejected before touching SQL.
var lookupColumns = map[string]bool{
	"province":       true,
	"district":       true,
	"property_type":  true,
	"heating_type":   true,
	"room_count":     true,
	"building_age":   true,
	"floor_location": true,
	"usage_status":   true,
	"deed_status":    true,
}

// GetDistinctValues returns the ordered distinct non-empty values of a
// whitelisted listing column.
func (d *Database) GetDistinctValues(ctx context.Context, column string) ([]string, error) {
	if !lookupColumns[column] {
		return nil, fmt.Errorf("column not allowed for lookup: %s", column)
	}

	query := fmt.Sprintf(`
        SELECT DISTINCT %s FROM listings
        WHERE %s IS NOT NULL AND %s != ''
        ORDER BY %s
    `, column, column, column, column)

	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	return values, rows.Err()
}

// GetNeighborhoods returns the ordered distinct neighborhoods of a district.
func (d *Database) GetNeighborhoods(ctx context.Context, district string) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, `
        SELECT DISTINCT neighborhood FROM listings
        WHERE district = ? AND neighborhood IS NOT NULL AND neighborhood != ''
        ORDER BY neighborhood
    `, district)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	return values, rows.Err()
}

func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) GetDB() *sql.DB {
	return d.db
}

// scanListing reads one listing row, mapping nullable columns onto pointer
// fields.
func scanListing(rows *sql.Rows) (models.Listing, error) {
	var listing models.Listing
	var province, district, neighborhood, propertyType sql.NullString
	var roomCount, buildingAge, floorLocation, heatingType sql.NullString
	var balcony, parking, elevator, furnished, suitableForCredit sql.NullString
	var usageStatus, deedStatus, interiorFeatures, viewFeatures sql.NullString
	var netSqm, grossSqm, dues, price sql.NullFloat64
	var totalFloors, bathroomCount sql.NullInt64
	var listingDate, createdAt sql.NullTime

	err := rows.Scan(
		&listing.ID,
		&province,
		&district,
		&neighborhood,
		&propertyType,
		&netSqm,
		&grossSqm,
		&roomCount,
		&buildingAge,
		&floorLocation,
		&totalFloors,
		&heatingType,
		&bathroomCount,
		&balcony,
		&parking,
		&elevator,
		&furnished,
		&suitableForCredit,
		&usageStatus,
		&dues,
		&deedStatus,
		&interiorFeatures,
		&viewFeatures,
		&price,
		&listingDate,
		&createdAt,
	)
	if err != nil {
		return listing, err
	}

	listing.Province = province.String
	listing.District = district.String
	listing.Neighborhood = neighborhood.String
	listing.PropertyType = propertyType.String
	listing.RoomCount = roomCount.String
	listing.BuildingAge = buildingAge.String
	listing.FloorLocation = floorLocation.String
	listing.HeatingType = heatingType.String
	listing.Balcony = balcony.String
	listing.Parking = parking.String
	listing.Elevator = elevator.String
	listing.Furnished = furnished.String
	listing.SuitableForCredit = suitableForCredit.String
	listing.UsageStatus = usageStatus.String
	listing.DeedStatus = deedStatus.String
	listing.InteriorFeatures = interiorFeatures.String
	listing.ViewFeatures = viewFeatures.String

	if netSqm.Valid {
		listing.NetSqm = netSqm.Float64
	}
	if grossSqm.Valid {
		gross := grossSqm.Float64
		listing.GrossSqm = &gross
	}
	if dues.Valid {
		duesValue := dues.Float64
		listing.Dues = &duesValue
	}
	if price.Valid {
		listing.Price = price.Float64
	}
	if totalFloors.Valid {
		floors := int(totalFloors.Int64)
		listing.TotalFloors = &floors
	}
	if bathroomCount.Valid {
		bathrooms := int(bathroomCount.Int64)
		listing.BathroomCount = &bathrooms
	}
	if listingDate.Valid {
		date := listingDate.Time
		listing.ListingDate = &date
	}
	if createdAt.Valid {
		listing.CreatedAt = createdAt.Time
	}

	return listing, nil
}
