package database

import "fmt"

// RunMigrations creates the listings table and its query-path indexes.
// Idempotent; safe to run on every start.
func (d *Database) RunMigrations() error {
	_, err := d.db.Exec(`
		CREATE TABLE IF NOT EXISTS listings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			province TEXT,
			district TEXT,
			neighborhood TEXT,
			property_type TEXT,
			net_sqm REAL,
			gross_sqm REAL,
			room_count TEXT,
			building_age TEXT,
			floor_location TEXT,
			total_floors INTEGER,
			heating_type TEXT,
			bathroom_count INTEGER,
			balcony TEXT,
			parking TEXT,
			elevator TEXT,
			furnished TEXT,
			suitable_for_credit TEXT,
			usage_status TEXT,
			dues REAL,
			deed_status TEXT,
			interior_features TEXT,
			view_features TEXT,
			price REAL NOT NULL,
			listing_date DATETIME,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create listings table: %v", err)
	}

	// The comparable query always filters the region columns; the trend
	// queries additionally scan listing_date.
	_, err = d.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_listings_region
		ON listings(district, neighborhood);
	`)
	if err != nil {
		return err
	}

	_, err = d.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_listings_property_type
		ON listings(property_type);
	`)
	if err != nil {
		return err
	}

	_, err = d.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_listings_listing_date
		ON listings(listing_date);
	`)
	if err != nil {
		return err
	}

	return nil
}
