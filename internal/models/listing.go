package models

import "time"

// Listing is a stored comparable property. String-typed attribute fields
// (room count, building age, floor, amenity flags) keep the portal's free-text
// encodings; normalization happens at scoring time, not at rest.
type Listing struct {
	ID                int64      `json:"id" gorm:"primaryKey;column:id"`
	Province          string     `json:"province" gorm:"column:province"`
	District          string     `json:"district" gorm:"column:district"`
	Neighborhood      string     `json:"neighborhood" gorm:"column:neighborhood"`
	PropertyType      string     `json:"property_type" gorm:"column:property_type"`
	NetSqm            float64    `json:"net_sqm" gorm:"column:net_sqm"`
	GrossSqm          *float64   `json:"gross_sqm" gorm:"column:gross_sqm"`
	RoomCount         string     `json:"room_count" gorm:"column:room_count"`
	BuildingAge       string     `json:"building_age" gorm:"column:building_age"`
	FloorLocation     string     `json:"floor_location" gorm:"column:floor_location"`
	TotalFloors       *int       `json:"total_floors" gorm:"column:total_floors"`
	HeatingType       string     `json:"heating_type" gorm:"column:heating_type"`
	BathroomCount     *int       `json:"bathroom_count" gorm:"column:bathroom_count"`
	Balcony           string     `json:"balcony" gorm:"column:balcony"`
	Parking           string     `json:"parking" gorm:"column:parking"`
	Elevator          string     `json:"elevator" gorm:"column:elevator"`
	Furnished         string     `json:"furnished" gorm:"column:furnished"`
	SuitableForCredit string     `json:"suitable_for_credit" gorm:"column:suitable_for_credit"`
	UsageStatus       string     `json:"usage_status" gorm:"column:usage_status"`
	Dues              *float64   `json:"dues" gorm:"column:dues"`
	DeedStatus        string     `json:"deed_status" gorm:"column:deed_status"`
	InteriorFeatures  string     `json:"interior_features" gorm:"column:interior_features"`
	ViewFeatures      string     `json:"view_features" gorm:"column:view_features"`
	Price             float64    `json:"price" gorm:"column:price"`
	ListingDate       *time.Time `json:"listing_date" gorm:"column:listing_date"`
	CreatedAt         time.Time  `json:"created_at" gorm:"column:created_at"`
}

// TableName maps the gorm model onto the listings table shared with the
// raw-SQL read path.
func (Listing) TableName() string {
	return "listings"
}

// ValuationRequest is the flat attribute record the estimate endpoint
// receives. Amenity flags arrive as booleans here, unlike stored listings
// where they are free-text presence markers.
type ValuationRequest struct {
	Province          string   `json:"province"`
	District          string   `json:"district" binding:"required"`
	Neighborhood      string   `json:"neighborhood"`
	PropertyType      string   `json:"property_type"`
	NetSqm            float64  `json:"net_sqm" binding:"required,gt=0"`
	GrossSqm          *float64 `json:"gross_sqm"`
	RoomCount         string   `json:"room_count"`
	BuildingAge       string   `json:"building_age"`
	FloorLocation     string   `json:"floor_location"`
	TotalFloors       *int     `json:"total_floors"`
	HeatingType       string   `json:"heating_type"`
	BathroomCount     *int     `json:"bathroom_count"`
	Balcony           bool     `json:"balcony"`
	Parking           bool     `json:"parking"`
	Elevator          bool     `json:"elevator"`
	Furnished         bool     `json:"furnished"`
	SuitableForCredit bool     `json:"suitable_for_credit"`
	UsageStatus       string   `json:"usage_status"`
	Dues              *float64 `json:"dues"`
	DeedStatus        string   `json:"deed_status"`
}

// PriceRange bounds an estimate. Invariant: Min <= estimate <= Max.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// AIEstimate is the parsed output of the external AI estimator.
type AIEstimate struct {
	EstimatedPrice  float64    `json:"estimatedPrice"`
	PriceRange      PriceRange `json:"priceRange"`
	ConfidenceLevel int        `json:"confidenceLevel"`
	Explanation     string     `json:"explanation"`
}

// ValuationResult is the response payload for a single estimate request.
// Constructed once per request, never persisted.
type ValuationResult struct {
	EstimatedPrice      float64          `json:"estimatedPrice"`
	TraditionalEstimate float64          `json:"traditionalEstimate"`
	AIEstimate          float64          `json:"aiEstimate"`
	ConfidenceLevel     int              `json:"confidenceLevel"`
	PriceRange          PriceRange       `json:"priceRange"`
	AIExplanation       string           `json:"aiExplanation"`
	SimilarProperties   []Listing        `json:"similarProperties"`
	PropertyDetails     ValuationRequest `json:"propertyDetails"`
}
