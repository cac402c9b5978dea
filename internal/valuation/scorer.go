package valuation

import (
	"math"
	"strings"
	"time"

	"evdeger/server/internal/models"
	"evdeger/server/internal/normalize"
)

// TargetProfile is the normalized view of the request attributes. Computed
// once per request and shared across candidate scoring.
type TargetProfile struct {
	Rooms      int
	RoomsKnown bool
	Age        int
	AgeKnown   bool
	Floor      int
}

// NewTargetProfile normalizes the free-text attribute encodings of a request.
func NewTargetProfile(req models.ValuationRequest) TargetProfile {
	return TargetProfile{
		Rooms:      normalize.RoomCount(req.RoomCount),
		RoomsKnown: req.RoomCount != "",
		Age:        normalize.BuildingAge(req.BuildingAge),
		AgeKnown:   req.BuildingAge != "",
		Floor:      normalize.FloorLocation(req.FloorLocation),
	}
}

// CandidateScore holds the per-candidate factors that weight its price
// contribution. Similarity is in (0, 1]; the multipliers hover around 1.
type CandidateScore struct {
	Listing    models.Listing
	Similarity float64
	Adjustment float64
	TimeDecay  float64
	Outlier    float64
}

// Contribution is the candidate's weight in the price average.
func (s CandidateScore) Contribution() float64 {
	return s.Similarity * s.TimeDecay * s.Outlier
}

// Scorer computes similarity weights and adjustment multipliers for
// candidate listings against one target.
type Scorer struct {
	weights *Weights
}

// NewScorer returns a scorer using the given parameter set, falling back to
// the defaults when nil.
func NewScorer(weights *Weights) *Scorer {
	if weights == nil {
		weights = DefaultWeights()
	}
	return &Scorer{weights: weights}
}

// Score rates one candidate against the target. avgUnitPrice is the regional
// average price per square meter used for outlier dampening; now anchors the
// time-decay computation.
func (s *Scorer) Score(req models.ValuationRequest, target TargetProfile, listing models.Listing, avgUnitPrice float64, now time.Time) CandidateScore {
	distance := s.weightedDistance(req, target, listing)

	return CandidateScore{
		Listing: listing,
		// Never zero or negative: distance is nonnegative by construction.
		Similarity: 1 / (1 + distance),
		Adjustment: s.adjustmentFactor(req, target, listing),
		TimeDecay:  timeDecay(listing.ListingDate, now),
		Outlier:    outlierFactor(listing, avgUnitPrice),
	}
}

// weightedDistance combines the per-attribute distances. The component
// scales are intentionally asymmetric: area and location dominate.
func (s *Scorer) weightedDistance(req models.ValuationRequest, target TargetProfile, listing models.Listing) float64 {
	areaDiff := 100.0
	if listing.NetSqm > 0 {
		areaDiff = math.Abs(listing.NetSqm-req.NetSqm) / math.Max(req.NetSqm, 1) * 100
	}

	// An encoding with no digit token ("Stüdyo") keeps the default.
	roomsDiff := 10.0
	if target.RoomsKnown && normalize.HasDigit(listing.RoomCount) {
		candRooms := normalize.RoomCount(listing.RoomCount)
		roomsDiff = math.Abs(float64(candRooms-target.Rooms)) * 20
	}

	ageDiff := 20.0
	if target.AgeKnown && normalize.HasDigit(listing.BuildingAge) {
		candAge := normalize.BuildingAge(listing.BuildingAge)
		ageDiff = math.Abs(float64(candAge-target.Age)) * 2
	}

	floorDiff := 20.0
	if listing.FloorLocation != "" {
		candFloor := normalize.FloorLocation(listing.FloorLocation)
		floorDiff = math.Abs(float64(candFloor-target.Floor)) * 5
	}

	bathroomDiff := 0.0
	if listing.BathroomCount != nil && req.BathroomCount != nil {
		bathroomDiff = math.Abs(float64(*listing.BathroomCount-*req.BathroomCount)) * 10
	}

	grossAreaDiff := 0.0
	if listing.GrossSqm != nil && req.GrossSqm != nil && *req.GrossSqm > 0 {
		grossAreaDiff = math.Abs(*listing.GrossSqm-*req.GrossSqm) / *req.GrossSqm * 50
	}

	heatingDiff := 0.0
	if listing.HeatingType != "" && req.HeatingType != "" &&
		!strings.EqualFold(listing.HeatingType, req.HeatingType) {
		heatingDiff = 15.0
	}

	locationDiff := 50.0
	if listing.Neighborhood == req.Neighborhood {
		locationDiff = 0.0
	}

	w := s.weights.Distance
	return areaDiff*w.Area +
		roomsDiff*w.Rooms +
		ageDiff*w.Age +
		floorDiff*w.Floor +
		locationDiff*w.Location +
		bathroomDiff*w.Bathroom +
		grossAreaDiff*w.GrossArea +
		heatingDiff*w.Heating
}

// adjustmentFactor accumulates amenity and free-text bonuses. A bonus only
// applies when the target asks for the feature and the candidate has it.
func (s *Scorer) adjustmentFactor(req models.ValuationRequest, target TargetProfile, listing models.Listing) float64 {
	b := s.weights.Bonuses
	factor := 1.0

	if req.Balcony && normalize.HasFeature(listing.Balcony) {
		factor += b.Balcony
	}
	if req.Parking && normalize.HasFeature(listing.Parking) {
		factor += b.Parking
	}
	if req.Elevator && normalize.HasFeature(listing.Elevator) {
		factor += b.Elevator
	}
	if req.Furnished && normalize.HasFeature(listing.Furnished) {
		factor += b.Furnished
	}
	if req.SuitableForCredit && normalize.HasFeature(listing.SuitableForCredit) {
		factor += b.SuitableForCredit
	}

	if req.Dues != nil && listing.Dues != nil {
		if *listing.Dues < *req.Dues {
			factor += b.LowerDues
		} else if *listing.Dues > *req.Dues*1.5 {
			factor -= b.HighDuesPenalty
		}
	}

	if listing.FloorLocation != "" && listing.FloorLocation == req.FloorLocation {
		factor += b.ExactFloorMatch
	} else if target.Floor > 0 && listing.FloorLocation != "" {
		// Higher floors generally carry a premium.
		if normalize.FloorLocation(listing.FloorLocation) > 5 {
			factor += b.HighFloor
		}
	}

	if target.Age <= 5 && isNewBuilding(listing.BuildingAge) {
		factor += b.NewBuilding
	}

	factor += keywordBonus(listing.InteriorFeatures, s.weights.InteriorKeywords)
	factor += keywordBonus(listing.ViewFeatures, s.weights.ViewKeywords)

	return factor
}

// isNewBuilding reports whether a raw age encoding marks a new build.
func isNewBuilding(rawAge string) bool {
	if rawAge == "" {
		return false
	}
	return rawAge == "0" ||
		strings.Contains(rawAge, "0-5") ||
		strings.Contains(rawAge, "Yeni")
}

func keywordBonus(text string, bonuses []KeywordBonus) float64 {
	if text == "" {
		return 0
	}
	lower := strings.ToLower(text)
	total := 0.0
	for _, kb := range bonuses {
		if strings.Contains(lower, kb.Keyword) {
			total += kb.Bonus
		}
	}
	return total
}

// timeDecay down-weights stale listings by age in days. Missing dates keep
// full weight.
func timeDecay(listingDate *time.Time, now time.Time) float64 {
	if listingDate == nil {
		return 1.0
	}
	days := int(now.Sub(*listingDate).Hours() / 24)
	switch {
	case days > 90:
		return 0.7
	case days > 60:
		return 0.8
	case days > 30:
		return 0.9
	default:
		return 1.0
	}
}

// outlierFactor dampens candidates whose unit price deviates sharply from
// the regional average.
func outlierFactor(listing models.Listing, avgUnitPrice float64) float64 {
	if avgUnitPrice <= 0 || listing.NetSqm <= 0 {
		return 1.0
	}
	unitPrice := listing.Price / listing.NetSqm
	deviation := math.Abs(unitPrice-avgUnitPrice) / avgUnitPrice
	switch {
	case deviation > 0.5:
		return 0.5
	case deviation > 0.3:
		return 0.7
	case deviation > 0.2:
		return 0.9
	default:
		return 1.0
	}
}
