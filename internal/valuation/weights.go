package valuation

// The constants in this file were tuned empirically against the listing
// corpus. Treat them as configuration: change them here, not at call sites.

// DistanceWeights blends the per-attribute distance components into the
// composite dissimilarity a candidate is judged by.
type DistanceWeights struct {
	Area      float64
	Rooms     float64
	Age       float64
	Floor     float64
	Location  float64
	Bathroom  float64
	GrossArea float64
	Heating   float64
}

// FeatureBonuses are the additive adjustment-multiplier increments applied
// when target and candidate share a feature.
type FeatureBonuses struct {
	Balcony           float64
	Parking           float64
	Elevator          float64
	Furnished         float64
	SuitableForCredit float64
	LowerDues         float64
	HighDuesPenalty   float64
	ExactFloorMatch   float64
	HighFloor         float64
	NewBuilding       float64
}

// KeywordBonus is a free-text keyword and the adjustment it earns when the
// candidate's feature description contains it.
type KeywordBonus struct {
	Keyword string
	Bonus   float64
}

// Weights carries every tunable parameter of the valuation pipeline.
type Weights struct {
	Distance DistanceWeights
	Bonuses  FeatureBonuses

	// Keyword bonuses scanned over the candidate's descriptive fields.
	InteriorKeywords []KeywordBonus
	ViewKeywords     []KeywordBonus

	// RegionBaselineWeight is the weight of the regional avg-unit-price
	// baseline term in the weighted average.
	RegionBaselineWeight float64

	// AIBlend and TraditionalBlend mix the AI and statistical estimates
	// into the final price. They sum to 1.
	AIBlend          float64
	TraditionalBlend float64

	// DefaultEstimate is returned when neither candidate prices nor a
	// regional average are usable.
	DefaultEstimate float64

	// BaseConfidence is the starting confidence level before corpus-size
	// and similarity adjustments.
	BaseConfidence int
}

// DefaultWeights returns the tuned parameter set.
func DefaultWeights() *Weights {
	return &Weights{
		Distance: DistanceWeights{
			Area:      0.35,
			Rooms:     0.25,
			Age:       0.15,
			Floor:     0.10,
			Location:  0.25,
			Bathroom:  0.05,
			GrossArea: 0.05,
			Heating:   0.05,
		},
		Bonuses: FeatureBonuses{
			Balcony:           0.05,
			Parking:           0.08,
			Elevator:          0.03,
			Furnished:         0.07,
			SuitableForCredit: 0.03,
			LowerDues:         0.02,
			HighDuesPenalty:   0.02,
			ExactFloorMatch:   0.04,
			HighFloor:         0.02,
			NewBuilding:       0.10,
		},
		InteriorKeywords: []KeywordBonus{
			{Keyword: "ankastre", Bonus: 0.02},
			{Keyword: "ebeveyn", Bonus: 0.02},
			{Keyword: "jakuzi", Bonus: 0.03},
			{Keyword: "akıllı ev", Bonus: 0.05},
		},
		ViewKeywords: []KeywordBonus{
			{Keyword: "deniz", Bonus: 0.15},
			{Keyword: "boğaz", Bonus: 0.20},
			{Keyword: "göl", Bonus: 0.10},
			{Keyword: "orman", Bonus: 0.08},
		},
		RegionBaselineWeight: 0.4,
		AIBlend:              0.6,
		TraditionalBlend:     0.4,
		DefaultEstimate:      5_000_000,
		BaseConfidence:       75,
	}
}
