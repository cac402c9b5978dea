package valuation

import (
	"math"

	"evdeger/server/internal/models"
)

// MarketTrend holds the regional average unit prices of the two trailing
// windows used to detect short-term movement.
type MarketTrend struct {
	LastMonthAvg  float64
	PrevMonthsAvg float64
}

// Factor translates the month-over-month unit-price change into a price
// multiplier. Returns 1.0 when either window has no data.
func (t MarketTrend) Factor() float64 {
	if t.LastMonthAvg <= 0 || t.PrevMonthsAvg <= 0 {
		return 1.0
	}
	change := (t.LastMonthAvg - t.PrevMonthsAvg) / t.PrevMonthsAvg
	switch {
	case change > 0.1:
		return 1.05
	case change > 0.05:
		return 1.03
	case change < -0.1:
		return 0.95
	case change < -0.05:
		return 0.97
	default:
		return 1.0
	}
}

// RegionStats aggregates the regional context of a request.
type RegionStats struct {
	AvgUnitPrice float64
	Trend        MarketTrend
	ListingCount int
}

// StatisticalEstimate is the traditional (non-AI) valuation output.
type StatisticalEstimate struct {
	Estimate   float64
	Confidence int
	Range      models.PriceRange
}

// ComputeStatisticalEstimate aggregates the weighted candidate prices, the
// regional baseline, and the market trend into one estimate with a
// confidence level and price range. Candidates with non-positive prices are
// excluded from every average.
func ComputeStatisticalEstimate(scores []CandidateScore, region RegionStats, netSqm float64, weights *Weights) StatisticalEstimate {
	if weights == nil {
		weights = DefaultWeights()
	}

	var totalPrice, totalWeight, candidateWeight float64
	var validCount int
	var priceSum float64

	for _, score := range scores {
		if score.Listing.Price <= 0 {
			continue
		}
		contribution := score.Contribution()
		totalPrice += score.Listing.Price * score.Similarity * score.Adjustment * score.TimeDecay * score.Outlier
		totalWeight += contribution
		candidateWeight += contribution
		priceSum += score.Listing.Price
		validCount++
	}

	if region.AvgUnitPrice > 0 {
		totalPrice += region.AvgUnitPrice * netSqm * weights.RegionBaselineWeight
		totalWeight += weights.RegionBaselineWeight
	}

	estimate := weights.DefaultEstimate
	switch {
	case totalWeight > 0:
		estimate = math.Round(totalPrice / totalWeight * region.Trend.Factor())
	case region.AvgUnitPrice > 0 && netSqm > 0:
		estimate = math.Round(region.AvgUnitPrice * netSqm)
	case validCount > 0:
		estimate = math.Round(priceSum / float64(validCount))
	}

	// Mean similarity over the retrieved set, excluding the regional
	// baseline term.
	meanSimilarity := 0.0
	if len(scores) > 0 {
		meanSimilarity = candidateWeight / float64(len(scores))
	}

	confidence := confidenceLevel(len(scores), meanSimilarity, region.ListingCount, weights.BaseConfidence)

	return StatisticalEstimate{
		Estimate:   estimate,
		Confidence: confidence,
		Range:      priceRange(estimate, confidence),
	}
}

// confidenceLevel adjusts the base confidence by candidate count, mean
// similarity, and regional corpus density, clamped to [0, 100].
func confidenceLevel(candidates int, meanSimilarity float64, regionCount, base int) int {
	confidence := base

	switch {
	case candidates >= 8:
		confidence += 10
	case candidates >= 5:
		confidence += 5
	case candidates < 3:
		confidence -= 10
	}

	switch {
	case meanSimilarity > 0.7:
		confidence += 10
	case meanSimilarity > 0.5:
		confidence += 5
	case meanSimilarity < 0.3:
		confidence -= 10
	}

	if regionCount > 100 {
		confidence += 5
	} else if regionCount < 20 {
		confidence -= 5
	}

	if confidence < 0 {
		confidence = 0
	}
	if confidence > 100 {
		confidence = 100
	}
	return confidence
}

// priceRange widens the band as confidence drops. The percentage stays in
// [10, 20] over the whole confidence domain, so min <= estimate <= max holds
// unconditionally.
func priceRange(estimate float64, confidence int) models.PriceRange {
	rangePercent := 20 - float64(confidence)/10
	return models.PriceRange{
		Min: math.Round(estimate * (1 - rangePercent/100)),
		Max: math.Round(estimate * (1 + rangePercent/100)),
	}
}
