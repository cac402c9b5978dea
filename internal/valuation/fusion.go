package valuation

import (
	"math"

	"evdeger/server/internal/models"
)

// fallbackExplanation is reported when the AI estimator is unavailable and
// the statistical value stands in for it.
const fallbackExplanation = "Geleneksel algoritma ile hesaplanan değer."

// FallbackEstimate builds an AI-estimate stand-in from the statistical
// output. Fusing it with the statistical estimate reproduces the statistical
// value exactly, so a failed AI call degrades without skewing the result.
func FallbackEstimate(stat StatisticalEstimate) models.AIEstimate {
	return models.AIEstimate{
		EstimatedPrice:  stat.Estimate,
		PriceRange:      stat.Range,
		ConfidenceLevel: stat.Confidence,
		Explanation:     fallbackExplanation,
	}
}

// Fuse blends the statistical and AI estimates with the configured weights:
// price by the 60/40 blend, confidence and range bounds by plain averaging.
func Fuse(stat StatisticalEstimate, ai models.AIEstimate, weights *Weights) (float64, int, models.PriceRange) {
	if weights == nil {
		weights = DefaultWeights()
	}

	finalPrice := math.Round(ai.EstimatedPrice*weights.AIBlend + stat.Estimate*weights.TraditionalBlend)
	finalConfidence := int(math.Round(float64(ai.ConfidenceLevel+stat.Confidence) / 2))
	finalRange := models.PriceRange{
		Min: math.Round((ai.PriceRange.Min + stat.Range.Min) / 2),
		Max: math.Round((ai.PriceRange.Max + stat.Range.Max) / 2),
	}
	return finalPrice, finalConfidence, finalRange
}
