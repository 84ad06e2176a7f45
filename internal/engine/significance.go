package engine

import (
	"math"

	"github.com/plateworks/menumetrics/internal/models"
)

// CompareVariants runs a two-proportion z-test over the conversion rates of
// two experiment arms. Below MinSampleSize views on either arm the test
// reports insufficient data: not significant, zero confidence, tie.
//
// Lift is always reported relative to variant B, whether or not the
// difference is significant. A winner is only declared at 95% confidence.
func CompareVariants(a, b models.VariantMetrics) models.SignificanceResult {
	result := models.SignificanceResult{
		Winner:      models.WinnerTie,
		RateA:       a.ConversionRate,
		RateB:       b.ConversionRate,
		SampleSizeA: a.ViewCount,
		SampleSizeB: b.ViewCount,
	}

	if a.ViewCount < models.MinSampleSize || b.ViewCount < models.MinSampleSize {
		return result
	}

	n1 := float64(a.ViewCount)
	n2 := float64(b.ViewCount)
	p1 := a.ConversionRate
	p2 := b.ConversionRate

	pooled := (p1*n1 + p2*n2) / (n1 + n2)
	se := math.Sqrt(pooled * (1 - pooled) * (1/n1 + 1/n2))

	var z float64
	if se > 0 {
		z = (p1 - p2) / se
	}
	result.ZScore = z

	abs := math.Abs(z)
	switch {
	case abs >= 2.576:
		result.ConfidenceLevel = 99
	case abs >= 1.96:
		result.ConfidenceLevel = 95
	case abs >= 1.645:
		result.ConfidenceLevel = 90
	default:
		result.ConfidenceLevel = math.Round(math.Min(89, abs/1.645*90))
	}

	result.IsSignificant = result.ConfidenceLevel >= 95
	if result.IsSignificant {
		switch {
		case p1 > p2:
			result.Winner = models.VariantA
		case p2 > p1:
			result.Winner = models.VariantB
		}
	}

	if p2 > 0 {
		result.LiftPercent = (p1 - p2) / p2 * 100
	}

	return result
}
