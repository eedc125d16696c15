package valuer

import (
	domain "github.com/gearmarket/market-appraiser/pkg/types"
)

// Policy holds the fixed multiplier tables and thresholds that drive a
// valuation. It is passed explicitly into every entry point so alternate
// tables can be exercised in tests without touching package state.
type Policy struct {
	// ConditionFactors maps the diagnostics-derived condition to its base
	// multiplier. Conditions absent from the table get NeutralFactor.
	ConditionFactors map[domain.DiagCondition]float64

	// CategoryFactors maps listing categories to their multiplier. Unknown
	// categories get NeutralFactor; the factor is surfaced in the result
	// breakdown for display.
	CategoryFactors map[domain.Category]float64

	// BatteryFloor caps the battery's own downward contribution so a dead
	// battery cannot drive the multiplier to near-zero by itself.
	BatteryFloor float64

	// ComparableCap limits the aggregation to the N most recent sales.
	ComparableCap int

	// Confidence parameters, expressed as fractions.
	ConfidenceBase  float64
	ConfidenceStep  float64
	ConfidenceCap   float64
	DiagnosticBonus float64

	// Position bands: asking price above FinalValue*OverpricedBand is
	// overpriced, below FinalValue*UnderpricedBand is underpriced.
	OverpricedBand  float64
	UnderpricedBand float64
}

// NeutralFactor is the multiplier applied when a condition or category is
// unknown. Estimates degrade gracefully instead of rejecting the record.
const NeutralFactor = 1.0

// DefaultPolicy returns the production valuation policy.
func DefaultPolicy() Policy {
	return Policy{
		ConditionFactors: map[domain.DiagCondition]float64{
			domain.DiagExcellent: 1.10,
			domain.DiagGood:      1.00,
			domain.DiagFair:      0.85,
			domain.DiagPoor:      0.70,
		},
		CategoryFactors: map[domain.Category]float64{
			domain.CategoryElectronics: 1.00,
			domain.CategoryAppliances:  0.95,
			domain.CategoryWearables:   0.90,
			domain.CategoryAudio:       0.95,
			domain.CategoryGaming:      1.05,
			domain.CategoryOther:       1.00,
		},
		BatteryFloor:    0.5,
		ComparableCap:   10,
		ConfidenceBase:  0.5,
		ConfidenceStep:  0.05,
		ConfidenceCap:   0.9,
		DiagnosticBonus: 0.2,
		OverpricedBand:  1.1,
		UnderpricedBand: 0.9,
	}
}

// conditionFactor looks up the base multiplier for a diagnostic condition,
// falling back to neutral for unknown values.
func (p Policy) conditionFactor(c domain.DiagCondition) float64 {
	if f, ok := p.ConditionFactors[c]; ok {
		return f
	}
	return NeutralFactor
}

// CategoryFactor looks up the multiplier for a category, falling back to
// neutral for unknown values.
func (p Policy) CategoryFactor(c domain.Category) float64 {
	if f, ok := p.CategoryFactors[c]; ok {
		return f
	}
	return NeutralFactor
}
