package valuer

import (
	domain "github.com/gearmarket/market-appraiser/pkg/types"
)

// recommendations maps each position label to its display string. The
// classifier carries no logic beyond the band comparison; copy lives here.
var recommendations = map[domain.PositionLabel]string{
	domain.PositionOverpriced:  "Priced above market value. Consider lowering the price to sell faster.",
	domain.PositionUnderpriced: "Priced below market value. This listing is a strong deal for buyers.",
	domain.PositionFair:        "Priced in line with market value.",
}

// ClassifyPosition compares an asking price against a computed valuation.
// The overpriced comparison is strict: a price exactly at the band boundary
// is still fair. When finalValue is zero the percentage is left nil rather
// than dividing by zero.
func ClassifyPosition(price, finalValue float64, p Policy) domain.MarketPosition {
	label := domain.PositionFair
	switch {
	case price > finalValue*p.OverpricedBand:
		label = domain.PositionOverpriced
	case price < finalValue*p.UnderpricedBand:
		label = domain.PositionUnderpriced
	}

	pos := domain.MarketPosition{
		Label:          label,
		Difference:     price - finalValue,
		Recommendation: recommendations[label],
	}

	if finalValue != 0 {
		pct := pos.Difference / finalValue * 100
		pos.DifferencePercentage = &pct
	}

	return pos
}
