package marketdata

import (
	domain "github.com/gearmarket/market-appraiser/pkg/types"
)

// ToComparableSales converts feed sale records into domain comparable sales.
// Records with a non-positive price are dropped; the valuation engine only
// aggregates positive observed prices.
func ToComparableSales(records []SaleRecord) []domain.ComparableSale {
	sales := make([]domain.ComparableSale, 0, len(records))
	for i := range records {
		if records[i].SalePrice <= 0 {
			continue
		}
		sales = append(sales, toComparableSale(&records[i]))
	}
	return sales
}

func toComparableSale(r *SaleRecord) domain.ComparableSale {
	return domain.ComparableSale{
		Category:    domain.Category(r.Category),
		Brand:       r.Brand,
		MarketPrice: r.SalePrice,
		Source:      r.Source,
		CreatedAt:   r.SoldAt,
	}
}
