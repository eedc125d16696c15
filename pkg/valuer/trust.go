package valuer

import (
	domain "github.com/gearmarket/market-appraiser/pkg/types"
)

// Trust bonus constants. The trust score starts from battery health and
// rewards verifiable signals: a diagnostic report and photos.
const (
	trustDiagnosticBonus = 20
	trustImageBonus      = 10
)

// TrustScore computes the listing trustworthiness companion score: battery
// health (zero when absent) plus bonuses for diagnostics and images, capped
// at 100. It scores credibility, not value.
func TrustScore(batteryHealth *int, hasDiagnostics, hasImages bool) domain.TrustRating {
	score := 0
	if batteryHealth != nil {
		score = *batteryHealth
	}
	if hasDiagnostics {
		score += trustDiagnosticBonus
	}
	if hasImages {
		score += trustImageBonus
	}
	if score > 100 {
		score = 100
	}

	tier := Tier(score, ScoreThresholds)

	return domain.TrustRating{
		Score: score,
		Label: tier.Label,
		Color: tier.Color,
	}
}
