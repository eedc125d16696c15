package valuer

// Thresholds parameterizes the four-tier score classifier. Each boundary is
// inclusive: a score at or above Excellent rates excellent, and so on down.
type Thresholds struct {
	Excellent int
	Good      int
	Fair      int
}

// Standard threshold sets. Battery health grades harder than the rest of the
// score displays.
var (
	ScoreThresholds   = Thresholds{Excellent: 80, Good: 60, Fair: 40}
	BatteryThresholds = Thresholds{Excellent: 90, Good: 80, Fair: 70}
)

// TierRating is a display tier: a human label plus a UI color token.
type TierRating struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// Tier classifies a 0-100 score into one of four display tiers. Every score
// surface (trust, confidence, battery, diagnostics) shares this classifier
// with its own thresholds.
func Tier(score int, t Thresholds) TierRating {
	switch {
	case score >= t.Excellent:
		return TierRating{Label: "Excellent", Color: "green"}
	case score >= t.Good:
		return TierRating{Label: "Good", Color: "yellow"}
	case score >= t.Fair:
		return TierRating{Label: "Fair", Color: "orange"}
	default:
		return TierRating{Label: "Poor", Color: "red"}
	}
}
