package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	domain "github.com/gearmarket/market-appraiser/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printListingsTable(listings []domain.Listing) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID\tTITLE\tPRICE\tCATEGORY\tBRAND\tCONDITION\tSTATUS\n")
	for i := range listings {
		tw.writef("%s\t%s\t$%.2f\t%s\t%s\t%s\t%s\n",
			listings[i].ID,
			truncate(listings[i].Title, 40),
			listings[i].Price,
			listings[i].Category,
			listings[i].Brand,
			listings[i].Condition,
			listings[i].Status,
		)
	}
	return tw.finish()
}

func printListingDetail(l *domain.Listing) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID:\t%s\n", l.ID)
	tw.writef("Title:\t%s\n", l.Title)
	tw.writef("Price:\t$%.2f %s\n", l.Price, l.Currency)
	tw.writef("Category:\t%s\n", l.Category)
	tw.writef("Brand:\t%s\n", l.Brand)
	tw.writef("Condition:\t%s\n", l.Condition)
	if l.BatteryHealth != nil {
		tw.writef("Battery:\t%d%%\n", *l.BatteryHealth)
	}
	tw.writef("Seller:\t%s\n", l.SellerName)
	tw.writef("Status:\t%s\n", l.Status)
	tw.writef("Created:\t%s\n", l.CreatedAt.Format("2006-01-02 15:04:05"))
	return tw.finish()
}

func printValuation(r *domain.ValuationResult) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("Final Value:\t$%.2f\n", r.FinalValue)
	tw.writef("Base Market Value:\t$%.2f\n", r.BaseMarketValue)
	tw.writef("Market Average:\t$%.2f\n", r.MarketAverage)
	tw.writef("Market Range:\t$%.2f - $%.2f\n", r.MarketRange.Min, r.MarketRange.Max)
	tw.writef("Condition Multiplier:\t%.2f\n", r.ConditionMultiplier)
	tw.writef("Condition Adjustment:\t$%.2f\n", r.ConditionAdjustment)
	tw.writef("Confidence:\t%d%%\n", r.Confidence)
	tw.writef("Samples:\t%d\n", r.SampleCount)
	return tw.finish()
}

func printAnalysis(a *domain.MarketAnalysis) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("Listing:\t%s\n", a.ListingID)
	tw.writef("Position:\t%s\n", a.Position.Label)
	tw.writef("Difference:\t$%.2f\n", a.Position.Difference)
	if a.Position.DifferencePercentage != nil {
		tw.writef("Difference %%:\t%.1f%%\n", *a.Position.DifferencePercentage)
	}
	tw.writef("Recommendation:\t%s\n", a.Position.Recommendation)
	tw.writef("Final Value:\t$%.2f\n", a.Result.FinalValue)
	tw.writef("Confidence:\t%d%%\n", a.Result.Confidence)
	tw.writef("Analyzed:\t%s\n", a.CreatedAt.Format("2006-01-02 15:04:05"))
	return tw.finish()
}

func printTrust(t *domain.TrustRating) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("Score:\t%d/100\n", t.Score)
	tw.writef("Label:\t%s\n", t.Label)
	tw.writef("Color:\t%s\n", t.Color)
	return tw.finish()
}

func printDiagnostic(r *domain.DiagnosticReport) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID:\t%s\n", r.ID)
	tw.writef("Listing:\t%s\n", r.ListingID)
	tw.writef("Battery:\t%d%%\n", r.BatteryHealth)
	tw.writef("Performance:\t%d/100\n", r.PerformanceScore)
	tw.writef("Condition:\t%s\n", r.OverallCondition)
	tw.writef("Recorded:\t%s\n", r.CreatedAt.Format("2006-01-02 15:04:05"))
	return tw.finish()
}

func printComparablesTable(comps []domain.ComparableSale) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID\tCATEGORY\tBRAND\tPRICE\tSOURCE\tSOLD\n")
	for i := range comps {
		tw.writef("%s\t%s\t%s\t$%.2f\t%s\t%s\n",
			comps[i].ID,
			comps[i].Category,
			comps[i].Brand,
			comps[i].MarketPrice,
			comps[i].Source,
			comps[i].CreatedAt.Format("2006-01-02"),
		)
	}
	return tw.finish()
}

func printAlertsTable(alerts []domain.DealAlert) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("LISTING\tASKING\tESTIMATED\tDISCOUNT\tNOTIFIED\tCREATED\n")
	for i := range alerts {
		a := &alerts[i]
		tw.writef("%s\t$%.2f\t$%.2f\t%.1f%%\t%v\t%s\n",
			a.ListingID,
			a.AskingPrice,
			a.FinalValue,
			a.DifferencePct,
			a.Notified,
			a.CreatedAt.Format("2006-01-02 15:04:05"),
		)
	}
	return tw.finish()
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
