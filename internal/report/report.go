// Package report renders an analysis as a plain-text report.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/opensource-finance/frictrak/internal/domain"
	"github.com/opensource-finance/frictrak/internal/ingest"
	"github.com/opensource-finance/frictrak/internal/textnorm"
)

const width = 70

// Options controls rendering.
type Options struct {
	Source string         // file the batch came from
	Client *ingest.Client // optional applicant details
	Style  Style          // zero value renders plain
}

var printer = message.NewPrinter(language.English)

func money(v float64) string {
	return printer.Sprintf("$%.2f", v)
}

type writer struct {
	b     strings.Builder
	style Style
}

func (w *writer) line(format string, args ...any) {
	fmt.Fprintf(&w.b, format, args...)
	w.b.WriteByte('\n')
}

func (w *writer) blank() { w.b.WriteByte('\n') }

func (w *writer) section(title string, subtitle ...string) {
	w.line("%s", strings.Repeat("-", width))
	w.line("  %s", w.style.Section(title))
	for _, s := range subtitle {
		w.line("  %s", w.style.Muted(s))
	}
	w.line("%s", strings.Repeat("-", width))
	w.blank()
}

func (w *writer) banner(text string) {
	w.line("%s", strings.Repeat("=", width))
	w.line("  %s", text)
	w.line("%s", strings.Repeat("=", width))
	w.blank()
}

// Render returns the full report.
func Render(a *domain.Analysis, opts Options) string {
	w := &writer{style: opts.Style}
	if w.style.Title == nil {
		w.style = Plain()
	}

	det := a.Detection
	if det == nil {
		det = &domain.DetectionResult{}
	}
	stats := det.Statistics

	w.blank()
	w.banner(w.style.Title("FRICTRAK LENDER ANALYSIS REPORT"))

	w.line("Report date: %s", a.CreatedAt.Format("2006-01-02 15:04:05"))
	if opts.Source != "" {
		w.line("Source file: %s", opts.Source)
	}
	if a.Reference != "" {
		w.line("Reference: %s", a.Reference)
	}
	w.line("Analysis ID: %s", a.ID)
	w.blank()

	w.section("SUMMARY")
	w.line("Transactions analyzed: %d", stats.TransactionsAnalyzed)
	w.line("Confirmed lenders (official list): %d", stats.ConfirmedCount)
	w.line("Probable lenders (rules): %d", stats.ProbableCount)
	w.line("Possible lenders (to verify): %d", stats.PossibleCount)
	w.line("Exclusions (false positives removed): %d", stats.ExcludedCount)
	w.blank()
	w.line("Confirmed debt: %s", money(stats.ConfirmedDebt))
	w.line("Probable debt: %s", money(stats.ProbableDebt))
	w.line("Possible debt (not estimated): %s", money(stats.PossibleDebt))
	w.line("ESTIMATED TOTAL DEBT: %s", money(stats.EstimatedDebt))
	w.blank()

	if c := opts.Client; c != nil {
		w.section("CLIENT")
		w.line("Name: %s", orNA(c.Name))
		w.line("Email: %s", orNA(c.Email))
		w.line("Phone: %s", orNA(c.Phone))
		w.line("Institution: %s", orNA(c.Institution))
		w.line("Account: %s", orNA(c.Account))
		w.line("Balance: %s", money(c.Balance))
		w.blank()
	}

	in := a.Inputs
	w.section("FINANCIAL CAPACITY")
	w.line("Estimated monthly income: %s (%s)", money(in.MonthlyIncome), orNA(in.IncomeSource))
	w.line("Monthly capacity (50%%): %s", money(in.MaxCapacity()))
	w.line("Maximum weekly payment: %s", money(in.WeeklyCapacity()))
	w.line("NSF (30 days): %d | Overdrafts (90 days): %d", in.NSFCount, in.OverdraftCount)
	w.blank()

	w.confirmed(det.Confirmed)
	w.probable(det.Probable)
	w.possible(det.Possible)
	w.excluded(det.Excluded)

	if a.KnockOuts.HasKnockOuts {
		w.blank()
		w.banner(w.style.Bad("KNOCK-OUTS DETECTED - AUTOMATIC REFUSAL"))
		for _, ko := range a.KnockOuts.KnockOuts {
			w.line("  %s %s", w.style.Bad("x"), ko.Message)
		}
		w.blank()
		w.line("  Knock-outs: %d", len(a.KnockOuts.KnockOuts))
		w.line("  DECISION: REFUSED")
		w.blank()
	}

	w.blank()
	w.banner(w.tier(fmt.Sprintf("GLOBAL SCORE: %d/100 - %s", a.Risk.Score, strings.ToUpper(string(a.Risk.Tier))), a.Risk.Tier))
	if len(a.Risk.Penalties) > 0 {
		w.line("  Penalties applied:")
		for _, p := range a.Risk.Penalties {
			w.line("    - %s (-%d)", p.Detail, p.Points)
		}
		w.blank()
	}

	if len(a.Offers) > 0 {
		w.section("AVAILABLE OFFERS")
		for _, o := range a.Offers {
			amount, _ := o.Amount.Float64()
			w.line("  %s - Payment: $%s/week - Chance: %.1f%%", printer.Sprintf("$%.0f", amount), o.Weekly.StringFixed(2), o.Probability)
		}
		w.blank()
		w.line("  [Client score: %d/100 | Debt ratio: %.1f%% | Lenders: %d]", a.Risk.Score, in.DebtRatio()*100, in.LenderCount)
		w.blank()
	}

	w.section("RECOMMENDATION")
	w.line("  %s", a.Recommendation)
	w.line("  Status: %s", w.status(a.Status))
	w.blank()

	w.line("%s", strings.Repeat("=", width))
	w.line("  END OF REPORT")
	w.line("%s", strings.Repeat("=", width))
	w.blank()
	w.line("%s", w.style.Muted(fmt.Sprintf("Engine: %s | Rules: %d", a.Metadata.EngineVersion, a.Metadata.RulesLoaded)))

	return w.b.String()
}

// Write renders the report to out.
func Write(out io.Writer, a *domain.Analysis, opts Options) error {
	_, err := io.WriteString(out, Render(a, opts))
	return err
}

func (w *writer) confirmed(buckets []*domain.EntityBucket) {
	if len(buckets) == 0 {
		return
	}
	w.section("CONFIRMED LENDERS [OFFICIAL LIST]", "Confidence: VERY HIGH (90-100%)")

	sorted := append([]*domain.EntityBucket(nil), buckets...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].TotalPaid > sorted[j].TotalPaid })

	for _, b := range sorted {
		w.line("  %s", w.style.Bad(b.Name))
		w.line("  Source: %s", b.Source)
		w.line("  Score: %d/100 | Confidence: %s", b.Score, b.Confidence)
		w.line("  Total paid: %s", money(b.TotalPaid))
		w.line("  Transactions: %d", b.Count())
		txs := b.Transactions
		if len(txs) > 3 {
			txs = txs[len(txs)-3:]
		}
		for _, tx := range txs {
			w.line("    - %s: %s", formatDate(tx), money(tx.Amount))
		}
		w.blank()
	}
}

func (w *writer) probable(buckets []*domain.EntityBucket) {
	if len(buckets) == 0 {
		return
	}
	w.section("PROBABLE LENDERS [RULES]", "Confidence: HIGH (60-79%)")

	for _, b := range byScore(buckets) {
		w.line("  %s", w.style.Warn(textnorm.Truncate(b.Name, 50)))
		w.line("  Score: %d/100 | Confidence: %s", b.Score, b.Confidence)
		w.line("  Total paid: %s", money(b.TotalPaid))
		w.line("  Reasons:")
		reasons := b.Reasons
		if len(reasons) > 3 {
			reasons = reasons[:3]
		}
		for _, r := range reasons {
			w.line("    - %s", r)
		}
		w.blank()
	}
}

func (w *writer) possible(buckets []*domain.EntityBucket) {
	if len(buckets) == 0 {
		return
	}
	w.section("POSSIBLE LENDERS [TO VERIFY]", "Confidence: MEDIUM (40-59%)")

	for _, b := range byScore(buckets) {
		w.line("  %s", textnorm.Truncate(b.Name, 50))
		w.line("  Score: %d/100 | Action: %s", b.Score, b.Action)
		w.line("  Total: %s (%d transactions)", money(b.TotalPaid), b.Count())
		w.blank()
	}
}

func (w *writer) excluded(buckets []*domain.EntityBucket) {
	if len(buckets) == 0 {
		return
	}
	w.section("AUTOMATIC EXCLUSIONS [FALSE POSITIVES REMOVED]")

	for _, b := range buckets {
		reason := "excluded"
		if len(b.Reasons) > 0 {
			reason = b.Reasons[0]
		}
		w.line("  %s", w.style.Muted(b.Name))
		w.line("  Reason: %s", reason)
		w.line("  Amount excluded: %s", money(b.TotalPaid))
		w.blank()
	}
}

func (w *writer) tier(text string, t domain.RiskTier) string {
	switch t {
	case domain.RiskLow:
		return w.style.Good(text)
	case domain.RiskModerate, domain.RiskHigh:
		return w.style.Warn(text)
	default:
		return w.style.Bad(text)
	}
}

func (w *writer) status(s string) string {
	switch s {
	case domain.StatusClear:
		return w.style.Good(s)
	case domain.StatusRefused:
		return w.style.Bad(s)
	default:
		return w.style.Warn(s)
	}
}

func byScore(buckets []*domain.EntityBucket) []*domain.EntityBucket {
	sorted := append([]*domain.EntityBucket(nil), buckets...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })
	return sorted
}

func formatDate(tx domain.BucketTransaction) string {
	if tx.Date.IsZero() {
		return "unknown date"
	}
	return tx.Date.Format("2006-01-02")
}

func orNA(s string) string {
	if s == "" {
		return "not available"
	}
	return s
}
