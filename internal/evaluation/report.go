package evaluation

import (
	"fmt"
	"io"
	"math"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"gonum.org/v1/gonum/stat"
)

// ReportRow is the share of outcomes within one accuracy threshold.
type ReportRow struct {
	ThresholdSeconds float64 `json:"threshold_seconds"`
	Percent          float64 `json:"percent"`
	Failures         int     `json:"failures"`
}

// ErrorStats summarizes the error distribution, in seconds.
type ErrorStats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P90    float64 `json:"p90"`
	Max    float64 `json:"max"`
	StdDev float64 `json:"std_dev"`
}

// Report is the accuracy of a set of outcomes.
type Report struct {
	SampleSize int         `json:"sample_size"`
	Rows       []ReportRow `json:"rows"`

	// Passed counts outcomes flagged successful when they were scored.
	Passed int        `json:"passed"`
	Stats  ErrorStats `json:"stats"`
}

// ReadResults decodes every "*.{ext}" result artifact in dir. Any malformed
// name fails the whole read with ErrFormat.
func ReadResults(dir, ext string) ([]Outcome, error) {
	ext = strings.TrimPrefix(ext, ".")
	paths, err := filepath.Glob(filepath.Join(dir, "*."+ext))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	outcomes := make([]Outcome, 0, len(paths))
	for _, p := range paths {
		o, err := DecodeFileName(p)
		if err != nil {
			return nil, fmt.Errorf("result %s: %w", filepath.Base(p), err)
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, nil
}

// BuildReport computes, for each threshold, the percentage of outcomes whose
// error is at most the threshold (rounded to two decimals) and the number that
// exceed it. Zero outcomes is ErrConfiguration.
func BuildReport(outcomes []Outcome, thresholds []float64) (*Report, error) {
	n := len(outcomes)
	if n == 0 {
		return nil, fmt.Errorf("%w: no valid samples to report on", ErrConfiguration)
	}

	errs := make([]float64, n)
	report := &Report{SampleSize: n}
	for i, o := range outcomes {
		errs[i] = o.ErrorSeconds
		if o.Success {
			report.Passed++
		}
	}
	sort.Float64s(errs)

	for _, t := range thresholds {
		within := sort.Search(n, func(i int) bool { return errs[i] > t })
		report.Rows = append(report.Rows, ReportRow{
			ThresholdSeconds: t,
			Percent:          math.Round(float64(within)/float64(n)*100*100) / 100,
			Failures:         n - within,
		})
	}

	report.Stats = ErrorStats{
		Mean:   stat.Mean(errs, nil),
		Median: stat.Quantile(0.5, stat.Empirical, errs, nil),
		P90:    stat.Quantile(0.9, stat.Empirical, errs, nil),
		Max:    errs[n-1],
	}
	if n > 1 {
		report.Stats.StdDev = stat.StdDev(errs, nil)
	}

	return report, nil
}

// PrintReport writes the report as a markdown table preceded by the sample
// size. When summary is non-nil the images excluded from the statistics are
// listed as well.
func PrintReport(w io.Writer, r *Report, summary *Summary) error {
	if _, err := fmt.Fprintf(w, "Sample size: %d\n\n", r.SampleSize); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Accuracy threshold", "Within threshold", "Failures"})
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")
	table.SetAutoFormatHeaders(false)
	for _, row := range r.Rows {
		table.Append([]string{
			formatNumber(row.ThresholdSeconds) + " s",
			formatNumber(row.Percent) + " %",
			strconv.Itoa(row.Failures),
		})
	}
	table.Render()

	s := r.Stats
	if _, err := fmt.Fprintf(w, "\nPassed: %d of %d\nError (s): mean %.2f, median %.2f, p90 %.2f, max %.2f, std-dev %.2f\n",
		r.Passed, r.SampleSize, s.Mean, s.Median, s.P90, s.Max, s.StdDev); err != nil {
		return err
	}

	if summary == nil {
		return nil
	}
	if _, err := fmt.Fprintf(w, "Excluded (no reading): %d of %d\n", len(summary.Failures), summary.Total); err != nil {
		return err
	}
	for _, f := range summary.Failures {
		if _, err := fmt.Fprintf(w, "  %s\n", f.Error()); err != nil {
			return err
		}
	}
	return nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
