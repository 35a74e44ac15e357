// Package report renders analysis results as markdown and HTML for
// export. Rendering is presentation only; it never recomputes statistics.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"datalens/domain/analysis"
)

// ToMarkdown renders one result as a markdown document.
func ToMarkdown(result *analysis.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s analysis\n\n", result.Type)

	switch {
	case result.Descriptive != nil:
		writeDescriptive(&b, result.Descriptive)
	case result.Correlation != nil:
		writeCorrelation(&b, result.Correlation)
	case result.Factor != nil:
		writeFactor(&b, result.Factor)
	case result.ChangePoint != nil:
		writeChangePoints(&b, result.ChangePoint)
	case result.Histogram != nil:
		writeHistogram(&b, result.Histogram)
	case result.TimeSeries != nil:
		writeTimeSeries(&b, result.TimeSeries)
	case result.MissingData != nil:
		writeMissingData(&b, result.MissingData)
	case result.Text != nil:
		writeText(&b, result.Text)
	}

	if result.Performance != nil {
		fmt.Fprintf(&b, "\n---\n\n%d of %d points processed in %.2f ms\n",
			result.Performance.ProcessedSize, result.Performance.OriginalSize,
			result.Performance.ProcessingTimeMs)
	}
	return b.String()
}

// ToHTML renders one result as an HTML fragment.
func ToHTML(result *analysis.Result) []byte {
	md := []byte(ToMarkdown(result))
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML(md, p, renderer)
}

func writeDescriptive(b *strings.Builder, results []analysis.DescriptiveResult) {
	b.WriteString("| Column | Count | Mean | Std | Min | Q1 | Median | Q3 | Max |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|---|\n")
	for _, r := range results {
		if !r.Available {
			fmt.Fprintf(b, "| %s | 0 | – | – | – | – | – | – | – |\n", r.Column)
			continue
		}
		fmt.Fprintf(b, "| %s | %d | %.4g | %.4g | %.4g | %.4g | %.4g | %.4g | %.4g |\n",
			r.Column, r.Count, r.Mean, r.Std, r.Min,
			r.Quartiles.Q1, r.Quartiles.Q2, r.Quartiles.Q3, r.Max)
	}
}

func writeCorrelation(b *strings.Builder, result *analysis.CorrelationResult) {
	b.WriteString("| Column 1 | Column 2 | Pearson r | N |\n|---|---|---|---|\n")
	for _, pair := range result.Pairs {
		fmt.Fprintf(b, "| %s | %s | %.4f | %d |\n", pair.Column1, pair.Column2, pair.Correlation, pair.SampleSize)
	}
}

func writeFactor(b *strings.Builder, result *analysis.FactorAnalysisResult) {
	for _, c := range result.Components {
		fmt.Fprintf(b, "## %s (%.1f%% of variance)\n\n", c.Name, 100*c.Variance)
		for _, l := range c.Loadings {
			fmt.Fprintf(b, "- %s: %.4f\n", l.Variable, l.Loading)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(b, "%d complete rows used\n", result.SampleSize)
}

func writeChangePoints(b *strings.Builder, result *analysis.ChangePointResult) {
	fmt.Fprintf(b, "Algorithm: **%s**\n\n", result.Statistics.Algorithm)
	if len(result.ChangePoints) == 0 {
		b.WriteString("No change points detected.\n")
		return
	}
	b.WriteString("| Index | Value | Confidence |\n|---|---|---|\n")
	for _, cp := range result.ChangePoints {
		fmt.Fprintf(b, "| %d | %.4g | %.2f |\n", cp.Index, cp.Value, cp.Confidence)
	}
	fmt.Fprintf(b, "\nAverage confidence: %.2f\n", result.Statistics.AverageConfidence)
}

func writeHistogram(b *strings.Builder, result *analysis.HistogramResult) {
	b.WriteString("| Bin | Count | Frequency |\n|---|---|---|\n")
	for _, bin := range result.Bins {
		fmt.Fprintf(b, "| %s | %d | %.1f%% |\n", bin.Bin, bin.Count, bin.Frequency)
	}
	fmt.Fprintf(b, "\n%d values total\n", result.Total)
}

func writeTimeSeries(b *strings.Builder, result *analysis.TimeSeriesResult) {
	s := result.Summary
	fmt.Fprintf(b, "Mean %.4g, trend %s (slope %.4g), moving average window %d\n\n",
		s.Mean, s.Trend.Direction, s.Trend.Slope, s.MovingAverageWindow)
	b.WriteString("| Time | Value |\n|---|---|\n")
	for _, p := range result.Points {
		fmt.Fprintf(b, "| %s | %.4g |\n", p.Time, p.Value)
	}
}

func writeMissingData(b *strings.Builder, result *analysis.MissingDataResult) {
	s := result.Summary
	fmt.Fprintf(b, "%d events (%d starts, %d ends), longest streak %d rows\n\n",
		s.TotalEvents, s.MissingStartEvents, s.MissingEndEvents, s.LongestMissingStreak)
	columns := make([]string, 0, len(result.ColumnStats))
	for col := range result.ColumnStats {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	b.WriteString("| Column | Runs | Missing % | Avg length | Max length |\n|---|---|---|---|---|\n")
	for _, col := range columns {
		stats := result.ColumnStats[col]
		fmt.Fprintf(b, "| %s | %d | %.1f%% | %.1f | %d |\n",
			col, stats.TotalMissingEvents, stats.MissingPercentage,
			stats.AverageMissingLength, stats.MaxMissingLength)
	}
}

func writeText(b *strings.Builder, result *analysis.TextAnalysisResult) {
	basic := result.Basic
	fmt.Fprintf(b, "%d records, %d words, %.1f words per record, %.0f%% unique\n\n",
		basic.RecordCount, basic.TotalWords, basic.AvgWordsPerItem, 100*basic.UniquenessRatio)

	b.WriteString("## Top words\n\n")
	for _, e := range result.WordFrequency {
		fmt.Fprintf(b, "- %s: %d (%.1f%%)\n", e.Token, e.Count, e.Percentage)
	}

	fmt.Fprintf(b, "\n## Readability\n\nScore %.0f (%s)\n", result.Readability.Score, result.Readability.ComplexityLevel)
	for _, rec := range result.Readability.Recommendations {
		fmt.Fprintf(b, "- %s\n", rec)
	}
}
