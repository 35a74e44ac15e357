package analysis

import (
	"fmt"

	"datalens/domain/core"
	"datalens/domain/table"
)

// Type identifies one analysis engine
type Type string

const (
	TypeDescriptive Type = "descriptive"
	TypeCorrelation Type = "correlation"
	TypeFactor      Type = "factor" // host-app label; the computation is PCA
	TypeChangePoint Type = "changepoint"
	TypeHistogram   Type = "histogram"
	TypeTimeSeries  Type = "timeseries"
	TypeMissingData Type = "missingdata"
	TypeText        Type = "text"
)

// Spec declares the column arity and column type an analysis accepts
type Spec struct {
	MinColumns   int
	MaxColumns   int // 0 means unbounded
	RequiredType table.ColumnType
}

var specs = map[Type]Spec{
	TypeDescriptive: {MinColumns: 1, MaxColumns: 0, RequiredType: table.TypeNumeric},
	TypeCorrelation: {MinColumns: 2, MaxColumns: 0, RequiredType: table.TypeNumeric},
	TypeFactor:      {MinColumns: 2, MaxColumns: 0, RequiredType: table.TypeNumeric},
	TypeChangePoint: {MinColumns: 1, MaxColumns: 1, RequiredType: table.TypeNumeric},
	TypeHistogram:   {MinColumns: 1, MaxColumns: 1, RequiredType: table.TypeNumeric},
	TypeTimeSeries:  {MinColumns: 1, MaxColumns: 1, RequiredType: table.TypeNumeric},
	TypeMissingData: {MinColumns: 1, MaxColumns: 0, RequiredType: ""},
	TypeText:        {MinColumns: 1, MaxColumns: 1, RequiredType: table.TypeText},
}

// SpecFor returns the selection spec for an analysis type.
func SpecFor(t Type) (Spec, bool) {
	s, ok := specs[t]
	return s, ok
}

// Types lists all known analysis types.
func Types() []Type {
	return []Type{
		TypeDescriptive, TypeCorrelation, TypeFactor, TypeChangePoint,
		TypeHistogram, TypeTimeSeries, TypeMissingData, TypeText,
	}
}

// ChangePointOptions carries per-algorithm tuning. Zero values select the
// engine defaults.
type ChangePointOptions struct {
	Sensitivity float64 `json:"sensitivity,omitempty"`  // threshold multiplier, default 1
	ShortWindow int     `json:"short_window,omitempty"` // moving average short window
	LongWindow  int     `json:"long_window,omitempty"`  // moving average long window
	Lambda      float64 `json:"lambda,omitempty"`       // EWMA smoothing factor
	MinSegment  int     `json:"min_segment,omitempty"`  // binary segmentation minimum segment
}

// Options holds per-request tuning shared across engines
type Options struct {
	Missing       table.MissingPolicy `json:"missing"`
	HistogramBins int                 `json:"histogram_bins,omitempty"` // default 10
	TimeUnit      string              `json:"time_unit,omitempty"`      // hour|day|week|month|index
	SampleBudget  int                 `json:"sample_budget,omitempty"`  // chart point budget, default 500
	TopN          int                 `json:"top_n,omitempty"`          // frequency table size, default 10
	ChangePoint   ChangePointOptions  `json:"change_point,omitempty"`
}

// Request describes one analysis invocation
type Request struct {
	Type        Type     `json:"type"`
	Columns     []string `json:"columns"`
	XAxisColumn string   `json:"x_axis_column,omitempty"`
	Algorithm   string   `json:"algorithm,omitempty"` // change-point only
	Options     Options  `json:"options"`
}

// Validate checks column arity against the analysis spec. Column type
// checks need the snapshot and live in the engine.
func (r Request) Validate() error {
	spec, ok := SpecFor(r.Type)
	if !ok {
		return fmt.Errorf("unknown analysis type %q", r.Type)
	}
	if len(r.Columns) < spec.MinColumns {
		return fmt.Errorf("%s requires at least %d column(s), got %d", r.Type, spec.MinColumns, len(r.Columns))
	}
	if spec.MaxColumns > 0 && len(r.Columns) > spec.MaxColumns {
		return fmt.Errorf("%s accepts at most %d column(s), got %d", r.Type, spec.MaxColumns, len(r.Columns))
	}
	return nil
}

// ============================================================================
// RESULT ENVELOPES
// ============================================================================

// SamplingInfo reports how a chart series was downsampled
type SamplingInfo struct {
	SamplingRatio float64 `json:"sampling_ratio"` // 0 < r <= 1
	Method        string  `json:"method"`
}

// PerformanceMetrics reports timing and size of one engine invocation.
// ProcessingTimeMs is the only non-deterministic field in any result.
type PerformanceMetrics struct {
	ProcessingTimeMs float64 `json:"processing_time_ms"`
	OriginalSize     int     `json:"original_size"`
	ProcessedSize    int     `json:"processed_size"`
}

// Point is one chart point handed to the rendering layer
type Point struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Label string  `json:"label,omitempty"`
}

// Quartiles holds the interpolated quartile values
type Quartiles struct {
	Q1 float64 `json:"q1"`
	Q2 float64 `json:"q2"`
	Q3 float64 `json:"q3"`
}

// DescriptiveResult is the per-column summary. Available is false when no
// non-missing values remain; the numeric fields are then meaningless and
// must not be read as zeros.
type DescriptiveResult struct {
	Column       string    `json:"column"`
	Available    bool      `json:"available"`
	Count        int       `json:"count"`
	Mean         float64   `json:"mean"`
	Std          float64   `json:"std"` // population standard deviation
	Min          float64   `json:"min"`
	Max          float64   `json:"max"`
	Quartiles    Quartiles `json:"quartiles"`
	MissingRatio float64   `json:"missing_ratio"`
}

// CorrelationPair is one unordered column pair
type CorrelationPair struct {
	Column1     string  `json:"column1"`
	Column2     string  `json:"column2"`
	Correlation float64 `json:"correlation"`
	SampleSize  int     `json:"sample_size"`
}

// CorrelationResult holds all n*(n-1)/2 pairs in selection order
type CorrelationResult struct {
	Pairs []CorrelationPair `json:"pairs"`
}

// Loading is one variable's weight in a component's eigenvector
type Loading struct {
	Variable string  `json:"variable"`
	Loading  float64 `json:"loading"`
}

// FactorComponent is one principal component, ranked by eigenvalue
type FactorComponent struct {
	Name       string    `json:"name"`
	Variance   float64   `json:"variance"` // eigenvalue share, sums to 1
	Eigenvalue float64   `json:"eigenvalue"`
	Loadings   []Loading `json:"loadings"`
}

// FactorAnalysisResult keeps the host application's "factor analysis"
// label; the computation is principal component analysis.
type FactorAnalysisResult struct {
	Components []FactorComponent `json:"components"`
	SampleSize int               `json:"sample_size"`
}

// ChangePoint is one detected shift in an ordered series
type ChangePoint struct {
	Index      int     `json:"index"`
	Value      float64 `json:"value"`
	Confidence float64 `json:"confidence"` // 0-1
}

// ChangePointStatistics summarizes one detector run
type ChangePointStatistics struct {
	Algorithm         string   `json:"algorithm"`
	AverageConfidence float64  `json:"average_confidence"`
	Threshold         *float64 `json:"threshold,omitempty"`
	GlobalStd         *float64 `json:"global_std,omitempty"`
}

// ChangePointResult carries the detections plus a chart-budgeted view of
// the series. Detection always runs on the full series.
type ChangePointResult struct {
	ChangePoints []ChangePoint         `json:"change_points"`
	Statistics   ChangePointStatistics `json:"statistics"`
	Series       []Point               `json:"series,omitempty"`
	Sampling     *SamplingInfo         `json:"sampling,omitempty"`
}

// HistogramBin is one equal-width bin
type HistogramBin struct {
	Bin        string  `json:"bin"` // "<lower>–<upper>" label
	LowerBound float64 `json:"lower_bound"`
	UpperBound float64 `json:"upper_bound"`
	Count      int     `json:"count"`
	Frequency  float64 `json:"frequency"` // percentage of total
}

// HistogramResult holds the ordered bins
type HistogramResult struct {
	Bins  []HistogramBin `json:"bins"`
	Total int            `json:"total"` // non-missing value count
}

// TimeSeriesPoint is one aggregated bucket
type TimeSeriesPoint struct {
	Time          string   `json:"time"`
	Value         float64  `json:"value"`
	MovingAverage *float64 `json:"moving_average,omitempty"`
}

// Trend is the OLS fit over bucket index vs aggregate value
type Trend struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	Direction string  `json:"direction"` // increasing|decreasing|stable
}

// TimeSeriesSummary aggregates the whole series
type TimeSeriesSummary struct {
	Mean                float64 `json:"mean"`
	Trend               Trend   `json:"trend"`
	MovingAverageWindow int     `json:"moving_average_window"`
}

// TimeSeriesResult is the bucketed aggregation plus summary
type TimeSeriesResult struct {
	Points   []TimeSeriesPoint `json:"points"`
	Summary  TimeSeriesSummary `json:"summary"`
	Sampling *SamplingInfo     `json:"sampling,omitempty"`
}

// MissingEventType tags run-length transitions
type MissingEventType string

const (
	MissingStart MissingEventType = "missing_start"
	MissingEnd   MissingEventType = "missing_end"
)

// MissingEvent is one present<->missing transition in snapshot order
type MissingEvent struct {
	Type          MissingEventType `json:"type"`
	RowIndex      int              `json:"row_index"`
	ColumnName    string           `json:"column_name"`
	Value         table.Value      `json:"value"`
	MissingLength int              `json:"missing_length,omitempty"` // missing_end only
}

// MissingSummary totals events across all scanned columns
type MissingSummary struct {
	TotalEvents          int `json:"total_events"`
	MissingStartEvents   int `json:"missing_start_events"`
	MissingEndEvents     int `json:"missing_end_events"`
	LongestMissingStreak int `json:"longest_missing_streak"`
}

// MissingColumnStats summarizes one column's missing runs
type MissingColumnStats struct {
	TotalMissingEvents   int     `json:"total_missing_events"`
	MissingPercentage    float64 `json:"missing_percentage"`
	AverageMissingLength float64 `json:"average_missing_length"`
	MaxMissingLength     int     `json:"max_missing_length"`
}

// MissingDataResult is the run-length missing span report
type MissingDataResult struct {
	Events      []MissingEvent                `json:"events"`
	Summary     MissingSummary                `json:"summary"`
	ColumnStats map[string]MissingColumnStats `json:"column_stats"`
}

// ============================================================================
// TEXT ANALYSIS RESULT
// ============================================================================

// TextBasicStats are record-level counts for one text column
type TextBasicStats struct {
	RecordCount     int     `json:"record_count"`
	EmptyCount      int     `json:"empty_count"`
	EmptyRatio      float64 `json:"empty_ratio"`
	UniqueCount     int     `json:"unique_count"`
	UniquenessRatio float64 `json:"uniqueness_ratio"`
	TotalCharacters int     `json:"total_characters"`
	TotalWords      int     `json:"total_words"`
	AvgCharsPerItem float64 `json:"avg_chars_per_item"`
	AvgWordsPerItem float64 `json:"avg_words_per_item"`
}

// FrequencyEntry is one token/character with its share of occurrences
type FrequencyEntry struct {
	Token      string  `json:"token"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// PatternStat reports fixed-regex pattern occurrence (email, URL, phone)
type PatternStat struct {
	Pattern     string  `json:"pattern"`
	Description string  `json:"description"`
	Count       int     `json:"count"`
	Percentage  float64 `json:"percentage"`
}

// LanguageStat reports the share of records matching one script class
type LanguageStat struct {
	Language   string  `json:"language"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
	AvgLength  float64 `json:"avg_length"`
}

// SentenceStats summarizes sentence segmentation
type SentenceStats struct {
	SentenceCount     int            `json:"sentence_count"`
	AvgSentenceLength float64        `json:"avg_sentence_length"` // words per sentence
	PunctuationCounts map[string]int `json:"punctuation_counts"`
}

// ReadabilityReport is the bounded readability estimate
type ReadabilityReport struct {
	Score           float64  `json:"score"` // 0-100, higher reads easier
	ComplexityLevel string   `json:"complexity_level"`
	AvgWordLength   float64  `json:"avg_word_length"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// TextAnalysisResult is the full text column profile
type TextAnalysisResult struct {
	Column        string            `json:"column"`
	Basic         TextBasicStats    `json:"basic"`
	WordFrequency []FrequencyEntry  `json:"word_frequency"`
	CharFrequency []FrequencyEntry  `json:"char_frequency"`
	Patterns      []PatternStat     `json:"patterns"`
	Languages     []LanguageStat    `json:"languages"`
	Sentences     SentenceStats     `json:"sentences"`
	Readability   ReadabilityReport `json:"readability"`
}

// Result is the tagged per-type analysis result. Exactly one payload field
// is set, matching Type.
type Result struct {
	AnalysisID  core.AnalysisID       `json:"analysis_id"`
	Type        Type                  `json:"type"`
	Descriptive []DescriptiveResult   `json:"descriptive,omitempty"`
	Correlation *CorrelationResult    `json:"correlation,omitempty"`
	Factor      *FactorAnalysisResult `json:"factor,omitempty"`
	ChangePoint *ChangePointResult    `json:"change_point,omitempty"`
	Histogram   *HistogramResult      `json:"histogram,omitempty"`
	TimeSeries  *TimeSeriesResult     `json:"time_series,omitempty"`
	MissingData *MissingDataResult    `json:"missing_data,omitempty"`
	Text        *TextAnalysisResult   `json:"text,omitempty"`
	Performance *PerformanceMetrics   `json:"performance,omitempty"`
	ComputedAt  core.Timestamp        `json:"computed_at"`
}
