package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"datalens/adapters/excel"
	"datalens/app"
	"datalens/domain/analysis"
	"datalens/internal"
	"datalens/internal/engine"
	"datalens/internal/report"
	"datalens/internal/testkit"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "datalens-cli",
		Short: "Run tabular analyses against a data file from the command line",
	}

	rootCmd.AddCommand(
		newTablesCmd(),
		newColumnsCmd(),
		newAnalyzeCmd(),
		newDemoCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newTablesCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "tables",
		Short: "List the tables (sheets) in a data file",
		RunE: func(cmd *cobra.Command, args []string) error {
			service := fileService(file)
			tables, err := service.Tables(cmd.Context())
			if err != nil {
				return err
			}
			for _, t := range tables {
				fmt.Println(t)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Path to .xlsx or .csv data file")
	cmd.MarkFlagRequired("file")
	return cmd
}

func newColumnsCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "columns [table]",
		Short: "Show the typed columns of one table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service := fileService(file)
			columns, err := service.Columns(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, c := range columns {
				fmt.Printf("%s\t%s\n", c.Name, c.Type)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Path to .xlsx or .csv data file")
	cmd.MarkFlagRequired("file")
	return cmd
}

func newAnalyzeCmd() *cobra.Command {
	var (
		file        string
		algorithm   string
		xAxis       string
		timeUnit    string
		format      string
		bins        int
		budget      int
		topN        int
		sensitivity float64
	)

	cmd := &cobra.Command{
		Use:   "analyze [type] [table] [columns...]",
		Short: "Run one analysis against a table",
		Long: `Run one analysis against a table in a data file.

Types: descriptive, correlation, factor, changepoint, histogram,
timeseries, missingdata, text.

Example: datalens-cli analyze changepoint sales revenue --file sales.xlsx --algorithm cusum`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			service := fileService(file)

			req := app.PanelRequest{
				Panel: "cli",
				Table: args[1],
				Request: analysis.Request{
					Type:        analysis.Type(args[0]),
					Columns:     args[2:],
					XAxisColumn: xAxis,
					Algorithm:   algorithm,
					Options: analysis.Options{
						HistogramBins: bins,
						TimeUnit:      timeUnit,
						SampleBudget:  budget,
						TopN:          topN,
						ChangePoint:   analysis.ChangePointOptions{Sensitivity: sensitivity},
					},
				},
			}

			result, err := service.Analyze(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printResult(result, format)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Path to .xlsx or .csv data file")
	cmd.Flags().StringVar(&algorithm, "algorithm", "moving_average", "Change-point algorithm")
	cmd.Flags().StringVar(&xAxis, "x-axis", "", "X-axis column for time series (or 'index')")
	cmd.Flags().StringVar(&timeUnit, "unit", "", "Time bucket unit: hour, day, week, month")
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json, markdown, html")
	cmd.Flags().IntVar(&bins, "bins", 0, "Histogram bin count")
	cmd.Flags().IntVar(&budget, "budget", 0, "Chart point budget for downsampling")
	cmd.Flags().IntVar(&topN, "top-n", 0, "Frequency table size for text analysis")
	cmd.Flags().Float64Var(&sensitivity, "sensitivity", 0, "Change-point threshold multiplier")
	cmd.MarkFlagRequired("file")
	return cmd
}

func newDemoCmd() *cobra.Command {
	var (
		rows   int
		seed   int64
		format string
	)

	cmd := &cobra.Command{
		Use:   "demo [type]",
		Short: "Run one analysis against a seeded synthetic dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gen := testkit.NewGenerator(testkit.Options{Rows: rows, Seed: seed, Missing: testkit.MissingOptions{IncludeNulls: true}})
			snap := gen.Sales()
			fmt.Fprintln(os.Stderr, testkit.Describe(snap))

			req := demoRequest(analysis.Type(args[0]))
			result, err := engine.New().Run(snap, req)
			if err != nil {
				return err
			}
			return printResult(result, format)
		},
	}

	cmd.Flags().IntVar(&rows, "rows", 200, "Synthetic row count")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed")
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json, markdown, html")
	return cmd
}

// demoRequest picks sensible columns from the synthetic sales table for
// each analysis type.
func demoRequest(t analysis.Type) analysis.Request {
	req := analysis.Request{Type: t}
	switch t {
	case analysis.TypeCorrelation, analysis.TypeFactor:
		req.Columns = []string{"units", "revenue", "temperature", "visits"}
	case analysis.TypeText:
		req.Columns = []string{"note"}
	case analysis.TypeTimeSeries:
		req.Columns = []string{"visits"}
		req.XAxisColumn = "date"
		req.Options.TimeUnit = "day"
	case analysis.TypeMissingData:
		req.Columns = []string{"units", "revenue", "note"}
	case analysis.TypeChangePoint:
		req.Columns = []string{"visits"}
		req.Algorithm = "moving_average"
	default:
		req.Columns = []string{"revenue"}
	}
	return req
}

func printResult(result *analysis.Result, format string) error {
	switch format {
	case "markdown":
		fmt.Print(report.ToMarkdown(result))
	case "html":
		os.Stdout.Write(report.ToHTML(result))
	default:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	return nil
}

func fileService(file string) *app.AnalysisService {
	accessor := excel.NewAccessor(file)
	return app.NewAnalysisService(accessor, engine.New(), internal.DefaultLogger, 1)
}
