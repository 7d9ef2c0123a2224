package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"sheetlint/adapters/excel"
	"sheetlint/api"
	"sheetlint/app"
	"sheetlint/domain/table"
	"sheetlint/internal/config"
	"sheetlint/ports"
)

func main() {
	// Optional .env for local development; absence is fine
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "sheetlint",
		Short: "Spreadsheet type inference and missing-value diagnostics",
		Long: `sheetlint loads a tabular file (xlsx or csv), infers per-column types
under an explicit missing-value sentinel set, and reports the cells that
forced a column to fall back to text.

A column stays numeric only when every non-missing cell parses as a number.
One unrecognized marker like "NA" silently turns the whole column into
text - and every distinct value into its own category downstream. Run
"scan" to see the damage, "compare" to see what a corrected sentinel set
recovers.`,
	}

	rootCmd.AddCommand(
		newScanCmd(),
		newCompareCmd(),
		newServeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newReaderFactory() ports.ReaderFactory {
	return func(path, sheetName string) ports.SourceReader {
		cfg := excel.DefaultReaderConfig()
		if sheetName != "" {
			cfg.SheetName = sheetName
		}
		return excel.NewDataReader(path, cfg)
	}
}

func newScanCmd() *cobra.Command {
	var sheet string
	var na []string
	var commonNA bool

	cmd := &cobra.Command{
		Use:   "scan <file>",
		Short: "Load a file, infer column types, and report diagnostics",
		Long: `Load a tabular file and print the inferred schema, parse diagnostics
grouped by column, and per-column summary statistics.

Example: sheetlint scan survey.xlsx --sheet Responses --na "" --na NA`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			sentinels := buildSentinels(na, commonNA)
			if len(sentinels) == 0 {
				// No flags given: fall back to SHEETLINT_NA from the
				// environment. An empty result stays empty - the buggy
				// default is the point of the exercise.
				sentinels = table.NewSentinelSet(cfg.Data.Sentinels...)
			}
			if sheet == "" {
				sheet = cfg.Data.SheetName
			}
			ingest := app.NewIngestService(newReaderFactory())
			result, err := ingest.Load(cmd.Context(), app.LoadRequest{
				Path:      args[0],
				SheetName: sheet,
				Sentinels: sentinels,
			})
			if err != nil {
				return err
			}

			profiler := app.NewProfileService()
			profile, err := profiler.Profile(result.Table)
			if err != nil {
				return err
			}

			printSchema(result)
			printDiagnostics(result.Diagnostics)
			printProfile(profile)
			return nil
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "sheet name for xlsx sources (default Sheet1)")
	cmd.Flags().StringArrayVar(&na, "na", nil, "string treated as a missing value (repeatable)")
	cmd.Flags().BoolVar(&commonNA, "common-na", false, "also treat conventional markers (\"\", NA, N/A, NULL, -, #N/A) as missing")
	return cmd
}

func newCompareCmd() *cobra.Command {
	var sheet string
	var beforeNA, afterNA []string

	cmd := &cobra.Command{
		Use:   "compare <file>",
		Short: "Profile a file under two sentinel sets and show the drift",
		Long: `Infer the same file twice - once per sentinel set - and report which
columns changed kind and how their statistics moved.

Example: sheetlint compare survey.csv --after-na "" --after-na NA`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if sheet == "" {
				sheet = cfg.Data.SheetName
			}
			raw, err := newReaderFactory()(args[0], sheet).ReadData()
			if err != nil {
				return err
			}

			profiler := app.NewProfileService()
			comparison, err := profiler.Compare(*raw,
				table.NewSentinelSet(beforeNA...),
				table.NewSentinelSet(afterNA...))
			if err != nil {
				return err
			}

			printComparison(comparison)
			return nil
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "sheet name for xlsx sources (default Sheet1)")
	cmd.Flags().StringArrayVar(&beforeNA, "before-na", nil, "sentinel in the first configuration (repeatable)")
	cmd.Flags().StringArrayVar(&afterNA, "after-na", nil, "sentinel in the second configuration (repeatable)")
	return cmd
}

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP inspection API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Server.Port = port
			}

			// Uploads may name a sheet per request; the configured name
			// is the fallback.
			factory := func(path, sheetName string) ports.SourceReader {
				readerCfg := excel.ReaderConfig{SheetName: cfg.Data.SheetName}
				if sheetName != "" {
					readerCfg.SheetName = sheetName
				}
				return excel.NewDataReader(path, readerCfg)
			}
			ingest := app.NewIngestService(factory)
			server := api.NewServer(ingest, app.NewProfileService())

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.Run(ctx, ":"+cfg.Server.Port)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides SHEETLINT_PORT)")
	return cmd
}

func buildSentinels(na []string, includeCommon bool) table.SentinelSet {
	sentinels := table.NewSentinelSet(na...)
	if includeCommon {
		for v := range table.CommonSentinels() {
			sentinels[v] = struct{}{}
		}
	}
	return sentinels
}

func printSchema(result *app.LoadResult) {
	fmt.Printf("Loaded %s (%d rows, %d columns, sentinels %v)\n\n",
		result.Path, result.Table.RowCount(), len(result.Table.Headers), result.Sentinels)
	fmt.Println("Columns:")
	for _, header := range result.Table.Headers {
		col := result.Table.Columns[header]
		fmt.Printf("  %-24s %-8s missing=%d\n", header, col.Kind, col.MissingCount())
	}
	fmt.Println()
}

func printDiagnostics(diags table.DiagnosticSet) {
	if len(diags) == 0 {
		fmt.Println("No parse diagnostics.")
		fmt.Println()
		return
	}
	fmt.Printf("Diagnostics (%d):\n", len(diags))
	grouped := diags.ByColumn()
	for _, column := range diags.Columns() {
		entries := grouped[column]
		fmt.Printf("  %s (%d cell(s) forced this column to text):\n", column, len(entries))
		for _, d := range entries {
			fmt.Printf("    row %d: %q\n", d.Row, d.Value)
		}
	}
	fmt.Println()
}

func printProfile(profile *app.TableProfile) {
	fmt.Println("Profile:")
	for _, col := range profile.Columns {
		if col.Summary != nil {
			fmt.Printf("  %-24s mean=%.4g median=%.4g sd=%.4g min=%.4g max=%.4g\n",
				col.Name, col.Summary.Mean, col.Summary.Median, col.Summary.StdDev,
				col.Summary.Min, col.Summary.Max)
			continue
		}
		if col.Kind == table.ColumnText {
			fmt.Printf("  %-24s text, %d distinct categories\n", col.Name, col.UniqueCount)
			continue
		}
		fmt.Printf("  %-24s numeric, all values missing\n", col.Name)
	}

	if profile.Correlations != nil {
		fmt.Println("\nCorrelations:")
		m := profile.Correlations
		for i, a := range m.Columns {
			for j, b := range m.Columns {
				if j <= i {
					continue
				}
				fmt.Printf("  %s ~ %s: %.4f\n", a, b, m.Values[i][j])
			}
		}
	}
	fmt.Println()
}

func printComparison(c *app.ProfileComparison) {
	fmt.Printf("Sentinels before: %v (%d diagnostics)\n", c.BeforeSentinels, c.BeforeDiagnostic)
	fmt.Printf("Sentinels after:  %v (%d diagnostics)\n\n", c.AfterSentinels, c.AfterDiagnostic)

	if len(c.KindChanges) == 0 {
		fmt.Println("No columns changed kind.")
	} else {
		fmt.Println("Columns that changed kind:")
		for _, change := range c.KindChanges {
			fmt.Printf("  %-24s %s -> %s\n", change.Column, change.Before, change.After)
		}
	}
	fmt.Println()

	// Show the recovered numeric summaries side by side where possible
	afterByName := make(map[string]app.ColumnProfile, len(c.After.Columns))
	for _, col := range c.After.Columns {
		afterByName[col.Name] = col
	}
	var changed []string
	for _, change := range c.KindChanges {
		changed = append(changed, change.Column)
	}
	sort.Strings(changed)
	for _, name := range changed {
		after, ok := afterByName[name]
		if !ok || after.Summary == nil {
			continue
		}
		fmt.Printf("Recovered %s: mean=%.4g median=%.4g sd=%.4g (missing=%d)\n",
			name, after.Summary.Mean, after.Summary.Median, after.Summary.StdDev, after.MissingCount)
	}

	fmt.Println("\nBefore profile:")
	printProfile(c.Before)
	fmt.Println("After profile:")
	printProfile(c.After)
}
