package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"studentrisk/app"
	"studentrisk/internal/config"
	"studentrisk/internal/profiling"
	"studentrisk/internal/report"
)

func main() {
	var datasetPath string

	rootCmd := &cobra.Command{
		Use:   "studentrisk-cli",
		Short: "Inspect the student dropout-risk model from the terminal",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
		},
	}
	rootCmd.PersistentFlags().StringVar(&datasetPath, "dataset", "", "Dataset path (overrides DATASET_PATH)")

	rootCmd.AddCommand(
		newReportCmd(&datasetPath),
		newSummaryCmd(&datasetPath),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func bootstrap(ctx context.Context, datasetPath string) (*app.Session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if datasetPath != "" {
		cfg.Dataset.Path = datasetPath
	}
	sess, err := app.Bootstrap(ctx, app.BootstrapConfigFrom(cfg), app.Dependencies{})
	if err != nil {
		return nil, err
	}
	if sess.Halted() {
		return nil, fmt.Errorf("%s", sess.Halt.Message)
	}
	return sess, nil
}

func newReportCmd(datasetPath *string) *cobra.Command {
	var row int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the risk report for one student",
		Long: `Train the model on the configured dataset and print the report for one row.

Example: studentrisk-cli report --row 12`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := bootstrap(cmd.Context(), *datasetPath)
			if err != nil {
				return err
			}
			bounds := sess.Bounds()
			if !bounds.Contains(row) {
				return fmt.Errorf("row %d out of range [%d, %d]", row, bounds.Min, bounds.Max)
			}
			rep, err := sess.Render(cmd.Context(), row)
			if err != nil {
				return err
			}
			return printReport(cmd.OutOrStdout(), rep, asJSON)
		},
	}

	cmd.Flags().IntVar(&row, "row", 0, "Student row index")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	return cmd
}

func printReport(w io.Writer, rep *report.Report, asJSON bool) error {
	if !asJSON {
		return report.WriteText(w, rep)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

func newSummaryCmd(datasetPath *string) *cobra.Command {
	var withProfile bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print dataset, label and accuracy summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := bootstrap(cmd.Context(), *datasetPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			notAtRisk, atRisk := sess.Labels.Counts()
			fmt.Fprintf(out, "Dataset:      %s (%d rows, %d columns)\n", sess.Table.Path, sess.Table.Rows(), len(sess.Table.Columns()))
			fmt.Fprintf(out, "Fingerprint:  %s\n", sess.Table.Fingerprint.Short())
			fmt.Fprintf(out, "Label rule:   %s (dropped %s)\n", sess.Labels.Rule, strings.Join(sess.Labels.Dropped, ", "))
			fmt.Fprintf(out, "At risk:      %d\n", atRisk)
			fmt.Fprintf(out, "Not at risk:  %d\n", notAtRisk)
			fmt.Fprintf(out, "Split:        %d train / %d test (%s)\n",
				len(sess.Model.Split.Train), len(sess.Model.Split.Test), sess.Model.Split.Fingerprint().Short())
			fmt.Fprintf(out, "Accuracy:     %.2f%%\n", sess.Model.Accuracy*100)

			if withProfile {
				printProfile(out, profiling.ProfileFrame(sess.Labels.Features))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&withProfile, "profile", false, "Also print per-column feature statistics")
	return cmd
}

func printProfile(w io.Writer, p profiling.Profile) {
	fmt.Fprintf(w, "\n%-12s %8s %8s %8s %8s %8s %8s\n", "column", "mean", "std", "min", "median", "max", "outliers")
	for _, c := range p.Numeric {
		fmt.Fprintf(w, "%-12s %8.2f %8.2f %8.2f %8.2f %8.2f %8d\n",
			c.Name, c.Mean, c.StdDev, c.Min, c.Median, c.Max, c.Outliers)
	}
	if len(p.Categorical) > 0 {
		fmt.Fprintln(w)
	}
	for _, c := range p.Categorical {
		parts := make([]string, 0, len(c.Levels))
		for _, level := range c.SortedLevels() {
			parts = append(parts, fmt.Sprintf("%s=%d", level, c.Levels[level]))
		}
		fmt.Fprintf(w, "%-12s %s\n", c.Name, strings.Join(parts, " "))
	}
}
