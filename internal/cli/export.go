package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"sfkit/internal/analysis"
	"sfkit/internal/correction"
	"sfkit/internal/store"
)

// ExportResult reports a completed export.
type ExportResult struct {
	Analysis         string `json:"analysis"`
	EfficiencyFile   string `json:"efficiency_file"`
	ScaleFactorFile  string `json:"scale_factor_file"`
	CanonicalBins    int    `json:"canonical_bins"`
	CorrectionsCount int    `json:"corrections"`
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "export <config>",
		Short: "Combine stored measurements and write correction tables",
		Long: `Combine the stored measurements of an analysis and write its
correctionlib documents.

Reads all six categories from the measurement store, combines them per
canonical bin, reorders to the display grid, and writes
<name>_efficiencies.json and <name>_scalefactors.json. Missing or
malformed measurements fail the export naming the offending bin.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(rootOpts, args[0], outDir, cmd)
		},
	}

	cmd.Flags().StringVarP(&outDir, "output", "o", ".", "output directory")

	return cmd
}

func runExport(opts *RootOptions, configPath, outDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg, err := analysis.Load(configPath)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeConfig, err.Error())
	}

	db, err := store.Open(opts.DBPath)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeStore, err.Error())
	}
	defer db.Close()

	categories, err := db.CountCategories(cmd.Context(), cfg.Name)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeStore, err.Error())
	}
	measurements, err := db.ReadMeasurements(cmd.Context(), cfg.Name)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeStore, err.Error())
	}
	formatter.VerboseLog("Read %d categories across %d bins", categories, len(measurements))

	out, err := analysis.Run(cfg, measurements)
	if err != nil {
		if analysis.IsMeasurementError(err) {
			return fail(formatter, ExitFailure, ErrCodeMeasurements, err.Error())
		}
		return fail(formatter, ExitFailure, ErrCodeBinning, err.Error())
	}

	effPath := filepath.Join(outDir, cfg.Name+"_efficiencies.json")
	sfPath := filepath.Join(outDir, cfg.Name+"_scalefactors.json")
	if err := writeSet(effPath, out.Efficiencies); err != nil {
		return fail(formatter, ExitCommandError, ErrCodeWriteFailed, err.Error())
	}
	if err := writeSet(sfPath, out.ScaleFactors); err != nil {
		return fail(formatter, ExitCommandError, ErrCodeWriteFailed, err.Error())
	}

	result := ExportResult{
		Analysis:         cfg.Name,
		EfficiencyFile:   effPath,
		ScaleFactorFile:  sfPath,
		CanonicalBins:    len(measurements),
		CorrectionsCount: len(out.Efficiencies.Corrections) + len(out.ScaleFactors.Corrections),
	}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "✓ exported %s\n", result.Analysis)
	fmt.Fprintf(formatter.Writer, "  %s\n", result.EfficiencyFile)
	fmt.Fprintf(formatter.Writer, "  %s\n", result.ScaleFactorFile)
	return nil
}

func writeSet(path string, set correction.Set) error {
	data, err := set.Encode()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
