package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"sfkit/internal/analysis"
)

// ValidationResult holds the outcome of validating one analysis config.
type ValidationResult struct {
	Valid         bool   `json:"valid"`
	Name          string `json:"name"`
	Era           string `json:"era"`
	Layout        string `json:"layout"`
	CanonicalBins int    `json:"canonical_bins"`
	DisplayRows   int    `json:"display_rows"`
	DisplayCols   int    `json:"display_cols"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <config>",
		Short: "Validate an analysis configuration",
		Long: `Validate an analysis configuration and its binning.

Loads the YAML config, checks it against the schema, and constructs the
binning scheme so edge monotonicity, gap bracketing, overflow adjacency,
and bin representability all surface before any fitting starts.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, configPath string, cmd *cobra.Command) error {
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

	formatter.VerboseLog("Loaded config %s (era %s)", cfg.Name, cfg.Era)

	scheme, err := cfg.Scheme()
	if err != nil {
		return fail(formatter, ExitFailure, ErrCodeBinning, err.Error())
	}

	result := ValidationResult{
		Valid:         true,
		Name:          cfg.Name,
		Era:           cfg.Era,
		Layout:        scheme.Layout(),
		CanonicalBins: scheme.NumBins(),
		DisplayRows:   len(scheme.DisplayPtEdges()) - 1,
		DisplayCols:   len(scheme.DisplayEtaEdges()) - 1,
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ %s valid\n", cfg.Name)
	fmt.Fprintf(formatter.Writer, "  era:    %s\n", result.Era)
	fmt.Fprintf(formatter.Writer, "  layout: %s\n", result.Layout)
	fmt.Fprintf(formatter.Writer, "  bins:   %d canonical, %dx%d display\n",
		result.CanonicalBins, result.DisplayRows, result.DisplayCols)
	return nil
}
