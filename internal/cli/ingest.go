package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sfkit/internal/aggregate"
	"sfkit/internal/analysis"
	"sfkit/internal/store"
)

// IngestResult reports one completed ingest.
type IngestResult struct {
	Analysis string `json:"analysis"`
	Category string `json:"category"`
	Bins     int    `json:"bins"`
	BatchID  string `json:"batch_id"`
}

// NewIngestCommand creates the ingest command.
func NewIngestCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <config> <category> <file>",
		Short: "Ingest a fit engine efficiency file",
		Long: `Ingest one fit engine output into the measurement store.

The file is a JSON array of [efficiency, uncertainty] pairs indexed by
canonical bin, as produced by the fit engine for one systematic category.
The array length must match the config's canonical bin count. Re-ingesting
a category replaces its rows under a fresh batch id.

Categories: data_nom, data_altsig, data_altbkg, data_altsigbkg, sim_nom, sim_alt.`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(rootOpts, args[0], args[1], args[2], cmd)
		},
	}

	return cmd
}

func runIngest(opts *RootOptions, configPath, category, filePath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cat := aggregate.Category(category)
	if !aggregate.ValidCategory(cat) {
		return fail(formatter, ExitCommandError, ErrCodeInput,
			fmt.Sprintf("unknown category %q", category))
	}

	cfg, err := analysis.Load(configPath)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeConfig, err.Error())
	}
	scheme, err := cfg.Scheme()
	if err != nil {
		return fail(formatter, ExitFailure, ErrCodeBinning, err.Error())
	}

	values, err := readEfficiencyFile(filePath, scheme.NumBins())
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeInput, err.Error())
	}

	db, err := store.Open(opts.DBPath)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeStore, err.Error())
	}
	defer db.Close()

	batchID, err := db.WriteBatch(cmd.Context(), cfg.Name, cat, values)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeStore, err.Error())
	}

	result := IngestResult{
		Analysis: cfg.Name,
		Category: category,
		Bins:     len(values),
		BatchID:  batchID,
	}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "✓ ingested %d bins of %s for %s (batch %s)\n",
		result.Bins, result.Category, result.Analysis, result.BatchID)
	return nil
}

// readEfficiencyFile parses a fit engine efficiency file: a JSON array of
// [efficiency, uncertainty] pairs indexed by canonical bin.
func readEfficiencyFile(path string, wantBins int) ([]aggregate.Measurement, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var pairs [][]float64
	if err := json.Unmarshal(raw, &pairs); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(pairs) != wantBins {
		return nil, fmt.Errorf("%s: %d entries, config has %d canonical bins",
			path, len(pairs), wantBins)
	}

	values := make([]aggregate.Measurement, len(pairs))
	for i, p := range pairs {
		if len(p) != 2 {
			return nil, fmt.Errorf("%s: entry %d has %d values, want [eff, unc]",
				path, i, len(p))
		}
		values[i] = aggregate.Measurement{Eff: p[0], Unc: p[1]}
	}
	return values, nil
}
