package main

import (
	"context"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/arbor-analytics/causalprep/internal/prep"
	"github.com/arbor-analytics/causalprep/internal/store"
	"github.com/arbor-analytics/causalprep/internal/tabio"
)

var (
	prepInput   string
	prepProfile bool
	prepReport  string
	prepNoStore bool
)

var prepCmd = &cobra.Command{
	Use:   "prep",
	Short: "Run the dataset preparation pipeline",
	Long: `Reads the raw dataset, runs the preparation pipeline, and writes the
train/valid/test partitions configured under datasets.processed.

Examples:
  # Use datasets.raw from config.yaml
  causalprep prep

  # Override the input file and emit a column profile report
  causalprep prep --input data/raw/census.csv --profile --report profile.yaml`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.ValidateFeatures(); err != nil {
			return err
		}
		input := prepInput
		if input == "" {
			input = cfg.Datasets.Raw
		}
		if input == "" {
			return eris.New("prep: no input dataset (set datasets.raw or --input)")
		}

		raw, err := tabio.ReadFile(input)
		if err != nil {
			return eris.Wrap(err, "prep: read input")
		}
		zap.L().Info("loaded raw dataset",
			zap.String("path", input),
			zap.Int("rows", raw.NumRows()),
			zap.Int("columns", raw.NumCols()))

		var st store.Store
		var run *store.Run
		if !prepNoStore {
			st, run, err = beginRun(ctx, input)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck
		}

		res, err := prep.Run(raw, pipelineColumns(), prep.Options{
			Seed:           cfg.Split.Seed,
			ProfileColumns: prepProfile || prepReport != "",
		})
		if err != nil {
			recordFailure(ctx, st, run, err)
			return err
		}

		if err := writePartitions(ctx, res); err != nil {
			recordFailure(ctx, st, run, err)
			return err
		}

		if prepReport != "" {
			if err := writeProfileReport(prepReport, res.Profiles); err != nil {
				recordFailure(ctx, st, run, err)
				return err
			}
		}

		if st != nil {
			if err := st.CompleteRun(ctx, run.ID, store.RunCounts{
				RowsIn:          raw.NumRows(),
				RowsSelected:    res.SelectedRows,
				RowsTrain:       res.Train.NumRows(),
				RowsValid:       res.Valid.NumRows(),
				RowsTest:        res.Test.NumRows(),
				TreatmentMedian: res.TreatmentMedian,
			}); err != nil {
				return eris.Wrap(err, "prep: record run")
			}
			zap.L().Info("recorded run", zap.String("run_id", run.ID))
		}

		return nil
	},
}

func pipelineColumns() prep.Columns {
	return prep.Columns{
		Age:         cfg.Features.AgeCol,
		Citizen:     cfg.Features.CitizenCol,
		Cost:        cfg.Features.CostCol,
		Hour:        cfg.Features.HourCol,
		Gain:        cfg.Features.GainCol,
		Binary:      cfg.Features.BinaryCols,
		Categorical: cfg.Features.CategoricalCols,
	}
}

func beginRun(ctx context.Context, input string) (store.Store, *store.Run, error) {
	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return nil, nil, eris.Wrap(err, "prep: open store")
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, nil, eris.Wrap(err, "prep: migrate store")
	}
	run, err := st.CreateRun(ctx, input)
	if err != nil {
		st.Close() //nolint:errcheck
		return nil, nil, eris.Wrap(err, "prep: create run")
	}
	return st, run, nil
}

func recordFailure(ctx context.Context, st store.Store, run *store.Run, runErr error) {
	if st == nil {
		return
	}
	if err := st.FailRun(ctx, run.ID, runErr); err != nil {
		zap.L().Warn("failed to record run failure", zap.Error(err))
	}
}

// writePartitions writes the three partitions concurrently. Any failure
// fails the whole run; partial outputs are not valid.
func writePartitions(ctx context.Context, res *prep.Result) error {
	g, _ := errgroup.WithContext(ctx)

	outputs := []struct {
		path string
		rows int
		part func() error
	}{
		{cfg.Datasets.Processed.Train, res.Train.NumRows(), func() error { return tabio.WriteCSV(cfg.Datasets.Processed.Train, res.Train) }},
		{cfg.Datasets.Processed.Valid, res.Valid.NumRows(), func() error { return tabio.WriteCSV(cfg.Datasets.Processed.Valid, res.Valid) }},
		{cfg.Datasets.Processed.Test, res.Test.NumRows(), func() error { return tabio.WriteCSV(cfg.Datasets.Processed.Test, res.Test) }},
	}
	for _, out := range outputs {
		g.Go(out.part)
	}
	if err := g.Wait(); err != nil {
		return eris.Wrap(err, "prep: write partitions")
	}
	for _, out := range outputs {
		zap.L().Info("wrote partition", zap.String("path", out.path), zap.Int("rows", out.rows))
	}
	return nil
}

func writeProfileReport(path string, profiles []prep.ColumnProfile) error {
	data, err := yaml.Marshal(profiles)
	if err != nil {
		return eris.Wrap(err, "prep: marshal profile report")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrap(err, "prep: write profile report")
	}
	return nil
}

func init() {
	prepCmd.Flags().StringVar(&prepInput, "input", "", "raw dataset path (overrides datasets.raw)")
	prepCmd.Flags().BoolVar(&prepProfile, "profile", false, "log a per-column profile of the encoded dataset")
	prepCmd.Flags().StringVar(&prepReport, "report", "", "write the column profile to this YAML file (implies --profile)")
	prepCmd.Flags().BoolVar(&prepNoStore, "no-store", false, "skip recording the run in the history store")

	rootCmd.AddCommand(prepCmd)
}
