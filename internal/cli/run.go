package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	markov "github.com/MohammadGhaderi0/Diabetes-Markov-Model"
	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/internal/config"
	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/internal/preprocess"
	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/internal/presentation/tui"
	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/pkg/domain"
)

// RunOptions contains the output settings of the run command.
type RunOptions struct {
	JSON         bool
	Report       bool
	Trajectories bool
	Quiet        bool
}

type runOutput struct {
	*domain.CohortResult
	CountsByLabel map[string]int `json:"counts_by_label"`
	Proportions   []float64      `json:"proportions"`
}

// Run simulates a cohort as configured and writes the outcome to out.
func Run(ctx context.Context, cfg *config.Config, opts RunOptions, out io.Writer, logger *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	store := newModelStore(cfg)
	if store != nil {
		defer store.Close()
	}
	engine, err := createEngine(ctx, cfg, newLoader(cfg, store, logger), logger)
	if err != nil {
		return err
	}

	result, expected, err := simulate(ctx, engine, cfg, logger)
	if err := handleExecutionError(err); err != nil {
		return err
	}
	if result == nil {
		if !opts.Quiet {
			if sig := signalOf(ctx); sig != nil {
				printSystemMessage(out, "Interrupted by %s.", sig)
			} else {
				printSystemMessage(out, "Interrupted.")
			}
		}
		return nil
	}

	switch {
	case opts.JSON:
		payload := runOutput{
			CohortResult:  result,
			CountsByLabel: result.CountsByLabel(),
			Proportions:   result.Proportions(),
		}
		if !opts.Trajectories {
			trimmed := *result
			trimmed.Trajectories = nil
			payload.CohortResult = &trimmed
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	case opts.Report:
		rendered, err := tui.RendererFor(out)(tui.Report(engine.Model(), result, expected))
		if err != nil {
			return fmt.Errorf("failed to render report: %w", err)
		}
		_, err = io.WriteString(out, rendered)
		return err
	default:
		fmt.Fprintf(out, "Final state distribution: %s\n", formatCounts(result))
		return nil
	}
}

// simulate runs the cohort either from a single start state or from the
// state mix of a patient data file. expected is nil for the latter.
func simulate(ctx context.Context, engine *markov.Engine, cfg *config.Config, logger *slog.Logger) (*domain.CohortResult, []float64, error) {
	m := engine.Model()
	n := cfg.Simulation.Patients

	if cfg.Simulation.PatientData != "" {
		ds, err := preprocess.LoadFile(cfg.Simulation.PatientData)
		if err != nil {
			return nil, nil, err
		}
		initial, err := ds.Distribution(m)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("initial distribution estimated",
			"path", cfg.Simulation.PatientData,
			"patients", len(ds.Patients),
			"dropped", ds.Dropped,
			"distribution", initial,
		)
		result, err := engine.SimulateCohortFrom(ctx, n, initial)
		return result, nil, err
	}

	start, err := cfg.Simulation.ResolveStart(m)
	if err != nil {
		return nil, nil, err
	}
	result, err := engine.SimulateCohort(ctx, n, start)
	if err != nil {
		return nil, nil, err
	}
	expected, err := engine.ExpectedDistribution(start, engine.Steps())
	if err != nil {
		return nil, nil, err
	}
	return result, expected, nil
}

// formatCounts renders counts in state order, e.g. {Controlled: 1, Death: 0}.
func formatCounts(r *domain.CohortResult) string {
	parts := make([]string, len(r.Labels))
	for i, l := range r.Labels {
		parts[i] = fmt.Sprintf("%s: %d", l, r.Counts[i])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
