package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/internal/config"
	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/internal/preprocess"
	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/internal/presentation/graph"
	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/internal/validator"
	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/pkg/adapters/file"
)

// Graph writes the Mermaid diagram of the configured model.
// With overlay, one simulated trajectory from the configured start is highlighted.
func Graph(ctx context.Context, cfg *config.Config, overlay bool, out io.Writer, logger *slog.Logger) error {
	store := newModelStore(cfg)
	if store != nil {
		defer store.Close()
	}
	engine, err := createEngine(ctx, cfg, newLoader(cfg, store, logger), logger)
	if err != nil {
		return err
	}

	var ov *graph.Overlay
	if overlay {
		start, err := cfg.Simulation.ResolveStart(engine.Model())
		if err != nil {
			return err
		}
		traj, err := engine.SimulatePatient(start)
		if err != nil {
			return err
		}
		ov = graph.TrajectoryOverlay(traj)
	}

	_, err = io.WriteString(out, graph.GenerateMermaid(engine.Model(), ov))
	return err
}

// Validate loads the configured model and reports its shape and structural
// warnings. With strict, any warning fails the validation.
// A missing model file is reported as a fallback, not a failure.
func Validate(ctx context.Context, cfg *config.Config, strict bool, out io.Writer, logger *slog.Logger) error {
	store := newModelStore(cfg)
	if store != nil {
		defer store.Close()
	}
	m, err := newLoader(cfg, store, logger).Load(ctx)
	if err != nil {
		return err
	}

	terminal := make([]string, 0, len(m.TerminalStates()))
	for _, t := range m.TerminalStates() {
		terminal = append(terminal, m.Label(t))
	}
	if len(terminal) == 0 {
		terminal = append(terminal, "none")
	}

	fmt.Fprintf(out, "Model: %s\n", m.Origin)
	fmt.Fprintf(out, "States: %s\n", strings.Join(m.Labels(), ", "))
	fmt.Fprintf(out, "Terminal: %s\n", strings.Join(terminal, ", "))

	start, err := cfg.Simulation.ResolveStart(m)
	if err != nil {
		return err
	}
	report, err := validator.ValidateModel(m, start)
	if err != nil {
		return err
	}
	if !report.OK() {
		if strict {
			return fmt.Errorf("validation failed, %s", validator.Describe(m, report))
		}
		for _, w := range report.Warnings(m) {
			fmt.Fprintf(out, "Warning: %s\n", w)
		}
	}

	fmt.Fprintln(out, "Model is valid! ✅")
	return nil
}

// Expected prints the analytic state distribution after the configured horizon.
func Expected(ctx context.Context, cfg *config.Config, jsonMode bool, out io.Writer, logger *slog.Logger) error {
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
	m := engine.Model()

	start, err := cfg.Simulation.ResolveStart(m)
	if err != nil {
		return err
	}
	dist, err := engine.ExpectedDistribution(start, engine.Steps())
	if err != nil {
		return err
	}

	if jsonMode {
		byLabel := make(map[string]float64, len(dist))
		for i, p := range dist {
			byLabel[m.Label(i)] = p
		}
		return json.NewEncoder(out).Encode(byLabel)
	}

	fmt.Fprintf(out, "Expected distribution after %d steps from %s:\n", engine.Steps(), m.Label(start))
	for i, p := range dist {
		fmt.Fprintf(out, "  %-14s %6.2f%%  (%.1f of %d patients)\n", m.Label(i), p*100, p*float64(cfg.Simulation.Patients), cfg.Simulation.Patients)
	}
	return nil
}

// States summarises a patient data file as an initial state distribution.
func States(ctx context.Context, cfg *config.Config, dataPath string, out io.Writer, logger *slog.Logger) error {
	if dataPath == "" {
		dataPath = cfg.Simulation.PatientData
	}
	if dataPath == "" {
		return fmt.Errorf("no patient data file given")
	}

	ds, err := preprocess.LoadFile(dataPath)
	if err != nil {
		return err
	}

	store := newModelStore(cfg)
	if store != nil {
		defer store.Close()
	}
	m, err := newLoader(cfg, store, logger).Load(ctx)
	if err != nil {
		return err
	}
	dist, err := ds.Distribution(m)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Patients: %d kept, %d dropped\n", len(ds.Patients), ds.Dropped)
	counts := ds.StateCounts()
	for i, p := range dist {
		fmt.Fprintf(out, "  %-14s %5d  %6.2f%%\n", m.Label(i), counts[m.Label(i)], p*100)
	}
	return nil
}

// Export writes the configured model to dest in the format implied by its extension.
func Export(ctx context.Context, cfg *config.Config, dest string, logger *slog.Logger) error {
	store := newModelStore(cfg)
	if store != nil {
		defer store.Close()
	}
	m, err := newLoader(cfg, store, logger).Load(ctx)
	if err != nil {
		return err
	}
	if err := file.Export(dest, m); err != nil {
		return err
	}
	logger.Info("model exported", "path", dest, "states", m.NumStates())
	return nil
}

// PushModel stores the model file at cfg.Model.Path in the Redis registry under name.
func PushModel(ctx context.Context, cfg *config.Config, name string, logger *slog.Logger) error {
	store := newModelStore(cfg)
	if store == nil {
		return fmt.Errorf("redis is not configured (set redis.addr or MARKOV_REDIS_ADDR)")
	}
	defer store.Close()

	m, err := file.New(cfg.Model.Path, file.WithLogger(logger)).Load(ctx)
	if err != nil {
		return err
	}
	if err := store.Save(ctx, name, m); err != nil {
		return err
	}
	logger.Info("model stored", "name", name, "origin", m.Origin)
	return nil
}

// ListModels prints the names in the Redis registry.
func ListModels(ctx context.Context, cfg *config.Config, out io.Writer) error {
	store := newModelStore(cfg)
	if store == nil {
		return fmt.Errorf("redis is not configured (set redis.addr or MARKOV_REDIS_ADDR)")
	}
	defer store.Close()

	names, err := store.List(ctx)
	if err != nil {
		return err
	}
	for _, n := range names {
		fmt.Fprintln(out, n)
	}
	return nil
}
