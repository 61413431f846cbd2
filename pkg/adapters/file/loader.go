package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/internal/dto"
	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/pkg/domain"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ModelLoader for a model stored on disk.
//
// Supported formats are chosen by extension:
//   - .csv: a header row of state labels followed by one row of probabilities per state.
//     An optional leading column of row labels is ignored.
//   - .yaml, .yml, .json: a model document (states, matrix, terminal).
//   - .xlsx: the first sheet, laid out like the CSV format.
//
// A missing file is not an error: the fallback model is returned and a warning is logged.
type Loader struct {
	path     string
	labels   []string
	fallback *domain.Model
	logger   *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithFallback replaces the stock model returned when the file is missing.
func WithFallback(m *domain.Model) Option {
	return func(l *Loader) {
		l.fallback = m
	}
}

// WithLabels fixes the state order for tabular files without a header row.
func WithLabels(labels []string) Option {
	return func(l *Loader) {
		l.labels = labels
	}
}

// WithLogger sets the logger used to surface the fallback warning.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// New creates a loader for path.
func New(path string, opts ...Option) *Loader {
	l := &Loader{path: path}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return l
}

// Path returns the configured file path.
func (l *Loader) Path() string {
	return l.path
}

// Load reads and validates the model.
func (l *Loader) Load(ctx context.Context) (*domain.Model, error) {
	if l.path == "" {
		l.logger.Warn("no model file configured, using default transition matrix")
		return l.fallbackModel(), nil
	}

	if _, err := os.Stat(l.path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			l.logger.Warn("model file not found, using default transition matrix", "path", l.path)
			return l.fallbackModel(), nil
		}
		return nil, fmt.Errorf("failed to stat model file: %w", err)
	}

	var (
		m   *domain.Model
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(l.path)); ext {
	case ".csv":
		m, err = l.loadCSV()
	case ".yaml", ".yml", ".json":
		m, err = l.loadDocument()
	case ".xlsx":
		m, err = l.loadXLSX()
	default:
		return nil, fmt.Errorf("unsupported model file extension %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", l.path, err)
	}

	m.Origin = "file:" + l.path
	l.logger.Debug("model loaded", "path", l.path, "states", m.NumStates())
	return m, nil
}

func (l *Loader) fallbackModel() *domain.Model {
	if l.fallback != nil {
		return l.fallback
	}
	return domain.DefaultModel()
}

func (l *Loader) loadCSV() (*domain.Model, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := ReadCSV(f)
	if err != nil {
		return nil, err
	}
	return ParseTable(rows, l.labels)
}

func (l *Loader) loadDocument() (*domain.Model, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, err
	}

	// JSON is a subset of YAML, so one decoder serves both.
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse model document: %w", err)
	}
	doc, err := dto.Decode(raw)
	if err != nil {
		return nil, err
	}
	return doc.ToModel()
}

func (l *Loader) loadXLSX() (*domain.Model, error) {
	f, err := excelize.OpenFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return ParseTable(rows, l.labels)
}
