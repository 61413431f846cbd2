package file

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/internal/dto"
	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/pkg/domain"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// ErrTerminalsNotTabular is returned when a model's terminal set cannot survive
// a CSV or XLSX round trip.
var ErrTerminalsNotTabular = errors.New("terminal states differ from the absorbing states; export to .yaml or .json instead")

// checkTabular reports whether reading the table back would infer the same
// terminal set, since tables carry no terminal designation.
func checkTabular(m *domain.Model) error {
	if !slices.Equal(m.TerminalStates(), m.AbsorbingStates()) {
		return ErrTerminalsNotTabular
	}
	return nil
}

// WriteCSV writes the model in the same layout ParseTable reads: a header row of
// labels followed by one row of probabilities per state.
// Models whose terminal set is not exactly their absorbing states are rejected
// with ErrTerminalsNotTabular.
func WriteCSV(w io.Writer, m *domain.Model) error {
	if err := checkTabular(m); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(m.Labels()); err != nil {
		return err
	}
	for _, row := range m.Matrix() {
		record := make([]string, len(row))
		for j, p := range row {
			record[j] = strconv.FormatFloat(p, 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Export writes m to path in the format implied by its extension.
// The file is written to a temporary sibling, synced and renamed into place.
func Export(path string, m *domain.Model) error {
	if path == "" {
		return fmt.Errorf("export path cannot be empty")
	}

	var buf bytes.Buffer
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		if err := WriteCSV(&buf, m); err != nil {
			return fmt.Errorf("failed to encode csv: %w", err)
		}
	case ".yaml", ".yml":
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(dto.FromModel(modelName(path), m)); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to flush yaml: %w", err)
		}
	case ".json":
		data, err := json.MarshalIndent(dto.FromModel(modelName(path), m), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		buf.Write(data)
	case ".xlsx":
		if err := writeXLSX(&buf, m); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported export file extension %q", ext)
	}

	return writeAtomic(path, buf.Bytes())
}

func writeXLSX(w io.Writer, m *domain.Model) error {
	if err := checkTabular(m); err != nil {
		return err
	}
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := make([]any, len(m.Labels()))
	for i, l := range m.Labels() {
		header[i] = l
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, row := range m.Matrix() {
		cells := make([]any, len(row))
		for j, p := range row {
			cells[j] = p
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to encode workbook: %w", err)
	}
	return nil
}

func modelName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to ensure directory: %w", err)
	}

	// Same directory so the rename stays on one filesystem.
	tmpFile, err := os.CreateTemp(dir, "tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows cannot rename an open file.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
