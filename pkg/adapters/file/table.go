package file

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/pkg/domain"
)

// ReadCSV reads all records, allowing ragged rows so that ParseTable can report them.
func ReadCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	return rows, nil
}

// ParseTable turns a tabular transition matrix into a model.
//
// The first row is a header of state labels unless it is entirely numeric, in
// which case labels must be supplied. A non-numeric first column is treated as
// row labels and dropped. Terminal states are the absorbing rows.
func ParseTable(rows [][]string, labels []string) (*domain.Model, error) {
	rows = dropEmpty(rows)
	if len(rows) == 0 {
		return nil, &domain.ModelError{Problems: []string{"table is empty"}}
	}

	header := rows[0]
	data := rows[1:]
	hasHeader := !allNumeric(header)
	if !hasHeader {
		data = rows
	}

	if len(data) > 0 && len(data[0]) > 0 && !isNumeric(data[0][0]) {
		if hasHeader && len(header) > 0 {
			header = header[1:]
		}
		stripped := make([][]string, len(data))
		for i, row := range data {
			if len(row) > 0 {
				stripped[i] = row[1:]
			}
		}
		data = stripped
	}

	switch {
	case len(labels) > 0:
	case hasHeader:
		labels = make([]string, len(header))
		for i, h := range header {
			labels[i] = strings.TrimSpace(h)
		}
	default:
		return nil, &domain.ModelError{Problems: []string{"table has no header row and no state labels were configured"}}
	}

	var problems []string
	matrix := make([][]float64, len(data))
	for i, row := range data {
		matrix[i] = make([]float64, len(row))
		for j, cell := range row {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				problems = append(problems, fmt.Sprintf("cell [%d][%d] = %q is not a number", i, j, cell))
				continue
			}
			matrix[i][j] = v
		}
	}
	if len(problems) > 0 {
		return nil, &domain.ModelError{Problems: problems}
	}

	return domain.NewModel(matrix, labels)
}

func dropEmpty(rows [][]string) [][]string {
	out := rows[:0:0]
	for _, row := range rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil
}

func allNumeric(row []string) bool {
	for _, cell := range row {
		if !isNumeric(cell) {
			return false
		}
	}
	return len(row) > 0
}
