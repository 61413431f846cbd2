// Package preprocess cleans patient records and estimates the initial state
// distribution of a cohort from them.
package preprocess

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/pkg/adapters/file"
)

// RequiredColumns are the measurements where zero means "not recorded".
var RequiredColumns = []string{"Glucose", "Insulin", "BMI", "BloodPressure", "SkinThickness"}

// Patient is one cleaned record. Fields holds every numeric column by header name.
type Patient struct {
	Glucose float64
	Fields  map[string]float64
}

// Dataset is the outcome of loading and cleaning a patient file.
type Dataset struct {
	Patients []Patient
	// Dropped counts rows removed because a cell was missing or not a finite
	// number, or a required measurement was zero.
	Dropped int
}

// LoadFile opens path and calls Load.
func LoadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open patient data: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load reads patient records from CSV with a header row. A row is dropped when
// any cell is empty, not numeric or not finite, or when a required measurement
// is zero.
func Load(r io.Reader) (*Dataset, error) {
	rows, err := file.ReadCSV(r)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("patient data is empty")
	}

	header := rows[0]
	columns := make(map[string]int, len(header))
	for i, h := range header {
		columns[strings.TrimSpace(h)] = i
	}
	var missing []string
	for _, c := range RequiredColumns {
		if _, ok := columns[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("patient data is missing columns: %s", strings.Join(missing, ", "))
	}

	ds := &Dataset{}
	for _, row := range rows[1:] {
		p, ok := parsePatient(header, row)
		if !ok {
			ds.Dropped++
			continue
		}
		ds.Patients = append(ds.Patients, p)
	}
	return ds, nil
}

func parsePatient(header, row []string) (Patient, bool) {
	if len(row) < len(header) {
		return Patient{}, false
	}

	fields := make(map[string]float64, len(header))
	for i, h := range header {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return Patient{}, false
		}
		fields[strings.TrimSpace(h)] = v
	}

	for _, c := range RequiredColumns {
		if fields[c] == 0 {
			return Patient{}, false
		}
	}
	return Patient{Glucose: fields["Glucose"], Fields: fields}, true
}
