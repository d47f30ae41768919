// Package excel reads expression datasets from local spreadsheet files for
// the classification workflow. Expected layout on Sheet1: first row holds
// sample names, second row the binary class label per sample, and every
// following row one feature (gene) with its name in the first column and
// numeric expression values across the sample columns.
package excel

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"diffexpr/domain/core"
	"diffexpr/domain/expr"
)

// DatasetReader implements ports.DatasetReaderPort over .xlsx files.
type DatasetReader struct {
	sheet string
}

// NewDatasetReader creates a reader for the default sheet.
func NewDatasetReader() *DatasetReader {
	return &DatasetReader{sheet: "Sheet1"}
}

// Read loads the matrix and class labels from a local file.
func (r *DatasetReader) Read(path string) (*expr.Matrix, []int, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("dataset file not found: %s", path)
	}

	startTime := time.Now()
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open dataset file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(r.sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", r.sheet, err)
	}
	log.Printf("[DatasetReader] %s read in %.2fms (%d rows)", path, float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	if len(rows) < 3 {
		return nil, nil, fmt.Errorf("%w: need a sample row, a label row and at least one feature row", core.ErrInsufficientData)
	}

	sampleCount := len(rows[0]) - 1
	if sampleCount < 2 {
		return nil, nil, fmt.Errorf("%w: need at least 2 sample columns", core.ErrInsufficientData)
	}

	labels, err := parseLabelRow(rows[1], sampleCount)
	if err != nil {
		return nil, nil, err
	}

	m := expr.NewMatrix(len(rows)-2, sampleCount)
	keys := make([]core.FeatureKey, 0, len(rows)-2)
	for i, row := range rows[2:] {
		if len(row) != sampleCount+1 {
			return nil, nil, core.NewDimensionMismatchError(fmt.Sprintf("feature row %d", i), len(row)-1, sampleCount)
		}
		keys = append(keys, core.FeatureKey(strings.TrimSpace(row[0])))
		for j := 0; j < sampleCount; j++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(row[j+1]), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("feature row %d column %d: %w", i, j, err)
			}
			m.Data[i][j] = v
		}
	}
	m.FeatureKeys = keys

	if err := m.Validate(); err != nil {
		return nil, nil, err
	}
	return m, labels, nil
}

func parseLabelRow(row []string, sampleCount int) ([]int, error) {
	if len(row) != sampleCount+1 {
		return nil, core.NewDimensionMismatchError("label row", len(row)-1, sampleCount)
	}
	labels := make([]int, sampleCount)
	for j := 0; j < sampleCount; j++ {
		v, err := strconv.Atoi(strings.TrimSpace(row[j+1]))
		if err != nil || (v != 0 && v != 1) {
			return nil, core.NewInvalidDesignError(fmt.Sprintf("class label in column %d must be 0 or 1", j))
		}
		labels[j] = v
	}
	return labels, nil
}
