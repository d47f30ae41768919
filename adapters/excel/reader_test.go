package excel

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"diffexpr/domain/core"
)

func writeFixture(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	path := filepath.Join(t.TempDir(), "dataset.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestRead_WellFormedDataset(t *testing.T) {
	path := writeFixture(t, [][]interface{}{
		{"gene", "s1", "s2", "s3", "s4"},
		{"class", 0, 0, 1, 1},
		{"TP53", 1.5, 2.5, 8.0, 9.0},
		{"BRCA1", 0.1, 0.2, 0.3, 0.4},
	})

	m, labels, err := NewDatasetReader().Read(path)
	require.NoError(t, err)

	assert.Equal(t, 2, m.Features())
	assert.Equal(t, 4, m.Samples())
	assert.Equal(t, []int{0, 0, 1, 1}, labels)
	assert.Equal(t, []float64{1.5, 2.5, 8, 9}, m.Row(0))
	assert.Equal(t, core.FeatureKey("TP53"), m.FeatureKeys[0])
	assert.Equal(t, core.FeatureKey("BRCA1"), m.FeatureKeys[1])
}

func TestRead_MissingFile(t *testing.T) {
	_, _, err := NewDatasetReader().Read(filepath.Join(t.TempDir(), "nope.xlsx"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestRead_TooFewRows(t *testing.T) {
	path := writeFixture(t, [][]interface{}{
		{"gene", "s1", "s2"},
		{"class", 0, 1},
	})

	_, _, err := NewDatasetReader().Read(path)
	assert.ErrorIs(t, err, core.ErrInsufficientData)
}

func TestRead_BadLabel(t *testing.T) {
	path := writeFixture(t, [][]interface{}{
		{"gene", "s1", "s2"},
		{"class", 0, 2},
		{"TP53", 1.0, 2.0},
	})

	_, _, err := NewDatasetReader().Read(path)
	assert.ErrorIs(t, err, core.ErrInvalidDesign)
}

func TestRead_NonNumericValue(t *testing.T) {
	path := writeFixture(t, [][]interface{}{
		{"gene", "s1", "s2"},
		{"class", 0, 1},
		{"TP53", "high", 2.0},
	})

	_, _, err := NewDatasetReader().Read(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "feature row 0")
}

func TestRead_RaggedFeatureRow(t *testing.T) {
	path := writeFixture(t, [][]interface{}{
		{"gene", "s1", "s2", "s3"},
		{"class", 0, 0, 1},
		{"TP53", 1.0, 2.0},
	})

	_, _, err := NewDatasetReader().Read(path)
	assert.ErrorIs(t, err, core.ErrDimensionMismatch)
}
