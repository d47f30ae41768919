package ports

import (
	"diffexpr/domain/expr"
)

// DatasetReaderPort loads an expression dataset from a local file for the
// classification workflow: a features x samples matrix plus one binary class
// label per sample column.
type DatasetReaderPort interface {
	Read(path string) (*expr.Matrix, []int, error)
}
