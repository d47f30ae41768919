package expr

import (
	"diffexpr/domain/core"
)

// GroupAssignment partitions sample columns into exactly two groups,
// one 0/1 label per column. It doubles as the design encoding for the
// fitting adapter: an intercept plus this group-indicator column.
type GroupAssignment []int

// TwoGroups builds the balanced assignment used by the simulation runs:
// the first half of the columns in group 0, the second half in group 1.
func TwoGroups(samples int) GroupAssignment {
	g := make(GroupAssignment, samples)
	for i := samples / 2; i < samples; i++ {
		g[i] = 1
	}
	return g
}

// Counts returns the sizes of group 0 and group 1.
func (g GroupAssignment) Counts() (n0, n1 int) {
	for _, v := range g {
		if v == 0 {
			n0++
		} else {
			n1++
		}
	}
	return n0, n1
}

// Split partitions one feature row into the two groups' values.
func (g GroupAssignment) Split(row []float64) (group0, group1 []float64) {
	group0 = make([]float64, 0, len(row))
	group1 = make([]float64, 0, len(row))
	for i, v := range row {
		if g[i] == 0 {
			group0 = append(group0, v)
		} else {
			group1 = append(group1, v)
		}
	}
	return group0, group1
}

// Validate checks the assignment against a sample count: length must match,
// labels must be 0/1, and both groups must be non-empty.
func (g GroupAssignment) Validate(samples int) error {
	if len(g) != samples {
		return core.NewDimensionMismatchError("group_assignment", len(g), samples)
	}
	n0, n1 := 0, 0
	for _, v := range g {
		switch v {
		case 0:
			n0++
		case 1:
			n1++
		default:
			return core.NewInvalidDesignError("group labels must be 0 or 1")
		}
	}
	if n0 == 0 || n1 == 0 {
		return core.ErrEmptyGroup
	}
	return nil
}

// ValidateForVariance additionally requires at least two samples per group,
// the minimum for a defined sample variance.
func (g GroupAssignment) ValidateForVariance(samples int) error {
	if err := g.Validate(samples); err != nil {
		return err
	}
	n0, n1 := g.Counts()
	if n0 < 2 || n1 < 2 {
		return core.NewInvalidDesignError("each group needs at least 2 samples")
	}
	return nil
}
