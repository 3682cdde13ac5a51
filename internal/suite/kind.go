package suite

import (
	"fmt"
	"strings"
)

// Kind identifies an assignment type.
type Kind int

const (
	CircleArea Kind = iota
	Population
	Sequence
	ThreeNumber
)

// kinds lists every Kind in declaration order. Resolve walks it front to
// back, so the first declared kind wins if two names were ever both suffixes.
var kinds = []struct {
	kind Kind
	name string
}{
	{CircleArea, "circle_area"},
	{Population, "population"},
	{Sequence, "sequence"},
	{ThreeNumber, "three_number"},
}

// Kinds returns all kinds in declaration order.
func Kinds() []Kind {
	res := make([]Kind, 0, len(kinds))
	for _, k := range kinds {
		res = append(res, k.kind)
	}
	return res
}

// Name is the canonical short name matched against assignment names.
func (k Kind) Name() string {
	for _, e := range kinds {
		if e.kind == k {
			return e.name
		}
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func (k Kind) String() string {
	return k.Name()
}

// Resolve selects the kind whose canonical name is a suffix of assignment.
func Resolve(assignment string) (Kind, error) {
	for _, e := range kinds {
		if strings.HasSuffix(assignment, e.name) {
			return e.kind, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrNoMatchingSuiteKind, assignment)
}
