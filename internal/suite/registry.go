package suite

import "fmt"

// Registry maps kinds to their suite implementations. It is built once at
// start-up and only read afterwards.
type Registry struct {
	suites map[Kind]Suite
}

func NewRegistry(suites map[Kind]Suite) *Registry {
	r := &Registry{suites: make(map[Kind]Suite, len(suites))}
	for k, s := range suites {
		r.suites[k] = s
	}
	return r
}

func (r *Registry) Lookup(kind Kind) (Suite, error) {
	s, ok := r.suites[kind]
	if !ok || s == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnregisteredSuite, kind)
	}
	return s, nil
}

// ForAssignment resolves the assignment's kind and looks up its suite.
func (r *Registry) ForAssignment(assignment string) (Kind, Suite, error) {
	kind, err := Resolve(assignment)
	if err != nil {
		return 0, nil, err
	}
	s, err := r.Lookup(kind)
	if err != nil {
		return kind, nil, err
	}
	return kind, s, nil
}
