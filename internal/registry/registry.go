package registry

import "fmt"

// Registry is an ordered, name-indexed collection of test cases.
// It is not safe for concurrent mutation; build it once, then read.
type Registry struct {
	ordered []TestCase
	byName  map[string]TestCase
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{byName: make(map[string]TestCase)}
}

// Add registers a case. The case must validate and its name must not be
// taken.
func (r *Registry) Add(tc TestCase) error {
	if err := tc.Validate(); err != nil {
		return fmt.Errorf("case %q: %w", tc.Name, err)
	}
	if _, exists := r.byName[tc.Name]; exists {
		return fmt.Errorf("case %q: already registered", tc.Name)
	}

	r.byName[tc.Name] = tc
	r.ordered = append(r.ordered, tc)
	return nil
}

// Get looks up a case by name.
func (r *Registry) Get(name string) (TestCase, bool) {
	tc, ok := r.byName[name]
	return tc, ok
}

// Cases returns all cases in registration order.
func (r *Registry) Cases() []TestCase {
	out := make([]TestCase, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Names returns the registered case names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.ordered))
	for i, tc := range r.ordered {
		names[i] = tc.Name
	}
	return names
}

// Len returns the number of registered cases.
func (r *Registry) Len() int {
	return len(r.ordered)
}
