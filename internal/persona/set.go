package persona

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	MinSetSize = 2
	MaxSetSize = 8
)

var (
	ErrSetSize        = errors.New("persona set size out of range")
	ErrDuplicateLabel = errors.New("duplicate persona label")
	ErrUnknownLabel   = errors.New("unknown persona label")
)

// Set is an ordered, immutable persona table. Indices into a Set are what the usage
// history records.
type Set struct {
	personas []Persona
}

// NewSet validates and copies personas into a Set.
func NewSet(personas []Persona) (Set, error) {
	if len(personas) < MinSetSize || len(personas) > MaxSetSize {
		return Set{}, fmt.Errorf("%w: got %d, want %d-%d", ErrSetSize, len(personas), MinSetSize, MaxSetSize)
	}
	seen := make(map[string]struct{}, len(personas))
	for _, p := range personas {
		if err := p.Validate(); err != nil {
			return Set{}, err
		}
		key := strings.ToLower(p.Label)
		if _, dup := seen[key]; dup {
			return Set{}, fmt.Errorf("%w: %q", ErrDuplicateLabel, p.Label)
		}
		seen[key] = struct{}{}
	}
	return Set{personas: slices.Clone(personas)}, nil
}

// DefaultSet returns the built-in persona table.
func DefaultSet() Set {
	s, err := NewSet(Builtin())
	if err != nil {
		panic("persona: builtin table invalid: " + err.Error())
	}
	return s
}

// Len reports the number of personas.
func (s Set) Len() int { return len(s.personas) }

// At returns the persona at index i.
func (s Set) At(i int) Persona { return s.personas[i] }

// All returns a copy of the personas in order.
func (s Set) All() []Persona { return slices.Clone(s.personas) }

// Labels returns the persona labels in order.
func (s Set) Labels() []string {
	out := make([]string, len(s.personas))
	for i, p := range s.personas {
		out[i] = p.Label
	}
	return out
}

// Filter returns the subset whose labels are listed, keeping the set's order.
// Labels match case-insensitively. An empty list returns the set unchanged.
func (s Set) Filter(labels []string) (Set, error) {
	if len(labels) == 0 {
		return s, nil
	}
	want := make(map[string]bool, len(labels))
	for _, l := range labels {
		want[strings.ToLower(strings.TrimSpace(l))] = false
	}
	var kept []Persona
	for _, p := range s.personas {
		key := strings.ToLower(p.Label)
		if _, ok := want[key]; ok {
			kept = append(kept, p)
			want[key] = true
		}
	}
	for _, l := range labels {
		if !want[strings.ToLower(strings.TrimSpace(l))] {
			return Set{}, fmt.Errorf("%w: %q", ErrUnknownLabel, l)
		}
	}
	return NewSet(kept)
}

// LoadFile reads a YAML list of personas.
//
//	- label: Lab Notebook
//	  preserve_citations: true
//	  instruction: Rewrite the following ...
func LoadFile(path string) (Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Set{}, fmt.Errorf("failed to read persona file: %w", err)
	}
	var personas []Persona
	if err := yaml.Unmarshal(data, &personas); err != nil {
		return Set{}, fmt.Errorf("failed to parse persona file %s: %w", path, err)
	}
	set, err := NewSet(personas)
	if err != nil {
		return Set{}, fmt.Errorf("persona file %s: %w", path, err)
	}
	return set, nil
}
