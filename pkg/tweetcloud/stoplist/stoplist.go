package stoplist

import (
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manager holds one language's stopword set
type Manager struct {
	stops map[string]Source
}

// Source records where a stopword came from
type Source string

const (
	SourceBuiltin Source = "builtin"
	SourceFile    Source = "file"
	SourceExtra   Source = "extra"
)

// NewManager creates a new stoplist manager. Terms are lower-cased.
func NewManager(initialStops []string) *Manager {
	m := &Manager{stops: make(map[string]Source, len(initialStops))}
	for _, s := range initialStops {
		m.Add(s, SourceBuiltin)
	}
	return m
}

// IsStop checks if a token is a stopword (case-insensitive)
func (m *Manager) IsStop(token string) bool {
	if m == nil {
		return false
	}
	_, ok := m.stops[strings.ToLower(token)]
	return ok
}

// SourceOf reports why token is a stopword
func (m *Manager) SourceOf(token string) (Source, bool) {
	src, ok := m.stops[strings.ToLower(token)]
	return src, ok
}

// Add adds a token to the stoplist
func (m *Manager) Add(token string, src Source) {
	token = strings.ToLower(strings.TrimSpace(token))
	if token == "" {
		return
	}
	m.stops[token] = src
}

// Remove removes a token from the stoplist
func (m *Manager) Remove(token string) {
	delete(m.stops, strings.ToLower(token))
}

// Len returns the number of stopwords
func (m *Manager) Len() int {
	return len(m.stops)
}

// All returns all stopwords, sorted
func (m *Manager) All() []string {
	result := make([]string, 0, len(m.stops))
	for s := range m.stops {
		result = append(result, s)
	}
	sort.Strings(result)
	return result
}

// File is the on-disk stoplist format:
//
//	terms: [the, a, an]
type File struct {
	Terms []string `yaml:"terms"`
}

// LoadFile reads a YAML stoplist file
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	return &f, nil
}

// FromFile builds a manager from a stoplist file, replacing the built-in list
func FromFile(path string) (*Manager, error) {
	f, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	m := NewManager(nil)
	for _, t := range f.Terms {
		m.Add(t, SourceFile)
	}
	return m, nil
}
