// Package corpus loads the external context data and answers substring
// lookups over it. The corpus is read once at startup and immutable after.
package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Record is a single context entry. SourceTag identifies where the record
// came from so prompt blocks can cite it.
type Record struct {
	Key       string `json:"key"`
	Value     string `json:"value"`
	Category  string `json:"category,omitempty"`
	SourceTag string `json:"source_tag,omitempty"`
}

// Store holds an ordered, immutable sequence of records. Lookups preserve
// insertion order among matches so results stay deterministic.
type Store struct {
	name    string
	records []Record
}

// New creates a store over the given records. The name seeds the source
// tag of records that do not carry one.
func New(name string, records []Record) *Store {
	owned := make([]Record, len(records))
	copy(owned, records)
	for i := range owned {
		if owned[i].SourceTag == "" {
			owned[i].SourceTag = fmt.Sprintf("%s - %s", name, owned[i].Key)
		}
	}
	return &Store{name: name, records: owned}
}

// LoadFile reads a JSON array of records from path.
func LoadFile(name, path string) (*Store, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus file: %w", err)
	}
	var records []Record
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, fmt.Errorf("parse corpus file: %w", err)
	}
	return New(name, records), nil
}

// Len returns the number of records.
func (s *Store) Len() int { return len(s.records) }

// Records returns a copy of all records in insertion order.
func (s *Store) Records() []Record {
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Lookup returns every record whose key or value contains any of the terms,
// case-insensitively, in corpus insertion order. An empty result is not an
// error. Blank terms are ignored.
func (s *Store) Lookup(terms ...string) []Record {
	normalized := make([]string, 0, len(terms))
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term != "" {
			normalized = append(normalized, term)
		}
	}
	if len(normalized) == 0 {
		return nil
	}
	var out []Record
	for _, rec := range s.records {
		key := strings.ToLower(rec.Key)
		value := strings.ToLower(rec.Value)
		for _, term := range normalized {
			if strings.Contains(key, term) || strings.Contains(value, term) {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}
