package orchestrator

import (
	"fmt"
	"sort"
	"sync"
)

// OutputStore is the write-once registry of step outputs. Keys have the form
// "stepName.outputName". Each key is written exactly once, by the executor,
// when the owning step reaches a successful terminal record; downstream
// steps read it through their input bindings any number of times.
type OutputStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewOutputStore returns an empty output store.
func NewOutputStore() *OutputStore {
	return &OutputStore{values: make(map[string]string)}
}

// OutputKey builds the store key for a step output.
func OutputKey(step, output string) string {
	return step + "." + output
}

// Publish records all outputs of a completed step. Overwriting a key is a
// contract violation and returns an error rather than silently mutating
// state another step may already have read.
func (s *OutputStore) Publish(step string, outputs Outputs) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, value := range outputs {
		key := OutputKey(step, name)
		if _, exists := s.values[key]; exists {
			return fmt.Errorf("output %q written twice", key)
		}
		s.values[key] = value
	}
	return nil
}

// Seed loads outputs recorded by a prior run, enabling a resumed run to
// satisfy the bindings of steps that are not being re-executed. Seeding an
// already-present key is rejected like any other double write.
func (s *OutputStore) Seed(values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, value := range values {
		if _, exists := s.values[key]; exists {
			return fmt.Errorf("output %q written twice", key)
		}
		s.values[key] = value
	}
	return nil
}

// Lookup returns the value for key and whether it is present.
func (s *OutputStore) Lookup(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	return value, ok
}

// Snapshot returns a copy of all recorded outputs.
func (s *OutputStore) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Keys returns all recorded keys in sorted order.
func (s *OutputStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
