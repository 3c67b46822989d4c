package datastore

import (
	"fmt"
	"sync"
)

// AddressRefStore is a read-only view over AddressRef records.
type AddressRefStore interface {
	Get(key AddressRefKey) (AddressRef, error)
	Fetch() ([]AddressRef, error)
	Filter(filters ...FilterFunc) []AddressRef
}

// MutableAddressRefStore is an AddressRefStore that can be written to.
type MutableAddressRefStore interface {
	AddressRefStore

	// Add inserts a new record, failing with ErrAddressRefExists if the key is taken.
	Add(record AddressRef) error
	// Upsert inserts the record or replaces the record with the same key.
	Upsert(record AddressRef) error
}

var _ MutableAddressRefStore = (*MemoryAddressRefStore)(nil)

// MemoryAddressRefStore is a concurrency safe, in memory MutableAddressRefStore.
type MemoryAddressRefStore struct {
	mu      sync.RWMutex
	Records []AddressRef `json:"records" yaml:"records"`
}

// NewMemoryAddressRefStore creates an empty MemoryAddressRefStore.
func NewMemoryAddressRefStore() *MemoryAddressRefStore {
	return &MemoryAddressRefStore{Records: []AddressRef{}}
}

// indexOf returns the index of the record with the provided key, or -1 if not found.
// The caller must hold the lock.
func (s *MemoryAddressRefStore) indexOf(key AddressRefKey) int {
	for i, record := range s.Records {
		if record.Key().Equals(key) {
			return i
		}
	}

	return -1
}

// Get returns the record with the given key.
func (s *MemoryAddressRefStore) Get(key AddressRefKey) (AddressRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(key)
	if idx == -1 {
		return AddressRef{}, fmt.Errorf("%w: %s", ErrAddressRefNotFound, key)
	}

	return s.Records[idx].Clone(), nil
}

// Fetch returns a copy of every record in insertion order.
func (s *MemoryAddressRefStore) Fetch() ([]AddressRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]AddressRef, 0, len(s.Records))
	for _, record := range s.Records {
		records = append(records, record.Clone())
	}

	return records, nil
}

// Filter returns a copy of the records that pass every filter.
func (s *MemoryAddressRefStore) Filter(filters ...FilterFunc) []AddressRef {
	records, _ := s.Fetch()
	for _, filter := range filters {
		records = filter(records)
	}

	return records
}

// Add inserts a new record.
func (s *MemoryAddressRefStore) Add(record AddressRef) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("invalid address ref: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := s.indexOf(record.Key()); idx != -1 {
		return fmt.Errorf("%w: %s", ErrAddressRefExists, record.Key())
	}

	s.Records = append(s.Records, record.Clone())

	return nil
}

// Upsert inserts the record or replaces the existing record with the same key.
func (s *MemoryAddressRefStore) Upsert(record AddressRef) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("invalid address ref: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := s.indexOf(record.Key()); idx != -1 {
		s.Records[idx] = record.Clone()
		return nil
	}

	s.Records = append(s.Records, record.Clone())

	return nil
}
