package datastore

import (
	"encoding/json"
	"maps"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// LabelSet is an unordered set of labels attached to an AddressRef, such as the token symbol or
// the token manager type.
type LabelSet struct {
	elements map[string]struct{}
}

// NewLabelSet initializes a new LabelSet with any number of labels. Empty labels are skipped.
func NewLabelSet(labels ...string) LabelSet {
	var s LabelSet
	s.Add(labels...)

	return s
}

// Add inserts one or more labels into the set.
func (s *LabelSet) Add(labels ...string) {
	if s.elements == nil {
		s.elements = make(map[string]struct{}, len(labels))
	}
	for _, l := range labels {
		if l == "" {
			continue
		}
		s.elements[l] = struct{}{}
	}
}

// Contains checks if the set contains the given label.
func (s *LabelSet) Contains(label string) bool {
	_, ok := s.elements[label]

	return ok
}

// List returns the labels as a sorted slice of strings.
func (s *LabelSet) List() []string {
	if len(s.elements) == 0 {
		return []string{}
	}

	labels := slices.Collect(maps.Keys(s.elements))
	slices.Sort(labels)

	return labels
}

// String returns the labels as a sorted, comma separated string.
func (s *LabelSet) String() string {
	return strings.Join(s.List(), ",")
}

// Len returns the number of labels in the set.
func (s *LabelSet) Len() int {
	return len(s.elements)
}

// Equal checks if two LabelSets hold the same labels.
func (s *LabelSet) Equal(other LabelSet) bool {
	return maps.Equal(s.elements, other.elements)
}

// Clone creates a copy of the LabelSet.
func (s *LabelSet) Clone() LabelSet {
	return LabelSet{elements: maps.Clone(s.elements)}
}

// MarshalJSON marshals the LabelSet as a sorted JSON array of strings.
func (s LabelSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.List())
}

// UnmarshalJSON unmarshals a JSON array of strings into the LabelSet.
func (s *LabelSet) UnmarshalJSON(data []byte) error {
	var labels []string
	if err := json.Unmarshal(data, &labels); err != nil {
		return err
	}
	*s = NewLabelSet(labels...)

	return nil
}

// MarshalYAML renders the LabelSet as a sorted YAML sequence.
func (s LabelSet) MarshalYAML() (any, error) {
	return s.List(), nil
}

// UnmarshalYAML decodes a YAML sequence of strings into the LabelSet.
func (s *LabelSet) UnmarshalYAML(node *yaml.Node) error {
	var labels []string
	if err := node.Decode(&labels); err != nil {
		return err
	}
	*s = NewLabelSet(labels...)

	return nil
}
