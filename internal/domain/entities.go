package domain

import "fmt"

// Element is a single building element extracted from a model file.
// Property sets and properties keep the insertion order of the source
// file, since that order is part of the element's text rendering.
type Element struct {
	ID           string
	Type         string
	Name         string
	Description  string
	PropertySets []PropertySet
}

// PropertySet groups named properties under a set name (e.g. "Pset_Door").
type PropertySet struct {
	Name       string
	Properties []Property
}

// Property is a single named value with an optional unit.
// Value is nil when the source carries no value; numeric zero and
// boolean false are valid values and must be kept.
type Property struct {
	Name  string
	Value any
	Unit  string
}

// HasValue reports whether the property carries a renderable value.
// Zero values count; only nil and empty strings do not.
func (p Property) HasValue() bool {
	if p.Value == nil {
		return false
	}
	if s, ok := p.Value.(string); ok && s == "" {
		return false
	}
	return true
}

// FileInfo identifies the source model file.
type FileInfo struct {
	Name string
	Path string
	Size int64
	Type string
}

// Fingerprint is a cheap identity proxy for the source file,
// used to key the embeddings cache without hashing file contents.
func (f FileInfo) Fingerprint() string {
	return fmt.Sprintf("%s:%d", f.Name, f.Size)
}

// Model is a loaded building model: its source file, the elements in
// file order, and a summary.
type Model struct {
	FileInfo FileInfo
	Elements []Element
	Summary  Summary
}

// Summary holds aggregate counts over a model's elements.
type Summary struct {
	TotalElements int
	ElementTypes  []string
}

// SearchResult is one ranked hit from a similarity search. Index is the
// position of the matched entry in the embedding store, which equals the
// element's position in the source model.
type SearchResult struct {
	Text  string  `json:"text"`
	Score float64 `json:"similarity_score"`
	Index int     `json:"index"`
}
