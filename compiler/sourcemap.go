package compiler

import (
	"encoding/json"
)

// Mapping correlates one generated position with one original position.
// Generated coordinates come straight from the printer's bookkeeping; the
// original ones are copied from the node's Location untouched.
type Mapping struct {
	OriginalLine    int    `json:"originalLine"`
	OriginalColumn  int    `json:"originalColumn"`
	GeneratedLine   int    `json:"generatedLine"`
	GeneratedColumn int    `json:"generatedColumn"`
	Name            string `json:"name,omitempty"`
}

// SourceMapConsumer is the collaborator fed by the printer. The printer only
// writes to it, never reads back.
type SourceMapConsumer interface {
	AddMapping(m Mapping)
}

// SourceMapBuilder collects mappings for one compilation unit and encodes
// them as JSON. It is scoped to a single printing pass.
type SourceMapBuilder struct {
	File     string
	Source   string
	mappings []Mapping
}

func NewSourceMapBuilder(file string, source string) *SourceMapBuilder {
	return &SourceMapBuilder{
		File:     file,
		Source:   source,
		mappings: make([]Mapping, 0, 64),
	}
}

func (b *SourceMapBuilder) AddMapping(m Mapping) {
	b.mappings = append(b.mappings, m)
}

func (b *SourceMapBuilder) Mappings() []Mapping {
	return b.mappings
}

func (b *SourceMapBuilder) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Version  int       `json:"version"`
		File     string    `json:"file"`
		Source   string    `json:"source"`
		Mappings []Mapping `json:"mappings"`
	}{
		Version:  3,
		File:     b.File,
		Source:   b.Source,
		Mappings: b.mappings,
	})
}
