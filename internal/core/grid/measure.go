package grid

import (
	"hash/fnv"

	"github.com/sam16vis/go-replay-inspector/internal/util"
)

type measureKey struct {
	rowID  uint64
	column int
}

// MeasureCache memoizes the natural display width of cells, keyed by row
// content identity and column position. Rows with identical content share
// measurements. The cache is invalidated wholesale, never resized in place,
// whenever the display sequence identity or the search term changes, since
// both change what a cell renders.
type MeasureCache struct {
	widths     map[measureKey]int
	generation uint64
	searchTerm string
}

func NewMeasureCache() *MeasureCache {
	return &MeasureCache{widths: make(map[measureKey]int)}
}

// Validate drops every cached measurement when the sequence generation or
// search term moved on.
func (m *MeasureCache) Validate(generation uint64, searchTerm string) {
	if m.generation == generation && m.searchTerm == searchTerm {
		return
	}
	m.widths = make(map[measureKey]int)
	m.generation = generation
	m.searchTerm = searchTerm
}

// Measure returns the display width of a cell, computing it at most once
// per (row content, column) pair.
func (m *MeasureCache) Measure(rowID uint64, column int, text string) int {
	key := measureKey{rowID: rowID, column: column}
	if width, ok := m.widths[key]; ok {
		return width
	}
	width := util.GetDisplayWidth(text)
	m.widths[key] = width
	return width
}

// Len reports how many measurements are cached.
func (m *MeasureCache) Len() int {
	return len(m.widths)
}

// RowContentID hashes a row's rendered cells into its content identity.
func RowContentID(cells []string) uint64 {
	h := fnv.New64a()
	for _, cell := range cells {
		h.Write([]byte(cell))
		h.Write([]byte{0})
	}
	return h.Sum64()
}
