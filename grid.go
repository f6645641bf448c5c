package main

import (
	"strings"
	"time"
)

const (
	// maxGridSize caps both dimensions; beyond this the search space
	// makes generation latency unpredictable.
	maxGridSize = 32
	maxWords    = 50
)

// Placement gives the location of one hidden word: start and end
// coordinates of its first and last letter, columns before rows.
type Placement struct {
	StartCol int `json:"start_col"`
	StartRow int `json:"start_row"`
	EndCol   int `json:"end_col"`
	EndRow   int `json:"end_row"`
}

// Puzzle is a generated word-search grid with its solution.
type Puzzle struct {
	ID         string               `json:"id"`
	Rows       int                  `json:"rows"`
	Cols       int                  `json:"cols"`
	Grid       [][]string           `json:"grid"`
	Words      []string             `json:"words"`
	Placements map[string]Placement `json:"placements"`
	Mask       string               `json:"mask,omitempty"` // "" or "circle"
	CreatedAt  time.Time            `json:"created_at"`
}

// cleanWords normalizes a raw word list: spaces stripped, uppercased,
// empties dropped, duplicates collapsed. Order is preserved.
func cleanWords(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	words := make([]string, 0, len(raw))
	for _, w := range raw {
		w = strings.ToUpper(strings.ReplaceAll(w, " ", ""))
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		words = append(words, w)
	}
	return words
}

// validWord reports whether a cleaned word contains only A-Z.
func validWord(w string) bool {
	for i := 0; i < len(w); i++ {
		if w[i] < 'A' || w[i] > 'Z' {
			return false
		}
	}
	return len(w) > 0
}

// gridStrings converts the solver's byte grid to the JSON shape, one
// single-letter string per cell. The internal empty sentinel never
// reaches callers: it is rendered as a space.
func gridStrings(grid [][]byte) [][]string {
	out := make([][]string, len(grid))
	for r, row := range grid {
		out[r] = make([]string, len(row))
		for c, cell := range row {
			if cell == emptyCell {
				out[r][c] = " "
			} else {
				out[r][c] = string(rune(cell))
			}
		}
	}
	return out
}

// newPuzzle assembles a Puzzle from a successful solve.
func newPuzzle(rows, cols int, grid [][]byte, spans map[string]span, words []string, mask string) *Puzzle {
	placements := make(map[string]Placement, len(spans))
	for word, s := range spans {
		placements[word] = Placement{
			StartCol: s[0], StartRow: s[1],
			EndCol: s[2], EndRow: s[3],
		}
	}
	return &Puzzle{
		Rows:       rows,
		Cols:       cols,
		Grid:       gridStrings(grid),
		Words:      words,
		Placements: placements,
		Mask:       mask,
	}
}
