package main

import "math/rand"

const (
	// emptyCell marks a cell no word has touched yet. maskCell is
	// reserved for shaped grids; the solver never produces it but
	// refuses to write over it.
	emptyCell = byte(0)
	maskCell  = byte('*')

	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

	// maxAttempts bounds the retry loop: each attempt starts from a
	// blank grid with fresh random orderings.
	maxAttempts = 10
)

// position is a 0-indexed (row, col) cell address.
type position struct {
	row, col int
}

// delta is a unit direction vector.
type delta struct {
	dr, dc int
}

// allDirections lists the 8 straight-line directions. The first three
// are right, down and down-right: truncating to 3 keeps exactly the
// forward directions when backwards placement is disabled.
var allDirections = []delta{
	{0, 1}, {1, 0}, {1, 1},
	{0, -1}, {-1, 0}, {-1, -1}, {1, -1}, {-1, 1},
}

// span records where a word landed, as (start_col, start_row,
// end_col, end_row). Column-before-row ordering is part of the API.
type span [4]int

func newLetterGrid(rows, cols int) [][]byte {
	grid := make([][]byte, rows)
	for r := range grid {
		grid[r] = make([]byte, cols)
	}
	return grid
}

// fits reports whether word can be written starting at start along d
// without leaving the grid, crossing a masked cell, or conflicting
// with a letter already placed. A cell already holding the same
// letter is a legitimate crossing. fits never mutates the grid.
func fits(grid [][]byte, word string, start position, d delta) bool {
	rows, cols := len(grid), len(grid[0])
	r, c := start.row, start.col
	for i := 0; i < len(word); i++ {
		if r < 0 || r >= rows || c < 0 || c >= cols {
			return false
		}
		cell := grid[r][c]
		if cell == maskCell || (cell != emptyCell && cell != word[i]) {
			return false
		}
		r += d.dr
		c += d.dc
	}
	return true
}

// writeWord commits word to the grid and returns the cell of its last
// letter. The candidate must have been accepted by fits first;
// writeWord itself overwrites whatever is on its path.
func writeWord(grid [][]byte, word string, start position, d delta) position {
	r, c := start.row, start.col
	for i := 0; i < len(word); i++ {
		grid[r][c] = word[i]
		if i < len(word)-1 {
			r += d.dr
			c += d.dc
		}
	}
	return position{row: r, col: c}
}

// placeWord tries every (start cell, direction) pair in random order
// and commits the first candidate that fits. Full enumeration: if any
// valid placement exists on the current grid it will be found.
func placeWord(grid [][]byte, word string, dirs []delta, rng *rand.Rand) (start, end position, ok bool) {
	rows, cols := len(grid), len(grid[0])

	starts := make([]position, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			starts = append(starts, position{row: r, col: c})
		}
	}
	rng.Shuffle(len(starts), func(i, j int) {
		starts[i], starts[j] = starts[j], starts[i]
	})

	for _, s := range starts {
		rng.Shuffle(len(dirs), func(i, j int) {
			dirs[i], dirs[j] = dirs[j], dirs[i]
		})
		for _, d := range dirs {
			// Cheap endpoint check before walking the cells.
			endRow := s.row + d.dr*(len(word)-1)
			endCol := s.col + d.dc*(len(word)-1)
			if endRow < 0 || endRow >= rows || endCol < 0 || endCol >= cols {
				continue
			}
			if fits(grid, word, s, d) {
				return s, writeWord(grid, word, s, d), true
			}
		}
	}
	return position{}, position{}, false
}

// solveGrid runs one placement attempt: words in random order, each
// placed greedily against the partially filled grid so that later
// words cross earlier ones. The first word that cannot be placed
// abandons the whole attempt; there is no backtracking across words.
// On success every untouched cell is filled with a random letter.
func solveGrid(rows, cols int, words []string, allowBackwards bool, rng *rand.Rand) ([][]byte, map[string]span, bool) {
	grid := newLetterGrid(rows, cols)
	spans := make(map[string]span, len(words))

	dirs := make([]delta, len(allDirections))
	copy(dirs, allDirections)
	if !allowBackwards {
		dirs = dirs[:3]
	}

	order := make([]string, len(words))
	copy(order, words)
	rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	for _, word := range order {
		if word == "" {
			continue
		}
		start, end, ok := placeWord(grid, word, dirs, rng)
		if !ok {
			return nil, nil, false
		}
		spans[word] = span{start.col, start.row, end.col, end.row}
	}

	fillRandom(grid, rng)
	return grid, spans, true
}

// fillRandom replaces every empty cell with a uniformly random letter.
// Masked cells and placed letters are left untouched.
func fillRandom(grid [][]byte, rng *rand.Rand) {
	for r := range grid {
		for c := range grid[r] {
			if grid[r][c] == emptyCell {
				grid[r][c] = alphabet[rng.Intn(len(alphabet))]
			}
		}
	}
}

// generateGrid runs up to maxAttempts independent solve attempts and
// returns the first success. ok=false means no layout was found for
// these parameters, an expected outcome of the randomized search and
// not an error.
func generateGrid(rows, cols int, words []string, allowBackwards bool, rng *rand.Rand) ([][]byte, map[string]span, bool) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if grid, spans, ok := solveGrid(rows, cols, words, allowBackwards, rng); ok {
			return grid, spans, true
		}
	}
	return nil, nil, false
}
