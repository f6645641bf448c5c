package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanWords(t *testing.T) {
	got := cleanWords([]string{"chat", "LE CHIEN", " ", "", "Chat", "souris"})
	assert.Equal(t, []string{"CHAT", "LECHIEN", "SOURIS"}, got)
}

func TestCleanWordsEmpty(t *testing.T) {
	assert.Empty(t, cleanWords(nil))
	assert.Empty(t, cleanWords([]string{"", "   "}))
}

func TestValidWord(t *testing.T) {
	assert.True(t, validWord("CHAT"))
	assert.False(t, validWord("CH4T"))
	assert.False(t, validWord("ÉTÉ"))
	assert.False(t, validWord(""))
	assert.False(t, validWord("chat"), "cleaning must happen before validation")
}

func TestGridStringsHidesSentinels(t *testing.T) {
	grid := newLetterGrid(2, 2)
	grid[0][0] = 'A'
	grid[1][1] = 'Z'

	got := gridStrings(grid)
	assert.Equal(t, [][]string{{"A", " "}, {" ", "Z"}}, got)
}

func TestNewPuzzle(t *testing.T) {
	grid := newLetterGrid(3, 3)
	writeWord(grid, "ABC", position{0, 0}, delta{0, 1})
	spans := map[string]span{"ABC": {0, 0, 2, 0}}

	p := newPuzzle(3, 3, grid, spans, []string{"ABC"}, "circle")

	require.Contains(t, p.Placements, "ABC")
	assert.Equal(t, Placement{StartCol: 0, StartRow: 0, EndCol: 2, EndRow: 0}, p.Placements["ABC"])
	assert.Equal(t, "circle", p.Mask)
	assert.Equal(t, []string{"ABC"}, p.Words)
	assert.Equal(t, "A", p.Grid[0][0])
	assert.Equal(t, " ", p.Grid[1][0])
}
