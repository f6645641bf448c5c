package main

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"
)

// A4 at 300dpi, portrait.
const (
	pageWidth  = 2480
	pageHeight = 3508
	pageMargin = 100
)

const maskCircle = "circle"

// renderPuzzleSVG produces a printable puzzle sheet: the letter grid
// centered on the page with the word list below it in three columns.
// pageLabel, when non-empty, is printed at the bottom of the page.
func renderPuzzleSVG(p *Puzzle, pageLabel string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d">`+"\n", pageWidth, pageHeight)

	cellSize := (pageWidth - 2*pageMargin) / p.Cols
	if alt := (pageHeight / 2) / p.Rows; alt < cellSize {
		cellSize = alt
	}
	gridW := p.Cols * cellSize
	gridH := p.Rows * cellSize

	wordsPerColumn := (len(p.Words) + 2) / 3
	wordListHeight := wordsPerColumn*40 + 80
	const verticalGap = 100

	startY := (pageHeight - (gridH + verticalGap + wordListHeight)) / 2
	startX := (pageWidth - gridW) / 2

	centerX := startX + gridW/2
	centerY := startY + gridH/2
	radius := gridW / 2
	if gridH < gridW {
		radius = gridH / 2
	}

	// Letters. Under a circular mask, cells outside the circle are
	// left blank (the original prints round grids without a border
	// per cell).
	for r := 0; r < p.Rows; r++ {
		for c := 0; c < p.Cols; c++ {
			cx := startX + c*cellSize + cellSize/2
			cy := startY + r*cellSize + cellSize/2
			if p.Mask == maskCircle &&
				math.Hypot(float64(cx-centerX), float64(cy-centerY)) > float64(radius) {
				continue
			}
			svgLetter(&b, cx, cy, 30, p.Grid[r][c])
		}
	}

	if p.Mask == maskCircle {
		fmt.Fprintf(&b, `<circle cx="%d" cy="%d" r="%d" fill="none" stroke="red" stroke-width="5"/>`+"\n",
			centerX, centerY, radius+40)
	} else {
		for r := 0; r < p.Rows; r++ {
			for c := 0; c < p.Cols; c++ {
				svgCellRect(&b, startX+c*cellSize, startY+r*cellSize, cellSize, "black", 1)
			}
		}
		fmt.Fprintf(&b, `<rect x="%d" y="%d" width="%d" height="%d" fill="none" stroke="red" stroke-width="5"/>`+"\n",
			startX, startY, gridW, gridH)
	}

	// Word list, alphabetical, three columns.
	titleY := startY + gridH + verticalGap
	svgLetter(&b, pageWidth/2, titleY, 40, "MOTS CACHÉS")

	words := make([]string, len(p.Words))
	copy(words, p.Words)
	sort.Strings(words)

	wordsY := titleY + 80
	columnWidth := (pageWidth - 2*pageMargin) / 3
	for i, word := range words {
		x := pageMargin + (i%3)*columnWidth + columnWidth/2
		y := wordsY + (i/3)*40
		svgLetter(&b, x, y, 30, word)
	}

	if pageLabel != "" {
		svgLetter(&b, pageWidth/2, pageHeight-100, 30, pageLabel)
	}

	b.WriteString("</svg>\n")
	return b.String()
}

// renderSolutionSVG produces a compact answer sheet: the grid with
// each hidden word's path highlighted in its own color and the
// letters redrawn on top.
func renderSolutionSVG(p *Puzzle, rng *rand.Rand) string {
	const (
		cellSize = 40
		padding  = 20
	)
	width := p.Cols*cellSize + 2*padding
	height := p.Rows*cellSize + 2*padding

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d">`+"\n", width, height)

	// Highlights go under everything else.
	words := make([]string, 0, len(p.Placements))
	for word := range p.Placements {
		words = append(words, word)
	}
	sort.Strings(words)

	for _, word := range words {
		color := fmt.Sprintf("rgb(%d,%d,%d)", rng.Intn(256), rng.Intn(256), rng.Intn(256))
		for _, cell := range placementPath(word, p.Placements[word]) {
			fmt.Fprintf(&b, `<rect x="%d" y="%d" width="%d" height="%d" fill="%s" stroke="none"/>`+"\n",
				padding+cell.col*cellSize, padding+cell.row*cellSize, cellSize, cellSize, color)
		}
	}

	for r := 0; r < p.Rows; r++ {
		for c := 0; c < p.Cols; c++ {
			if p.Mask != maskCircle {
				svgCellRect(&b, padding+c*cellSize, padding+r*cellSize, cellSize, "black", 1)
			}
			svgLetter(&b, padding+c*cellSize+cellSize/2, padding+r*cellSize+cellSize/2, 24, p.Grid[r][c])
		}
	}

	if p.Mask == maskCircle {
		fmt.Fprintf(&b, `<circle cx="%d" cy="%d" r="%d" fill="none" stroke="red" stroke-width="5"/>`+"\n",
			padding+p.Cols*cellSize/2, padding+p.Rows*cellSize/2, p.Rows*cellSize/2+20)
	} else {
		fmt.Fprintf(&b, `<rect x="%d" y="%d" width="%d" height="%d" fill="none" stroke="red" stroke-width="5"/>`+"\n",
			padding, padding, p.Cols*cellSize, p.Rows*cellSize)
	}

	b.WriteString("</svg>\n")
	return b.String()
}

// placementPath lists the cells a placed word covers, start to end.
func placementPath(word string, pl Placement) []position {
	dr := sign(pl.EndRow - pl.StartRow)
	dc := sign(pl.EndCol - pl.StartCol)
	path := make([]position, len(word))
	for i := range path {
		path[i] = position{row: pl.StartRow + i*dr, col: pl.StartCol + i*dc}
	}
	return path
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

func svgLetter(b *strings.Builder, x, y, fontSize int, text string) {
	fmt.Fprintf(b, `<text x="%d" y="%d" text-anchor="middle" dominant-baseline="central" font-size="%d" fill="black">%s</text>`+"\n",
		x, y, fontSize, text)
}

func svgCellRect(b *strings.Builder, x, y, size int, stroke string, width int) {
	fmt.Fprintf(b, `<rect x="%d" y="%d" width="%d" height="%d" fill="none" stroke="%s" stroke-width="%d"/>`+"\n",
		x, y, size, size, stroke, width)
}
