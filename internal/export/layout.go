package export

import "github.com/mithrel/leancanvas/pkg/canvas"

// Grid dimensions of the canvas. Each of the five canvas columns spans two
// grid columns so the bottom row can split evenly in two.
const (
	GridCols = 10
	GridRows = 5
)

// Cell places one section on the grid.
type Cell struct {
	Field   canvas.Field
	Col     int
	Row     int
	ColSpan int
	RowSpan int
}

// Layout is the canvas grid, in section order.
var Layout = []Cell{
	{Field: canvas.Problem, Col: 0, Row: 0, ColSpan: 2, RowSpan: 3},
	{Field: canvas.ExistingAlternatives, Col: 0, Row: 3, ColSpan: 2, RowSpan: 1},
	{Field: canvas.Solution, Col: 2, Row: 0, ColSpan: 2, RowSpan: 2},
	{Field: canvas.KeyMetrics, Col: 2, Row: 2, ColSpan: 2, RowSpan: 2},
	{Field: canvas.UniqueValueProposition, Col: 4, Row: 0, ColSpan: 2, RowSpan: 3},
	{Field: canvas.HighLevelConcept, Col: 4, Row: 3, ColSpan: 2, RowSpan: 1},
	{Field: canvas.UnfairAdvantage, Col: 6, Row: 0, ColSpan: 2, RowSpan: 2},
	{Field: canvas.Channels, Col: 6, Row: 2, ColSpan: 2, RowSpan: 2},
	{Field: canvas.CustomerSegments, Col: 8, Row: 0, ColSpan: 2, RowSpan: 3},
	{Field: canvas.EarlyAdopters, Col: 8, Row: 3, ColSpan: 2, RowSpan: 1},
	{Field: canvas.CostStructure, Col: 0, Row: 4, ColSpan: 5, RowSpan: 1},
	{Field: canvas.RevenueStreams, Col: 5, Row: 4, ColSpan: 5, RowSpan: 1},
}

// cellAt returns the cell whose top-left corner is (col,row), and whether
// (col,row) is covered by a cell at all.
func cellAt(col, row int) (c Cell, origin bool, covered bool) {
	for _, c := range Layout {
		if col >= c.Col && col < c.Col+c.ColSpan && row >= c.Row && row < c.Row+c.RowSpan {
			return c, c.Col == col && c.Row == row, true
		}
	}
	return Cell{}, false, false
}

// Columns groups the top-block cells into the five canvas columns, top to
// bottom. The bottom row is returned separately.
func Columns() (top [][]Cell, bottom []Cell) {
	byCol := map[int][]Cell{}
	for _, c := range Layout {
		if c.Row+c.RowSpan > GridRows-1 {
			bottom = append(bottom, c)
			continue
		}
		byCol[c.Col] = append(byCol[c.Col], c)
	}
	for col := 0; col < GridCols; col += 2 {
		top = append(top, byCol[col])
	}
	return top, bottom
}
