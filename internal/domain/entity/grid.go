package entity

import (
	"fmt"
	"sort"
	"strconv"
)

// Column is a report column.
type Column string

const (
	ColumnA Column = "A"
	ColumnB Column = "B"
	ColumnC Column = "C"
)

// Columns lists the report columns in their fixed order.
var Columns = []Column{ColumnA, ColumnB, ColumnC}

// Headers are written on row 1.
var Headers = []string{"Operation", "Value", "Unit"}

// HeaderRow is the 1-based row holding the column headers.
const HeaderRow = 1

// Grid is a sparse 3-column report: (row, column) -> value. Rows are 1-based.
type Grid struct {
	cells  map[int]map[Column]string
	maxRow int
}

// NewGrid returns a grid holding only the header row.
func NewGrid() *Grid {
	g := &Grid{cells: make(map[int]map[Column]string)}
	for i, h := range Headers {
		g.Put(HeaderRow, Columns[i], h)
	}
	return g
}

// Put writes a cell. Rows below 1 and unknown columns are ignored.
func (g *Grid) Put(row int, col Column, value string) {
	if row < 1 || !validColumn(col) {
		return
	}
	r, ok := g.cells[row]
	if !ok {
		r = make(map[Column]string, len(Columns))
		g.cells[row] = r
	}
	r[col] = value
	if row > g.maxRow {
		g.maxRow = row
	}
}

// Get reads a cell.
func (g *Grid) Get(row int, col Column) (string, bool) {
	v, ok := g.cells[row][col]
	return v, ok
}

// MaxRow is the highest row number holding a cell.
func (g *Grid) MaxRow() int { return g.maxRow }

// IsEmpty reports whether the grid has no data beyond the headers.
func (g *Grid) IsEmpty() bool { return g.maxRow <= HeaderRow }

// Rows returns every row from 1 to MaxRow, missing cells as "".
func (g *Grid) Rows() [][]string {
	rows := make([][]string, 0, g.maxRow)
	for r := 1; r <= g.maxRow; r++ {
		rows = append(rows, g.Row(r))
	}
	return rows
}

// DataRows returns Rows without the header row.
func (g *Grid) DataRows() [][]string {
	rows := g.Rows()
	if len(rows) == 0 {
		return rows
	}
	return rows[1:]
}

// Row returns the three cells of one row.
func (g *Grid) Row(row int) []string {
	out := make([]string, len(Columns))
	for i, c := range Columns {
		out[i] = g.cells[row][c]
	}
	return out
}

// Cells returns the grid keyed by spreadsheet address ("A2", "B2"...).
func (g *Grid) Cells() map[string]string {
	out := make(map[string]string)
	for r, cols := range g.cells {
		for c, v := range cols {
			out[CellName(c, r)] = v
		}
	}
	return out
}

// CellNames returns the addresses in ascending row order, then column order.
func (g *Grid) CellNames() []string {
	rows := make([]int, 0, len(g.cells))
	for r := range g.cells {
		rows = append(rows, r)
	}
	sort.Ints(rows)

	var names []string
	for _, r := range rows {
		for _, c := range Columns {
			if _, ok := g.cells[r][c]; ok {
				names = append(names, CellName(c, r))
			}
		}
	}
	return names
}

// CellName builds a spreadsheet address.
func CellName(col Column, row int) string {
	return string(col) + strconv.Itoa(row)
}

// ParseCellName splits "B12" into column B and row 12.
func ParseCellName(name string) (Column, int, error) {
	if len(name) < 2 {
		return "", 0, fmt.Errorf("invalid cell name %q", name)
	}
	col := Column(name[:1])
	row, err := strconv.Atoi(name[1:])
	if err != nil || !validColumn(col) || row < 1 {
		return "", 0, fmt.Errorf("invalid cell name %q", name)
	}
	return col, row, nil
}

func validColumn(c Column) bool {
	return c == ColumnA || c == ColumnB || c == ColumnC
}
