// =============================================================================
// Invoice Report Importer - Report Grid
// =============================================================================
//
// Rows and grids as produced by the decoders, plus the helpers the parser
// uses to inspect them.
//
// =============================================================================

package invoice

import "github.com/ginjaninja78/invoice-report-importer/internal/cell"

// Row is one decoded spreadsheet row. Cells are strings, numbers or nil.
type Row []any

// Grid is every row of one worksheet, in order.
type Grid []Row

// trimmed returns r without its trailing blank cells.
func (r Row) trimmed() Row {
	end := len(r)
	for end > 0 && cell.IsBlank(r[end-1]) {
		end--
	}
	return r[:end]
}

// isEmpty reports whether every cell of r is blank.
func (r Row) isEmpty() bool {
	return len(r.trimmed()) == 0
}

// cursor walks a grid once. peek never consumes, so a stage can hand the
// row it rejected to the next stage.
type cursor struct {
	grid Grid
	pos  int
}

func (c *cursor) peek() (Row, bool) {
	if c.pos >= len(c.grid) {
		return nil, false
	}
	return c.grid[c.pos], true
}

func (c *cursor) advance() {
	c.pos++
}

// line is the 1-based number of the row peek returns.
func (c *cursor) line() int {
	return c.pos + 1
}
