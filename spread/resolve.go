// Package spread turns a weapon's boolean spread grid into world-space firing
// directions.
package spread

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/spreadfire/common"
)

// ErrRaggedRows is returned by ParseRows when a row does not fit the grid.
var ErrRaggedRows = errors.New("spread: ragged pattern rows")

// degenerateLen is the length below which a target point is treated as
// coinciding with the spawn origin.
const degenerateLen = 1e-12

// Pattern is the read-only view of a spread grid the resolver needs.
type Pattern interface {
	SpreadWidth() int
	SpreadHeight() int
	SpreadPattern() []bool
	SpreadDepth() float64
	CellDim() float64
}

// Offset is one resolved projectile direction.
type Offset struct {
	Cell      int
	Direction mgl64.Vec3
	Rotation  common.Rotation
}

// Resolve returns one offset per active cell of p, in ascending cell order.
// Cells whose target point coincides with the muzzle are skipped.
func Resolve(p Pattern, frame common.Frame) []Offset {
	if p == nil {
		return nil
	}
	width := p.SpreadWidth()
	cells := p.SpreadPattern()
	if width < 1 || len(cells) == 0 {
		return nil
	}

	cellDim := p.CellDim()
	offW := float64(width) / 2
	offH := float64(p.SpreadHeight()) / 2
	dist := frame.Forward.Mul(p.SpreadDepth())

	offsets := make([]Offset, 0, len(cells))
	for i, active := range cells {
		if !active {
			continue
		}
		x := float64(i%width) - offW
		y := float64(i/width) - offH

		// The spawn origin cancels out of target - origin.
		rel := dist.
			Add(frame.Up.Mul(y*cellDim + 0.5*cellDim)).
			Add(frame.Right.Mul(x*cellDim + 0.5*cellDim))

		if rel.Len() < degenerateLen {
			log.Printf("spread: warning: cell %d target coincides with origin, skipping", i)
			continue
		}
		dir := rel.Normalize()
		offsets = append(offsets, Offset{
			Cell:      i,
			Direction: dir,
			Rotation:  common.OrientationOf(dir),
		})
	}
	return offsets
}

// Grid renders p as text rows, '#' for active cells and '.' for inactive.
func Grid(p Pattern) string {
	if p == nil {
		return ""
	}
	width := p.SpreadWidth()
	cells := p.SpreadPattern()
	if width < 1 {
		return ""
	}
	var b strings.Builder
	for i, active := range cells {
		if i > 0 && i%width == 0 {
			b.WriteByte('\n')
		}
		if active {
			b.WriteByte('#')
		} else {
			b.WriteByte('.')
		}
	}
	return b.String()
}

// ParseRows converts text rows into a row-major pattern and its width. Any of
// '#', 'x', 'X', '1', '*' marks an active cell; every other rune is inactive.
// The first row's length is the width. Every other row must match it, except
// the last, which may be shorter.
func ParseRows(rows []string) ([]bool, int, error) {
	if len(rows) == 0 {
		return nil, 0, nil
	}
	width := len([]rune(rows[0]))
	pattern := make([]bool, 0, width*len(rows))
	for i, row := range rows {
		n := len([]rune(row))
		if n > width || (n < width && i != len(rows)-1) {
			return nil, 0, fmt.Errorf("%w: row %d has %d cells, want %d", ErrRaggedRows, i, n, width)
		}
		for _, r := range row {
			switch r {
			case '#', 'x', 'X', '1', '*':
				pattern = append(pattern, true)
			default:
				pattern = append(pattern, false)
			}
		}
	}
	return pattern, width, nil
}
