// Package weapon describes how a weapon fires: how many shots a trigger pull
// queues, how quickly they leave, and the grid of directions each shot covers.
package weapon

import (
	"errors"
	"fmt"
	"time"

	"github.com/milk9111/spreadfire/common"
)

var ErrInvalidPatternWidth = errors.New("weapon: invalid pattern width")

const (
	DefaultShotMultiplier  = 1
	DefaultMultiplierDelay = 50 * time.Millisecond
	DefaultFireDelay       = 200 * time.Millisecond
	DefaultSpreadWidth     = 3
	DefaultSpreadDepth     = 100.0
	DefaultSpreadArea      = 4.0
)

// Mechanism is the capability set shared by weapon configurations. Variant
// weapons are presets or strategies behind this interface.
type Mechanism interface {
	SpreadWidth() int
	SpreadHeight() int
	SpreadPattern() []bool
	SpreadDepth() float64
	CellDim() float64

	SetShotMultiplier(n int)
	SetFireDelay(d time.Duration)
	SetMultiplierDelay(d time.Duration)
	SetSpreadDepth(depth float64)
	SetSpreadArea(area float64)
	ChangePattern(pattern []bool, width int) bool
}

// Mechanic is the configuration a fire controller reads each tick. Fields are
// only changed through the modifier methods so the clamping rules always hold.
type Mechanic struct {
	Name string

	// FullAutomatic makes the embedding layer re-pull the trigger every tick
	// while it is held.
	FullAutomatic bool

	shotMultiplier  int
	fireDelay       time.Duration
	multiplierDelay time.Duration
	spreadWidth     int
	spreadDepth     float64
	spreadArea      float64
	spreadPattern   []bool
}

var _ Mechanism = (*Mechanic)(nil)

// DefaultMechanic returns a single forward shot every 200ms.
func DefaultMechanic() *Mechanic {
	pattern := make([]bool, DefaultSpreadWidth)
	pattern[1] = true
	return &Mechanic{
		shotMultiplier:  DefaultShotMultiplier,
		fireDelay:       DefaultFireDelay,
		multiplierDelay: DefaultMultiplierDelay,
		spreadWidth:     DefaultSpreadWidth,
		spreadDepth:     DefaultSpreadDepth,
		spreadArea:      DefaultSpreadArea,
		spreadPattern:   pattern,
	}
}

// NewMechanic returns the default mechanic firing multiplier shots per pull.
func NewMechanic(multiplier int) *Mechanic {
	m := DefaultMechanic()
	m.SetShotMultiplier(multiplier)
	return m
}

// NewPatternMechanic returns a mechanic with a custom spread pattern.
func NewPatternMechanic(multiplier int, pattern []bool, width int) (*Mechanic, error) {
	if err := ValidatePattern(pattern, width); err != nil {
		return nil, err
	}
	m := NewMechanic(multiplier)
	m.ChangePattern(pattern, width)
	return m, nil
}

// ValidatePattern reports whether pattern can be laid out in rows of width.
// A pattern whose length is not a multiple of width is valid; its last row is
// partial.
func ValidatePattern(pattern []bool, width int) error {
	if width < 1 || width > len(pattern) {
		return fmt.Errorf("%w: width %d for %d cells", ErrInvalidPatternWidth, width, len(pattern))
	}
	return nil
}

func (m *Mechanic) ShotMultiplier() int {
	return m.shotMultiplier
}

func (m *Mechanic) FireDelay() time.Duration {
	return m.fireDelay
}

func (m *Mechanic) MultiplierDelay() time.Duration {
	return m.multiplierDelay
}

func (m *Mechanic) SpreadWidth() int {
	return m.spreadWidth
}

// SpreadHeight is the number of rows, counting a partial last row.
func (m *Mechanic) SpreadHeight() int {
	if m.spreadWidth < 1 {
		return 0
	}
	return (len(m.spreadPattern) + m.spreadWidth - 1) / m.spreadWidth
}

func (m *Mechanic) SpreadDepth() float64 {
	return m.spreadDepth
}

func (m *Mechanic) SpreadArea() float64 {
	return m.spreadArea
}

// CellDim is the world size of one pattern cell. It is the spread area.
func (m *Mechanic) CellDim() float64 {
	return m.spreadArea
}

// SpreadPattern returns a copy of the row-major pattern.
func (m *Mechanic) SpreadPattern() []bool {
	return append([]bool(nil), m.spreadPattern...)
}

// ActiveCells counts the cells that fire a projectile.
func (m *Mechanic) ActiveCells() int {
	n := 0
	for _, cell := range m.spreadPattern {
		if cell {
			n++
		}
	}
	return n
}

// SetShotMultiplier stores n, raising anything below 1 to 1.
func (m *Mechanic) SetShotMultiplier(n int) {
	m.shotMultiplier = max(n, 1)
}

func (m *Mechanic) SetFireDelay(d time.Duration) {
	m.fireDelay = common.NonNegative(d)
}

func (m *Mechanic) SetMultiplierDelay(d time.Duration) {
	m.multiplierDelay = common.NonNegative(d)
}

func (m *Mechanic) SetSpreadDepth(depth float64) {
	m.spreadDepth = common.NonNegative(depth)
}

func (m *Mechanic) SetSpreadArea(area float64) {
	m.spreadArea = common.NonNegative(area)
}

// ChangePattern replaces the spread pattern and width together. It returns
// false and leaves the mechanic untouched when width does not fit pattern.
func (m *Mechanic) ChangePattern(pattern []bool, width int) bool {
	if ValidatePattern(pattern, width) != nil {
		return false
	}
	m.spreadWidth = width
	m.spreadPattern = append([]bool(nil), pattern...)
	return true
}

// Clone returns a deep copy.
func (m *Mechanic) Clone() *Mechanic {
	if m == nil {
		return nil
	}
	c := *m
	c.spreadPattern = append([]bool(nil), m.spreadPattern...)
	return &c
}

func (m *Mechanic) String() string {
	return fmt.Sprintf("%s(x%d fire=%s mult=%s grid=%dx%d depth=%g area=%g auto=%v)",
		m.Name, m.shotMultiplier, m.fireDelay, m.multiplierDelay,
		m.spreadWidth, m.SpreadHeight(), m.spreadDepth, m.spreadArea, m.FullAutomatic)
}
