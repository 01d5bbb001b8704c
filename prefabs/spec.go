package prefabs

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/spreadfire/spread"
	"github.com/milk9111/spreadfire/weapon"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// WeaponSpec is a weapon preset. Delays are in seconds; nil fields keep the
// mechanic defaults.
type WeaponSpec struct {
	Name            string         `yaml:"name"`
	ShotMultiplier  int            `yaml:"shot_multiplier"`
	FireDelay       *float64       `yaml:"fire_delay"`
	MultiplierDelay *float64       `yaml:"multiplier_delay"`
	FullAutomatic   bool           `yaml:"full_automatic"`
	Muzzle          Vec3Spec       `yaml:"muzzle"`
	Spread          SpreadSpec     `yaml:"spread"`
	Projectile      ProjectileSpec `yaml:"projectile"`
}

type SpreadSpec struct {
	Width   int            `yaml:"width"`
	Depth   *float64       `yaml:"depth"`
	Area    *float64       `yaml:"area"`
	Pattern []string       `yaml:"pattern"`
	Script  string         `yaml:"script"`
	Params  map[string]any `yaml:"params"`
}

type ProjectileSpec struct {
	Speed    float64 `yaml:"speed"`
	Lifetime float64 `yaml:"lifetime"`
	Radius   float64 `yaml:"radius"`
}

type Vec3Spec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

func (v Vec3Spec) Vec3() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

// LoadWeaponSpec loads a preset by name ("shotgun") or path
// ("weapons/shotgun.yaml").
func LoadWeaponSpec(name string) (*WeaponSpec, error) {
	spec, err := LoadSpec[WeaponSpec](weaponPath(name))
	if err != nil {
		return nil, err
	}
	if spec.Name == "" {
		spec.Name = presetName(name)
	}
	return &spec, nil
}

// Build creates a mechanic from the spec.
func (s *WeaponSpec) Build() (*weapon.Mechanic, error) {
	m := weapon.DefaultMechanic()
	if err := s.Apply(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Apply writes the spec onto m. The pattern is validated before anything is
// written, so a rejected spec leaves m unchanged.
func (s *WeaponSpec) Apply(m *weapon.Mechanic) error {
	if s == nil || m == nil {
		return fmt.Errorf("prefabs: apply weapon spec: nil spec or mechanic")
	}

	pattern, width, err := s.Spread.resolvePattern()
	if err != nil {
		return fmt.Errorf("prefabs: weapon %s: %w", s.Name, err)
	}
	if pattern != nil {
		if err := weapon.ValidatePattern(pattern, width); err != nil {
			return fmt.Errorf("prefabs: weapon %s: %w", s.Name, err)
		}
		m.ChangePattern(pattern, width)
	}

	m.Name = s.Name
	m.FullAutomatic = s.FullAutomatic
	if s.ShotMultiplier != 0 {
		m.SetShotMultiplier(s.ShotMultiplier)
	}
	if s.FireDelay != nil {
		m.SetFireDelay(Seconds(*s.FireDelay))
	}
	if s.MultiplierDelay != nil {
		m.SetMultiplierDelay(Seconds(*s.MultiplierDelay))
	}
	if s.Spread.Depth != nil {
		m.SetSpreadDepth(*s.Spread.Depth)
	}
	if s.Spread.Area != nil {
		m.SetSpreadArea(*s.Spread.Area)
	}
	return nil
}

// resolvePattern returns nil when the spec does not override the pattern.
func (s SpreadSpec) resolvePattern() ([]bool, int, error) {
	var (
		pattern []bool
		width   int
	)
	switch {
	case strings.TrimSpace(s.Script) != "":
		p, w, err := RunPatternScript(s.Script, s.Params)
		if err != nil {
			return nil, 0, err
		}
		pattern, width = p, w
	case len(s.Pattern) > 0:
		p, w, err := spread.ParseRows(s.Pattern)
		if err != nil {
			return nil, 0, err
		}
		pattern, width = p, w
	default:
		return nil, 0, nil
	}
	if s.Width > 0 {
		width = s.Width
	}
	return pattern, width, nil
}

// SpecFromMechanic captures m as a preset so it can be stored and rebuilt.
func SpecFromMechanic(m *weapon.Mechanic) *WeaponSpec {
	if m == nil {
		return nil
	}
	fireDelay := m.FireDelay().Seconds()
	multDelay := m.MultiplierDelay().Seconds()
	depth := m.SpreadDepth()
	area := m.SpreadArea()
	return &WeaponSpec{
		Name:            m.Name,
		ShotMultiplier:  m.ShotMultiplier(),
		FireDelay:       &fireDelay,
		MultiplierDelay: &multDelay,
		FullAutomatic:   m.FullAutomatic,
		Spread: SpreadSpec{
			Width:   m.SpreadWidth(),
			Depth:   &depth,
			Area:    &area,
			Pattern: strings.Split(spread.Grid(m), "\n"),
		},
	}
}

// Seconds converts a preset duration in seconds to a time.Duration.
func Seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}
