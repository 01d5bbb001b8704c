package prefabs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/milk9111/spreadfire/weapon"
)

func useRoot(t *testing.T, dir string) {
	t.Helper()
	prev := Root
	Root = dir
	t.Cleanup(func() { Root = prev })
}

func TestEmbeddedWeaponPresets(t *testing.T) {
	useRoot(t, t.TempDir())

	cases := []struct {
		name       string
		multiplier int
		fireDelay  time.Duration
		width      int
		active     int
		auto       bool
	}{
		{"default", 1, 200 * time.Millisecond, 3, 1, false},
		{"rifle", 1, 120 * time.Millisecond, 3, 1, true},
		{"burst", 3, 500 * time.Millisecond, 3, 1, false},
		{"shotgun", 1, 600 * time.Millisecond, 3, 5, false},
		{"ring", 2, 800 * time.Millisecond, 5, 16, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spec, err := LoadWeaponSpec(tc.name)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			m, err := spec.Build()
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			if m.Name != tc.name {
				t.Fatalf("name: got %q want %q", m.Name, tc.name)
			}
			if m.ShotMultiplier() != tc.multiplier {
				t.Fatalf("multiplier: got %d want %d", m.ShotMultiplier(), tc.multiplier)
			}
			if m.FireDelay() != tc.fireDelay {
				t.Fatalf("fire delay: got %s want %s", m.FireDelay(), tc.fireDelay)
			}
			if m.SpreadWidth() != tc.width {
				t.Fatalf("width: got %d want %d", m.SpreadWidth(), tc.width)
			}
			if m.ActiveCells() != tc.active {
				t.Fatalf("active cells: got %d want %d", m.ActiveCells(), tc.active)
			}
			if m.FullAutomatic != tc.auto {
				t.Fatalf("full automatic: got %v want %v", m.FullAutomatic, tc.auto)
			}
		})
	}
}

func TestWeaponNamesIncludesDiskPresets(t *testing.T) {
	dir := t.TempDir()
	useRoot(t, dir)
	if err := os.MkdirAll(filepath.Join(dir, "weapons"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "weapons", "custom.yaml"), []byte("name: custom\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	names, err := WeaponNames()
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]bool{"burst": false, "custom": false, "default": false, "ring": false, "rifle": false, "shotgun": false}
	for _, n := range names {
		if _, ok := want[n]; ok {
			want[n] = true
		}
	}
	for n, seen := range want {
		if !seen {
			t.Fatalf("missing preset %q in %v", n, names)
		}
	}
}

func TestDiskPresetOverridesEmbedded(t *testing.T) {
	dir := t.TempDir()
	useRoot(t, dir)
	if err := os.MkdirAll(filepath.Join(dir, "weapons"), 0o755); err != nil {
		t.Fatal(err)
	}
	src := "name: default\nshot_multiplier: 4\nfire_delay: 0.25\nspread:\n  pattern: [\"##\", \"##\"]\n"
	if err := os.WriteFile(filepath.Join(dir, "weapons", "default.yaml"), []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	spec, err := LoadWeaponSpec("default")
	if err != nil {
		t.Fatal(err)
	}
	m, err := spec.Build()
	if err != nil {
		t.Fatal(err)
	}
	if m.ShotMultiplier() != 4 || m.FireDelay() != 250*time.Millisecond {
		t.Fatalf("override not applied: %s", m)
	}
	if m.SpreadWidth() != 2 || m.ActiveCells() != 4 {
		t.Fatalf("pattern not applied: %s", m)
	}
	// Fields the override leaves out keep the mechanic defaults.
	if m.MultiplierDelay() != weapon.DefaultMultiplierDelay {
		t.Fatalf("multiplier delay: got %s", m.MultiplierDelay())
	}
	if _, ok := ModTime("default"); !ok {
		t.Fatalf("expected mod time for disk preset")
	}
	if _, ok := ModTime("shotgun"); ok {
		t.Fatalf("embedded-only preset should have no mod time")
	}
}

func TestApplyRejectsBadWidth(t *testing.T) {
	m := weapon.DefaultMechanic()
	before := m.Clone()

	spec := &WeaponSpec{
		Name:           "broken",
		ShotMultiplier: 5,
		Spread:         SpreadSpec{Width: 10, Pattern: []string{".#."}},
	}
	err := spec.Apply(m)
	if !errors.Is(err, weapon.ErrInvalidPatternWidth) {
		t.Fatalf("expected ErrInvalidPatternWidth, got %v", err)
	}
	if m.String() != before.String() {
		t.Fatalf("rejected spec modified mechanic: %s", m)
	}
}

func TestSpecFromMechanicRoundTrip(t *testing.T) {
	m, err := weapon.NewPatternMechanic(3, []bool{true, false, true, false, true}, 2)
	if err != nil {
		t.Fatal(err)
	}
	m.Name = "zigzag"
	m.SetFireDelay(350 * time.Millisecond)
	m.FullAutomatic = true

	rebuilt, err := SpecFromMechanic(m).Build()
	if err != nil {
		t.Fatal(err)
	}
	if rebuilt.String() != m.String() {
		t.Fatalf("got %s want %s", rebuilt, m)
	}
	got, want := rebuilt.SpreadPattern(), m.SpreadPattern()
	if len(got) != len(want) {
		t.Fatalf("pattern len: got %d want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("cell %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestRangeEntitySpec(t *testing.T) {
	useRoot(t, t.TempDir())

	spec, err := LoadEntityBuildSpec("entities/range.yaml")
	if err != nil {
		t.Fatal(err)
	}
	rng, err := DecodeComponentSpec[RangeComponentSpec](spec.Components["range"])
	if err != nil {
		t.Fatal(err)
	}
	if rng.Shooter != "shooter" || len(rng.Targets) == 0 {
		t.Fatalf("unexpected range spec: %+v", rng)
	}

	shooter, err := LoadEntityBuildSpec("entities/shooter.yaml")
	if err != nil {
		t.Fatal(err)
	}
	ws, err := DecodeComponentSpec[WeaponComponentSpec](shooter.Components["weapon"])
	if err != nil {
		t.Fatal(err)
	}
	if ws.Preset != "default" || ws.Slot != 1 {
		t.Fatalf("unexpected weapon component: %+v", ws)
	}
}
