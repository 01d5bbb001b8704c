package entity

import (
	"fmt"

	"github.com/milk9111/spreadfire/ecs"
	"github.com/milk9111/spreadfire/prefabs"
)

const DefaultRange = "entities/range.yaml"

// Range is the set of entities a range prefab produced.
type Range struct {
	Shooter ecs.Entity
	Targets []ecs.Entity
}

// BuildRange builds the shooter and every target listed by a range prefab.
func BuildRange(w *ecs.World, prefabPath string) (*Range, error) {
	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return nil, fmt.Errorf("build range: load %q: %w", prefabPath, err)
	}
	layout, err := prefabs.DecodeComponentSpec[prefabs.RangeComponentSpec](spec.Components["range"])
	if err != nil {
		return nil, fmt.Errorf("build range: decode %q: %w", prefabPath, err)
	}
	if layout.Shooter == "" {
		layout.Shooter = "shooter"
	}
	if layout.Target == "" {
		layout.Target = "target"
	}

	shooter, err := NewShooter(w, layout.Shooter)
	if err != nil {
		return nil, err
	}
	r := &Range{Shooter: shooter}
	for i, p := range layout.Targets {
		target, err := BuildEntity(w, entityPath(layout.Target))
		if err != nil {
			return nil, fmt.Errorf("build range: target %d: %w", i, err)
		}
		if err := SetEntityTransform(w, target, p.X, p.Y, nil); err != nil {
			return nil, fmt.Errorf("build range: place target %d: %w", i, err)
		}
		r.Targets = append(r.Targets, target)
	}
	return r, nil
}

func NewShooter(w *ecs.World, name string) (ecs.Entity, error) {
	return BuildEntity(w, entityPath(name))
}

func entityPath(name string) string {
	return "entities/" + name + ".yaml"
}
