package entity

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/spreadfire/common"
	"github.com/milk9111/spreadfire/ecs"
	"github.com/milk9111/spreadfire/ecs/component"
	"github.com/milk9111/spreadfire/ecs/system"
	"github.com/milk9111/spreadfire/fire"
	"github.com/milk9111/spreadfire/prefabs"
)

type buildContext struct {
	PrefabPath string
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"player":       addPlayer,
	"target":       addTarget,
	"transform":    addTransform,
	"weapon":       addWeapon,
	"physics_body": addPhysicsBody,
}

var componentBuildOrder = []string{
	"player",
	"target",
	"transform",
	"weapon",
	"physics_body",
}

func BuildEntity(w *ecs.World, prefabPath string) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}

	e := ecs.CreateEntity(w)
	ctx := &buildContext{PrefabPath: prefabPath}

	remaining := make(map[string]any, len(spec.Components))
	for k, v := range spec.Components {
		remaining[k] = v
	}

	for _, name := range componentBuildOrder {
		raw, ok := remaining[name]
		if !ok {
			continue
		}
		if err := componentRegistry[name](w, e, raw, ctx); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", prefabPath, name, err)
		}
		delete(remaining, name)
	}

	if len(remaining) > 0 {
		names := make([]string, 0, len(remaining))
		for name := range remaining {
			names = append(names, name)
		}
		sort.Strings(names)
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("build entity: %q: no builder for components %v", prefabPath, names)
	}

	return e, nil
}

// SetEntityTransform moves e, keeping its rotation unless rot is non-nil.
func SetEntityTransform(w *ecs.World, e ecs.Entity, x, y float64, rot *common.Rotation) error {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok || t == nil {
		t = &component.Transform{}
	}
	t.Position[0] = x
	t.Position[1] = y
	if rot != nil {
		t.Rotation = *rot
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), t)
}

func addPlayer(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	if err := ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{}); err != nil {
		return err
	}
	return ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{})
}

func addTarget(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.TargetComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode target spec: %w", err)
	}
	return ecs.Add(w, e, component.TargetComponent.Kind(), &component.Target{Hits: spec.Hits})
}

func addTransform(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.TransformComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	t := &component.Transform{
		Position: mgl64.Vec3{spec.X, spec.Y, spec.Z},
		Rotation: common.Rotation{Yaw: spec.Yaw, Pitch: spec.Pitch},
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), t)
}

func addWeapon(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.WeaponComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode weapon spec: %w", err)
	}
	wp := &component.Weapon{
		Controller: fire.NewController(nil, nil),
		Preset:     spec.Preset,
		Slot:       spec.Slot,
		Projectile: system.ProjectileStatsFromSpec(prefabs.ProjectileSpec{}),
	}
	if spec.Preset != "" {
		preset, err := prefabs.LoadWeaponSpec(spec.Preset)
		if err != nil {
			return err
		}
		if err := system.ApplyWeaponSpec(wp, preset); err != nil {
			return err
		}
	}
	if !ecs.Has(w, e, component.InputComponent.Kind()) {
		if err := ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{}); err != nil {
			return err
		}
	}
	return ecs.Add(w, e, component.WeaponComponent.Kind(), wp)
}

func addPhysicsBody(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.PhysicsBodyComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode physics_body spec: %w", err)
	}
	return ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Radius: spec.Radius,
		Static: spec.Static,
	})
}
