package system

import (
	"log"
	"time"

	"github.com/milk9111/spreadfire/ecs"
	"github.com/milk9111/spreadfire/ecs/component"
	"github.com/milk9111/spreadfire/loadout"
	"github.com/milk9111/spreadfire/prefabs"
)

// PresetSystem swaps weapon mechanics at runtime: on preset file edits, on
// preset selection input, and on loadout save/load requests.
type PresetSystem struct {
	Watcher  *prefabs.Watcher
	Loadouts *loadout.Store

	names []string
	// loaded holds the disk mod time of each preset as last read.
	loaded map[string]time.Time
}

func NewPresetSystem(watcher *prefabs.Watcher, loadouts *loadout.Store) *PresetSystem {
	return &PresetSystem{Watcher: watcher, Loadouts: loadouts}
}

func (s *PresetSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	for _, change := range s.Watcher.Poll() {
		s.names = nil
		name := change.Name()
		if change.Kind == prefabs.ChangeWeapon && !s.modified(name) {
			continue
		}
		ecs.ForEach(w, component.WeaponComponent.Kind(), func(e ecs.Entity, wp *component.Weapon) {
			// A script edit can affect any preset, so reload them all.
			if change.Kind == prefabs.ChangeWeapon && wp.Preset != name {
				return
			}
			s.reload(w, e, wp, wp.Preset)
		})
	}

	ecs.ForEach2(w, component.WeaponComponent.Kind(), component.InputComponent.Kind(), func(e ecs.Entity, wp *component.Weapon, input *component.Input) {
		if input.SelectPreset > 0 {
			if name, ok := s.presetAt(input.SelectPreset); ok {
				s.reload(w, e, wp, name)
			}
		}
		if input.SaveSlot > 0 && s.Loadouts != nil && wp.Controller != nil {
			spec := prefabs.SpecFromMechanic(wp.Controller.Mechanic())
			spec.Muzzle = prefabs.Vec3Spec{X: wp.Muzzle.X(), Y: wp.Muzzle.Y(), Z: wp.Muzzle.Z()}
			spec.Projectile = prefabs.ProjectileSpec{
				Speed:    wp.Projectile.Speed,
				Lifetime: wp.Projectile.Lifetime.Seconds(),
				Radius:   wp.Projectile.Radius,
			}
			if err := s.Loadouts.Save(input.SaveSlot, spec); err != nil {
				log.Printf("preset: warning: %v", err)
			}
		}
		if input.LoadSlot > 0 && s.Loadouts != nil {
			spec, ok, err := s.Loadouts.Load(input.LoadSlot)
			switch {
			case err != nil:
				log.Printf("preset: warning: %v", err)
			case !ok:
				log.Printf("preset: slot %d is empty", input.LoadSlot)
			default:
				s.install(w, e, wp, spec)
				wp.Slot = input.LoadSlot
			}
		}
	})
}

func (s *PresetSystem) presetAt(index int) (string, bool) {
	if s.names == nil {
		names, err := prefabs.WeaponNames()
		if err != nil {
			log.Printf("preset: warning: %v", err)
			return "", false
		}
		s.names = names
	}
	if index < 1 || index > len(s.names) {
		return "", false
	}
	return s.names[index-1], true
}

// modified reports whether the disk copy of name changed since it was last
// read. A preset with no disk copy always counts as changed so the embedded
// version is picked up again.
func (s *PresetSystem) modified(name string) bool {
	mod, ok := prefabs.ModTime(name)
	if !ok {
		delete(s.loaded, name)
		return true
	}
	prev, seen := s.loaded[name]
	return !seen || !prev.Equal(mod)
}

func (s *PresetSystem) reload(w *ecs.World, e ecs.Entity, wp *component.Weapon, name string) {
	mod, onDisk := prefabs.ModTime(name)
	spec, err := prefabs.LoadWeaponSpec(name)
	if err != nil {
		log.Printf("preset: warning: reload %s: %v", name, err)
		w.Events().Push(ecs.Event{Type: ecs.EventReload, Data: ecs.ReloadEvent{Entity: e, Preset: name, Err: err}})
		return
	}
	if onDisk {
		if s.loaded == nil {
			s.loaded = make(map[string]time.Time)
		}
		s.loaded[name] = mod
	}
	s.install(w, e, wp, spec)
}

// install keeps the previous mechanic when spec is rejected.
func (s *PresetSystem) install(w *ecs.World, e ecs.Entity, wp *component.Weapon, spec *prefabs.WeaponSpec) {
	err := ApplyWeaponSpec(wp, spec)
	if err != nil {
		log.Printf("preset: warning: keeping %s: %v", wp.Preset, err)
	} else {
		log.Printf("preset: entity=%s now using %s", e, wp.Preset)
	}
	w.Events().Push(ecs.Event{Type: ecs.EventReload, Data: ecs.ReloadEvent{Entity: e, Preset: spec.Name, Err: err}})
}
