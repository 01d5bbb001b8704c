// Package loadout persists the weapon preset bound to each numbered slot.
package loadout

import (
	"fmt"
	"log"

	"github.com/milk9111/spreadfire/prefabs"
	"github.com/milk9111/spreadfire/weapon"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const loadoutObject = "loadout"

// Store keeps one weapon spec per slot. Without a gdata manager it runs in
// memory only and nothing survives a restart.
type Store struct {
	manager *gdata.Manager
	slots   map[int]*prefabs.WeaponSpec
}

// Open creates a store backed by the platform data directory for appName.
func Open(appName string) (*Store, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("loadout: open %s: %w", appName, err)
	}
	return New(m), nil
}

// New wraps m. A nil manager gives a memory-only store.
func New(m *gdata.Manager) *Store {
	return &Store{
		manager: m,
		slots:   make(map[int]*prefabs.WeaponSpec),
	}
}

// Persistent reports whether saves reach disk.
func (s *Store) Persistent() bool {
	return s != nil && s.manager != nil
}

func slotProperty(slot int) string {
	return fmt.Sprintf("slot_%d", slot)
}

// Save stores spec in slot.
func (s *Store) Save(slot int, spec *prefabs.WeaponSpec) error {
	if s == nil || spec == nil {
		return fmt.Errorf("loadout: save slot %d: nil store or spec", slot)
	}
	s.slots[slot] = spec
	if s.manager == nil {
		return nil
	}

	data, err := yaml.Marshal(spec)
	if err != nil {
		return fmt.Errorf("loadout: marshal slot %d: %w", slot, err)
	}
	if err := s.manager.SaveObjectProp(loadoutObject, slotProperty(slot), data); err != nil {
		return fmt.Errorf("loadout: save slot %d: %w", slot, err)
	}
	log.Printf("loadout: saved %s to slot %d", spec.Name, slot)
	return nil
}

// SaveMechanic captures m and stores it in slot.
func (s *Store) SaveMechanic(slot int, m *weapon.Mechanic) error {
	if m == nil {
		return fmt.Errorf("loadout: save slot %d: nil mechanic", slot)
	}
	return s.Save(slot, prefabs.SpecFromMechanic(m))
}

// Load returns the spec in slot. The bool is false when the slot is empty.
func (s *Store) Load(slot int) (*prefabs.WeaponSpec, bool, error) {
	if s == nil {
		return nil, false, nil
	}
	if s.manager == nil {
		spec, ok := s.slots[slot]
		return spec, ok, nil
	}

	prop := slotProperty(slot)
	if !s.manager.ObjectPropExists(loadoutObject, prop) {
		return nil, false, nil
	}
	data, err := s.manager.LoadObjectProp(loadoutObject, prop)
	if err != nil {
		return nil, false, fmt.Errorf("loadout: load slot %d: %w", slot, err)
	}
	var spec prefabs.WeaponSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, false, fmt.Errorf("loadout: unmarshal slot %d: %w", slot, err)
	}
	s.slots[slot] = &spec
	return &spec, true, nil
}

// LoadMechanic builds the mechanic stored in slot.
func (s *Store) LoadMechanic(slot int) (*weapon.Mechanic, bool, error) {
	spec, ok, err := s.Load(slot)
	if err != nil || !ok {
		return nil, ok, err
	}
	m, err := spec.Build()
	if err != nil {
		return nil, false, fmt.Errorf("loadout: build slot %d: %w", slot, err)
	}
	return m, true, nil
}
