package prefabs

import "gopkg.in/yaml.v3"

type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

// LoadEntityBuildSpec loads an entity prefab such as "entities/shooter.yaml".
func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

// TransformComponentSpec places an entity on the range. Angles are degrees.
type TransformComponentSpec struct {
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Z     float64 `yaml:"z"`
	Yaw   float64 `yaml:"yaw"`
	Pitch float64 `yaml:"pitch"`
}

type WeaponComponentSpec struct {
	Preset string `yaml:"preset"`
	Slot   int    `yaml:"slot"`
}

type PhysicsBodyComponentSpec struct {
	Radius float64 `yaml:"radius"`
	Static bool    `yaml:"static"`
}

type TargetComponentSpec struct {
	Hits int `yaml:"hits"`
}

type PointSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// RangeComponentSpec lays out the firing range: which prefab is the shooter
// and where the targets stand.
type RangeComponentSpec struct {
	Shooter string      `yaml:"shooter"`
	Target  string      `yaml:"target"`
	Targets []PointSpec `yaml:"targets"`
}
