package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// SceneSpec is a whole scene: a list of entity prefabs.
type SceneSpec struct {
	Name       string       `yaml:"name"`
	ClearColor *YAMLColor   `yaml:"clear_color"`
	Entities   []EntitySpec `yaml:"entities"`
}

// EntitySpec describes one entity, or Count copies of it placed Spacing
// apart. Stress entities are the ones the demo destroys and respawns.
type EntitySpec struct {
	Name       string         `yaml:"name"`
	Count      int            `yaml:"count"`
	Spacing    Vec3Spec       `yaml:"spacing"`
	Stress     bool           `yaml:"stress"`
	Components map[string]any `yaml:"components"`
}

// Copies is Count with the zero value meaning one.
func (s EntitySpec) Copies() int {
	return max(s.Count, 1)
}

type Vec3Spec [3]float32

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

func LoadScene(name string) (*SceneSpec, error) {
	spec, err := LoadSpec[SceneSpec](name)
	if err != nil {
		return nil, err
	}
	if len(spec.Entities) == 0 {
		return nil, fmt.Errorf("prefabs: scene %s has no entities", name)
	}
	return &spec, nil
}

// DecodeComponentSpec re-decodes a loosely typed component block into T.
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

type TransformComponentSpec struct {
	Position Vec3Spec  `yaml:"position"`
	Rotation Vec3Spec  `yaml:"rotation"` // euler degrees, XYZ
	Scale    *Vec3Spec `yaml:"scale"`
}

type RenderComponentSpec struct {
	Mesh           string  `yaml:"mesh"` // "cube", "plane" or a mesh file
	Shader         string  `yaml:"shader"`
	Texture        string  `yaml:"texture"`
	Layer          uint32  `yaml:"layer"`
	Kind           string  `yaml:"kind"` // "mesh" or "skybox"
	BoundingRadius float32 `yaml:"bounding_radius"`
}

type CameraComponentSpec struct {
	Target  Vec3Spec `yaml:"target"`
	FOV     float32  `yaml:"fov"`
	Near    float32  `yaml:"near"`
	Far     float32  `yaml:"far"`
	Primary bool     `yaml:"primary"`
}

type BodyComponentSpec struct {
	Shape       string   `yaml:"shape"` // sphere, box, sensor or mesh
	Radius      float32  `yaml:"radius"`
	HalfExtents Vec3Spec `yaml:"half_extents"`
	Static      bool     `yaml:"static"`
	Restitution float32  `yaml:"restitution"`
	Mesh        string   `yaml:"mesh"`
}

type VelocityComponentSpec struct {
	Linear     Vec3Spec `yaml:"linear"`
	Gravity    float32  `yaml:"gravity"`
	UseGravity bool     `yaml:"use_gravity"`
}

type PlayerComponentSpec struct {
	MoveSpeed float32 `yaml:"move_speed"`
	JumpForce float32 `yaml:"jump_force"`
}

type ScriptComponentSpec struct {
	Path   string `yaml:"path"`
	Source string `yaml:"source"`
}

type TTLComponentSpec struct {
	Seconds float32 `yaml:"seconds"`
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	var rgba [4]uint8
	rgba[3] = 255
	for i := 0; i < len(s)/2; i++ {
		v, err := parse(i * 2)
		if err != nil {
			return fmt.Errorf("invalid color format: %s", value.Value)
		}
		rgba[i] = v
	}

	c.Color = color.NRGBA{R: rgba[0], G: rgba[1], B: rgba[2], A: rgba[3]}
	return nil
}
