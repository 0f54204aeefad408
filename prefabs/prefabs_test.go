package prefabs

import (
	"image/color"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestEmbeddedScenesLoad(t *testing.T) {
	for _, name := range []string{"default", "stress.yaml", "prefabs/default.yaml"} {
		t.Run(name, func(t *testing.T) {
			scene, err := LoadScene(name)
			require.NoError(t, err)
			assert.NotEmpty(t, scene.Entities)
			for _, e := range scene.Entities {
				assert.NotEmpty(t, e.Name)
				assert.NotEmpty(t, e.Components)
			}
		})
	}
}

func TestLoadSceneMissing(t *testing.T) {
	_, err := LoadScene("nope")
	assert.Error(t, err)
}

func TestEmbeddedScriptsReachable(t *testing.T) {
	for _, name := range []string{"bob.tengo", "scripts/orbit.tengo", "prefabs/scripts/bob.tengo"} {
		t.Run(name, func(t *testing.T) {
			data, err := LoadScript(name)
			require.NoError(t, err)
			assert.Contains(t, string(data), "math")
		})
	}
	_, err := fs.Stat(Scripts(), "scripts/orbit.tengo")
	assert.NoError(t, err)
}

func TestDecodeComponentSpec(t *testing.T) {
	var raw map[string]any
	require.NoError(t, yaml.Unmarshal([]byte("shape: box\nhalf_extents: [1, 2, 3]\nstatic: true"), &raw))

	spec, err := DecodeComponentSpec[BodyComponentSpec](raw)
	require.NoError(t, err)
	assert.Equal(t, "box", spec.Shape)
	assert.Equal(t, Vec3Spec{1, 2, 3}, spec.HalfExtents)
	assert.True(t, spec.Static)

	empty, err := DecodeComponentSpec[BodyComponentSpec](nil)
	require.NoError(t, err)
	assert.Zero(t, empty)

	_, err = DecodeComponentSpec[BodyComponentSpec](map[string]any{"half_extents": []any{1, 2}})
	assert.Error(t, err)
}

func TestYAMLColor(t *testing.T) {
	cases := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{`"#2f4f4f"`, color.NRGBA{R: 0x2f, G: 0x4f, B: 0x4f, A: 255}, false},
		{`"ff000080"`, color.NRGBA{R: 255, A: 0x80}, false},
		{`"#fff"`, color.NRGBA{}, true},
		{`"#gg0000"`, color.NRGBA{}, true},
		{`[1, 2]`, color.NRGBA{}, true},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			var got YAMLColor
			err := yaml.Unmarshal([]byte(c.in), &got)
			if c.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.want, got.Color)
		})
	}
}

func TestCleanPaths(t *testing.T) {
	assert.Equal(t, "default.yaml", cleanPrefabPath("default"))
	assert.Equal(t, "default.yaml", cleanPrefabPath("prefabs/default.yaml"))
	assert.Equal(t, "scripts/bob.tengo", cleanScriptPath("prefabs/scripts/bob.tengo"))
	assert.Equal(t, "scripts/bob.tengo", cleanScriptPath("bob.tengo"))
	assert.True(t, IsScene("default.yaml"))
	assert.False(t, IsScene("scripts/bob.tengo"))
}
