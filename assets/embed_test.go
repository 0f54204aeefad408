package assets

import (
	"image"
	_ "image/png"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/alphaengine/asset"
)

func TestEmbeddedMeshesParse(t *testing.T) {
	paths, err := fs.Glob(Embedded(), "meshes/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths)
	for _, p := range paths {
		t.Run(p, func(t *testing.T) {
			data, err := fs.ReadFile(Embedded(), p)
			require.NoError(t, err)
			mesh, err := asset.ParseMesh(data)
			require.NoError(t, err)
			assert.Len(t, mesh.UVs, len(mesh.Vertices))
			assert.Positive(t, mesh.BoundingRadius())
		})
	}
}

func TestEmbeddedTexturesDecode(t *testing.T) {
	paths, err := fs.Glob(Embedded(), "textures/*.png")
	require.NoError(t, err)
	require.NotEmpty(t, paths)
	for _, p := range paths {
		t.Run(p, func(t *testing.T) {
			f, err := Embedded().Open(p)
			require.NoError(t, err)
			defer f.Close()
			_, _, err = image.Decode(f)
			require.NoError(t, err)
		})
	}
}

func TestClean(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", ""},
		{"assets/meshes/ramp.yaml", "meshes/ramp.yaml"},
		{"meshes/ramp.yaml", "meshes/ramp.yaml"},
		{"/home/dev/alpha/assets/shaders/lit.kage", "shaders/lit.kage"},
		{"/tmp/lit.kage", "lit.kage"},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			assert.Equal(t, c.want, Clean(c.in))
		})
	}
}

func TestOpen(t *testing.T) {
	assert.Equal(t, Embedded(), Open(""))
	dir := Open(t.TempDir())
	_, err := fs.Stat(dir, "meshes/ramp.yaml")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
