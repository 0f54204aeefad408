package render

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/colornames"
)

const (
	shaderA = 2
	shaderB = 3
	texX    = 5
	texY    = 6
)

func cmd(layer, shader, texture, vao uint32) RenderCommand {
	return RenderCommand{
		Layer:       layer,
		Shader:      shader,
		Texture:     texture,
		VertexArray: vao,
		IndexCount:  36,
		Transform:   mgl32.Ident4(),
	}
}

func TestSortAndBatchScenario(t *testing.T) {
	dev := &Recorder{}
	r := NewRenderer(dev)

	r.BeginFrame()
	r.FuelRenderCommands(cmd(1, shaderA, texX, 10))
	r.FuelRenderCommands(cmd(0, shaderB, texY, 11))
	r.FuelRenderCommands(cmd(1, shaderA, texX, 10))
	r.EndFrame()

	order := r.Pending()
	require.Len(t, order, 3)
	assert.Equal(t, [3]uint32{0, shaderB, texY}, [3]uint32{order[0].Layer, order[0].Shader, order[0].Texture})
	for _, c := range order[1:] {
		assert.Equal(t, [3]uint32{1, shaderA, texX}, [3]uint32{c.Layer, c.Shader, c.Texture})
	}

	draws := dev.Draws()
	require.Len(t, draws, 2)
	assert.Equal(t, "draw", draws[0].Op)
	assert.Equal(t, "instanced", draws[1].Op)
	assert.Equal(t, 2, draws[1].Instances)

	stats := r.Stats()
	assert.Equal(t, 3, stats.Commands)
	assert.Equal(t, 2, stats.DrawCalls)
	assert.Equal(t, 1, stats.InstancedDraws)
	assert.Equal(t, 3, stats.Instances)
}

func TestSortIsStable(t *testing.T) {
	r := NewRenderer(&Recorder{})
	r.BeginFrame()
	for i := 0; i < 20; i++ {
		c := cmd(uint32(i%2), shaderA, texX, 1)
		c.Depth = float32(i)
		r.FuelRenderCommands(c)
	}
	r.EndFrame()

	last := map[uint32]float32{0: -1, 1: -1}
	for _, c := range r.Pending() {
		if c.Depth <= last[c.Layer] {
			t.Fatalf("layer %d: depth %v came after %v", c.Layer, c.Depth, last[c.Layer])
		}
		last[c.Layer] = c.Depth
	}
}

func TestBindCaching(t *testing.T) {
	cases := []struct {
		name                  string
		cmds                  []RenderCommand
		shaders, textures, va int
	}{
		{"single", []RenderCommand{cmd(0, shaderA, texX, 1)}, 1, 1, 1},
		{
			"shared_shader_two_textures",
			[]RenderCommand{cmd(0, shaderA, texY, 1), cmd(0, shaderA, texX, 1), cmd(0, shaderA, texX, 2)},
			1, 2, 3,
		},
		{
			"texture_rebound_after_shader_change",
			[]RenderCommand{cmd(0, shaderA, texX, 1), cmd(0, shaderB, texX, 1)},
			2, 1, 1,
		},
		{
			"layers_force_rebind",
			[]RenderCommand{cmd(0, shaderA, texX, 1), cmd(1, shaderB, texY, 2), cmd(2, shaderA, texX, 1)},
			3, 3, 3,
		},
		{"empty_frame", nil, 0, 0, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			dev := &Recorder{}
			r := NewRenderer(dev)
			r.BeginFrame()
			for _, rc := range c.cmds {
				r.FuelRenderCommands(rc)
			}
			r.EndFrame()

			if got := dev.Count("shader"); got != c.shaders {
				t.Fatalf("shader binds = %d, want %d", got, c.shaders)
			}
			if got := dev.Count("texture"); got != c.textures {
				t.Fatalf("texture binds = %d, want %d", got, c.textures)
			}
			if got := dev.Count("vao"); got != c.va {
				t.Fatalf("vertex array binds = %d, want %d", got, c.va)
			}
			if dev.Count("unbind") != 1 {
				t.Fatalf("expected one unbind per frame")
			}
		})
	}
}

func TestInstanceCapSplitsBatches(t *testing.T) {
	dev := &Recorder{}
	r := NewRenderer(dev, WithMaxInstances(3))
	r.BeginFrame()
	for i := 0; i < 7; i++ {
		r.FuelRenderCommands(cmd(0, shaderA, texX, 1))
	}
	r.EndFrame()

	draws := dev.Draws()
	require.Len(t, draws, 3)
	assert.Equal(t, 3, draws[0].Instances)
	assert.Equal(t, 3, draws[1].Instances)
	assert.Equal(t, "draw", draws[2].Op)
	assert.Equal(t, 1, dev.Count("shader"), "batches of the same state share one bind")
}

func TestSkyboxNeverBatched(t *testing.T) {
	dev := &Recorder{}
	r := NewRenderer(dev)
	r.BeginFrame()
	sky := cmd(0, shaderA, texX, 1)
	sky.Kind = DrawSkybox
	r.FuelRenderCommands(sky)
	r.FuelRenderCommands(sky)
	r.FuelRenderCommands(cmd(0, shaderA, texX, 1))
	r.EndFrame()

	draws := dev.Draws()
	require.Len(t, draws, 3)
	for _, d := range draws {
		assert.Equal(t, "draw", d.Op)
	}
	assert.Equal(t, DrawSkybox, draws[0].Kind)
	assert.Equal(t, DrawMesh, draws[2].Kind)
}

func TestBeginFrameResetsQueue(t *testing.T) {
	dev := &Recorder{}
	r := NewRenderer(dev)
	r.BeginFrame()
	r.FuelRenderCommands(cmd(0, shaderA, texX, 1))
	r.EndFrame()

	dev.Reset()
	r.BeginFrame()
	r.EndFrame()
	assert.Empty(t, dev.Draws())
	assert.Equal(t, 1, dev.Count("clear"))
}

func TestClearColor(t *testing.T) {
	dev := &Recorder{}
	r := NewRenderer(dev, WithClearColor(colornames.Black))
	r.BeginFrame()
	assert.Equal(t, colornames.Black, dev.ClearColor)

	r.SetClearColor(nil)
	r.SetClearColor(colornames.Navy)
	r.BeginFrame()
	assert.Equal(t, colornames.Navy, dev.ClearColor)
}

func TestViewProjectionReachesDevice(t *testing.T) {
	dev := &Recorder{}
	r := NewRenderer(dev)
	vp := mgl32.Perspective(1, 1, 0.1, 10)
	r.SetViewProjection(vp, mgl32.Ident4())
	r.BeginFrame()
	r.EndFrame()
	assert.Equal(t, vp, dev.ViewProj)

	f := r.Frustum()
	assert.NotZero(t, f.Planes[0].Normal.Len())
}

func TestWindowResize(t *testing.T) {
	dev := &Recorder{}
	r := NewRenderer(dev)
	r.OnWindowResize(0, 600)
	assert.Zero(t, dev.Count("viewport"))

	r.OnWindowResize(800, 600)
	w, h := r.Size()
	assert.Equal(t, [2]int{800, 600}, [2]int{w, h})
	assert.Equal(t, [2]int{800, 600}, [2]int{dev.Width, dev.Height})
}
