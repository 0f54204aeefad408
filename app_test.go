package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/milk9111/alphaengine/config"
	"github.com/milk9111/alphaengine/ecs"
	"github.com/milk9111/alphaengine/engine"
	"github.com/milk9111/alphaengine/input"
	"github.com/milk9111/alphaengine/render"
)

func newTestApp(t *testing.T, cfg *config.Config, src input.Source) (*engine.Application, *SceneLayer, *render.Recorder) {
	t.Helper()
	dev := &render.Recorder{}
	app, layer, err := newApplication(cfg, zap.NewNop(), dev, &nullUploader{}, src)
	require.NoError(t, err)
	t.Cleanup(app.Close)
	app.Context().Assets.Wait()
	return app, layer, dev
}

func runFrames(app *engine.Application, dev *render.Recorder, n int) {
	for i := 0; i < n && app.Running(); i++ {
		dev.Reset()
		app.Update(headlessFrameDelta)
		app.Render()
	}
}

func TestDefaultSceneRuns(t *testing.T) {
	app, layer, dev := newTestApp(t, config.Default(), &input.MapSource{})
	runFrames(app, dev, 30)

	require.NotNil(t, layer.scene)
	for _, name := range []string{"camera", "player", "ground", "ramp", "goal"} {
		assert.Contains(t, layer.scene.Named, name)
	}
	ctx := app.Context()
	assert.Equal(t, layer.scene.Camera, ctx.ECS.GetPrimaryCamera())
	assert.Len(t, layer.scene.Stress(), 40)
	assert.Zero(t, layer.physics.PendingMeshRequests(), "the ramp mesh loaded and got its body")
	assert.Positive(t, ctx.Physics.BodyCount())

	stats := ctx.Renderer.Stats()
	assert.Positive(t, stats.Commands)
	assert.Positive(t, stats.InstancedDraws, "crates and sparks share state and batch")
	assert.Equal(t, 1, dev.Count("clear"))
	assert.Equal(t, uint64(30), app.Frames())
}

func TestUnknownSceneFails(t *testing.T) {
	cfg := config.Default()
	cfg.Scene.Name = "no_such_scene"
	_, _, err := newApplication(cfg, zap.NewNop(), &render.Recorder{}, &nullUploader{}, &input.MapSource{})
	require.Error(t, err)
}

func TestEscapeStopsTheApplication(t *testing.T) {
	src := &input.MapSource{Keys: map[input.Key]bool{}}
	app, _, dev := newTestApp(t, config.Default(), src)
	runFrames(app, dev, 2)
	require.True(t, app.Running())

	src.Keys[input.KeyEscape] = true
	runFrames(app, dev, 1)
	assert.False(t, app.Running())
}

func TestReloadKeyRebuildsScene(t *testing.T) {
	src := &input.MapSource{Keys: map[input.Key]bool{}}
	app, layer, dev := newTestApp(t, config.Default(), src)
	runFrames(app, dev, 2)
	before := app.Context().ECS.EntityCount()

	src.Keys[input.KeyR] = true
	runFrames(app, dev, 2)
	app.Context().ECS.UpdateEntitiesLifeTime()
	assert.Equal(t, before, app.Context().ECS.EntityCount())
	assert.True(t, app.Context().ECS.IsAlive(layer.scene.Named["player"]))
}

func TestStressChurn(t *testing.T) {
	cfg := config.Default()
	cfg.Scene.StressChurnSeconds = 2 * headlessFrameDelta
	app, layer, dev := newTestApp(t, cfg, &input.MapSource{})

	first := append([]ecs.Entity(nil), layer.scene.Stress()...)
	runFrames(app, dev, 3)
	require.Len(t, layer.scene.Stress(), len(first))

	o := app.Context().ECS
	o.UpdateEntitiesLifeTime()
	for _, e := range layer.scene.Stress() {
		assert.True(t, o.IsAlive(e))
	}
	for _, e := range first {
		assert.NotContains(t, layer.scene.Stress(), e, "churned ids are replaced")
	}
}

func TestDebugToggles(t *testing.T) {
	src := &input.MapSource{Keys: map[input.Key]bool{}}
	app, layer, dev := newTestApp(t, config.Default(), src)

	src.Keys[input.KeyF1] = true
	runFrames(app, dev, 1)
	assert.True(t, layer.ShowStats())
	assert.False(t, layer.ShowPhysics())

	src.Keys[input.KeyF1] = false
	src.Keys[input.KeyF2] = true
	runFrames(app, dev, 1)
	assert.True(t, layer.ShowPhysics())

	src.Keys[input.KeyF2] = false
	runFrames(app, dev, 1)
	src.Keys[input.KeyF2] = true
	runFrames(app, dev, 1)
	assert.False(t, layer.ShowPhysics())
}
