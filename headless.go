package main

import (
	"image"

	"go.uber.org/zap"

	"github.com/milk9111/alphaengine/asset"
	"github.com/milk9111/alphaengine/config"
	"github.com/milk9111/alphaengine/engine"
	"github.com/milk9111/alphaengine/input"
	"github.com/milk9111/alphaengine/render"
)

// headlessFrameDelta is the fixed frame time of a headless run.
const headlessFrameDelta = 1.0 / 60.0

// nullUploader hands out ids without touching a GPU.
type nullUploader struct {
	next uint32
}

func (u *nullUploader) id() (uint32, error) {
	u.next++
	return u.next, nil
}

func (u *nullUploader) UploadTexture(image.Image) (uint32, error)  { return u.id() }
func (u *nullUploader) UploadMesh(*asset.MeshData) (uint32, error) { return u.id() }
func (u *nullUploader) UploadShader([]byte) (uint32, error)        { return u.id() }

// runHeadless drives frames against a recording device, which is enough to
// exercise the ECS, physics, culling and batching without a window.
func runHeadless(cfg *config.Config, log *zap.Logger, frames int) error {
	dev := &render.Recorder{}
	app, _, err := newApplication(cfg, log, dev, &nullUploader{}, &input.MapSource{})
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := app.Context()
	for i := 0; i < frames && app.Running(); i++ {
		dev.Reset()
		app.Update(headlessFrameDelta)
		app.Render()
	}

	summarize(ctx, app.Frames(), dev, log)
	return nil
}

func summarize(ctx *engine.Context, frames uint64, dev *render.Recorder, log *zap.Logger) {
	s := ctx.Renderer.Stats()
	log.Info("headless run finished",
		zap.Uint64("frames", frames),
		zap.Int("entities", ctx.ECS.EntityCount()),
		zap.Int("bodies", ctx.Physics.BodyCount()),
		zap.Int("commands", s.Commands),
		zap.Int("draw_calls", s.DrawCalls),
		zap.Int("instanced_draws", s.InstancedDraws),
		zap.Int("device_calls", len(dev.Calls)),
	)
}
