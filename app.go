package main

import (
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/image/colornames"

	"github.com/milk9111/alphaengine/asset"
	"github.com/milk9111/alphaengine/assets"
	"github.com/milk9111/alphaengine/config"
	"github.com/milk9111/alphaengine/engine"
	"github.com/milk9111/alphaengine/input"
	"github.com/milk9111/alphaengine/render"
)

// newApplication wires the engine services around a graphics device and
// pushes the scene layer.
func newApplication(cfg *config.Config, log *zap.Logger, dev render.Device, up asset.Uploader, src input.Source) (*engine.Application, *SceneLayer, error) {
	opts := []render.Option{
		render.WithLogger(log.Named("render")),
		render.WithMaxInstances(cfg.Renderer.MaxInstancesPerBatch),
	}
	if c, ok := colornames.Map[cfg.Renderer.ClearColor]; ok {
		opts = append(opts, render.WithClearColor(c))
	} else if cfg.Renderer.ClearColor != "" {
		log.Warn("unknown clear colour", zap.String("name", cfg.Renderer.ClearColor))
	}
	renderer := render.NewRenderer(dev, opts...)
	renderer.OnWindowResize(cfg.Window.Width, cfg.Window.Height)

	manager, err := asset.NewManager(assets.Open(cfg.Assets.Root), up, log.Named("asset"))
	if err != nil {
		return nil, nil, fmt.Errorf("asset manager: %w", err)
	}

	ctx := engine.NewContext(cfg, renderer, manager, log)
	app := engine.NewApplication(ctx)
	layer := NewSceneLayer(cfg.Scene.Name, src)
	app.PushLayer(layer)
	if layer.Err() != nil {
		app.Close()
		return nil, nil, layer.Err()
	}
	return app, layer, nil
}
