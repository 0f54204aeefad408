package main

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"go.uber.org/zap"

	"github.com/milk9111/alphaengine/config"
	"github.com/milk9111/alphaengine/engine"
	"github.com/milk9111/alphaengine/event"
	"github.com/milk9111/alphaengine/render/ebitengfx"
)

// Game adapts the engine application to ebiten's Update/Draw/Layout loop.
type Game struct {
	app    *engine.Application
	layer  *SceneLayer
	device *ebitengfx.Device
	debug  bool

	width, height int
}

func NewGame(cfg *config.Config, log *zap.Logger, debug bool) (*Game, error) {
	dev := ebitengfx.NewDevice(cfg.Window.Width, cfg.Window.Height, log.Named("gfx"))
	app, layer, err := newApplication(cfg, log, dev, dev, ebitenSource{})
	if err != nil {
		return nil, err
	}
	return &Game{
		app:    app,
		layer:  layer,
		device: dev,
		debug:  debug,
		width:  cfg.Window.Width,
		height: cfg.Window.Height,
	}, nil
}

func (g *Game) Update() error {
	if ebiten.IsWindowBeingClosed() {
		g.app.RaiseEvent(&event.WindowClose{})
	}
	if !g.app.Running() {
		return ebiten.Termination
	}
	g.app.Update(g.app.FrameDelta(time.Now()))
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.device.SetTarget(screen)
	g.app.Render()

	ctx := g.app.Context()
	if g.layer.ShowPhysics() {
		ebitengfx.DrawPhysics(screen, ctx.Physics, ctx.Renderer.ViewProjection())
	}
	if g.debug || g.layer.ShowStats() {
		s := ctx.Renderer.Stats()
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f  entities: %d  draws: %d  instanced: %d",
			ebiten.ActualFPS(), ctx.ECS.EntityCount(), s.DrawCalls, s.InstancedDraws))
	}
}

// Layout renders at the window's size and reports size changes as
// WindowResize events.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.app.RaiseEvent(&event.WindowResize{Width: outsideWidth, Height: outsideHeight})
	}
	return outsideWidth, outsideHeight
}

func (g *Game) Close() {
	g.app.Close()
}
