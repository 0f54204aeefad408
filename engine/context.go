package engine

import (
	"go.uber.org/zap"

	"github.com/milk9111/alphaengine/asset"
	"github.com/milk9111/alphaengine/config"
	"github.com/milk9111/alphaengine/ecs"
	"github.com/milk9111/alphaengine/event"
	"github.com/milk9111/alphaengine/input"
	"github.com/milk9111/alphaengine/physics"
	"github.com/milk9111/alphaengine/render"
)

// Context bundles the engine services. It is built once by the host and
// handed to every layer; nothing in the engine reaches for a global.
type Context struct {
	Config   *config.Config
	ECS      *ecs.Orchestrator
	Renderer *render.Renderer
	Assets   *asset.Manager
	Physics  *physics.World
	Events   *event.Bus
	Input    *input.State
	Log      *zap.Logger
}

// NewContext wires the services that need no graphics backend. The caller
// supplies the renderer and asset manager.
func NewContext(cfg *config.Config, renderer *render.Renderer, assets *asset.Manager, log *zap.Logger) *Context {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Context{
		Config: cfg,
		ECS: ecs.NewOrchestrator(
			ecs.WithLogger(log.Named("ecs")),
			ecs.WithCapacity(cfg.ECS.InitialCapacity),
		),
		Renderer: renderer,
		Assets:   assets,
		Physics: physics.NewWorld(physics.Config{
			Gravity:      cfg.Physics.Gravity,
			Iterations:   cfg.Physics.Iterations,
			FixedStep:    cfg.Physics.FixedTimestep,
			MaxFrameTime: cfg.Physics.MaxFrameTime,
		}, log.Named("physics")),
		Events: event.NewBus(),
		Input:  &input.State{},
		Log:    log,
	}
}
