package main

import (
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/milk9111/alphaengine/asset"
	"github.com/milk9111/alphaengine/ecs"
	"github.com/milk9111/alphaengine/ecs/entity"
	"github.com/milk9111/alphaengine/ecs/system"
	"github.com/milk9111/alphaengine/engine"
	"github.com/milk9111/alphaengine/event"
	"github.com/milk9111/alphaengine/input"
	"github.com/milk9111/alphaengine/prefabs"
)

const statsInterval = 5.0

// SceneLayer owns the game systems and the loaded scene.
type SceneLayer struct {
	sceneName string
	source    input.Source

	ctx *engine.Context
	log *zap.Logger
	err error

	builder   *entity.Builder
	scene     *entity.Scene
	scheduler *ecs.Scheduler
	physics   *system.PhysicsSystem
	renderer  *system.RenderSystem
	scripts   *system.ScriptSystem

	prefabWatcher *asset.Watcher
	assetWatcher  *asset.Watcher

	churnTimer  float64
	statsTimer  float64
	statFrames  int
	goalHits    int
	showStats   bool
	showPhysics bool
}

func NewSceneLayer(sceneName string, source input.Source) *SceneLayer {
	return &SceneLayer{sceneName: sceneName, source: source}
}

func (l *SceneLayer) Name() string { return "scene" }

// Err reports why OnAttach could not load the scene.
func (l *SceneLayer) Err() error { return l.err }

func (l *SceneLayer) OnAttach(ctx *engine.Context) {
	l.ctx = ctx
	l.log = ctx.Log.Named("scene")

	o := ctx.ECS
	player := ecs.AddSystem(o, system.NewPlayerControllerSystem(ctx.Input))
	movement := ecs.AddSystem(o, system.NewMovementSystem())
	l.scripts = ecs.AddSystem(o, system.NewScriptSystem(prefabs.Scripts(), ctx.Log.Named("script")))
	l.physics = ecs.AddSystem(o, system.NewPhysicsSystem(ctx.Physics, ctx.Assets, ctx.Events, ctx.Log.Named("physics")))
	ttl := ecs.AddSystem(o, system.NewTTLSystem())
	camera := ecs.AddSystem(o, system.NewCameraSystem(ctx.Events))
	l.renderer = ecs.AddSystem(o, system.NewRenderSystem(ctx.Renderer, ctx.Assets, ctx.Log.Named("render")))
	l.scheduler = ecs.NewScheduler(player, movement, l.scripts, l.physics, ttl, camera)

	ctx.Events.Publish(&event.WindowResize{Width: ctx.Config.Window.Width, Height: ctx.Config.Window.Height})
	event.On(ctx.Events, l.onCollision)

	l.builder = entity.NewBuilder(ctx, l.physics)
	if l.err = l.loadScene(); l.err != nil {
		return
	}
	if ctx.Config.Assets.HotReload {
		l.startWatchers()
	}
}

func (l *SceneLayer) loadScene() error {
	spec, err := prefabs.LoadScene(l.sceneName)
	if err != nil {
		return err
	}
	scene, err := l.builder.Reload(l.scene, spec)
	if err != nil {
		return err
	}
	l.scene = scene
	if spec.ClearColor != nil {
		l.ctx.Renderer.SetClearColor(spec.ClearColor.Color)
	}
	l.churnTimer = 0
	return nil
}

func (l *SceneLayer) startWatchers() {
	w, err := prefabs.NewWatcher()
	if err != nil {
		l.log.Warn("prefab hot reload disabled", zap.Error(err))
	} else {
		l.prefabWatcher = w
	}

	root := l.ctx.Config.Assets.Root
	if root == "" {
		l.log.Info("asset hot reload needs assets.root; embedded assets are fixed")
		return
	}
	w, err = asset.NewWatcher(root, ".png", ".jpg", ".jpeg", ".yaml", ".kage")
	if err != nil {
		l.log.Warn("asset hot reload disabled", zap.Error(err))
		return
	}
	l.assetWatcher = w
}

func (l *SceneLayer) OnDetach() {
	for _, w := range []*asset.Watcher{l.prefabWatcher, l.assetWatcher} {
		if w != nil {
			_ = w.Close()
		}
	}
	l.prefabWatcher, l.assetWatcher = nil, nil
}

func (l *SceneLayer) OnUpdate(dt float32) {
	if l.scene == nil {
		return
	}
	in := l.ctx.Input
	in.Poll(l.source)
	switch {
	case in.Pressed(input.KeyEscape):
		l.ctx.Events.Publish(&event.WindowClose{})
		return
	case in.Pressed(input.KeyR):
		if err := l.loadScene(); err != nil {
			l.log.Error("scene reload failed", zap.Error(err))
		}
	case in.Pressed(input.KeyF1):
		l.showStats = !l.showStats
	case in.Pressed(input.KeyF2):
		l.showPhysics = !l.showPhysics
	}

	l.drainWatchers()
	l.scheduler.Update(l.ctx.ECS, dt)
	l.churn(float64(dt))
	l.logStats(float64(dt))
}

func (l *SceneLayer) churn(dt float64) {
	period := l.ctx.Config.Scene.StressChurnSeconds
	if period <= 0 {
		return
	}
	l.churnTimer += dt
	if l.churnTimer < period {
		return
	}
	l.churnTimer = 0
	n := l.builder.Churn(l.scene)
	l.log.Debug("stress entities respawned", zap.Int("count", n))
}

func (l *SceneLayer) logStats(dt float64) {
	l.statFrames++
	l.statsTimer += dt
	if l.statsTimer < statsInterval {
		return
	}
	rs := l.renderer.Stats()
	ds := l.ctx.Renderer.Stats()
	l.log.Info("frame stats",
		zap.Float64("fps", float64(l.statFrames)/l.statsTimer),
		zap.Int("entities", l.ctx.ECS.EntityCount()),
		zap.Int("bodies", l.ctx.Physics.BodyCount()),
		zap.Int("submitted", rs.Submitted),
		zap.Int("culled", rs.Culled),
		zap.Int("draw_calls", ds.DrawCalls),
		zap.Int("instanced_draws", ds.InstancedDraws),
	)
	l.statsTimer, l.statFrames = 0, 0
}

func (l *SceneLayer) drainWatchers() {
	l.drain(l.prefabWatcher, "prefabs", l.onPrefabChanged)
	l.drain(l.assetWatcher, "assets", l.onAssetChanged)
}

func (l *SceneLayer) drain(w *asset.Watcher, name string, fn func(string)) {
	if w == nil {
		return
	}
	for {
		select {
		case p, ok := <-w.Events:
			if !ok {
				return
			}
			fn(p)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			l.log.Warn("watcher error", zap.String("watcher", name), zap.Error(err))
		default:
			return
		}
	}
}

func (l *SceneLayer) onPrefabChanged(p string) {
	if prefabs.IsScene(p) {
		if strings.TrimSuffix(p, path.Ext(p)) != strings.TrimSuffix(l.sceneName, path.Ext(l.sceneName)) {
			return
		}
		if err := l.loadScene(); err != nil {
			l.log.Error("scene reload failed", zap.String("path", p), zap.Error(err))
			return
		}
		l.log.Info("scene reloaded", zap.String("path", p))
		return
	}
	n := l.scripts.Invalidate(p)
	l.log.Info("script changed", zap.String("path", p), zap.Int("entities", n))
}

func (l *SceneLayer) onAssetChanged(p string) {
	if !l.ctx.Assets.Known(p) {
		return
	}
	if err := l.ctx.Assets.Reload(p); err != nil {
		l.log.Warn("asset reload failed", zap.String("path", p), zap.Error(err))
	}
}

func (l *SceneLayer) onCollision(c *ecs.CollisionEvent) bool {
	if !c.Start || !c.Sensor || l.scene == nil {
		return false
	}
	goal, ok := l.scene.Named["goal"]
	if !ok || (c.A != goal && c.B != goal) {
		return false
	}
	l.goalHits++
	l.log.Info("goal reached", zap.Stringer("by", c.Other(goal)), zap.Int("hits", l.goalHits))
	return false
}

func (l *SceneLayer) OnRender() {
	if l.scene == nil {
		return
	}
	l.renderer.Render(l.ctx.ECS)
}

func (l *SceneLayer) OnEvent(e event.Event) {
	event.Dispatch(e, func(r *event.WindowResize) bool {
		l.log.Debug("window resized", zap.Int("width", r.Width), zap.Int("height", r.Height))
		return false
	})
}

// ShowStats reports whether the stats overlay is toggled on.
func (l *SceneLayer) ShowStats() bool { return l.showStats }

// ShowPhysics reports whether physics outlines are toggled on.
func (l *SceneLayer) ShowPhysics() bool { return l.showPhysics }
