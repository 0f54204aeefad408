package engine

import (
	"time"

	"go.uber.org/zap"

	"github.com/milk9111/alphaengine/common"
	"github.com/milk9111/alphaengine/event"
)

const (
	MinFrameDelta = 0.001
	MaxFrameDelta = 0.1
)

// Application owns the layer stack and drives one frame at a time. The host
// loop calls Update then Render; both run on the same goroutine.
type Application struct {
	ctx     *Context
	stack   LayerStack
	running bool
	last    time.Time
	frames  uint64
}

func NewApplication(ctx *Context) *Application {
	app := &Application{ctx: ctx, running: true}
	event.On(ctx.Events, func(*event.WindowClose) bool {
		app.Stop()
		return false
	})
	return app
}

func (a *Application) Context() *Context {
	return a.ctx
}

// PushLayer attaches l and places it on top of the stack.
func (a *Application) PushLayer(l Layer) {
	a.stack.Push(l)
	l.OnAttach(a.ctx)
	a.ctx.Log.Debug("layer attached", zap.String("layer", l.Name()))
}

func (a *Application) PopLayer(l Layer) {
	if a.stack.Remove(l) {
		l.OnDetach()
		a.ctx.Log.Debug("layer detached", zap.String("layer", l.Name()))
	}
}

func (a *Application) Layers() *LayerStack {
	return &a.stack
}

// Update finishes pending asset uploads, commits entity life-cycle changes
// queued during the previous frame and then updates every layer bottom up.
func (a *Application) Update(dt float32) {
	if a.ctx.Assets != nil {
		a.ctx.Assets.Update()
	}
	a.ctx.ECS.UpdateEntitiesLifeTime()
	for _, l := range a.stack.Layers() {
		l.OnUpdate(dt)
	}
	a.frames++
}

func (a *Application) Render() {
	r := a.ctx.Renderer
	if r == nil {
		return
	}
	r.BeginFrame()
	for _, l := range a.stack.Layers() {
		l.OnRender()
	}
	r.EndFrame()
}

// RaiseEvent hands e to the renderer for resizes, then the bus, then the
// layers from the top down. Propagation stops once e is handled.
func (a *Application) RaiseEvent(e event.Event) {
	if resize, ok := e.(*event.WindowResize); ok && a.ctx.Renderer != nil {
		a.ctx.Renderer.OnWindowResize(resize.Width, resize.Height)
	}
	a.ctx.Events.Publish(e)

	layers := a.stack.Layers()
	for i := len(layers) - 1; i >= 0 && !e.Handled(); i-- {
		layers[i].OnEvent(e)
	}
}

func (a *Application) Stop() {
	a.running = false
}

func (a *Application) Running() bool {
	return a.running
}

func (a *Application) Frames() uint64 {
	return a.frames
}

// Close detaches every layer, top first.
func (a *Application) Close() {
	layers := a.stack.Layers()
	for i := len(layers) - 1; i >= 0; i-- {
		layers[i].OnDetach()
	}
	a.stack = LayerStack{}
	_ = a.ctx.Log.Sync()
}

// FrameDelta returns the seconds since the previous call, clamped to
// [MinFrameDelta, MaxFrameDelta]. The first call returns MinFrameDelta.
func (a *Application) FrameDelta(now time.Time) float32 {
	if a.last.IsZero() {
		a.last = now
		return MinFrameDelta
	}
	dt := now.Sub(a.last).Seconds()
	a.last = now
	return float32(common.Clamp(dt, MinFrameDelta, MaxFrameDelta))
}
