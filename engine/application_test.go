package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/alphaengine/config"
	"github.com/milk9111/alphaengine/event"
	"github.com/milk9111/alphaengine/render"
)

type traceLayer struct {
	name    string
	trace   *[]string
	consume bool
	ctx     *Context
}

func (l *traceLayer) record(s string) { *l.trace = append(*l.trace, l.name+":"+s) }

func (l *traceLayer) Name() string          { return l.name }
func (l *traceLayer) OnAttach(ctx *Context) { l.ctx = ctx; l.record("attach") }
func (l *traceLayer) OnDetach()             { l.record("detach") }
func (l *traceLayer) OnUpdate(float32)      { l.record("update") }
func (l *traceLayer) OnRender()             { l.record("render") }

func (l *traceLayer) OnEvent(e event.Event) {
	l.record("event")
	if l.consume {
		e.SetHandled(true)
	}
}

type otherLayer struct{ traceLayer }

func newApp(t *testing.T) (*Application, *render.Recorder) {
	t.Helper()
	dev := &render.Recorder{}
	ctx := NewContext(config.Default(), render.NewRenderer(dev), nil, nil)
	return NewApplication(ctx), dev
}

func TestLayerOrdering(t *testing.T) {
	app, dev := newApp(t)
	var trace []string
	bottom := &traceLayer{name: "bottom", trace: &trace}
	top := &traceLayer{name: "top", trace: &trace}
	app.PushLayer(bottom)
	app.PushLayer(top)
	require.Same(t, app.Context(), bottom.ctx)

	app.Update(0.016)
	app.Render()
	app.RaiseEvent(&event.KeyPressed{Key: 1})
	app.Close()

	assert.Equal(t, []string{
		"bottom:attach", "top:attach",
		"bottom:update", "top:update",
		"bottom:render", "top:render",
		"top:event", "bottom:event",
		"top:detach", "bottom:detach",
	}, trace)
	assert.Equal(t, 1, dev.Count("clear"))
	assert.Equal(t, 1, dev.Count("unbind"))
	assert.Zero(t, app.Layers().Len())
}

func TestEventShortCircuit(t *testing.T) {
	cases := []struct {
		name      string
		busHandle bool
		want      []string
	}{
		{"top_consumes", false, []string{"top:event"}},
		{"bus_consumes", true, nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			app, _ := newApp(t)
			var trace []string
			app.PushLayer(&traceLayer{name: "bottom", trace: &trace})
			app.PushLayer(&traceLayer{name: "top", trace: &trace, consume: true})
			if c.busHandle {
				event.On(app.Context().Events, func(*event.MouseMoved) bool { return true })
			}
			trace = nil

			app.RaiseEvent(&event.MouseMoved{X: 1, Y: 2})
			assert.Equal(t, c.want, trace)
		})
	}
}

func TestResizeAndClose(t *testing.T) {
	app, dev := newApp(t)
	app.RaiseEvent(&event.WindowResize{Width: 640, Height: 480})
	assert.Equal(t, 640, dev.Width)
	assert.Equal(t, 480, dev.Height)

	require.True(t, app.Running())
	app.RaiseEvent(&event.WindowClose{})
	assert.False(t, app.Running())
}

func TestUpdateCommitsEntityLifeTime(t *testing.T) {
	app, _ := newApp(t)
	o := app.Context().ECS
	e := o.MustCreateEntity()
	add, _, _ := o.Pending()
	require.Equal(t, 1, add)

	app.Update(0.016)
	add, _, _ = o.Pending()
	assert.Zero(t, add)
	assert.True(t, o.IsAlive(e))
	assert.Equal(t, uint64(1), app.Frames())
}

func TestFrameDeltaClamp(t *testing.T) {
	app, _ := newApp(t)
	start := time.Unix(100, 0)
	steps := []struct {
		name    string
		advance time.Duration
		want    float32
	}{
		{"first_frame", 0, MinFrameDelta},
		{"normal", 16 * time.Millisecond, 0.016},
		{"too_fast", 100 * time.Microsecond, MinFrameDelta},
		{"stall", 2 * time.Second, MaxFrameDelta},
	}
	now := start
	for _, s := range steps {
		t.Run(s.name, func(t *testing.T) {
			now = now.Add(s.advance)
			assert.InDelta(t, s.want, app.FrameDelta(now), 1e-6)
		})
	}
}

func TestLayerLookup(t *testing.T) {
	app, _ := newApp(t)
	var trace []string
	other := &otherLayer{traceLayer{name: "other", trace: &trace}}
	app.PushLayer(&traceLayer{name: "plain", trace: &trace})
	app.PushLayer(other)

	got, ok := GetLayer[*otherLayer](app.Layers())
	require.True(t, ok)
	assert.Same(t, other, got)
	assert.NotEqual(t, LayerTypeID[*otherLayer](), LayerTypeID[*traceLayer]())

	app.PopLayer(other)
	_, ok = GetLayer[*otherLayer](app.Layers())
	assert.False(t, ok)
	assert.Contains(t, trace, "other:detach")
}

func TestLoggerLevels(t *testing.T) {
	cases := []struct {
		cfg   config.LoggingConfig
		debug bool
	}{
		{config.LoggingConfig{Level: "debug", Format: "console"}, true},
		{config.LoggingConfig{Level: "warn", Format: "json"}, false},
		{config.LoggingConfig{Level: "bogus"}, false},
	}
	for _, c := range cases {
		t.Run(c.cfg.Level, func(t *testing.T) {
			log, err := NewLogger(c.cfg)
			require.NoError(t, err)
			assert.Equal(t, c.debug, log.Core().Enabled(-1))
		})
	}
}
