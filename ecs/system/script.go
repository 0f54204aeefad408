package system

import (
	"fmt"
	"io/fs"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"go.uber.org/zap"

	"github.com/milk9111/alphaengine/ecs"
	"github.com/milk9111/alphaengine/ecs/component"
)

type scriptRuntime struct {
	path     string
	source   string
	compiled *tengo.Compiled
	err      error
	lastRun  string
}

// ScriptSystem runs a tengo program per entity each frame. The program sees
// dt, time, entity and the position as x, y, z; whatever it leaves in x, y
// and z is written back to the transform.
type ScriptSystem struct {
	ecs.SystemBase

	fsys fs.FS
	log  *zap.Logger

	runtimes map[ecs.Entity]*scriptRuntime
	elapsed  float64
}

func NewScriptSystem(fsys fs.FS, log *zap.Logger) *ScriptSystem {
	if log == nil {
		log = zap.NewNop()
	}
	s := &ScriptSystem{
		fsys:     fsys,
		log:      log,
		runtimes: make(map[ecs.Entity]*scriptRuntime),
	}
	ecs.Require[component.Transform](&s.SystemBase)
	ecs.Require[component.Script](&s.SystemBase)
	return s
}

// Invalidate drops every compiled program loaded from path so it is
// recompiled on the next update.
func (s *ScriptSystem) Invalidate(path string) int {
	n := 0
	for e, rt := range s.runtimes {
		if rt.path == path {
			delete(s.runtimes, e)
			n++
		}
	}
	return n
}

func (s *ScriptSystem) Update(o *ecs.Orchestrator, dt float32) {
	s.elapsed += float64(dt)

	for e := range s.runtimes {
		if !s.HasEntity(e) {
			delete(s.runtimes, e)
		}
	}

	for _, e := range s.GetSystemEntities() {
		sc, err := ecs.GetComponent[component.Script](o, e)
		if err != nil {
			continue
		}
		transform, err := ecs.GetComponent[component.Transform](o, e)
		if err != nil {
			continue
		}

		rt := s.runtime(e, sc)
		if rt.err != nil {
			continue
		}
		if err := s.run(rt, e, dt, transform); err != nil {
			if msg := err.Error(); msg != rt.lastRun {
				rt.lastRun = msg
				s.log.Warn("script error", zap.Stringer("entity", e), zap.String("path", rt.path), zap.Error(err))
			}
		}
	}
}

func (s *ScriptSystem) runtime(e ecs.Entity, sc *component.Script) *scriptRuntime {
	if rt, ok := s.runtimes[e]; ok && rt.path == sc.Path && rt.source == sc.Source {
		return rt
	}
	rt := &scriptRuntime{path: sc.Path, source: sc.Source}
	rt.compiled, rt.err = s.compile(sc)
	if rt.err != nil {
		s.log.Warn("script compile failed", zap.Stringer("entity", e), zap.String("path", sc.Path), zap.Error(rt.err))
	}
	s.runtimes[e] = rt
	return rt
}

func (s *ScriptSystem) compile(sc *component.Script) (*tengo.Compiled, error) {
	src := []byte(sc.Source)
	if sc.Source == "" {
		if sc.Path == "" {
			return nil, fmt.Errorf("script has neither source nor path")
		}
		if s.fsys == nil {
			return nil, fmt.Errorf("no filesystem to load %s", sc.Path)
		}
		data, err := fs.ReadFile(s.fsys, sc.Path)
		if err != nil {
			return nil, err
		}
		src = data
	}

	script := tengo.NewScript(src)
	for _, name := range []string{"dt", "time", "x", "y", "z"} {
		_ = script.Add(name, 0.0)
	}
	_ = script.Add("entity", 0)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	return script.Compile()
}

func (s *ScriptSystem) run(rt *scriptRuntime, e ecs.Entity, dt float32, transform *component.Transform) error {
	c := rt.compiled
	vars := map[string]any{
		"dt":     float64(dt),
		"time":   s.elapsed,
		"entity": int(e),
		"x":      float64(transform.Position.X()),
		"y":      float64(transform.Position.Y()),
		"z":      float64(transform.Position.Z()),
	}
	// The compiler drops globals a program never mentions.
	for name, v := range vars {
		if !c.IsDefined(name) {
			continue
		}
		if err := c.Set(name, v); err != nil {
			return err
		}
	}
	if err := c.Run(); err != nil {
		return err
	}
	for i, name := range []string{"x", "y", "z"} {
		if c.IsDefined(name) {
			transform.Position[i] = float32(c.Get(name).Float())
		}
	}
	return nil
}
