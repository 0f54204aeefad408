package system

import (
	"github.com/milk9111/alphaengine/ecs"
	"github.com/milk9111/alphaengine/ecs/component"
)

// TTLSystem counts TTL components down and destroys their entities when
// they run out. The destroy lands at the next life-cycle commit.
type TTLSystem struct {
	ecs.SystemBase
	expired []ecs.Entity
}

func NewTTLSystem() *TTLSystem {
	s := &TTLSystem{}
	ecs.Require[component.TTL](&s.SystemBase)
	return s
}

func (s *TTLSystem) Update(o *ecs.Orchestrator, dt float32) {
	s.expired = s.expired[:0]
	for _, e := range s.GetSystemEntities() {
		ttl, err := ecs.GetComponent[component.TTL](o, e)
		if err != nil {
			continue
		}
		ttl.Seconds -= dt
		if ttl.Seconds <= 0 {
			s.expired = append(s.expired, e)
		}
	}
	for _, e := range s.expired {
		o.DestroyEntity(e)
	}
}
