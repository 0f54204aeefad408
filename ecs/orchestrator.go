package ecs

import (
	"errors"
	"slices"

	"go.uber.org/zap"

	"github.com/milk9111/alphaengine/ecs/component"
)

var (
	ErrEntityNotAlive    = errors.New("ecs: entity not alive")
	ErrInvalidEntity     = errors.New("ecs: invalid entity")
	ErrComponentNotFound = errors.New("ecs: component not found")
	ErrSystemNotFound    = errors.New("ecs: system not found")
	ErrEntityLimit       = errors.New("ecs: entity id space exhausted")
)

// Orchestrator owns entity ids, component pools, systems and the deferred
// life-cycle queues. It must only be used from the simulation goroutine.
type Orchestrator struct {
	log      *zap.Logger
	capacity int

	entities   entityStore
	signatures []Signature
	pools      [MaxComponents]componentPool

	systems     map[SystemID]System
	systemOrder []System

	toAdd     []Entity
	toDestroy []Entity
	toRefresh []Entity

	primaryCamera Entity
}

type Option func(*Orchestrator)

func WithLogger(log *zap.Logger) Option {
	return func(o *Orchestrator) {
		if log != nil {
			o.log = log
		}
	}
}

// WithCapacity pre-sizes the signature table and new pools for n entities.
func WithCapacity(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.capacity = n
		}
	}
}

func NewOrchestrator(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		log:           zap.NewNop(),
		systems:       make(map[SystemID]System),
		primaryCamera: NullEntity,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.capacity > 0 {
		o.signatures = make([]Signature, 0, o.capacity)
	}
	return o
}

// CreateEntity allocates an id with an empty signature. The entity is not
// visible to systems until the next UpdateEntitiesLifeTime.
func (o *Orchestrator) CreateEntity() (Entity, error) {
	e, ok := o.entities.create()
	if !ok {
		o.log.Error("entity id space exhausted", zap.Int("alive", o.entities.count()))
		return NullEntity, ErrEntityLimit
	}
	for int(e) >= len(o.signatures) {
		o.signatures = append(o.signatures, Signature{})
	}
	o.signatures[e].Reset()
	o.toAdd = append(o.toAdd, e)
	o.log.Debug("entity created", zap.Stringer("entity", e))
	return e, nil
}

// MustCreateEntity is CreateEntity for callers that treat id exhaustion as
// fatal.
func (o *Orchestrator) MustCreateEntity() Entity {
	e, err := o.CreateEntity()
	if err != nil {
		panic(err)
	}
	return e
}

// DestroyEntity queues e for destruction. It stays fully usable until the
// next commit. Destroying twice before the commit is harmless.
func (o *Orchestrator) DestroyEntity(e Entity) {
	if !o.entities.isAlive(e) {
		o.log.Warn("destroy of dead entity ignored", zap.Stringer("entity", e))
		return
	}
	o.toDestroy = append(o.toDestroy, e)
}

func (o *Orchestrator) IsAlive(e Entity) bool {
	return o.entities.isAlive(e)
}

// Generation tells apart the entities that have held id e. It changes each
// time a destroy of e is committed.
func (o *Orchestrator) Generation(e Entity) uint32 {
	return o.entities.generation(e)
}

// Signature returns e's current component signature.
func (o *Orchestrator) Signature(e Entity) Signature {
	if !o.entities.isAlive(e) {
		return Signature{}
	}
	return o.signatures[e]
}

// EntityCount reports how many ids are currently allocated.
func (o *Orchestrator) EntityCount() int {
	return o.entities.count()
}

// FreeIDs returns a copy of the free list, most recently freed last.
func (o *Orchestrator) FreeIDs() []Entity {
	return slices.Clone(o.entities.free)
}

// Pending reports the sizes of the to-add, to-destroy and to-refresh queues.
func (o *Orchestrator) Pending() (add, destroy, refresh int) {
	return len(o.toAdd), len(o.toDestroy), len(o.toRefresh)
}

// UpdateEntitiesLifeTime is the once-per-frame commit point. Queued
// creations join matching systems, queued destructions are torn down and
// their ids freed, then entities whose signatures changed get their system
// membership recomputed.
func (o *Orchestrator) UpdateEntitiesLifeTime() {
	added, destroyed, refreshed := 0, 0, 0

	for _, e := range o.toAdd {
		if !o.entities.isAlive(e) {
			continue
		}
		o.addEntityToSystems(e)
		added++
	}

	for _, e := range o.toDestroy {
		if !o.entities.isAlive(e) {
			continue
		}
		o.removeEntityFromSystems(e)
		for _, p := range o.pools {
			if p != nil {
				p.removeEntity(e)
			}
		}
		o.signatures[e].Reset()
		if o.primaryCamera == e {
			o.primaryCamera = NullEntity
		}
		o.entities.destroy(e)
		destroyed++
	}

	if len(o.toRefresh) > 0 {
		slices.Sort(o.toRefresh)
		o.toRefresh = slices.Compact(o.toRefresh)
		for _, e := range o.toRefresh {
			if !o.entities.isAlive(e) {
				continue
			}
			o.refreshEntity(e)
			refreshed++
		}
	}

	o.toAdd = o.toAdd[:0]
	o.toDestroy = o.toDestroy[:0]
	o.toRefresh = o.toRefresh[:0]

	if added+destroyed+refreshed > 0 {
		o.log.Debug("life-cycle commit",
			zap.Int("added", added),
			zap.Int("destroyed", destroyed),
			zap.Int("refreshed", refreshed),
		)
	}
}

func (o *Orchestrator) addEntityToSystems(e Entity) {
	sig := o.signatures[e]
	for _, s := range o.systemOrder {
		base := s.Base()
		if base.interested(sig) {
			base.AddEntityToSystem(e)
		}
	}
}

func (o *Orchestrator) removeEntityFromSystems(e Entity) {
	for _, s := range o.systemOrder {
		s.Base().RemoveEntityFromSystem(e)
	}
}

func (o *Orchestrator) refreshEntity(e Entity) {
	sig := o.signatures[e]
	for _, s := range o.systemOrder {
		base := s.Base()
		want := base.interested(sig)
		has := base.HasEntity(e)
		switch {
		case want && !has:
			base.AddEntityToSystem(e)
		case !want && has:
			base.RemoveEntityFromSystem(e)
		}
	}
}

func (o *Orchestrator) pendingAdds() map[Entity]struct{} {
	set := make(map[Entity]struct{}, len(o.toAdd))
	for _, e := range o.toAdd {
		set[e] = struct{}{}
	}
	return set
}

// SetPrimaryCamera selects the camera entity used by rendering. It checks
// the immediate signature table, so a camera added earlier in the same frame
// qualifies. Entities without a camera leave the current choice unchanged.
func (o *Orchestrator) SetPrimaryCamera(e Entity) bool {
	if !o.entities.isAlive(e) || !o.signatures[e].Test(ComponentTypeID[component.Camera]()) {
		o.log.Warn("primary camera requires a camera component", zap.Stringer("entity", e))
		return false
	}
	o.primaryCamera = e
	return true
}

// GetPrimaryCamera returns the primary camera or NullEntity.
func (o *Orchestrator) GetPrimaryCamera() Entity {
	return o.primaryCamera
}

// Systems returns registered systems in registration order.
func (o *Orchestrator) Systems() []System {
	return slices.Clone(o.systemOrder)
}

func (o *Orchestrator) Logger() *zap.Logger {
	return o.log
}
