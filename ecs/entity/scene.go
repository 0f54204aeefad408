package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/milk9111/alphaengine/ecs"
	"github.com/milk9111/alphaengine/prefabs"
)

// Scene is what BuildScene made from a SceneSpec.
type Scene struct {
	Name   string
	Named  map[string]ecs.Entity
	Camera ecs.Entity

	stress  []prefabs.EntitySpec
	spawned []ecs.Entity
	fixed   []ecs.Entity
}

// Stress returns the live entities spawned from stress prefabs.
func (s *Scene) Stress() []ecs.Entity {
	return s.spawned
}

// BuildScene creates every entity of spec. Entities that fail to build are
// logged and skipped; the scene fails only if nothing could be built.
func (b *Builder) BuildScene(spec *prefabs.SceneSpec) (*Scene, error) {
	if spec == nil {
		return nil, fmt.Errorf("build scene: nil spec")
	}
	scene := &Scene{
		Name:  spec.Name,
		Named: make(map[string]ecs.Entity),
	}

	built, failed := 0, 0
	for _, es := range spec.Entities {
		if es.Stress {
			scene.stress = append(scene.stress, es)
		}
		for i := 0; i < es.Copies(); i++ {
			e, err := b.BuildEntity(es, mgl32.Vec3(es.Spacing).Mul(float32(i)))
			if err != nil {
				failed++
				b.log.Warn("skipping entity", zap.String("scene", spec.Name), zap.Error(err))
				continue
			}
			built++
			if es.Stress {
				scene.spawned = append(scene.spawned, e)
			} else {
				scene.fixed = append(scene.fixed, e)
			}
			if _, taken := scene.Named[es.Name]; !taken && es.Name != "" {
				scene.Named[es.Name] = e
			}
		}
	}

	scene.Camera = b.ctx.ECS.GetPrimaryCamera()
	b.log.Info("scene built",
		zap.String("scene", spec.Name),
		zap.Int("entities", built),
		zap.Int("failed", failed),
		zap.Stringer("camera", scene.Camera),
	)
	if built == 0 {
		return nil, fmt.Errorf("build scene %q: no entity could be built", spec.Name)
	}
	return scene, nil
}

// Churn destroys every stress entity and builds the stress prefabs again.
// Destroys land at the next commit, so the respawned entities take fresh
// ids until then. It returns how many entities were respawned.
func (b *Builder) Churn(scene *Scene) int {
	for _, e := range scene.spawned {
		b.destroy(e)
	}
	scene.spawned = scene.spawned[:0]

	for _, es := range scene.stress {
		for i := 0; i < es.Copies(); i++ {
			e, err := b.BuildEntity(es, mgl32.Vec3(es.Spacing).Mul(float32(i)))
			if err != nil {
				b.log.Debug("stress respawn failed", zap.Error(err))
				continue
			}
			scene.spawned = append(scene.spawned, e)
		}
	}
	return len(scene.spawned)
}

// Reload destroys every live entity of scene and builds next in its place.
func (b *Builder) Reload(scene *Scene, next *prefabs.SceneSpec) (*Scene, error) {
	if scene != nil {
		for _, list := range [][]ecs.Entity{scene.fixed, scene.spawned} {
			for _, e := range list {
				b.destroy(e)
			}
		}
		b.ctx.ECS.UpdateEntitiesLifeTime()
	}
	return b.BuildScene(next)
}
