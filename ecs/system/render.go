package system

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/milk9111/alphaengine/asset"
	"github.com/milk9111/alphaengine/ecs"
	"github.com/milk9111/alphaengine/ecs/component"
	"github.com/milk9111/alphaengine/geom"
	"github.com/milk9111/alphaengine/render"
)

// AssetResolver turns asset handles into GPU ids.
type AssetResolver interface {
	TextureID(h asset.Handle) uint32
	ShaderID(h asset.Handle) (uint32, bool)
	MeshVAO(h asset.Handle) (uint32, bool)
	MeshIndexCount(h asset.Handle) int
	MeshRadius(h asset.Handle) float32
}

// RenderStats counts what the last Render call did with each member.
type RenderStats struct {
	Submitted  int
	Culled     int
	Degenerate int
	NotLoaded  int
}

// RenderSystem culls members against the primary camera's frustum and
// submits a render command for each one that survives.
type RenderSystem struct {
	ecs.SystemBase

	renderer *render.Renderer
	assets   AssetResolver
	log      *zap.Logger

	warned map[ecs.Entity]uint32
	stats  RenderStats
}

func NewRenderSystem(renderer *render.Renderer, assets AssetResolver, log *zap.Logger) *RenderSystem {
	if log == nil {
		log = zap.NewNop()
	}
	s := &RenderSystem{
		renderer: renderer,
		assets:   assets,
		log:      log,
		warned:   make(map[ecs.Entity]uint32),
	}
	ecs.Require[component.Transform](&s.SystemBase)
	ecs.Require[component.Render](&s.SystemBase)
	return s
}

func (s *RenderSystem) Stats() RenderStats {
	return s.stats
}

// Render must run between the renderer's BeginFrame and EndFrame. Without
// a primary camera nothing is culled and the identity view is used.
func (s *RenderSystem) Render(o *ecs.Orchestrator) {
	s.stats = RenderStats{}

	view := mgl32.Ident4()
	viewProj := mgl32.Ident4()
	culling := false
	if cam, err := ecs.GetComponent[component.Camera](o, o.GetPrimaryCamera()); err == nil {
		view, viewProj = cam.View, cam.ViewProjection
		culling = true
	}
	s.renderer.SetViewProjection(viewProj, view)
	frustum := geom.FrustumFromMatrix(viewProj)

	for _, e := range s.GetSystemEntities() {
		transform, err := ecs.GetComponent[component.Transform](o, e)
		if err != nil {
			continue
		}
		rc, err := ecs.GetComponent[component.Render](o, e)
		if err != nil {
			continue
		}

		model := transform.Matrix()
		if transform.Degenerate() || model.Det() == 0 {
			s.stats.Degenerate++
			gen := o.Generation(e)
			if warnedGen, ok := s.warned[e]; !ok || warnedGen != gen {
				s.warned[e] = gen
				s.log.Warn("skipping degenerate transform", zap.Stringer("entity", e))
			}
			continue
		}
		delete(s.warned, e)

		vao, ok := s.assets.MeshVAO(rc.Mesh)
		if !ok {
			s.stats.NotLoaded++
			continue
		}

		if culling && rc.Kind == render.DrawMesh {
			radius := rc.BoundingRadius
			if radius <= 0 {
				radius = s.assets.MeshRadius(rc.Mesh)
			}
			sphere := geom.Sphere{Center: transform.Position, Radius: radius * transform.MaxScale()}
			if !frustum.IntersectsSphere(sphere) {
				s.stats.Culled++
				continue
			}
		}

		shader, ok := s.assets.ShaderID(rc.Shader)
		if !ok {
			shader = 0
		}
		s.renderer.FuelRenderCommands(render.RenderCommand{
			Layer:       rc.Layer,
			Shader:      shader,
			Texture:     s.assets.TextureID(rc.Texture),
			Depth:       -view.Mul4x1(transform.Position.Vec4(1)).Z(),
			VertexArray: vao,
			IndexCount:  uint32(s.assets.MeshIndexCount(rc.Mesh)),
			Kind:        rc.Kind,
			Transform:   model,
		})
		s.stats.Submitted++
	}

	for e := range s.warned {
		if !s.HasEntity(e) {
			delete(s.warned, e)
		}
	}
}
