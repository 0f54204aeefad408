// Command meshview spins a single mesh so it can be checked without
// building a scene.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"go.uber.org/zap"
	"golang.org/x/image/colornames"

	"github.com/milk9111/alphaengine/asset"
	"github.com/milk9111/alphaengine/assets"
	"github.com/milk9111/alphaengine/render"
	"github.com/milk9111/alphaengine/render/ebitengfx"
)

const (
	viewWidth  = 640
	viewHeight = 640
)

type viewer struct {
	dev      *ebitengfx.Device
	renderer *render.Renderer
	assets   *asset.Manager
	mesh     asset.Handle
	shader   asset.Handle
	texture  asset.Handle
	angle    float32
	last     time.Time
}

func (v *viewer) Update() error {
	v.assets.Update()
	now := time.Now()
	if !v.last.IsZero() {
		v.angle += float32(now.Sub(v.last).Seconds())
	}
	v.last = now
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	v.dev.SetTarget(screen)

	eye := mgl32.Vec3{0, 1.5, 3}
	view := mgl32.LookAtV(eye, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	proj := mgl32.Perspective(mgl32.DegToRad(45), float32(viewWidth)/viewHeight, 0.1, 100)
	v.renderer.SetViewProjection(proj.Mul4(view), view)

	v.renderer.BeginFrame()
	if vao, ok := v.assets.MeshVAO(v.mesh); ok {
		shader, _ := v.assets.ShaderID(v.shader)
		r := v.assets.MeshRadius(v.mesh)
		model := mgl32.HomogRotate3DY(v.angle).Mul4(mgl32.Scale3D(1/r, 1/r, 1/r))
		v.renderer.FuelRenderCommands(render.RenderCommand{
			Shader:      shader,
			Texture:     v.assets.TextureID(v.texture),
			VertexArray: vao,
			IndexCount:  uint32(v.assets.MeshIndexCount(v.mesh)),
			Transform:   model,
		})
	}
	v.renderer.EndFrame()

	p, _ := v.assets.Path(v.mesh)
	ebitenutil.DebugPrint(screen, fmt.Sprintf("%s  loaded: %v", p, v.assets.IsMeshLoaded(v.mesh)))
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return viewWidth, viewHeight
}

func main() {
	root := flag.String("assets", "", "asset directory; empty uses the embedded assets")
	meshPath := flag.String("mesh", "meshes/pyramid.yaml", "mesh file, or cube")
	texture := flag.String("texture", "textures/checker.png", "texture file")
	shader := flag.String("shader", "shaders/lit.kage", "Kage shader file")
	flag.Parse()

	log, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	dev := ebitengfx.NewDevice(viewWidth, viewHeight, log.Named("gfx"))
	manager, err := asset.NewManager(assets.Open(*root), dev, log.Named("asset"))
	if err != nil {
		log.Fatal("asset manager", zap.Error(err))
	}

	v := &viewer{
		dev:      dev,
		renderer: render.NewRenderer(dev, render.WithClearColor(colornames.Black)),
		assets:   manager,
		shader:   manager.LoadShader(*shader),
		texture:  manager.LoadTexture(*texture),
	}
	if *meshPath == "cube" {
		v.mesh, err = manager.RegisterMesh("cube", asset.Cube())
		if err != nil {
			log.Fatal("register cube", zap.Error(err))
		}
	} else {
		v.mesh = manager.LoadMesh(*meshPath)
	}
	v.renderer.OnWindowResize(viewWidth, viewHeight)

	ebiten.SetWindowSize(viewWidth, viewHeight)
	ebiten.SetWindowTitle("meshview")
	if err := ebiten.RunGame(v); err != nil {
		log.Fatal("run", zap.Error(err))
	}
}
