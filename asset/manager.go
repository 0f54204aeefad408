package asset

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
	"golang.org/x/image/colornames"

	"github.com/milk9111/alphaengine/common"
)

var ErrUnknownAsset = errors.New("asset: unknown asset")

// Uploader moves decoded assets onto the GPU. It is only ever called from
// the goroutine that runs Manager.Update.
type Uploader interface {
	UploadTexture(img image.Image) (uint32, error)
	UploadMesh(mesh *MeshData) (uint32, error)
	UploadShader(src []byte) (uint32, error)
}

type kind uint8

const (
	kindTexture kind = iota
	kindMesh
	kindShader
)

type meshEntry struct {
	vao    uint32
	data   *MeshData
	radius float32
}

// Manager loads assets from fsys. File reads and decoding run on worker
// goroutines; the GPU upload of each result is queued and happens on the
// next Update. Until then lookups return fallbacks.
type Manager struct {
	fsys fs.FS
	up   Uploader
	log  *zap.Logger

	jobs common.Queue[func()]
	wg   sync.WaitGroup

	known    map[Handle]kind
	paths    map[Handle]string
	textures map[Handle]uint32
	shaders  map[Handle]uint32
	meshes   map[Handle]*meshEntry
	fallback uint32
}

// NewManager uploads a 1x1 magenta fallback texture right away so that
// TextureID always has something to return.
func NewManager(fsys fs.FS, up Uploader, log *zap.Logger) (*Manager, error) {
	if log == nil {
		log = zap.NewNop()
	}
	m := &Manager{
		fsys:     fsys,
		up:       up,
		log:      log,
		known:    make(map[Handle]kind),
		paths:    make(map[Handle]string),
		textures: make(map[Handle]uint32),
		shaders:  make(map[Handle]uint32),
		meshes:   make(map[Handle]*meshEntry),
	}

	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, colornames.Magenta)
	id, err := up.UploadTexture(img)
	if err != nil {
		return nil, fmt.Errorf("asset: upload fallback texture: %w", err)
	}
	m.fallback = id
	return m, nil
}

func (m *Manager) LoadTexture(path string) Handle {
	return m.load(path, kindTexture, false)
}

// LoadMesh reads a yaml mesh description.
func (m *Manager) LoadMesh(path string) Handle {
	return m.load(path, kindMesh, false)
}

// LoadShader reads shader source. The Uploader decides what language it is.
func (m *Manager) LoadShader(path string) Handle {
	return m.load(path, kindShader, false)
}

// Reload re-reads a previously loaded path. The old GPU object stays in use
// until the new one is uploaded.
func (m *Manager) Reload(path string) error {
	h := HandleOf(path)
	k, ok := m.known[h]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAsset, path)
	}
	m.load(path, k, true)
	return nil
}

// Known reports whether path was loaded through this manager.
func (m *Manager) Known(path string) bool {
	_, ok := m.known[HandleOf(path)]
	return ok
}

func (m *Manager) load(path string, k kind, force bool) Handle {
	h := HandleOf(path)
	if _, ok := m.known[h]; ok && !force {
		return h
	}
	m.known[h] = k
	m.paths[h] = path

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		job, err := m.read(h, path, k)
		if err != nil {
			m.log.Warn("asset load failed", zap.String("path", path), zap.Error(err))
			return
		}
		m.jobs.Push(job)
	}()
	return h
}

// read runs off the main goroutine and returns the upload to do on it.
func (m *Manager) read(h Handle, path string, k kind) (func(), error) {
	data, err := fs.ReadFile(m.fsys, path)
	if err != nil {
		return nil, err
	}

	switch k {
	case kindTexture:
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decode image: %w", err)
		}
		return func() {
			id, err := m.up.UploadTexture(img)
			if err != nil {
				m.log.Warn("texture upload failed", zap.String("path", path), zap.Error(err))
				return
			}
			m.textures[h] = id
			m.log.Debug("texture ready", zap.String("path", path), zap.Uint32("id", id))
		}, nil
	case kindMesh:
		mesh, err := ParseMesh(data)
		if err != nil {
			return nil, err
		}
		return func() {
			if err := m.storeMesh(h, mesh); err != nil {
				m.log.Warn("mesh upload failed", zap.String("path", path), zap.Error(err))
				return
			}
			m.log.Debug("mesh ready", zap.String("path", path), zap.Int("indices", len(mesh.Indices)))
		}, nil
	case kindShader:
		return func() {
			id, err := m.up.UploadShader(data)
			if err != nil {
				m.log.Warn("shader compile failed", zap.String("path", path), zap.Error(err))
				return
			}
			m.shaders[h] = id
			m.log.Debug("shader ready", zap.String("path", path), zap.Uint32("id", id))
		}, nil
	}
	return nil, fmt.Errorf("asset: unknown kind %d", k)
}

// RegisterMesh uploads in-memory mesh data under name immediately.
func (m *Manager) RegisterMesh(name string, mesh *MeshData) (Handle, error) {
	h := HandleOf(name)
	if err := m.storeMesh(h, mesh); err != nil {
		return 0, fmt.Errorf("asset: register mesh %q: %w", name, err)
	}
	m.known[h] = kindMesh
	return h, nil
}

func (m *Manager) storeMesh(h Handle, mesh *MeshData) error {
	if mesh == nil || len(mesh.Vertices) == 0 || len(mesh.Indices) == 0 {
		return errors.New("empty mesh")
	}
	vao, err := m.up.UploadMesh(mesh)
	if err != nil {
		return err
	}
	m.meshes[h] = &meshEntry{vao: vao, data: mesh, radius: mesh.BoundingRadius()}
	return nil
}

// Update runs the uploads finished since the last call. It must be called
// from the goroutine that owns the graphics context.
func (m *Manager) Update() int {
	jobs := m.jobs.Drain()
	for _, job := range jobs {
		job()
	}
	return len(jobs)
}

// Wait blocks until all started reads have queued their uploads.
func (m *Manager) Wait() {
	m.wg.Wait()
}

// TextureID returns the uploaded texture or the fallback when it is not
// ready.
func (m *Manager) TextureID(h Handle) uint32 {
	if id, ok := m.textures[h]; ok {
		return id
	}
	return m.fallback
}

func (m *Manager) FallbackTexture() uint32 {
	return m.fallback
}

func (m *Manager) ShaderID(h Handle) (uint32, bool) {
	id, ok := m.shaders[h]
	return id, ok
}

func (m *Manager) IsMeshLoaded(h Handle) bool {
	_, ok := m.meshes[h]
	return ok
}

func (m *Manager) MeshVAO(h Handle) (uint32, bool) {
	e, ok := m.meshes[h]
	if !ok {
		return 0, false
	}
	return e.vao, true
}

func (m *Manager) MeshIndexCount(h Handle) int {
	if e, ok := m.meshes[h]; ok {
		return len(e.data.Indices)
	}
	return 0
}

func (m *Manager) MeshRadius(h Handle) float32 {
	if e, ok := m.meshes[h]; ok {
		return e.radius
	}
	return 0
}

func (m *Manager) MeshVertices(h Handle) []mgl32.Vec3 {
	if e, ok := m.meshes[h]; ok {
		return e.data.Vertices
	}
	return nil
}

func (m *Manager) MeshIndices(h Handle) []uint32 {
	if e, ok := m.meshes[h]; ok {
		return e.data.Indices
	}
	return nil
}

// Path returns the path h was loaded from.
func (m *Manager) Path(h Handle) (string, bool) {
	p, ok := m.paths[h]
	return p, ok
}
