// Package frame drives one iteration of the software renderer: advance the
// mesh rotation, project its faces, and rasterize them into a Buffer.
package frame

import (
	"errors"
	"fmt"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/bmp"

	"soft3d/internal/math3d"
	"soft3d/internal/mesh"
	"soft3d/internal/pipeline"
	"soft3d/internal/raster"
)

var ErrFormat = errors.New("unsupported image format")

// Config is everything the frame loop may change between frames.
type Config struct {
	Mode raster.Mode
	Cull pipeline.CullMode

	Camera pipeline.Camera
	FOV    float64

	// Spin is the rotation speed in radians per second for each axis.
	Spin math3d.Vec3

	Background  raster.Color
	WireColor   raster.Color
	VertexColor raster.Color
	// GridSpacing of 0 disables the debug grid.
	GridSpacing int

	Workers int
}

// DefaultConfig matches the classic demo: camera 5 units back, fov factor
// 640, wireframe with vertex markers, culling on.
func DefaultConfig() Config {
	return Config{
		Mode:        raster.ModeWireframeVertices,
		Cull:        pipeline.CullBackface,
		Camera:      pipeline.DefaultCamera,
		FOV:         640,
		Spin:        math3d.Vec3{X: 0.4, Y: 2.0, Z: 0.8},
		Background:  raster.Black,
		WireColor:   0xFF33FF33,
		VertexColor: 0xFFFFB000,
		GridSpacing: 10,
	}
}

// Renderer owns the mesh and the framebuffer for a single view.
type Renderer struct {
	Config Config
	Mesh   *mesh.Mesh
	Buffer *raster.Buffer

	triangles []pipeline.Triangle
}

func NewRenderer(m *mesh.Mesh, width, height int, cfg Config) (*Renderer, error) {
	if m == nil {
		return nil, errors.New("nil mesh")
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid framebuffer size %dx%d", width, height)
	}
	return &Renderer{
		Config: cfg,
		Mesh:   m,
		Buffer: raster.NewBuffer(width, height),
	}, nil
}

// Step advances the mesh rotation by dt seconds of spin.
func (r *Renderer) Step(dt float64) {
	r.Mesh.Rotate(r.Config.Spin.Scale(dt))
}

// Render clears the buffer and draws the current mesh state into it. It
// returns the number of triangles that survived culling.
func (r *Renderer) Render() int {
	cfg := r.Config
	b := r.Buffer

	b.Clear(cfg.Background)
	b.DrawGrid(cfg.GridSpacing)

	r.triangles = pipeline.Process(r.Mesh, pipeline.Params{
		Camera:  cfg.Camera,
		FOV:     cfg.FOV,
		Cull:    cfg.Cull,
		Width:   b.Width,
		Height:  b.Height,
		Workers: cfg.Workers,
	})

	for _, tri := range r.triangles {
		p := tri.Points
		if cfg.Mode.Fill() {
			b.FillTriangle(p[0], p[1], p[2], raster.Color(tri.Color))
		}
		if cfg.Mode.Wireframe() {
			b.DrawTriangle(p[0], p[1], p[2], cfg.WireColor)
		}
		if cfg.Mode.Vertices() {
			for _, v := range p {
				b.DrawVertex(v, 3, cfg.VertexColor)
			}
		}
	}
	return len(r.triangles)
}

// Triangles returns the triangles drawn by the last Render.
func (r *Renderer) Triangles() []pipeline.Triangle { return r.triangles }

// Snapshot encodes the buffer as "png" or "bmp".
func (r *Renderer) Snapshot(w io.Writer, format string) error {
	switch strings.ToLower(format) {
	case "png":
		return png.Encode(w, r.Buffer)
	case "bmp":
		return bmp.Encode(w, r.Buffer)
	}
	return fmt.Errorf("%q: %w", format, ErrFormat)
}
