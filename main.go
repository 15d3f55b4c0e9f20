package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"soft3d/internal/asset"
	"soft3d/internal/frame"
	"soft3d/internal/mesh"
	"soft3d/internal/pipeline"
	"soft3d/internal/raster"
)

const title = "soft3d"

var (
	vertexShaderSource = `
		#version 410
		in vec2 vp;
		out vec2 uv;
		uniform mat4 mvp;
		void main() {
			uv = vec2(vp.x, 1.0 - vp.y); // buffer row 0 is the top
			gl_Position = mvp * vec4(vp, 0.0, 1.0);
		}
	` + "\x00"

	fragmentShaderSource = `
		#version 410
		in vec2 uv;
		out vec4 frag_colour;
		uniform sampler2D frame;
		void main() {
			frag_colour = texture(frame, uv);
		}
	` + "\x00"
)

// Unit quad as two triangles; mvp maps it onto the whole viewport.
var quadVertices = []float32{
	0, 0, 1, 0, 1, 1,
	0, 0, 1, 1, 0, 1,
}

func main() {
	var (
		width    = flag.Int("width", 800, "framebuffer width in pixels")
		height   = flag.Int("height", 600, "framebuffer height in pixels")
		meshPath = flag.String("mesh", "", "OBJ, PLY, 3DS or STL file to render (default: built-in cube)")
		fov      = flag.Float64("fov", 640, "field-of-view factor")
		cameraZ  = flag.Float64("camera-z", -5, "camera z position")
		mode     = flag.Int("mode", int(raster.ModeWireframeVertices), "render mode 1-4: wire+vertices, wire, filled, filled+wire")
		noCull   = flag.Bool("no-cull", false, "disable back-face culling")
		grid     = flag.Int("grid", 10, "debug grid spacing in pixels, 0 to disable")
		workers  = flag.Int("workers", 1, "goroutines used to project faces of large meshes")
		snapshot = flag.String("snapshot", "", "render headless and write the frame to this .png or .bmp file")
		frames   = flag.Int("frames", 1, "frames to advance at 60 Hz before -snapshot")
	)
	flag.Parse()

	m, err := loadMesh(*meshPath)
	if err != nil {
		log.Fatalln("failed to load mesh:", err)
	}
	b := m.Bounds()
	log.Printf("mesh: %d vertices, %d faces, bounds %v..%v", len(m.Vertices), len(m.Faces), b.Min, b.Max)

	cfg := frame.DefaultConfig()
	cfg.Mode = raster.Mode(*mode)
	if cfg.Mode < raster.ModeWireframeVertices || cfg.Mode > raster.ModeFilledWireframe {
		log.Fatalf("invalid -mode %d", *mode)
	}
	if *noCull {
		cfg.Cull = pipeline.CullNone
	}
	cfg.FOV = *fov
	cfg.Camera.Position.Z = *cameraZ
	cfg.GridSpacing = *grid
	cfg.Workers = *workers
	if r := m.Radius(); -*cameraZ <= r {
		log.Printf("warning: camera at z=%g is inside the mesh radius %.3g", *cameraZ, r)
	}

	r, err := frame.NewRenderer(m, *width, *height, cfg)
	if err != nil {
		log.Fatalln(err)
	}

	if *snapshot != "" {
		if err := writeSnapshot(r, *snapshot, *frames); err != nil {
			log.Fatalln("snapshot:", err)
		}
		return
	}
	run(r)
}

func loadMesh(path string) (*mesh.Mesh, error) {
	if path == "" {
		return mesh.Cube(), nil
	}
	return asset.Load(path)
}

func writeSnapshot(r *frame.Renderer, path string, frames int) error {
	for i := 0; i < frames; i++ {
		r.Step(1.0 / 60)
	}
	n := r.Render()

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	if err := r.Snapshot(f, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Printf("wrote %s (%d triangles)", path, n)
	return nil
}

func run(r *frame.Renderer) {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		log.Fatalln("failed to initialize glfw:", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	buf := r.Buffer
	window, err := glfw.CreateWindow(buf.Width, buf.Height, title, nil, nil)
	if err != nil {
		panic(err)
	}
	window.MakeContextCurrent()
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		handleKey(w, r, key)
	})

	if err := gl.Init(); err != nil {
		panic(err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	fmt.Println("OpenGL version", version)

	program, err := newProgram(vertexShaderSource, fragmentShaderSource)
	if err != nil {
		panic(err)
	}
	gl.UseProgram(program)

	mvpUniform := gl.GetUniformLocation(program, gl.Str("mvp\x00"))
	mvp := mgl32.Ortho2D(0, 1, 0, 1)
	gl.UniformMatrix4fv(mvpUniform, 1, false, &mvp[0])
	gl.Uniform1i(gl.GetUniformLocation(program, gl.Str("frame\x00")), 0)

	var vao uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)

	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.STATIC_DRAW)

	vertAttrib := uint32(gl.GetAttribLocation(program, gl.Str("vp\x00")))
	gl.EnableVertexAttribArray(vertAttrib)
	gl.VertexAttribPointer(vertAttrib, 2, gl.FLOAT, false, 0, gl.PtrOffset(0))

	// 0xAARRGGBB words in little-endian memory are B,G,R,A bytes.
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(buf.Width), int32(buf.Height), 0,
		gl.BGRA, gl.UNSIGNED_INT_8_8_8_8_REV, gl.Ptr(buf.Pix))

	lastFrameTime := glfw.GetTime()
	lastFpsTime := lastFrameTime
	frameCount := 0

	for !window.ShouldClose() {
		currentTime := glfw.GetTime()
		deltaTime := currentTime - lastFrameTime
		lastFrameTime = currentTime

		frameCount++
		if currentTime-lastFpsTime >= 1.0 {
			window.SetTitle(fmt.Sprintf("%s | FPS: %d | %s | cull %s | %d tris",
				title, frameCount, r.Config.Mode, r.Config.Cull, len(r.Triangles())))
			frameCount = 0
			lastFpsTime = currentTime
		}

		r.Step(deltaTime)
		r.Render()

		gl.Clear(gl.COLOR_BUFFER_BIT)
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(buf.Width), int32(buf.Height),
			gl.BGRA, gl.UNSIGNED_INT_8_8_8_8_REV, gl.Ptr(buf.Pix))
		gl.BindVertexArray(vao)
		gl.DrawArrays(gl.TRIANGLES, 0, int32(len(quadVertices)/2))

		window.SwapBuffers()
		glfw.PollEvents()
	}
}

// handleKey maps the number keys to render modes, c/d to culling on/off and
// Esc to quit.
func handleKey(w *glfw.Window, r *frame.Renderer, key glfw.Key) {
	cfg := &r.Config
	switch key {
	case glfw.KeyEscape:
		w.SetShouldClose(true)
		return
	case glfw.Key1:
		cfg.Mode = raster.ModeWireframeVertices
	case glfw.Key2:
		cfg.Mode = raster.ModeWireframe
	case glfw.Key3:
		cfg.Mode = raster.ModeFilled
	case glfw.Key4:
		cfg.Mode = raster.ModeFilledWireframe
	case glfw.KeyC:
		cfg.Cull = pipeline.CullBackface
	case glfw.KeyD:
		cfg.Cull = pipeline.CullNone
	default:
		return
	}
	log.Printf("mode %s, cull %s", cfg.Mode, cfg.Cull)
}

func newProgram(vertexShaderSource, fragmentShaderSource string) (uint32, error) {
	vertexShader, err := compileShader(vertexShaderSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}

	fragmentShader, err := compileShader(fragmentShaderSource, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))

		return 0, fmt.Errorf("failed to link program: %v", log)
	}

	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)

	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))

		return 0, fmt.Errorf("failed to compile shader: %v", log)
	}

	return shader, nil
}
