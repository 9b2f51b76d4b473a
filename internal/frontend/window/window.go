// Package window implements a front-end that renders into a GLFW window
// using OpenGL and reads the keyboard through GLFW key callbacks.
package window

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.2/glfw"
	"github.com/retroenv/retrochip8/internal/keymap"
	"github.com/retroenv/retrochip8/internal/session"
)

const (
	// the vertex grid always covers the hi-res resolution, a lo-res pixel
	// is drawn as a 2x2 block of grid cells
	gridWidth  = 128
	gridHeight = 64

	renderScale = 8
)

// colors of the combined plane bits of a pixel, index 0 is the background
var colors = [16][3]float32{
	{0.10, 0.10, 0.10}, {0.85, 0.85, 0.85}, {1.00, 0.40, 0.00}, {0.40, 0.13, 0.00},
	{0.20, 0.60, 1.00}, {0.25, 0.75, 1.00}, {0.45, 0.80, 1.00}, {0.65, 0.85, 1.00},
	{1.00, 0.10, 0.10}, {1.00, 0.30, 0.10}, {1.00, 0.60, 0.10}, {1.00, 1.00, 0.20},
	{0.20, 1.00, 0.20}, {0.40, 1.00, 0.40}, {0.60, 1.00, 0.60}, {1.00, 1.00, 1.00},
}

var (
	vertexShaderGlsl = `
	  #version 410 core
	  in vec2 pos;
	  void main() {
	   gl_Position = vec4(pos, 0.0, 1.0);
	  }`
	fragmentShaderGlsl = `
	  #version 410 core
	  uniform vec4 fill;
	  out vec4 color;
	  void main() {
	    color = fill;
	  }`
)

func init() {
	// GLFW has to be called from the main thread
	runtime.LockOSThread()
}

// Frontend renders frames into a window.
type Frontend struct {
	window  *glfw.Window
	vertex  []uint32
	fillLoc int32
	events  []session.KeyEvent
}

// New opens a window with the given title.
func New(title string) (*Frontend, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("initializing glfw: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(gridWidth*renderScale, gridHeight*renderScale, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("creating window: %w", err)
	}
	window.MakeContextCurrent()

	f := &Frontend{
		window: window,
	}
	if err := f.glSetup(); err != nil {
		window.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("setting up opengl: %w", err)
	}

	window.SetKeyCallback(f.keyHandler)
	window.SetSizeCallback(resizeHandler)
	c := colors[0]
	gl.ClearColor(c[0], c[1], c[2], 1)
	return f, nil
}

func resizeHandler(_ *glfw.Window, width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (f *Frontend) keyHandler(window *glfw.Window, key glfw.Key, _ int,
	action glfw.Action, _ glfw.ModifierKey) {

	if key == glfw.KeyEscape && action == glfw.Press {
		window.SetShouldClose(true)
		return
	}
	if action == glfw.Repeat {
		return
	}

	// printable GLFW key codes are the upper case ASCII characters
	index, ok := keymap.Lookup(rune(key))
	if !ok {
		return
	}
	f.events = append(f.events, session.KeyEvent{Key: index, Pressed: action == glfw.Press})
}

// Poll processes the window events and returns the collected key changes.
// Closing the window or pressing Escape quits.
func (f *Frontend) Poll() (session.Input, error) {
	glfw.PollEvents()

	input := session.Input{
		Keys: f.events,
		Quit: f.window.ShouldClose(),
	}
	f.events = nil
	return input, nil
}

// Render draws the frame, one draw call per pixel color.
func (f *Frontend) Render(frame session.Frame) error {
	gl.Clear(gl.COLOR_BUFFER_BIT)

	for value := byte(1); value < byte(len(colors)); value++ {
		n := fillVerticesToDraw(frame, value, f.vertex)
		if n == 0 {
			continue
		}
		c := colors[value]
		gl.Uniform4f(f.fillLoc, c[0], c[1], c[2], 1)
		gl.BufferSubData(gl.ELEMENT_ARRAY_BUFFER, 0, n*4, gl.Ptr(f.vertex))
		gl.DrawElements(gl.TRIANGLES, int32(n), gl.UNSIGNED_INT, gl.PtrOffset(0))
	}

	f.window.SwapBuffers()

	if err := gl.GetError(); err != gl.NO_ERROR {
		return fmt.Errorf("GL error: 0x%x", err)
	}
	return nil
}

// Close destroys the window.
func (f *Frontend) Close() error {
	f.window.Destroy()
	glfw.Terminate()
	return nil
}

// fillVerticesToDraw writes the triangle indexes of all pixels of the given
// value and returns the number of indexes.
func fillVerticesToDraw(frame session.Frame, value byte, vertex []uint32) int {
	if frame.Width == 0 {
		return 0
	}
	h := gridHeight + 1
	s := gridWidth / frame.Width
	n := 0
	for y := range frame.Height {
		for x := range frame.Width {
			if frame.Pixels[y*frame.Width+x] != value {
				continue
			}
			// corners of the quad
			gx, gy := x*s, y*s
			q1 := uint32(gx*h + gy)
			q2 := uint32(gx*h + gy + s)
			q3 := uint32((gx+s)*h + gy)
			q4 := uint32((gx+s)*h + gy + s)
			vertex[n+0] = q1
			vertex[n+1] = q2
			vertex[n+2] = q3
			vertex[n+3] = q2
			vertex[n+4] = q3
			vertex[n+5] = q4
			n += 6
		}
	}
	return n
}

func checkShaderError(shader uint32) error {
	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var length int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &length)
		log := strings.Repeat("\x00", 1+int(length))
		gl.GetShaderInfoLog(shader, length, nil, gl.Str(log))
		return errors.New(log)
	}
	return nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	cStr, free := gl.Strs(source)
	defer free()
	gl.ShaderSource(shader, 1, cStr, nil)
	gl.CompileShader(shader)
	if err := checkShaderError(shader); err != nil {
		return 0, err
	}
	return shader, nil
}

func (f *Frontend) glSetup() error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("initializing gl: %w", err)
	}

	var vao, vbo, ebo uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)

	// The vertices are numbered starting from the top left and going down,
	// proceeding right after the last row is reached. The vertex at grid
	// position (x,y) is numbered 65*x+y.
	w, h := gridWidth+1, gridHeight+1
	ncoords := w * h * 2
	buf := make([]float32, ncoords)
	for x := range w {
		for y := range h {
			i := 2 * (x*h + y)
			buf[i] = -1 + float32(x)/float32(gridWidth/2)
			buf[i+1] = 1 - float32(y)/float32(gridHeight/2)
		}
	}

	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(buf)*4, gl.Ptr(buf), gl.STATIC_DRAW)

	// every grid cell needs 6 indexes
	f.vertex = make([]uint32, gridWidth*gridHeight*6)

	gl.GenBuffers(1, &ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(f.vertex)*4, gl.Ptr(f.vertex), gl.DYNAMIC_DRAW)

	vertexShader, err := compileShader(vertexShaderGlsl, gl.VERTEX_SHADER)
	if err != nil {
		return fmt.Errorf("vertex shader error: %w", err)
	}
	fragmentShader, err := compileShader(fragmentShaderGlsl, gl.FRAGMENT_SHADER)
	if err != nil {
		return fmt.Errorf("fragment shader error: %w", err)
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.BindFragDataLocation(program, 0, gl.Str("color\x00"))
	gl.LinkProgram(program)
	gl.UseProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var length int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &length)
		log := strings.Repeat("\x00", 1+int(length))
		gl.GetProgramInfoLog(program, length, nil, gl.Str(log))
		return fmt.Errorf("program link error: %s", log)
	}
	f.fillLoc = gl.GetUniformLocation(program, gl.Str("fill\x00"))

	gl.EnableVertexAttribArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 0, gl.PtrOffset(0))

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)

	if err := gl.GetError(); err != gl.NO_ERROR {
		return fmt.Errorf("GL error: 0x%x", err)
	}
	return nil
}
