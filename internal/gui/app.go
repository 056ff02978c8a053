package gui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/fluidlab/internal/solver"
)

// Theme Colors (Monochrome Hyper-Minimalist)
var (
	ColBg      = rl.NewColor(10, 10, 10, 255)    // Deep Black
	ColAccent  = rl.NewColor(180, 180, 180, 255) // Soft White
	ColSelect  = rl.NewColor(255, 255, 255, 255) // Bright White
	ColText    = rl.NewColor(140, 140, 140, 255) // Neutral Gray
	ColTextDim = rl.NewColor(60, 60, 60, 255)    // Dark Gray (Subtle)
	ColGrid    = rl.NewColor(30, 30, 30, 255)    // Barely visible grid
)

// speedScale maps particle speed to brightness; speeds above this saturate.
const speedScale = 6.0

type App struct {
	Solver  *solver.Solver
	Camera  rl.Camera3D
	FrameDt float32

	OrbitYaw   float32
	OrbitPitch float32
	OrbitDist  float32

	ShowHelp bool
	Font     rl.Font
}

func initWindow() {
	rl.InitWindow(1280, 720, "fluidlab")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

func loadFont() rl.Font {
	font := rl.LoadFontEx("/usr/share/fonts/liberation/LiberationMono-Regular.ttf", 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// NewApp wraps a solver in an interactive viewer with an orbit camera
// framed on the simulation bounds.
func NewApp(s *solver.Solver, frameDt float32) *App {
	b := s.Config().Bounds
	extent := float32(math.Max(float64(b.Size.X()), math.Max(float64(b.Size.Y()), float64(b.Size.Z()))))

	app := &App{
		Solver:     s,
		FrameDt:    frameDt,
		OrbitYaw:   0.6,
		OrbitPitch: 0.35,
		OrbitDist:  extent * 2.2,
		Font:       loadFont(),
	}
	app.Camera = rl.NewCamera3D(
		rl.NewVector3(0, 0, app.OrbitDist),
		rl.NewVector3(b.Center.X(), b.Center.Y(), b.Center.Z()),
		rl.NewVector3(0, 1, 0),
		45.0,
		rl.CameraPerspective,
	)
	app.updateCamera()
	return app
}

// Run opens the window and blocks until it is closed.
func Run(s *solver.Solver, frameDt float32) {
	initWindow()
	defer rl.CloseWindow()
	app := NewApp(s, frameDt)
	app.RunLoop()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		a.Update()
		a.Draw()
	}
}

func (a *App) Update() {
	switch {
	case rl.IsKeyPressed(rl.KeySpace):
		a.Solver.TogglePause()
	case rl.IsKeyPressed(rl.KeyS):
		a.Solver.RequestSingleStep()
	case rl.IsKeyPressed(rl.KeyN):
		a.Solver.SetSlowMotion(!a.Solver.SlowMotion())
	case rl.IsKeyPressed(rl.KeyR):
		a.Solver.Reset()
	case rl.IsKeyPressed(rl.KeyH):
		a.ShowHelp = !a.ShowHelp
	}

	// Orbit controls. Drag rotates, wheel zooms.
	if rl.IsMouseButtonDown(rl.MouseLeftButton) {
		delta := rl.GetMouseDelta()
		a.OrbitYaw -= delta.X * 0.005
		a.OrbitPitch += delta.Y * 0.005
		if a.OrbitPitch > 1.45 {
			a.OrbitPitch = 1.45
		}
		if a.OrbitPitch < -1.45 {
			a.OrbitPitch = -1.45
		}
	}
	a.OrbitDist -= rl.GetMouseWheelMove() * a.OrbitDist * 0.08
	if a.OrbitDist < 1 {
		a.OrbitDist = 1
	}
	a.updateCamera()

	a.Solver.Advance(a.FrameDt)
}

func (a *App) updateCamera() {
	cy := float32(math.Cos(float64(a.OrbitYaw)))
	sy := float32(math.Sin(float64(a.OrbitYaw)))
	cp := float32(math.Cos(float64(a.OrbitPitch)))
	sp := float32(math.Sin(float64(a.OrbitPitch)))
	t := a.Camera.Target
	a.Camera.Position = rl.NewVector3(
		t.X+a.OrbitDist*cp*sy,
		t.Y+a.OrbitDist*sp,
		t.Z+a.OrbitDist*cp*cy,
	)
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	rl.BeginMode3D(a.Camera)
	a.drawBounds()
	a.drawParticles()
	a.drawAffectors()
	rl.EndMode3D()

	a.drawHUD()
	rl.EndDrawing()
}

func (a *App) drawBounds() {
	b := a.Solver.Config().Bounds
	rl.DrawCubeWires(
		rl.NewVector3(b.Center.X(), b.Center.Y(), b.Center.Z()),
		b.Size.X(), b.Size.Y(), b.Size.Z(),
		ColGrid,
	)
}

func (a *App) drawParticles() {
	pos := a.Solver.Positions()
	vel := a.Solver.Velocities()
	radius := a.Solver.Config().SmoothingRadius * 0.25

	for i := range pos {
		speed := math.Sqrt(float64(vel[i].Dot(vel[i])))
		t := speed / speedScale
		if t > 1 {
			t = 1
		}
		val := uint8(90 + t*165)
		rl.DrawSphereEx(
			rl.NewVector3(pos[i].X(), pos[i].Y(), pos[i].Z()),
			radius, 6, 6,
			rl.NewColor(val, val, val, 255),
		)
	}
}

func (a *App) drawAffectors() {
	for _, rec := range a.Solver.CollisionObjects().Records() {
		if rec.Active == 0 {
			continue
		}
		p := rl.NewVector3(rec.Position.X(), rec.Position.Y(), rec.Position.Z())
		rl.DrawSphereWires(p, rec.Radius, 8, 8, ColTextDim)
	}
	for _, rec := range a.Solver.ForceZones().Records() {
		if rec.Active == 0 {
			continue
		}
		p := rl.NewVector3(rec.Position.X(), rec.Position.Y(), rec.Position.Z())
		rl.DrawSphereWires(p, rec.Radius, 8, 8, ColGrid)
	}
}

func (a *App) drawText(text string, x, y int32, size float32, col rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), size, 1, col)
}

func (a *App) drawHUD() {
	state := a.Solver.State().String()
	if a.Solver.SlowMotion() {
		state += " / SLOW"
	}
	a.drawText(fmt.Sprintf("t=%.2fs  frame=%d  n=%d  [%s]",
		a.Solver.Time(), a.Solver.FrameCount(), a.Solver.N(), state), 20, 20, 18, ColText)

	if a.ShowHelp {
		a.drawText("SPACE pause  S step  N slow  R reset  H help  drag orbit  wheel zoom", 20, 690, 14, ColTextDim)
	} else {
		a.drawText("H help", 20, 690, 14, ColTextDim)
	}
}
