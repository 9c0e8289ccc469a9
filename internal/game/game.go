package game

import (
	"context"
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/rs/zerolog/log"

	"walkcore/internal/camera"
	"walkcore/internal/config"
	"walkcore/internal/loop"
	"walkcore/internal/physics"
	"walkcore/internal/player"
	"walkcore/internal/replay"
	"walkcore/internal/world"
)

// teleportReach is how far the look ray searches for a teleport target.
const teleportReach = 30.0

type Game struct {
	cfg    *config.Config
	level  *world.Level
	opts   loop.Options
	camera *camera.FPSCamera
	sim    *player.Simulator
	input  *loop.HeldInput
	driver *loop.Driver

	pending *world.Pending
	cancel  context.CancelFunc

	model    rl.Model
	hasModel bool
	meshes   []faceMesh
	collider faceMesh // installed index, for the wireframe overlay
	hasWires bool

	recorder   *replay.Recorder
	recordPath string

	DebugMode   bool
	showWires   bool
	showCapsule bool
	thirdPerson bool
	lastFrame   loop.Frame
	culled      int

	// Debug timing (ms)
	updateMs float64
	drawMs   float64
}

// New prepares a session on level. When recordPath is set every frame is
// recorded and written there on exit.
func New(cfg *config.Config, level *world.Level, recordPath string) (*Game, error) {
	pc, err := cfg.PlayerConfig()
	if err != nil {
		return nil, err
	}
	spawn := level.SpawnPoint()
	opts, err := cfg.DriverOptions(spawn)
	if err != nil {
		return nil, err
	}

	cam := camera.New()
	cam.Fovy = cfg.Window.FOV
	cam.LookSpeed = cfg.Window.MouseSensitivity

	g := &Game{
		cfg:         cfg,
		level:       level,
		opts:        opts,
		camera:      cam,
		sim:         player.New(pc, spawn),
		input:       loop.NewHeldInput(player.NewMapper(pc)),
		recordPath:  recordPath,
		showCapsule: true,
	}
	if recordPath != "" {
		g.recorder = replay.NewRecorder(level.Name, spawn)
		if cfg.World.Model != "" {
			g.recorder.SetModel(cfg.World.Model, cfg.World.ModelScale)
		}
	}
	return g, nil
}

func (g *Game) Run(ctx context.Context) error {
	rl.SetConfigFlags(rl.FlagWindowHighdpi)
	rl.InitWindow(g.cfg.Window.Width, g.cfg.Window.Height, g.cfg.Window.Title)
	defer rl.CloseWindow()

	rl.SetTargetFPS(g.cfg.Window.FPS)
	rl.DisableCursor()

	// Geometry is loaded after the OpenGL context exists and indexed in
	// the background while the first frames render.
	ctx, g.cancel = context.WithCancel(ctx)
	g.pending = world.Build(ctx, g.provider())
	g.driver = loop.NewDriver(g.sim, g.pending, g.input, g.opts)
	defer g.unload()

	for !rl.WindowShouldClose() && ctx.Err() == nil {
		g.Update()
		g.Draw()
	}

	return g.saveRecording()
}

func (g *Game) provider() world.Provider {
	path := g.cfg.World.Model
	if path == "" {
		g.meshes = levelMeshes(g.level)
		return g.level
	}

	g.model = rl.LoadModel(path)
	if g.model.MeshCount == 0 {
		return world.ProviderFunc(func(context.Context) ([]physics.Triangle, error) {
			return nil, fmt.Errorf("load model %s: no meshes", path)
		})
	}
	g.hasModel = true
	return &ModelProvider{Model: g.model, Scale: float32(g.cfg.World.ModelScale), Kind: world.KindWalkable}
}

func (g *Game) unload() {
	g.cancel()
	// The builder may still be reading mesh data.
	g.pending.Wait(context.Background())
	if g.hasModel {
		rl.UnloadModel(g.model)
	}
}

func (g *Game) saveRecording() error {
	if g.recorder == nil {
		return nil
	}
	if err := replay.Save(g.recordPath, g.recorder.Recording()); err != nil {
		return err
	}
	log.Info().
		Str("path", g.recordPath).
		Int("frames", g.recorder.Len()).
		Msg("saved replay")
	return nil
}

func (g *Game) Update() {
	updateStart := time.Now()
	dt := float64(rl.GetFrameTime())

	// Toggle debug mode
	if rl.IsKeyPressed(rl.KeyF1) {
		g.DebugMode = !g.DebugMode
		if g.DebugMode {
			rl.EnableCursor()
		} else {
			rl.DisableCursor()
		}
	}
	if !g.DebugMode {
		g.camera.Look(readLook())
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.driver.Teleport(g.level.SpawnPoint())
		g.teleported()
	}
	if rl.IsKeyPressed(rl.KeyT) {
		head := g.sim.Head()
		if g.driver.TeleportAlong(g.camera.Eye(head), g.camera.Forward(), teleportReach) {
			g.teleported()
		}
	}

	axes := readAxes()
	yaw := g.camera.YawRadians()
	g.input.Set(yaw, axes)
	g.lastFrame = g.driver.Frame(dt)

	if g.recorder != nil {
		g.recorder.Record(dt, yaw, axes, g.lastFrame, g.sim.Velocity())
	}

	if !g.hasWires && g.driver.Index() != nil {
		g.collider = newFaceMesh(g.driver.Index().Triangles(), rl.Lime)
		g.hasWires = true
	}

	g.updateMs = float64(time.Since(updateStart).Microseconds()) / 1000.0
}

// teleported records a player move made outside the frame driver.
func (g *Game) teleported() {
	if g.recorder != nil {
		g.recorder.Teleported(g.sim.Feet())
	}
}

func (g *Game) Draw() {
	camera := raylibCamera(g.camera, g.lastFrame.Camera, g.DebugMode && g.thirdPerson)

	rl.BeginDrawing()
	rl.ClearBackground(skyColor)

	drawStart := time.Now()
	rl.BeginMode3D(camera)
	g.drawWorld()
	if g.DebugMode {
		g.drawDebug3D()
	}
	rl.EndMode3D()
	g.drawMs = float64(time.Since(drawStart).Microseconds()) / 1000.0

	g.DrawUI()
	rl.EndDrawing()
}

func (g *Game) drawWorld() {
	if g.hasModel {
		s := float32(g.cfg.World.ModelScale)
		rl.DrawModelEx(g.model, rl.Vector3{}, rl.Vector3{X: 0, Y: 1, Z: 0}, 0, rl.Vector3{X: s, Y: s, Z: s}, rl.White)
		return
	}

	aspect := float64(rl.GetScreenWidth()) / float64(rl.GetScreenHeight())
	frustum := g.camera.Frustum(g.lastFrame.Camera, aspect)

	g.culled = 0
	rl.DisableBackfaceCulling()
	for _, m := range g.meshes {
		// The third person eye sits behind the head, so skip culling there.
		if !(g.DebugMode && g.thirdPerson) && !m.visible(frustum) {
			g.culled++
			continue
		}
		m.draw()
	}
	rl.EnableBackfaceCulling()
}

func (g *Game) drawDebug3D() {
	if g.showWires && g.hasWires {
		g.collider.drawWires(rl.Lime)
	}
	if g.showCapsule {
		c := g.sim.Capsule()
		color := rl.Red
		if g.sim.OnFloor() {
			color = rl.Green
		}
		rl.DrawCapsuleWires(toRaylib(c.Start), toRaylib(c.End), float32(c.Radius), 12, 6, color)
	}
}

func (g *Game) DrawUI() {
	rl.DrawText("WASD to move, Space to jump, Mouse to look, T to teleport, R to respawn", 10, 10, 20, rl.DarkGray)
	rl.DrawText("F1 to toggle debug view", 10, 35, 20, rl.DarkGray)
	rl.DrawFPS(10, 60)

	if !g.lastFrame.Ready {
		rl.DrawText("Loading world...", 10, 85, 20, rl.Maroon)
	}

	if g.DebugMode {
		g.drawDebugPanel()
	}
}
