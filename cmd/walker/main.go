package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kong"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"walkcore/internal/config"
	"walkcore/internal/game"
	"walkcore/internal/loop"
	"walkcore/internal/player"
	"walkcore/internal/replay"
	"walkcore/internal/world"
)

var CLI struct {
	Debug   bool     `help:"Whether to enable debug logging."`
	Configs []string `name:"config" short:"c" help:"Configuration files, applied in order over the defaults." type:"existingfile"`
	Level   string   `help:"Level file. Overrides world.level." type:"existingfile"`

	Play struct {
		Model  string `help:"Model file to walk around in. Overrides world.model." type:"existingfile"`
		Record string `help:"Write a replay of the session to this file." type:"path"`
	} `cmd:"" default:"1" help:"Open a window and walk around."`

	Drop struct {
		Height float64 `help:"Height to drop the player from." default:"5"`
		Frames int     `help:"Frames to simulate." default:"300"`
		FPS    float64 `help:"Simulated frame rate." default:"60"`
	} `cmd:"" help:"Drop the player onto the level without a window and report where it lands."`

	Verify struct {
		Replay    string  `arg:"" help:"Replay file to check." type:"existingfile"`
		Tolerance float64 `help:"Allowed difference per component." default:"1e-9"`
	} `cmd:"" help:"Re-simulate a replay and check that it matches."`

	Config struct {
	} `cmd:"" help:"Write the default configuration to standard output."`
}

func writeError(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", err)
	os.Exit(1)
}

func main() {
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	log.Logger = log.Output(consoleWriter)

	ctx := kong.Parse(&CLI,
		kong.Name("walker"),
		kong.Description("first person capsule movement against triangle worlds"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}))

	var err error
	switch ctx.Command() {
	case "play":
		err = playCommand()
	case "drop":
		err = dropCommand()
	case "verify <replay>":
		err = verifyCommand()
	case "config":
		os.Stdout.Write(config.DEFAULT)
	}
	if err != nil {
		writeError(err)
	}
}

// setup loads the configuration and the level it names.
func setup() (*config.Config, *world.Level, error) {
	cfg, err := config.Process(CLI.Configs)
	if err != nil {
		return nil, nil, err
	}

	level, err := cfg.LogLevel()
	if err != nil {
		return nil, nil, err
	}
	zerolog.SetGlobalLevel(level)
	if CLI.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Warn().Msg("debug logging enabled")
	}

	if CLI.Level != "" {
		cfg.World.Level = CLI.Level
	}
	if cfg.World.Level == "" {
		return cfg, world.DefaultLevel(), nil
	}
	lvl, err := world.LoadLevel(cfg.World.Level)
	if err != nil {
		return nil, nil, err
	}
	return cfg, lvl, nil
}

func playCommand() error {
	cfg, level, err := setup()
	if err != nil {
		return err
	}
	if CLI.Play.Model != "" {
		cfg.World.Model = CLI.Play.Model
	}

	g, err := game.New(cfg, level, CLI.Play.Record)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return g.Run(ctx)
}

func dropCommand() error {
	cfg, level, err := setup()
	if err != nil {
		return err
	}
	if !(CLI.Drop.FPS > 0) {
		return fmt.Errorf("fps must be positive")
	}

	pc, err := cfg.PlayerConfig()
	if err != nil {
		return err
	}
	start := level.SpawnPoint().Add(mgl64.Vec3{0, CLI.Drop.Height, 0})
	opts, err := cfg.DriverOptions(start)
	if err != nil {
		return err
	}

	ctx := context.Background()
	pending := world.Build(ctx, level)
	if _, err := pending.Wait(ctx); err != nil {
		return err
	}

	sim := player.New(pc, start)
	driver := loop.NewDriver(sim, pending, loop.NewHeldInput(player.NewMapper(pc)), opts)

	landed := -1
	var frame loop.Frame
	for i := 0; i < CLI.Drop.Frames; i++ {
		frame = driver.Frame(1 / CLI.Drop.FPS)
		if landed < 0 && frame.OnFloor {
			landed = i
		}
	}

	feet := sim.Feet()
	log.Info().
		Str("level", level.Name).
		Float64("height", CLI.Drop.Height).
		Int("landed_frame", landed).
		Bool("on_floor", frame.OnFloor).
		Floats64("feet", feet[:]).
		Msg("drop finished")
	if landed < 0 {
		return fmt.Errorf("player never landed after %d frames", CLI.Drop.Frames)
	}
	return nil
}

func verifyCommand() error {
	cfg, level, err := setup()
	if err != nil {
		return err
	}
	rec, err := replay.Load(CLI.Verify.Replay)
	if err != nil {
		return err
	}
	if rec.Level != level.Name {
		log.Warn().
			Str("recorded", rec.Level).
			Str("loaded", level.Name).
			Msg("replay was recorded on a different level")
	}

	pc, err := cfg.PlayerConfig()
	if err != nil {
		return err
	}
	opts, err := cfg.DriverOptions(mgl64.Vec3(rec.Spawn))
	if err != nil {
		return err
	}

	ctx := context.Background()
	index, err := world.Build(ctx, level).Wait(ctx)
	if err != nil {
		return err
	}

	if err := replay.Verify(rec, index, pc, opts, CLI.Verify.Tolerance); err != nil {
		return err
	}
	log.Info().Int("frames", len(rec.Frames)).Msg("replay matches")
	return nil
}
