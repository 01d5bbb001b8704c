package main

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/spreadfire/ecs"
	"github.com/milk9111/spreadfire/ecs/component"
	"github.com/milk9111/spreadfire/ecs/entity"
	"github.com/milk9111/spreadfire/ecs/system"
	"github.com/milk9111/spreadfire/loadout"
	"github.com/milk9111/spreadfire/prefabs"
	"github.com/milk9111/spreadfire/replay"
	"golang.org/x/image/colornames"
)

const (
	baseWidth  = 1280
	baseHeight = 720
)

type Config struct {
	Range      string
	Preset     string
	RecordPath string
	Watch      bool
	AppName    string
}

type Game struct {
	frames int
	paused bool

	world   *ecs.World
	sched   *ecs.Scheduler
	weapons *system.WeaponSystem
	watcher *prefabs.Watcher

	pauseUI       *ebitenui.UI
	pendingPreset int
	recordPath    string
}

func NewGame(cfg Config) (*Game, error) {
	w := ecs.NewWorld()
	w.SetPhysicsWorld(ecs.NewPhysicsWorld())

	rangePath := cfg.Range
	if rangePath == "" {
		rangePath = entity.DefaultRange
	}
	rng, err := entity.BuildRange(w, rangePath)
	if err != nil {
		return nil, err
	}

	g := &Game{world: w, recordPath: cfg.RecordPath}

	store, err := loadout.Open(cfg.AppName)
	if err != nil {
		log.Printf("game: warning: %v (loadouts kept in memory)", err)
		store = loadout.New(nil)
	}

	if cfg.Watch {
		watcher, err := prefabs.WatchDefault()
		if err != nil {
			log.Printf("game: warning: preset hot reload disabled: %v", err)
		} else {
			g.watcher = watcher
		}
	}

	if cfg.Preset != "" {
		spec, err := prefabs.LoadWeaponSpec(cfg.Preset)
		if err != nil {
			return nil, err
		}
		wp, ok := ecs.Get(w, rng.Shooter, component.WeaponComponent.Kind())
		if !ok {
			return nil, fmt.Errorf("game: shooter has no weapon")
		}
		if err := system.ApplyWeaponSpec(wp, spec); err != nil {
			return nil, err
		}
	}

	g.weapons = system.NewWeaponSystem()
	if cfg.RecordPath != "" {
		preset := ""
		if wp, ok := ecs.Get(w, rng.Shooter, component.WeaponComponent.Kind()); ok {
			preset = wp.Preset
		}
		g.weapons.Recorder = replay.NewRecorder(preset)
	}

	g.sched = ecs.NewScheduler(
		&system.InputSystem{Poll: g.poll},
		system.NewAimSystem(),
		system.NewPresetSystem(g.watcher, store),
		g.weapons,
		system.NewProjectileSystem(),
		system.NewPhysicsSystem(),
		system.NewDebugDrawSystem(baseWidth/4, baseHeight/2),
	)

	names, err := prefabs.WeaponNames()
	if err != nil {
		log.Printf("game: warning: %v", err)
	}
	g.pauseUI = NewPauseUI(g, names)

	log.Printf("game: range=%s targets=%d presets=%v watch=%v record=%q persistent_loadouts=%v",
		rangePath, len(rng.Targets), names, g.watcher != nil, cfg.RecordPath, store.Persistent())
	return g, nil
}

// poll merges device input with menu selections.
func (g *Game) poll() component.Input {
	in := system.PollDevices()
	if g.pendingPreset > 0 {
		in.SelectPreset = g.pendingPreset
		g.pendingPreset = 0
	}
	return in
}

func (g *Game) selectPreset(index int) {
	g.pendingPreset = index
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) && ebiten.IsKeyPressed(ebiten.KeyControl) {
		return ebiten.Termination
	}

	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	g.frames++
	dt := time.Second / time.Duration(ebiten.TPS())
	g.sched.Step(g.world, dt)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Darkslategray)
	g.sched.Draw(g.world, screen)
	ebitenutil.DebugPrint(screen, fmt.Sprintf("Frames: %d    FPS: %.2f    [Esc] presets  [F5] save slot  [F9] load slot", g.frames, ebiten.ActualFPS()))

	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

// Close stops the watcher and writes the recording, if any.
func (g *Game) Close() error {
	var errs []error
	if g.watcher != nil {
		errs = append(errs, g.watcher.Close())
	}
	if g.weapons != nil && g.weapons.Recorder != nil && g.recordPath != "" {
		if err := replay.Save(g.recordPath, g.weapons.Recorder.Log()); err != nil {
			errs = append(errs, err)
		} else {
			log.Printf("game: wrote %d frames to %s", g.weapons.Recorder.Len(), g.recordPath)
		}
	}
	return errors.Join(errs...)
}
