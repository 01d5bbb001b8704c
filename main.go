package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/spreadfire/common"
	"github.com/milk9111/spreadfire/fire"
	"github.com/milk9111/spreadfire/prefabs"
	"github.com/milk9111/spreadfire/replay"
)

func main() {
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	preset := flag.String("preset", "", "weapon preset in prefabs/weapons/ (basename, .yaml optional)")
	rangeName := flag.String("range", "", "range prefab (defaults to entities/range.yaml)")
	record := flag.String("record", "", "record trigger input to this file on exit")
	play := flag.String("play", "", "replay a recorded trigger log headless and print the spawn count")
	noWatch := flag.Bool("nowatch", false, "disable hot reload of prefabs/ from disk")
	appName := flag.String("app", "spreadfire", "application name used for the loadout save directory")
	flag.Parse()

	if *play != "" {
		if err := runReplay(*play, *preset); err != nil {
			log.Fatal(err)
		}
		return
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("spreadfire")

	log.Printf("main: preset=%q range=%q record=%q watch=%v app=%q", *preset, *rangeName, *record, !*noWatch, *appName)

	game, err := NewGame(Config{
		Range:      *rangeName,
		Preset:     *preset,
		RecordPath: *record,
		Watch:      !*noWatch,
		AppName:    *appName,
	})
	if err != nil {
		log.Fatal(err)
	}

	runErr := ebiten.RunGame(game)
	if err := game.Close(); err != nil {
		log.Printf("main: warning: %v", err)
	}
	if runErr != nil {
		log.Fatal(runErr)
	}
}

// runReplay feeds a recorded log through a fresh controller. Mechanics
// recorded in the log win; the starting preset only matters for logs without
// them, and override replaces it.
func runReplay(path, override string) error {
	l, err := replay.Load(path)
	if err != nil {
		return err
	}

	name := l.Preset
	if override != "" {
		name = override
	}
	if name == "" {
		name = "default"
	}
	spec, err := prefabs.LoadWeaponSpec(name)
	if err != nil {
		return err
	}
	m, err := spec.Build()
	if err != nil {
		return err
	}

	frame := common.IdentityFrame().WithMuzzle(spec.Muzzle.Vec3())
	n := replay.Play(l, fire.NewController(m, nil), frame, nil)
	fmt.Printf("%s: %d frames over %s, %d mechanic changes, spawned %d projectiles\n", path, len(l.Frames), l.Duration(), l.Swaps(), n)
	return nil
}
