// Command patterncheck prints a weapon preset's spread grid and the direction
// each active cell resolves to for a given aim.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/spreadfire/common"
	"github.com/milk9111/spreadfire/prefabs"
	"github.com/milk9111/spreadfire/spread"
	"golang.design/x/clipboard"
)

func main() {
	preset := flag.String("preset", "default", "weapon preset in prefabs/weapons/ (basename, .yaml optional)")
	yaw := flag.Float64("yaw", 0, "aim yaw in degrees")
	pitch := flag.Float64("pitch", 0, "aim pitch in degrees")
	copyOut := flag.Bool("copy", false, "copy the report to the clipboard")
	flag.Parse()

	spec, err := prefabs.LoadWeaponSpec(*preset)
	if err != nil {
		log.Fatal(err)
	}
	m, err := spec.Build()
	if err != nil {
		log.Fatal(err)
	}

	frame := common.FrameFromRotation(mgl64.Vec3{}, common.Rotation{Yaw: *yaw, Pitch: *pitch}).WithMuzzle(spec.Muzzle.Vec3())
	report := buildReport(m.String(), spread.Grid(m), spread.Resolve(m, frame))
	fmt.Print(report)

	if !*copyOut {
		return
	}
	if err := clipboard.Init(); err != nil {
		log.Fatalf("patterncheck: clipboard unavailable: %v", err)
	}
	clipboard.Write(clipboard.FmtText, []byte(report))
	log.Printf("patterncheck: copied %d bytes", len(report))
}

func buildReport(header, grid string, offsets []spread.Offset) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")
	b.WriteString(grid)
	b.WriteString("\n\n")
	for _, o := range offsets {
		fmt.Fprintf(&b, "cell %3d  dir (%+.4f, %+.4f, %+.4f)  yaw %+8.3f  pitch %+8.3f\n",
			o.Cell, o.Direction.X(), o.Direction.Y(), o.Direction.Z(), o.Rotation.Yaw, o.Rotation.Pitch)
	}
	fmt.Fprintf(&b, "%d projectiles per shot\n", len(offsets))
	return b.String()
}
