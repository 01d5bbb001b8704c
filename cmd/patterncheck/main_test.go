package main

import (
	"strings"
	"testing"

	"github.com/milk9111/spreadfire/common"
	"github.com/milk9111/spreadfire/spread"
	"github.com/milk9111/spreadfire/weapon"
)

func TestBuildReportListsEachOffset(t *testing.T) {
	m := weapon.NewMechanic(1)
	offsets := spread.Resolve(m, common.IdentityFrame())
	report := buildReport(m.String(), spread.Grid(m), offsets)

	if got := strings.Count(report, "cell "); got != len(offsets) {
		t.Fatalf("cell lines: got %d want %d\n%s", got, len(offsets), report)
	}
	if !strings.Contains(report, spread.Grid(m)) {
		t.Fatalf("grid missing from report:\n%s", report)
	}
	if !strings.HasSuffix(report, "projectiles per shot\n") {
		t.Fatalf("missing summary line:\n%s", report)
	}
}
