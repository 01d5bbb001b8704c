package replay

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/milk9111/spreadfire/common"
	"github.com/milk9111/spreadfire/fire"
	"github.com/milk9111/spreadfire/weapon"
	"github.com/vmihailenco/msgpack/v5"
)

func testMechanic(t *testing.T) *weapon.Mechanic {
	t.Helper()
	m, err := weapon.NewPatternMechanic(2, []bool{true, false, true, false, true, false}, 3)
	if err != nil {
		t.Fatal(err)
	}
	m.FullAutomatic = true
	return m
}

// session drives a live controller with uneven ticks and records it.
func session(t *testing.T, frame common.Frame) (*Log, []fire.Shot) {
	t.Helper()
	var shots []fire.Shot
	m := testMechanic(t)
	c := fire.NewController(m, func(s fire.Shot) { shots = append(shots, s) })
	rec := NewRecorder("test")

	dts := []time.Duration{16 * time.Millisecond, 17 * time.Millisecond, 9 * time.Millisecond, 33 * time.Millisecond}
	for i := range 240 {
		pressed := i == 3 || i == 150
		released := i == 90 || i == 200
		if pressed {
			c.OnTriggerPressed()
		}
		if released {
			c.OnTriggerReleased()
		}
		dt := dts[i%len(dts)]
		c.Tick(dt, frame)
		rec.Record(dt, pressed, released, m)
	}
	return rec.Log(), shots
}

func TestReplayReproducesSession(t *testing.T) {
	frame := common.FrameFromRotation(common.IdentityFrame().Position, common.Rotation{Yaw: 30, Pitch: 10})
	log, live := session(t, frame)
	if len(live) == 0 {
		t.Fatalf("session produced no shots")
	}

	var buf bytes.Buffer
	if err := Encode(&buf, log); err != nil {
		t.Fatal(err)
	}
	decoded, err := Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Preset != "test" || len(decoded.Frames) != 240 {
		t.Fatalf("decoded log mismatch: preset=%q frames=%d", decoded.Preset, len(decoded.Frames))
	}
	if decoded.Duration() != log.Duration() {
		t.Fatalf("duration: got %s want %s", decoded.Duration(), log.Duration())
	}

	var replayed []fire.Shot
	n := Play(decoded, fire.NewController(testMechanic(t), nil), frame, func(s fire.Shot) { replayed = append(replayed, s) })
	if n != len(live) || len(replayed) != len(live) {
		t.Fatalf("shot count: live=%d replay=%d returned=%d", len(live), len(replayed), n)
	}
	for i := range live {
		if live[i] != replayed[i] {
			t.Fatalf("shot %d differs: live=%+v replay=%+v", i, live[i], replayed[i])
		}
	}
}

func TestSaveLoad(t *testing.T) {
	log, _ := session(t, common.IdentityFrame())
	path := filepath.Join(t.TempDir(), "session.replay")

	if err := Save(path, log); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Frames) != len(log.Frames) {
		t.Fatalf("frames: got %d want %d", len(got.Frames), len(log.Frames))
	}
	for i, want := range log.Frames {
		f := got.Frames[i]
		if f.DT != want.DT || f.Pressed != want.Pressed || f.Released != want.Released || (f.Mechanic == nil) != (want.Mechanic == nil) {
			t.Fatalf("frame %d: got %+v want %+v", i, f, want)
		}
	}
	if got.Swaps() != 1 || got.Frames[0].Mechanic == nil {
		t.Fatalf("only the first frame should carry a mechanic, got %d", got.Swaps())
	}
}

func TestReplayFollowsMechanicSwaps(t *testing.T) {
	tick := 10 * time.Millisecond
	single := weapon.NewMechanic(1)
	single.Name = "single"
	burst, err := weapon.NewPatternMechanic(3, []bool{true, true, false, true}, 2)
	if err != nil {
		t.Fatal(err)
	}
	burst.Name = "burst"
	burst.SetFireDelay(500 * time.Millisecond)

	var live []fire.Shot
	c := fire.NewController(single, func(s fire.Shot) { live = append(live, s) })
	rec := NewRecorder(single.Name)
	for i := range 120 {
		if i == 40 {
			c.SetMechanic(burst)
		}
		pressed := i == 1 || i == 60
		released := i == 2 || i == 61
		if pressed {
			c.OnTriggerPressed()
		}
		if released {
			c.OnTriggerReleased()
		}
		rec.Record(tick, pressed, released, c.Mechanic())
		c.Tick(tick, common.IdentityFrame())
	}

	var buf bytes.Buffer
	if err := Encode(&buf, rec.Log()); err != nil {
		t.Fatal(err)
	}
	decoded, err := Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Swaps() != 2 || decoded.Frames[40].Mechanic == nil || decoded.Frames[40].Mechanic.Name != "burst" {
		t.Fatalf("expected swaps at frames 0 and 40, got %d", decoded.Swaps())
	}

	var replayed []fire.Shot
	replayC := fire.NewController(weapon.NewMechanic(1), nil)
	n := Play(decoded, replayC, common.IdentityFrame(), func(s fire.Shot) { replayed = append(replayed, s) })
	if n != len(live) || len(replayed) != len(live) {
		t.Fatalf("replay diverged: live=%d replay=%d", len(live), len(replayed))
	}
	for i := range live {
		if live[i] != replayed[i] {
			t.Fatalf("shot %d differs: live=%+v replay=%+v", i, live[i], replayed[i])
		}
	}
	if replayC.Mechanic().Name != "burst" || replayC.Mechanic().ShotMultiplier() != 3 {
		t.Fatalf("replay should end on the swapped mechanic, got %s", replayC.Mechanic())
	}
}

func TestDecodeRejectsUnknownVersion(t *testing.T) {
	data, err := msgpack.Marshal(&Log{Version: Version + 1})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Decode(bytes.NewReader(data)); !errors.Is(err, ErrUnsupportedVersion) {
		t.Fatalf("expected ErrUnsupportedVersion, got %v", err)
	}
}

func TestRecorderLogIsCopy(t *testing.T) {
	rec := NewRecorder("copy")
	rec.Record(time.Millisecond, true, false, nil)
	snap := rec.Log()
	rec.Record(time.Millisecond, false, true, nil)

	if len(snap.Frames) != 1 || rec.Len() != 2 {
		t.Fatalf("snapshot should not see later frames: snap=%d rec=%d", len(snap.Frames), rec.Len())
	}
}
