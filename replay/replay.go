// Package replay records trigger edges and tick lengths so a firing session
// can be re-driven through a fresh controller with identical results.
package replay

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/milk9111/spreadfire/common"
	"github.com/milk9111/spreadfire/fire"
	"github.com/milk9111/spreadfire/prefabs"
	"github.com/milk9111/spreadfire/weapon"
	"github.com/vmihailenco/msgpack/v5"
)

const Version = 1

var ErrUnsupportedVersion = errors.New("replay: unsupported version")

// Frame is one simulation tick. DT is in nanoseconds. Mechanic is set on the
// first frame and on every frame where a different mechanic was installed; it
// takes effect before that frame's edges.
type Frame struct {
	DT       int64               `msgpack:"dt"`
	Pressed  bool                `msgpack:"pressed"`
	Released bool                `msgpack:"released"`
	Mechanic *prefabs.WeaponSpec `msgpack:"mechanic,omitempty"`
}

type Log struct {
	Version int     `msgpack:"version"`
	Preset  string  `msgpack:"preset"`
	Frames  []Frame `msgpack:"frames"`
}

// Duration returns the total simulated time in the log.
func (l *Log) Duration() time.Duration {
	if l == nil {
		return 0
	}
	var total time.Duration
	for _, f := range l.Frames {
		total += time.Duration(f.DT)
	}
	return total
}

// Recorder accumulates frames as they happen.
type Recorder struct {
	log  Log
	last *weapon.Mechanic
}

func NewRecorder(preset string) *Recorder {
	return &Recorder{log: Log{Version: Version, Preset: preset}}
}

// Record appends one tick. Call it with the same edges, dt and mechanic the
// controller saw that tick. A mechanic different from the previous tick's is
// captured in full so playback can install it at the same point.
func (r *Recorder) Record(dt time.Duration, pressed, released bool, m *weapon.Mechanic) {
	if r == nil {
		return
	}
	f := Frame{DT: int64(dt), Pressed: pressed, Released: released}
	if m != nil && m != r.last {
		f.Mechanic = prefabs.SpecFromMechanic(m)
		r.last = m
	}
	r.log.Frames = append(r.log.Frames, f)
}

// Swaps counts the frames that install a mechanic.
func (l *Log) Swaps() int {
	if l == nil {
		return 0
	}
	n := 0
	for _, f := range l.Frames {
		if f.Mechanic != nil {
			n++
		}
	}
	return n
}

// Len is the number of recorded ticks.
func (r *Recorder) Len() int {
	if r == nil {
		return 0
	}
	return len(r.log.Frames)
}

// Log returns a copy of what has been recorded so far.
func (r *Recorder) Log() *Log {
	if r == nil {
		return nil
	}
	out := r.log
	out.Frames = append([]Frame(nil), r.log.Frames...)
	return &out
}

func Encode(w io.Writer, l *Log) error {
	if l == nil {
		return fmt.Errorf("replay: encode: nil log")
	}
	if err := msgpack.NewEncoder(w).Encode(l); err != nil {
		return fmt.Errorf("replay: encode: %w", err)
	}
	return nil
}

func Decode(r io.Reader) (*Log, error) {
	var l Log
	if err := msgpack.NewDecoder(r).Decode(&l); err != nil {
		return nil, fmt.Errorf("replay: decode: %w", err)
	}
	if l.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, l.Version)
	}
	return &l, nil
}

func Save(path string, l *Log) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("replay: save %s: %w", path, err)
	}
	if err := Encode(f, l); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func Load(path string) (*Log, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("replay: load %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

// Play drives c through every frame of l from a fixed firing frame and
// returns the number of shots spawned. Recorded mechanics are installed
// first, then edges, then the tick, matching the order the game systems use.
func Play(l *Log, c *fire.Controller, frame common.Frame, spawn fire.SpawnFunc) int {
	if l == nil || c == nil {
		return 0
	}
	total := 0
	for i, f := range l.Frames {
		if f.Mechanic != nil {
			m, err := f.Mechanic.Build()
			if err != nil {
				log.Printf("replay: warning: frame %d: keeping %s: %v", i, c.Mechanic().Name, err)
			} else {
				c.SetMechanic(m)
			}
		}
		if f.Pressed {
			c.OnTriggerPressed()
		}
		if f.Released {
			c.OnTriggerReleased()
		}
		total += c.TickWith(time.Duration(f.DT), frame, spawn)
	}
	return total
}
