package system

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/spreadfire/ecs"
	"github.com/milk9111/spreadfire/ecs/component"
	"github.com/milk9111/spreadfire/fire"
	"github.com/milk9111/spreadfire/loadout"
	"github.com/milk9111/spreadfire/prefabs"
	"github.com/milk9111/spreadfire/replay"
	"github.com/milk9111/spreadfire/weapon"
)

const tick = 10 * time.Millisecond

func newShooter(t *testing.T, w *ecs.World, m *weapon.Mechanic) (ecs.Entity, *component.Input) {
	t.Helper()
	e := ecs.CreateEntity(w)
	input := &component.Input{}
	must(t, ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{}))
	must(t, ecs.Add(w, e, component.InputComponent.Kind(), input))
	must(t, ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{}))
	must(t, ecs.Add(w, e, component.WeaponComponent.Kind(), &component.Weapon{
		Controller: fire.NewController(m, nil),
		Muzzle:     mgl64.Vec3{10, 0, 0},
		Projectile: component.ProjectileStats{Speed: 100, Lifetime: 500 * time.Millisecond, Radius: 2},
	}))
	return e, input
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}

func countProjectiles(w *ecs.World) int {
	n := 0
	ecs.ForEach(w, component.ProjectileComponent.Kind(), func(ecs.Entity, *component.Projectile) { n++ })
	return n
}

// pressOnce sets the pressed edge for one tick.
type pressOnce struct {
	input *component.Input
	at    uint64
}

func (p *pressOnce) Update(w *ecs.World) {
	p.input.FirePressed = w.Tick() == p.at
	p.input.FireReleased = w.Tick() == p.at+1
}

func TestWeaponSystemSpawnsProjectiles(t *testing.T) {
	w := ecs.NewWorld()
	shooter, input := newShooter(t, w, weapon.DefaultMechanic())
	sched := ecs.NewScheduler(&pressOnce{input: input}, NewWeaponSystem())

	var spawnTick uint64
	for range 10 {
		sched.Step(w, tick)
		if spawnTick == 0 && countProjectiles(w) > 0 {
			spawnTick = w.Tick()
		}
	}
	if spawnTick != 7 {
		t.Fatalf("spawn tick: got %d want 7", spawnTick)
	}
	if n := countProjectiles(w); n != 1 {
		t.Fatalf("projectiles: got %d want 1", n)
	}

	events := w.Events().Drain()
	if len(events) != 1 || events[0].Type != ecs.EventShot {
		t.Fatalf("expected one shot event, got %v", events)
	}
	shot := events[0].Data.(ecs.ShotEvent)
	if shot.Shooter != shooter {
		t.Fatalf("shooter: got %s want %s", shot.Shooter, shooter)
	}
	tr, ok := ecs.Get(w, shot.Projectile, component.TransformComponent.Kind())
	if !ok || !near(tr.Position, mgl64.Vec3{10, 0, 0}) {
		t.Fatalf("projectile should start at muzzle, got %v", tr)
	}
	p, _ := ecs.Get(w, shot.Projectile, component.ProjectileComponent.Kind())
	if p.Owner != uint64(shooter) || p.Speed != 100 {
		t.Fatalf("projectile stats not copied: %+v", p)
	}
}

func TestWeaponSystemRecordsReplay(t *testing.T) {
	w := ecs.NewWorld()
	_, input := newShooter(t, w, weapon.NewMechanic(2))
	ws := NewWeaponSystem()
	ws.Recorder = replay.NewRecorder("default")
	sched := ecs.NewScheduler(&pressOnce{input: input}, ws)

	for range 30 {
		sched.Step(w, tick)
	}
	live := countProjectiles(w)

	log := ws.Recorder.Log()
	if len(log.Frames) != 30 || !log.Frames[0].Pressed || !log.Frames[1].Released {
		t.Fatalf("unexpected recording: %+v", log.Frames[:2])
	}
	n := replay.Play(log, fire.NewController(weapon.NewMechanic(2), nil), (&component.Transform{}).Frame(mgl64.Vec3{10, 0, 0}), nil)
	if n != live {
		t.Fatalf("replay spawned %d, live spawned %d", n, live)
	}
}

func TestProjectileSystemMovesAndExpires(t *testing.T) {
	w := ecs.NewWorld()
	e := SpawnProjectile(w, 0, fire.Shot{Direction: mgl64.Vec3{0, 1, 0}}, component.ProjectileStats{Speed: 100, Lifetime: 50 * time.Millisecond})
	sched := ecs.NewScheduler(NewProjectileSystem())

	sched.Step(w, tick)
	tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok || !near(tr.Position, mgl64.Vec3{0, 1, 0}) {
		t.Fatalf("position after one tick: %v", tr)
	}

	for range 3 {
		sched.Step(w, tick)
	}
	if !w.IsAlive(e) {
		t.Fatalf("projectile expired early")
	}
	sched.Step(w, tick)
	if w.IsAlive(e) {
		t.Fatalf("projectile should expire once age reaches lifetime")
	}
}

func TestPhysicsSystemResolvesHits(t *testing.T) {
	w := ecs.NewWorld()
	w.SetPhysicsWorld(ecs.NewPhysicsWorld())

	target := ecs.CreateEntity(w)
	must(t, ecs.Add(w, target, component.TransformComponent.Kind(), &component.Transform{Position: mgl64.Vec3{30, 0, 0}}))
	must(t, ecs.Add(w, target, component.TargetComponent.Kind(), &component.Target{}))
	must(t, ecs.Add(w, target, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{Radius: 5, Static: true}))

	proj := SpawnProjectile(w, 0, fire.Shot{Direction: mgl64.Vec3{1, 0, 0}}, component.ProjectileStats{Speed: 1000, Lifetime: time.Second, Radius: 1})
	sched := ecs.NewScheduler(NewProjectileSystem(), NewPhysicsSystem())

	for range 5 {
		sched.Step(w, tick)
	}
	if w.IsAlive(proj) {
		t.Fatalf("projectile should be consumed by the hit")
	}
	tg, _ := ecs.Get(w, target, component.TargetComponent.Kind())
	if tg.Hits != 1 {
		t.Fatalf("hits: got %d want 1", tg.Hits)
	}
	var hits int
	for _, evt := range w.Events().Drain() {
		if evt.Type == ecs.EventHit {
			hits++
		}
	}
	if hits != 1 {
		t.Fatalf("hit events: got %d want 1", hits)
	}
}

func TestAimSystemClampsPitchAndWrapsYaw(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	tr := &component.Transform{}
	must(t, ecs.Add(w, e, component.TransformComponent.Kind(), tr))
	must(t, ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{YawRate: 100, PitchRate: 100}))

	sched := ecs.NewScheduler(NewAimSystem())
	sched.Step(w, 2*time.Second)

	if tr.Rotation.Pitch != 89 {
		t.Fatalf("pitch: got %v want 89", tr.Rotation.Pitch)
	}
	if tr.Rotation.Yaw != -160 {
		t.Fatalf("yaw: got %v want -160", tr.Rotation.Yaw)
	}
}

func TestInputSystemOnlyDrivesPlayer(t *testing.T) {
	w := ecs.NewWorld()
	_, playerInput := newShooter(t, w, nil)
	other := ecs.CreateEntity(w)
	otherInput := &component.Input{}
	must(t, ecs.Add(w, other, component.InputComponent.Kind(), otherInput))

	sys := &InputSystem{Poll: func() component.Input { return component.Input{FirePressed: true, YawRate: 5} }}
	ecs.NewScheduler(sys).Step(w, tick)

	if !playerInput.FirePressed || playerInput.YawRate != 5 {
		t.Fatalf("player input not written: %+v", playerInput)
	}
	if otherInput.FirePressed {
		t.Fatalf("non-player input should be untouched")
	}
}

func TestPresetSystemSelectAndLoadout(t *testing.T) {
	prev := prefabs.Root
	prefabs.Root = t.TempDir()
	t.Cleanup(func() { prefabs.Root = prev })

	w := ecs.NewWorld()
	_, input := newShooter(t, w, nil)
	wp, _ := ecs.Get(w, mustFirst(t, w), component.WeaponComponent.Kind())
	store := loadout.New(nil)
	sched := ecs.NewScheduler(NewPresetSystem(nil, store))

	names, err := prefabs.WeaponNames()
	if err != nil {
		t.Fatal(err)
	}
	idx := -1
	for i, n := range names {
		if n == "shotgun" {
			idx = i + 1
		}
	}
	if idx < 0 {
		t.Fatalf("shotgun preset missing from %v", names)
	}

	*input = component.Input{SelectPreset: idx}
	sched.Step(w, tick)
	if wp.Preset != "shotgun" || wp.Controller.Mechanic().ActiveCells() != 5 {
		t.Fatalf("select did not install shotgun: %s", wp.Controller.Mechanic())
	}

	*input = component.Input{SaveSlot: 3}
	sched.Step(w, tick)

	*input = component.Input{SelectPreset: 1}
	sched.Step(w, tick)
	if wp.Preset == "shotgun" {
		t.Fatalf("expected a different preset after selecting index 1")
	}

	*input = component.Input{LoadSlot: 3}
	sched.Step(w, tick)
	if wp.Preset != "shotgun" || wp.Slot != 3 || wp.Controller.Mechanic().ActiveCells() != 5 {
		t.Fatalf("load slot did not restore shotgun: %s", wp.Controller.Mechanic())
	}
}

func countReloads(w *ecs.World) int {
	n := 0
	for _, evt := range w.Events().Drain() {
		if evt.Type == ecs.EventReload {
			n++
		}
	}
	return n
}

func TestPresetSystemSkipsUnchangedPresetFiles(t *testing.T) {
	dir := t.TempDir()
	prev := prefabs.Root
	prefabs.Root = dir
	t.Cleanup(func() { prefabs.Root = prev })
	must(t, os.MkdirAll(filepath.Join(dir, "weapons"), 0o755))
	file := filepath.Join(dir, "weapons", "default.yaml")
	must(t, os.WriteFile(file, []byte("name: default\nshot_multiplier: 4\n"), 0o644))

	w := ecs.NewWorld()
	newShooter(t, w, nil)
	wp, _ := ecs.Get(w, mustFirst(t, w), component.WeaponComponent.Kind())
	wp.Preset = "default"

	watcher := &prefabs.Watcher{Events: make(chan prefabs.Change, 4)}
	sched := ecs.NewScheduler(NewPresetSystem(watcher, nil))
	change := prefabs.Change{Path: file, Kind: prefabs.ChangeWeapon}

	watcher.Events <- change
	sched.Step(w, tick)
	if n := countReloads(w); n != 1 || wp.Controller.Mechanic().ShotMultiplier() != 4 {
		t.Fatalf("first change: reloads=%d mechanic=%s", n, wp.Controller.Mechanic())
	}

	watcher.Events <- change
	sched.Step(w, tick)
	if n := countReloads(w); n != 0 {
		t.Fatalf("unchanged file should not reload, got %d reloads", n)
	}

	must(t, os.WriteFile(file, []byte("name: default\nshot_multiplier: 2\n"), 0o644))
	later := time.Now().Add(time.Minute)
	must(t, os.Chtimes(file, later, later))
	watcher.Events <- change
	sched.Step(w, tick)
	if n := countReloads(w); n != 1 || wp.Controller.Mechanic().ShotMultiplier() != 2 {
		t.Fatalf("edited file: reloads=%d mechanic=%s", n, wp.Controller.Mechanic())
	}
}

func mustFirst(t *testing.T, w *ecs.World) ecs.Entity {
	t.Helper()
	e, ok := w.First(component.WeaponComponent.Kind())
	if !ok {
		t.Fatal("no weapon entity")
	}
	return e
}

// near compares by absolute distance.
func near(a, b mgl64.Vec3) bool {
	return a.Sub(b).Len() < 1e-9
}
