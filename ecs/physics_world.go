package ecs

import (
	"log"

	"github.com/jakecoffman/cp"
)

const (
	collisionTypeProjectile cp.CollisionType = iota + 1
	collisionTypeTarget
	collisionTypeShooter
)

// ContactKind identifies the role a shape plays in the range.
type ContactKind int

const (
	ContactProjectile ContactKind = iota
	ContactTarget
	ContactShooter
)

// Contact is a projectile touching a target, collected during a step.
type Contact struct {
	Projectile Entity
	Target     Entity
	X, Y       float64
}

// PhysicsWorld owns the Chipmunk space of the firing range. The range is the
// top-down XY plane with no gravity; projectile shapes are sensors so hits are
// reported without any collision response.
type PhysicsWorld struct {
	space         *cp.Space
	handlersReady bool

	shapeToEntity map[*cp.Shape]Entity
	entityShapes  map[Entity]*cp.Shape
	contacts      []Contact
}

func NewPhysicsWorld() *PhysicsWorld {
	space := cp.NewSpace()
	space.Iterations = 10
	space.SetGravity(cp.Vector{})

	pw := &PhysicsWorld{
		space:         space,
		shapeToEntity: make(map[*cp.Shape]Entity),
		entityShapes:  make(map[Entity]*cp.Shape),
	}
	pw.setupHandlers()
	return pw
}

// Space returns the underlying Chipmunk space.
func (pw *PhysicsWorld) Space() *cp.Space {
	if pw == nil {
		return nil
	}
	return pw.space
}

// AddCircle registers a circle for e. Projectiles get a dynamic sensor body
// the caller moves explicitly; targets and shooters are static.
func (pw *PhysicsWorld) AddCircle(e Entity, kind ContactKind, x, y, radius float64) (*cp.Body, *cp.Shape) {
	if pw == nil || pw.space == nil || !e.Valid() {
		return nil, nil
	}
	if radius <= 0 {
		radius = 1
	}
	pw.RemoveEntity(e)

	var body *cp.Body
	if kind == ContactProjectile {
		body = cp.NewBody(1, cp.MomentForCircle(1, 0, radius, cp.Vector{}))
		pw.space.AddBody(body)
	} else {
		body = cp.NewStaticBody()
		pw.space.AddBody(body)
	}
	body.SetPosition(cp.Vector{X: x, Y: y})

	shape := cp.NewCircle(body, radius, cp.Vector{})
	switch kind {
	case ContactProjectile:
		shape.SetSensor(true)
		shape.SetCollisionType(collisionTypeProjectile)
	case ContactTarget:
		shape.SetCollisionType(collisionTypeTarget)
	default:
		shape.SetCollisionType(collisionTypeShooter)
	}
	pw.space.AddShape(shape)

	pw.shapeToEntity[shape] = e
	pw.entityShapes[e] = shape
	return body, shape
}

// MoveTo places e's body at (x, y).
func (pw *PhysicsWorld) MoveTo(e Entity, x, y float64) {
	if pw == nil {
		return
	}
	shape := pw.entityShapes[e]
	if shape == nil || shape.Body() == nil {
		return
	}
	shape.Body().SetPosition(cp.Vector{X: x, Y: y})
	if shape.Body().GetType() == cp.BODY_STATIC {
		pw.space.ReindexShapesForBody(shape.Body())
	}
}

// RemoveEntity drops e's body and shape from the space.
func (pw *PhysicsWorld) RemoveEntity(e Entity) {
	if pw == nil || pw.space == nil {
		return
	}
	shape := pw.entityShapes[e]
	if shape == nil {
		return
	}
	body := shape.Body()
	pw.space.RemoveShape(shape)
	if body != nil {
		pw.space.RemoveBody(body)
	}
	delete(pw.entityShapes, e)
	delete(pw.shapeToEntity, shape)
}

// Bodies is the number of entities registered in the space.
func (pw *PhysicsWorld) Bodies() int {
	if pw == nil {
		return 0
	}
	return len(pw.entityShapes)
}

// Step advances the simulation by dt seconds.
func (pw *PhysicsWorld) Step(dt float64) {
	if pw == nil || pw.space == nil || dt <= 0 {
		return
	}
	pw.space.Step(dt)
}

// DrainContacts returns contacts gathered since the last call.
func (pw *PhysicsWorld) DrainContacts() []Contact {
	if pw == nil || len(pw.contacts) == 0 {
		return nil
	}
	out := pw.contacts
	pw.contacts = nil
	return out
}

func (pw *PhysicsWorld) setupHandlers() {
	if pw == nil || pw.handlersReady || pw.space == nil {
		return
	}

	hitHandler := pw.space.NewCollisionHandler(collisionTypeProjectile, collisionTypeTarget)
	hitHandler.UserData = pw
	hitHandler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		world, ok := userData.(*PhysicsWorld)
		if !ok || world == nil {
			return false
		}
		shapeA, shapeB := arb.Shapes()
		proj, okA := world.shapeToEntity[shapeA]
		target, okB := world.shapeToEntity[shapeB]
		if !okA || !okB {
			log.Printf("PhysicsWorld: contact with unregistered shape, ignoring")
			return false
		}
		pos := shapeA.Body().Position()
		world.contacts = append(world.contacts, Contact{Projectile: proj, Target: target, X: pos.X, Y: pos.Y})
		return false
	}

	pw.handlersReady = true
}
