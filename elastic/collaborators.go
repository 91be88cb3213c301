package elastic

import (
	"diesel.com/elastic/geometry"
	V "diesel.com/elastic/vector"
)

//Publisher receives the committed geometry of a deforming body. Each call
//carries one complete snapshot; the mesh's Indices and UVs are shared with the
//body and must be treated as read-only.
type Publisher interface {
	Publish(mesh *geometry.Mesh, collider *geometry.Collider) error
}

//PublisherFunc adapts a function to Publisher
type PublisherFunc func(mesh *geometry.Mesh, collider *geometry.Collider) error

func (f PublisherFunc) Publish(mesh *geometry.Mesh, collider *geometry.Collider) error {
	return f(mesh, collider)
}

//PressureSink consumes the pressure signal per contact (finger) id. A held id
//gets two values per frame: the sample taken by ApplyContact, then the one
//taken after the Tick integrates. The second is the frame's final value.
type PressureSink interface {
	SetPressure(id int, pressure float32)
	Release(id int)
}

//Contact is a world space contact point for one frame
type Contact struct {
	ID       int
	Position V.Vec32
}

//ContactSource produces the contacts active in the current frame
type ContactSource interface {
	Contacts() []Contact
}

//ContactsFunc adapts a function to ContactSource
type ContactsFunc func() []Contact

func (f ContactsFunc) Contacts() []Contact {
	return f()
}
