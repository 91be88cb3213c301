package pointer

import (
	"sync"

	"diesel.com/elastic/elastic"
	"diesel.com/elastic/geometry"
	V "diesel.com/elastic/vector"
	"github.com/sirupsen/logrus"
)

//HitOffset lifts the contact off the surface along the hit normal so the
//pressed vertex is pushed inward
const HitOffset = 0.1

//Target is the hit-testable view of a body
type Target interface {
	Collider() *geometry.Collider
	Transform() elastic.Transform
}

//Source turns the mouse into contacts. Cursor and button state are written by
//window callbacks and read by the frame driver.
type Source struct {
	ID int //Contact id reported for the cursor

	mu      sync.Mutex
	camera  Camera
	target  Target
	x, y    float64
	pressed bool
	log     *logrus.Entry
}

func NewSource(camera *Camera, target Target) *Source {
	return &Source{
		camera: *camera,
		target: target,
		log:    logrus.StandardLogger().WithField("component", "pointer"),
	}
}

func (s *Source) SetCursor(x float64, y float64) {
	s.mu.Lock()
	s.x, s.y = x, y
	s.mu.Unlock()
}

func (s *Source) SetPressed(pressed bool) {
	s.mu.Lock()
	s.pressed = pressed
	s.mu.Unlock()
}

func (s *Source) SetViewport(width int, height int) {
	s.mu.Lock()
	s.camera.Width, s.camera.Height = width, height
	s.mu.Unlock()
}

func (s *Source) Camera() Camera {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.camera
}

//Contacts returns the cursor contact while the button is held over the body
func (s *Source) Contacts() []elastic.Contact {
	s.mu.Lock()
	cam, x, y, pressed := s.camera, s.x, s.y, s.pressed
	s.mu.Unlock()
	if !pressed {
		return nil
	}

	origin, dir, err := cam.Ray(x, y)
	if err != nil {
		s.log.WithError(err).Debug("no cursor ray")
		return nil
	}
	p, ok := Pick(s.target, origin, dir)
	if !ok {
		return nil
	}
	return []elastic.Contact{{ID: s.ID, Position: p}}
}

//Pick raycasts a world space ray against the target's collider and returns the
//offset contact point in world space
func Pick(target Target, origin V.Vec32, dir V.Vec32) (V.Vec32, bool) {
	collider := target.Collider()
	if collider == nil {
		return V.Vec32{}, false
	}
	tr := target.Transform()
	localOrigin := tr.InverseTransformPoint(origin)
	localDir := tr.InverseTransformVector(dir)

	hit, ok := collider.Raycast(localOrigin, localDir, 0)
	if !ok {
		return V.Vec32{}, false
	}
	contact := V.Add(hit.Point, V.Scale(hit.Normal, HitOffset))
	return tr.TransformPoint(contact), true
}
