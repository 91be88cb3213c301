package pointer

import (
	"math"
	"testing"

	"diesel.com/elastic/elastic"
	"diesel.com/elastic/geometry"
	V "diesel.com/elastic/vector"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus/hooks/test"
)

var _ elastic.ContactSource = (*Source)(nil)

func newBody(t *testing.T, position V.Vec32) *elastic.Body {
	tr, err := elastic.NewTransform(position, mgl32.QuatIdent(), V.Vec32{1, 1, 1})
	if err != nil {
		t.Fatalf("NewTransform failed: %s", err)
	}
	logger, _ := test.NewNullLogger()
	b, err := elastic.New(geometry.UVSphere(1, 12, 16), elastic.DefaultParams(),
		elastic.WithTransform(tr), elastic.WithLogger(logger.WithField("component", "elastic")))
	if err != nil {
		t.Fatalf("New failed: %s", err)
	}
	return b
}

func TestCameraCenterRay(t *testing.T) {
	cam := DefaultCamera(800, 600)
	origin, dir, err := cam.Ray(400, 300)
	if err != nil {
		t.Fatalf("Ray failed: %s", err)
	}
	if !V.NearEquals(dir, V.Vec32{0, 0, -1}, 1e-3) {
		t.Errorf("Center ray direction %v", dir)
	}
	if math.Abs(float64(origin[2]-(5-cam.Near))) > 1e-3 {
		t.Errorf("Ray should start on the near plane, got %v", origin)
	}

	//Top of the window looks up
	_, up, _ := cam.Ray(400, 0)
	if up[1] <= 0 {
		t.Errorf("Top row ray should point up, got %v", up)
	}

	cam.Width = 0
	if _, _, err := cam.Ray(0, 0); err == nil {
		t.Errorf("Empty viewport should fail")
	}
}

func TestSourcePressedOverBody(t *testing.T) {
	body := newBody(t, V.Vec32{})
	src := NewSource(DefaultCamera(800, 600), body)
	src.ID = 2

	src.SetCursor(403, 302)
	if c := src.Contacts(); c != nil {
		t.Errorf("No contact expected without a press, got %v", c)
	}

	src.SetPressed(true)
	contacts := src.Contacts()
	if len(contacts) != 1 {
		t.Fatalf("Expected one contact, got %d", len(contacts))
	}
	c := contacts[0]
	if c.ID != 2 {
		t.Errorf("Contact id %d", c.ID)
	}
	//Front of the unit sphere, lifted by the offset
	if c.Position[2] < 1.05 || c.Position[2] > 1.11 {
		t.Errorf("Contact should sit just outside the surface, got %v", c.Position)
	}
	if math.Abs(float64(c.Position[0])) > 0.05 || math.Abs(float64(c.Position[1])) > 0.05 {
		t.Errorf("Contact off center %v", c.Position)
	}

	src.SetCursor(5, 5)
	if c := src.Contacts(); c != nil {
		t.Errorf("Cursor off the body should not touch, got %v", c)
	}
}

func TestPickTransformedBody(t *testing.T) {
	body := newBody(t, V.Vec32{2, 0, 0})
	p, ok := Pick(body, V.Vec32{2.01, 0.02, 5}, V.Vec32{0, 0, -1})
	if !ok {
		t.Fatalf("Ray toward the moved body should hit")
	}
	if math.Abs(float64(p[0]-2.01)) > 0.02 || p[2] < 1.05 || p[2] > 1.11 {
		t.Errorf("Contact %v not in front of the moved body", p)
	}

	if _, ok := Pick(body, V.Vec32{0, 0, 5}, V.Vec32{0, 0, -1}); ok {
		t.Errorf("Ray through the old position should miss")
	}
}

func TestSourceDrivesBody(t *testing.T) {
	body := newBody(t, V.Vec32{})
	src := NewSource(DefaultCamera(640, 480), body)
	src.SetViewport(800, 600)
	if cam := src.Camera(); cam.Width != 800 || cam.Height != 600 {
		t.Fatalf("Viewport not updated")
	}
	src.SetCursor(403, 302)
	src.SetPressed(true)

	d := elastic.NewDriver(body, src)
	for i := 0; i < 3; i++ {
		if err := d.Step(1.0 / 60.0); err != nil {
			t.Fatalf("Step failed: %s", err)
		}
	}
	if !body.Deformed() {
		t.Errorf("Held cursor should deform the body")
	}
	if held := body.Held(); len(held) != 1 || held[0] != 0 {
		t.Errorf("Held ids %v", held)
	}

	src.SetPressed(false)
	d.Step(1.0 / 60.0)
	if len(body.Held()) != 0 {
		t.Errorf("Releasing the button should release the contact")
	}
}
