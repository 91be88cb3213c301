package elastic

import (
	"math"
	"testing"

	"diesel.com/elastic/geometry"
	V "diesel.com/elastic/vector"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

func near(a, b, eps float32) bool {
	return math.Abs(float64(a-b)) <= float64(eps)
}

func TestPressureGrowsUnderRepeatedContact(t *testing.T) {
	b := newSphereBody(t, DefaultParams())
	contact := V.Vec32{0, 1.1, 0} //Just outside the north pole

	prev := float32(-1)
	for i := 0; i < 30; i++ {
		b.SetFrameTime(frame)
		p := b.ApplyContact(0, contact)
		if math.IsNaN(float64(p)) || math.IsInf(float64(p), 0) || p < 0 {
			t.Fatalf("Frame %d: invalid pressure %f", i, p)
		}
		if p < prev {
			t.Fatalf("Frame %d: pressure dropped from %f to %f", i, prev, p)
		}
		if i >= 2 && p <= prev {
			t.Fatalf("Frame %d: pressure did not grow (%f)", i, p)
		}
		if p > 1 {
			t.Fatalf("Frame %d: pressure out of range %f", i, p)
		}
		prev = p
		if err := b.Tick(frame); err != nil {
			t.Fatalf("Tick failed: %s", err)
		}
	}
}

func TestPressureFormula(t *testing.T) {
	b := newSphereBody(t, DefaultParams())
	b.positions[0] = V.Vec32{0, 0.8, 0}

	b.SetFrameTime(0)
	p := b.ApplyContact(0, V.Vec32{0, 0.8, 0})

	//|0.2|^2 * 5 / (1 * 20)
	want := float32(0.04 * 5 / 20.0)
	if !near(p, want, 1e-6) {
		t.Errorf("Pressure %f, expected %f", p, want)
	}

	b.restRefSqr = 0
	if p := b.ApplyContact(0, V.Vec32{0, 0.8, 0}); p != 0 {
		t.Errorf("Zero reference should report 0, got %f", p)
	}
}

func TestAttenuationFalloff(t *testing.T) {
	const A = 15
	low := DefaultParams()
	low.Attenuation = A
	high := low
	high.Attenuation = 2 * A

	contact := V.Vec32{0, 1.1, 0}
	speeds := make([]float32, 2)
	for k, p := range []Params{low, high} {
		b := newSphereBody(t, p)
		b.SetFrameTime(frame)
		b.ApplyContact(0, contact)

		//A vertex well away from the contact
		last := b.VertexCount() - 1
		v := b.Velocity(last)
		speeds[k] = v.Length()
	}
	if speeds[1] >= speeds[0] {
		t.Errorf("Doubling attenuation should weaken the push: %g >= %g", speeds[1], speeds[0])
	}
	if speeds[1] == 0 {
		t.Errorf("Distant vertex should still move")
	}
}

func TestZeroAttenuationIsUniform(t *testing.T) {
	p := DefaultParams()
	p.Attenuation = 0
	b := newSphereBody(t, p)
	b.SetFrameTime(frame)
	b.ApplyContact(0, V.Vec32{0, 3, 0})

	want := p.Power * frame
	for i := 0; i < b.VertexCount(); i++ {
		v := b.Velocity(i)
		if !near(v.Length(), want, 1e-6) {
			t.Fatalf("Vertex %d speed %f, expected %f", i, v.Length(), want)
		}
	}
}

func TestCoincidentContactIsFinite(t *testing.T) {
	b := newSphereBody(t, DefaultParams())
	b.SetFrameTime(frame)

	target := b.Position(5)
	p := b.ApplyContact(0, target)
	if math.IsNaN(float64(p)) {
		t.Fatalf("Pressure is NaN")
	}
	if !finite(b.Velocity(5)) {
		t.Errorf("Coincident vertex velocity %v", b.Velocity(5))
	}
	if b.Velocity(5) != (V.Vec32{}) {
		t.Errorf("Coincident vertex should get no push, got %v", b.Velocity(5))
	}
	for i := 0; i < b.VertexCount(); i++ {
		if !finite(b.Velocity(i)) {
			t.Fatalf("Vertex %d velocity not finite", i)
		}
	}
}

func TestNearestTieBreak(t *testing.T) {
	mesh := &geometry.Mesh{
		Vertexes: []V.Vec32{{2, 0, 0}, {1, 0, 0}, {-1, 0, 0}, {0, 0, 4}},
		Normals:  []V.Vec32{{1, 0, 0}, {1, 0, 0}, {-1, 0, 0}, {0, 0, 1}},
		Indices:  []uint32{1, 2, 3},
	}
	b, err := New(mesh, DefaultParams(), WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("New failed: %s", err)
	}

	b.ApplyContact(7, V.Vec32{})
	if got := b.held[7]; got != 1 {
		t.Errorf("Equidistant vertices 1 and 2 should pick 1, got %d", got)
	}

	b.ApplyContact(7, V.Vec32{0.5, 0, 0})
	if got := b.held[7]; got != 1 {
		t.Errorf("Nearest should be 1, got %d", got)
	}
}

func TestContactUsesLocalSpace(t *testing.T) {
	tr, err := NewTransform(V.Vec32{10, 0, 0}, mgl32.QuatIdent(), V.Vec32{1, 1, 1})
	if err != nil {
		t.Fatalf("NewTransform failed: %s", err)
	}
	moved := newSphereBody(t, DefaultParams(), WithTransform(tr))
	local := newSphereBody(t, DefaultParams())

	moved.SetFrameTime(frame)
	local.SetFrameTime(frame)
	moved.ApplyContact(0, V.Vec32{10, 1.1, 0})
	local.ApplyContact(0, V.Vec32{0, 1.1, 0})

	if moved.held[0] != 0 {
		t.Errorf("Nearest vertex should be the pole, got %d", moved.held[0])
	}
	for i := 0; i < local.VertexCount(); i++ {
		if !V.NearEquals(moved.Velocity(i), local.Velocity(i), 1e-5) {
			t.Fatalf("Vertex %d: %v vs %v", i, moved.Velocity(i), local.Velocity(i))
		}
	}
}

func TestHeldContactResampled(t *testing.T) {
	sink := newRecordingSink()
	b := newSphereBody(t, DefaultParams(), WithPressureSink(sink))

	b.SetFrameTime(frame)
	first := b.ApplyContact(3, V.Vec32{0, 1.1, 0})
	if sink.pressure[3] != first {
		t.Errorf("Sink got %f, contact returned %f", sink.pressure[3], first)
	}

	if err := b.Tick(frame); err != nil {
		t.Fatalf("Tick failed: %s", err)
	}
	if got, want := sink.pressure[3], b.pressureAt(0); got != want || got <= first {
		t.Errorf("Held pressure %f, expected refreshed %f above %f", got, want, first)
	}
	if held := b.Held(); len(held) != 1 || held[0] != 3 {
		t.Errorf("Held ids %v", held)
	}

	b.Release(3)
	if len(sink.released) != 1 || sink.released[0] != 3 {
		t.Errorf("Release not forwarded: %v", sink.released)
	}
	sets := sink.sets
	b.Tick(frame)
	if sink.sets != sets {
		t.Errorf("Released contact still sampled")
	}

	//Unknown ids are ignored
	b.Release(99)
	if len(sink.released) != 1 {
		t.Errorf("Unknown release forwarded")
	}
}

func TestDriverOrdersFrame(t *testing.T) {
	sink := newRecordingSink()
	pub := &countingPublisher{}
	b := newSphereBody(t, DefaultParams(), WithPressureSink(sink), WithPublisher(pub))

	var contacts []Contact
	d := NewDriver(b, ContactsFunc(func() []Contact { return contacts }))

	contacts = []Contact{{ID: 1, Position: V.Vec32{0, 1.1, 0}}, {ID: 2, Position: V.Vec32{0, -1.1, 0}}}
	if err := d.Step(frame); err != nil {
		t.Fatalf("Step failed: %s", err)
	}
	if b.FrameTime() != frame {
		t.Errorf("Frame time not set")
	}
	if held := b.Held(); len(held) != 2 {
		t.Errorf("Expected two held contacts, got %v", held)
	}
	if pub.calls != 1 {
		t.Errorf("Expected one publish, got %d", pub.calls)
	}

	contacts = contacts[:1]
	if err := d.Step(frame); err != nil {
		t.Fatalf("Step failed: %s", err)
	}
	if len(sink.released) != 1 || sink.released[0] != 2 {
		t.Errorf("Contact 2 should be released, got %v", sink.released)
	}

	contacts = nil
	d.Step(frame)
	if len(b.Held()) != 0 {
		t.Errorf("All contacts should be released")
	}

	if d.Frames != 3 || !near(float32(d.Timer.T), 3*frame, 1e-6) || d.Timer.TS != float64(frame) {
		t.Errorf("Timer %+v after %d frames", d.Timer, d.Frames)
	}
}

func TestDriverRejectsBadInput(t *testing.T) {
	b := newSphereBody(t, DefaultParams())
	bad := []Contact{{ID: 0, Position: V.Vec32{float32(math.NaN()), 0, 0}}}
	d := NewDriver(b, ContactsFunc(func() []Contact { return bad }))

	if err := d.Step(frame); errors.Cause(err) != ErrInvalidContact {
		t.Errorf("Expected ErrInvalidContact, got %v", err)
	}
	for i := 0; i < b.VertexCount(); i++ {
		if !finite(b.Velocity(i)) {
			t.Fatalf("Bad contact leaked into vertex %d", i)
		}
	}

	d.Source = nil
	if err := d.Step(-1); errors.Cause(err) != ErrInvalidStep {
		t.Errorf("Expected ErrInvalidStep, got %v", err)
	}
	if err := d.Step(frame); err != nil {
		t.Errorf("Step without source failed: %s", err)
	}
}

func TestContactBeforeFrameTime(t *testing.T) {
	sink := newRecordingSink()
	b := newSphereBody(t, DefaultParams(), WithPressureSink(sink))

	if p := b.ApplyContact(0, V.Vec32{0, 1.1, 0}); p != 0 {
		t.Errorf("No frame time yet, expected pressure 0, got %f", p)
	}
	for i := 0; i < b.VertexCount(); i++ {
		if b.Velocity(i) != (V.Vec32{}) {
			t.Fatalf("Vertex %d moved without a frame time", i)
		}
	}

	b.SetFrameTime(frame)
	b.ApplyContact(0, V.Vec32{0, 1.1, 0})
	if b.Velocity(1) == (V.Vec32{}) {
		t.Errorf("Contact should push once the frame time is set")
	}
}

func TestHeldContactSampledTwicePerFrame(t *testing.T) {
	sink := newRecordingSink()
	b := newSphereBody(t, DefaultParams(), WithPressureSink(sink))
	d := NewDriver(b, ContactsFunc(func() []Contact {
		return []Contact{{ID: 0, Position: V.Vec32{0, 1.1, 0}}}
	}))

	for i := 0; i < 3; i++ {
		if err := d.Step(frame); err != nil {
			t.Fatalf("Step failed: %s", err)
		}
	}
	if sink.sets != 6 {
		t.Errorf("Expected 2 samples per frame, got %d over 3 frames", sink.sets)
	}
	if want := b.pressureAt(b.held[0]); sink.pressure[0] != want {
		t.Errorf("Final sample should follow the tick: %f, expected %f", sink.pressure[0], want)
	}
}
