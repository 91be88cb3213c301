package elastic

import (
	"sort"

	V "diesel.com/elastic/vector"
	"github.com/pkg/errors"
)

//Timer accumulates simulated time. TS is the last step.
type Timer struct {
	T        float64
	TS       float64
	TIMELAST float64
}

func (t *Timer) StepTime(dt float64) {
	t.TIMELAST = t.T
	t.TS = dt
	t.T = t.T + dt
}

//Driver runs one frame of a Body in the required order: frame time, contacts,
//releases, tick.
type Driver struct {
	Body   *Body
	Source ContactSource //Optional
	Timer  Timer
	Frames int

	active map[int]bool
}

func NewDriver(body *Body, source ContactSource) *Driver {
	return &Driver{Body: body, Source: source, active: make(map[int]bool)}
}

//Step advances the body by dt seconds. Contacts are applied in the order the
//source returns them; ids seen last frame and missing now are released.
func (d *Driver) Step(dt float32) error {
	if d.Body == nil {
		return errors.New("elastic: driver has no body")
	}
	if d.active == nil {
		d.active = make(map[int]bool)
	}
	if err := d.Body.SetFrameTime(dt); err != nil {
		return err
	}

	seen := make(map[int]bool, len(d.active))
	if d.Source != nil {
		for _, c := range d.Source.Contacts() {
			if !V.IsFinite(c.Position) {
				return errors.Wrapf(ErrInvalidContact, "contact %d at %v", c.ID, c.Position)
			}
			d.Body.ApplyContact(c.ID, c.Position)
			seen[c.ID] = true
		}
	}

	var ended []int
	for id := range d.active {
		if !seen[id] {
			ended = append(ended, id)
		}
	}
	sort.Ints(ended)
	for _, id := range ended {
		d.Body.Release(id)
	}
	d.active = seen

	if err := d.Body.Tick(dt); err != nil {
		return errors.Wrapf(err, "frame %d", d.Frames)
	}
	d.Timer.StepTime(float64(dt))
	d.Frames++
	return nil
}
