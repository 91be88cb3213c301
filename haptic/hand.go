package haptic

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

//DefaultFingers is the finger count of a glove controller
const DefaultFingers = 5

//Finger is the pressure state of one actuator
type Finger struct {
	Pressed  bool
	Pressure float32
	Updated  time.Time
}

//Hand consumes the pressure signal of a deformable body. Writes come from the
//frame thread; readers such as a device driver may poll from other goroutines.
type Hand struct {
	mu      sync.RWMutex
	fingers []Finger
	now     func() time.Time
	log     *logrus.Entry
}

func NewHand(fingers int) *Hand {
	if fingers <= 0 {
		fingers = DefaultFingers
	}
	return &Hand{
		fingers: make([]Finger, fingers),
		now:     time.Now,
		log:     logrus.StandardLogger().WithField("component", "haptic"),
	}
}

//SetLogger replaces the default standard logger entry
func (h *Hand) SetLogger(log *logrus.Entry) {
	if log != nil {
		h.log = log
	}
}

func (h *Hand) Len() int {
	return len(h.fingers)
}

//SetPressure presses finger id with the given pressure
func (h *Hand) SetPressure(id int, pressure float32) {
	if !h.valid(id) {
		return
	}
	h.mu.Lock()
	f := &h.fingers[id]
	f.Pressed = true
	f.Pressure = pressure
	f.Updated = h.now()
	h.mu.Unlock()
}

//Release lifts finger id
func (h *Hand) Release(id int) {
	if !h.valid(id) {
		return
	}
	h.mu.Lock()
	h.fingers[id] = Finger{Updated: h.now()}
	h.mu.Unlock()
}

func (h *Hand) valid(id int) bool {
	if id >= 0 && id < len(h.fingers) {
		return true
	}
	h.log.WithFields(logrus.Fields{
		"finger":  id,
		"fingers": len(h.fingers),
	}).Warn("pressure for unknown finger ignored")
	return false
}

//Finger returns the state of finger id, false when out of range
func (h *Hand) Finger(id int) (Finger, bool) {
	if id < 0 || id >= len(h.fingers) {
		return Finger{}, false
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.fingers[id], true
}

//Snapshot copies every finger
func (h *Hand) Snapshot() []Finger {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Finger, len(h.fingers))
	copy(out, h.fingers)
	return out
}

//Max is the highest pressure over pressed fingers
func (h *Hand) Max() float32 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	var max float32
	for _, f := range h.fingers {
		if f.Pressed && f.Pressure > max {
			max = f.Pressure
		}
	}
	return max
}
