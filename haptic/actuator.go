package haptic

import "github.com/charmbracelet/harmonica"

//Actuator models the mechanical response of the finger actuators: each
//output follows its finger's pressure through a damped spring, stepped at a
//fixed device rate
type Actuator struct {
	hand   *Hand
	spring harmonica.Spring
	pos    []float64
	vel    []float64
}

//NewActuator drives the fingers of hand at fps updates per second
func NewActuator(hand *Hand, fps int, frequency float64, damping float64) *Actuator {
	n := hand.Len()
	return &Actuator{
		hand:   hand,
		spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping),
		pos:    make([]float64, n),
		vel:    make([]float64, n),
	}
}

//Step advances every actuator one device tick and returns the outputs. The
//slice is reused by the next Step.
func (a *Actuator) Step() []float64 {
	for i, f := range a.hand.Snapshot() {
		target := 0.0
		if f.Pressed {
			target = float64(f.Pressure)
		}
		a.pos[i], a.vel[i] = a.spring.Update(a.pos[i], a.vel[i], target)
	}
	return a.pos
}

//Output is the last output of finger id
func (a *Actuator) Output(id int) float64 {
	if id < 0 || id >= len(a.pos) {
		return 0
	}
	return a.pos[id]
}

//Peak is the largest output
func (a *Actuator) Peak() float64 {
	var max float64
	for _, p := range a.pos {
		if p > max {
			max = p
		}
	}
	return max
}
