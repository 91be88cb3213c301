package elastic

import (
	"math"

	V "diesel.com/elastic/vector"
)

//ApplyContact pushes every vertex away from a world space contact point and
//returns the pressure at the vertex nearest to it. The impulse falls off with
//the squared distance: power / (1 + d^2 * attenuation)^2, scaled by the frame
//time set by SetFrameTime or the last Tick. Before either the frame time is 0
//and the contact moves nothing. The id is held until Release so its pressure
//is refreshed each tick.
func (b *Body) ApplyContact(id int, world V.Vec32) float32 {
	local := b.transform.InverseTransformPoint(world)
	power := b.params.Power
	attenuation := b.params.Attenuation
	dt := b.frameTime

	nearest := 0
	minDist := float32(math.MaxFloat32)
	for i := 0; i < b.count; i++ {
		diff := V.Sub(b.positions[i], local)
		distSqr := diff.SqrLength()

		//Strict compare, ties keep the lowest index
		if distSqr < minDist {
			minDist = distSqr
			nearest = i
		}

		falloff := 1 + distSqr*attenuation
		velocity := power / (falloff * falloff)
		b.velocities[i].AddScaled(V.Normalize(diff), velocity*dt)
	}

	pressure := b.pressureAt(nearest)
	b.held[id] = nearest
	if b.sink != nil {
		b.sink.SetPressure(id, pressure)
	}
	return pressure
}

//Release ends a held contact
func (b *Body) Release(id int) {
	if _, ok := b.held[id]; !ok {
		return
	}
	delete(b.held, id)
	if b.sink != nil {
		b.sink.Release(id)
	}
}

//pressureAt normalises the displacement of vertex i against the rest radius
//and the elasticity range
func (b *Body) pressureAt(i int) float32 {
	if b.restRefSqr == 0 {
		return 0
	}
	disp := V.Sub(b.positions[i], b.rest[i])
	return disp.SqrLength() * b.params.Elasticity / (b.restRefSqr * MaxElasticity)
}

//resampleHeld reports the current pressure under every held contact
func (b *Body) resampleHeld() {
	if b.sink == nil {
		return
	}
	for _, id := range b.Held() {
		b.sink.SetPressure(id, b.pressureAt(b.held[id]))
	}
}
