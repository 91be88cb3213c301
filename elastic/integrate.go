package elastic

import (
	"math"

	"diesel.com/elastic/geometry"
	V "diesel.com/elastic/vector"
	"github.com/pkg/errors"
)

//DeformThreshold is the summed squared velocity above which a tick counts as
//deforming (total * 1e8 > 0.1)
const DeformThreshold float32 = 1e-9

//Tick advances the surface by dt seconds: restore, damp, integrate and commit
//the new shape when it moved. Held contacts are re-sampled afterwards.
func (b *Body) Tick(dt float32) error {
	if err := checkStep(dt); err != nil {
		return err
	}
	if err := b.checkBuffers(); err != nil {
		return err
	}
	b.frameTime = dt

	b.restore(dt)
	b.damp(dt)
	total := b.integrate()

	if exceedsDeformThreshold(total) {
		b.setState(Deforming)
	} else {
		b.setState(Settled)
	}

	var err error
	if b.state == Deforming {
		err = b.commit()
	}
	b.resampleHeld()
	return errors.Wrap(err, "publish deformed surface")
}

//Spring pull toward the rest shape
func (b *Body) restore(dt float32) {
	k := b.params.Elasticity * dt
	for i := 0; i < b.count; i++ {
		disp := V.Sub(b.positions[i], b.rest[i])
		b.velocities[i].AddScaled(disp, -k)
	}
}

//Damping is a plain multiplicative gain of damping*dt per tick
func (b *Body) damp(dt float32) {
	gain := b.params.Damping * dt
	for i := 0; i < b.count; i++ {
		b.velocities[i].Scale(gain)
	}
}

//integrate moves every vertex by its velocity and returns the summed squared
//velocity
func (b *Body) integrate() float32 {
	var total float32
	for i := 0; i < b.count; i++ {
		b.positions[i].Add(b.velocities[i])
		total += b.velocities[i].SqrLength()
	}
	return total
}

func exceedsDeformThreshold(total float32) bool {
	return total > DeformThreshold
}

//commit builds a new snapshot of the surface and hands it to the publisher in
//a single call. Indices and uvs are shared with the body.
func (b *Body) commit() error {
	mesh := &geometry.Mesh{
		Vertexes: make([]V.Vec32, b.count),
		Normals:  make([]V.Vec32, b.count),
		Indices:  b.indices,
		UVs:      b.uvs,
	}
	copy(mesh.Vertexes, b.positions)
	copy(mesh.Normals, b.normals)

	mesh.RecalculateNormals()
	mesh.RecalculateBounds()
	mesh.RecalculateTangents()
	collider := geometry.NewCollider(mesh)

	copy(b.normals, mesh.Normals)
	b.committed = mesh
	b.collider = collider

	if b.publisher == nil {
		return nil
	}
	return b.publisher.Publish(mesh, collider)
}

func checkStep(dt float32) error {
	f := float64(dt)
	if math.IsNaN(f) || math.IsInf(f, 0) || dt < 0 {
		return errors.Wrapf(ErrInvalidStep, "dt %v", dt)
	}
	return nil
}
