package elastic

import (
	V "diesel.com/elastic/vector"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

//Transform maps the body's local space to world space. The inverse is cached
//since every contact is converted into local space.
type Transform struct {
	localToWorld mgl32.Mat4
	worldToLocal mgl32.Mat4
}

func IdentityTransform() Transform {
	return Transform{localToWorld: mgl32.Ident4(), worldToLocal: mgl32.Ident4()}
}

//NewTransform composes translation * rotation * scale
func NewTransform(position V.Vec32, rotation mgl32.Quat, scale V.Vec32) (Transform, error) {
	m := mgl32.Translate3D(position[0], position[1], position[2]).
		Mul4(rotation.Normalize().Mat4()).
		Mul4(mgl32.Scale3D(scale[0], scale[1], scale[2]))
	return TransformFromMatrix(m)
}

//TransformFromMatrix wraps an affine local-to-world matrix
func TransformFromMatrix(m mgl32.Mat4) (Transform, error) {
	if m.Det() == 0 {
		return Transform{}, errors.WithStack(ErrSingularTransform)
	}
	return Transform{localToWorld: m, worldToLocal: m.Inv()}, nil
}

func (t Transform) Matrix() mgl32.Mat4 {
	return t.localToWorld
}

func (t Transform) InverseMatrix() mgl32.Mat4 {
	return t.worldToLocal
}

//TransformPoint local -> world
func (t Transform) TransformPoint(p V.Vec32) V.Vec32 {
	return V.FromMgl(t.localToWorld.Mul4x1(p.Mgl().Vec4(1)).Vec3())
}

//InverseTransformPoint world -> local
func (t Transform) InverseTransformPoint(p V.Vec32) V.Vec32 {
	return V.FromMgl(t.worldToLocal.Mul4x1(p.Mgl().Vec4(1)).Vec3())
}

//TransformVector local -> world, ignores translation
func (t Transform) TransformVector(d V.Vec32) V.Vec32 {
	return V.FromMgl(t.localToWorld.Mul4x1(d.Mgl().Vec4(0)).Vec3())
}

//InverseTransformVector world -> local, ignores translation
func (t Transform) InverseTransformVector(d V.Vec32) V.Vec32 {
	return V.FromMgl(t.worldToLocal.Mul4x1(d.Mgl().Vec4(0)).Vec3())
}
