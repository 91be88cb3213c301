package vector

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

//Vector construct for vertex buffers. Free functions are immutable, pointer
//methods mutate the receiver and return it for chaining.

//Vec32 Default Vector Implementation - layout matches a packed GL vec3
type Vec32 [3]float32

//Vec4 is used for tangents (xyz + handedness w)
type Vec4 [4]float32

//Vec2 is used for texture coordinates
type Vec2 [2]float32

//NewVec32 returns a vector with all components set to a
func NewVec32(a float32) *Vec32 {
	return &Vec32{a, a, a}
}

func Abs(a Vec32) Vec32 {
	a[0] = float32(math.Abs(float64(a[0])))
	a[1] = float32(math.Abs(float64(a[1])))
	a[2] = float32(math.Abs(float64(a[2])))
	return a
}

func Dot(a Vec32, b Vec32) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func (v *Vec32) Dot(b Vec32) float32 {
	return v[0]*b[0] + v[1]*b[1] + v[2]*b[2]
}

//Scale - Scales vector by scalar a
func Scale(v Vec32, a float32) Vec32 {
	return Vec32{v[0] * a, v[1] * a, v[2] * a}
}

func (v *Vec32) Scale(a float32) *Vec32 {
	v[0] *= a
	v[1] *= a
	v[2] *= a
	return v
}

func Add(v Vec32, b Vec32) Vec32 {
	return Vec32{v[0] + b[0], v[1] + b[1], v[2] + b[2]}
}

func Sub(v Vec32, b Vec32) Vec32 {
	return Vec32{v[0] - b[0], v[1] - b[1], v[2] - b[2]}
}

//Add - Mutate
func (v *Vec32) Add(b Vec32) *Vec32 {
	v[0] += b[0]
	v[1] += b[1]
	v[2] += b[2]
	return v
}

//Sub - Mutate
func (v *Vec32) Sub(b Vec32) *Vec32 {
	v[0] -= b[0]
	v[1] -= b[1]
	v[2] -= b[2]
	return v
}

//AddScaled adds b*s in place, saves a temporary in the per-vertex loops
func (v *Vec32) AddScaled(b Vec32, s float32) *Vec32 {
	v[0] += b[0] * s
	v[1] += b[1] * s
	v[2] += b[2] * s
	return v
}

//Cross Product
func Cross(a Vec32, b Vec32) Vec32 {
	return Vec32{a[1]*b[2] - b[1]*a[2],
		a[2]*b[0] - b[2]*a[0],
		a[0]*b[1] - b[0]*a[1]}
}

func Length(a Vec32) float32 {
	return float32(math.Sqrt(float64(a[0]*a[0] + a[1]*a[1] + a[2]*a[2])))
}

func (v *Vec32) Length() float32 {
	return Length(*v)
}

//SqrLength avoids the square root when only comparisons are needed
func SqrLength(a Vec32) float32 {
	return a[0]*a[0] + a[1]*a[1] + a[2]*a[2]
}

func (v *Vec32) SqrLength() float32 {
	return SqrLength(*v)
}

//Normalize returns the unit vector of a. The zero vector normalizes to zero.
func Normalize(a Vec32) Vec32 {
	l := Length(a)
	if l == 0 {
		return Vec32{}
	}
	return Vec32{a[0] / l, a[1] / l, a[2] / l}
}

//Normalize - Mutate
func (v *Vec32) Normalize() *Vec32 {
	*v = Normalize(*v)
	return v
}

//Proj produces the projection of a onto n
func Proj(a Vec32, n Vec32) Vec32 {
	l := Length(n)
	if l == 0 {
		return Vec32{}
	}
	return Scale(Normalize(n), Dot(a, n)/l)
}

//ProjPlane removes the n component from a
func ProjPlane(a Vec32, n Vec32) Vec32 {
	return Sub(a, Proj(a, n))
}

func Reflect(n Vec32, v Vec32) Vec32 {
	b := Scale(n, (Dot(n, v)*2.0)/SqrLength(n))
	return Sub(v, b)
}

func VecEquals(v Vec32, a Vec32) bool {
	return v[0] == a[0] && v[1] == a[1] && v[2] == a[2]
}

//NearEquals compares component-wise within eps
func NearEquals(v Vec32, a Vec32, eps float32) bool {
	for i := 0; i < 3; i++ {
		if float32(math.Abs(float64(v[i]-a[i]))) > eps {
			return false
		}
	}
	return true
}

//IsFinite reports whether no component is NaN or Inf
func IsFinite(v Vec32) bool {
	for i := 0; i < 3; i++ {
		f := float64(v[i])
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

//Min / Max component-wise, used for bounds
func Min(a Vec32, b Vec32) Vec32 {
	return Vec32{min32(a[0], b[0]), min32(a[1], b[1]), min32(a[2], b[2])}
}

func Max(a Vec32, b Vec32) Vec32 {
	return Vec32{max32(a[0], b[0]), max32(a[1], b[1]), max32(a[2], b[2])}
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

//Mgl / FromMgl convert to and from mathgl for matrix work
func (v Vec32) Mgl() mgl32.Vec3 {
	return mgl32.Vec3(v)
}

func FromMgl(v mgl32.Vec3) Vec32 {
	return Vec32(v)
}

func (a *Vec32) String() string {
	return fmt.Sprintf("[ %f, %f, %f]", a[0], a[1], a[2])
}

func (a *Vec2) String() string {
	return fmt.Sprintf("[ %f, %f]", a[0], a[1])
}

func (a *Vec4) String() string {
	return fmt.Sprintf("[ %f, %f, %f, %f]", a[0], a[1], a[2], a[3])
}
