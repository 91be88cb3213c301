package geometry

import (
	"math"

	Vec "diesel.com/elastic/vector"
)

//AABB axis aligned bounding box
type AABB struct {
	Min Vec.Vec32
	Max Vec.Vec32
}

//BoundsOf fits a box to the points. Empty input gives the zero box.
func BoundsOf(points []Vec.Vec32) AABB {
	if len(points) == 0 {
		return AABB{}
	}
	b := AABB{Min: points[0], Max: points[0]}
	for i := 1; i < len(points); i++ {
		b.Encapsulate(points[i])
	}
	return b
}

func (b *AABB) Encapsulate(p Vec.Vec32) {
	b.Min = Vec.Min(b.Min, p)
	b.Max = Vec.Max(b.Max, p)
}

func (b AABB) Center() Vec.Vec32 {
	return Vec.Scale(Vec.Add(b.Min, b.Max), 0.5)
}

//Extents are half the size
func (b AABB) Extents() Vec.Vec32 {
	return Vec.Scale(Vec.Sub(b.Max, b.Min), 0.5)
}

func (b AABB) Size() Vec.Vec32 {
	return Vec.Sub(b.Max, b.Min)
}

func (b AABB) Contains(p Vec.Vec32) bool {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}

//IntersectRay slab test. Returns the entry distance (0 when the origin is inside).
func (b AABB) IntersectRay(origin Vec.Vec32, dir Vec.Vec32) (float32, bool) {
	tmin := math.Inf(-1)
	tmax := math.Inf(1)

	for i := 0; i < 3; i++ {
		o := float64(origin[i])
		d := float64(dir[i])
		lo := float64(b.Min[i])
		hi := float64(b.Max[i])

		if d == 0 {
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}

		t1 := (lo - o) / d
		t2 := (hi - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}

	if tmax < 0 {
		return 0, false
	}
	return float32(math.Max(tmin, 0)), true
}
