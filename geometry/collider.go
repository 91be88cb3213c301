package geometry

import (
	"math"

	Vec "diesel.com/elastic/vector"
)

//Collider is an immutable triangle soup built from a mesh snapshot, used by
//hit testing. It never aliases the mesh buffers.
type Collider struct {
	triangles []Triangle
	normals   []Vec.Vec32 //unit face normals
	Bounds    AABB
}

//Hit describes a ray/collider intersection in the collider's space
type Hit struct {
	Point    Vec.Vec32
	Normal   Vec.Vec32 //face normal, turned toward the ray origin
	Distance float32
	Triangle int
}

//NewCollider bakes the triangles of m. Degenerate faces are skipped.
func NewCollider(m *Mesh) *Collider {
	c := &Collider{
		triangles: make([]Triangle, 0, m.TriangleCount()),
		normals:   make([]Vec.Vec32, 0, m.TriangleCount()),
		Bounds:    BoundsOf(m.Vertexes),
	}
	for i := 0; i < m.TriangleCount(); i++ {
		tri := m.Triangle(i)
		n := tri.Normal()
		if n.SqrLength() == 0 {
			continue
		}
		c.triangles = append(c.triangles, tri)
		c.normals = append(c.normals, n)
	}
	return c
}

func (c *Collider) TriangleCount() int {
	return len(c.triangles)
}

//Raycast returns the closest hit within maxDist (<= 0 means unbounded)
func (c *Collider) Raycast(origin Vec.Vec32, dir Vec.Vec32, maxDist float32) (Hit, bool) {
	dir = Vec.Normalize(dir)
	if dir.SqrLength() == 0 {
		return Hit{}, false
	}

	limit := maxDist
	if limit <= 0 {
		limit = float32(math.Inf(1))
	}

	if t, ok := c.Bounds.IntersectRay(origin, dir); !ok || t > limit {
		return Hit{}, false
	}

	best := Hit{Triangle: -1, Distance: limit}
	for i := range c.triangles {
		dist, _, _, ok := c.triangles[i].Intersect(origin, dir)
		if !ok || dist > best.Distance {
			continue
		}
		if best.Triangle >= 0 && dist == best.Distance {
			continue
		}
		best.Distance = dist
		best.Triangle = i
	}

	if best.Triangle < 0 {
		return Hit{}, false
	}

	best.Point = Vec.Add(origin, Vec.Scale(dir, best.Distance))
	best.Normal = c.normals[best.Triangle]
	if Vec.Dot(best.Normal, dir) > 0 {
		best.Normal = Vec.Scale(best.Normal, -1)
	}
	return best, true
}
