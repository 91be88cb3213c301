package geometry

import (

	Vec "diesel.com/elastic/vector"
	"github.com/pkg/errors"
)

const (
	EPSILON = 0.00001
)

//diesel geometry library - indexed triangle meshes for the deformable surface.
//A Mesh is the authored/committed geometry, the simulation keeps its own
//vertex buffers and publishes snapshots of this type.

//Triangles are wound counter clockwise when seen from outside, so the cross
//product of the first two edges points away from the surface.

type Triangle struct {
	Verts [3]Vec.Vec32
}

//Mesh is an indexed triangle mesh. Normals, Tangents and UVs are per vertex.
//UVs are optional; Tangents are filled by RecalculateTangents.
type Mesh struct {
	Vertexes []Vec.Vec32
	Normals  []Vec.Vec32
	Tangents []Vec.Vec4
	UVs      []Vec.Vec2
	Indices  []uint32
	Bounds   AABB
}

func InitTriangle(a Vec.Vec32, b Vec.Vec32, c Vec.Vec32) Triangle {
	return Triangle{Verts: [3]Vec.Vec32{a, b, c}}
}

//Normal is the unit face normal, zero for degenerate triangles
func (tri *Triangle) Normal() Vec.Vec32 {
	return Vec.Normalize(tri.AreaNormal())
}

//AreaNormal is the un-normalized face normal, its length is twice the area
func (tri *Triangle) AreaNormal() Vec.Vec32 {
	return Vec.Cross(Vec.Sub(tri.Verts[1], tri.Verts[0]), Vec.Sub(tri.Verts[2], tri.Verts[0]))
}

//Barycentric returns (u, v, w) weights of p relative to vertices 1, 2, 0 and
//whether p projects inside the triangle
func (t *Triangle) Barycentric(p Vec.Vec32) (Vec.Vec32, bool) {
	v0 := Vec.Sub(t.Verts[1], t.Verts[0])
	v1 := Vec.Sub(t.Verts[2], t.Verts[0])
	v2 := Vec.Sub(p, t.Verts[0])
	d00 := Vec.Dot(v0, v0)
	d01 := Vec.Dot(v0, v1)
	d11 := Vec.Dot(v1, v1)
	d20 := Vec.Dot(v2, v0)
	d21 := Vec.Dot(v2, v1)
	denom := d00*d11 - d01*d01
	if denom == 0 {
		return Vec.Vec32{}, false
	}
	u := (d11*d20 - d01*d21) / denom
	v := (d00*d21 - d01*d20) / denom
	w := 1.0 - v - u
	coord := Vec.Vec32{u, v, w}

	inside := u >= 0 && v >= 0 && w >= 0 && u <= 1 && v <= 1 && w <= 1
	return coord, inside
}

//Intersect is the Moller-Trumbore ray test. Returns the ray distance and the
//barycentric weights of vertices 1 and 2. Both faces are hit.
func (t *Triangle) Intersect(origin Vec.Vec32, dir Vec.Vec32) (float32, float32, float32, bool) {
	e1 := Vec.Sub(t.Verts[1], t.Verts[0])
	e2 := Vec.Sub(t.Verts[2], t.Verts[0])
	p := Vec.Cross(dir, e2)
	det := Vec.Dot(e1, p)
	if det > -EPSILON && det < EPSILON {
		return 0, 0, 0, false //parallel or degenerate
	}
	inv := 1 / det

	s := Vec.Sub(origin, t.Verts[0])
	u := Vec.Dot(s, p) * inv
	if u < 0 || u > 1 {
		return 0, 0, 0, false
	}

	q := Vec.Cross(s, e1)
	v := Vec.Dot(dir, q) * inv
	if v < 0 || u+v > 1 {
		return 0, 0, 0, false
	}

	dist := Vec.Dot(e2, q) * inv
	if dist < 0 {
		return 0, 0, 0, false
	}
	return dist, u, v, true
}

func (m *Mesh) VertexCount() int {
	return len(m.Vertexes)
}

func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

//Triangle returns face i
func (m *Mesh) Triangle(i int) Triangle {
	return InitTriangle(m.Vertexes[m.Indices[i*3]], m.Vertexes[m.Indices[i*3+1]], m.Vertexes[m.Indices[i*3+2]])
}

//Validate checks buffer lengths and index ranges
func (m *Mesh) Validate() error {
	n := len(m.Vertexes)
	if n == 0 {
		return errors.New("mesh has no vertices")
	}
	if len(m.Normals) != n {
		return errors.Errorf("mesh has %d vertices but %d normals", n, len(m.Normals))
	}
	if len(m.UVs) != 0 && len(m.UVs) != n {
		return errors.Errorf("mesh has %d vertices but %d uvs", n, len(m.UVs))
	}
	if len(m.Indices)%3 != 0 {
		return errors.Errorf("index count %d is not a multiple of 3", len(m.Indices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= n {
			return errors.Errorf("index %d at %d out of range for %d vertices", idx, i, n)
		}
	}
	for i := range m.Vertexes {
		if !Vec.IsFinite(m.Vertexes[i]) {
			return errors.Errorf("vertex %d is not finite", i)
		}
	}
	return nil
}

//Clone deep copies every buffer
func (m *Mesh) Clone() *Mesh {
	c := &Mesh{Bounds: m.Bounds}
	c.Vertexes = append([]Vec.Vec32(nil), m.Vertexes...)
	c.Normals = append([]Vec.Vec32(nil), m.Normals...)
	c.Tangents = append([]Vec.Vec4(nil), m.Tangents...)
	c.UVs = append([]Vec.Vec2(nil), m.UVs...)
	c.Indices = append([]uint32(nil), m.Indices...)
	return c
}

//RecalculateNormals rebuilds vertex normals from the area weighted face
//normals around each vertex. Vertices no triangle references keep their normal.
func (m *Mesh) RecalculateNormals() {
	n := len(m.Vertexes)
	if len(m.Normals) != n {
		m.Normals = make([]Vec.Vec32, n)
	}
	acc := make([]Vec.Vec32, n)

	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		tri := InitTriangle(m.Vertexes[a], m.Vertexes[b], m.Vertexes[c])
		fn := tri.AreaNormal()
		acc[a].Add(fn)
		acc[b].Add(fn)
		acc[c].Add(fn)
	}

	for i := range acc {
		if acc[i].SqrLength() == 0 {
			continue
		}
		m.Normals[i] = Vec.Normalize(acc[i])
	}
}

//RecalculateBounds refits the AABB to the vertices
func (m *Mesh) RecalculateBounds() {
	m.Bounds = BoundsOf(m.Vertexes)
}

//RecalculateTangents computes per vertex tangents from UVs (w holds the
//bitangent handedness). Without UVs, or where the UV mapping is degenerate,
//an arbitrary tangent orthogonal to the normal is used.
func (m *Mesh) RecalculateTangents() {
	n := len(m.Vertexes)
	if len(m.Tangents) != n {
		m.Tangents = make([]Vec.Vec4, n)
	}

	tan1 := make([]Vec.Vec32, n)
	tan2 := make([]Vec.Vec32, n)

	if len(m.UVs) == n {
		for i := 0; i+2 < len(m.Indices); i += 3 {
			a, b, c := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
			e1 := Vec.Sub(m.Vertexes[b], m.Vertexes[a])
			e2 := Vec.Sub(m.Vertexes[c], m.Vertexes[a])
			du1 := m.UVs[b][0] - m.UVs[a][0]
			dv1 := m.UVs[b][1] - m.UVs[a][1]
			du2 := m.UVs[c][0] - m.UVs[a][0]
			dv2 := m.UVs[c][1] - m.UVs[a][1]

			det := du1*dv2 - du2*dv1
			if det == 0 {
				continue
			}
			r := 1 / det
			sdir := Vec.Scale(Vec.Sub(Vec.Scale(e1, dv2), Vec.Scale(e2, dv1)), r)
			tdir := Vec.Scale(Vec.Sub(Vec.Scale(e2, du1), Vec.Scale(e1, du2)), r)

			for _, idx := range [3]uint32{a, b, c} {
				tan1[idx].Add(sdir)
				tan2[idx].Add(tdir)
			}
		}
	}

	for i := 0; i < n; i++ {
		var nrm Vec.Vec32
		if i < len(m.Normals) {
			nrm = m.Normals[i]
		}

		//Gram-Schmidt against the normal
		t := Vec.Normalize(Vec.ProjPlane(tan1[i], nrm))
		if t.SqrLength() == 0 {
			m.Tangents[i] = fallbackTangent(nrm)
			continue
		}

		w := float32(1)
		if Vec.Dot(Vec.Cross(nrm, t), tan2[i]) < 0 {
			w = -1
		}
		m.Tangents[i] = Vec.Vec4{t[0], t[1], t[2], w}
	}
}

func fallbackTangent(n Vec.Vec32) Vec.Vec4 {
	axis := Vec.Vec32{1, 0, 0}
	if Vec.Abs(n)[0] > 0.9 {
		axis = Vec.Vec32{0, 1, 0}
	}
	t := Vec.Normalize(Vec.ProjPlane(axis, n))
	if t.SqrLength() == 0 {
		t = axis
	}
	return Vec.Vec4{t[0], t[1], t[2], 1}
}

//Box builds a 24 vertex box (4 per face so each face keeps a flat normal)
//centered at o with UVs per face
func Box(w float32, h float32, d float32, o Vec.Vec32) *Mesh {
	x := o[0]
	y := o[1]
	z := o[2]

	p := w / 2
	q := h / 2
	s := d / 2

	//Each face listed counter clockwise seen from outside
	faces := [6][4]Vec.Vec32{
		//FRONT +Z
		{{x - p, y - q, z + s}, {x + p, y - q, z + s}, {x + p, y + q, z + s}, {x - p, y + q, z + s}},
		//BACK -Z
		{{x + p, y - q, z - s}, {x - p, y - q, z - s}, {x - p, y + q, z - s}, {x + p, y + q, z - s}},
		//BOTTOM -Y
		{{x - p, y - q, z - s}, {x + p, y - q, z - s}, {x + p, y - q, z + s}, {x - p, y - q, z + s}},
		//TOP +Y
		{{x - p, y + q, z + s}, {x + p, y + q, z + s}, {x + p, y + q, z - s}, {x - p, y + q, z - s}},
		//LEFT -X
		{{x - p, y - q, z - s}, {x - p, y - q, z + s}, {x - p, y + q, z + s}, {x - p, y + q, z - s}},
		//RIGHT +X
		{{x + p, y - q, z + s}, {x + p, y - q, z - s}, {x + p, y + q, z - s}, {x + p, y + q, z + s}},
	}
	uv := [4]Vec.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

	box := &Mesh{}
	for f := range faces {
		base := uint32(len(box.Vertexes))
		for k := 0; k < 4; k++ {
			box.Vertexes = append(box.Vertexes, faces[f][k])
			box.UVs = append(box.UVs, uv[k])
		}
		box.Indices = append(box.Indices, base, base+1, base+2, base, base+2, base+3)
	}

	box.RecalculateNormals()
	box.RecalculateBounds()
	box.RecalculateTangents()
	return box
}
