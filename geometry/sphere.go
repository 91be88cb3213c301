package geometry

import (
	"math"

	"diesel.com/elastic/utils"
	Vec "diesel.com/elastic/vector"
)

//UVSphere builds a latitude/longitude sphere centered at the local origin.
//Vertex 0 is the north pole, so |Vertexes[0]| is the radius. The seam column
//is duplicated to keep UVs continuous; rings >= 2, segments >= 3.
//The pole is one copy per column and the triangles use copies 1..segments, so
//vertex 0 is never rendered and keeps its authored normal. It moves like the
//other pole copies.
func UVSphere(radius float32, rings int, segments int) *Mesh {
	if rings < 2 {
		rings = 2
	}
	if segments < 3 {
		segments = 3
	}

	cols := segments + 1
	m := &Mesh{
		Vertexes: make([]Vec.Vec32, 0, (rings+1)*cols),
		Normals:  make([]Vec.Vec32, 0, (rings+1)*cols),
		UVs:      make([]Vec.Vec2, 0, (rings+1)*cols),
	}

	for r := 0; r <= rings; r++ {
		theta := math.Pi * float64(r) / float64(rings)
		for s := 0; s <= segments; s++ {
			phi := 2 * math.Pi * float64(s) / float64(segments)
			unit := Vec.Vec32{
				float32(math.Sin(theta) * math.Cos(phi)),
				float32(math.Cos(theta)),
				float32(math.Sin(theta) * math.Sin(phi)),
			}
			m.Vertexes = append(m.Vertexes, unit)
			m.Normals = append(m.Normals, unit)
			m.UVs = append(m.UVs, Vec.Vec2{float32(s) / float32(segments), 1 - float32(r)/float32(rings)})
		}
	}
	utils.ScalePositions(m.Vertexes, Vec.Vec32{}, radius)

	for r := 0; r < rings; r++ {
		for s := 0; s < segments; s++ {
			a := uint32(r*cols + s)
			b := a + uint32(cols)
			//the pole rows collapse one of the two triangles
			if r != 0 {
				m.Indices = append(m.Indices, a, a+1, b)
			}
			if r != rings-1 {
				m.Indices = append(m.Indices, a+1, b+1, b)
			}
		}
	}

	m.RecalculateBounds()
	m.RecalculateTangents()
	return m
}
