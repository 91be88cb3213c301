package utils

import (
	"unsafe"

	V "diesel.com/elastic/vector"
	"github.com/pkg/errors"
)

//FloatsPerVertex is the interleaved layout: position xyz + normal xyz
const FloatsPerVertex = 6

//InterleaveVertexData packs positions and normals into a single GL friendly
//float slice. dst is reused when it has the capacity.
func InterleaveVertexData(dst []float32, positions []V.Vec32, normals []V.Vec32) ([]float32, error) {
	if len(positions) != len(normals) {
		return dst, errors.Errorf("vertex data mismatch: %d positions, %d normals", len(positions), len(normals))
	}

	size := len(positions) * FloatsPerVertex
	if cap(dst) < size {
		dst = make([]float32, size)
	}
	dst = dst[:size]

	for i := range positions {
		o := i * FloatsPerVertex
		p := positions[i]
		n := normals[i]
		dst[o+0] = p[0]
		dst[o+1] = p[1]
		dst[o+2] = p[2]
		dst[o+3] = n[0]
		dst[o+4] = n[1]
		dst[o+5] = n[2]
	}
	return dst, nil
}

//TransferVertexData copies packed floats into mapped graphics memory.
//The destination must hold at least len(data) floats.
func TransferVertexData(graphicsPtr unsafe.Pointer, data []float32) error {
	if graphicsPtr == nil {
		return errors.New("no valid pointer to graphics memory")
	}
	if len(data) == 0 {
		return errors.New("empty vertex data transfer")
	}

	//View the mapped region as a float slice of the same length
	dst := (*[1 << 28]float32)(graphicsPtr)[:len(data):len(data)]
	copy(dst, data)
	return nil
}

//Scales Position List Points Around an Origin
func ScalePositions(pos []V.Vec32, origin V.Vec32, scale float32) {
	for i := range pos {
		v := pos[i]
		v.Sub(origin)
		v.Scale(scale)
		v.Add(origin)
		pos[i] = v
	}
}
