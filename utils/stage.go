package utils

import (
	"sync"

	V "diesel.com/elastic/vector"
)

//VertexStage hands the latest vertex snapshot from the simulation to the
//render thread. Only the newest snapshot is kept; older ones are dropped.
//Staged slices are read, never written.
type VertexStage struct {
	mu        sync.Mutex
	positions []V.Vec32
	normals   []V.Vec32
	pending   bool
	staged    int
	dropped   int
}

//Stage replaces the pending snapshot
func (s *VertexStage) Stage(positions []V.Vec32, normals []V.Vec32) {
	s.mu.Lock()
	if s.pending {
		s.dropped++
	}
	s.positions = positions
	s.normals = normals
	s.pending = true
	s.staged++
	s.mu.Unlock()
}

//Pack interleaves the pending snapshot into dst. ok is false when nothing new
//was staged since the last Pack.
func (s *VertexStage) Pack(dst []float32) ([]float32, bool, error) {
	s.mu.Lock()
	positions, normals, pending := s.positions, s.normals, s.pending
	s.pending = false
	s.mu.Unlock()

	if !pending {
		return dst, false, nil
	}
	data, err := InterleaveVertexData(dst, positions, normals)
	if err != nil {
		return dst, false, err
	}
	return data, true, nil
}

//Stats reports how many snapshots were staged and how many were replaced
//before the render thread packed them
func (s *VertexStage) Stats() (staged int, dropped int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.staged, s.dropped
}
