package ply

import "github.com/Faultbox/plyview/pkg/math"

// NormalAccumulator averages face normals into per-vertex normals.
type NormalAccumulator struct {
	sums   []math.Vec3
	counts []uint32
}

// NewNormalAccumulator creates an accumulator for n vertices.
func NewNormalAccumulator(n int) *NormalAccumulator {
	return &NormalAccumulator{
		sums:   make([]math.Vec3, n),
		counts: make([]uint32, n),
	}
}

// Add records one adjacent face normal for vertex idx.
func (a *NormalAccumulator) Add(idx int, n math.Vec3) {
	a.sums[idx] = a.sums[idx].Add(n)
	a.counts[idx]++
}

// Count returns how many faces have contributed to vertex idx.
func (a *NormalAccumulator) Count(idx int) uint32 {
	return a.counts[idx]
}

// Mean returns the component-wise mean of the adjacent face normals of
// every vertex. A vertex with no adjacent faces keeps the zero vector.
func (a *NormalAccumulator) Mean() []math.Vec3 {
	out := make([]math.Vec3, len(a.sums))
	for i, sum := range a.sums {
		c := a.counts[i]
		if c == 0 {
			continue
		}
		out[i] = sum.Scale(1 / float32(c))
	}
	return out
}
