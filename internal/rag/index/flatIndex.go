// Package index implements the flat (exhaustive, exact) similarity index the
// retriever runs on. Document-local corpora are small, tens to low thousands
// of chunks, so brute-force squared L2 beats any approximate structure here.
package index

import (
	"fmt"
	"sort"
)

// NoMatch is the sentinel slot id returned when the index holds fewer
// vectors than requested.
const NoMatch = -1

type Flat struct {
	dim     int
	vectors [][]float32
}

func NewFlat(dim int) (*Flat, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("invalid index dimension %d", dim)
	}
	return &Flat{dim: dim}, nil
}

func (f *Flat) Dimension() int { return f.dim }

func (f *Flat) Len() int { return len(f.vectors) }

func (f *Flat) Add(vectors [][]float32) error {
	for _, v := range vectors {
		if len(v) != f.dim {
			return fmt.Errorf("vector dimension %d does not match index dimension %d", len(v), f.dim)
		}
	}
	f.vectors = append(f.vectors, vectors...)
	return nil
}

// Search returns the topK nearest slot ids with their squared L2 distances,
// nearest first. Slots beyond the index size are padded with NoMatch so the
// result always has topK entries - callers skip the sentinel.
func (f *Flat) Search(query []float32, topK int) (ids []int, distances []float32, err error) {
	if len(query) != f.dim {
		return nil, nil, fmt.Errorf("query dimension %d does not match index dimension %d", len(query), f.dim)
	}
	if topK <= 0 {
		return nil, nil, fmt.Errorf("topK must be positive, got %d", topK)
	}

	type hit struct {
		id   int
		dist float32
	}
	hits := make([]hit, len(f.vectors))
	for i, v := range f.vectors {
		hits[i] = hit{id: i, dist: squaredL2(query, v)}
	}
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].dist < hits[b].dist })

	ids = make([]int, topK)
	distances = make([]float32, topK)
	for i := 0; i < topK; i++ {
		if i < len(hits) {
			ids[i] = hits[i].id
			distances[i] = hits[i].dist
		} else {
			ids[i] = NoMatch
			distances[i] = 0
		}
	}
	return ids, distances, nil
}

func squaredL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
