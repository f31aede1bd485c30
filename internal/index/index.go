// Package index provides a request-scoped exact nearest-neighbor index over
// document chunks. An Index is built once from the chunk embeddings, is
// immutable afterwards, and is discarded with the request.
package index

import (
	"fmt"
	"math"
	"sort"

	"github.com/gurram-lahari/SmartDoc-AI/internal/domain"
)

// Match pairs a chunk with its cosine similarity to the query.
type Match struct {
	Chunk domain.Chunk
	Score float64
}

// Index holds L2-normalized chunk vectors for brute-force cosine search.
type Index struct {
	dim     int
	chunks  []domain.Chunk
	vectors [][]float32
}

// Build creates an index over chunks and their embedding vectors. The two
// slices must be parallel and the vectors uniform in dimension.
func Build(chunks []domain.Chunk, vectors [][]float32) (*Index, error) {
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: no chunks to index", domain.ErrRetrieval)
	}
	if len(chunks) != len(vectors) {
		return nil, fmt.Errorf("%w: %d chunks but %d vectors", domain.ErrRetrieval, len(chunks), len(vectors))
	}

	dim := len(vectors[0])
	if dim == 0 {
		return nil, fmt.Errorf("%w: empty embedding vector", domain.ErrRetrieval)
	}

	normalized := make([][]float32, len(vectors))
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: vector %d has dimension %d, expected %d", domain.ErrRetrieval, i, len(v), dim)
		}
		normalized[i] = normalize(v)
	}

	return &Index{
		dim:     dim,
		chunks:  chunks,
		vectors: normalized,
	}, nil
}

// Len returns the number of indexed chunks.
func (ix *Index) Len() int { return len(ix.chunks) }

// Dimensions returns the embedding dimensionality.
func (ix *Index) Dimensions() int { return ix.dim }

// Search returns up to k chunks most similar to the query vector, ordered by
// descending cosine similarity. Ties keep chunk order, so results are
// deterministic. k <= 0 yields no matches.
func (ix *Index) Search(vector []float32, k int) ([]Match, error) {
	if k <= 0 {
		return nil, nil
	}
	if len(vector) != ix.dim {
		return nil, fmt.Errorf("%w: query dimension %d, index dimension %d", domain.ErrRetrieval, len(vector), ix.dim)
	}

	query := normalize(vector)
	matches := make([]Match, len(ix.chunks))
	for i := range ix.vectors {
		matches[i] = Match{Chunk: ix.chunks[i], Score: dot(ix.vectors[i], query)}
	}

	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].Score > matches[b].Score
	})

	if k > len(matches) {
		k = len(matches)
	}
	return matches[:k], nil
}

// normalize returns an L2-normalized copy. A zero vector is returned as-is
// and scores zero against everything.
func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		out := make([]float32, len(v))
		copy(out, v)
		return out
	}
	inv := 1 / math.Sqrt(sum)
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) * inv)
	}
	return out
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
