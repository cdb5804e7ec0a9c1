package memory

import (
	"errors"
	"math"
	"sync"

	"qabot/internal/domain"
)

var (
	ErrInvalidDimension  = errors.New("invalid dimension")
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
)

// Storage is an in-memory document matrix scored by brute-force cosine
// similarity. Rows keep their insertion order, which is the index space of
// the scores returned by Similarities.
type Storage struct {
	mu        sync.RWMutex
	dimension int
	vectors   []domain.Vector
	norms     []float64
}

func NewStorage() *Storage { return &Storage{} }

func (s *Storage) Init(dimension int) error {
	if dimension <= 0 {
		return ErrInvalidDimension
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dimension = dimension
	s.vectors = nil
	s.norms = nil
	return nil
}

func (s *Storage) Upsert(vectors []domain.Vector) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range vectors {
		if err := s.check(v); err != nil {
			return err
		}
	}
	for _, v := range vectors {
		s.vectors = append(s.vectors, v)
		s.norms = append(s.norms, norm(v))
	}
	return nil
}

// Similarities returns the cosine similarity of vector against every row, in
// row order. A zero vector on either side scores 0.
func (s *Storage) Similarities(vector domain.Vector) ([]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(vector); err != nil {
		return nil, err
	}
	scores := make([]float64, len(s.vectors))
	if vector.IsZero() {
		return scores, nil
	}
	qn := norm(vector)
	for i, row := range s.vectors {
		if s.norms[i] == 0 {
			continue
		}
		scores[i] = dot(row, vector) / (s.norms[i] * qn)
	}
	return scores, nil
}

// Rows returns the stored vectors in row order. The slice is a copy; the
// vectors share their backing arrays and must not be modified.
func (s *Storage) Rows() []domain.Vector {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Vector, len(s.vectors))
	copy(out, s.vectors)
	return out
}

func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vectors)
}

func (s *Storage) Dimension() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dimension
}

func (s *Storage) check(v domain.Vector) error {
	if s.dimension <= 0 {
		return ErrInvalidDimension
	}
	if len(v.Indices) != len(v.Values) {
		return ErrDimensionMismatch
	}
	for _, idx := range v.Indices {
		if idx < 0 || idx >= s.dimension {
			return ErrDimensionMismatch
		}
	}
	return nil
}

// dot walks both sorted index lists in step.
func dot(a, b domain.Vector) float64 {
	sum := 0.0
	i, j := 0, 0
	for i < len(a.Indices) && j < len(b.Indices) {
		switch {
		case a.Indices[i] == b.Indices[j]:
			sum += a.Values[i] * b.Values[j]
			i++
			j++
		case a.Indices[i] < b.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

func norm(v domain.Vector) float64 {
	sum := 0.0
	for _, x := range v.Values {
		sum += x * x
	}
	return math.Sqrt(sum)
}
