package vectorstore

import (
	"fmt"

	"qabot/internal/domain"
	"qabot/internal/vectorstore/memory"
)

// Storage holds the fixed document vectors and scores queries against them.
type Storage = domain.VectorStore

// New returns the storage registered under kind.
func New(kind string) (Storage, error) {
	switch kind {
	case "memory", "":
		return memory.NewStorage(), nil
	default:
		return nil, fmt.Errorf("unknown vector store: %s", kind)
	}
}
