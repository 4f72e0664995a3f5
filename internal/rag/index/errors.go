package index

import (
	"errors"
	"fmt"
)

var errZeroVectors = errors.New("embedding produced zero vectors")

func errCountMismatch(chunks, vectors int) error {
	return fmt.Errorf("got %d chunks but %d vectors", chunks, vectors)
}

func errDimensionChange(existing, incoming int) error {
	return fmt.Errorf("existing index has dimension %d, new vectors have %d - rebuild with the original embedding model", existing, incoming)
}
