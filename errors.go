package roadnet

import (
	"errors"
	"fmt"

	"github.com/hupe1980/roadnet/graph"
	"github.com/hupe1980/roadnet/pagestore"
	"github.com/hupe1980/roadnet/search"
	"github.com/hupe1980/roadnet/spatial"
)

var (
	// ErrNotFound is returned when a node id is outside the graph.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument is returned for malformed queries or inputs.
	ErrInvalidArgument = errors.New("invalid argument")
)

// ErrCorruptIndex indicates an index file that could not be decoded.
//
// The original underlying error can be accessed via errors.Unwrap.
type ErrCorruptIndex struct {
	cause error
}

func (e *ErrCorruptIndex) Error() string {
	return fmt.Sprintf("corrupt index: %v", e.cause)
}

func (e *ErrCorruptIndex) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	// Not found unification.
	if errors.Is(err, graph.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	// Argument normalization.
	if errors.Is(err, search.ErrInvalidArgument) || errors.Is(err, spatial.ErrBadObjectLine) {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	// Anything that makes the index itself unreadable.
	if errors.Is(err, graph.ErrBadMagic) ||
		errors.Is(err, graph.ErrBadVersion) ||
		errors.Is(err, graph.ErrCorrupt) ||
		errors.Is(err, pagestore.ErrPageOutOfRange) {
		return &ErrCorruptIndex{cause: err}
	}

	return err
}
