package api

import (
	"errors"
	"fmt"

	"github.com/fabricedesre/taxonomy/pkg/model"
	"github.com/fabricedesre/taxonomy/pkg/value"
)

// Sentinel errors for targeted operations on entities that do not
// exist. Bulk selector resolution never reports these; they surface in
// per-channel results and adapter-facing calls.
var (
	ErrNoSuchNode   = errors.New("no such node")
	ErrNoSuchGetter = errors.New("no such getter channel")
	ErrNoSuchSetter = errors.New("no such setter channel")
)

// NoSuchNode wraps ErrNoSuchNode with the offending id.
func NoSuchNode(id model.NodeID) error {
	return fmt.Errorf("%w: %s", ErrNoSuchNode, id)
}

// NoSuchGetter wraps ErrNoSuchGetter with the offending id.
func NoSuchGetter(id model.ChannelID) error {
	return fmt.Errorf("%w: %s", ErrNoSuchGetter, id)
}

// NoSuchSetter wraps ErrNoSuchSetter with the offending id.
func NoSuchSetter(id model.ChannelID) error {
	return fmt.Errorf("%w: %s", ErrNoSuchSetter, id)
}

// TypeError reports a value whose type does not match the type implied
// by the channel's kind. It matches value.ErrTypeMismatch under
// errors.Is.
type TypeError struct {
	Expected value.Type
	Got      value.Type
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("type mismatch: expected %s, got %s", e.Expected, e.Got)
}

func (e *TypeError) Unwrap() error { return value.ErrTypeMismatch }
