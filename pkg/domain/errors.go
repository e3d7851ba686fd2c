package domain

import "errors"

// ErrRunNotFound is returned when a run ID cannot be found in the store.
var ErrRunNotFound = errors.New("run not found")

// ErrUnfixableViolations is returned when a tool reports violations it
// cannot repair. Fixes that were applied before the failure stay committed.
var ErrUnfixableViolations = errors.New("unfixable violations remain")

// ErrNoInterpreter is returned when no installed interpreter satisfies
// the workflow's version pin.
var ErrNoInterpreter = errors.New("no interpreter matches version pin")
