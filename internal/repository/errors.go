// Package repository contains data access logic separated from HTTP
// handlers. This file defines error values reused across repositories.
// Sentinel errors let higher layers distinguish failure scenarios: for
// example ErrAtCapacity signals that a capacity-gated insert was refused
// because the parent is at its ceiling, which handlers surface as an
// actionable 400 rather than a generic failure.
package repository

import "errors"

// ErrAtCapacity is returned by conditional inserts when the parent entity
// already holds as many children as its declared limit allows. The insert
// does not happen; no partial write occurs.
var ErrAtCapacity = errors.New("at capacity")
