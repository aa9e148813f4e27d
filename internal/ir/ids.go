// Package ir provides the in-memory program graph that irpack serializes.
//
// The graph is the typed representation produced by a compiler front end:
// declarations (classes, functions, properties, ...), expressions with
// resolved types, statements and types. Declarations refer to each other
// through Symbol handles rather than direct pointers so that a decoder can
// hand out a handle before the declaration it names has been rebuilt.
//
// Declaration, Expression, Statement, Type and TypeArgument are closed sets:
// each is sealed by an unexported marker method and dispatched through a
// visitor interface, so a new node kind does not compile until every
// visitor handles it.
package ir

import "fmt"

// UniqID is the serialized identity of a declaration.
type UniqID uint64

// NoUniqID marks a declaration that has not been given an identity yet.
const NoUniqID UniqID = 0

// IsValid reports whether the identity was assigned.
func (id UniqID) IsValid() bool { return id != NoUniqID }

func (id UniqID) String() string { return fmt.Sprintf("#%x", uint64(id)) }

// Offsets are the source coordinates of a node.
type Offsets struct {
	Start int
	End   int
}
