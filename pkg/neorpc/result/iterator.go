package result

import (
	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go-sdk/pkg/vm/stackitem"
)

// Iterator is the decoded form of a VM Iterator interop item returned
// by an invocation. When the node was asked to keep a session open,
// ID identifies the server-side iterator so TraverseIterator can page
// through it; otherwise Values holds the items the node unwrapped
// inline (bounded by the session config's MaxIteratorResultItems) and
// Truncated reports whether more items were available than fit in
// that bound.
type Iterator struct {
	ID        *uuid.UUID
	Values    []stackitem.Item
	Truncated bool
}
