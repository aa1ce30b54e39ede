package fem

import "sync/atomic"

// Process-wide monotonic id source for Functions. Ids are unique for the
// lifetime of the process and never reused.
var idCounter atomic.Uint64

func nextID() uint64 {
	return idCounter.Add(1)
}
