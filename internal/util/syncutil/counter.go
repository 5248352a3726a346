package syncutil

import (
	"fmt"
	"sync/atomic"
)

// Counter is a process-wide monotonic counter that can be incremented by
// multiple goroutines safely. It is used to mint unique handle names.
type Counter struct {
	value atomic.Int64
}

// Next increments the counter and returns the new value. The first call
// returns 1.
func (c *Counter) Next() int64 {
	return c.value.Add(1)
}

// NextName increments the counter and returns prefix followed by the new
// value, e.g. NextName("ifxconn") -> "ifxconn1".
func (c *Counter) NextName(prefix string) string {
	return fmt.Sprintf("%s%d", prefix, c.Next())
}
