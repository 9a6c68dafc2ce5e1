package order

import (
	"strconv"
	"strings"
	"sync"
	"time"
)

// IDGenerator builds order ids from a store tag and the base-36 encoding of
// the submission time in milliseconds. Ids are strictly increasing within a
// process: a request in an already used millisecond takes the next one.
type IDGenerator struct {
	tag string
	now func() time.Time

	mu   sync.Mutex
	last int64
}

func NewIDGenerator(tag string, now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{tag: tag, now: now}
}

// Next returns a fresh id and the timestamp it encodes.
func (g *IDGenerator) Next() (string, time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return g.tag + strings.ToUpper(strconv.FormatInt(ms, 36)), time.UnixMilli(ms).UTC()
}
