// Package chain rebuilds per-contact message chains from a flat pool of
// events linked only by next/previous pointers, and partitions whatever is
// left into numbered lost chains.
package chain

import (
	"math"
	"strconv"
)

// EventID identifies an event inside a source document.
type EventID int64

// NoEvent marks a link or anchor that is absent from the source record.
const NoEvent EventID = math.MinInt64

func (id EventID) String() string {
	if id == NoEvent {
		return "none"
	}
	return strconv.FormatInt(int64(id), 10)
}

// Event is one record of a chain-graph source.
type Event struct {
	ID        EventID
	PrevID    EventID
	NextID    EventID
	Module    string
	Incoming  bool
	Timestamp int64
	Text      string
}

// Pool owns every event that has not yet been assigned to a chain.
// Iteration follows first-seen insertion order. Consuming an event moves it
// out of the pool, so no event can end up in two chains.
//
// A Pool is not safe for concurrent use.
type Pool struct {
	events map[EventID]Event
	order  []EventID
	// tail is one past the last entry of order that may still be live.
	tail int
}

// NewPool indexes events by id. A repeated id replaces the stored event but
// keeps the position of its first occurrence.
func NewPool(events []Event) *Pool {
	p := &Pool{
		events: make(map[EventID]Event, len(events)),
		order:  make([]EventID, 0, len(events)),
	}
	for _, e := range events {
		if _, dup := p.events[e.ID]; !dup {
			p.order = append(p.order, e.ID)
		}
		p.events[e.ID] = e
	}
	p.tail = len(p.order)
	return p
}

// Len returns the number of unconsumed events.
func (p *Pool) Len() int {
	return len(p.events)
}

// Has reports whether id is still in the pool.
func (p *Pool) Has(id EventID) bool {
	_, ok := p.events[id]
	return ok
}

// Get returns the event without consuming it.
func (p *Pool) Get(id EventID) (Event, bool) {
	e, ok := p.events[id]
	return e, ok
}

// Consume removes and returns the event with the given id.
// A missing id is a normal chain terminator, not an error.
func (p *Pool) Consume(id EventID) (Event, bool) {
	e, ok := p.events[id]
	if !ok {
		return Event{}, false
	}
	delete(p.events, id)
	return e, true
}

// Pop removes and returns the most recently inserted event still in the pool.
func (p *Pool) Pop() (Event, bool) {
	for p.tail > 0 {
		p.tail--
		if e, ok := p.Consume(p.order[p.tail]); ok {
			return e, true
		}
	}
	return Event{}, false
}

// IDs returns a snapshot of the remaining ids in iteration order.
func (p *Pool) IDs() []EventID {
	live := p.order[:0]
	for _, id := range p.order[:p.tail] {
		if _, ok := p.events[id]; ok {
			live = append(live, id)
		}
	}
	p.order = live
	p.tail = len(live)

	ids := make([]EventID, len(live))
	copy(ids, live)
	return ids
}

// Remaining returns the unconsumed events in iteration order.
func (p *Pool) Remaining() []Event {
	ids := p.IDs()
	out := make([]Event, 0, len(ids))
	for _, id := range ids {
		out = append(out, p.events[id])
	}
	return out
}
