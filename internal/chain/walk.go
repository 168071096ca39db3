package chain

// Direction selects which link a walk follows.
type Direction int

const (
	// Forward follows NextID.
	Forward Direction = iota
	// Backward follows PrevID.
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

func (d Direction) link(e Event) EventID {
	if d == Backward {
		return e.PrevID
	}
	return e.NextID
}

// Walk consumes events starting at start and following dir until the next id
// is no longer in the pool. An absent start yields an empty result.
// Every id is consumed at most once, so a link cycle is drained and ends.
func Walk(p *Pool, start EventID, dir Direction) []Event {
	var out []Event
	id := start
	for id != NoEvent {
		e, ok := p.Consume(id)
		if !ok {
			break
		}
		out = append(out, e)
		id = dir.link(e)
	}
	return out
}

// builder accumulates a chain together with the set of ids it holds.
type builder struct {
	events []Event
	ids    map[EventID]struct{}
}

func newBuilder() *builder {
	return &builder{ids: make(map[EventID]struct{})}
}

func (b *builder) add(events ...Event) int {
	for _, e := range events {
		b.events = append(b.events, e)
		b.ids[e.ID] = struct{}{}
	}
	return len(events)
}

func (b *builder) has(id EventID) bool {
	if id == NoEvent {
		return false
	}
	_, ok := b.ids[id]
	return ok
}

func (b *builder) walk(p *Pool, start EventID, dir Direction) int {
	return b.add(Walk(p, start, dir)...)
}

// absorb walks forward, then backward, from e itself. The forward walk has
// already consumed e, so the backward walk adds nothing; predecessors of e
// join only when the pass reaches them on its own.
func (b *builder) absorb(p *Pool, e Event) int {
	n := b.walk(p, e.ID, Forward)
	return n + b.walk(p, e.ID, Backward)
}

// reattach runs one orphan pass over a snapshot of the pool. When contact is
// not NoEvent, an event whose PrevID points at the contact record starts a
// forward walk. Otherwise events linking into the chain so far are absorbed.
// Ids consumed earlier in the same pass are skipped.
func (b *builder) reattach(p *Pool, contact EventID) int {
	absorbed := 0
	for _, id := range p.IDs() {
		e, ok := p.Get(id)
		if !ok {
			continue
		}
		switch {
		case contact != NoEvent && e.PrevID == contact:
			absorbed += b.walk(p, id, Forward)
		case b.has(e.NextID):
			absorbed += b.absorb(p, e)
		case b.has(e.PrevID):
			absorbed += b.absorb(p, e)
		}
	}
	return absorbed
}
