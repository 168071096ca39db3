package chain

// Anchors are the pointers a contact record holds into the event pool.
// Any of them may be NoEvent.
type Anchors struct {
	ContactID   EventID
	First       EventID
	FirstUnread EventID
	Last        EventID
}

// Reconstruct collects the events of one contact, consuming them from the pool.
//
// The walks run in a fixed order: forward from First, forward from
// FirstUnread, backward from Last, then a single orphan pass. The order
// decides which contact wins a fragment reachable from several of them, so
// callers must also keep a stable contact order.
//
// The result is in discovery order, not chronological order.
func Reconstruct(p *Pool, a Anchors) []Event {
	b := newBuilder()
	b.walk(p, a.First, Forward)
	b.walk(p, a.FirstUnread, Forward)
	b.walk(p, a.Last, Backward)
	b.reattach(p, a.ContactID)
	return b.events
}
