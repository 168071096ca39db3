package chain

import (
	"github.com/josephgoksu/qutimport/models"
)

// LostChainOptions tunes fragment growth.
type LostChainOptions struct {
	// FixedPoint repeats the orphan pass until it absorbs nothing.
	// When false a single pass runs.
	FixedPoint bool
}

// NextLostChain drains one fragment from the pool. The seed is the most
// recently inserted remaining event; the fragment grows forward from the
// seed's successor, backward from its predecessor, then through orphan passes.
// It returns false once the pool is empty.
func NextLostChain(p *Pool, opts LostChainOptions) ([]Event, bool) {
	seed, ok := p.Pop()
	if !ok {
		return nil, false
	}

	b := newBuilder()
	b.add(seed)
	b.walk(p, seed.NextID, Forward)
	b.walk(p, seed.PrevID, Backward)

	for {
		if b.reattach(p, NoEvent) == 0 || !opts.FixedPoint {
			break
		}
	}
	return b.events, true
}

// LostChain is a numbered fragment that no contact claimed.
type LostChain struct {
	Seq       int
	Protocol  models.Protocol
	Module    string
	Events    []Event
	Discarded bool
}

// ExtractorOptions configures an Extractor.
type ExtractorOptions struct {
	LostChainOptions
	// FirstSeq numbers the first extracted fragment.
	FirstSeq int
	// Discard lists protocols whose fragments are dropped instead of written.
	Discard []models.Protocol
}

// Extractor numbers lost chains as it drains a pool.
type Extractor struct {
	pool    *Pool
	opts    LostChainOptions
	seq     int
	discard map[models.Protocol]bool
}

// NewExtractor creates an Extractor over pool.
func NewExtractor(pool *Pool, opts ExtractorOptions) *Extractor {
	discard := make(map[models.Protocol]bool, len(opts.Discard))
	for _, p := range opts.Discard {
		discard[p] = true
	}
	return &Extractor{
		pool:    pool,
		opts:    opts.LostChainOptions,
		seq:     opts.FirstSeq,
		discard: discard,
	}
}

// Next extracts the next fragment. The sequence number advances for every
// fragment, discarded or not.
func (x *Extractor) Next() (LostChain, bool) {
	events, ok := NextLostChain(x.pool, x.opts)
	if !ok {
		return LostChain{}, false
	}
	module := events[0].Module
	proto := models.ClassifyModule(module)
	lc := LostChain{
		Seq:       x.seq,
		Protocol:  proto,
		Module:    module,
		Events:    events,
		Discarded: x.discard[proto],
	}
	x.seq++
	return lc, true
}

// All drains the pool.
func (x *Extractor) All() []LostChain {
	var out []LostChain
	for {
		lc, ok := x.Next()
		if !ok {
			return out
		}
		out = append(out, lc)
	}
}
