package chain

import (
	"testing"

	"github.com/josephgoksu/qutimport/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextLostChain_EmptyPool(t *testing.T) {
	_, ok := NextLostChain(NewPool(nil), LostChainOptions{})
	assert.False(t, ok)
}

func TestExtractor_ThreeDisconnectedFragments(t *testing.T) {
	p := NewPool([]Event{ev(1, 0, 2), ev(2, 1, 0), ev(3, 0, 0), ev(4, 0, 5), ev(5, 4, 6), ev(6, 5, 0)})
	x := NewExtractor(p, ExtractorOptions{FirstSeq: 100})

	first, ok := x.Next()
	require.True(t, ok)
	assert.Equal(t, 100, first.Seq)
	assert.Equal(t, []EventID{6, 5, 4}, ids(first.Events))

	second, ok := x.Next()
	require.True(t, ok)
	assert.Equal(t, 101, second.Seq)
	assert.Equal(t, []EventID{3}, ids(second.Events))

	third, ok := x.Next()
	require.True(t, ok)
	assert.Equal(t, 102, third.Seq)
	assert.Equal(t, []EventID{2, 1}, ids(third.Events))

	_, ok = x.Next()
	assert.False(t, ok)
}

func TestNextLostChain_GrowsBothWaysFromSeed(t *testing.T) {
	p := NewPool([]Event{ev(1, 0, 2), ev(3, 2, 0), ev(2, 1, 3)})
	got, ok := NextLostChain(p, LostChainOptions{})
	require.True(t, ok)
	assert.Equal(t, []EventID{2, 3, 1}, ids(got))
}

func TestNextLostChain_FixedPointAbsorbsLateOrphans(t *testing.T) {
	// 1 only reaches the fragment through 2, which is scanned after it.
	input := []Event{ev(1, 0, 2), ev(2, 0, 3), ev(3, 0, 0)}

	p := NewPool(input)
	single, ok := NextLostChain(p, LostChainOptions{FixedPoint: false})
	require.True(t, ok)
	assert.Equal(t, []EventID{3, 2}, ids(single))
	assert.Equal(t, []EventID{1}, p.IDs())

	p = NewPool(input)
	full, ok := NextLostChain(p, LostChainOptions{FixedPoint: true})
	require.True(t, ok)
	assert.Equal(t, []EventID{3, 2, 1}, ids(full))
	assert.Equal(t, 0, p.Len())
}

func TestExtractor_DiscardStillAdvancesSequence(t *testing.T) {
	irc := ev(1, 0, 0)
	irc.Module = "IRC"
	jabber := ev(2, 0, 0)
	jabber.Module = "JABBER"
	other := ev(3, 0, 0)
	other.Module = "MetaContacts"

	x := NewExtractor(NewPool([]Event{irc, jabber, other}), ExtractorOptions{
		FirstSeq: 7,
		Discard:  []models.Protocol{models.ProtocolIRC},
	})
	chains := x.All()
	require.Len(t, chains, 3)

	assert.Equal(t, 7, chains[0].Seq)
	assert.Equal(t, models.ProtocolOther, chains[0].Protocol)
	assert.False(t, chains[0].Discarded)

	assert.Equal(t, 8, chains[1].Seq)
	assert.Equal(t, models.ProtocolJabber, chains[1].Protocol)

	assert.Equal(t, 9, chains[2].Seq)
	assert.Equal(t, models.ProtocolIRC, chains[2].Protocol)
	assert.True(t, chains[2].Discarded)
}

func TestChains_ConsumeWholePoolExactlyOnce(t *testing.T) {
	var input []Event
	// three contacts, each with a linked chain, plus broken and stray fragments
	for c := int64(0); c < 3; c++ {
		base := c * 100
		for i := int64(1); i <= 5; i++ {
			prev, next := base+i-1, base+i+1
			if i == 1 {
				prev = 0
			}
			if i == 5 {
				next = 0
			}
			input = append(input, ev(base+i, prev, next))
		}
	}
	input = append(input, ev(1000, 105, 1001), ev(1001, 1000, 0))
	input = append(input, ev(2000, 0, 2001), ev(2001, 2000, 2002), ev(2002, 2001, 0), ev(3000, 0, 0))

	p := NewPool(input)
	seen := map[EventID]int{}
	for c := int64(0); c < 3; c++ {
		base := c * 100
		for _, e := range Reconstruct(p, anchors(9000+c, base+1, 0, base+5)) {
			seen[e.ID]++
		}
	}
	for _, lc := range NewExtractor(p, ExtractorOptions{FirstSeq: 1, LostChainOptions: LostChainOptions{FixedPoint: true}}).All() {
		for _, e := range lc.Events {
			seen[e.ID]++
		}
	}

	assert.Equal(t, 0, p.Len())
	require.Len(t, seen, len(input))
	for id, n := range seen {
		assert.Equal(t, 1, n, "event %s consumed %d times", id, n)
	}
}
