package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWalk_Forward(t *testing.T) {
	p := NewPool([]Event{ev(1, 0, 2), ev(2, 1, 3), ev(3, 2, 0), ev(4, 0, 0)})
	got := Walk(p, 1, Forward)
	assert.Equal(t, []EventID{1, 2, 3}, ids(got))
	assert.Equal(t, []EventID{4}, p.IDs())
}

func TestWalk_Backward(t *testing.T) {
	p := NewPool([]Event{ev(1, 0, 2), ev(2, 1, 3), ev(3, 2, 0)})
	got := Walk(p, 3, Backward)
	assert.Equal(t, []EventID{3, 2, 1}, ids(got))
	assert.Equal(t, 0, p.Len())
}

func TestWalk_AbsentStartIsEmpty(t *testing.T) {
	p := NewPool([]Event{ev(1, 0, 0)})
	assert.Empty(t, Walk(p, 42, Forward))
	assert.Empty(t, Walk(p, NoEvent, Backward))
	assert.Equal(t, 1, p.Len())
}

func TestWalk_DanglingLinkStops(t *testing.T) {
	p := NewPool([]Event{ev(1, 0, 99)})
	assert.Equal(t, []EventID{1}, ids(Walk(p, 1, Forward)))
}

func TestWalk_CycleTerminates(t *testing.T) {
	p := NewPool([]Event{ev(1, 3, 2), ev(2, 1, 3), ev(3, 2, 1)})
	got := Walk(p, 2, Forward)
	assert.Equal(t, []EventID{2, 3, 1}, ids(got))
	assert.Equal(t, 0, p.Len())
}
