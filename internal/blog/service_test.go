package blog

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sleepCounter struct {
	calls atomic.Int32
}

func (c *sleepCounter) sleep(time.Duration) { c.calls.Add(1) }

func newTestService(t *testing.T, opts ...Option) (*Service, *sleepCounter) {
	t.Helper()
	c := &sleepCounter{}
	opts = append([]Option{WithSleep(c.sleep)}, opts...)
	return NewService(opts...), c
}

func TestService_InitialState(t *testing.T) {
	svc, _ := newTestService(t)

	st := svc.GetState()
	assert.Equal(t, -1, st.Count)
	assert.Empty(t, st.Posts)
	assert.NotNil(t, st.Posts)
	assert.False(t, st.Loaded())
}

func TestService_SetStateMergesInOrder(t *testing.T) {
	svc, _ := newTestService(t)

	svc.SetState(Count(5))
	svc.SetState(Posts([]Post{{ID: 7, Title: "seven"}}))
	svc.SetState(Count(1))

	st := svc.GetState()
	assert.Equal(t, 1, st.Count)
	assert.Equal(t, []Post{{ID: 7, Title: "seven"}}, st.Posts)
}

func TestService_SetStateCopiesPosts(t *testing.T) {
	svc, _ := newTestService(t)
	posts := []Post{{ID: 1, Title: "a"}}

	svc.SetState(Posts(posts))
	posts[0].Title = "changed"

	assert.Equal(t, "a", svc.GetState().Posts[0].Title)
}

func TestService_EmptySetStateStillBroadcasts(t *testing.T) {
	svc, _ := newTestService(t)
	var seen []State
	svc.Subscribe(func(st State) { seen = append(seen, st) })

	svc.SetState()

	require.Len(t, seen, 2)
	assert.Equal(t, seen[0], seen[1])
}

func TestService_SubscribeReplaysLatest(t *testing.T) {
	svc, _ := newTestService(t)
	svc.SetState(Count(3))

	var got []int
	svc.Subscribe(func(st State) { got = append(got, st.Count) })

	// Delivered before Subscribe returned.
	assert.Equal(t, []int{3}, got)

	svc.SetState(Count(4))
	assert.Equal(t, []int{3, 4}, got)
}

func TestService_BroadcastInSubscriptionOrder(t *testing.T) {
	svc, _ := newTestService(t)

	var order []string
	svc.Subscribe(func(State) { order = append(order, "first") })
	svc.Subscribe(func(State) { order = append(order, "second") })
	svc.Subscribe(func(State) { order = append(order, "third") })
	order = nil

	svc.SetState(Count(0))
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestService_Unsubscribe(t *testing.T) {
	svc, _ := newTestService(t)

	calls := 0
	unsubscribe := svc.Subscribe(func(State) { calls++ })
	require.Equal(t, 1, svc.SubscriberCount())

	unsubscribe()
	for i := 0; i < 5; i++ {
		svc.SetState(Count(i))
	}
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, svc.SubscriberCount())

	assert.NotPanics(t, func() { unsubscribe() })
	assert.Equal(t, 0, svc.SubscriberCount())
}

func TestService_UnsubscribeOnlyRemovesOwnObserver(t *testing.T) {
	svc, _ := newTestService(t)

	var a, b int
	unsubA := svc.Subscribe(func(State) { a++ })
	svc.Subscribe(func(State) { b++ })

	unsubA()
	unsubA()
	svc.SetState()

	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)
	assert.Equal(t, 1, svc.SubscriberCount())
}

func TestService_UnsubscribeFromObserver(t *testing.T) {
	svc, _ := newTestService(t)

	calls := 0
	var unsubscribe Unsubscribe
	unsubscribe = svc.Subscribe(func(st State) {
		calls++
		if st.Count == 1 {
			unsubscribe()
		}
	})

	svc.SetState(Count(1))
	svc.SetState(Count(2))

	assert.Equal(t, 2, calls)
	assert.Equal(t, 0, svc.SubscriberCount())
}

func TestService_UpdateWithoutPartialsDoesNotBroadcast(t *testing.T) {
	svc, _ := newTestService(t)

	calls := 0
	svc.Subscribe(func(State) { calls++ })

	svc.Update(func(State) []Partial { return nil })
	assert.Equal(t, 1, calls)

	svc.Update(func(cur State) []Partial { return []Partial{Count(cur.Count + 10)} })
	assert.Equal(t, 2, calls)
	assert.Equal(t, 9, svc.GetState().Count)
}

func TestService_GetStateReturnsCopy(t *testing.T) {
	svc, _ := newTestService(t)
	svc.SetState(Posts([]Post{{ID: 1, Title: "original"}}))

	var replayed State
	svc.Subscribe(func(st State) { replayed = st })

	st := svc.GetState()
	st.Posts[0].Title = "changed by caller"

	assert.Equal(t, "original", svc.GetState().Posts[0].Title)
	assert.Equal(t, "original", replayed.Posts[0].Title)
}
