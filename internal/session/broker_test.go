package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/numberfinder/backend/internal/domain"
)

func TestBroker_FanOut(t *testing.T) {
	b := NewBroker(4)
	a, cancelA := b.Subscribe()
	defer cancelA()
	c, cancelC := b.Subscribe()
	defer cancelC()

	b.PublishProgress(domain.UploadProgress{Phase: domain.PhaseUploading, Uploaded: 5, Total: 20})

	for _, ch := range []<-chan Event{a, c} {
		ev := <-ch
		require.Equal(t, EventProgress, ev.Kind)
		assert.Equal(t, 5, ev.Progress.Uploaded)
	}
}

func TestBroker_SlowSubscriberDoesNotBlock(t *testing.T) {
	b := NewBroker(1)
	ch, cancel := b.Subscribe()
	defer cancel()

	b.Publish(Event{Kind: EventSearch, Search: &SearchSummary{Query: "first"}})
	b.Publish(Event{Kind: EventSearch, Search: &SearchSummary{Query: "second"}})

	ev := <-ch
	assert.Equal(t, "first", ev.Search.Query)
	select {
	case <-ch:
		t.Fatal("overflowing event should have been dropped")
	default:
	}
}

func TestBroker_CancelClosesAndIsIdempotent(t *testing.T) {
	b := NewBroker(0)
	ch, cancel := b.Subscribe()
	assert.Equal(t, 1, b.Subscribers())

	cancel()
	cancel()

	_, open := <-ch
	assert.False(t, open)
	assert.Zero(t, b.Subscribers())

	b.Publish(Event{Kind: EventSearch, Search: &SearchSummary{}})
}
