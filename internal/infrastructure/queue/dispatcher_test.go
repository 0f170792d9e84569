package queue

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/99minutos/staff-accounts/internal/core/domain"
)

type recordingRepo struct {
	mu     sync.Mutex
	events []domain.AuthEvent
	err    error
}

func (r *recordingRepo) InsertEvent(_ context.Context, e *domain.AuthEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, *e)
	return nil
}

func TestDispatcher_WritesEventsInOrderPerAccount(t *testing.T) {
	repo := &recordingRepo{}
	d := NewDispatcher(3, repo, zerolog.Nop())
	d.Start(context.Background())

	types := []domain.AuthEventType{domain.EventRegistered, domain.EventLoginFailed, domain.EventLoginSucceeded, domain.EventLogout}
	for _, typ := range types {
		d.Publish(domain.AuthEvent{Type: typ, Email: "a@x.com"})
	}
	d.Close()

	if len(repo.events) != len(types) {
		t.Fatalf("expected %d events, got %d", len(types), len(repo.events))
	}
	for i, typ := range types {
		if repo.events[i].Type != typ {
			t.Fatalf("event %d: expected %s, got %s", i, typ, repo.events[i].Type)
		}
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(8, &recordingRepo{}, zerolog.Nop())

	first := d.shardIndex("a@x.com")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("a@x.com"); got != first {
			t.Fatalf("shard index changed: %d vs %d", got, first)
		}
	}
	if first < 0 || first >= 8 {
		t.Fatalf("shard index out of range: %d", first)
	}
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	d := NewDispatcher(1, &recordingRepo{}, zerolog.Nop())
	// Not started: nothing drains the channel.
	for i := 0; i < channelBuffer+10; i++ {
		d.Publish(domain.AuthEvent{Type: domain.EventLoginFailed, Email: "a@x.com"})
	}
	if got := len(d.workers[0]); got != channelBuffer {
		t.Fatalf("expected buffer to hold %d events, got %d", channelBuffer, got)
	}
}

func TestDispatcher_WriteFailuresDoNotStopWorker(t *testing.T) {
	repo := &recordingRepo{err: errors.New("mongo down")}
	d := NewDispatcher(1, repo, zerolog.Nop())
	d.Start(context.Background())

	d.Publish(domain.AuthEvent{Type: domain.EventLogout, Email: "a@x.com"})
	d.Publish(domain.AuthEvent{Type: domain.EventLogout, Email: "a@x.com"})
	d.Close()

	if len(repo.events) != 0 {
		t.Fatalf("expected no stored events")
	}
	// Publishing after Close must not panic.
	d.Publish(domain.AuthEvent{Type: domain.EventLogout, Email: "a@x.com"})
}
