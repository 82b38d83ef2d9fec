package network

import (
	"combat-meter/pkg/api"
	"combat-meter/pkg/logger"
	"errors"
	"os"
	"testing"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func TestBroadcaster_NoSubscribers(t *testing.T) {
	b := NewBroadcaster()
	err := b.Emit(api.EventEncounterUpdate, api.EncounterView{ID: "x"})
	if !errors.Is(err, ErrNoSubscribers) {
		t.Fatalf("Expected ErrNoSubscribers, got %v", err)
	}

	// Снимок запоминается даже без подписчиков
	if last, ok := b.LastSnapshot(); !ok || last.ID != "x" {
		t.Errorf("Last snapshot = %+v, %v", last, ok)
	}
}

func TestBroadcaster_FanOut(t *testing.T) {
	b := NewBroadcaster()
	id1, ch1 := b.Register()
	_, ch2 := b.Register()

	if err := b.Emit(api.EventPauseEncounter, api.AckPayload{Paused: true}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for i, ch := range []chan api.ServerEvent{ch1, ch2} {
		msg := <-ch
		if msg.Event != api.EventPauseEncounter {
			t.Errorf("Subscriber %d got %q", i, msg.Event)
		}
	}

	b.Unregister(id1)
	if _, open := <-ch1; open {
		t.Error("Unregistered channel must be closed")
	}
	if b.SubscriberCount() != 1 {
		t.Errorf("SubscriberCount = %d, want 1", b.SubscriberCount())
	}
}

func TestBroadcaster_SlowSubscriberDoesNotBlock(t *testing.T) {
	b := NewBroadcaster()
	_, ch := b.Register()

	for i := 0; i < cap(ch)+10; i++ {
		if err := b.Emit(api.EventAdmin, api.AdminPayload{Message: "x"}); err != nil {
			t.Fatalf("Emit %d: %v", i, err)
		}
	}
	if len(ch) != cap(ch) {
		t.Errorf("Channel len = %d, want %d", len(ch), cap(ch))
	}
}
