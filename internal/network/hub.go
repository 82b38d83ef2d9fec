package network

import (
	"combat-meter/pkg/api"
	"combat-meter/pkg/logger"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrNoSubscribers - событие некому доставить (UI не подключен)
var ErrNoSubscribers = errors.New("no subscribers")

// Broadcaster занимается только рассылкой событий подписчикам
type Broadcaster struct {
	mu sync.RWMutex
	// Мапа: ID подписчика -> Личный канал
	subscribers map[uuid.UUID]chan api.ServerEvent

	// Последний опубликованный снимок (для новых подписчиков и /debug/encounter)
	last    api.EncounterView
	hasLast bool
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[uuid.UUID]chan api.ServerEvent),
	}
}

// Register создает личный канал подписчика
func (b *Broadcaster) Register() (uuid.UUID, chan api.ServerEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := uuid.New()
	ch := make(chan api.ServerEvent, 100)
	b.subscribers[id] = ch
	return id, ch
}

// Unregister удаляет подписчика и закрывает его канал
func (b *Broadcaster) Unregister(id uuid.UUID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subscribers[id]; ok {
		close(ch)
		delete(b.subscribers, id)
	}
}

// Emit рассылает событие всем подписчикам. Медленный подписчик пропускает событие,
// отправитель никогда не блокируется.
func (b *Broadcaster) Emit(event string, payload any) error {
	msg := api.ServerEvent{Event: event, Payload: payload}

	if view, ok := payload.(api.EncounterView); ok && event == api.EventEncounterUpdate {
		b.mu.Lock()
		b.last = view
		b.hasLast = true
		b.mu.Unlock()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if len(b.subscribers) == 0 {
		return ErrNoSubscribers
	}
	for id, ch := range b.subscribers {
		select {
		case ch <- msg:
		default:
			logger.Log.WithField("subscriber", id.String()).Debug("Hub: channel full, event skipped")
		}
	}
	return nil
}

// LastSnapshot возвращает последний опубликованный снимок энкаунтера
func (b *Broadcaster) LastSnapshot() (api.EncounterView, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.last, b.hasLast
}

// SubscriberCount возвращает количество активных подписчиков.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
