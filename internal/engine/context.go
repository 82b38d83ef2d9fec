package engine

import (
	"combat-meter/internal/trackers"
	"time"
)

// Trackers - общий контекст трекеров. Владелец один - цикл диспетчеризации,
// все мутации синхронные, поэтому блокировок здесь нет.
type Trackers struct {
	IDs      *trackers.IDTracker
	Parties  *trackers.PartyTracker
	Status   *trackers.StatusTracker
	Entities *trackers.EntityTracker
}

func NewTrackers(now func() time.Time) *Trackers {
	ids := trackers.NewIDTracker()
	parties := trackers.NewPartyTracker(ids)
	status := trackers.NewStatusTracker(parties, now)
	return &Trackers{
		IDs:      ids,
		Parties:  parties,
		Status:   status,
		Entities: trackers.NewEntityTracker(ids, parties, status),
	}
}
