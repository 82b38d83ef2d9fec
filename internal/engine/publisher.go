package engine

import (
	"combat-meter/internal/domain"
	"combat-meter/internal/encounter"
	"combat-meter/internal/network"
	"combat-meter/pkg/api"
	"combat-meter/pkg/logger"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

// maybePublish решает, пора ли публиковать: прошел интервал, закончился энкаунтер
// или в этой итерации умер босс. Копия уходит издателю, цикл не ждет доставки.
func (m *Meter) maybePublish() {
	now := m.cfg.Clock()
	bossDead := m.state.TakeBossDead()
	enc := m.state.Encounter

	if now.Sub(m.lastPublish) < m.cfg.PublishInterval && !enc.RaidEnd && !bossDead {
		return
	}
	m.lastPublish = now

	m.publisher.enqueue(publishJob{
		snapshot: enc.Clone(),
		bossDead: bossDead,
		edge:     enc.RaidEnd || bossDead,
	})

	// Энкаунтер закончен: готовим цикл к следующему без перезапуска
	if enc.RaidEnd {
		logger.Log.WithFields(logrus.Fields{
			"encounter": enc.ID,
			"saved":     enc.Saved,
		}).Info("Encounter rolled over")
		m.state.SoftReset()
	}
}

type publishJob struct {
	snapshot *domain.Encounter
	bossDead bool
	// edge - конец энкаунтера или смерть босса, такие снимки не вытесняются
	edge bool
}

// publisher - одна горутина доставки. Снимки уходят в порядке создания,
// обычный снимок, который еще не забрали, заменяется более свежим.
type publisher struct {
	sink Sink

	mu    sync.Mutex
	queue []publishJob

	wake chan struct{}
	done chan struct{}
}

func newPublisher(sink Sink) *publisher {
	return &publisher{
		sink: sink,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// enqueue никогда не блокируется
func (p *publisher) enqueue(job publishJob) {
	p.mu.Lock()
	if n := len(p.queue); n > 0 && !p.queue[n-1].edge {
		p.queue[n-1] = job
	} else {
		p.queue = append(p.queue, job)
	}
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *publisher) next() (publishJob, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.queue) == 0 {
		return publishJob{}, false
	}
	job := p.queue[0]
	p.queue[0] = publishJob{}
	p.queue = p.queue[1:]
	return job, true
}

func (p *publisher) run() {
	defer close(p.done)
	for range p.wake {
		p.drain()
	}
	p.drain()
}

func (p *publisher) drain() {
	for {
		job, ok := p.next()
		if !ok {
			return
		}
		p.deliver(job)
	}
}

// close дожидается доставки всего, что уже в очереди. Вызывается только циклом.
func (p *publisher) close() {
	close(p.wake)
	<-p.done
}

// deliver работает только со своей копией и никогда не трогает живое состояние.
// Ошибка синка логируется, повторов нет.
func (p *publisher) deliver(job publishJob) {
	prepared, ok := encounter.Prepare(job.snapshot, job.bossDead)
	if !ok {
		return
	}

	view := BuildView(prepared)
	if err := p.sink.Emit(api.EventEncounterUpdate, view); err != nil {
		entry := logger.Log.WithError(err).WithField("encounter", prepared.ID)
		if errors.Is(err, network.ErrNoSubscribers) {
			entry.Debug("Encounter update not delivered")
			return
		}
		entry.Warn("Encounter update failed")
	}
}
