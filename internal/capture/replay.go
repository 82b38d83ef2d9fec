package capture

import (
	"combat-meter/internal/infrastructure/storage"
	"combat-meter/internal/packets"
	"combat-meter/pkg/logger"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ReplaySource воспроизводит сохраненную запись захвата.
// В режиме realtime паузы между кадрами повторяют исходные.
type ReplaySource struct {
	rec      *storage.Recording
	realtime bool

	frames chan packets.Frame
	done   chan struct{}
	once   sync.Once
}

func NewReplaySource(rec *storage.Recording, realtime bool) *ReplaySource {
	s := &ReplaySource{
		rec:      rec,
		realtime: realtime,
		frames:   make(chan packets.Frame, frameBuffer),
		done:     make(chan struct{}),
	}
	go s.pump()
	return s
}

func (s *ReplaySource) Frames() <-chan packets.Frame { return s.frames }

func (s *ReplaySource) Close() error {
	s.once.Do(func() { close(s.done) })
	return nil
}

func (s *ReplaySource) pump() {
	defer close(s.frames)

	log := logger.Log.WithFields(logrus.Fields{
		"component": "replay",
		"frames":    len(s.rec.Frames),
		"realtime":  s.realtime,
	})
	log.Info("Replay started")

	var prev time.Time
	for i, f := range s.rec.Frames {
		if s.realtime && i > 0 {
			if gap := f.Timestamp.Sub(prev); gap > 0 {
				timer := time.NewTimer(gap)
				select {
				case <-timer.C:
				case <-s.done:
					timer.Stop()
					log.Info("Replay interrupted")
					return
				}
			}
		}
		prev = f.Timestamp

		select {
		case s.frames <- f:
		case <-s.done:
			log.Info("Replay interrupted")
			return
		}
	}

	log.Info("Replay finished")
}
