package engine

import (
	"combat-meter/internal/encounter"
	"combat-meter/internal/packets"
	"combat-meter/pkg/logger"
	"time"

	"github.com/sirupsen/logrus"
)

// Source - упорядоченный поток кадров захвата. Канал закрывается, когда захват завершен.
type Source interface {
	Frames() <-chan packets.Frame
}

// Meter - цикл диспетчеризации. Единственный владелец трекеров и агрегатора.
type Meter struct {
	cfg  Config
	sink Sink

	trackers *Trackers
	state    *encounter.State
	control  *Controller

	paused      bool
	lastPublish time.Time

	// publisher живет, пока крутится Run
	publisher *publisher
}

func NewMeter(cfg Config, sink Sink) *Meter {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.PublishInterval <= 0 {
		cfg.PublishInterval = NewConfig().PublishInterval
	}
	return &Meter{
		cfg:      cfg,
		sink:     sink,
		trackers: NewTrackers(cfg.Clock),
		state:    encounter.NewState(cfg.Clock),
		control:  newController(sink),
	}
}

// Controller - вход плоскости управления (reset/pause)
func (m *Meter) Controller() *Controller {
	return m.control
}

func (m *Meter) Trackers() *Trackers {
	return m.trackers
}

func (m *Meter) State() *encounter.State {
	return m.state
}

// Run обрабатывает кадры строго в порядке поступления, пока источник не закроется.
func (m *Meter) Run(src Source) {
	logger.Log.Info("Dispatch loop started")
	frames := 0

	m.publisher = newPublisher(m.sink)
	go m.publisher.run()

	for frame := range src.Frames() {
		frames++

		// 1. Флаги управления, один раз на пакет
		m.pollControl()

		// 2. Пауза: пакет выбрасывается необработанным
		if m.paused {
			continue
		}

		// 3. Разбор и маршрутизация
		if !m.dispatch(frame) {
			continue
		}

		// 4. Публикация
		m.maybePublish()
	}

	m.publisher.close()
	logger.Log.WithField("frames", frames).Info("Dispatch loop stopped: source closed")
}

// pollControl применяет накопившиеся сброс и паузу. Сброс идет первым.
func (m *Meter) pollControl() {
	if m.control.takeReset() {
		m.reset()
		logger.Log.Info("Meter reset applied")
	}
	if paused := m.control.Paused(); paused != m.paused {
		m.paused = paused
		logger.Log.WithField("paused", paused).Info("Pause state applied")
	}
}

// reset - пользовательский сброс: агрегатор и эффекты очищаются, из сущностей остается
// только локальный игрок. Карты идентификаторов и партии сохраняются.
func (m *Meter) reset() {
	m.state.SoftReset()
	m.trackers.Entities.TrimToLocal()
}

// dispatch вернет false для опкодов вне закрытого набора (проверка публикации пропускается)
func (m *Meter) dispatch(frame packets.Frame) bool {
	if !frame.Opcode.Known() {
		return false
	}

	pkt, err := packets.Decode(frame.Opcode, frame.Data)
	if err != nil {
		logger.Log.WithError(err).WithFields(logrus.Fields{
			"opcode": frame.Opcode.String(),
			"size":   len(frame.Data),
		}).Warn("Packet dropped")
		return true
	}

	m.route(pkt)
	return true
}
