package engine

import (
	"combat-meter/pkg/api"
	"combat-meter/pkg/logger"
	"sync/atomic"
)

// Controller принимает команды извне (WebSocket, сигналы). Команды не ставятся в очередь:
// они сливаются во флаги, которые цикл читает один раз за итерацию, поэтому ничего не теряется.
// Подтверждения отправляются сразу, не дожидаясь, пока цикл их увидит.
type Controller struct {
	sink   Sink
	paused atomic.Bool
	reset  atomic.Bool
}

func newController(sink Sink) *Controller {
	return &Controller{sink: sink}
}

// RequestReset - сброс всего отслеживаемого состояния (fire-and-forget).
// Несколько запросов до следующего пакета схлопываются в один сброс.
func (c *Controller) RequestReset() {
	c.reset.Store(true)
	logger.Log.Info("Resetting meter")
	c.ack(api.EventResetEncounter, api.AckPayload{Paused: c.paused.Load()})
}

// TogglePause переключает прием пакетов и возвращает новое состояние
func (c *Controller) TogglePause() bool {
	for {
		prev := c.paused.Load()
		if c.paused.CompareAndSwap(prev, !prev) {
			if prev {
				logger.Log.Info("Unpausing meter")
			} else {
				logger.Log.Info("Pausing meter")
			}
			c.ack(api.EventPauseEncounter, api.AckPayload{Paused: !prev})
			return !prev
		}
	}
}

func (c *Controller) Paused() bool {
	return c.paused.Load()
}

// takeReset читает и гасит запрос сброса
func (c *Controller) takeReset() bool {
	return c.reset.Swap(false)
}

// Handle разбирает входящую команду клиента
func (c *Controller) Handle(cmd api.ClientCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	switch cmd.Event {
	case api.EventResetRequest:
		c.RequestReset()
	case api.EventPauseRequest:
		c.TogglePause()
	}
	return nil
}

func (c *Controller) ack(event string, payload api.AckPayload) {
	if c.sink == nil {
		return
	}
	if err := c.sink.Emit(event, payload); err != nil {
		logger.Log.WithError(err).WithField("event", event).Debug("Ack not delivered")
	}
}
