package engine

//go:generate go tool mockgen -destination=./mocks/sink_mock.go -package=mocks . Sink

// Sink - внешний получатель именованных событий (encounter-update, подтверждения, admin).
// Вызывается из отдельных горутин, реализация должна быть потокобезопасной.
type Sink interface {
	Emit(event string, payload any) error
}
