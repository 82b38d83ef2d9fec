package domain

import "time"

// Типы статов в списке пар (stat type -> value)
const (
	StatTypeHP    uint8 = 1
	StatTypeMaxHP uint8 = 27
)

// Параметры публикации
const (
	PublishInterval    = 100 * time.Millisecond
	AdminWarnInterval  = 5 * time.Second
	LocalPlayerDefault = "You"
)

// Коды TriggerStartNotify. Два непересекающихся множества, остальные коды ничего не меняют.
var (
	raidClearSignals = map[uint32]struct{}{57: {}, 59: {}, 61: {}, 63: {}, 74: {}, 76: {}}
	raidWipeSignals  = map[uint32]struct{}{58: {}, 60: {}, 62: {}, 64: {}, 75: {}, 77: {}}
)

// ClassifyTriggerSignal возвращает (raidClear, ok). ok == false - код не из закрытых множеств.
func ClassifyTriggerSignal(code uint32) (raidClear bool, ok bool) {
	if _, hit := raidClearSignals[code]; hit {
		return true, true
	}
	if _, hit := raidWipeSignals[code]; hit {
		return false, true
	}
	return false, false
}
