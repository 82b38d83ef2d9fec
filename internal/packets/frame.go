package packets

import "time"

// Frame - сырой кадр источника захвата: опкод и нераспарсенная нагрузка.
type Frame struct {
	Opcode Opcode
	Data   []byte

	// Timestamp - момент захвата (для записи и воспроизведения в реальном времени)
	Timestamp time.Time
}
