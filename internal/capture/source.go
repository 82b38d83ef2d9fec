package capture

import (
	"combat-meter/internal/packets"
)

// Source - упорядоченный поток кадров. Канал закрывается, когда захват завершился
// (конец записи, обрыв соединения или Close).
type Source interface {
	Frames() <-chan packets.Frame
	Close() error
}

// frameBuffer - емкость канала кадров между чтением и циклом диспетчеризации
const frameBuffer = 256
