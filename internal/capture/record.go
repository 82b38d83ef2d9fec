package capture

import (
	"combat-meter/internal/infrastructure/storage"
	"combat-meter/internal/packets"
	"sync"
)

// Recorder - тройник: пропускает кадры источника дальше и складывает их в запись.
type Recorder struct {
	src    Source
	frames chan packets.Frame

	mu  sync.Mutex
	rec storage.Recording
}

func NewRecorder(src Source) *Recorder {
	r := &Recorder{
		src:    src,
		frames: make(chan packets.Frame, frameBuffer),
	}
	go r.pump()
	return r
}

func (r *Recorder) Frames() <-chan packets.Frame { return r.frames }
func (r *Recorder) Close() error                 { return r.src.Close() }

func (r *Recorder) pump() {
	defer close(r.frames)
	for f := range r.src.Frames() {
		r.mu.Lock()
		r.rec.Append(f)
		r.mu.Unlock()
		r.frames <- f
	}
}

// Recording возвращает копию накопленной записи
func (r *Recorder) Recording() *storage.Recording {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := &storage.Recording{
		Start:  r.rec.Start,
		Frames: make([]packets.Frame, len(r.rec.Frames)),
	}
	copy(out.Frames, r.rec.Frames)
	return out
}
