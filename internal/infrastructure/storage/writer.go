package storage

import (
	"bufio"
	"combat-meter/internal/packets"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"
)

const (
	MagicHeader string = `MTRC` // 4 байта
	Version1    uint32 = 1
)

var ErrInvalidMagic = errors.New("storage: invalid magic")

// RecordingFileHeader - точное представление заголовка файла.
// Только числа и массивы, поэтому binary.Write пишет его целиком.
type RecordingFileHeader struct {
	Magic      [4]byte // 4 байта
	Version    uint32  // 4 байта
	StartMilli int64   // 8 байт, unix ms первого кадра
	FrameCount uint32  // 4 байта
}

// FrameHeader - заголовок каждого кадра.
type FrameHeader struct {
	Opcode      uint16 // 2
	OffsetMilli uint32 // 4, от StartMilli
	DataLen     uint32 // 4
}

// Recording - запись сессии захвата: кадры в порядке поступления.
type Recording struct {
	Start  time.Time
	Frames []packets.Frame
}

// Append добавляет кадр. Время начала берется из первого кадра.
func (r *Recording) Append(f packets.Frame) {
	if len(r.Frames) == 0 && r.Start.IsZero() {
		r.Start = f.Timestamp
	}
	r.Frames = append(r.Frames, f)
}

type RecordingService struct {
	SaveDir string
}

func NewRecordingService(dir string) (*RecordingService, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create recording dir: %w", err)
	}
	return &RecordingService{SaveDir: dir}, nil
}

// Save пишет запись в SaveDir и возвращает путь к файлу
func (s *RecordingService) Save(rec *Recording) (string, error) {
	filename := fmt.Sprintf("capture_%d_%d.mtrc", rec.Start.UnixMilli(), len(rec.Frames))
	path := filepath.Join(s.SaveDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if err := WriteRecording(bw, rec); err != nil {
		return "", err
	}
	if err := bw.Flush(); err != nil {
		return "", err
	}
	return path, nil
}

func WriteRecording(w io.Writer, rec *Recording) error {
	if uint64(len(rec.Frames)) > math.MaxUint32 {
		return fmt.Errorf("too many frames: %d", len(rec.Frames))
	}

	header := RecordingFileHeader{
		Version:    Version1,
		StartMilli: rec.Start.UnixMilli(),
		FrameCount: uint32(len(rec.Frames)),
	}
	copy(header.Magic[:], MagicHeader)

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, fr := range rec.Frames {
		offset := fr.Timestamp.Sub(rec.Start).Milliseconds()
		if offset < 0 || offset > math.MaxUint32 {
			return fmt.Errorf("frame %d: timestamp offset out of range: %dms", i, offset)
		}
		if uint64(len(fr.Data)) > math.MaxUint32 {
			return fmt.Errorf("frame %d: payload too long: %d", i, len(fr.Data))
		}

		fh := FrameHeader{
			Opcode:      uint16(fr.Opcode),
			OffsetMilli: uint32(offset),
			DataLen:     uint32(len(fr.Data)),
		}
		if err := binary.Write(w, binary.LittleEndian, &fh); err != nil {
			return err
		}
		if len(fr.Data) > 0 {
			if _, err := w.Write(fr.Data); err != nil {
				return err
			}
		}
	}

	return nil
}
