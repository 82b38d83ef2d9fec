package storage

import (
	"bufio"
	"combat-meter/internal/packets"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"time"
)

// maxFrameLen - защита от битых файлов: реальный пакет столько не весит
const maxFrameLen = 1 << 24

func (s *RecordingService) Load(path string) (*Recording, error) {
	return Load(path)
}

func Load(path string) (*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadRecording(bufio.NewReader(f))
}

func ReadRecording(r io.Reader) (*Recording, error) {
	var header RecordingFileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	if string(header.Magic[:]) != MagicHeader {
		return nil, ErrInvalidMagic
	}
	if header.Version != Version1 {
		return nil, fmt.Errorf("unsupported version: %d (expected %d)", header.Version, Version1)
	}

	rec := &Recording{
		Start:  time.UnixMilli(header.StartMilli),
		Frames: make([]packets.Frame, 0, min(header.FrameCount, 4096)),
	}

	for i := 0; i < int(header.FrameCount); i++ {
		var fh FrameHeader
		if err := binary.Read(r, binary.LittleEndian, &fh); err != nil {
			return nil, fmt.Errorf("frame %d: failed to read header: %w", i, err)
		}
		if fh.DataLen > maxFrameLen {
			return nil, fmt.Errorf("frame %d: payload too long: %d", i, fh.DataLen)
		}

		fr := packets.Frame{
			Opcode:    packets.Opcode(fh.Opcode),
			Timestamp: rec.Start.Add(time.Duration(fh.OffsetMilli) * time.Millisecond),
		}
		if fh.DataLen > 0 {
			fr.Data = make([]byte, fh.DataLen)
			if _, err := io.ReadFull(r, fr.Data); err != nil {
				return nil, fmt.Errorf("frame %d: failed to read payload: %w", i, err)
			}
		}
		rec.Frames = append(rec.Frames, fr)
	}

	return rec, nil
}
