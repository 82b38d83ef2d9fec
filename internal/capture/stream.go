package capture

import (
	"bufio"
	"combat-meter/internal/packets"
	"combat-meter/pkg/logger"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// maxStreamFrame - верхняя граница нагрузки одного кадра в потоке
const maxStreamFrame = 1 << 20

// StreamSource читает кадры из TCP потока локального агента захвата.
// Формат кадра: [u16 opcode][u32 длина][нагрузка], little-endian.
type StreamSource struct {
	conn   net.Conn
	frames chan packets.Frame
	done   chan struct{}
	now    func() time.Time
	once   sync.Once
}

// DialStream подключается к агенту захвата
func DialStream(ctx context.Context, addr string) (*StreamSource, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial capture stream %s: %w", addr, err)
	}
	return NewStreamSource(conn, time.Now), nil
}

func NewStreamSource(conn net.Conn, now func() time.Time) *StreamSource {
	s := &StreamSource{
		conn:   conn,
		frames: make(chan packets.Frame, frameBuffer),
		done:   make(chan struct{}),
		now:    now,
	}
	go s.pump()
	return s
}

func (s *StreamSource) Frames() <-chan packets.Frame { return s.frames }

func (s *StreamSource) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		err = s.conn.Close()
	})
	return err
}

func (s *StreamSource) pump() {
	defer close(s.frames)

	log := logger.Log.WithFields(logrus.Fields{
		"component": "stream",
		"remote":    s.conn.RemoteAddr().String(),
	})
	log.Info("Capture stream connected")

	r := bufio.NewReader(s.conn)
	for {
		f, err := ReadStreamFrame(r)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				log.Info("Capture stream closed")
			} else {
				log.WithError(err).Warn("Capture stream failed")
			}
			return
		}
		f.Timestamp = s.now()

		select {
		case s.frames <- f:
		case <-s.done:
			return
		}
	}
}

// ReadStreamFrame читает один кадр. Чистый EOF на границе кадра возвращается как io.EOF.
func ReadStreamFrame(r io.Reader) (packets.Frame, error) {
	var head [6]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return packets.Frame{}, fmt.Errorf("truncated frame header: %w", err)
		}
		return packets.Frame{}, err
	}

	op := binary.LittleEndian.Uint16(head[0:2])
	n := binary.LittleEndian.Uint32(head[2:6])
	if n > maxStreamFrame {
		return packets.Frame{}, fmt.Errorf("frame %s too large: %d bytes", packets.Opcode(op), n)
	}

	data := make([]byte, n)
	if _, err := io.ReadFull(r, data); err != nil {
		return packets.Frame{}, fmt.Errorf("truncated frame %s: %w", packets.Opcode(op), err)
	}
	return packets.Frame{Opcode: packets.Opcode(op), Data: data}, nil
}

// WriteStreamFrame пишет кадр в формате потока (агенты захвата и тесты)
func WriteStreamFrame(w io.Writer, f packets.Frame) error {
	var head [6]byte
	binary.LittleEndian.PutUint16(head[0:2], uint16(f.Opcode))
	binary.LittleEndian.PutUint32(head[2:6], uint32(len(f.Data)))
	if _, err := w.Write(head[:]); err != nil {
		return err
	}
	_, err := w.Write(f.Data)
	return err
}
