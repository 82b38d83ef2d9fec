package packets

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

var (
	ErrShortPacket   = errors.New("packet too short")
	ErrUnknownOpcode = errors.New("unknown opcode")
	ErrBadLength     = errors.New("list length exceeds payload")
)

// Порядок байт протокола
var byteOrder = binary.LittleEndian

// Packet - типизированная запись одного опкода. Каждый опкод - отдельный тип (закрытый вариант).
type Packet interface {
	Opcode() Opcode
	decode(r *reader)
	encode(w *writer)
}

var factories = map[Opcode]func() Packet{
	OpCounterAttackNotify:           func() Packet { return &CounterAttackNotify{} },
	OpDeathNotify:                   func() Packet { return &DeathNotify{} },
	OpIdentityGaugeChangeNotify:     func() Packet { return &IdentityGaugeChangeNotify{} },
	OpInitEnv:                       func() Packet { return &InitEnv{} },
	OpInitPC:                        func() Packet { return &InitPC{} },
	OpMigrationExecute:              func() Packet { return &MigrationExecute{} },
	OpNewPC:                         func() Packet { return &NewPC{} },
	OpNewNpc:                        func() Packet { return &NewNpc{} },
	OpNewNpcSummon:                  func() Packet { return &NewNpcSummon{} },
	OpNewProjectile:                 func() Packet { return &NewProjectile{} },
	OpParalyzationStateNotify:       func() Packet { return &ParalyzationStateNotify{} },
	OpPartyInfo:                     func() Packet { return &PartyInfo{} },
	OpPartyLeaveResult:              func() Packet { return &PartyLeaveResult{} },
	OpPartyStatusEffectAddNotify:    func() Packet { return &PartyStatusEffectAddNotify{} },
	OpPartyStatusEffectRemoveNotify: func() Packet { return &PartyStatusEffectRemoveNotify{} },
	OpPartyStatusEffectResultNotify: func() Packet { return &PartyStatusEffectResultNotify{} },
	OpRaidBossKillNotify:            func() Packet { return &RaidBossKillNotify{} },
	OpRaidResult:                    func() Packet { return &RaidResult{} },
	OpRemoveObject:                  func() Packet { return &RemoveObject{} },
	OpSkillStartNotify:              func() Packet { return &SkillStartNotify{} },
	OpSkillDamageAbnormalMoveNotify: func() Packet { return &SkillDamageAbnormalMoveNotify{} },
	OpSkillDamageNotify:             func() Packet { return &SkillDamageNotify{} },
	OpStatusEffectAddNotify:         func() Packet { return &StatusEffectAddNotify{} },
	OpStatusEffectDurationNotify:    func() Packet { return &StatusEffectDurationNotify{} },
	OpStatusEffectRemoveNotify:      func() Packet { return &StatusEffectRemoveNotify{} },
	OpTriggerBossBattleStatus:       func() Packet { return &TriggerBossBattleStatus{} },
	OpTriggerStartNotify:            func() Packet { return &TriggerStartNotify{} },
	OpZoneObjectUnpublishNotify:     func() Packet { return &ZoneObjectUnpublishNotify{} },
}

// Decode разбирает полезную нагрузку опкода. Лишние байты в конце игнорируются.
func Decode(op Opcode, data []byte) (Packet, error) {
	factory, ok := factories[op]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOpcode, op)
	}

	p := factory()
	r := reader{buf: data}
	p.decode(&r)
	if r.err != nil {
		return nil, fmt.Errorf("decode %s: %w", op, r.err)
	}
	return p, nil
}

// Encode собирает полезную нагрузку пакета (используется записью захвата и тестами)
func Encode(p Packet) []byte {
	w := writer{}
	p.encode(&w)
	return w.buf
}

// --- READER ---

// reader - курсор по нагрузке. Первая ошибка "залипает", дальнейшие чтения возвращают нули.
type reader struct {
	buf []byte
	off int
	err error
}

func (r *reader) need(n int) bool {
	if r.err != nil {
		return false
	}
	if len(r.buf)-r.off < n {
		r.err = fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrShortPacket, n, r.off, len(r.buf)-r.off)
		return false
	}
	return true
}

func (r *reader) u8() uint8 {
	if !r.need(1) {
		return 0
	}
	v := r.buf[r.off]
	r.off++
	return v
}

func (r *reader) bool() bool {
	return r.u8() != 0
}

func (r *reader) u16() uint16 {
	if !r.need(2) {
		return 0
	}
	v := byteOrder.Uint16(r.buf[r.off:])
	r.off += 2
	return v
}

func (r *reader) u32() uint32 {
	if !r.need(4) {
		return 0
	}
	v := byteOrder.Uint32(r.buf[r.off:])
	r.off += 4
	return v
}

func (r *reader) i32() int32 {
	return int32(r.u32())
}

func (r *reader) u64() uint64 {
	if !r.need(8) {
		return 0
	}
	v := byteOrder.Uint64(r.buf[r.off:])
	r.off += 8
	return v
}

func (r *reader) i64() int64 {
	return int64(r.u64())
}

func (r *reader) f32() float32 {
	return math.Float32frombits(r.u32())
}

// str - строка с префиксом длины u16 (UTF-8)
func (r *reader) str() string {
	n := int(r.u16())
	if !r.need(n) {
		return ""
	}
	s := string(r.buf[r.off : r.off+n])
	r.off += n
	return s
}

// count читает длину списка и отсекает заведомо битые значения
func (r *reader) count() int {
	n := int(r.u16())
	if r.err == nil && n > len(r.buf)-r.off {
		r.err = fmt.Errorf("%w: %d items, %d bytes left", ErrBadLength, n, len(r.buf)-r.off)
		return 0
	}
	return n
}

func readList[T any](r *reader, read func(*reader) T) []T {
	n := r.count()
	if n == 0 {
		return nil
	}
	out := make([]T, 0, n)
	for i := 0; i < n && r.err == nil; i++ {
		out = append(out, read(r))
	}
	return out
}

// --- WRITER ---

type writer struct {
	buf []byte
}

func (w *writer) u8(v uint8) { w.buf = append(w.buf, v) }

func (w *writer) bool(v bool) {
	if v {
		w.u8(1)
		return
	}
	w.u8(0)
}

func (w *writer) u16(v uint16) { w.buf = byteOrder.AppendUint16(w.buf, v) }
func (w *writer) u32(v uint32) { w.buf = byteOrder.AppendUint32(w.buf, v) }
func (w *writer) i32(v int32)  { w.u32(uint32(v)) }
func (w *writer) u64(v uint64) { w.buf = byteOrder.AppendUint64(w.buf, v) }
func (w *writer) i64(v int64)  { w.u64(uint64(v)) }
func (w *writer) f32(v float32) {
	w.u32(math.Float32bits(v))
}

func (w *writer) str(s string) {
	w.u16(uint16(len(s)))
	w.buf = append(w.buf, s...)
}

func writeList[T any](w *writer, items []T, write func(*writer, T)) {
	w.u16(uint16(len(items)))
	for _, it := range items {
		write(w, it)
	}
}
