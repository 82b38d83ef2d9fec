package packets

// Вложенные структуры, общие для нескольких пакетов.

// StatPair - пара (тип стата, значение)
type StatPair struct {
	Type  uint8
	Value int64
}

func readStatPair(r *reader) StatPair {
	return StatPair{Type: r.u8(), Value: r.i64()}
}

func writeStatPair(w *writer, s StatPair) {
	w.u8(s.Type)
	w.i64(s.Value)
}

// StatusEffectData - описание эффекта в пакетах добавления
type StatusEffectData struct {
	EffectInstanceID uint32
	StatusEffectID   uint32
	SourceID         uint64
	TotalTime        float32 // секунды, 0 - бессрочный
	EndTick          uint64
	StackCount       uint8
	Value            int64
}

func readStatusEffectData(r *reader) StatusEffectData {
	return StatusEffectData{
		EffectInstanceID: r.u32(),
		StatusEffectID:   r.u32(),
		SourceID:         r.u64(),
		TotalTime:        r.f32(),
		EndTick:          r.u64(),
		StackCount:       r.u8(),
		Value:            r.i64(),
	}
}

func writeStatusEffectData(w *writer, s StatusEffectData) {
	w.u32(s.EffectInstanceID)
	w.u32(s.StatusEffectID)
	w.u64(s.SourceID)
	w.f32(s.TotalTime)
	w.u64(s.EndTick)
	w.u8(s.StackCount)
	w.i64(s.Value)
}

// PCStruct - описание чужого игрока
type PCStruct struct {
	PlayerID      uint64
	Name          string
	ClassID       uint16
	MaxItemLevel  float32
	CharacterID   uint64
	StatPairs     []StatPair
	StatusEffects []StatusEffectData
}

func readPCStruct(r *reader) PCStruct {
	return PCStruct{
		PlayerID:      r.u64(),
		Name:          r.str(),
		ClassID:       r.u16(),
		MaxItemLevel:  r.f32(),
		CharacterID:   r.u64(),
		StatPairs:     readList(r, readStatPair),
		StatusEffects: readList(r, readStatusEffectData),
	}
}

func writePCStruct(w *writer, p PCStruct) {
	w.u64(p.PlayerID)
	w.str(p.Name)
	w.u16(p.ClassID)
	w.f32(p.MaxItemLevel)
	w.u64(p.CharacterID)
	writeList(w, p.StatPairs, writeStatPair)
	writeList(w, p.StatusEffects, writeStatusEffectData)
}

// NpcStruct - описание NPC (и NPC-саммона)
type NpcStruct struct {
	ObjectID      uint64
	TypeID        uint32
	Name          string
	Grade         uint8
	Esther        bool
	Level         uint16
	StatPairs     []StatPair
	StatusEffects []StatusEffectData
}

func readNpcStruct(r *reader) NpcStruct {
	return NpcStruct{
		ObjectID:      r.u64(),
		TypeID:        r.u32(),
		Name:          r.str(),
		Grade:         r.u8(),
		Esther:        r.bool(),
		Level:         r.u16(),
		StatPairs:     readList(r, readStatPair),
		StatusEffects: readList(r, readStatusEffectData),
	}
}

func writeNpcStruct(w *writer, n NpcStruct) {
	w.u64(n.ObjectID)
	w.u32(n.TypeID)
	w.str(n.Name)
	w.u8(n.Grade)
	w.bool(n.Esther)
	w.u16(n.Level)
	writeList(w, n.StatPairs, writeStatPair)
	writeList(w, n.StatusEffects, writeStatusEffectData)
}

// ProjectileInfo - снаряд и его владелец
type ProjectileInfo struct {
	ProjectileID  uint64
	OwnerID       uint64
	SkillID       uint32
	SkillEffectID uint32
	SkillLevel    uint8
}

// PartyMember - участник партии в PartyInfo
type PartyMember struct {
	Name        string
	ClassID     uint16
	CharacterID uint64
	GearLevel   float32
}

func readPartyMember(r *reader) PartyMember {
	return PartyMember{
		Name:        r.str(),
		ClassID:     r.u16(),
		CharacterID: r.u64(),
		GearLevel:   r.f32(),
	}
}

func writePartyMember(w *writer, m PartyMember) {
	w.str(m.Name)
	w.u16(m.ClassID)
	w.u64(m.CharacterID)
	w.f32(m.GearLevel)
}

// SkillDamageEvent - одно попадание
type SkillDamageEvent struct {
	TargetID   uint64
	Damage     int64
	Modifier   int32
	CurHP      int64
	MaxHP      int64
	DamageAttr uint8
	DamageType uint8
}

func readSkillDamageEvent(r *reader) SkillDamageEvent {
	return SkillDamageEvent{
		TargetID:   r.u64(),
		Damage:     r.i64(),
		Modifier:   r.i32(),
		CurHP:      r.i64(),
		MaxHP:      r.i64(),
		DamageAttr: r.u8(),
		DamageType: r.u8(),
	}
}

func writeSkillDamageEvent(w *writer, e SkillDamageEvent) {
	w.u64(e.TargetID)
	w.i64(e.Damage)
	w.i32(e.Modifier)
	w.i64(e.CurHP)
	w.i64(e.MaxHP)
	w.u8(e.DamageAttr)
	w.u8(e.DamageType)
}

// SkillDamageAbnormalMoveEvent - попадание со смещением цели
type SkillDamageAbnormalMoveEvent struct {
	Event    SkillDamageEvent
	DownTime float32
	MoveTime float32
}

func readAbnormalMoveEvent(r *reader) SkillDamageAbnormalMoveEvent {
	return SkillDamageAbnormalMoveEvent{
		Event:    readSkillDamageEvent(r),
		DownTime: r.f32(),
		MoveTime: r.f32(),
	}
}

func writeAbnormalMoveEvent(w *writer, e SkillDamageAbnormalMoveEvent) {
	writeSkillDamageEvent(w, e.Event)
	w.f32(e.DownTime)
	w.f32(e.MoveTime)
}

// UnpublishedObject - объект, снятый с публикации
type UnpublishedObject struct {
	ObjectID uint64
	Reason   uint8
}

// IDRemap - пара старый/новый ObjectID при миграции
type IDRemap struct {
	OldID uint64
	NewID uint64
}

func readU32(r *reader) uint32 { return r.u32() }

func writeU32(w *writer, v uint32) { w.u32(v) }
