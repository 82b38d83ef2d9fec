package packets

// CounterAttackNotify - успешная контратака
type CounterAttackNotify struct {
	SourceID uint64
	TargetID uint64
	Type     uint32
}

func (*CounterAttackNotify) Opcode() Opcode { return OpCounterAttackNotify }

func (p *CounterAttackNotify) decode(r *reader) {
	p.SourceID = r.u64()
	p.TargetID = r.u64()
	p.Type = r.u32()
}

func (p *CounterAttackNotify) encode(w *writer) {
	w.u64(p.SourceID)
	w.u64(p.TargetID)
	w.u32(p.Type)
}

// DeathNotify - смерть сущности
type DeathNotify struct {
	TargetID   uint64
	SourceID   uint64
	EffectType uint8
}

func (*DeathNotify) Opcode() Opcode { return OpDeathNotify }

func (p *DeathNotify) decode(r *reader) {
	p.TargetID = r.u64()
	p.SourceID = r.u64()
	p.EffectType = r.u8()
}

func (p *DeathNotify) encode(w *writer) {
	w.u64(p.TargetID)
	w.u64(p.SourceID)
	w.u8(p.EffectType)
}

// IdentityGaugeChangeNotify - изменение шкалы идентичности
type IdentityGaugeChangeNotify struct {
	PlayerID uint64
	Gauge1   uint32
	Gauge2   uint32
	Gauge3   uint32
}

func (*IdentityGaugeChangeNotify) Opcode() Opcode { return OpIdentityGaugeChangeNotify }

func (p *IdentityGaugeChangeNotify) decode(r *reader) {
	p.PlayerID = r.u64()
	p.Gauge1 = r.u32()
	p.Gauge2 = r.u32()
	p.Gauge3 = r.u32()
}

func (p *IdentityGaugeChangeNotify) encode(w *writer) {
	w.u64(p.PlayerID)
	w.u32(p.Gauge1)
	w.u32(p.Gauge2)
	w.u32(p.Gauge3)
}

// InitEnv - вход в новую зону, локальный игрок получает новый ObjectID
type InitEnv struct {
	PlayerID uint64
}

func (*InitEnv) Opcode() Opcode { return OpInitEnv }

func (p *InitEnv) decode(r *reader) { p.PlayerID = r.u64() }

func (p *InitEnv) encode(w *writer) { w.u64(p.PlayerID) }

// InitPC - полная информация о локальном игроке
type InitPC struct {
	PlayerID      uint64
	Name          string
	ClassID       uint16
	GearLevel     float32
	CharacterID   uint64
	StatPairs     []StatPair
	StatusEffects []StatusEffectData
}

func (*InitPC) Opcode() Opcode { return OpInitPC }

func (p *InitPC) decode(r *reader) {
	p.PlayerID = r.u64()
	p.Name = r.str()
	p.ClassID = r.u16()
	p.GearLevel = r.f32()
	p.CharacterID = r.u64()
	p.StatPairs = readList(r, readStatPair)
	p.StatusEffects = readList(r, readStatusEffectData)
}

func (p *InitPC) encode(w *writer) {
	w.u64(p.PlayerID)
	w.str(p.Name)
	w.u16(p.ClassID)
	w.f32(p.GearLevel)
	w.u64(p.CharacterID)
	writeList(w, p.StatPairs, writeStatPair)
	writeList(w, p.StatusEffects, writeStatusEffectData)
}

// MigrationExecute - перенос на другой сервер. Remaps переписывают ObjectID без смены персонажей.
type MigrationExecute struct {
	AccountCharacterID1 uint64
	AccountCharacterID2 uint64
	ServerAddr          string
	Remaps              []IDRemap
}

func (*MigrationExecute) Opcode() Opcode { return OpMigrationExecute }

func (p *MigrationExecute) decode(r *reader) {
	p.AccountCharacterID1 = r.u64()
	p.AccountCharacterID2 = r.u64()
	p.ServerAddr = r.str()
	p.Remaps = readList(r, func(r *reader) IDRemap {
		return IDRemap{OldID: r.u64(), NewID: r.u64()}
	})
}

func (p *MigrationExecute) encode(w *writer) {
	w.u64(p.AccountCharacterID1)
	w.u64(p.AccountCharacterID2)
	w.str(p.ServerAddr)
	writeList(w, p.Remaps, func(w *writer, m IDRemap) {
		w.u64(m.OldID)
		w.u64(m.NewID)
	})
}

// NewPC - появление другого игрока
type NewPC struct {
	PC PCStruct
}

func (*NewPC) Opcode() Opcode { return OpNewPC }

func (p *NewPC) decode(r *reader) { p.PC = readPCStruct(r) }

func (p *NewPC) encode(w *writer) { writePCStruct(w, p.PC) }

// NewNpc - появление NPC
type NewNpc struct {
	Npc NpcStruct
}

func (*NewNpc) Opcode() Opcode { return OpNewNpc }

func (p *NewNpc) decode(r *reader) { p.Npc = readNpcStruct(r) }

func (p *NewNpc) encode(w *writer) { writeNpcStruct(w, p.Npc) }

// NewNpcSummon - призванный NPC, принадлежащий OwnerID
type NewNpcSummon struct {
	OwnerID uint64
	Npc     NpcStruct
}

func (*NewNpcSummon) Opcode() Opcode { return OpNewNpcSummon }

func (p *NewNpcSummon) decode(r *reader) {
	p.OwnerID = r.u64()
	p.Npc = readNpcStruct(r)
}

func (p *NewNpcSummon) encode(w *writer) {
	w.u64(p.OwnerID)
	writeNpcStruct(w, p.Npc)
}

// NewProjectile - снаряд
type NewProjectile struct {
	Projectile ProjectileInfo
}

func (*NewProjectile) Opcode() Opcode { return OpNewProjectile }

func (p *NewProjectile) decode(r *reader) {
	p.Projectile = ProjectileInfo{
		ProjectileID:  r.u64(),
		OwnerID:       r.u64(),
		SkillID:       r.u32(),
		SkillEffectID: r.u32(),
		SkillLevel:    r.u8(),
	}
}

func (p *NewProjectile) encode(w *writer) {
	w.u64(p.Projectile.ProjectileID)
	w.u64(p.Projectile.OwnerID)
	w.u32(p.Projectile.SkillID)
	w.u32(p.Projectile.SkillEffectID)
	w.u8(p.Projectile.SkillLevel)
}

// ParalyzationStateNotify - состояние шкалы оглушения (стаггера)
type ParalyzationStateNotify struct {
	ObjectID      uint64
	Point         uint32
	MaxPoint      uint32
	DecreasePoint uint32
	Enable        bool
}

func (*ParalyzationStateNotify) Opcode() Opcode { return OpParalyzationStateNotify }

func (p *ParalyzationStateNotify) decode(r *reader) {
	p.ObjectID = r.u64()
	p.Point = r.u32()
	p.MaxPoint = r.u32()
	p.DecreasePoint = r.u32()
	p.Enable = r.bool()
}

func (p *ParalyzationStateNotify) encode(w *writer) {
	w.u64(p.ObjectID)
	w.u32(p.Point)
	w.u32(p.MaxPoint)
	w.u32(p.DecreasePoint)
	w.bool(p.Enable)
}

// PartyInfo - полный состав партии
type PartyInfo struct {
	RaidInstanceID  uint32
	PartyInstanceID uint32
	PartyType       uint8
	Members         []PartyMember
}

func (*PartyInfo) Opcode() Opcode { return OpPartyInfo }

func (p *PartyInfo) decode(r *reader) {
	p.RaidInstanceID = r.u32()
	p.PartyInstanceID = r.u32()
	p.PartyType = r.u8()
	p.Members = readList(r, readPartyMember)
}

func (p *PartyInfo) encode(w *writer) {
	w.u32(p.RaidInstanceID)
	w.u32(p.PartyInstanceID)
	w.u8(p.PartyType)
	writeList(w, p.Members, writePartyMember)
}

// PartyLeaveResult - выход участника из партии
type PartyLeaveResult struct {
	PartyInstanceID uint32
	Name            string
}

func (*PartyLeaveResult) Opcode() Opcode { return OpPartyLeaveResult }

func (p *PartyLeaveResult) decode(r *reader) {
	p.PartyInstanceID = r.u32()
	p.Name = r.str()
}

func (p *PartyLeaveResult) encode(w *writer) {
	w.u32(p.PartyInstanceID)
	w.str(p.Name)
}

// PartyStatusEffectAddNotify - эффекты на участнике партии (по CharacterID)
type PartyStatusEffectAddNotify struct {
	CharacterID       uint64
	PlayerIDOnRefresh uint64
	StatusEffects     []StatusEffectData
}

func (*PartyStatusEffectAddNotify) Opcode() Opcode { return OpPartyStatusEffectAddNotify }

func (p *PartyStatusEffectAddNotify) decode(r *reader) {
	p.CharacterID = r.u64()
	p.PlayerIDOnRefresh = r.u64()
	p.StatusEffects = readList(r, readStatusEffectData)
}

func (p *PartyStatusEffectAddNotify) encode(w *writer) {
	w.u64(p.CharacterID)
	w.u64(p.PlayerIDOnRefresh)
	writeList(w, p.StatusEffects, writeStatusEffectData)
}

// PartyStatusEffectRemoveNotify - снятие партийных эффектов
type PartyStatusEffectRemoveNotify struct {
	CharacterID     uint64
	Reason          uint8
	StatusEffectIDs []uint32
}

func (*PartyStatusEffectRemoveNotify) Opcode() Opcode { return OpPartyStatusEffectRemoveNotify }

func (p *PartyStatusEffectRemoveNotify) decode(r *reader) {
	p.CharacterID = r.u64()
	p.Reason = r.u8()
	p.StatusEffectIDs = readList(r, readU32)
}

func (p *PartyStatusEffectRemoveNotify) encode(w *writer) {
	w.u64(p.CharacterID)
	w.u8(p.Reason)
	writeList(w, p.StatusEffectIDs, writeU32)
}

// PartyStatusEffectResultNotify - привязка персонажа к партии/рейду
type PartyStatusEffectResultNotify struct {
	RaidInstanceID  uint32
	PartyInstanceID uint32
	CharacterID     uint64
}

func (*PartyStatusEffectResultNotify) Opcode() Opcode { return OpPartyStatusEffectResultNotify }

func (p *PartyStatusEffectResultNotify) decode(r *reader) {
	p.RaidInstanceID = r.u32()
	p.PartyInstanceID = r.u32()
	p.CharacterID = r.u64()
}

func (p *PartyStatusEffectResultNotify) encode(w *writer) {
	w.u32(p.RaidInstanceID)
	w.u32(p.PartyInstanceID)
	w.u64(p.CharacterID)
}

// RaidBossKillNotify - босс рейда убит. Тело пакета не используется.
type RaidBossKillNotify struct{}

func (*RaidBossKillNotify) Opcode() Opcode { return OpRaidBossKillNotify }
func (*RaidBossKillNotify) decode(*reader) {}
func (*RaidBossKillNotify) encode(*writer) {}

// RaidResult - итог рейда. Тело пакета не используется.
type RaidResult struct{}

func (*RaidResult) Opcode() Opcode { return OpRaidResult }
func (*RaidResult) decode(*reader) {}
func (*RaidResult) encode(*writer) {}

// TriggerBossBattleStatus - сигнал начала боя с боссом. Тело пакета не используется.
type TriggerBossBattleStatus struct{}

func (*TriggerBossBattleStatus) Opcode() Opcode { return OpTriggerBossBattleStatus }
func (*TriggerBossBattleStatus) decode(*reader) {}
func (*TriggerBossBattleStatus) encode(*writer) {}

// RemoveObject - пакетное удаление объектов
type RemoveObject struct {
	UnpublishedObjects []UnpublishedObject
}

func (*RemoveObject) Opcode() Opcode { return OpRemoveObject }

func (p *RemoveObject) decode(r *reader) {
	p.UnpublishedObjects = readList(r, func(r *reader) UnpublishedObject {
		return UnpublishedObject{ObjectID: r.u64(), Reason: r.u8()}
	})
}

func (p *RemoveObject) encode(w *writer) {
	writeList(w, p.UnpublishedObjects, func(w *writer, o UnpublishedObject) {
		w.u64(o.ObjectID)
		w.u8(o.Reason)
	})
}

// SkillStartNotify - начало каста
type SkillStartNotify struct {
	SourceID   uint64
	SkillID    uint32
	SkillLevel uint8
}

func (*SkillStartNotify) Opcode() Opcode { return OpSkillStartNotify }

func (p *SkillStartNotify) decode(r *reader) {
	p.SourceID = r.u64()
	p.SkillID = r.u32()
	p.SkillLevel = r.u8()
}

func (p *SkillStartNotify) encode(w *writer) {
	w.u64(p.SourceID)
	w.u32(p.SkillID)
	w.u8(p.SkillLevel)
}

// SkillDamageAbnormalMoveNotify - урон со смещением цели
type SkillDamageAbnormalMoveNotify struct {
	SourceID      uint64
	SkillID       uint32
	SkillEffectID uint32
	Events        []SkillDamageAbnormalMoveEvent
}

func (*SkillDamageAbnormalMoveNotify) Opcode() Opcode { return OpSkillDamageAbnormalMoveNotify }

func (p *SkillDamageAbnormalMoveNotify) decode(r *reader) {
	p.SourceID = r.u64()
	p.SkillID = r.u32()
	p.SkillEffectID = r.u32()
	p.Events = readList(r, readAbnormalMoveEvent)
}

func (p *SkillDamageAbnormalMoveNotify) encode(w *writer) {
	w.u64(p.SourceID)
	w.u32(p.SkillID)
	w.u32(p.SkillEffectID)
	writeList(w, p.Events, writeAbnormalMoveEvent)
}

// SkillDamageNotify - урон умением
type SkillDamageNotify struct {
	SourceID      uint64
	SkillID       uint32
	SkillEffectID uint32
	SkillLevel    uint8
	Events        []SkillDamageEvent
}

func (*SkillDamageNotify) Opcode() Opcode { return OpSkillDamageNotify }

func (p *SkillDamageNotify) decode(r *reader) {
	p.SourceID = r.u64()
	p.SkillID = r.u32()
	p.SkillEffectID = r.u32()
	p.SkillLevel = r.u8()
	p.Events = readList(r, readSkillDamageEvent)
}

func (p *SkillDamageNotify) encode(w *writer) {
	w.u64(p.SourceID)
	w.u32(p.SkillID)
	w.u32(p.SkillEffectID)
	w.u8(p.SkillLevel)
	writeList(w, p.Events, writeSkillDamageEvent)
}

// StatusEffectAddNotify - эффект на объекте (локальная область)
type StatusEffectAddNotify struct {
	ObjectID uint64
	New      bool
	Effect   StatusEffectData
}

func (*StatusEffectAddNotify) Opcode() Opcode { return OpStatusEffectAddNotify }

func (p *StatusEffectAddNotify) decode(r *reader) {
	p.ObjectID = r.u64()
	p.New = r.bool()
	p.Effect = readStatusEffectData(r)
}

func (p *StatusEffectAddNotify) encode(w *writer) {
	w.u64(p.ObjectID)
	w.bool(p.New)
	writeStatusEffectData(w, p.Effect)
}

// StatusEffectDurationNotify - новое время окончания эффекта
type StatusEffectDurationNotify struct {
	TargetID         uint64
	EffectInstanceID uint32
	ExpirationTick   uint64
}

func (*StatusEffectDurationNotify) Opcode() Opcode { return OpStatusEffectDurationNotify }

func (p *StatusEffectDurationNotify) decode(r *reader) {
	p.TargetID = r.u64()
	p.EffectInstanceID = r.u32()
	p.ExpirationTick = r.u64()
}

func (p *StatusEffectDurationNotify) encode(w *writer) {
	w.u64(p.TargetID)
	w.u32(p.EffectInstanceID)
	w.u64(p.ExpirationTick)
}

// StatusEffectRemoveNotify - снятие локальных эффектов
type StatusEffectRemoveNotify struct {
	ObjectID        uint64
	Reason          uint8
	StatusEffectIDs []uint32
}

func (*StatusEffectRemoveNotify) Opcode() Opcode { return OpStatusEffectRemoveNotify }

func (p *StatusEffectRemoveNotify) decode(r *reader) {
	p.ObjectID = r.u64()
	p.Reason = r.u8()
	p.StatusEffectIDs = readList(r, readU32)
}

func (p *StatusEffectRemoveNotify) encode(w *writer) {
	w.u64(p.ObjectID)
	w.u8(p.Reason)
	writeList(w, p.StatusEffectIDs, writeU32)
}

// TriggerStartNotify - сигнал триггера зоны
type TriggerStartNotify struct {
	TriggerID         uint32
	SourceID          uint64
	TriggerSignalType uint32
}

func (*TriggerStartNotify) Opcode() Opcode { return OpTriggerStartNotify }

func (p *TriggerStartNotify) decode(r *reader) {
	p.TriggerID = r.u32()
	p.SourceID = r.u64()
	p.TriggerSignalType = r.u32()
}

func (p *TriggerStartNotify) encode(w *writer) {
	w.u32(p.TriggerID)
	w.u64(p.SourceID)
	w.u32(p.TriggerSignalType)
}

// ZoneObjectUnpublishNotify - объект покинул зону видимости
type ZoneObjectUnpublishNotify struct {
	ObjectID uint64
}

func (*ZoneObjectUnpublishNotify) Opcode() Opcode { return OpZoneObjectUnpublishNotify }

func (p *ZoneObjectUnpublishNotify) decode(r *reader) { p.ObjectID = r.u64() }

func (p *ZoneObjectUnpublishNotify) encode(w *writer) { w.u64(p.ObjectID) }
