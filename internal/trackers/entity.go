package trackers

import (
	"combat-meter/internal/domain"
	"combat-meter/internal/packets"
	"combat-meter/pkg/logger"
	"sort"

	"github.com/sirupsen/logrus"
)

// EntityTracker - каноничная карта ObjectID -> Entity.
// Все операции создания идемпотентны по ObjectID.
type EntityTracker struct {
	IDs     *IDTracker
	Parties *PartyTracker
	Status  *StatusTracker

	entities      map[uint64]*domain.Entity
	localPlayerID uint64
}

func NewEntityTracker(ids *IDTracker, parties *PartyTracker, status *StatusTracker) *EntityTracker {
	return &EntityTracker{
		IDs:      ids,
		Parties:  parties,
		Status:   status,
		entities: make(map[uint64]*domain.Entity),
	}
}

func (t *EntityTracker) Get(id uint64) (*domain.Entity, bool) {
	e, ok := t.entities[id]
	return e, ok
}

func (t *EntityTracker) Len() int {
	return len(t.entities)
}

// Entities - все сущности по возрастанию ID (для отладки и тестов)
func (t *EntityTracker) Entities() []*domain.Entity {
	out := make([]*domain.Entity, 0, len(t.entities))
	for _, e := range t.entities {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (t *EntityTracker) LocalPlayerID() uint64 {
	return t.localPlayerID
}

// LocalPlayer возвращает локального игрока или nil, если InitEnv/InitPC еще не было
func (t *EntityTracker) LocalPlayer() *domain.Entity {
	if t.localPlayerID == 0 {
		return nil
	}
	return t.entities[t.localPlayerID]
}

func (t *EntityTracker) LocalCharacterID() uint64 {
	if local := t.LocalPlayer(); local != nil {
		return local.CharacterID
	}
	return 0
}

// GetOrCreate возвращает сущность или создает заглушку неизвестного типа с hex-именем.
func (t *EntityTracker) GetOrCreate(id uint64) *domain.Entity {
	if e, ok := t.entities[id]; ok {
		return e
	}
	e := &domain.Entity{
		ID:   id,
		Type: domain.EntityTypeUnknown,
		Name: domain.PlaceholderName(id),
	}
	t.entities[id] = e
	return e
}

// SourceEntity разворачивает снаряд или саммона до владельца
func (t *EntityTracker) SourceEntity(id uint64) *domain.Entity {
	e := t.GetOrCreate(id)
	if (e.Type == domain.EntityTypeProjectile || e.Type == domain.EntityTypeSummon) && e.OwnerID != 0 {
		return t.GetOrCreate(e.OwnerID)
	}
	return e
}

// GuessIsPlayer - ПРИБЛИЗИТЕЛЬНАЯ эвристика. Сущность неизвестного типа, применившая
// умение из таблицы игроков, объявляется игроком. Вернет true, если тип повышен.
func (t *EntityTracker) GuessIsPlayer(e *domain.Entity, skillID uint32) bool {
	if e.Type != domain.EntityTypeUnknown {
		return false
	}
	classID := domain.ClassFromSkill(skillID)
	if classID == 0 {
		return false
	}
	e.Type = domain.EntityTypePlayer
	e.ClassID = classID
	logger.Log.WithFields(logrus.Fields{
		"id":      e.ID,
		"skillId": skillID,
		"class":   domain.ClassName(classID),
	}).Debug("Entity promoted to player by skill id")
	return true
}

// --- LIFECYCLE ---

// InitEnv - смена зоны. Локальный игрок переезжает на новый ObjectID, остальное забывается.
func (t *EntityTracker) InitEnv(p *packets.InitEnv) *domain.Entity {
	local := t.LocalPlayer()
	if local == nil {
		local = &domain.Entity{
			Type: domain.EntityTypePlayer,
			Name: domain.LocalPlayerDefault,
		}
	}

	clear(t.entities)
	t.IDs.Clear()
	t.Status.Clear()

	local.ID = p.PlayerID
	t.entities[local.ID] = local
	t.localPlayerID = local.ID
	t.IDs.AddMapping(local.CharacterID, local.ID)

	logger.Log.WithFields(logrus.Fields{
		"playerId": local.ID,
		"name":     local.Name,
	}).Info("Zone changed")
	return local
}

// InitPC - полная информация о локальном игроке
func (t *EntityTracker) InitPC(p *packets.InitPC) *domain.Entity {
	hp, maxHP := CurrentAndMaxHP(p.StatPairs)

	if prev := t.LocalPlayer(); prev != nil && prev.ID != p.PlayerID {
		delete(t.entities, prev.ID)
	}

	e := &domain.Entity{
		ID:          p.PlayerID,
		Type:        domain.EntityTypePlayer,
		Name:        p.Name,
		ClassID:     uint32(p.ClassID),
		GearLevel:   p.GearLevel,
		CharacterID: p.CharacterID,
		CurrentHP:   hp,
		MaxHP:       maxHP,
	}
	t.entities[e.ID] = e
	t.localPlayerID = e.ID

	t.IDs.AddMapping(e.CharacterID, e.ID)
	t.Parties.SetLocal(e.CharacterID, e.Name)
	t.registerEffects(e.ID, p.StatusEffects, domain.ScopeLocal)

	logger.Log.WithFields(logrus.Fields{
		"name":  e.Name,
		"class": domain.ClassName(e.ClassID),
	}).Info("Local player initialised")
	return e
}

// NewPC - другой игрок
func (t *EntityTracker) NewPC(p *packets.NewPC) *domain.Entity {
	pc := p.PC
	hp, maxHP := CurrentAndMaxHP(pc.StatPairs)
	e := &domain.Entity{
		ID:          pc.PlayerID,
		Type:        domain.EntityTypePlayer,
		Name:        pc.Name,
		ClassID:     uint32(pc.ClassID),
		GearLevel:   pc.MaxItemLevel,
		CharacterID: pc.CharacterID,
		CurrentHP:   hp,
		MaxHP:       maxHP,
	}
	t.entities[e.ID] = e

	t.IDs.AddMapping(e.CharacterID, e.ID)
	t.registerEffects(e.ID, pc.StatusEffects, domain.ScopeLocal)
	return e
}

// NewNpc - NPC. Ранг Boss и выше дает тип Boss, флаг эстер - тип Esther.
func (t *EntityTracker) NewNpc(p *packets.NewNpc) *domain.Entity {
	e := t.npcEntity(p.Npc, domain.EntityTypeNPC)
	t.entities[e.ID] = e
	return e
}

// NewNpcSummon - NPC, призванный другой сущностью
func (t *EntityTracker) NewNpcSummon(p *packets.NewNpcSummon) *domain.Entity {
	e := t.npcEntity(p.Npc, domain.EntityTypeSummon)
	e.OwnerID = p.OwnerID
	t.entities[e.ID] = e
	return e
}

func (t *EntityTracker) npcEntity(npc packets.NpcStruct, defaultType domain.EntityType) *domain.Entity {
	hp, maxHP := CurrentAndMaxHP(npc.StatPairs)
	grade := domain.NpcGrade(npc.Grade)

	entityType := defaultType
	switch {
	case npc.Esther:
		entityType = domain.EntityTypeEsther
	case defaultType == domain.EntityTypeNPC && grade.IsBoss():
		entityType = domain.EntityTypeBoss
	}

	e := &domain.Entity{
		ID:        npc.ObjectID,
		Type:      entityType,
		Name:      npc.Name,
		NpcID:     npc.TypeID,
		Grade:     grade,
		CurrentHP: hp,
		MaxHP:     maxHP,
	}
	t.registerEffects(e.ID, npc.StatusEffects, domain.ScopeLocal)
	return e
}

// NewProjectile - снаряд, урон которого засчитывается владельцу
func (t *EntityTracker) NewProjectile(p *packets.NewProjectile) *domain.Entity {
	info := p.Projectile
	e := &domain.Entity{
		ID:            info.ProjectileID,
		Type:          domain.EntityTypeProjectile,
		Name:          domain.PlaceholderName(info.ProjectileID),
		OwnerID:       info.OwnerID,
		SkillID:       info.SkillID,
		SkillEffectID: info.SkillEffectID,
	}
	t.entities[e.ID] = e
	return e
}

// Unpublish - объект пропал из зоны видимости. Локальный игрок не удаляется.
func (t *EntityTracker) Unpublish(objID uint64) {
	t.Status.RemoveLocalObject(objID)
	if objID == t.localPlayerID {
		return
	}
	delete(t.entities, objID)
}

// RemapTable собирает пары миграции в карту old -> new
func RemapTable(remaps []packets.IDRemap) map[uint64]uint64 {
	newIDs := make(map[uint64]uint64, len(remaps))
	for _, r := range remaps {
		newIDs[r.OldID] = r.NewID
	}
	return newIDs
}

// Migrate переписывает ObjectID всех сущностей одним проходом. CharacterID и прочие поля сохраняются.
// Объект, чей ObjectID занял перенесенный, вытесняется. Возвращает примененную карту.
func (t *EntityTracker) Migrate(remaps []packets.IDRemap) map[uint64]uint64 {
	if len(remaps) == 0 {
		return nil
	}
	newIDs := RemapTable(remaps)

	moved := make(map[uint64]*domain.Entity, len(t.entities))
	for id, e := range t.entities {
		if n, ok := newIDs[id]; ok {
			e.ID = n
			moved[n] = e
		}
	}
	for id, e := range t.entities {
		if _, ok := newIDs[id]; ok {
			continue
		}
		if prev, taken := moved[id]; taken {
			logger.Log.WithFields(logrus.Fields{
				"object_id": id,
				"evicted":   e.Name,
				"migrated":  prev.Name,
			}).Debug("Migration target collides with tracked object")
			continue
		}
		moved[id] = e
	}
	for _, e := range moved {
		if n, ok := newIDs[e.OwnerID]; ok && e.OwnerID != 0 {
			e.OwnerID = n
		}
	}
	t.entities = moved

	t.IDs.RemapAll(newIDs)
	t.Status.RemapObjects(newIDs)
	if n, ok := newIDs[t.localPlayerID]; ok {
		t.localPlayerID = n
	}

	logger.Log.WithField("remaps", len(remaps)).Info("Object ids migrated")
	return newIDs
}

// TrimToLocal оставляет только локального игрока (пользовательский сброс)
func (t *EntityTracker) TrimToLocal() {
	local := t.LocalPlayer()
	clear(t.entities)
	if local != nil {
		t.entities[local.ID] = local
	}
	t.Status.Clear()
}

// --- PARTY / STATUS ---

// PartyInfo заменяет состав партии. Вернет true, если в составе есть локальный игрок
// (его имя, класс и гир обновлены).
func (t *EntityTracker) PartyInfo(p *packets.PartyInfo) bool {
	members := make([]PartyMember, 0, len(p.Members))
	for _, m := range p.Members {
		members = append(members, PartyMember{CharacterID: m.CharacterID, Name: m.Name})
	}
	t.Parties.ReplaceMembers(p.RaidInstanceID, p.PartyInstanceID, members)

	local := t.LocalPlayer()
	if local == nil {
		return false
	}
	for _, m := range p.Members {
		isLocal := (local.CharacterID != 0 && m.CharacterID == local.CharacterID) || m.Name == local.Name
		if !isLocal {
			continue
		}
		local.Name = m.Name
		local.ClassID = uint32(m.ClassID)
		local.GearLevel = m.GearLevel
		local.CharacterID = m.CharacterID
		t.IDs.AddMapping(local.CharacterID, local.ID)
		t.Parties.SetLocal(local.CharacterID, local.Name)
		return true
	}
	return false
}

func (t *EntityTracker) PartyLeave(p *packets.PartyLeaveResult) {
	t.Parties.Remove(p.PartyInstanceID, p.Name)
}

func (t *EntityTracker) PartyStatusResult(p *packets.PartyStatusEffectResultNotify) {
	objID, _ := t.IDs.ObjectID(p.CharacterID)
	t.Parties.Add(p.RaidInstanceID, p.PartyInstanceID, p.CharacterID, objID, "")
}

func (t *EntityTracker) PartyStatusEffectAdd(p *packets.PartyStatusEffectAddNotify) {
	if p.PlayerIDOnRefresh != 0 {
		t.Parties.CompleteEntry(p.CharacterID, p.PlayerIDOnRefresh)
	}
	t.registerEffects(p.CharacterID, p.StatusEffects, domain.ScopeParty)
}

func (t *EntityTracker) PartyStatusEffectRemove(p *packets.PartyStatusEffectRemoveNotify) {
	t.Status.Remove(p.CharacterID, p.StatusEffectIDs, domain.ScopeParty)
}

func (t *EntityTracker) StatusEffectAdd(p *packets.StatusEffectAddNotify) {
	t.GetOrCreate(p.ObjectID)
	t.registerEffects(p.ObjectID, []packets.StatusEffectData{p.Effect}, domain.ScopeLocal)
}

func (t *EntityTracker) StatusEffectDuration(p *packets.StatusEffectDurationNotify) {
	t.Status.UpdateDuration(p.TargetID, p.EffectInstanceID, p.ExpirationTick, domain.ScopeLocal)
}

func (t *EntityTracker) StatusEffectRemove(p *packets.StatusEffectRemoveNotify) {
	t.Status.Remove(p.ObjectID, p.StatusEffectIDs, domain.ScopeLocal)
}

func (t *EntityTracker) registerEffects(targetID uint64, effects []packets.StatusEffectData, scope domain.StatusScope) {
	for _, se := range effects {
		t.Status.Register(domain.StatusEffect{
			InstanceID:     se.EffectInstanceID,
			EffectID:       se.StatusEffectID,
			SourceID:       se.SourceID,
			TargetID:       targetID,
			Scope:          scope,
			ExpirationTick: se.EndTick,
			StackCount:     se.StackCount,
			Value:          se.Value,
		}, se.TotalTime)
	}
}

// CurrentAndMaxHP достает HP из пар статов
func CurrentAndMaxHP(pairs []packets.StatPair) (int64, int64) {
	var hp, maxHP int64
	for _, sp := range pairs {
		switch sp.Type {
		case domain.StatTypeHP:
			hp = sp.Value
		case domain.StatTypeMaxHP:
			maxHP = sp.Value
		}
	}
	return hp, maxHP
}
