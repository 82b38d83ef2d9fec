package encounter

import (
	"combat-meter/internal/domain"
	"combat-meter/pkg/logger"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Damage - одно попадание в том виде, в каком его видит агрегатор
type Damage struct {
	Amount        int64
	SkillID       uint32
	SkillEffectID uint32
	Modifier      int32
	CurrentHP     int64 // HP цели после попадания
	MaxHP         int64
}

// State - агрегатор энкаунтера. Единственный автомат, который двигается
// каждым смысловым событием. Свои записи он держит отдельно от трекера сущностей
// и копирует в них идентичность при каждом событии.
type State struct {
	Encounter *domain.Encounter

	// BossDeadUpdate - в этой итерации умер текущий босс (фронт для публикации)
	BossDeadUpdate bool

	now func() time.Time
}

func NewState(now func() time.Time) *State {
	if now == nil {
		now = time.Now
	}
	enc := domain.NewEncounter()
	enc.LocalPlayer = domain.LocalPlayerDefault
	return &State{
		Encounter: enc,
		now:       now,
	}
}

func (s *State) nowMs() int64 {
	return s.now().UnixMilli()
}

// upsert возвращает запись сущности (ключ - имя), создавая ее при необходимости
func (s *State) upsert(e *domain.Entity) *domain.EncounterEntity {
	name := e.Name
	if name == "" {
		name = domain.PlaceholderName(e.ID)
	}
	rec, ok := s.Encounter.Entities[name]
	if !ok {
		rec = domain.NewEncounterEntity(e)
		rec.Name = name
		s.Encounter.Entities[name] = rec
		return rec
	}
	rec.SyncIdentity(e)
	rec.Name = name
	return rec
}

// --- LIFECYCLE ---

// OnInitEnv - смена зоны. Остаются локальный игрок и записи с нанесенным уроном.
func (s *State) OnInitEnv(local *domain.Entity) {
	enc := s.Encounter
	if rec, ok := enc.Entities[enc.LocalPlayer]; ok {
		rec.ID = local.ID
	}
	for name, rec := range enc.Entities {
		if name != enc.LocalPlayer && rec.Damage.DamageDealt == 0 {
			delete(enc.Entities, name)
		}
	}
	if _, ok := enc.Entities[enc.CurrentBossName]; !ok {
		enc.CurrentBossName = ""
	}
}

// OnInitPC переносит запись локального игрока под его настоящее имя, сохраняя статистику
func (s *State) OnInitPC(e *domain.Entity) {
	enc := s.Encounter
	if rec, ok := enc.Entities[enc.LocalPlayer]; ok && enc.LocalPlayer != e.Name {
		delete(enc.Entities, enc.LocalPlayer)
		enc.Entities[e.Name] = rec
	}
	enc.LocalPlayer = e.Name

	rec := s.upsert(e)
	rec.SetHP(e.CurrentHP, e.MaxHP)
}

// UpdateLocalPlayer - PartyInfo уточнил данные локального игрока
func (s *State) UpdateLocalPlayer(e *domain.Entity) {
	enc := s.Encounter
	if enc.LocalPlayer != e.Name {
		if rec, ok := enc.Entities[enc.LocalPlayer]; ok {
			delete(enc.Entities, enc.LocalPlayer)
			enc.Entities[e.Name] = rec
		}
		enc.LocalPlayer = e.Name
	}
	s.upsert(e)
}

func (s *State) OnNewPC(e *domain.Entity) {
	rec := s.upsert(e)
	rec.SetHP(e.CurrentHP, e.MaxHP)
}

// OnNewNpc регистрирует NPC и, если это босс, решает, не сменить ли текущего босса
func (s *State) OnNewNpc(e *domain.Entity) {
	rec := s.upsert(e)
	rec.SetHP(e.CurrentHP, e.MaxHP)

	if e.Type == domain.EntityTypeBoss {
		s.considerBoss(rec)
	}
}

func (s *State) considerBoss(rec *domain.EncounterEntity) {
	enc := s.Encounter
	if current, ok := enc.Entities[enc.CurrentBossName]; ok && enc.CurrentBossName != "" {
		if current == rec || (!current.IsDead && rec.MaxHP <= current.MaxHP) {
			return
		}
	}
	enc.CurrentBossName = rec.Name
	logger.Log.WithFields(logrus.Fields{
		"boss":  rec.Name,
		"maxHp": rec.MaxHP,
	}).Debug("Current boss changed")
}

// --- COMBAT ---

// OnDamage записывает одно попадание. sourceEffects/targetEffects - активные эффекты
// на атакующем и цели (для атрибуции бафов/дебафов).
func (s *State) OnDamage(source, target *domain.Entity, d Damage, sourceEffects, targetEffects []uint32) {
	flag, option := domain.DecodeModifier(d.Modifier)
	if flag == domain.HitFlagInvincible {
		return
	}
	if flag == domain.HitFlagDamageShare && d.SkillID == 0 && d.SkillEffectID == 0 {
		return
	}

	src := s.upsert(source)
	tgt := s.upsert(target)
	tgt.SetHP(d.CurrentHP, d.MaxHP)

	if source.Type == domain.EntityTypePlayer && target.Type == domain.EntityTypePlayer {
		return
	}

	amount := d.Amount
	if d.CurrentHP < 0 {
		amount += d.CurrentHP
	}
	if amount < 0 {
		amount = 0
	}

	enc := s.Encounter
	now := s.nowMs()
	if enc.FightStart == 0 {
		enc.FightStart = now
		enc.ID = uuid.NewString()
		logger.Log.WithField("encounter", enc.ID).Info("Fight started")
	}
	enc.LastCombatPacket = now

	if tgt.Type == domain.EntityTypeBoss && enc.CurrentBossName == "" {
		enc.CurrentBossName = tgt.Name
	}

	src.Damage.DamageDealt += amount
	tgt.Damage.DamageTaken += amount

	skill, ok := src.Skills[d.SkillID]
	if !ok {
		skill = &domain.Skill{ID: d.SkillID}
		src.Skills[d.SkillID] = skill
	}
	skill.Hits++
	skill.TotalDamage += amount
	if amount > skill.MaxDamage {
		skill.MaxDamage = amount
	}
	src.SkillStats.Hits++

	if flag.IsCrit() {
		skill.Crits++
		src.SkillStats.Crits++
		src.Damage.Crits++
	}
	switch option {
	case domain.HitOptionBackAttack:
		src.Damage.BackAttacks++
	case domain.HitOptionFrontalAttack:
		src.Damage.FrontAttacks++
	}

	if amount > 0 {
		attribute(&src.Damage.BuffedBy, sourceEffects, amount)
		attribute(&src.Damage.DebuffedBy, targetEffects, amount)
	}

	if src.Type == domain.EntityTypePlayer || src.Type == domain.EntityTypeEsther {
		enc.Stats.TotalDamageDealt += amount
		if src.Damage.DamageDealt > enc.Stats.TopDamageDealt {
			enc.Stats.TopDamageDealt = src.Damage.DamageDealt
		}
	}
	if tgt.Type == domain.EntityTypePlayer {
		enc.Stats.TotalDamageTaken += amount
	}
}

func attribute(counter *map[uint32]int64, effects []uint32, amount int64) {
	if len(effects) == 0 {
		return
	}
	if *counter == nil {
		*counter = make(map[uint32]int64, len(effects))
	}
	for _, id := range effects {
		(*counter)[id] += amount
	}
}

// OnDeath помечает сущность мертвой. Запись остается в карте.
func (s *State) OnDeath(target *domain.Entity) {
	rec := s.upsert(target)
	if !rec.IsDead {
		rec.IsDead = true
		rec.Damage.Deaths++
		rec.Damage.DeathTime = s.nowMs()
	}
	rec.CurrentHP = 0

	if rec.Name == s.Encounter.CurrentBossName {
		s.BossDeadUpdate = true
	}
}

func (s *State) OnCounterattack(source *domain.Entity) {
	rec := s.upsert(source)
	rec.SkillStats.Counters++
}

// OnSkillStart считает касты
func (s *State) OnSkillStart(source *domain.Entity, skillID uint32) {
	rec := s.upsert(source)
	skill, ok := rec.Skills[skillID]
	if !ok {
		skill = &domain.Skill{ID: skillID}
		rec.Skills[skillID] = skill
	}
	skill.Casts++
	rec.SkillStats.Casts++
}

// OnIdentityGain пишет шкалу идентичности локального игрока во время боя
func (s *State) OnIdentityGain(playerID uint64, gauge uint32) {
	enc := s.Encounter
	if enc.FightStart == 0 {
		return
	}
	rec, ok := enc.Entities[enc.LocalPlayer]
	if !ok || rec.ID != playerID {
		return
	}
	rec.SkillStats.IdentityLog = append(rec.SkillStats.IdentityLog, [2]int64{s.nowMs() - enc.FightStart, int64(gauge)})
}

// OnMigration переносит ObjectID записей вслед за трекером сущностей
func (s *State) OnMigration(newIDs map[uint64]uint64) {
	for _, rec := range s.Encounter.Entities {
		if n, ok := newIDs[rec.ID]; ok {
			rec.ID = n
		}
	}
}

// OnStaggerChange обновляет шкалу оглушения известной записи
func (s *State) OnStaggerChange(objectID uint64, current, maxPoint uint32) {
	rec := s.Encounter.FindByID(objectID)
	if rec == nil {
		return
	}
	rec.Stagger = &domain.StaggerStats{Current: int64(current), Max: int64(maxPoint)}
}

// --- PHASE ---

// OnPhaseTransition - явный переход фазы. Терминальный переход во время боя завершает энкаунтер.
func (s *State) OnPhaseTransition(phase domain.Phase) {
	enc := s.Encounter
	enc.Phase = phase
	if !phase.IsTerminal() || enc.FightStart == 0 {
		return
	}
	enc.RaidEnd = true
	if enc.CurrentBossName != "" {
		enc.Saved = true
	}
	logger.Log.WithFields(logrus.Fields{
		"phase": phase.String(),
		"boss":  enc.CurrentBossName,
	}).Info("Encounter ended")
}

// OnBossBattleStatus: Starting, если бой не начат и босс неизвестен, иначе Ongoing
func (s *State) OnBossBattleStatus() {
	if s.Encounter.FightStart == 0 && s.Encounter.CurrentBossName == "" {
		s.OnPhaseTransition(domain.PhaseStarting)
		return
	}
	s.OnPhaseTransition(domain.PhaseOngoing)
}

func (s *State) SetRaidClear(v bool) {
	s.Encounter.RaidClear = v
}

// TakeBossDead возвращает фронт смерти босса и сбрасывает его
func (s *State) TakeBossDead() bool {
	v := s.BossDeadUpdate
	s.BossDeadUpdate = false
	return v
}

// SoftReset очищает карту записей и все флаги. Имя локального игрока сохраняется.
func (s *State) SoftReset() {
	local := s.Encounter.LocalPlayer
	s.Encounter = domain.NewEncounter()
	s.Encounter.LocalPlayer = local
	s.BossDeadUpdate = false
}
