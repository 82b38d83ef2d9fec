package engine

import (
	"combat-meter/internal/domain"
	"combat-meter/internal/encounter"
	"combat-meter/internal/packets"
)

// route - закрытая диспетчеризация по типу пакета. Неизвестные типы игнорируются.
func (m *Meter) route(pkt packets.Packet) {
	ents := m.trackers.Entities
	state := m.state

	switch p := pkt.(type) {
	case *packets.CounterAttackNotify:
		state.OnCounterattack(ents.GetOrCreate(p.SourceID))

	case *packets.DeathNotify:
		target := ents.GetOrCreate(p.TargetID)
		target.IsDead = true
		target.CurrentHP = 0
		state.OnDeath(target)

	case *packets.IdentityGaugeChangeNotify:
		state.OnIdentityGain(p.PlayerID, p.Gauge1)

	case *packets.InitEnv:
		state.OnInitEnv(ents.InitEnv(p))

	case *packets.InitPC:
		state.OnInitPC(ents.InitPC(p))

	case *packets.MigrationExecute:
		state.OnMigration(ents.Migrate(p.Remaps))

	case *packets.NewPC:
		state.OnNewPC(ents.NewPC(p))

	case *packets.NewNpc:
		state.OnNewNpc(ents.NewNpc(p))

	case *packets.NewNpcSummon:
		state.OnNewNpc(ents.NewNpcSummon(p))

	case *packets.NewProjectile:
		ents.NewProjectile(p)

	case *packets.ParalyzationStateNotify:
		state.OnStaggerChange(p.ObjectID, p.Point, p.MaxPoint)

	case *packets.PartyInfo:
		if ents.PartyInfo(p) {
			state.UpdateLocalPlayer(ents.LocalPlayer())
		}

	case *packets.PartyLeaveResult:
		ents.PartyLeave(p)

	case *packets.PartyStatusEffectResultNotify:
		ents.PartyStatusResult(p)

	case *packets.PartyStatusEffectAddNotify:
		ents.PartyStatusEffectAdd(p)

	case *packets.PartyStatusEffectRemoveNotify:
		ents.PartyStatusEffectRemove(p)

	case *packets.RaidBossKillNotify:
		state.OnPhaseTransition(domain.PhaseCleared)
		state.SetRaidClear(true)

	case *packets.RaidResult:
		state.OnPhaseTransition(domain.PhaseIdle)

	case *packets.RemoveObject:
		for _, obj := range p.UnpublishedObjects {
			ents.Unpublish(obj.ObjectID)
		}

	case *packets.ZoneObjectUnpublishNotify:
		ents.Unpublish(p.ObjectID)

	case *packets.SkillStartNotify:
		source := ents.SourceEntity(p.SourceID)
		ents.GuessIsPlayer(source, p.SkillID)
		state.OnSkillStart(source, p.SkillID)

	case *packets.SkillDamageNotify:
		for _, ev := range p.Events {
			m.onDamage(p.SourceID, p.SkillID, p.SkillEffectID, ev)
		}

	case *packets.SkillDamageAbnormalMoveNotify:
		for _, ev := range p.Events {
			m.onDamage(p.SourceID, p.SkillID, p.SkillEffectID, ev.Event)
		}

	case *packets.StatusEffectAddNotify:
		ents.StatusEffectAdd(p)

	case *packets.StatusEffectDurationNotify:
		ents.StatusEffectDuration(p)

	case *packets.StatusEffectRemoveNotify:
		ents.StatusEffectRemove(p)

	case *packets.TriggerBossBattleStatus:
		state.OnBossBattleStatus()

	case *packets.TriggerStartNotify:
		if raidClear, ok := domain.ClassifyTriggerSignal(p.TriggerSignalType); ok {
			state.SetRaidClear(raidClear)
		}

	default:
		// опкод декодируется, но ядру не нужен
	}
}

// onDamage - общий путь обоих пакетов урона, вызывается на каждое попадание
func (m *Meter) onDamage(sourceID uint64, skillID, skillEffectID uint32, ev packets.SkillDamageEvent) {
	ents := m.trackers.Entities

	raw := ents.GetOrCreate(sourceID)
	if raw.Type == domain.EntityTypeProjectile && skillID == 0 {
		skillID = raw.SkillID
		skillEffectID = raw.SkillEffectID
	}
	source := ents.SourceEntity(sourceID)
	target := ents.GetOrCreate(ev.TargetID)
	if !target.IsDead {
		target.CurrentHP = ev.CurHP
	}
	if ev.MaxHP > 0 {
		target.MaxHP = ev.MaxHP
	}

	onSource, onTarget := m.trackers.Status.Effects(source, target, ents.LocalCharacterID())
	m.state.OnDamage(source, target, encounter.Damage{
		Amount:        ev.Damage,
		SkillID:       skillID,
		SkillEffectID: skillEffectID,
		Modifier:      ev.Modifier,
		CurrentHP:     ev.CurHP,
		MaxHP:         ev.MaxHP,
	}, onSource, onTarget)
}
