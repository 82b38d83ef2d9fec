package encounter

import "combat-meter/internal/domain"

// Prepare доводит независимую копию энкаунтера до публикуемого вида:
// разрешает босса по имени, оставляет только игроков и эстер с ненулевым уроном,
// считает длительность и DPS. ok == false - публиковать нечего.
// enc должен быть копией (Clone), Prepare его меняет.
func Prepare(enc *domain.Encounter, bossDead bool) (*domain.Encounter, bool) {
	enc.CurrentBoss = nil
	if enc.CurrentBossName != "" {
		if boss, found := enc.Entities[enc.CurrentBossName]; found {
			if bossDead {
				boss.IsDead = true
				boss.CurrentHP = 0
			}
			enc.CurrentBoss = boss
		} else {
			enc.CurrentBossName = ""
		}
	}

	for name, rec := range enc.Entities {
		visible := rec.Type == domain.EntityTypePlayer || rec.Type == domain.EntityTypeEsther
		if !visible || rec.Damage.DamageDealt <= 0 {
			delete(enc.Entities, name)
		}
	}
	if len(enc.Entities) == 0 {
		return enc, false
	}

	if enc.FightStart > 0 && enc.LastCombatPacket > enc.FightStart {
		enc.Duration = enc.LastCombatPacket - enc.FightStart
	}
	if enc.Duration > 0 {
		for _, rec := range enc.Entities {
			rec.Damage.DPS = rec.Damage.DamageDealt * 1000 / enc.Duration
		}
		enc.Stats.DPS = enc.Stats.TotalDamageDealt * 1000 / enc.Duration
	}
	return enc, true
}
