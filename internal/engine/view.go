package engine

import (
	"combat-meter/internal/domain"
	"combat-meter/pkg/api"
	"sort"
	"strconv"
)

// BuildView превращает подготовленный снимок в DTO для UI.
// Сущности и умения сортируются по урону, чтобы клиенту не приходилось.
func BuildView(enc *domain.Encounter) api.EncounterView {
	view := api.EncounterView{
		ID:               enc.ID,
		FightStart:       enc.FightStart,
		LastCombatPacket: enc.LastCombatPacket,
		Duration:         enc.Duration,
		LocalPlayer:      enc.LocalPlayer,
		Entities:         make([]api.EntityView, 0, len(enc.Entities)),
		Stats: api.EncounterStatsView{
			TotalDamageDealt: enc.Stats.TotalDamageDealt,
			TopDamageDealt:   enc.Stats.TopDamageDealt,
			TotalDamageTaken: enc.Stats.TotalDamageTaken,
			DPS:              enc.Stats.DPS,
		},
		Phase:     enc.Phase.String(),
		RaidClear: enc.RaidClear,
		RaidEnd:   enc.RaidEnd,
		Saved:     enc.Saved,
	}

	if enc.CurrentBoss != nil {
		boss := buildEntityView(enc.CurrentBoss)
		view.CurrentBoss = &boss
	}

	for _, rec := range enc.Entities {
		view.Entities = append(view.Entities, buildEntityView(rec))
	}
	sort.Slice(view.Entities, func(i, j int) bool {
		a, b := view.Entities[i], view.Entities[j]
		if a.Damage.Dealt != b.Damage.Dealt {
			return a.Damage.Dealt > b.Damage.Dealt
		}
		return a.Name < b.Name
	})
	return view
}

func buildEntityView(rec *domain.EncounterEntity) api.EntityView {
	v := api.EntityView{
		ID:        strconv.FormatUint(rec.ID, 16),
		Name:      rec.Name,
		Type:      rec.Type.String(),
		Class:     rec.Class,
		GearScore: rec.GearScore,
		HP:        rec.CurrentHP,
		MaxHP:     rec.MaxHP,
		IsDead:    rec.IsDead,
		Damage: api.DamageView{
			Dealt:        rec.Damage.DamageDealt,
			Taken:        rec.Damage.DamageTaken,
			DPS:          rec.Damage.DPS,
			Deaths:       rec.Damage.Deaths,
			Crits:        rec.Damage.Crits,
			BackAttacks:  rec.Damage.BackAttacks,
			FrontAttacks: rec.Damage.FrontAttacks,
			Counters:     rec.SkillStats.Counters,
			BuffedBy:     effectCounter(rec.Damage.BuffedBy),
			DebuffedBy:   effectCounter(rec.Damage.DebuffedBy),
		},
	}

	for _, s := range rec.Skills {
		v.Skills = append(v.Skills, api.SkillView{
			ID:          s.ID,
			Casts:       s.Casts,
			Hits:        s.Hits,
			Crits:       s.Crits,
			TotalDamage: s.TotalDamage,
			MaxDamage:   s.MaxDamage,
		})
	}
	sort.Slice(v.Skills, func(i, j int) bool {
		if v.Skills[i].TotalDamage != v.Skills[j].TotalDamage {
			return v.Skills[i].TotalDamage > v.Skills[j].TotalDamage
		}
		return v.Skills[i].ID < v.Skills[j].ID
	})

	if rec.Stagger != nil {
		v.Stagger = &api.StaggerView{Current: rec.Stagger.Current, Max: rec.Stagger.Max}
	}
	return v
}

func effectCounter(m map[uint32]int64) map[string]int64 {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]int64, len(m))
	for id, v := range m {
		out[strconv.FormatUint(uint64(id), 10)] = v
	}
	return out
}
