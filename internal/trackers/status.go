package trackers

import (
	"combat-meter/internal/domain"
	"sort"
	"time"
)

// StatusTracker хранит активные эффекты. Локальные ключуются ObjectID цели,
// партийные - CharacterID цели.
type StatusTracker struct {
	parties *PartyTracker
	now     func() time.Time

	local map[uint64]map[uint32]*domain.StatusEffect
	party map[uint64]map[uint32]*domain.StatusEffect
}

func NewStatusTracker(parties *PartyTracker, now func() time.Time) *StatusTracker {
	if now == nil {
		now = time.Now
	}
	return &StatusTracker{
		parties: parties,
		now:     now,
		local:   make(map[uint64]map[uint32]*domain.StatusEffect),
		party:   make(map[uint64]map[uint32]*domain.StatusEffect),
	}
}

func (t *StatusTracker) registry(scope domain.StatusScope) map[uint64]map[uint32]*domain.StatusEffect {
	if scope == domain.ScopeParty {
		return t.party
	}
	return t.local
}

// Register добавляет (или заменяет) эффект. totalTime в секундах, 0 - бессрочный.
func (t *StatusTracker) Register(effect domain.StatusEffect, totalTime float32) {
	if totalTime > 0 {
		effect.ExpireAt = t.now().Add(time.Duration(float64(totalTime) * float64(time.Second)))
	}
	reg := t.registry(effect.Scope)
	byInstance, ok := reg[effect.TargetID]
	if !ok {
		byInstance = make(map[uint32]*domain.StatusEffect)
		reg[effect.TargetID] = byInstance
	}
	byInstance[effect.InstanceID] = &effect
}

// UpdateDuration сдвигает время истечения на разницу тиков (тик = 1 мс)
func (t *StatusTracker) UpdateDuration(targetID uint64, instanceID uint32, expirationTick uint64, scope domain.StatusScope) bool {
	effect, ok := t.registry(scope)[targetID][instanceID]
	if !ok {
		return false
	}
	if effect.ExpirationTick != 0 && !effect.ExpireAt.IsZero() {
		delta := int64(expirationTick) - int64(effect.ExpirationTick)
		effect.ExpireAt = effect.ExpireAt.Add(time.Duration(delta) * time.Millisecond)
	}
	effect.ExpirationTick = expirationTick
	return true
}

// Remove снимает перечисленные экземпляры эффектов с цели
func (t *StatusTracker) Remove(targetID uint64, instanceIDs []uint32, scope domain.StatusScope) {
	reg := t.registry(scope)
	byInstance, ok := reg[targetID]
	if !ok {
		return
	}
	for _, id := range instanceIDs {
		delete(byInstance, id)
	}
	if len(byInstance) == 0 {
		delete(reg, targetID)
	}
}

// RemoveLocalObject убирает все эффекты, где объект - цель или источник
func (t *StatusTracker) RemoveLocalObject(objID uint64) {
	delete(t.local, objID)
	for target, byInstance := range t.local {
		for id, effect := range byInstance {
			if effect.SourceID == objID {
				delete(byInstance, id)
			}
		}
		if len(byInstance) == 0 {
			delete(t.local, target)
		}
	}
}

// RemapObject переносит локальные эффекты на новый ObjectID
// RemapObjects переносит локальные эффекты и источники всех эффектов за один проход
func (t *StatusTracker) RemapObjects(newIDs map[uint64]uint64) {
	if len(newIDs) == 0 {
		return
	}
	next := make(map[uint64]map[uint32]*domain.StatusEffect, len(t.local))
	for target, byInstance := range t.local {
		if n, ok := newIDs[target]; ok {
			for _, effect := range byInstance {
				effect.TargetID = n
			}
			next[n] = byInstance
		}
	}
	for target, byInstance := range t.local {
		if _, moved := newIDs[target]; moved {
			continue
		}
		if _, taken := next[target]; taken {
			continue
		}
		next[target] = byInstance
	}
	t.local = next

	for _, reg := range []map[uint64]map[uint32]*domain.StatusEffect{t.local, t.party} {
		for _, byInstance := range reg {
			for _, effect := range byInstance {
				if n, ok := newIDs[effect.SourceID]; ok {
					effect.SourceID = n
				}
			}
		}
	}
}

func (t *StatusTracker) Clear() {
	clear(t.local)
	clear(t.party)
}

// Len - количество активных записей в обоих реестрах
func (t *StatusTracker) Len() int {
	n := 0
	for _, byInstance := range t.local {
		n += len(byInstance)
	}
	for _, byInstance := range t.party {
		n += len(byInstance)
	}
	return n
}

// Effects возвращает идентификаторы эффектов, активных на атакующем и на цели.
// Для участников партии локального игрока используется партийный реестр,
// для всех остальных - локальный по точному ObjectID.
func (t *StatusTracker) Effects(source, target *domain.Entity, localCharID uint64) ([]uint32, []uint32) {
	now := t.now()
	return t.effectsOn(source, localCharID, now), t.effectsOn(target, localCharID, now)
}

func (t *StatusTracker) effectsOn(e *domain.Entity, localCharID uint64, now time.Time) []uint32 {
	if e == nil {
		return nil
	}

	var byInstance map[uint32]*domain.StatusEffect
	if t.isPartyVisible(e, localCharID) {
		byInstance = t.party[e.CharacterID]
	} else {
		byInstance = t.local[e.ID]
	}
	if len(byInstance) == 0 {
		return nil
	}

	seen := make(map[uint32]struct{}, len(byInstance))
	out := make([]uint32, 0, len(byInstance))
	for _, effect := range byInstance {
		if !effect.Active(now) {
			continue
		}
		if _, dup := seen[effect.EffectID]; dup {
			continue
		}
		seen[effect.EffectID] = struct{}{}
		out = append(out, effect.EffectID)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (t *StatusTracker) isPartyVisible(e *domain.Entity, localCharID uint64) bool {
	if e.Type != domain.EntityTypePlayer || e.CharacterID == 0 || e.CharacterID == localCharID {
		return false
	}
	return t.parties.SameParty(e.CharacterID, localCharID)
}
