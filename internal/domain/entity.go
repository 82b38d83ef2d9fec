package domain

import "strconv"

// Entity - сущность в представлении трекера. Это "живая" запись, ключ - сетевой ObjectID.
// В энкаунтер она попадает только копией (см. EncounterEntity).
type Entity struct {
	ID          uint64     `json:"id"`
	Type        EntityType `json:"type"`
	Name        string     `json:"name"`
	NpcID       uint32     `json:"npcId,omitempty"`
	Grade       NpcGrade   `json:"grade,omitempty"`
	ClassID     uint32     `json:"classId,omitempty"`
	GearLevel   float32    `json:"gearLevel,omitempty"`
	CharacterID uint64     `json:"characterId,omitempty"`

	// OwnerID - обратная ссылка для саммонов и снарядов. Владения здесь нет.
	OwnerID uint64 `json:"ownerId,omitempty"`

	// SkillID и SkillEffectID заполнены только у снарядов
	SkillID       uint32 `json:"skillId,omitempty"`
	SkillEffectID uint32 `json:"skillEffectId,omitempty"`

	CurrentHP int64 `json:"currentHp"`
	MaxHP     int64 `json:"maxHp"`
	IsDead    bool  `json:"isDead"`
}

// PlaceholderName - имя-заглушка для сущности, о которой мы узнали раньше, чем нам ее представили.
func PlaceholderName(id uint64) string {
	return strconv.FormatUint(id, 16)
}

// IsPlaceholder сообщает, что сущность создана как заглушка и тип еще не известен
func (e *Entity) IsPlaceholder() bool {
	return e.Type == EntityTypeUnknown
}
