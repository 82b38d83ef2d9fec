package domain

import (
	"strconv"
	"strings"
)

// EntityType - тип сущности, видимой наблюдающему клиенту.
type EntityType uint8

const (
	EntityTypeUnknown EntityType = iota
	EntityTypePlayer
	EntityTypeNPC
	EntityTypeBoss
	EntityTypeEsther
	EntityTypeSummon
	EntityTypeProjectile
)

var entityTypeToString = map[EntityType]string{
	EntityTypeUnknown:    "UNKNOWN",
	EntityTypePlayer:     "PLAYER",
	EntityTypeNPC:        "NPC",
	EntityTypeBoss:       "BOSS",
	EntityTypeEsther:     "ESTHER",
	EntityTypeSummon:     "SUMMON",
	EntityTypeProjectile: "PROJECTILE",
}

var entityTypeStringToType = map[string]EntityType{
	"PLAYER":     EntityTypePlayer,
	"NPC":        EntityTypeNPC,
	"BOSS":       EntityTypeBoss,
	"ESTHER":     EntityTypeEsther,
	"SUMMON":     EntityTypeSummon,
	"PROJECTILE": EntityTypeProjectile,
}

// String возвращает строковое представление (для логов и JSON)
func (t EntityType) String() string {
	if val, ok := entityTypeToString[t]; ok {
		return val
	}
	return "UNKNOWN"
}

// ParseEntityType конвертирует строку в Enum
func ParseEntityType(s string) EntityType {
	if val, ok := entityTypeStringToType[strings.ToUpper(s)]; ok {
		return val
	}
	return EntityTypeUnknown
}

// IsNPC - любая не-игровая сущность с собственным HP (включая боссов).
func (t EntityType) IsNPC() bool {
	return t == EntityTypeNPC || t == EntityTypeBoss
}

// MarshalJSON отдает тип строкой, UI не должен знать числовые коды
func (t EntityType) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(t.String())), nil
}

// UnmarshalJSON принимает строковое представление
func (t *EntityType) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return err
	}
	*t = ParseEntityType(s)
	return nil
}

// NpcGrade - ранг NPC, приходит в пакете появления.
type NpcGrade uint8

const (
	NpcGradeUnderling NpcGrade = iota
	NpcGradeNormal
	NpcGradeElite
	NpcGradeNamed
	NpcGradeSeed
	NpcGradeBoss
	NpcGradeRaid
	NpcGradeLucifer
	NpcGradeEpicRaid
	NpcGradeCommander
)

// IsBoss - всё, начиная с Boss, считается кандидатом в боссы энкаунтера.
func (g NpcGrade) IsBoss() bool {
	return g >= NpcGradeBoss
}
