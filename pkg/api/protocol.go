package api

import (
	"encoding/json"
)

// Имена событий. Набор закрытый.
const (
	// Сервер -> клиент
	EventEncounterUpdate = "encounter-update"
	EventResetEncounter  = "reset-encounter"
	EventPauseEncounter  = "pause-encounter"
	EventAdmin           = "admin"

	// Клиент -> сервер
	EventResetRequest = "reset-request"
	EventPauseRequest = "pause-request"
)

// --- СЕРВЕР -> КЛИЕНТ ---

// ServerEvent это корневой объект, который сервер отправляет клиенту.
// Payload зависит от Event: EncounterView для "encounter-update", AckPayload для подтверждений,
// AdminPayload для "admin".
type ServerEvent struct {
	// Event имя события.
	Event string `json:"event"`

	// Payload данные события. Может отсутствовать.
	Payload any `json:"payload,omitempty"`
}

// EncounterView это DTO снимка энкаунтера, который видит UI.
// Содержит только игроков и эстер с ненулевым уроном.
type EncounterView struct {
	ID string `json:"id,omitempty"`

	// FightStart и LastCombatPacket - unix миллисекунды. FightStart = 0 - бой не начался.
	FightStart       int64 `json:"fightStart"`
	LastCombatPacket int64 `json:"lastCombatPacket"`
	Duration         int64 `json:"duration"`

	LocalPlayer string `json:"localPlayer"`

	// CurrentBoss текущий босс. Отсутствует, если босс не определен.
	CurrentBoss *EntityView `json:"currentBoss,omitempty"`

	// Entities отсортированы по нанесенному урону (по убыванию).
	Entities []EntityView `json:"entities"`

	Stats EncounterStatsView `json:"stats"`

	Phase     string `json:"phase"` // IDLE, CLEARED, ONGOING, STARTING
	RaidClear bool   `json:"raidClear"`
	RaidEnd   bool   `json:"raidEnd"`
	Saved     bool   `json:"saved"` // энкаунтер завершен с известным боссом
}

// EncounterStatsView итоги по энкаунтеру
type EncounterStatsView struct {
	TotalDamageDealt int64 `json:"totalDamageDealt"`
	TopDamageDealt   int64 `json:"topDamageDealt"`
	TotalDamageTaken int64 `json:"totalDamageTaken"`
	DPS              int64 `json:"dps"`
}

// EntityView это DTO боевой записи сущности.
type EntityView struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Type      string  `json:"type"` // PLAYER, ESTHER, BOSS ...
	Class     string  `json:"class,omitempty"`
	GearScore float32 `json:"gearScore,omitempty"`
	HP        int64   `json:"hp"`
	MaxHP     int64   `json:"maxHp"`
	IsDead    bool    `json:"isDead"`

	Damage DamageView `json:"damage"`

	// Skills отсортированы по суммарному урону (по убыванию).
	Skills []SkillView `json:"skills,omitempty"`

	Stagger *StaggerView `json:"stagger,omitempty"`
}

// DamageView накопительная статистика урона
type DamageView struct {
	Dealt        int64 `json:"dealt"`
	Taken        int64 `json:"taken"`
	DPS          int64 `json:"dps"`
	Deaths       int   `json:"deaths"`
	Crits        int   `json:"crits"`
	BackAttacks  int   `json:"backAttacks"`
	FrontAttacks int   `json:"frontAttacks"`
	Counters     int   `json:"counters"`

	// BuffedBy/DebuffedBy - урон, нанесенный под эффектом (ключ - ID эффекта строкой)
	BuffedBy   map[string]int64 `json:"buffedBy,omitempty"`
	DebuffedBy map[string]int64 `json:"debuffedBy,omitempty"`
}

// SkillView статистика одного умения
type SkillView struct {
	ID          uint32 `json:"id"`
	Casts       int    `json:"casts"`
	Hits        int    `json:"hits"`
	Crits       int    `json:"crits"`
	TotalDamage int64  `json:"totalDamage"`
	MaxDamage   int64  `json:"maxDamage"`
}

// StaggerView шкала оглушения
type StaggerView struct {
	Current int64 `json:"current"`
	Max     int64 `json:"max"`
}

// AckPayload подтверждение команды управления
type AckPayload struct {
	// Paused актуально только для "pause-encounter": новое состояние паузы.
	Paused bool `json:"paused"`
}

// AdminPayload предупреждение о нехватке прав для сырого захвата
type AdminPayload struct {
	Message string `json:"message"`
}

// --- КЛИЕНТ -> СЕРВЕР ---

// ClientCommand это корневой объект для всех сообщений от клиента к серверу.
// Команды управления не несут данных, Payload зарезервирован.
type ClientCommand struct {
	// Event название команды ("reset-request", "pause-request").
	Event string `json:"event"`

	Payload json.RawMessage `json:"payload,omitempty"`
}
