package domain

// Phase - состояние энкаунтера, меняется только явными пакетами.
type Phase uint8

const (
	PhaseIdle     Phase = 0
	PhaseCleared  Phase = 1
	PhaseOngoing  Phase = 2
	PhaseStarting Phase = 3
)

var phaseToString = map[Phase]string{
	PhaseIdle:     "IDLE",
	PhaseCleared:  "CLEARED",
	PhaseOngoing:  "ONGOING",
	PhaseStarting: "STARTING",
}

func (p Phase) String() string {
	if val, ok := phaseToString[p]; ok {
		return val
	}
	return "UNKNOWN"
}

// IsTerminal - переходы, после которых энкаунтер считается завершенным.
func (p Phase) IsTerminal() bool {
	return p == PhaseCleared || p == PhaseIdle
}

// DamageStats - накопительная статистика урона сущности
type DamageStats struct {
	DamageDealt  int64            `json:"damageDealt"`
	DamageTaken  int64            `json:"damageTaken"`
	Deaths       int              `json:"deaths"`
	DeathTime    int64            `json:"deathTime,omitempty"`
	Crits        int              `json:"crits"`
	BackAttacks  int              `json:"backAttacks"`
	FrontAttacks int              `json:"frontAttacks"`
	BuffedBy     map[uint32]int64 `json:"buffedBy,omitempty"`
	DebuffedBy   map[uint32]int64 `json:"debuffedBy,omitempty"`
	DPS          int64            `json:"dps"`
}

// Skill - статистика по одному умению
type Skill struct {
	ID          uint32 `json:"id"`
	Casts       int    `json:"casts"`
	Hits        int    `json:"hits"`
	Crits       int    `json:"crits"`
	TotalDamage int64  `json:"totalDamage"`
	MaxDamage   int64  `json:"maxDamage"`
}

// SkillStats - агрегаты по умениям сущности
type SkillStats struct {
	Casts       int        `json:"casts"`
	Hits        int        `json:"hits"`
	Crits       int        `json:"crits"`
	Counters    int        `json:"counters"`
	IdentityLog [][2]int64 `json:"identityLog,omitempty"` // [мс от начала боя, значение шкалы]
}

// StaggerStats - текущее состояние шкалы оглушения
type StaggerStats struct {
	Current int64 `json:"current"`
	Max     int64 `json:"max"`
}

// EncounterEntity - боевая запись сущности в энкаунтере. Ключ в карте - имя.
type EncounterEntity struct {
	ID          uint64            `json:"id"`
	CharacterID uint64            `json:"characterId,omitempty"`
	NpcID       uint32            `json:"npcId,omitempty"`
	Name        string            `json:"name"`
	Type        EntityType        `json:"entityType"`
	ClassID     uint32            `json:"classId,omitempty"`
	Class       string            `json:"class,omitempty"`
	GearScore   float32           `json:"gearScore,omitempty"`
	CurrentHP   int64             `json:"currentHp"`
	MaxHP       int64             `json:"maxHp"`
	IsDead      bool              `json:"isDead"`
	Damage      DamageStats       `json:"damageStats"`
	SkillStats  SkillStats        `json:"skillStats"`
	Skills      map[uint32]*Skill `json:"skills"`
	Stagger     *StaggerStats     `json:"stagger,omitempty"`
}

// NewEncounterEntity снимает копию идентичности трекерной сущности.
func NewEncounterEntity(e *Entity) *EncounterEntity {
	rec := &EncounterEntity{
		Skills: make(map[uint32]*Skill),
	}
	rec.SyncIdentity(e)
	rec.CurrentHP = e.CurrentHP
	rec.MaxHP = e.MaxHP
	return rec
}

// SyncIdentity переносит идентификационные поля из трекера. HP и статистику не трогает.
func (r *EncounterEntity) SyncIdentity(e *Entity) {
	r.ID = e.ID
	r.Name = e.Name
	r.Type = e.Type
	r.NpcID = e.NpcID
	if e.CharacterID != 0 {
		r.CharacterID = e.CharacterID
	}
	if e.ClassID != 0 {
		r.ClassID = e.ClassID
		r.Class = ClassName(e.ClassID)
	}
	if e.GearLevel != 0 {
		r.GearScore = e.GearLevel
	}
}

// SetHP обновляет HP. Мертвая сущность остается с нулем до сброса.
func (r *EncounterEntity) SetHP(current, maxHP int64) {
	if maxHP > 0 {
		r.MaxHP = maxHP
	}
	if r.IsDead {
		r.CurrentHP = 0
		return
	}
	r.CurrentHP = current
}

// Clone - глубокая копия (карты и указатели не разделяются с оригиналом)
func (r *EncounterEntity) Clone() *EncounterEntity {
	c := *r
	c.Damage.BuffedBy = cloneCounter(r.Damage.BuffedBy)
	c.Damage.DebuffedBy = cloneCounter(r.Damage.DebuffedBy)
	if r.SkillStats.IdentityLog != nil {
		c.SkillStats.IdentityLog = append([][2]int64(nil), r.SkillStats.IdentityLog...)
	}
	c.Skills = make(map[uint32]*Skill, len(r.Skills))
	for id, s := range r.Skills {
		sc := *s
		c.Skills[id] = &sc
	}
	if r.Stagger != nil {
		st := *r.Stagger
		c.Stagger = &st
	}
	return &c
}

func cloneCounter(m map[uint32]int64) map[uint32]int64 {
	if m == nil {
		return nil
	}
	out := make(map[uint32]int64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// EncounterDamageStats - итоги по всему энкаунтеру
type EncounterDamageStats struct {
	TotalDamageDealt int64 `json:"totalDamageDealt"`
	TopDamageDealt   int64 `json:"topDamageDealt"`
	TotalDamageTaken int64 `json:"totalDamageTaken"`
	DPS              int64 `json:"dps"`
}

// Encounter - снимок боевого состояния. Единственное, что видно снаружи ядра.
type Encounter struct {
	ID               string                      `json:"id,omitempty"`
	FightStart       int64                       `json:"fightStart"` // unix ms, 0 - бой не начался
	LastCombatPacket int64                       `json:"lastCombatPacket"`
	Duration         int64                       `json:"duration"`
	LocalPlayer      string                      `json:"localPlayer"`
	CurrentBossName  string                      `json:"currentBossName"`
	CurrentBoss      *EncounterEntity            `json:"currentBoss,omitempty"`
	Entities         map[string]*EncounterEntity `json:"entities"`
	Stats            EncounterDamageStats        `json:"encounterDamageStats"`
	Phase            Phase                       `json:"phase"`
	RaidClear        bool                        `json:"raidClear"`
	RaidEnd          bool                        `json:"raidEnd"`
	Saved            bool                        `json:"saved"`
}

func NewEncounter() *Encounter {
	return &Encounter{
		Entities: make(map[string]*EncounterEntity),
	}
}

// Clone - независимая копия, безопасная для передачи в другую горутину.
func (e *Encounter) Clone() *Encounter {
	c := *e
	c.Entities = make(map[string]*EncounterEntity, len(e.Entities))
	for k, v := range e.Entities {
		c.Entities[k] = v.Clone()
	}
	if e.CurrentBoss != nil {
		c.CurrentBoss = e.CurrentBoss.Clone()
	}
	return &c
}

// FindByID ищет запись по ObjectID (карта ключуется именем)
func (e *Encounter) FindByID(id uint64) *EncounterEntity {
	for _, rec := range e.Entities {
		if rec.ID == id {
			return rec
		}
	}
	return nil
}
