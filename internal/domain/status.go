package domain

import "time"

// StatusScope - правило видимости эффекта.
type StatusScope uint8

const (
	// ScopeLocal - эффект виден только на конкретном объекте (ключ - ObjectID цели)
	ScopeLocal StatusScope = iota
	// ScopeParty - эффект виден членам партии (ключ - CharacterID цели)
	ScopeParty
)

func (s StatusScope) String() string {
	if s == ScopeParty {
		return "PARTY"
	}
	return "LOCAL"
}

// StatusEffect - запись об активном эффекте на цели.
type StatusEffect struct {
	InstanceID     uint32
	EffectID       uint32
	SourceID       uint64
	TargetID       uint64 // ObjectID для Local, CharacterID для Party
	Scope          StatusScope
	ExpirationTick uint64
	StackCount     uint8
	Value          int64

	// ExpireAt - локальное время истечения. Нулевое значение - бессрочный эффект.
	ExpireAt time.Time
}

// Active проверяет, что эффект еще не истек к моменту now
func (s *StatusEffect) Active(now time.Time) bool {
	return s.ExpireAt.IsZero() || now.Before(s.ExpireAt)
}
