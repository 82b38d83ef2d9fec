package domain

// HitFlag - младшие 4 бита кода модификатора урона
type HitFlag uint8

const (
	HitFlagNormal HitFlag = iota
	HitFlagCritical
	HitFlagMiss
	HitFlagInvincible
	HitFlagDamageOverTime
	HitFlagImmune
	HitFlagImmuneSilenced
	HitFlagFontSilenced
	HitFlagDamageOverTimeCritical
	HitFlagDodge
	HitFlagReflect
	HitFlagDamageShare
	HitFlagDodgeHit
	HitFlagMax
)

// HitOption - биты 4..6 кода модификатора (позиционные атаки)
type HitOption uint8

const (
	HitOptionNone HitOption = iota
	HitOptionBackAttack
	HitOptionFrontalAttack
	HitOptionFlankAttack
	HitOptionMax
)

// DecodeModifier разбирает код модификатора из пакета урона.
func DecodeModifier(modifier int32) (HitFlag, HitOption) {
	return HitFlag(modifier & 0xf), HitOption((modifier >> 4) & 0x7)
}

// IsCrit - критическое попадание (включая крит периодического урона)
func (f HitFlag) IsCrit() bool {
	return f == HitFlagCritical || f == HitFlagDamageOverTimeCritical
}
