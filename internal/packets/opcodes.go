package packets

import (
	"fmt"
	"sort"
)

// Opcode - идентификатор типа пакета. Набор закрытый: всё, чего нет в таблице, ядро игнорирует.
type Opcode uint16

const (
	OpCounterAttackNotify           Opcode = 0x0A21
	OpDeathNotify                   Opcode = 0x0A3C
	OpIdentityGaugeChangeNotify     Opcode = 0x0B07
	OpInitEnv                       Opcode = 0x0C01
	OpInitPC                        Opcode = 0x0C02
	OpMigrationExecute              Opcode = 0x0C10
	OpNewPC                         Opcode = 0x0D01
	OpNewNpc                        Opcode = 0x0D02
	OpNewNpcSummon                  Opcode = 0x0D03
	OpNewProjectile                 Opcode = 0x0D04
	OpParalyzationStateNotify       Opcode = 0x0E11
	OpPartyInfo                     Opcode = 0x0F01
	OpPartyLeaveResult              Opcode = 0x0F02
	OpPartyStatusEffectAddNotify    Opcode = 0x0F10
	OpPartyStatusEffectRemoveNotify Opcode = 0x0F11
	OpPartyStatusEffectResultNotify Opcode = 0x0F12
	OpRaidBossKillNotify            Opcode = 0x1001
	OpRaidResult                    Opcode = 0x1002
	OpRemoveObject                  Opcode = 0x1101
	OpSkillStartNotify              Opcode = 0x1201
	OpSkillDamageAbnormalMoveNotify Opcode = 0x1202
	OpSkillDamageNotify             Opcode = 0x1203
	OpStatusEffectAddNotify         Opcode = 0x1301
	OpStatusEffectDurationNotify    Opcode = 0x1302
	OpStatusEffectRemoveNotify      Opcode = 0x1303
	OpTriggerBossBattleStatus       Opcode = 0x1401
	OpTriggerStartNotify            Opcode = 0x1402
	OpZoneObjectUnpublishNotify     Opcode = 0x1501
)

var opcodeNames = map[Opcode]string{
	OpCounterAttackNotify:           "CounterAttackNotify",
	OpDeathNotify:                   "DeathNotify",
	OpIdentityGaugeChangeNotify:     "IdentityGaugeChangeNotify",
	OpInitEnv:                       "InitEnv",
	OpInitPC:                        "InitPC",
	OpMigrationExecute:              "MigrationExecute",
	OpNewPC:                         "NewPC",
	OpNewNpc:                        "NewNpc",
	OpNewNpcSummon:                  "NewNpcSummon",
	OpNewProjectile:                 "NewProjectile",
	OpParalyzationStateNotify:       "ParalyzationStateNotify",
	OpPartyInfo:                     "PartyInfo",
	OpPartyLeaveResult:              "PartyLeaveResult",
	OpPartyStatusEffectAddNotify:    "PartyStatusEffectAddNotify",
	OpPartyStatusEffectRemoveNotify: "PartyStatusEffectRemoveNotify",
	OpPartyStatusEffectResultNotify: "PartyStatusEffectResultNotify",
	OpRaidBossKillNotify:            "RaidBossKillNotify",
	OpRaidResult:                    "RaidResult",
	OpRemoveObject:                  "RemoveObject",
	OpSkillStartNotify:              "SkillStartNotify",
	OpSkillDamageAbnormalMoveNotify: "SkillDamageAbnormalMoveNotify",
	OpSkillDamageNotify:             "SkillDamageNotify",
	OpStatusEffectAddNotify:         "StatusEffectAddNotify",
	OpStatusEffectDurationNotify:    "StatusEffectDurationNotify",
	OpStatusEffectRemoveNotify:      "StatusEffectRemoveNotify",
	OpTriggerBossBattleStatus:       "TriggerBossBattleStatus",
	OpTriggerStartNotify:            "TriggerStartNotify",
	OpZoneObjectUnpublishNotify:     "ZoneObjectUnpublishNotify",
}

// String реализует интерфейс Stringer (для логов)
func (o Opcode) String() string {
	if name, ok := opcodeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Opcode(0x%04X)", uint16(o))
}

// Known сообщает, входит ли опкод в закрытый набор
func (o Opcode) Known() bool {
	_, ok := opcodeNames[o]
	return ok
}

// Opcodes возвращает весь набор по возрастанию (для утилит и тестов)
func Opcodes() []Opcode {
	out := make([]Opcode, 0, len(opcodeNames))
	for op := range opcodeNames {
		out = append(out, op)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
