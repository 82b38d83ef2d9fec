package encounter

import (
	"combat-meter/internal/domain"
	"combat-meter/pkg/logger"
	"os"
	"testing"
	"time"

	"pgregory.net/rapid"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

type stepClock struct {
	t time.Time
}

func (c *stepClock) Now() time.Time {
	c.t = c.t.Add(10 * time.Millisecond)
	return c.t
}

func newTestState() *State {
	clock := &stepClock{t: time.UnixMilli(1_700_000_000_000)}
	return NewState(clock.Now)
}

// Helper: локальный игрок А (100/100) и босс X (1000/1000)
func setupFight() (*State, *domain.Entity, *domain.Entity) {
	s := newTestState()
	playerA := &domain.Entity{ID: 1, Type: domain.EntityTypePlayer, Name: "PlayerA", CharacterID: 1001, ClassID: 102, CurrentHP: 100, MaxHP: 100}
	bossX := &domain.Entity{ID: 2, Type: domain.EntityTypeBoss, Name: "BossX", Grade: domain.NpcGradeRaid, CurrentHP: 1000, MaxHP: 1000}

	s.OnInitPC(playerA)
	s.OnNewNpc(bossX)
	return s, playerA, bossX
}

func TestScenario_DamageThenDeath(t *testing.T) {
	s, playerA, bossX := setupFight()

	s.OnDamage(playerA, bossX, Damage{Amount: 100, SkillID: 16140, CurrentHP: 900, MaxHP: 1000}, nil, nil)

	enc := s.Encounter
	if got := enc.Entities["PlayerA"].Damage.DamageDealt; got != 100 {
		t.Errorf("PlayerA damage = %d, want 100", got)
	}
	if got := enc.Entities["BossX"].CurrentHP; got != 900 {
		t.Errorf("BossX HP = %d, want 900", got)
	}
	if enc.CurrentBossName != "BossX" {
		t.Errorf("Current boss = %q, want BossX", enc.CurrentBossName)
	}
	if enc.FightStart == 0 || enc.ID == "" {
		t.Error("Fight start and encounter id must be set by first damage")
	}

	s.OnDeath(bossX)

	boss := enc.Entities["BossX"]
	if !boss.IsDead || boss.CurrentHP != 0 {
		t.Errorf("BossX dead=%v hp=%d, want dead with 0 HP", boss.IsDead, boss.CurrentHP)
	}
	if got := enc.Entities["PlayerA"].Damage.DamageDealt; got != 100 {
		t.Errorf("PlayerA damage changed after boss death: %d", got)
	}
	if !s.TakeBossDead() {
		t.Error("Expected boss death edge")
	}
	if s.TakeBossDead() {
		t.Error("Boss death edge must be consumed once")
	}
}

func TestDeadStaysDead(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s, playerA, bossX := setupFight()
		s.OnDeath(bossX)

		n := rapid.IntRange(1, 30).Draw(t, "n")
		for i := 0; i < n; i++ {
			hp := rapid.Int64Range(-500, 5000).Draw(t, "hp")
			switch rapid.IntRange(0, 2).Draw(t, "event") {
			case 0:
				s.OnDamage(playerA, bossX, Damage{Amount: 10, CurrentHP: hp, MaxHP: 1000}, nil, nil)
			case 1:
				bossX.CurrentHP = hp
				s.OnNewNpc(bossX)
			case 2:
				s.OnDeath(bossX)
			}
			rec := s.Encounter.Entities["BossX"]
			if !rec.IsDead || rec.CurrentHP != 0 {
				t.Fatalf("Dead boss revived: dead=%v hp=%d", rec.IsDead, rec.CurrentHP)
			}
			if rec.Damage.Deaths != 1 {
				t.Fatalf("Deaths = %d, want 1", rec.Damage.Deaths)
			}
		}

		s.SoftReset()
		if len(s.Encounter.Entities) != 0 {
			t.Fatal("Reset must clear the entity map")
		}
	})
}

func TestDamageMonotonic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s, playerA, bossX := setupFight()

		var prev int64
		n := rapid.IntRange(1, 50).Draw(t, "n")
		for i := 0; i < n; i++ {
			d := Damage{
				Amount:    rapid.Int64Range(-100, 10_000).Draw(t, "amount"),
				Modifier:  int32(rapid.IntRange(0, 0x7f).Draw(t, "modifier")),
				SkillID:   rapid.Uint32Range(0, 3).Draw(t, "skill"),
				CurrentHP: rapid.Int64Range(-5000, 1000).Draw(t, "hp"),
				MaxHP:     1000,
			}
			s.OnDamage(playerA, bossX, d, []uint32{1}, []uint32{2})

			got := s.Encounter.Entities["PlayerA"].Damage.DamageDealt
			if got < prev {
				t.Fatalf("Damage decreased: %d -> %d", prev, got)
			}
			prev = got
		}

		s.SoftReset()
		s.OnNewPC(playerA)
		if got := s.Encounter.Entities["PlayerA"].Damage.DamageDealt; got != 0 {
			t.Fatalf("Reset must zero damage, got %d", got)
		}
	})
}

func TestOnDamage_HitRules(t *testing.T) {
	tests := []struct {
		name      string
		damage    Damage
		wantDealt int64
		wantCrits int
		wantBack  int
	}{
		{"Normal", Damage{Amount: 50, SkillID: 1, CurrentHP: 950}, 50, 0, 0},
		{"CritBackAttack", Damage{Amount: 50, SkillID: 1, Modifier: int32(domain.HitFlagCritical) | int32(domain.HitOptionBackAttack)<<4, CurrentHP: 950}, 50, 1, 1},
		{"Invincible", Damage{Amount: 50, SkillID: 1, Modifier: int32(domain.HitFlagInvincible), CurrentHP: 950}, 0, 0, 0},
		{"DamageShareNoSkill", Damage{Amount: 50, Modifier: int32(domain.HitFlagDamageShare), CurrentHP: 950}, 0, 0, 0},
		{"Overkill", Damage{Amount: 500, SkillID: 1, CurrentHP: -200}, 300, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, playerA, bossX := setupFight()
			s.OnDamage(playerA, bossX, tt.damage, nil, nil)

			rec := s.Encounter.Entities["PlayerA"]
			if rec.Damage.DamageDealt != tt.wantDealt {
				t.Errorf("Dealt = %d, want %d", rec.Damage.DamageDealt, tt.wantDealt)
			}
			if rec.Damage.Crits != tt.wantCrits {
				t.Errorf("Crits = %d, want %d", rec.Damage.Crits, tt.wantCrits)
			}
			if rec.Damage.BackAttacks != tt.wantBack {
				t.Errorf("BackAttacks = %d, want %d", rec.Damage.BackAttacks, tt.wantBack)
			}
		})
	}
}

func TestOnDamage_PvPIgnored(t *testing.T) {
	s, playerA, _ := setupFight()
	playerB := &domain.Entity{ID: 3, Type: domain.EntityTypePlayer, Name: "PlayerB"}

	s.OnDamage(playerA, playerB, Damage{Amount: 500, SkillID: 1, CurrentHP: 10}, nil, nil)

	if s.Encounter.FightStart != 0 {
		t.Error("PvP damage must not start a fight")
	}
	if got := s.Encounter.Entities["PlayerA"].Damage.DamageDealt; got != 0 {
		t.Errorf("PvP damage counted: %d", got)
	}
}

func TestOnDamage_BuffAttribution(t *testing.T) {
	s, playerA, bossX := setupFight()

	s.OnDamage(playerA, bossX, Damage{Amount: 100, SkillID: 1, CurrentHP: 900}, []uint32{10, 11}, []uint32{20})
	s.OnDamage(playerA, bossX, Damage{Amount: 50, SkillID: 1, CurrentHP: 850}, []uint32{10}, nil)

	dmg := s.Encounter.Entities["PlayerA"].Damage
	if dmg.BuffedBy[10] != 150 || dmg.BuffedBy[11] != 100 {
		t.Errorf("BuffedBy = %v", dmg.BuffedBy)
	}
	if dmg.DebuffedBy[20] != 100 {
		t.Errorf("DebuffedBy = %v", dmg.DebuffedBy)
	}
}

func TestBossIdentification(t *testing.T) {
	s := newTestState()
	small := &domain.Entity{ID: 10, Type: domain.EntityTypeBoss, Name: "Small", MaxHP: 100}
	big := &domain.Entity{ID: 11, Type: domain.EntityTypeBoss, Name: "Big", MaxHP: 1000}
	smaller := &domain.Entity{ID: 12, Type: domain.EntityTypeBoss, Name: "Smaller", MaxHP: 50}

	s.OnNewNpc(small)
	s.OnNewNpc(big)
	if s.Encounter.CurrentBossName != "Big" {
		t.Errorf("Larger boss must win, got %q", s.Encounter.CurrentBossName)
	}

	s.OnNewNpc(smaller)
	if s.Encounter.CurrentBossName != "Big" {
		t.Errorf("Smaller boss must not replace a live one, got %q", s.Encounter.CurrentBossName)
	}

	s.OnDeath(big)
	s.OnNewNpc(smaller)
	if s.Encounter.CurrentBossName != "Smaller" {
		t.Errorf("Dead boss must be replaced, got %q", s.Encounter.CurrentBossName)
	}
}

func TestBossBattleStatus_Phase(t *testing.T) {
	tests := []struct {
		name       string
		fightStart int64
		boss       string
		want       domain.Phase
	}{
		{"Fresh", 0, "", domain.PhaseStarting},
		{"BossKnown", 0, "BossX", domain.PhaseOngoing},
		{"FightStarted", 1, "", domain.PhaseOngoing},
		{"Both", 1, "BossX", domain.PhaseOngoing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestState()
			s.Encounter.FightStart = tt.fightStart
			s.Encounter.CurrentBossName = tt.boss

			s.OnBossBattleStatus()

			if s.Encounter.Phase != tt.want {
				t.Errorf("Phase = %s, want %s", s.Encounter.Phase, tt.want)
			}
			if s.Encounter.RaidEnd {
				t.Error("Non-terminal phase must not end the encounter")
			}
		})
	}
}

func TestPhaseTransition_EndsFight(t *testing.T) {
	s, playerA, bossX := setupFight()

	s.OnPhaseTransition(domain.PhaseCleared)
	if s.Encounter.RaidEnd {
		t.Error("Terminal phase without a fight must not end an encounter")
	}

	s.OnDamage(playerA, bossX, Damage{Amount: 10, SkillID: 1, CurrentHP: 990}, nil, nil)
	s.OnPhaseTransition(domain.PhaseCleared)
	if !s.Encounter.RaidEnd || !s.Encounter.Saved {
		t.Errorf("RaidEnd=%v Saved=%v, want both true", s.Encounter.RaidEnd, s.Encounter.Saved)
	}

	s.SoftReset()
	if s.Encounter.RaidEnd || s.Encounter.Saved || s.Encounter.Phase != domain.PhaseIdle {
		t.Error("Soft reset must clear flags")
	}
	if s.Encounter.LocalPlayer != "PlayerA" {
		t.Errorf("Local player name lost on reset: %q", s.Encounter.LocalPlayer)
	}
}

func TestOnInitPC_RekeysLocalRecord(t *testing.T) {
	s := newTestState()
	placeholder := &domain.Entity{ID: 1, Type: domain.EntityTypePlayer, Name: domain.LocalPlayerDefault}
	boss := &domain.Entity{ID: 2, Type: domain.EntityTypeBoss, Name: "BossX", MaxHP: 1000}

	s.OnNewPC(placeholder)
	s.OnDamage(placeholder, boss, Damage{Amount: 70, SkillID: 1, CurrentHP: 930}, nil, nil)

	s.OnInitPC(&domain.Entity{ID: 1, Type: domain.EntityTypePlayer, Name: "RealName", ClassID: 204})

	if _, ok := s.Encounter.Entities[domain.LocalPlayerDefault]; ok {
		t.Error("Placeholder record must be re-keyed")
	}
	rec, ok := s.Encounter.Entities["RealName"]
	if !ok || rec.Damage.DamageDealt != 70 || rec.Class != "Bard" {
		t.Errorf("Local record not carried over: %+v", rec)
	}
}

func TestIdentityAndStagger(t *testing.T) {
	s, playerA, bossX := setupFight()

	s.OnIdentityGain(playerA.ID, 50)
	if len(s.Encounter.Entities["PlayerA"].SkillStats.IdentityLog) != 0 {
		t.Error("Identity is only logged during a fight")
	}

	s.OnDamage(playerA, bossX, Damage{Amount: 10, SkillID: 1, CurrentHP: 990}, nil, nil)
	s.OnIdentityGain(playerA.ID, 60)
	s.OnIdentityGain(999, 70)
	if got := s.Encounter.Entities["PlayerA"].SkillStats.IdentityLog; len(got) != 1 || got[0][1] != 60 {
		t.Errorf("IdentityLog = %v", got)
	}

	s.OnStaggerChange(bossX.ID, 30, 100)
	if st := s.Encounter.Entities["BossX"].Stagger; st == nil || st.Current != 30 || st.Max != 100 {
		t.Errorf("Stagger = %+v", st)
	}
}

func TestOnMigration_FollowsObjectIDs(t *testing.T) {
	s, playerA, bossX := setupFight()
	s.OnDamage(playerA, bossX, Damage{Amount: 10, SkillID: 1, CurrentHP: 990}, nil, nil)

	s.OnMigration(map[uint64]uint64{playerA.ID: 11, bossX.ID: 12})

	s.OnStaggerChange(12, 40, 100)
	if st := s.Encounter.Entities["BossX"].Stagger; st == nil || st.Current != 40 {
		t.Errorf("Expected stagger on migrated boss, got %+v", st)
	}
	s.OnIdentityGain(11, 80)
	if got := s.Encounter.Entities["PlayerA"].SkillStats.IdentityLog; len(got) != 1 || got[0][1] != 80 {
		t.Errorf("Expected identity for migrated local player, got %v", got)
	}
	if s.Encounter.FindByID(2) != nil {
		t.Error("Old object id still resolves")
	}
}

func TestOnInitEnv_DropsIdleRecords(t *testing.T) {
	s, playerA, bossX := setupFight()
	idle := &domain.Entity{ID: 5, Type: domain.EntityTypeNPC, Name: "Idle"}
	s.OnNewNpc(idle)
	s.OnDamage(playerA, bossX, Damage{Amount: 10, SkillID: 1, CurrentHP: 990}, nil, nil)

	s.OnInitEnv(&domain.Entity{ID: 77, Type: domain.EntityTypePlayer, Name: "PlayerA"})

	if _, ok := s.Encounter.Entities["Idle"]; ok {
		t.Error("Zero-damage record must be dropped on zone change")
	}
	if rec := s.Encounter.Entities["PlayerA"]; rec == nil || rec.ID != 77 {
		t.Errorf("Local record must follow new object id: %+v", rec)
	}
	if s.Encounter.CurrentBossName != "" {
		t.Errorf("Boss name must be cleared when its record is gone, got %q", s.Encounter.CurrentBossName)
	}
}
