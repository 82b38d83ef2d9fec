package trackers

import (
	"combat-meter/internal/domain"
	"combat-meter/internal/packets"
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

// fakeClock - управляемое время для проверки истечения эффектов
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func newTestTracker(clock *fakeClock) *EntityTracker {
	ids := NewIDTracker()
	parties := NewPartyTracker(ids)
	var now func() time.Time
	if clock != nil {
		now = clock.Now
	}
	return NewEntityTracker(ids, parties, NewStatusTracker(parties, now))
}

func TestGetOrCreate_Idempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tr := newTestTracker(nil)
		ids := rapid.SliceOfN(rapid.Uint64Range(1, 50), 1, 100).Draw(t, "ids")

		distinct := make(map[uint64]struct{})
		for _, id := range ids {
			e := tr.GetOrCreate(id)
			if e != tr.GetOrCreate(id) {
				t.Fatalf("GetOrCreate(%d) returned different records", id)
			}
			distinct[id] = struct{}{}
		}
		if tr.Len() != len(distinct) {
			t.Fatalf("Expected %d entities, got %d", len(distinct), tr.Len())
		}
	})
}

func TestGetOrCreate_Placeholder(t *testing.T) {
	tr := newTestTracker(nil)
	e := tr.GetOrCreate(0xBEEF)

	if e.Name != "beef" {
		t.Errorf("Expected hex placeholder name, got %q", e.Name)
	}
	if !e.IsPlaceholder() {
		t.Error("Expected placeholder to have unknown type")
	}

	// Явное появление заменяет заглушку
	tr.NewNpc(&packets.NewNpc{Npc: packets.NpcStruct{ObjectID: 0xBEEF, Name: "Голем", Grade: uint8(domain.NpcGradeBoss)}})
	got, _ := tr.Get(0xBEEF)
	if got.Name != "Голем" || got.Type != domain.EntityTypeBoss {
		t.Errorf("Expected boss Голем, got %s %q", got.Type, got.Name)
	}
	if tr.Len() != 1 {
		t.Errorf("Expected 1 entity, got %d", tr.Len())
	}
}

func TestNewNpc_Types(t *testing.T) {
	tests := []struct {
		name string
		npc  packets.NpcStruct
		want domain.EntityType
	}{
		{"Normal", packets.NpcStruct{ObjectID: 1, Grade: uint8(domain.NpcGradeNormal)}, domain.EntityTypeNPC},
		{"Boss", packets.NpcStruct{ObjectID: 2, Grade: uint8(domain.NpcGradeRaid)}, domain.EntityTypeBoss},
		{"Esther", packets.NpcStruct{ObjectID: 3, Grade: uint8(domain.NpcGradeBoss), Esther: true}, domain.EntityTypeEsther},
	}

	tr := newTestTracker(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tr.NewNpc(&packets.NewNpc{Npc: tt.npc}).Type; got != tt.want {
				t.Errorf("Got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSourceEntity_ResolvesOwner(t *testing.T) {
	tr := newTestTracker(nil)
	tr.NewPC(&packets.NewPC{PC: packets.PCStruct{PlayerID: 10, Name: "Alpha", CharacterID: 100}})
	tr.NewProjectile(&packets.NewProjectile{Projectile: packets.ProjectileInfo{ProjectileID: 11, OwnerID: 10}})
	tr.NewNpcSummon(&packets.NewNpcSummon{OwnerID: 10, Npc: packets.NpcStruct{ObjectID: 12}})

	for _, id := range []uint64{10, 11, 12} {
		if got := tr.SourceEntity(id); got.ID != 10 {
			t.Errorf("SourceEntity(%d) = %d, want owner 10", id, got.ID)
		}
	}
}

func TestGuessIsPlayer(t *testing.T) {
	tr := newTestTracker(nil)

	unknown := tr.GetOrCreate(5)
	if !tr.GuessIsPlayer(unknown, 16140) {
		t.Fatal("Expected unknown entity to be promoted")
	}
	if unknown.Type != domain.EntityTypePlayer || unknown.ClassID != 102 {
		t.Errorf("Got type %s class %d", unknown.Type, unknown.ClassID)
	}

	npc := tr.NewNpc(&packets.NewNpc{Npc: packets.NpcStruct{ObjectID: 6}})
	if tr.GuessIsPlayer(npc, 16140) {
		t.Error("Known NPC must never be promoted")
	}

	other := tr.GetOrCreate(7)
	if tr.GuessIsPlayer(other, 999) {
		t.Error("Skill outside player table must not promote")
	}
}

func TestInitEnv_KeepsLocalPlayer(t *testing.T) {
	tr := newTestTracker(nil)
	tr.InitPC(&packets.InitPC{PlayerID: 1, Name: "Me", CharacterID: 1000, ClassID: 204})
	tr.NewNpc(&packets.NewNpc{Npc: packets.NpcStruct{ObjectID: 2}})

	local := tr.InitEnv(&packets.InitEnv{PlayerID: 50})

	if local.ID != 50 || local.Name != "Me" || local.CharacterID != 1000 {
		t.Errorf("Local player lost identity: %+v", local)
	}
	if tr.Len() != 1 {
		t.Errorf("Expected only local player after zone change, got %d", tr.Len())
	}
	if obj, _ := tr.IDs.ObjectID(1000); obj != 50 {
		t.Errorf("Character mapping not moved, got %d", obj)
	}
}

func TestMigrate_PreservesIdentity(t *testing.T) {
	tr := newTestTracker(nil)
	tr.InitPC(&packets.InitPC{PlayerID: 1, Name: "Me", CharacterID: 1000})
	tr.NewPC(&packets.NewPC{PC: packets.PCStruct{PlayerID: 2, Name: "Ally", CharacterID: 2000}})
	tr.NewProjectile(&packets.NewProjectile{Projectile: packets.ProjectileInfo{ProjectileID: 3, OwnerID: 2}})
	tr.StatusEffectAdd(&packets.StatusEffectAddNotify{ObjectID: 2, Effect: packets.StatusEffectData{EffectInstanceID: 9, StatusEffectID: 77}})

	tr.Migrate([]packets.IDRemap{{OldID: 1, NewID: 101}, {OldID: 2, NewID: 102}, {OldID: 3, NewID: 103}})

	if _, ok := tr.Get(1); ok {
		t.Error("Old id 1 still tracked")
	}
	ally, ok := tr.Get(102)
	if !ok || ally.CharacterID != 2000 || ally.Name != "Ally" {
		t.Fatalf("Ally not re-keyed correctly: %+v", ally)
	}
	if tr.LocalPlayerID() != 101 {
		t.Errorf("Local player id = %d, want 101", tr.LocalPlayerID())
	}
	if got := tr.SourceEntity(103); got.ID != 102 {
		t.Errorf("Projectile owner not remapped, got %d", got.ID)
	}
	if obj, _ := tr.IDs.ObjectID(2000); obj != 102 {
		t.Errorf("Id tracker not remapped, got %d", obj)
	}
	if _, onTarget := tr.Status.Effects(nil, ally, 1000); len(onTarget) != 1 || onTarget[0] != 77 {
		t.Errorf("Effects not moved with target: %v", onTarget)
	}
}

func TestMigrate_SwapAndCollision(t *testing.T) {
	tr := newTestTracker(nil)
	tr.InitPC(&packets.InitPC{PlayerID: 1, Name: "Me", CharacterID: 1000})
	tr.NewPC(&packets.NewPC{PC: packets.PCStruct{PlayerID: 2, Name: "Ally", CharacterID: 2000}})
	tr.NewNpc(&packets.NewNpc{Npc: packets.NpcStruct{ObjectID: 30, TypeID: 1, Name: "Mob"}})
	tr.StatusEffectAdd(&packets.StatusEffectAddNotify{ObjectID: 1, Effect: packets.StatusEffectData{EffectInstanceID: 5, StatusEffectID: 55}})

	newIDs := tr.Migrate([]packets.IDRemap{{OldID: 1, NewID: 2}, {OldID: 2, NewID: 1}})
	if len(newIDs) != 2 || newIDs[1] != 2 {
		t.Errorf("Unexpected remap table: %v", newIDs)
	}

	me, _ := tr.Get(2)
	ally, _ := tr.Get(1)
	if me == nil || me.Name != "Me" || ally == nil || ally.Name != "Ally" {
		t.Fatalf("Swap lost entities: me=%+v ally=%+v", me, ally)
	}
	if tr.LocalPlayerID() != 2 {
		t.Errorf("Expected local player id 2, got %d", tr.LocalPlayerID())
	}
	if char, ok := tr.IDs.CharacterID(2); !ok || char != 1000 {
		t.Errorf("Expected object 2 -> char 1000, got %d (%v)", char, ok)
	}
	if char, ok := tr.IDs.CharacterID(1); !ok || char != 2000 {
		t.Errorf("Expected object 1 -> char 2000, got %d (%v)", char, ok)
	}
	if obj, _ := tr.IDs.ObjectID(1000); obj != 2 {
		t.Errorf("Expected char 1000 -> object 2, got %d", obj)
	}
	if _, onTarget := tr.Status.Effects(nil, me, 1000); len(onTarget) != 1 || onTarget[0] != 55 {
		t.Errorf("Expected effect 55 to follow the local player, got %v", onTarget)
	}

	// Перенос на занятый ObjectID вытесняет непереносимый объект
	tr.Migrate([]packets.IDRemap{{OldID: 1, NewID: 30}})
	moved, ok := tr.Get(30)
	if !ok || moved.Name != "Ally" {
		t.Fatalf("Expected Ally at 30, got %+v", moved)
	}
	if tr.Len() != 2 {
		t.Errorf("Expected 2 entities after collision, got %d", tr.Len())
	}
	if char, _ := tr.IDs.CharacterID(30); char != 2000 {
		t.Errorf("Expected object 30 -> char 2000, got %d", char)
	}
}

func TestPartyTracker_NoDuplicates(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ids := NewIDTracker()
		pt := NewPartyTracker(ids)

		n := rapid.IntRange(1, 60).Draw(t, "n")
		for i := 0; i < n; i++ {
			party := rapid.Uint32Range(1, 3).Draw(t, "party")
			char := rapid.Uint64Range(1, 8).Draw(t, "char")
			pt.Add(1, party, char, 0, "")
		}

		seen := make(map[uint64]uint32)
		for _, p := range pt.Parties() {
			for _, id := range p.MemberIDs() {
				if prev, dup := seen[id]; dup {
					t.Fatalf("Character %d in parties %d and %d", id, prev, p.PartyInstanceID)
				}
				seen[id] = p.PartyInstanceID
			}
		}
	})
}

func TestPartyTracker_RemoveByName(t *testing.T) {
	ids := NewIDTracker()
	pt := NewPartyTracker(ids)
	pt.SetLocal(1, "Me")
	pt.Add(7, 1, 1, 0, "Me")
	pt.Add(7, 1, 2, 0, "Ally")
	pt.Add(7, 1, 3, 0, "Other")

	pt.Remove(1, "Ally")
	if _, ok := pt.PartyOf(2); ok {
		t.Error("Ally must be evicted")
	}
	if !pt.SameParty(1, 3) {
		t.Error("Remaining members must stay together")
	}

	pt.Remove(1, "Me")
	if len(pt.Parties()) != 0 {
		t.Errorf("Own party must be forgotten when we leave, got %d parties", len(pt.Parties()))
	}
}

func TestStatusTracker_Scopes(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	tr := newTestTracker(clock)

	tr.InitPC(&packets.InitPC{PlayerID: 1, Name: "Me", CharacterID: 1000})
	ally := tr.NewPC(&packets.NewPC{PC: packets.PCStruct{PlayerID: 2, Name: "Ally", CharacterID: 2000}})
	stranger := tr.NewPC(&packets.NewPC{PC: packets.PCStruct{PlayerID: 3, Name: "Stranger", CharacterID: 3000}})
	boss := tr.NewNpc(&packets.NewNpc{Npc: packets.NpcStruct{ObjectID: 4}})

	tr.PartyInfo(&packets.PartyInfo{PartyInstanceID: 5, Members: []packets.PartyMember{
		{Name: "Me", CharacterID: 1000},
		{Name: "Ally", CharacterID: 2000},
	}})

	// Партийный эффект на союзнике и локальный на нем же: виден только партийный
	tr.PartyStatusEffectAdd(&packets.PartyStatusEffectAddNotify{CharacterID: 2000, StatusEffects: []packets.StatusEffectData{
		{EffectInstanceID: 1, StatusEffectID: 500},
	}})
	tr.StatusEffectAdd(&packets.StatusEffectAddNotify{ObjectID: 2, Effect: packets.StatusEffectData{EffectInstanceID: 2, StatusEffectID: 600}})

	// Партийный эффект на чужом персонаже не виден
	tr.PartyStatusEffectAdd(&packets.PartyStatusEffectAddNotify{CharacterID: 3000, StatusEffects: []packets.StatusEffectData{
		{EffectInstanceID: 3, StatusEffectID: 700},
	}})

	// Дебафф на боссе с истечением через 2 секунды
	tr.StatusEffectAdd(&packets.StatusEffectAddNotify{ObjectID: 4, Effect: packets.StatusEffectData{
		EffectInstanceID: 4, StatusEffectID: 800, SourceID: 2, TotalTime: 2, EndTick: 10_000,
	}})

	onAlly, onBoss := tr.Status.Effects(ally, boss, 1000)
	if len(onAlly) != 1 || onAlly[0] != 500 {
		t.Errorf("Ally effects = %v, want [500]", onAlly)
	}
	if len(onBoss) != 1 || onBoss[0] != 800 {
		t.Errorf("Boss effects = %v, want [800]", onBoss)
	}

	onStranger, _ := tr.Status.Effects(stranger, nil, 1000)
	if len(onStranger) != 0 {
		t.Errorf("Stranger effects = %v, want none", onStranger)
	}

	// Продление на 3 секунды, затем проверка истечения
	tr.StatusEffectDuration(&packets.StatusEffectDurationNotify{TargetID: 4, EffectInstanceID: 4, ExpirationTick: 13_000})
	clock.t = clock.t.Add(4 * time.Second)
	if _, onBoss = tr.Status.Effects(nil, boss, 1000); len(onBoss) != 1 {
		t.Errorf("Extended effect expired too early: %v", onBoss)
	}
	clock.t = clock.t.Add(2 * time.Second)
	if _, onBoss = tr.Status.Effects(nil, boss, 1000); len(onBoss) != 0 {
		t.Errorf("Expired effect still visible: %v", onBoss)
	}
}

func TestStatusTracker_UnpublishRemovesEffects(t *testing.T) {
	tr := newTestTracker(nil)
	boss := tr.NewNpc(&packets.NewNpc{Npc: packets.NpcStruct{ObjectID: 4}})
	tr.StatusEffectAdd(&packets.StatusEffectAddNotify{ObjectID: 4, Effect: packets.StatusEffectData{EffectInstanceID: 1, StatusEffectID: 10, SourceID: 9}})
	tr.StatusEffectAdd(&packets.StatusEffectAddNotify{ObjectID: 8, Effect: packets.StatusEffectData{EffectInstanceID: 2, StatusEffectID: 20, SourceID: 4}})

	tr.Unpublish(4)

	if tr.Status.Len() != 0 {
		t.Errorf("Expected no effects referencing object 4, got %d", tr.Status.Len())
	}
	if _, ok := tr.Get(boss.ID); ok {
		t.Error("Unpublished entity still tracked")
	}
}

func TestStatusTracker_ExplicitRemove(t *testing.T) {
	tr := newTestTracker(nil)
	tr.StatusEffectAdd(&packets.StatusEffectAddNotify{ObjectID: 4, Effect: packets.StatusEffectData{EffectInstanceID: 1, StatusEffectID: 10}})
	tr.StatusEffectAdd(&packets.StatusEffectAddNotify{ObjectID: 4, Effect: packets.StatusEffectData{EffectInstanceID: 2, StatusEffectID: 20}})

	tr.StatusEffectRemove(&packets.StatusEffectRemoveNotify{ObjectID: 4, StatusEffectIDs: []uint32{1}})

	target, _ := tr.Get(4)
	if _, on := tr.Status.Effects(nil, target, 0); len(on) != 1 || on[0] != 20 {
		t.Errorf("Effects = %v, want [20]", on)
	}
}

func TestCurrentAndMaxHP(t *testing.T) {
	hp, maxHP := CurrentAndMaxHP([]packets.StatPair{
		{Type: domain.StatTypeMaxHP, Value: 1000},
		{Type: 5, Value: 42},
		{Type: domain.StatTypeHP, Value: 900},
	})
	if hp != 900 || maxHP != 1000 {
		t.Errorf("Got %d/%d, want 900/1000", hp, maxHP)
	}
}
