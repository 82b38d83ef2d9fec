package trackers

import (
	"combat-meter/internal/domain"
	"combat-meter/pkg/logger"
	"sort"

	"github.com/sirupsen/logrus"
)

// PartyMember - участник для полной замены состава (PartyInfo)
type PartyMember struct {
	CharacterID uint64
	Name        string
}

// PartyTracker хранит составы партий. Персонаж состоит не более чем в одной партии.
type PartyTracker struct {
	ids *IDTracker

	parties     map[uint32]*domain.Party // ключ - PartyInstanceID
	partyByChar map[uint64]uint32
	charByName  map[string]uint64

	localCharID uint64
	localName   string
}

func NewPartyTracker(ids *IDTracker) *PartyTracker {
	return &PartyTracker{
		ids:         ids,
		parties:     make(map[uint32]*domain.Party),
		partyByChar: make(map[uint64]uint32),
		charByName:  make(map[string]uint64),
	}
}

// SetLocal запоминает локального игрока (нужно для выхода из партии по имени)
func (t *PartyTracker) SetLocal(charID uint64, name string) {
	t.localCharID = charID
	t.localName = name
	if charID != 0 && name != "" {
		t.charByName[name] = charID
	}
}

// Add добавляет участника в партию (upsert). Партия создается при первом участнике.
// charID может быть неизвестен - тогда он ищется по objID.
func (t *PartyTracker) Add(raidID, partyID uint32, charID, objID uint64, name string) {
	if charID == 0 && objID != 0 {
		charID, _ = t.ids.CharacterID(objID)
	}
	if charID == 0 {
		return
	}
	if objID != 0 {
		t.ids.AddMapping(charID, objID)
	}

	if prev, ok := t.partyByChar[charID]; ok && prev != partyID {
		t.evict(prev, charID)
	}

	party, ok := t.parties[partyID]
	if !ok {
		party = domain.NewParty(raidID, partyID)
		t.parties[partyID] = party
	}
	if raidID != 0 {
		party.RaidInstanceID = raidID
	}
	party.Members[charID] = struct{}{}
	t.partyByChar[charID] = partyID

	if name != "" {
		t.charByName[name] = charID
	}
}

// ReplaceMembers выставляет состав партии целиком
func (t *PartyTracker) ReplaceMembers(raidID, partyID uint32, members []PartyMember) {
	if party, ok := t.parties[partyID]; ok {
		for charID := range party.Members {
			delete(t.partyByChar, charID)
		}
		delete(t.parties, partyID)
	}
	for _, m := range members {
		objID, _ := t.ids.ObjectID(m.CharacterID)
		t.Add(raidID, partyID, m.CharacterID, objID, m.Name)
	}
}

// Remove исключает участника по имени. Если вышли мы сами, партия забывается целиком.
func (t *PartyTracker) Remove(partyID uint32, name string) {
	if name != "" && name == t.localName {
		if party, ok := t.parties[partyID]; ok {
			for charID := range party.Members {
				delete(t.partyByChar, charID)
			}
			delete(t.parties, partyID)
		}
		logger.Log.WithField("party", partyID).Info("Local player left party")
		return
	}

	charID, ok := t.charByName[name]
	if !ok {
		logger.Log.WithFields(logrus.Fields{
			"party": partyID,
			"name":  name,
		}).Debug("Party leave for unknown member")
		return
	}
	t.evict(partyID, charID)
}

func (t *PartyTracker) evict(partyID uint32, charID uint64) {
	party, ok := t.parties[partyID]
	if !ok {
		return
	}
	delete(party.Members, charID)
	if t.partyByChar[charID] == partyID {
		delete(t.partyByChar, charID)
	}
	if len(party.Members) == 0 {
		delete(t.parties, partyID)
	}
}

// CompleteEntry дописывает ObjectID для уже известного персонажа
func (t *PartyTracker) CompleteEntry(charID, objID uint64) {
	t.ids.AddMapping(charID, objID)
}

func (t *PartyTracker) PartyOf(charID uint64) (uint32, bool) {
	id, ok := t.partyByChar[charID]
	return id, ok
}

// SameParty - оба персонажа известны и состоят в одной партии
func (t *PartyTracker) SameParty(a, b uint64) bool {
	if a == 0 || b == 0 {
		return false
	}
	pa, ok := t.partyByChar[a]
	if !ok {
		return false
	}
	pb, ok := t.partyByChar[b]
	return ok && pa == pb
}

// Parties возвращает партии по возрастанию PartyInstanceID
func (t *PartyTracker) Parties() []*domain.Party {
	out := make([]*domain.Party, 0, len(t.parties))
	for _, p := range t.parties {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PartyInstanceID < out[j].PartyInstanceID })
	return out
}

func (t *PartyTracker) Clear() {
	clear(t.parties)
	clear(t.partyByChar)
	clear(t.charByName)
}
