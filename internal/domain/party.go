package domain

import "sort"

// Party - состав одной партии внутри рейда.
type Party struct {
	RaidInstanceID  uint32
	PartyInstanceID uint32
	Members         map[uint64]struct{} // CharacterID, множество без дублей
}

func NewParty(raidID, partyID uint32) *Party {
	return &Party{
		RaidInstanceID:  raidID,
		PartyInstanceID: partyID,
		Members:         make(map[uint64]struct{}),
	}
}

// MemberIDs возвращает отсортированный список участников (для логов и тестов)
func (p *Party) MemberIDs() []uint64 {
	ids := make([]uint64, 0, len(p.Members))
	for id := range p.Members {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
