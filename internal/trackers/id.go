package trackers

// IDTracker - двусторонняя карта ObjectID <-> CharacterID.
// ObjectID живет в пределах зоны, CharacterID стабилен.
type IDTracker struct {
	charByObject map[uint64]uint64
	objectByChar map[uint64]uint64
}

func NewIDTracker() *IDTracker {
	return &IDTracker{
		charByObject: make(map[uint64]uint64),
		objectByChar: make(map[uint64]uint64),
	}
}

// AddMapping связывает персонажа с текущим объектом. Старая связь персонажа заменяется.
func (t *IDTracker) AddMapping(charID, objID uint64) {
	if charID == 0 || objID == 0 {
		return
	}
	if prev, ok := t.objectByChar[charID]; ok && prev != objID {
		delete(t.charByObject, prev)
	}
	if prevChar, ok := t.charByObject[objID]; ok && prevChar != charID {
		delete(t.objectByChar, prevChar)
	}
	t.charByObject[objID] = charID
	t.objectByChar[charID] = objID
}

func (t *IDTracker) CharacterID(objID uint64) (uint64, bool) {
	id, ok := t.charByObject[objID]
	return id, ok
}

func (t *IDTracker) ObjectID(charID uint64) (uint64, bool) {
	id, ok := t.objectByChar[charID]
	return id, ok
}

// RemapAll переносит связи на новые ObjectID (миграция). Все пары old -> new применяются разом,
// поэтому обмен (10->20, 20->10) не теряет связей.
// Если новый ObjectID занят объектом, который не переносится, связь переносимого побеждает.
func (t *IDTracker) RemapAll(newIDs map[uint64]uint64) {
	if len(newIDs) == 0 {
		return
	}
	next := make(map[uint64]uint64, len(t.charByObject))
	for objID, charID := range t.charByObject {
		if n, ok := newIDs[objID]; ok {
			next[n] = charID
		}
	}
	for objID, charID := range t.charByObject {
		if _, moved := newIDs[objID]; moved {
			continue
		}
		if _, taken := next[objID]; taken {
			continue
		}
		next[objID] = charID
	}

	t.charByObject = next
	clear(t.objectByChar)
	for objID, charID := range next {
		t.objectByChar[charID] = objID
	}
}

func (t *IDTracker) RemoveObject(objID uint64) {
	if charID, ok := t.charByObject[objID]; ok {
		delete(t.charByObject, objID)
		if t.objectByChar[charID] == objID {
			delete(t.objectByChar, charID)
		}
	}
}

func (t *IDTracker) Len() int {
	return len(t.charByObject)
}

func (t *IDTracker) Clear() {
	clear(t.charByObject)
	clear(t.objectByChar)
}
