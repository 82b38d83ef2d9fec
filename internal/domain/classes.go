package domain

// Таблица классов игроков (ClassID -> имя)
var classNames = map[uint32]string{
	101: "Warrior (Male)",
	102: "Berserker",
	103: "Destroyer",
	104: "Gunlancer",
	105: "Paladin",
	111: "Warrior (Female)",
	112: "Slayer",
	201: "Mage",
	202: "Arcanist",
	203: "Summoner",
	204: "Bard",
	205: "Sorceress",
	301: "Martial Artist (Female)",
	302: "Wardancer",
	303: "Scrapper",
	304: "Soulfist",
	305: "Glaivier",
	311: "Martial Artist (Male)",
	312: "Striker",
	313: "Breaker",
	401: "Assassin",
	402: "Deathblade",
	403: "Shadowhunter",
	404: "Reaper",
	405: "Souleater",
	501: "Gunner (Male)",
	502: "Sharpshooter",
	503: "Deadeye",
	504: "Artillerist",
	505: "Machinist",
	511: "Gunner (Female)",
	512: "Gunslinger",
	601: "Specialist",
	602: "Artist",
	603: "Aeromancer",
	604: "Wildsoul",
}

// ClassName возвращает имя класса или "Unknown"
func ClassName(classID uint32) string {
	if name, ok := classNames[classID]; ok {
		return name
	}
	return "Unknown"
}

// skillPrefixToClass - ПРИБЛИЗИТЕЛЬНАЯ таблица: тысячный префикс ID умения -> класс.
// Игровые умения лежат блоками по классам, но границы блоков нигде не гарантированы.
// Используется только эвристикой GuessIsPlayer, ошибки здесь ожидаемы.
var skillPrefixToClass = map[uint32]uint32{
	16: 102, 17: 104, 18: 103, 19: 202, 20: 203, 21: 204,
	22: 302, 23: 303, 24: 304, 25: 402, 26: 404, 27: 403,
	28: 502, 29: 503, 30: 504, 31: 602, 32: 603, 33: 604,
	34: 305, 35: 505, 36: 105, 37: 205, 38: 512, 39: 312,
	45: 112, 46: 405, 47: 313,
}

// ClassFromSkill возвращает класс по ID умения (0 - умение не из таблицы игроков).
// Результат приблизительный.
func ClassFromSkill(skillID uint32) uint32 {
	return skillPrefixToClass[skillID/1000]
}
