package domain

// LevelID names a content bucket in the catalog.
type LevelID string

const (
	Level1      LevelID = "level1"
	Level2      LevelID = "level2"
	Level3      LevelID = "level3"
	Bonus       LevelID = "bonus"
	Spicy       LevelID = "spicy"
	Anniversary LevelID = "anniversary"
	Custom      LevelID = "custom"
)

// Minimum number of cards played before a level can be left early.
const (
	MinCardsDefault = 15
	MinCardsOrdered = 12
	MinCardsQuick   = 5
)

// MainLevels are the three progressive levels, in play order.
var MainLevels = []LevelID{Level1, Level2, Level3}

// AllLevels lists every level the game knows about.
var AllLevels = []LevelID{Level1, Level2, Level3, Bonus, Spicy, Anniversary, Custom}

// LevelData is the catalog entry for a level.
type LevelData struct {
	Name        string
	Color       string
	ColorLight  string
	Subtitle    string
	Description string
	Cards       []string
}

// Valid reports whether id is one of the known levels.
func (id LevelID) Valid() bool {
	for _, l := range AllLevels {
		if l == id {
			return true
		}
	}
	return false
}

// IsMain reports whether id is one of level1..level3.
func (id LevelID) IsMain() bool {
	return id == Level1 || id == Level2 || id == Level3
}

// Ordered levels are played in catalog order without wildcards.
func (id LevelID) Ordered() bool {
	return id == Bonus || id == Custom
}

// WildcardsEnabled reports whether wildcards are mixed into the deck.
func (id LevelID) WildcardsEnabled() bool {
	return !id.Ordered()
}

// DigDeeperBudget is the number of Dig Deeper cards a fresh session of the level may insert.
func (id LevelID) DigDeeperBudget() int {
	if id.WildcardsEnabled() {
		return 1
	}
	return 0
}

// MinCards is the number of cards after which the player may proceed early.
func (id LevelID) MinCards(quickPlay bool) int {
	switch {
	case quickPlay:
		return MinCardsQuick
	case id.Ordered():
		return MinCardsOrdered
	default:
		return MinCardsDefault
	}
}

// Next returns the main level that follows id. Only level1 and level2 have one.
func (id LevelID) Next() (LevelID, bool) {
	switch id {
	case Level1:
		return Level2, true
	case Level2:
		return Level3, true
	}
	return "", false
}

// Badge is the short label shown above the level name.
func (id LevelID) Badge() string {
	switch id {
	case Level1:
		return "Level 1"
	case Level2:
		return "Level 2"
	case Level3:
		return "Level 3"
	case Bonus:
		return "Bonus"
	case Spicy:
		return "Spicy"
	case Anniversary:
		return "Anniversary"
	case Custom:
		return "Custom"
	}
	return string(id)
}
