package georiddle

// RiddleStrategy selects how a riddle is produced for a category.
type RiddleStrategy int

const (
	// StrategyText asks the external generator for a themed riddle.
	StrategyText RiddleStrategy = iota
	// StrategyMath generates a simple arithmetic riddle locally.
	StrategyMath
)

// Category binds a places-directory tag to an enemy archetype and a
// riddle strategy. Prompt is the theme handed to the text generator.
type Category struct {
	Name      string
	Archetype string
	Strategy  RiddleStrategy
	Prompt    string
}

// DefaultCategories is the category ranking: earlier entries spawn first.
// A category without an archetype never spawns and exists only to rank.
func DefaultCategories() []Category {
	return []Category{
		{Name: "museum", Archetype: "Sphinx", Strategy: StrategyText,
			Prompt: "The riddle should be about history, ancient artifacts, or art."},
		{Name: "library", Archetype: "Sphinx", Strategy: StrategyText,
			Prompt: "The riddle should be about books, words, or stories."},
		{Name: "church", Archetype: "Gargoyle", Strategy: StrategyText,
			Prompt: "The riddle should be about bells, towers, or stone."},
		{Name: "park", Archetype: "Troll", Strategy: StrategyText,
			Prompt: "The riddle should be about trees, nature, or the outdoors."},
		{Name: "cemetery", Archetype: "Ghost", Strategy: StrategyText,
			Prompt: "The riddle should be about time, memory, or silence."},
		{Name: "school", Archetype: "Imp", Strategy: StrategyMath},
		{Name: "university", Archetype: "Archmage", Strategy: StrategyMath},
		{Name: "bank", Archetype: "Golem", Strategy: StrategyMath},
		{Name: "tourist_attraction", Archetype: "Chimera", Strategy: StrategyText,
			Prompt: "The riddle should be about travel, landmarks, or maps."},
		{Name: "restaurant", Archetype: "Goblin", Strategy: StrategyText,
			Prompt: "The riddle should be about food or cooking."},
		{Name: "cafe", Archetype: "Goblin", Strategy: StrategyText,
			Prompt: "The riddle should be about coffee, mornings, or warmth."},
		{Name: "store", Archetype: "Gremlin", Strategy: StrategyText,
			Prompt: "The riddle should be about everyday objects."},
	}
}

// PriorityTable is an immutable ranking over known categories. Lower rank
// means higher spawn priority. Built once at startup and passed explicitly.
type PriorityTable struct {
	order []Category
	rank  map[string]int
}

func NewPriorityTable(categories []Category) *PriorityTable {
	t := &PriorityTable{
		order: make([]Category, len(categories)),
		rank:  make(map[string]int, len(categories)),
	}
	copy(t.order, categories)
	for i, c := range t.order {
		if _, dup := t.rank[c.Name]; !dup {
			t.rank[c.Name] = i
		}
	}
	return t
}

// Len is the number of known categories, which doubles as the rank
// assigned to anything unknown.
func (t *PriorityTable) Len() int { return len(t.order) }

// Lookup returns the category entry for a tag.
func (t *PriorityTable) Lookup(name string) (Category, bool) {
	i, ok := t.rank[name]
	if !ok {
		return Category{}, false
	}
	return t.order[i], true
}

// Rank returns the best (lowest) rank over a place's tags. Tags missing
// from the table, or an empty tag set, rank last.
func (t *PriorityTable) Rank(tags []string) int {
	best := len(t.order)
	for _, tag := range tags {
		if i, ok := t.rank[tag]; ok && i < best {
			best = i
		}
	}
	return best
}

// Top resolves the highest-priority known category among tags.
func (t *PriorityTable) Top(tags []string) (Category, bool) {
	i := t.Rank(tags)
	if i >= len(t.order) {
		return Category{}, false
	}
	return t.order[i], true
}

// Archetype maps a single category tag to its enemy archetype. Empty
// string means no enemy spawns for this tag.
func (t *PriorityTable) Archetype(name string) string {
	c, ok := t.Lookup(name)
	if !ok {
		return ""
	}
	return c.Archetype
}
