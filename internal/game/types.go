// Package game defines the static catalogue model — actions, items, rewards,
// preconditions — and the dynamic run state layered on top of it.
//
// A GameData is the immutable description of a game: every action a player may
// perform, the items those actions grant, and the boolean preconditions that
// guard them. A GameRun records one player's progress through a catalogue:
// which actions are completed and which goals are active.
//
// Everything in this package is a plain value; evaluation lives in
// preconditions.go and is pure.
package game

import "time"

// ActionCategory classifies an action for display and search. The reasoning
// kernel treats it as opaque metadata.
type ActionCategory string

const (
	CategoryExploration ActionCategory = "EXPLORATION"
	CategoryQuest       ActionCategory = "QUEST"
	CategoryItemPickup  ActionCategory = "ITEM_PICKUP"
	CategoryBoss        ActionCategory = "BOSS"
	CategoryOther       ActionCategory = "OTHER"
)

// Item is a collectible the player can hold.
type Item struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Reward asserts that completing an action grants an item.
type Reward struct {
	ItemID      string `json:"item_id"`
	Description string `json:"description,omitempty"`
}

// GameAction is an atomic, at-most-once event a player may perform.
type GameAction struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Description   string         `json:"description,omitempty"`
	Preconditions Precondition   `json:"-"`
	Rewards       []Reward       `json:"rewards,omitempty"`
	Category      ActionCategory `json:"category,omitempty"`
}

// GameData is a complete game catalogue. Actions and Items keep their
// insertion order; all deterministic enumeration in the engine follows it.
type GameData struct {
	GameID  string
	Name    string
	Version string

	actions []*GameAction
	items   []*Item

	actionIndex map[string]*GameAction
	itemIndex   map[string]*Item

	// providers maps item id to the actions that reward it, catalogue order.
	providers map[string][]*GameAction

	// forbiddenBy maps action id to the actions whose preconditions forbid
	// it, catalogue order. Forbidding is a mutual exclusion: once either
	// side is completed the other is permanently foreclosed.
	forbiddenBy map[string][]string
}

// NewGameData builds a catalogue from ordered action and item lists.
// Later entries with duplicate ids are dropped.
func NewGameData(gameID, name, version string, actions []*GameAction, items []*Item) *GameData {
	d := &GameData{
		GameID:      gameID,
		Name:        name,
		Version:     version,
		actionIndex: make(map[string]*GameAction, len(actions)),
		itemIndex:   make(map[string]*Item, len(items)),
		providers:   make(map[string][]*GameAction),
		forbiddenBy: make(map[string][]string),
	}
	for _, a := range actions {
		if a == nil {
			continue
		}
		if _, dup := d.actionIndex[a.ID]; dup {
			continue
		}
		if a.Preconditions == nil {
			a.Preconditions = Always{}
		}
		d.actions = append(d.actions, a)
		d.actionIndex[a.ID] = a
	}
	for _, it := range items {
		if it == nil {
			continue
		}
		if _, dup := d.itemIndex[it.ID]; dup {
			continue
		}
		d.items = append(d.items, it)
		d.itemIndex[it.ID] = it
	}
	for _, a := range d.actions {
		for _, r := range a.Rewards {
			d.providers[r.ItemID] = append(d.providers[r.ItemID], a)
		}
		for _, f := range ForbiddenActions(a.Preconditions) {
			d.forbiddenBy[f] = append(d.forbiddenBy[f], a.ID)
		}
	}
	return d
}

// Action looks up an action by id.
func (d *GameData) Action(id string) (*GameAction, bool) {
	a, ok := d.actionIndex[id]
	return a, ok
}

// Item looks up an item by id.
func (d *GameData) Item(id string) (*Item, bool) {
	it, ok := d.itemIndex[id]
	return it, ok
}

// Actions returns all actions in catalogue order. Callers must not mutate
// the returned slice.
func (d *GameData) Actions() []*GameAction {
	return d.actions
}

// Items returns all items in catalogue order.
func (d *GameData) Items() []*Item {
	return d.items
}

// Providers returns the actions whose rewards contain the given item,
// in catalogue order.
func (d *GameData) Providers(itemID string) []*GameAction {
	return d.providers[itemID]
}

// ForbiddenBy returns the actions whose preconditions forbid the given
// action, in catalogue order.
func (d *GameData) ForbiddenBy(actionID string) []string {
	return d.forbiddenBy[actionID]
}

// Blockers returns the completed actions that permanently foreclose the
// given action: either the action's own preconditions forbid something
// already completed, or a completed action forbids it.
func (d *GameData) Blockers(actionID string, completed map[string]bool) []string {
	var blockers []string
	seen := make(map[string]bool)
	add := func(id string) {
		if completed[id] && !seen[id] {
			seen[id] = true
			blockers = append(blockers, id)
		}
	}
	if a, ok := d.actionIndex[actionID]; ok {
		for _, f := range ForbiddenActions(a.Preconditions) {
			add(f)
		}
	}
	for _, b := range d.forbiddenBy[actionID] {
		add(b)
	}
	return blockers
}

// Goal is a declared intention to complete a specific target action.
// Two goals are the same goal only if every field matches.
type Goal struct {
	ID          string `json:"id"`
	TargetID    string `json:"target_id"`
	Description string `json:"description,omitempty"`
	Priority    int    `json:"priority"`
}

// GameRun is one player's progress through a catalogue.
type GameRun struct {
	GameID       string          `json:"game_id"`
	GameVersion  string          `json:"game_version"`
	RunName      string          `json:"run_name"`
	Completed    map[string]bool `json:"-"`
	Goals        []Goal          `json:"goals,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	LastModified time.Time       `json:"last_modified"`
}

// NewGameRun creates an empty run for a catalogue.
func NewGameRun(data *GameData, runName string, now time.Time) *GameRun {
	return &GameRun{
		GameID:       data.GameID,
		GameVersion:  data.Version,
		RunName:      runName,
		Completed:    make(map[string]bool),
		CreatedAt:    now,
		LastModified: now,
	}
}
