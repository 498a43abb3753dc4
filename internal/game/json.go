package game

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

const timeLayout = time.RFC3339

func parseTime(s string) time.Time {
	t, _ := time.Parse(timeLayout, s)
	return t
}

// Wire format for precondition trees. Each node is an object with a "type"
// discriminator:
//
//	{"type": "always"}
//	{"type": "action_required", "action_id": "a1"}
//	{"type": "action_forbidden", "action_id": "a2"}
//	{"type": "item_required", "item_id": "i1"}
//	{"type": "and", "children": [...]}
//	{"type": "or", "children": [...]}
type preconditionJSON struct {
	Type     string            `json:"type"`
	ActionID string            `json:"action_id,omitempty"`
	ItemID   string            `json:"item_id,omitempty"`
	Children []json.RawMessage `json:"children,omitempty"`
}

// EncodePrecondition serializes a precondition tree to its wire form.
func EncodePrecondition(p Precondition) ([]byte, error) {
	node, err := toJSONNode(p)
	if err != nil {
		return nil, err
	}
	return json.Marshal(node)
}

func toJSONNode(p Precondition) (*preconditionJSON, error) {
	switch e := p.(type) {
	case nil:
		return &preconditionJSON{Type: "always"}, nil
	case Always:
		return &preconditionJSON{Type: "always"}, nil
	case ActionRequired:
		return &preconditionJSON{Type: "action_required", ActionID: e.ActionID}, nil
	case ActionForbidden:
		return &preconditionJSON{Type: "action_forbidden", ActionID: e.ActionID}, nil
	case ItemRequired:
		return &preconditionJSON{Type: "item_required", ItemID: e.ItemID}, nil
	case And:
		return branchNode("and", e.Children)
	case Or:
		return branchNode("or", e.Children)
	}
	return nil, fmt.Errorf("encode precondition: unknown node %T", p)
}

func branchNode(kind string, children []Precondition) (*preconditionJSON, error) {
	node := &preconditionJSON{Type: kind}
	for _, c := range children {
		raw, err := EncodePrecondition(c)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, raw)
	}
	return node, nil
}

// DecodePrecondition parses the wire form back into a tree.
func DecodePrecondition(data []byte) (Precondition, error) {
	if len(data) == 0 || string(data) == "null" {
		return Always{}, nil
	}
	var node preconditionJSON
	if err := json.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("parse precondition: %w", err)
	}
	switch node.Type {
	case "", "always":
		return Always{}, nil
	case "action_required":
		return ActionRequired{ActionID: node.ActionID}, nil
	case "action_forbidden":
		return ActionForbidden{ActionID: node.ActionID}, nil
	case "item_required":
		return ItemRequired{ItemID: node.ItemID}, nil
	case "and", "or":
		children := make([]Precondition, 0, len(node.Children))
		for _, raw := range node.Children {
			c, err := DecodePrecondition(raw)
			if err != nil {
				return nil, err
			}
			children = append(children, c)
		}
		if node.Type == "and" {
			return And{Children: children}, nil
		}
		return Or{Children: children}, nil
	}
	return nil, fmt.Errorf("parse precondition: unknown type %q", node.Type)
}

// actionJSON mirrors GameAction with an explicit precondition payload.
type actionJSON struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Preconditions json.RawMessage `json:"preconditions,omitempty"`
	Rewards       []Reward        `json:"rewards,omitempty"`
	Category      ActionCategory  `json:"category,omitempty"`
}

// MarshalJSON emits the action with its precondition tree inline.
func (a *GameAction) MarshalJSON() ([]byte, error) {
	pre, err := EncodePrecondition(a.Preconditions)
	if err != nil {
		return nil, err
	}
	return json.Marshal(actionJSON{
		ID:            a.ID,
		Name:          a.Name,
		Description:   a.Description,
		Preconditions: pre,
		Rewards:       a.Rewards,
		Category:      a.Category,
	})
}

// UnmarshalJSON parses an action including its precondition tree.
// A missing preconditions field means Always.
func (a *GameAction) UnmarshalJSON(data []byte) error {
	var aj actionJSON
	if err := json.Unmarshal(data, &aj); err != nil {
		return err
	}
	pre, err := DecodePrecondition(aj.Preconditions)
	if err != nil {
		return fmt.Errorf("action %q: %w", aj.ID, err)
	}
	a.ID = aj.ID
	a.Name = aj.Name
	a.Description = aj.Description
	a.Preconditions = pre
	a.Rewards = aj.Rewards
	a.Category = aj.Category
	return nil
}

// gameDataJSON is the on-disk catalogue shape.
type gameDataJSON struct {
	GameID  string        `json:"game_id"`
	Name    string        `json:"name"`
	Version string        `json:"version"`
	Actions []*GameAction `json:"actions"`
	Items   []*Item       `json:"items,omitempty"`
}

// MarshalJSON emits the catalogue in insertion order.
func (d *GameData) MarshalJSON() ([]byte, error) {
	return json.Marshal(gameDataJSON{
		GameID:  d.GameID,
		Name:    d.Name,
		Version: d.Version,
		Actions: d.actions,
		Items:   d.items,
	})
}

// UnmarshalJSON parses a catalogue, preserving action order.
func (d *GameData) UnmarshalJSON(data []byte) error {
	var dj gameDataJSON
	if err := json.Unmarshal(data, &dj); err != nil {
		return err
	}
	*d = *NewGameData(dj.GameID, dj.Name, dj.Version, dj.Actions, dj.Items)
	return nil
}

// runJSON is the on-disk run shape. The completion set is stored as a sorted
// list so saved files are stable under resaving.
type runJSON struct {
	GameID       string   `json:"game_id"`
	GameVersion  string   `json:"game_version"`
	RunName      string   `json:"run_name"`
	Completed    []string `json:"completed_actions,omitempty"`
	Goals        []Goal   `json:"goals,omitempty"`
	CreatedAt    string   `json:"created_at"`
	LastModified string   `json:"last_modified"`
}

// MarshalJSON emits the run with a sorted completion list.
func (r *GameRun) MarshalJSON() ([]byte, error) {
	completed := make([]string, 0, len(r.Completed))
	for id := range r.Completed {
		completed = append(completed, id)
	}
	sort.Strings(completed)
	return json.Marshal(runJSON{
		GameID:       r.GameID,
		GameVersion:  r.GameVersion,
		RunName:      r.RunName,
		Completed:    completed,
		Goals:        r.Goals,
		CreatedAt:    r.CreatedAt.UTC().Format(timeLayout),
		LastModified: r.LastModified.UTC().Format(timeLayout),
	})
}

// UnmarshalJSON parses a run file.
func (r *GameRun) UnmarshalJSON(data []byte) error {
	var rj runJSON
	if err := json.Unmarshal(data, &rj); err != nil {
		return err
	}
	r.GameID = rj.GameID
	r.GameVersion = rj.GameVersion
	r.RunName = rj.RunName
	r.Completed = make(map[string]bool, len(rj.Completed))
	for _, id := range rj.Completed {
		r.Completed[id] = true
	}
	r.Goals = rj.Goals
	r.CreatedAt = parseTime(rj.CreatedAt)
	r.LastModified = parseTime(rj.LastModified)
	return nil
}
