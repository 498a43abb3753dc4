package sat

import (
	"testing"

	"github.com/questbro/questbro/internal/game"
)

func TestGoalCompatibility(t *testing.T) {
	data := fixture()
	g2, g3, gc := goal("g2", "a2"), goal("g3", "a3"), goal("gc", "ac")
	enc := Encode(data, nil, []game.Goal{g2, g3, gc})
	r := NewReasoner(nil)

	res := r.CheckGoalCompatibility(enc, g3, []game.Goal{g2})
	if !res.Known || !res.Compatible {
		t.Errorf("a2+a3 should be compatible: %+v", res)
	}

	res = r.CheckGoalCompatibility(enc, gc, []game.Goal{g2})
	if !res.Known || res.Compatible {
		t.Errorf("ac vs a2 should be incompatible: %+v", res)
	}
}

// Scenario: undoing a1 while goal a2 is asserted is impossible, because a2's
// preconditions require a1.
func TestUndoability(t *testing.T) {
	data := fixture()
	g2 := goal("g2", "a2")
	enc := Encode(data, map[string]bool{"a1": true}, []game.Goal{g2})
	r := NewReasoner(nil)

	res := r.CheckUndoability(enc, "a1", []game.Goal{g2})
	if !res.Known || res.Undoable {
		t.Errorf("a1 should not be undoable under goal a2: %+v", res)
	}

	// With no goals asserted, dropping a1 is fine.
	res = r.CheckUndoability(enc, "a1", nil)
	if !res.Known || !res.Undoable {
		t.Errorf("a1 should be undoable without goals: %+v", res)
	}

	res = r.CheckUndoability(enc, "ghost", nil)
	if !res.Known || res.Undoable {
		t.Errorf("unknown action: %+v", res)
	}
}

// The SAT undoability is tighter than the structural one: a required only
// in a satisfied Or branch blocks the structural undo but not the SAT one.
func TestUndoability_OrBranch(t *testing.T) {
	actions := []*game.GameAction{
		{ID: "a", Name: "A", Preconditions: game.Always{}},
		{ID: "b", Name: "B", Preconditions: game.Always{}},
		{ID: "c", Name: "C", Preconditions: game.AnyOf(
			game.ActionRequired{ActionID: "a"},
			game.ActionRequired{ActionID: "b"},
		)},
	}
	data := game.NewGameData("or", "Or", "1", actions, nil)
	gc := goal("gc", "c")
	completed := map[string]bool{"a": true, "b": true, "c": true}
	enc := Encode(data, completed, []game.Goal{gc})

	res := NewReasoner(nil).CheckUndoability(enc, "a", []game.Goal{gc})
	if !res.Known || !res.Undoable {
		t.Errorf("the b branch keeps c satisfied, so a is undoable: %+v", res)
	}
}

func TestFindOptimalPath(t *testing.T) {
	data := fixture()
	g2, g3 := goal("g2", "a2"), goal("g3", "a3")
	enc := Encode(data, map[string]bool{"a1": true}, []game.Goal{g2, g3})
	r := NewReasoner(nil)

	res := r.FindOptimalPath(enc, []game.Goal{g2, g3}, true)
	if !res.Known || !res.Exists {
		t.Fatalf("result = %+v", res)
	}
	if res.Length != 2 {
		t.Errorf("length = %d, want 2 (a2 and a3)", res.Length)
	}
	got := make(map[string]bool)
	for _, a := range res.Actions {
		got[a.ID] = true
	}
	if !got["a2"] || !got["a3"] {
		t.Errorf("actions = %v", got)
	}
}

// Minimisation prunes actions a plain model might include.
func TestFindOptimalPath_Minimises(t *testing.T) {
	actions := []*game.GameAction{
		{ID: "long1", Name: "L1", Preconditions: game.Always{},
			Rewards: []game.Reward{{ItemID: "gem"}}},
		{ID: "long2", Name: "L2", Preconditions: game.ActionRequired{ActionID: "long1"},
			Rewards: []game.Reward{{ItemID: "gem"}}},
		{ID: "short", Name: "S", Preconditions: game.Always{},
			Rewards: []game.Reward{{ItemID: "gem"}}},
		{ID: "t", Name: "T", Preconditions: game.ItemRequired{ItemID: "gem"}},
	}
	data := game.NewGameData("min", "Min", "1", actions,
		[]*game.Item{{ID: "gem", Name: "Gem"}})
	g := goal("g", "t")
	enc := Encode(data, nil, []game.Goal{g})

	res := NewReasoner(nil).FindOptimalPath(enc, []game.Goal{g}, true)
	if !res.Known || !res.Exists {
		t.Fatalf("result = %+v", res)
	}
	if res.Length != 2 {
		t.Errorf("length = %d, want 2 (one provider plus the target)", res.Length)
	}
}

func TestFindOptimalPath_Unsatisfiable(t *testing.T) {
	data := fixture()
	g2, gc := goal("g2", "a2"), goal("gc", "ac")
	enc := Encode(data, nil, []game.Goal{g2, gc})

	res := NewReasoner(nil).FindOptimalPath(enc, []game.Goal{g2, gc}, true)
	if !res.Known || res.Exists {
		t.Errorf("result = %+v, want UNSAT", res)
	}
}

// One-way agreement: wherever the structural BFS reports a goal achievable,
// the SAT encoding must admit a model for it.
func TestStructuralImpliesSat(t *testing.T) {
	data := fixture()
	states := []map[string]bool{
		{},
		{"a1": true},
		{"a1": true, "a2": true},
	}
	goals := []game.Goal{goal("g2", "a2"), goal("g3", "a3")}
	r := NewReasoner(nil)

	for _, completed := range states {
		enc := Encode(data, completed, goals)
		for _, g := range goals {
			// The fixture goals are structurally achievable in all of
			// these states; SAT must concur.
			res := r.CheckGoalCompatibility(enc, g, nil)
			if !res.Known || !res.Compatible {
				t.Errorf("completed=%v goal=%s: SAT disagrees with structural achievability",
					completed, g.ID)
			}
		}
	}
}
