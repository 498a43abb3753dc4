package graph

import (
	"testing"

	"github.com/questbro/questbro/internal/game"
)

// assertTopological fails if any action appears before one of its
// structural prerequisites (required action or item provider).
func assertTopological(t *testing.T, data *game.GameData, plan []*game.GameAction) {
	t.Helper()
	position := make(map[string]int, len(plan))
	for i, a := range plan {
		position[a.ID] = i
	}
	for i, a := range plan {
		for _, req := range game.RequiredActions(a.Preconditions) {
			if j, in := position[req]; in && j > i {
				t.Errorf("%s at %d precedes its prerequisite %s at %d", a.ID, i, req, j)
			}
		}
		for _, itemID := range game.RequiredItems(a.Preconditions) {
			for _, p := range data.Providers(itemID) {
				if j, in := position[p.ID]; in && p.ID != a.ID && j > i {
					t.Errorf("%s at %d precedes provider %s at %d", a.ID, i, p.ID, j)
				}
			}
		}
	}
}

func TestUnifiedPath_DependencyOrder(t *testing.T) {
	actions := []*game.GameAction{
		{ID: "dig", Name: "Dig", Preconditions: game.Always{},
			Rewards: []game.Reward{{ItemID: "ore"}}},
		{ID: "smelt", Name: "Smelt", Preconditions: game.ItemRequired{ItemID: "ore"},
			Rewards: []game.Reward{{ItemID: "ingot"}}},
		{ID: "forge", Name: "Forge", Preconditions: game.AllOf(
			game.ItemRequired{ItemID: "ingot"},
			game.ActionRequired{ActionID: "dig"},
		)},
	}
	data := game.NewGameData("forge", "Forge", "1", actions,
		[]*game.Item{{ID: "ore", Name: "Ore"}, {ID: "ingot", Name: "Ingot"}})
	snap := New(data, nil, []game.Goal{goal("g", "forge")})

	plan := snap.UnifiedPathToGoals()
	if len(plan) != 3 {
		t.Fatalf("plan = %v, want 3 actions", pathIDs(plan))
	}
	assertTopological(t, data, plan)
	if plan[len(plan)-1].ID != "forge" {
		t.Errorf("plan = %v, want forge last", pathIDs(plan))
	}
}

func TestUnifiedPath_MergesGoalsAndSkipsCompleted(t *testing.T) {
	snap := New(fixture(), map[string]bool{"a1": true}, []game.Goal{
		goal("g2", "a2"), goal("g3", "a3"), goal("g1", "a1"),
	})

	plan := snap.UnifiedPathToGoals()
	ids := pathIDs(plan)
	if len(ids) != 2 {
		t.Fatalf("plan = %v, want 2 actions", ids)
	}
	for _, id := range ids {
		if id == "a1" {
			t.Error("completed action a1 must not appear in the plan")
		}
	}
	assertTopological(t, snap.Data(), plan)
}

func TestUnifiedPath_IgnoresUnachievableGoals(t *testing.T) {
	snap := New(fixture(), map[string]bool{"a1": true, "ac": true}, []game.Goal{
		goal("g2", "a2"), goal("g3", "a3"),
	})

	plan := snap.UnifiedPathToGoals()
	ids := pathIDs(plan)
	if len(ids) != 1 || ids[0] != "a3" {
		t.Errorf("plan = %v, want [a3] (a2 is foreclosed)", ids)
	}
}

func TestUnifiedPath_SharedPrerequisiteAppearsOnce(t *testing.T) {
	actions := []*game.GameAction{
		{ID: "base", Name: "Base", Preconditions: game.Always{}},
		{ID: "left", Name: "Left", Preconditions: game.ActionRequired{ActionID: "base"}},
		{ID: "right", Name: "Right", Preconditions: game.ActionRequired{ActionID: "base"}},
	}
	data := game.NewGameData("tree", "Tree", "1", actions, nil)
	snap := New(data, nil, []game.Goal{goal("gl", "left"), goal("gr", "right")})

	plan := snap.UnifiedPathToGoals()
	ids := pathIDs(plan)
	if len(ids) != 3 {
		t.Fatalf("plan = %v, want base once plus both targets", ids)
	}
	if ids[0] != "base" {
		t.Errorf("plan = %v, want base first", ids)
	}
	assertTopological(t, data, plan)
}
