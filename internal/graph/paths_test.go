package graph

import (
	"reflect"
	"testing"

	"github.com/questbro/questbro/internal/game"
)

func pathIDs(path []*game.GameAction) []string {
	ids := make([]string, 0, len(path))
	for _, a := range path {
		ids = append(ids, a.ID)
	}
	return ids
}

func TestComputePath_CompletedAndReady(t *testing.T) {
	snap := New(fixture(), map[string]bool{"a1": true}, []game.Goal{
		goal("g1", "a1"), goal("g2", "a2"),
	})

	pi, _ := snap.Path("a1")
	if !pi.Achievable || pi.PathLength != 0 || pi.Path == nil {
		t.Errorf("completed target: %+v", pi)
	}
	pi, _ = snap.Path("a2")
	if !pi.Achievable || pi.PathLength != 0 {
		t.Errorf("ready target: %+v", pi)
	}
}

// BFS returns the minimum number of additional actions on a chain, and the
// path lists them in execution order.
func TestComputePath_ChainLength(t *testing.T) {
	actions := []*game.GameAction{
		{ID: "c1", Name: "C1", Preconditions: game.Always{}},
		{ID: "c2", Name: "C2", Preconditions: game.ActionRequired{ActionID: "c1"}},
		{ID: "c3", Name: "C3", Preconditions: game.ActionRequired{ActionID: "c2"}},
		{ID: "c4", Name: "C4", Preconditions: game.ActionRequired{ActionID: "c3"}},
	}
	data := game.NewGameData("chain", "Chain", "1", actions, nil)
	snap := New(data, nil, []game.Goal{goal("g", "c4")})

	pi, _ := snap.Path("c4")
	if !pi.Achievable || pi.PathLength != 3 {
		t.Fatalf("path info = %+v, want length 3", pi)
	}
	if !reflect.DeepEqual(pathIDs(pi.Path), []string{"c1", "c2", "c3"}) {
		t.Errorf("path = %v", pathIDs(pi.Path))
	}
}

// The BFS must thread item grants through the simulated prefix: m only
// becomes available once the key from f is held.
func TestComputePath_ItemChain(t *testing.T) {
	actions := []*game.GameAction{
		{ID: "f", Name: "First", Preconditions: game.Always{},
			Rewards: []game.Reward{{ItemID: "key"}}},
		{ID: "m", Name: "Middle", Preconditions: game.ItemRequired{ItemID: "key"},
			Rewards: []game.Reward{{ItemID: "crown"}}},
		{ID: "l", Name: "Last", Preconditions: game.AllOf(
			game.ItemRequired{ItemID: "crown"},
			game.ActionRequired{ActionID: "f"},
		)},
	}
	data := game.NewGameData("items", "Items", "1",
		actions, []*game.Item{{ID: "key", Name: "Key"}, {ID: "crown", Name: "Crown"}})
	snap := New(data, nil, []game.Goal{goal("g", "l")})

	pi, _ := snap.Path("l")
	if !pi.Achievable || pi.PathLength != 2 {
		t.Fatalf("path info = %+v, want length 2", pi)
	}
	if !reflect.DeepEqual(pathIDs(pi.Path), []string{"f", "m"}) {
		t.Errorf("path = %v", pathIDs(pi.Path))
	}
}

// Scenario: after performing ac on {a1}, goal a2 is dead with blocker ac
// while goal a3 stays ready.
func TestComputePath_ForbiddenBlocker(t *testing.T) {
	snap := New(fixture(), map[string]bool{"a1": true},
		[]game.Goal{goal("g2", "a2"), goal("g3", "a3")})

	next, err := snap.PerformAction("ac")
	if err != nil {
		t.Fatalf("perform ac: %v", err)
	}

	pi, _ := next.Path("a2")
	if pi.Achievable || pi.PathLength != -1 {
		t.Errorf("a2 after ac: %+v, want unachievable", pi)
	}
	if !reflect.DeepEqual(pi.BlockingActions, []string{"ac"}) {
		t.Errorf("blockers = %v, want [ac]", pi.BlockingActions)
	}

	pi, _ = next.Path("a3")
	if !pi.Achievable || pi.PathLength != 0 {
		t.Errorf("a3 after ac: %+v, want ready", pi)
	}

	dead := next.UnachievableGoals()
	if len(dead) != 1 || dead[0].Goal.ID != "g2" {
		t.Errorf("unachievable = %v", dead)
	}
}

// Scenario: empty catalogue, empty run.
func TestSnapshot_EmptyEverything(t *testing.T) {
	data := game.NewGameData("empty", "Empty", "1", nil, nil)
	snap := New(data, nil, nil)

	if n := len(snap.ReadyGoals()) + len(snap.AchievableGoals()) +
		len(snap.CompletedGoals()) + len(snap.UnachievableGoals()); n != 0 {
		t.Errorf("goal buckets non-empty: %d", n)
	}
	if len(snap.CurrentActions()) != 0 || len(snap.CompletedActions()) != 0 {
		t.Error("action accessors non-empty")
	}
	if plan := snap.UnifiedPathToGoals(); len(plan) != 0 {
		t.Errorf("unified plan = %v", plan)
	}
}

// Scenario: a goal referencing a nonexistent action id.
func TestComputePath_MissingTarget(t *testing.T) {
	snap := New(fixture(), nil, []game.Goal{goal("gx", "ghost")})

	pi, ok := snap.Path("ghost")
	if !ok {
		t.Fatal("cache entry missing")
	}
	if pi.Achievable || pi.PathLength != -1 || pi.Path != nil {
		t.Errorf("missing target: %+v", pi)
	}

	dead := snap.UnachievableGoals()
	if len(dead) != 1 || dead[0].TargetName != "Unknown action ghost" {
		t.Errorf("placeholder = %v", dead)
	}
}

func TestComputePath_UnreachableDrainsQueue(t *testing.T) {
	actions := []*game.GameAction{
		{ID: "open", Name: "Open", Preconditions: game.Always{}},
		{ID: "locked", Name: "Locked",
			Preconditions: game.ItemRequired{ItemID: "no-such-item"}},
	}
	data := game.NewGameData("locked", "Locked", "1", actions, nil)
	snap := New(data, nil, []game.Goal{goal("g", "locked")})

	pi, _ := snap.Path("locked")
	if pi.Achievable || pi.PathLength != -1 {
		t.Errorf("unreachable target: %+v", pi)
	}
	if len(pi.BlockingActions) != 0 {
		t.Errorf("no blockers expected, got %v", pi.BlockingActions)
	}
}
