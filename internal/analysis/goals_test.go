package analysis

import (
	"reflect"
	"testing"

	"github.com/questbro/questbro/internal/game"
)

// fixture is the four-action catalogue used throughout the engine tests:
// a1 has no preconditions and grants item1, a2 requires a1, a3 requires
// item1, ac forbids a2.
func fixture() *game.GameData {
	actions := []*game.GameAction{
		{ID: "a1", Name: "First steps", Preconditions: game.Always{},
			Rewards: []game.Reward{{ItemID: "item1"}}},
		{ID: "a2", Name: "Follow through",
			Preconditions: game.ActionRequired{ActionID: "a1"}},
		{ID: "a3", Name: "Use the relic",
			Preconditions: game.ItemRequired{ItemID: "item1"}},
		{ID: "ac", Name: "Betrayal",
			Preconditions: game.ActionForbidden{ActionID: "a2"}},
	}
	items := []*game.Item{
		{ID: "item1", Name: "Relic"},
		{ID: "item2", Name: "Trinket"},
		{ID: "item3", Name: "Charm"},
		{ID: "item4", Name: "Sigil"},
	}
	return game.NewGameData("fixture", "Fixture", "1.0", actions, items)
}

func goal(id, target string) game.Goal {
	return game.Goal{ID: id, TargetID: target}
}

func TestAnalyzeGoal_Classification(t *testing.T) {
	data := fixture()

	cases := []struct {
		name      string
		completed map[string]bool
		target    string
		want      GoalStatus
	}{
		{"completed", map[string]bool{"a1": true}, "a1", GoalCompleted},
		{"directly achievable", map[string]bool{}, "a1", GoalDirectlyAchievable},
		{"achievable via dependency", map[string]bool{}, "a2", GoalAchievable},
		{"achievable via item", map[string]bool{}, "a3", GoalAchievable},
		{"ready once dependency done", map[string]bool{"a1": true}, "a2", GoalDirectlyAchievable},
		{"missing target", map[string]bool{}, "ghost", GoalUnachievable},
		{"forbidden after completion", map[string]bool{"a2": true}, "ac", GoalUnachievable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := NewAnalyzer(data, tc.completed)
			got := a.AnalyzeGoal(goal("g", tc.target))
			if got.Status != tc.want {
				t.Errorf("status = %s, want %s", got.Status, tc.want)
			}
		})
	}
}

func TestAnalyzeGoal_RequiredActions(t *testing.T) {
	data := fixture()
	a := NewAnalyzer(data, map[string]bool{})

	res := a.AnalyzeGoal(goal("g", "a2"))
	if res.Status != GoalAchievable {
		t.Fatalf("status = %s", res.Status)
	}
	if !reflect.DeepEqual(res.RequiredActions, []string{"a1"}) {
		t.Errorf("required = %v, want [a1]", res.RequiredActions)
	}

	// Item requirement resolves through the provider.
	res = a.AnalyzeGoal(goal("g", "a3"))
	if !reflect.DeepEqual(res.RequiredActions, []string{"a1"}) {
		t.Errorf("required = %v, want [a1]", res.RequiredActions)
	}
}

func TestAnalyzeGoal_Blockers(t *testing.T) {
	data := fixture()
	a := NewAnalyzer(data, map[string]bool{"a2": true})

	res := a.AnalyzeGoal(goal("g", "ac"))
	if res.Status != GoalUnachievable {
		t.Fatalf("status = %s", res.Status)
	}
	if !reflect.DeepEqual(res.BlockingActions, []string{"a2"}) {
		t.Errorf("blockers = %v, want [a2]", res.BlockingActions)
	}
}

func TestAnalyzeGoal_CycleIsUnachievable(t *testing.T) {
	actions := []*game.GameAction{
		{ID: "x", Name: "X", Preconditions: game.ActionRequired{ActionID: "y"}},
		{ID: "y", Name: "Y", Preconditions: game.ActionRequired{ActionID: "x"}},
	}
	data := game.NewGameData("cyclic", "Cyclic", "1", actions, nil)
	a := NewAnalyzer(data, map[string]bool{})

	if res := a.AnalyzeGoal(goal("g", "x")); res.Status != GoalUnachievable {
		t.Errorf("cyclic goal status = %s, want UNACHIEVABLE", res.Status)
	}
}

func TestAnalyzeGoal_OrPicksSmallestBranch(t *testing.T) {
	actions := []*game.GameAction{
		{ID: "p1", Name: "P1", Preconditions: game.Always{}},
		{ID: "p2", Name: "P2", Preconditions: game.ActionRequired{ActionID: "p1"}},
		{ID: "t", Name: "Target", Preconditions: game.AnyOf(
			game.AllOf(
				game.ActionRequired{ActionID: "p1"},
				game.ActionRequired{ActionID: "p2"},
			),
			game.ActionRequired{ActionID: "p1"},
		)},
	}
	data := game.NewGameData("or", "Or", "1", actions, nil)
	a := NewAnalyzer(data, map[string]bool{})

	res := a.AnalyzeGoal(goal("g", "t"))
	if res.Status != GoalAchievable {
		t.Fatalf("status = %s", res.Status)
	}
	if !reflect.DeepEqual(res.RequiredActions, []string{"p1"}) {
		t.Errorf("required = %v, want the one-action branch", res.RequiredActions)
	}
}

func TestAnalyzeGoal_MissingReferencesAreUnachievable(t *testing.T) {
	actions := []*game.GameAction{
		{ID: "needs-ghost", Name: "NG",
			Preconditions: game.ActionRequired{ActionID: "ghost"}},
		{ID: "needs-phantom-item", Name: "NPI",
			Preconditions: game.ItemRequired{ItemID: "phantom"}},
	}
	data := game.NewGameData("missing", "Missing", "1", actions, nil)
	a := NewAnalyzer(data, map[string]bool{})

	if res := a.AnalyzeGoal(goal("g", "needs-ghost")); res.Status != GoalUnachievable {
		t.Errorf("missing action ref: status = %s", res.Status)
	}
	if res := a.AnalyzeGoal(goal("g", "needs-phantom-item")); res.Status != GoalUnachievable {
		t.Errorf("missing item ref: status = %s", res.Status)
	}
}
