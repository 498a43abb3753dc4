// Package analysis classifies goals and actions against a fixed run state.
//
// An Analyzer is built once per (catalogue, completion set) pair and answers
// two families of questions: how reachable is a goal (goals.go), and what
// would performing a single action do to the active goals (actions.go).
// All answers are pure functions of the inputs.
package analysis

import (
	"github.com/questbro/questbro/internal/game"
)

// GoalStatus is the reachability classification of a goal.
type GoalStatus string

const (
	// GoalCompleted — the target action is already in the completion set.
	GoalCompleted GoalStatus = "COMPLETED"
	// GoalDirectlyAchievable — the target's preconditions hold right now.
	GoalDirectlyAchievable GoalStatus = "DIRECTLY_ACHIEVABLE"
	// GoalAchievable — reachable after some finite prefix of future actions.
	GoalAchievable GoalStatus = "ACHIEVABLE"
	// GoalUnachievable — no future sequence of actions can satisfy the target.
	GoalUnachievable GoalStatus = "UNACHIEVABLE"
)

// GoalAnalysis is the classification of one goal plus the supporting lists.
type GoalAnalysis struct {
	Goal   game.Goal
	Status GoalStatus

	// RequiredActions lists uncompleted actions the analyzer walked through
	// to show the goal reachable, in dependency-first order.
	RequiredActions []string

	// BlockingActions lists completed actions that make the goal
	// unsatisfiable under the structural analysis.
	BlockingActions []string
}

// Analyzer answers reachability questions for a fixed completion set.
type Analyzer struct {
	data      *game.GameData
	completed map[string]bool
	inventory map[string]bool
}

// NewAnalyzer derives the inventory and returns an analyzer over it.
// The completed set is not copied; callers must not mutate it afterwards.
func NewAnalyzer(data *game.GameData, completed map[string]bool) *Analyzer {
	return &Analyzer{
		data:      data,
		completed: completed,
		inventory: game.Inventory(data, completed),
	}
}

// AnalyzeGoal classifies a goal. A goal whose target action does not exist in
// the catalogue is unachievable, never an error.
func (a *Analyzer) AnalyzeGoal(g game.Goal) GoalAnalysis {
	if a.completed[g.TargetID] {
		return GoalAnalysis{Goal: g, Status: GoalCompleted}
	}
	target, ok := a.data.Action(g.TargetID)
	if !ok {
		return GoalAnalysis{Goal: g, Status: GoalUnachievable}
	}
	if blockers := a.data.Blockers(g.TargetID, a.completed); len(blockers) > 0 {
		return GoalAnalysis{Goal: g, Status: GoalUnachievable, BlockingActions: blockers}
	}
	if game.Evaluate(target.Preconditions, a.completed, a.inventory) {
		return GoalAnalysis{Goal: g, Status: GoalDirectlyAchievable}
	}
	achievable, required, blocking := a.checkAchievability(target.Preconditions, map[string]bool{g.TargetID: true})
	if achievable {
		return GoalAnalysis{Goal: g, Status: GoalAchievable, RequiredActions: dedup(required)}
	}
	return GoalAnalysis{Goal: g, Status: GoalUnachievable, BlockingActions: dedup(blocking)}
}

// checkAchievability decides whether a precondition can still be satisfied by
// completing further actions. visited carries the action ids on the current
// recursion path; revisiting one means a dependency cycle, which makes that
// branch unachievable.
func (a *Analyzer) checkAchievability(p game.Precondition, visited map[string]bool) (bool, []string, []string) {
	switch e := p.(type) {
	case nil, game.Always:
		return true, nil, nil

	case game.ActionRequired:
		if a.completed[e.ActionID] {
			return true, nil, nil
		}
		if blockers := a.data.Blockers(e.ActionID, a.completed); len(blockers) > 0 {
			return false, nil, blockers
		}
		if visited[e.ActionID] {
			return false, nil, nil
		}
		dep, ok := a.data.Action(e.ActionID)
		if !ok {
			return false, nil, nil
		}
		achievable, required, blocking := a.checkAchievability(dep.Preconditions, with(visited, e.ActionID))
		if !achievable {
			return false, nil, blocking
		}
		return true, append(required, e.ActionID), nil

	case game.ActionForbidden:
		if a.completed[e.ActionID] {
			return false, nil, []string{e.ActionID}
		}
		return true, nil, nil

	case game.ItemRequired:
		if a.inventory[e.ItemID] {
			return true, nil, nil
		}
		var blocking []string
		for _, provider := range a.data.Providers(e.ItemID) {
			if a.completed[provider.ID] || visited[provider.ID] {
				continue
			}
			if blockers := a.data.Blockers(provider.ID, a.completed); len(blockers) > 0 {
				blocking = append(blocking, blockers...)
				continue
			}
			achievable, required, providerBlocking := a.checkAchievability(provider.Preconditions, with(visited, provider.ID))
			if achievable {
				return true, append(required, provider.ID), nil
			}
			blocking = append(blocking, providerBlocking...)
		}
		return false, nil, blocking

	case game.And:
		var required, blocking []string
		achievable := true
		for _, c := range e.Children {
			ok, r, b := a.checkAchievability(c, visited)
			if !ok {
				achievable = false
			}
			required = append(required, r...)
			blocking = append(blocking, b...)
		}
		if !achievable {
			return false, nil, blocking
		}
		return true, required, nil

	case game.Or:
		var best []string
		var blocking []string
		found := false
		for _, c := range e.Children {
			ok, r, b := a.checkAchievability(c, visited)
			if ok {
				if !found || len(r) < len(best) {
					best = r
					found = true
				}
			} else {
				blocking = append(blocking, b...)
			}
		}
		if found {
			return true, best, nil
		}
		return false, nil, blocking
	}
	return false, nil, nil
}

// with returns visited extended by id without mutating the original.
func with(visited map[string]bool, id string) map[string]bool {
	next := make(map[string]bool, len(visited)+1)
	for k := range visited {
		next[k] = true
	}
	next[id] = true
	return next
}

// dedup drops repeated ids, keeping first occurrences in order.
func dedup(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
