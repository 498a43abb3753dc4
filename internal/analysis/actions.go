package analysis

import (
	"sort"

	"github.com/questbro/questbro/internal/game"
)

// ActionAnalysis reports what one action means for the current run state.
type ActionAnalysis struct {
	Action *game.GameAction

	// Available — not yet completed and preconditions hold right now.
	Available bool

	// WouldBreakGoals lists active goals whose target would be neither
	// completed nor immediately available after performing this action.
	// Single-step simulation; this is not a reachability analysis.
	WouldBreakGoals []game.Goal

	// RequiredForGoals lists active goals that name this action as their
	// target or reference it as a required action anywhere in the target's
	// precondition tree.
	RequiredForGoals []game.Goal
}

// AnalyzeActions computes an ActionAnalysis for every catalogue action,
// sorted by action name for stable display order.
func (a *Analyzer) AnalyzeActions(goals []game.Goal) []ActionAnalysis {
	results := make([]ActionAnalysis, 0, len(a.data.Actions()))
	for _, action := range a.data.Actions() {
		results = append(results, a.AnalyzeAction(action, goals))
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Action.Name != results[j].Action.Name {
			return results[i].Action.Name < results[j].Action.Name
		}
		return results[i].Action.ID < results[j].Action.ID
	})
	return results
}

// AnalyzeAction computes the availability and goal impact of one action.
func (a *Analyzer) AnalyzeAction(action *game.GameAction, goals []game.Goal) ActionAnalysis {
	res := ActionAnalysis{
		Action: action,
		Available: !a.completed[action.ID] &&
			game.Evaluate(action.Preconditions, a.completed, a.inventory) &&
			len(a.data.Blockers(action.ID, a.completed)) == 0,
	}

	// Simulate completing this action once.
	simCompleted := with(a.completed, action.ID)
	simInventory := game.Inventory(a.data, simCompleted)

	for _, g := range goals {
		target, ok := a.data.Action(g.TargetID)
		if !ok {
			continue
		}
		reachable := game.Evaluate(target.Preconditions, simCompleted, simInventory) &&
			len(a.data.Blockers(g.TargetID, simCompleted)) == 0
		if !simCompleted[g.TargetID] && !reachable {
			res.WouldBreakGoals = append(res.WouldBreakGoals, g)
		}
		if g.TargetID == action.ID || containsID(game.RequiredActions(target.Preconditions), action.ID) {
			res.RequiredForGoals = append(res.RequiredForGoals, g)
		}
	}
	return res
}

func containsID(ids []string, id string) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
