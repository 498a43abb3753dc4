// Package graph provides the action-graph snapshot: an immutable value
// combining a game catalogue, a completion set, and the active goals, with a
// per-goal path cache built on construction.
//
// Snapshots never share mutable state. Every transformation (PerformAction,
// UndoAction, AddGoals, RemoveGoals) returns a new snapshot with a freshly
// built cache; the receiver is left untouched. A snapshot may therefore be
// shared freely across goroutines for reading.
package graph

import (
	"sort"

	"github.com/questbro/questbro/internal/analysis"
	"github.com/questbro/questbro/internal/game"
)

// Snapshot is an immutable view of one run state.
type Snapshot struct {
	data      *game.GameData
	completed map[string]bool
	inventory map[string]bool
	goals     []game.Goal

	analyzer *analysis.Analyzer

	// cache holds one PathInfo per distinct goal target, built eagerly so
	// the snapshot is safe to publish without further synchronisation.
	cache map[string]*PathInfo
}

// New builds a snapshot. The completed set and goal list are copied; the
// catalogue is shared (it is immutable). The path cache for every active
// goal is computed before New returns.
func New(data *game.GameData, completed map[string]bool, goals []game.Goal) *Snapshot {
	s := &Snapshot{
		data:      data,
		completed: copySet(completed),
		goals:     append([]game.Goal(nil), goals...),
	}
	s.inventory = game.Inventory(data, s.completed)
	s.analyzer = analysis.NewAnalyzer(data, s.completed)
	s.cache = make(map[string]*PathInfo, len(s.goals))
	for _, g := range s.goals {
		if _, done := s.cache[g.TargetID]; done {
			continue
		}
		s.cache[g.TargetID] = s.computePath(g.TargetID)
	}
	return s
}

// FromRun builds a snapshot from a run's completion set and goals.
func FromRun(data *game.GameData, run *game.GameRun) *Snapshot {
	return New(data, run.Completed, run.Goals)
}

// Data returns the shared catalogue.
func (s *Snapshot) Data() *game.GameData { return s.data }

// Goals returns the active goals in order. Callers must not mutate it.
func (s *Snapshot) Goals() []game.Goal { return s.goals }

// Completed returns the sorted completion set.
func (s *Snapshot) Completed() []string {
	ids := make([]string, 0, len(s.completed))
	for id := range s.completed {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// IsCompleted reports whether an action is in the completion set.
func (s *Snapshot) IsCompleted(actionID string) bool { return s.completed[actionID] }

// AnalyzeGoals classifies every active goal through the goal analyzer,
// in adoption order.
func (s *Snapshot) AnalyzeGoals() []analysis.GoalAnalysis {
	out := make([]analysis.GoalAnalysis, 0, len(s.goals))
	for _, g := range s.goals {
		out = append(out, s.analyzer.AnalyzeGoal(g))
	}
	return out
}

// AnalyzeActions returns per-action availability and goal impact for the
// whole catalogue, sorted by action name.
func (s *Snapshot) AnalyzeActions() []analysis.ActionAnalysis {
	return s.analyzer.AnalyzeActions(s.goals)
}

// Path returns the cached path info for a goal target, if the target belongs
// to an active goal. The returned value must not be mutated.
func (s *Snapshot) Path(targetID string) (*PathInfo, bool) {
	pi, ok := s.cache[targetID]
	return pi, ok
}

// ReadyGoals returns active goals whose target is immediately available.
func (s *Snapshot) ReadyGoals() []game.Goal {
	var out []game.Goal
	for _, g := range s.goals {
		if s.completed[g.TargetID] {
			continue
		}
		if pi := s.cache[g.TargetID]; pi != nil && pi.Achievable && pi.PathLength == 0 {
			out = append(out, g)
		}
	}
	return out
}

// AchievableGoals returns active goals reachable only after further actions.
func (s *Snapshot) AchievableGoals() []game.Goal {
	var out []game.Goal
	for _, g := range s.goals {
		if s.completed[g.TargetID] {
			continue
		}
		if pi := s.cache[g.TargetID]; pi != nil && pi.Achievable && pi.PathLength > 0 {
			out = append(out, g)
		}
	}
	return out
}

// CompletedGoals returns active goals whose target is already completed.
func (s *Snapshot) CompletedGoals() []game.Goal {
	var out []game.Goal
	for _, g := range s.goals {
		if s.completed[g.TargetID] {
			out = append(out, g)
		}
	}
	return out
}

// UnachievableGoal pairs a dead goal with the completed actions blocking it.
type UnachievableGoal struct {
	Goal            game.Goal
	TargetName      string
	BlockingActions []string
}

// UnachievableGoals returns active goals that can no longer be satisfied.
// A goal whose target action is missing from the catalogue is reported with
// a placeholder target name.
func (s *Snapshot) UnachievableGoals() []UnachievableGoal {
	var out []UnachievableGoal
	for _, g := range s.goals {
		if s.completed[g.TargetID] {
			continue
		}
		pi := s.cache[g.TargetID]
		if pi == nil || pi.Achievable {
			continue
		}
		name := "Unknown action " + g.TargetID
		if target, ok := s.data.Action(g.TargetID); ok {
			name = target.Name
		}
		out = append(out, UnachievableGoal{
			Goal:            g,
			TargetName:      name,
			BlockingActions: append([]string(nil), pi.BlockingActions...),
		})
	}
	return out
}

// GoalPaths lists the candidate paths toward one goal that pass through a
// particular action. The outer list is kept for future multi-path surfacing;
// today it holds at most the single cached path.
type GoalPaths struct {
	Goal  game.Goal
	Paths [][]*game.GameAction
}

// CurrentAction is an available action annotated with its goal impact.
type CurrentAction struct {
	Action *game.GameAction

	// EnablesGoals maps goals to the cached paths that run through this
	// action (or end at it).
	EnablesGoals []GoalPaths

	// BlocksGoals lists goals that performing this action forecloses,
	// per the structural forbidden-action scan.
	BlocksGoals []game.Goal
}

// CurrentActions returns every available action, sorted by name, annotated
// with the goals it advances and the goals it would foreclose.
func (s *Snapshot) CurrentActions() []CurrentAction {
	var out []CurrentAction
	for _, action := range s.data.Actions() {
		if s.completed[action.ID] {
			continue
		}
		if !game.Evaluate(action.Preconditions, s.completed, s.inventory) {
			continue
		}
		if len(s.data.Blockers(action.ID, s.completed)) > 0 {
			continue
		}
		out = append(out, CurrentAction{
			Action:       action,
			EnablesGoals: s.enablesGoals(action),
			BlocksGoals:  s.blocksGoals(action),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Action.Name != out[j].Action.Name {
			return out[i].Action.Name < out[j].Action.Name
		}
		return out[i].Action.ID < out[j].Action.ID
	})
	return out
}

// enablesGoals collects, per goal, the cached path if it mentions the action
// or targets it.
func (s *Snapshot) enablesGoals(action *game.GameAction) []GoalPaths {
	var out []GoalPaths
	for _, g := range s.goals {
		if s.completed[g.TargetID] {
			continue
		}
		pi := s.cache[g.TargetID]
		if pi == nil || !pi.Achievable {
			continue
		}
		onPath := g.TargetID == action.ID
		for _, step := range pi.Path {
			if step.ID == action.ID {
				onPath = true
				break
			}
		}
		if !onPath {
			continue
		}
		path := append([]*game.GameAction(nil), pi.Path...)
		out = append(out, GoalPaths{Goal: g, Paths: [][]*game.GameAction{path}})
	}
	return out
}

// blocksGoals returns goals foreclosed by the action: the goal target forbids
// this action, or this action forbids the goal target.
func (s *Snapshot) blocksGoals(action *game.GameAction) []game.Goal {
	forbiddenByAction := make(map[string]bool)
	for _, id := range game.ForbiddenActions(action.Preconditions) {
		forbiddenByAction[id] = true
	}
	var out []game.Goal
	for _, g := range s.goals {
		if s.completed[g.TargetID] {
			continue
		}
		target, ok := s.data.Action(g.TargetID)
		if !ok {
			continue
		}
		blocks := forbiddenByAction[g.TargetID]
		if !blocks {
			for _, id := range game.ForbiddenActions(target.Preconditions) {
				if id == action.ID {
					blocks = true
					break
				}
			}
		}
		if blocks {
			out = append(out, g)
		}
	}
	return out
}

// CompletedAction is a completed action annotated with undoability.
type CompletedAction struct {
	Action  *game.GameAction
	CanUndo bool
}

// CompletedActions returns the completed actions sorted by name.
// Completed ids missing from the catalogue are skipped.
func (s *Snapshot) CompletedActions() []CompletedAction {
	var out []CompletedAction
	for id := range s.completed {
		action, ok := s.data.Action(id)
		if !ok {
			continue
		}
		out = append(out, CompletedAction{Action: action, CanUndo: s.CanUndo(id)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Action.Name != out[j].Action.Name {
			return out[i].Action.Name < out[j].Action.Name
		}
		return out[i].Action.ID < out[j].Action.ID
	})
	return out
}

// CanUndo reports whether an action can be rescinded without structurally
// invalidating another completed action or an active goal's target. It is
// conservative: an action required in only one branch of a satisfied Or
// still blocks the undo. The SAT reasoner's UndoabilityQuery gives the
// tight answer.
func (s *Snapshot) CanUndo(actionID string) bool {
	if !s.completed[actionID] {
		return false
	}
	for id := range s.completed {
		if id == actionID {
			continue
		}
		other, ok := s.data.Action(id)
		if !ok {
			continue
		}
		if requiresAction(other, actionID) {
			return false
		}
	}
	for _, g := range s.goals {
		if s.completed[g.TargetID] || g.TargetID == actionID {
			continue
		}
		target, ok := s.data.Action(g.TargetID)
		if !ok {
			continue
		}
		if requiresAction(target, actionID) {
			return false
		}
	}
	return true
}

// requiresAction reports whether an action's precondition tree names the
// given action as required.
func requiresAction(a *game.GameAction, actionID string) bool {
	for _, req := range game.RequiredActions(a.Preconditions) {
		if req == actionID {
			return true
		}
	}
	return false
}

// PerformAction returns a new snapshot with the action completed. The call is
// rejected if the action is unknown, already completed, its preconditions
// do not hold, or a completed action forecloses it (either side of a
// forbidden pair).
func (s *Snapshot) PerformAction(actionID string) (*Snapshot, error) {
	action, ok := s.data.Action(actionID)
	if !ok {
		return nil, &PreconditionViolationError{ActionID: actionID, Violation: ViolationUnknownAction}
	}
	if s.completed[actionID] {
		return nil, &PreconditionViolationError{ActionID: actionID, Violation: ViolationAlreadyCompleted}
	}
	if !game.Evaluate(action.Preconditions, s.completed, s.inventory) {
		return nil, &PreconditionViolationError{ActionID: actionID, Violation: ViolationPreconditions}
	}
	if len(s.data.Blockers(actionID, s.completed)) > 0 {
		return nil, &PreconditionViolationError{ActionID: actionID, Violation: ViolationForeclosed}
	}
	next := copySet(s.completed)
	next[actionID] = true
	return New(s.data, next, s.goals), nil
}

// UndoAction returns a new snapshot with the action removed from the
// completion set. Rejected when the action is not completed or CanUndo
// reports false: another completed action, or an active goal's uncompleted
// target, structurally depends on it.
func (s *Snapshot) UndoAction(actionID string) (*Snapshot, error) {
	if !s.completed[actionID] {
		return nil, &PreconditionViolationError{ActionID: actionID, Violation: ViolationNotCompleted}
	}
	if !s.CanUndo(actionID) {
		return nil, &PreconditionViolationError{ActionID: actionID, Violation: ViolationUndoBlocked}
	}
	next := copySet(s.completed)
	delete(next, actionID)
	return New(s.data, next, s.goals), nil
}

// AddGoals returns a new snapshot with the goals appended. Goals already
// active (full structural equality) are not duplicated.
func (s *Snapshot) AddGoals(goals ...game.Goal) *Snapshot {
	merged := append([]game.Goal(nil), s.goals...)
	for _, g := range goals {
		if !containsGoal(merged, g) {
			merged = append(merged, g)
		}
	}
	return New(s.data, s.completed, merged)
}

// RemoveGoals returns a new snapshot without the given goals. Matching is by
// full structural equality.
func (s *Snapshot) RemoveGoals(goals ...game.Goal) *Snapshot {
	var kept []game.Goal
	for _, g := range s.goals {
		if !containsGoal(goals, g) {
			kept = append(kept, g)
		}
	}
	return New(s.data, s.completed, kept)
}

func containsGoal(goals []game.Goal, g game.Goal) bool {
	for _, x := range goals {
		if x == g {
			return true
		}
	}
	return false
}

func copySet(set map[string]bool) map[string]bool {
	out := make(map[string]bool, len(set))
	for k, v := range set {
		if v {
			out[k] = true
		}
	}
	return out
}
