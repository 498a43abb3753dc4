package sat

import "github.com/questbro/questbro/internal/game"

// Reasoner answers domain queries against an encoding through a backend.
type Reasoner struct {
	backend Backend
}

// NewReasoner wraps a backend; nil selects the in-tree DPLL solver.
func NewReasoner(backend Backend) *Reasoner {
	if backend == nil {
		backend = DPLLBackend{}
	}
	return &Reasoner{backend: backend}
}

// GoalCompatibilityResult reports whether a goal set can be jointly
// satisfied. Known is false when the backend returned Unknown; the
// conservative reading is then "not known to be compatible".
type GoalCompatibilityResult struct {
	Known      bool
	Compatible bool
}

// CheckGoalCompatibility decides whether newGoal and all existing goals can
// be satisfied by one legal run extending the encoded state.
func (r *Reasoner) CheckGoalCompatibility(enc *Encoding, newGoal game.Goal, existing []game.Goal) GoalCompatibilityResult {
	solver := enc.newSolver(r.backend, nil)
	goals := append([]game.Goal{newGoal}, existing...)
	for _, g := range goals {
		gv, ok := enc.GoalVar(g)
		if !ok {
			// Goal absent from the encoding: cannot be asserted.
			return GoalCompatibilityResult{Known: true, Compatible: false}
		}
		solver.AddClause(gv)
	}
	switch solver.Solve().Status {
	case StatusSat:
		return GoalCompatibilityResult{Known: true, Compatible: true}
	case StatusUnsat:
		return GoalCompatibilityResult{Known: true, Compatible: false}
	}
	return GoalCompatibilityResult{Known: false}
}

// UndoabilityResult reports whether an action can be rescinded while keeping
// every asserted goal satisfiable.
type UndoabilityResult struct {
	Known    bool
	Undoable bool
}

// CheckUndoability decides whether the encoded state minus actionID still
// admits a run satisfying all the given goals. The pin for actionID is
// dropped and its negation asserted instead.
func (r *Reasoner) CheckUndoability(enc *Encoding, actionID string, goals []game.Goal) UndoabilityResult {
	av, ok := enc.ActionVar(actionID)
	if !ok {
		return UndoabilityResult{Known: true, Undoable: false}
	}
	solver := enc.newSolver(r.backend, map[string]bool{actionID: true})
	solver.AddClause(-av)
	for _, g := range goals {
		gv, ok := enc.GoalVar(g)
		if !ok {
			return UndoabilityResult{Known: true, Undoable: false}
		}
		solver.AddClause(gv)
	}
	switch solver.Solve().Status {
	case StatusSat:
		return UndoabilityResult{Known: true, Undoable: true}
	case StatusUnsat:
		return UndoabilityResult{Known: true, Undoable: false}
	}
	return UndoabilityResult{Known: false}
}

// OptimalPathResult carries the action set of a minimal satisfying run.
type OptimalPathResult struct {
	Known  bool
	Exists bool

	// Actions lists the additional (not yet completed) actions of the best
	// model found, in catalogue order. Length is len(Actions).
	Actions []*game.GameAction
	Length  int
}

// FindOptimalPath finds a run extending the encoded state that satisfies all
// goals. With minimizeActions set, the count of additional actions is
// minimised by successive solver calls with a tightening cardinality bound.
func (r *Reasoner) FindOptimalPath(enc *Encoding, goals []game.Goal, minimizeActions bool) OptimalPathResult {
	assertGoals := func(solver Solver) bool {
		for _, g := range goals {
			gv, ok := enc.GoalVar(g)
			if !ok {
				return false
			}
			solver.AddClause(gv)
		}
		return true
	}

	solver := enc.newSolver(r.backend, nil)
	if !assertGoals(solver) {
		return OptimalPathResult{Known: true, Exists: false}
	}
	sol := solver.Solve()
	if sol.Status == StatusUnknown {
		return OptimalPathResult{Known: false}
	}
	if sol.Status == StatusUnsat {
		return OptimalPathResult{Known: true, Exists: false}
	}

	best := enc.additionalActions(sol.Model)
	if minimizeActions {
		for len(best) > 0 {
			bound := len(best) - 1
			solver := enc.newSolver(r.backend, nil)
			if !assertGoals(solver) {
				break
			}
			enc.addAtMost(solver, bound)
			tighter := solver.Solve()
			if tighter.Status != StatusSat {
				// UNSAT proves optimality; Unknown keeps the best model.
				break
			}
			best = enc.additionalActions(tighter.Model)
		}
	}
	return OptimalPathResult{Known: true, Exists: true, Actions: best, Length: len(best)}
}

// additionalActions extracts the taken, not-yet-completed actions from a
// model, in catalogue order.
func (e *Encoding) additionalActions(model map[int]bool) []*game.GameAction {
	pinned := make(map[string]bool, len(e.completed))
	for _, id := range e.completed {
		pinned[id] = true
	}
	var out []*game.GameAction
	for _, a := range e.data.Actions() {
		if pinned[a.ID] {
			continue
		}
		if model[e.actionVar[a.ID]] {
			out = append(out, a)
		}
	}
	return out
}

// addAtMost constrains the number of additional taken actions to at most k,
// using the sequential-counter encoding. Auxiliary variables are allocated
// past the encoding's range on the given solver only.
func (e *Encoding) addAtMost(solver Solver, k int) {
	pinned := make(map[string]bool, len(e.completed))
	for _, id := range e.completed {
		pinned[id] = true
	}
	var vars []int
	for _, a := range e.data.Actions() {
		if !pinned[a.ID] {
			vars = append(vars, e.actionVar[a.ID])
		}
	}

	if k <= 0 {
		for _, v := range vars {
			solver.AddClause(-v)
		}
		return
	}
	n := len(vars)
	if n <= k {
		return
	}

	// register(i, j) is true when at least j of vars[0..i] are set.
	next := e.numVars
	reg := make([][]int, n)
	for i := 0; i < n-1; i++ {
		reg[i] = make([]int, k+1)
		for j := 1; j <= k; j++ {
			next++
			reg[i][j] = next
		}
	}

	solver.AddClause(-vars[0], reg[0][1])
	for j := 2; j <= k; j++ {
		solver.AddClause(-reg[0][j])
	}
	for i := 1; i < n; i++ {
		if i < n-1 {
			solver.AddClause(-vars[i], reg[i][1])
			solver.AddClause(-reg[i-1][1], reg[i][1])
			for j := 2; j <= k; j++ {
				solver.AddClause(-vars[i], -reg[i-1][j-1], reg[i][j])
				solver.AddClause(-reg[i-1][j], reg[i][j])
			}
		}
		solver.AddClause(-vars[i], -reg[i-1][k])
	}
}
