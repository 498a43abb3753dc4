package sat

import "github.com/questbro/questbro/internal/game"

// Encoding is the CNF form of one run state: a variable per action, item and
// goal, the structural clauses tying them together, and the list of
// completed actions to pin. Pins are kept separate from the structural
// clauses so queries that hypothesise an un-done action can drop one.
type Encoding struct {
	data  *game.GameData
	goals []game.Goal

	numVars   int
	clauses   [][]int
	actionVar map[string]int
	itemVar   map[string]int
	goalVar   map[game.Goal]int

	// completed holds the catalogue actions pinned true, catalogue order.
	completed []string
}

// Encode builds the CNF encoding of a catalogue plus run state.
// Variable numbering is fresh per call: actions in catalogue order, then
// items, then goals in adoption order, then Tseitin auxiliaries.
func Encode(data *game.GameData, completed map[string]bool, goals []game.Goal) *Encoding {
	e := &Encoding{
		data:      data,
		goals:     append([]game.Goal(nil), goals...),
		actionVar: make(map[string]int),
		itemVar:   make(map[string]int),
		goalVar:   make(map[game.Goal]int),
	}

	for _, a := range data.Actions() {
		e.numVars++
		e.actionVar[a.ID] = e.numVars
	}
	for _, it := range data.Items() {
		e.numVars++
		e.itemVar[it.ID] = e.numVars
	}
	for _, g := range e.goals {
		if _, dup := e.goalVar[g]; dup {
			continue
		}
		e.numVars++
		e.goalVar[g] = e.numVars
	}

	// taken(a) implies the action's preconditions.
	for _, a := range data.Actions() {
		e.addImplication(e.actionVar[a.ID], a.Preconditions)
	}

	// got(i) iff some provider was taken.
	for _, it := range data.Items() {
		got := e.itemVar[it.ID]
		providers := data.Providers(it.ID)
		orClause := make([]int, 0, len(providers)+1)
		orClause = append(orClause, -got)
		for _, p := range providers {
			pv := e.actionVar[p.ID]
			orClause = append(orClause, pv)
			e.addClause(-pv, got)
		}
		e.addClause(orClause...)
	}

	// sat(g) iff the target was taken; a missing target means never.
	for _, g := range e.goals {
		gv := e.goalVar[g]
		tv, ok := e.actionVar[g.TargetID]
		if !ok {
			e.addClause(-gv)
			continue
		}
		e.addClause(-gv, tv)
		e.addClause(-tv, gv)
	}

	// Record pins in catalogue order for determinism.
	for _, a := range data.Actions() {
		if completed[a.ID] {
			e.completed = append(e.completed, a.ID)
		}
	}
	return e
}

// EncodeRun builds the encoding for a run, including its goals.
func EncodeRun(data *game.GameData, run *game.GameRun) *Encoding {
	return Encode(data, run.Completed, run.Goals)
}

// NumVars returns the number of allocated variables.
func (e *Encoding) NumVars() int { return e.numVars }

// NumClauses returns the number of structural clauses (pins excluded).
func (e *Encoding) NumClauses() int { return len(e.clauses) }

// ActionVar returns the variable for an action id.
func (e *Encoding) ActionVar(id string) (int, bool) {
	v, ok := e.actionVar[id]
	return v, ok
}

// GoalVar returns the variable for a goal.
func (e *Encoding) GoalVar(g game.Goal) (int, bool) {
	v, ok := e.goalVar[g]
	return v, ok
}

func (e *Encoding) addClause(literals ...int) {
	clause := make([]int, len(literals))
	copy(clause, literals)
	e.clauses = append(e.clauses, clause)
}

func (e *Encoding) fresh() int {
	e.numVars++
	return e.numVars
}

// addImplication adds taken(action) => expr in CNF.
func (e *Encoding) addImplication(actionLit int, p game.Precondition) {
	lit, constant := e.exprLit(p)
	switch constant {
	case constTrue:
		return
	case constFalse:
		e.addClause(-actionLit)
	default:
		e.addClause(-actionLit, lit)
	}
}

const (
	constNone  = 0
	constTrue  = 1
	constFalse = -1
)

// exprLit lowers a precondition to a single literal, introducing Tseitin
// auxiliaries for non-trivial And/Or bodies. References to ids absent from
// the catalogue collapse to constants: a missing required action or item can
// never be satisfied, a missing forbidden action can never be violated.
func (e *Encoding) exprLit(p game.Precondition) (lit int, constant int) {
	switch x := p.(type) {
	case nil, game.Always:
		return 0, constTrue

	case game.ActionRequired:
		if v, ok := e.actionVar[x.ActionID]; ok {
			return v, constNone
		}
		return 0, constFalse

	case game.ActionForbidden:
		if v, ok := e.actionVar[x.ActionID]; ok {
			return -v, constNone
		}
		return 0, constTrue

	case game.ItemRequired:
		if v, ok := e.itemVar[x.ItemID]; ok {
			return v, constNone
		}
		return 0, constFalse

	case game.And:
		lits := make([]int, 0, len(x.Children))
		for _, c := range x.Children {
			l, k := e.exprLit(c)
			switch k {
			case constFalse:
				return 0, constFalse
			case constTrue:
				continue
			}
			lits = append(lits, l)
		}
		switch len(lits) {
		case 0:
			return 0, constTrue
		case 1:
			return lits[0], constNone
		}
		v := e.fresh()
		long := make([]int, 0, len(lits)+1)
		long = append(long, v)
		for _, l := range lits {
			e.addClause(-v, l)
			long = append(long, -l)
		}
		e.addClause(long...)
		return v, constNone

	case game.Or:
		lits := make([]int, 0, len(x.Children))
		for _, c := range x.Children {
			l, k := e.exprLit(c)
			switch k {
			case constTrue:
				return 0, constTrue
			case constFalse:
				continue
			}
			lits = append(lits, l)
		}
		switch len(lits) {
		case 0:
			return 0, constFalse
		case 1:
			return lits[0], constNone
		}
		v := e.fresh()
		long := make([]int, 0, len(lits)+1)
		long = append(long, -v)
		for _, l := range lits {
			e.addClause(-l, v)
			long = append(long, l)
		}
		e.addClause(long...)
		return v, constNone
	}
	return 0, constFalse
}

// newSolver assembles a backend solver loaded with the structural clauses
// plus unit pins for every completed action except those in skipPins.
func (e *Encoding) newSolver(backend Backend, skipPins map[string]bool) Solver {
	solver := backend.NewSolver(e.numVars)
	for _, clause := range e.clauses {
		solver.AddClause(clause...)
	}
	for _, id := range e.completed {
		if skipPins[id] {
			continue
		}
		solver.AddClause(e.actionVar[id])
	}
	return solver
}
