package sat

// DPLLBackend is the default in-tree solver: plain DPLL with unit
// propagation, branching on the lowest-numbered unassigned variable (true
// first). Fully deterministic. MaxDecisions bounds the search; exceeding it
// yields StatusUnknown.
type DPLLBackend struct {
	// MaxDecisions caps branching decisions per Solve call. Zero means the
	// default of one million.
	MaxDecisions int
}

const defaultMaxDecisions = 1_000_000

func (b DPLLBackend) NewSolver(numVars int) Solver {
	max := b.MaxDecisions
	if max <= 0 {
		max = defaultMaxDecisions
	}
	return &dpllSolver{numVars: numVars, maxDecisions: max}
}

type dpllSolver struct {
	numVars      int
	clauses      [][]int
	maxDecisions int
	hasEmpty     bool
}

func (s *dpllSolver) AddClause(literals ...int) {
	if len(literals) == 0 {
		s.hasEmpty = true
		return
	}
	clause := make([]int, len(literals))
	copy(clause, literals)
	for _, lit := range clause {
		if v := abs(lit); v > s.numVars {
			s.numVars = v
		}
	}
	s.clauses = append(s.clauses, clause)
}

func (s *dpllSolver) Solve() Solution {
	if s.hasEmpty {
		return Solution{Status: StatusUnsat}
	}
	// assign[v]: 0 unassigned, 1 true, -1 false. Index 0 unused.
	assign := make([]int8, s.numVars+1)
	decisions := 0
	status := s.search(assign, &decisions)
	if status != StatusSat {
		return Solution{Status: status}
	}
	model := make(map[int]bool, s.numVars)
	for v := 1; v <= s.numVars; v++ {
		model[v] = assign[v] == 1
	}
	return Solution{Status: StatusSat, Model: model}
}

// search runs DPLL over a private copy of the assignment at each branch.
func (s *dpllSolver) search(assign []int8, decisions *int) Status {
	if conflict := s.propagate(assign); conflict {
		return StatusUnsat
	}

	branch := 0
	for v := 1; v <= s.numVars; v++ {
		if assign[v] == 0 {
			branch = v
			break
		}
	}
	if branch == 0 {
		return StatusSat
	}

	*decisions++
	if *decisions > s.maxDecisions {
		return StatusUnknown
	}

	for _, polarity := range []int8{1, -1} {
		trial := make([]int8, len(assign))
		copy(trial, assign)
		trial[branch] = polarity
		switch s.search(trial, decisions) {
		case StatusSat:
			copy(assign, trial)
			return StatusSat
		case StatusUnknown:
			return StatusUnknown
		}
	}
	return StatusUnsat
}

// propagate applies unit propagation to fixpoint. Returns true on conflict.
func (s *dpllSolver) propagate(assign []int8) bool {
	for changed := true; changed; {
		changed = false
		for _, clause := range s.clauses {
			satisfied := false
			unassigned := 0
			var unit int
			for _, lit := range clause {
				switch value(assign, lit) {
				case 1:
					satisfied = true
				case 0:
					unassigned++
					unit = lit
				}
				if satisfied {
					break
				}
			}
			if satisfied {
				continue
			}
			if unassigned == 0 {
				return true
			}
			if unassigned == 1 {
				if unit > 0 {
					assign[unit] = 1
				} else {
					assign[-unit] = -1
				}
				changed = true
			}
		}
	}
	return false
}

// value evaluates a literal under an assignment: 1 true, -1 false, 0 unknown.
func value(assign []int8, lit int) int8 {
	v := assign[abs(lit)]
	if v == 0 {
		return 0
	}
	if lit < 0 {
		return -v
	}
	return v
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
