package sat

import "testing"

func newSolver(t *testing.T) Solver {
	t.Helper()
	return DPLLBackend{}.NewSolver(0)
}

func TestDPLL_Satisfiable(t *testing.T) {
	s := newSolver(t)
	s.AddClause(1, 2)
	s.AddClause(-1, 3)
	s.AddClause(-3)

	sol := s.Solve()
	if sol.Status != StatusSat {
		t.Fatalf("status = %s", sol.Status)
	}
	// -3 forces 3 false, so clause 2 forces 1 false, so clause 1 forces 2.
	if sol.Model[3] || sol.Model[1] || !sol.Model[2] {
		t.Errorf("model = %v", sol.Model)
	}
}

func TestDPLL_Unsatisfiable(t *testing.T) {
	s := newSolver(t)
	s.AddClause(1)
	s.AddClause(-1)

	if sol := s.Solve(); sol.Status != StatusUnsat {
		t.Errorf("status = %s, want UNSAT", sol.Status)
	}
}

func TestDPLL_EmptyClause(t *testing.T) {
	s := newSolver(t)
	s.AddClause()

	if sol := s.Solve(); sol.Status != StatusUnsat {
		t.Errorf("status = %s, want UNSAT", sol.Status)
	}
}

func TestDPLL_EmptyFormula(t *testing.T) {
	if sol := newSolver(t).Solve(); sol.Status != StatusSat {
		t.Errorf("status = %s, want SAT", sol.Status)
	}
}

func TestDPLL_Deterministic(t *testing.T) {
	build := func() Solver {
		s := DPLLBackend{}.NewSolver(4)
		s.AddClause(1, 2, 3)
		s.AddClause(-2, 4)
		s.AddClause(-1, -3)
		return s
	}
	first := build().Solve()
	second := build().Solve()
	if first.Status != StatusSat || second.Status != StatusSat {
		t.Fatalf("status = %s / %s", first.Status, second.Status)
	}
	for v := 1; v <= 4; v++ {
		if first.Model[v] != second.Model[v] {
			t.Errorf("var %d differs across runs", v)
		}
	}
}

func TestDPLL_BudgetExhaustionIsUnknown(t *testing.T) {
	// Two independent exactly-one pairs need two nested decisions; the
	// budget allows only one.
	s := DPLLBackend{MaxDecisions: 1}.NewSolver(4)
	s.AddClause(1, 2)
	s.AddClause(-1, -2)
	s.AddClause(3, 4)
	s.AddClause(-3, -4)

	if sol := s.Solve(); sol.Status != StatusUnknown {
		t.Errorf("status = %s, want UNKNOWN under a 1-decision budget", sol.Status)
	}
}
