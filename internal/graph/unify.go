package graph

import "github.com/questbro/questbro/internal/game"

// UnifiedPathToGoals merges the cached paths of every achievable goal into a
// single dependency-ordered action sequence.
//
// The candidate set is the union of all cached paths plus each goal's target,
// minus anything already completed. Edges are structural: x precedes y when y
// requires x directly, or y requires an item x provides. Ordering is Kahn's
// algorithm with ties broken by position in the candidate list; a dependency
// cycle (not expected in well-formed catalogues) leaves its members out of
// the result.
func (s *Snapshot) UnifiedPathToGoals() []*game.GameAction {
	// Collect candidates in deterministic order: goals in adoption order,
	// each goal's path steps first, then its target.
	var candidates []*game.GameAction
	seen := make(map[string]bool)
	add := func(a *game.GameAction) {
		if a == nil || seen[a.ID] || s.completed[a.ID] {
			return
		}
		seen[a.ID] = true
		candidates = append(candidates, a)
	}
	for _, g := range s.goals {
		if s.completed[g.TargetID] {
			continue
		}
		pi := s.cache[g.TargetID]
		if pi == nil || !pi.Achievable {
			continue
		}
		for _, step := range pi.Path {
			add(step)
		}
		if target, ok := s.data.Action(g.TargetID); ok {
			add(target)
		}
	}
	if len(candidates) == 0 {
		return []*game.GameAction{}
	}

	// Dependency DAG over the candidate set.
	inDegree := make(map[string]int, len(candidates))
	dependents := make(map[string][]string)
	for _, a := range candidates {
		inDegree[a.ID] = 0
	}
	addEdge := func(from, to string) {
		for _, d := range dependents[from] {
			if d == to {
				return
			}
		}
		dependents[from] = append(dependents[from], to)
		inDegree[to]++
	}
	for _, y := range candidates {
		for _, req := range game.RequiredActions(y.Preconditions) {
			if _, in := inDegree[req]; in && req != y.ID {
				addEdge(req, y.ID)
			}
		}
		for _, itemID := range game.RequiredItems(y.Preconditions) {
			for _, provider := range s.data.Providers(itemID) {
				if _, in := inDegree[provider.ID]; in && provider.ID != y.ID {
					addEdge(provider.ID, y.ID)
				}
			}
		}
	}

	// Kahn's algorithm, always emitting the earliest zero-degree candidate.
	emitted := make(map[string]bool, len(candidates))
	order := make([]*game.GameAction, 0, len(candidates))
	for len(order) < len(candidates) {
		progressed := false
		for _, a := range candidates {
			if emitted[a.ID] || inDegree[a.ID] != 0 {
				continue
			}
			emitted[a.ID] = true
			order = append(order, a)
			for _, d := range dependents[a.ID] {
				inDegree[d]--
			}
			progressed = true
			break
		}
		if !progressed {
			// Cycle: surface the partial ordering.
			break
		}
	}
	return order
}
