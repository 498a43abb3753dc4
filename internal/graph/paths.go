package graph

import "github.com/questbro/questbro/internal/game"

// PathInfo is the cached reachability answer for one goal target.
type PathInfo struct {
	Achievable bool

	// PathLength is the minimum number of additional actions needed before
	// the target becomes available, or -1 when unreachable. The target
	// itself is not counted.
	PathLength int

	// Path lists those prerequisite actions in execution order. Nil when
	// unreachable, empty when the target is available (or completed) now.
	Path []*game.GameAction

	// BlockingActions lists completed actions that foreclose the target:
	// ones that forbid it, and ones its own preconditions forbid.
	BlockingActions []string
}

// computePath classifies one goal target and, when the target is neither
// completed nor immediately available, runs a breadth-first search over the
// action-reachability space.
func (s *Snapshot) computePath(targetID string) *PathInfo {
	target, ok := s.data.Action(targetID)
	if !ok {
		return &PathInfo{Achievable: false, PathLength: -1}
	}
	if s.completed[targetID] {
		return &PathInfo{Achievable: true, PathLength: 0, Path: []*game.GameAction{}}
	}

	// A completed action on either side of a forbidden pair makes the
	// target permanently dead; no amount of further actions can un-complete
	// it.
	if blockers := s.data.Blockers(targetID, s.completed); len(blockers) > 0 {
		return &PathInfo{Achievable: false, PathLength: -1, BlockingActions: blockers}
	}

	if game.Evaluate(target.Preconditions, s.completed, s.inventory) {
		return &PathInfo{Achievable: true, PathLength: 0, Path: []*game.GameAction{}}
	}

	return s.searchPath(target)
}

// frontierEntry pairs an action with the ordered prerequisites taken to make
// it available.
type frontierEntry struct {
	action *game.GameAction
	path   []*game.GameAction
}

// searchPath is a BFS on the unit-cost action graph. Each frontier entry is
// an action that has become available after performing its path prefix.
// An action is expanded at most once: reaching it again via a longer prefix
// cannot lead to a shorter continuation, so the first (shortest) expansion
// wins and shortest paths are preserved.
func (s *Snapshot) searchPath(target *game.GameAction) *PathInfo {
	var queue []frontierEntry
	visited := make(map[string]bool)

	// Seed with everything available right now, in catalogue order.
	for _, action := range s.data.Actions() {
		if s.completed[action.ID] {
			continue
		}
		if game.Evaluate(action.Preconditions, s.completed, s.inventory) &&
			len(s.data.Blockers(action.ID, s.completed)) == 0 {
			queue = append(queue, frontierEntry{action: action})
			visited[action.ID] = true
		}
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.action.ID == target.ID {
			return &PathInfo{
				Achievable: true,
				PathLength: len(cur.path),
				Path:       cur.path,
			}
		}

		// Simulate having performed the whole prefix plus cur.
		simCompleted := copySet(s.completed)
		for _, step := range cur.path {
			simCompleted[step.ID] = true
		}
		simCompleted[cur.action.ID] = true
		simInventory := game.Inventory(s.data, simCompleted)

		nextPath := append(append([]*game.GameAction(nil), cur.path...), cur.action)
		for _, n := range s.data.Actions() {
			if simCompleted[n.ID] || visited[n.ID] {
				continue
			}
			if game.Evaluate(n.Preconditions, simCompleted, simInventory) &&
				len(s.data.Blockers(n.ID, simCompleted)) == 0 {
				queue = append(queue, frontierEntry{action: n, path: nextPath})
				visited[n.ID] = true
			}
		}
	}

	return &PathInfo{Achievable: false, PathLength: -1}
}
