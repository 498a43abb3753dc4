package graph

import (
	"fmt"

	"github.com/questbro/questbro/internal/game"
)

// ConflictSeverity distinguishes how a conflict was detected.
type ConflictSeverity string

const (
	// MutualExclusion — one goal's target structurally forbids the other's.
	MutualExclusion ConflictSeverity = "MUTUAL_EXCLUSION"
	// InducedConflict — adding the goal flips an existing goal's cached
	// achievability from true to false.
	InducedConflict ConflictSeverity = "INDUCED_CONFLICT"
)

// Conflict reports that a set of goals cannot all be satisfied.
type Conflict struct {
	Severity    ConflictSeverity
	Goals       []game.Goal
	Description string
}

// CheckConflictsWhenAddingGoal reports the conflicts that adopting g would
// introduce against the currently active goals. The snapshot is not changed;
// the induced check builds a throwaway snapshot with g added.
func (s *Snapshot) CheckConflictsWhenAddingGoal(g game.Goal) []Conflict {
	target, ok := s.data.Action(g.TargetID)
	if !ok {
		return []Conflict{{
			Severity:    MutualExclusion,
			Goals:       []game.Goal{g},
			Description: fmt.Sprintf("goal %q targets unknown action %q", g.ID, g.TargetID),
		}}
	}

	var conflicts []Conflict
	forbiddenByNew := make(map[string]bool)
	for _, id := range game.ForbiddenActions(target.Preconditions) {
		forbiddenByNew[id] = true
	}

	for _, h := range s.goals {
		if h == g {
			continue
		}
		if forbiddenByNew[h.TargetID] {
			conflicts = append(conflicts, Conflict{
				Severity:    MutualExclusion,
				Goals:       []game.Goal{g, h},
				Description: fmt.Sprintf("action %q forbids goal target %q", g.TargetID, h.TargetID),
			})
			continue
		}
		if other, ok := s.data.Action(h.TargetID); ok {
			for _, id := range game.ForbiddenActions(other.Preconditions) {
				if id == g.TargetID {
					conflicts = append(conflicts, Conflict{
						Severity:    MutualExclusion,
						Goals:       []game.Goal{g, h},
						Description: fmt.Sprintf("goal target %q forbids action %q", h.TargetID, g.TargetID),
					})
					break
				}
			}
		}
	}

	// Induced conflicts: goals that were achievable and no longer are once
	// g is part of the goal set. Achievability depends only on the catalogue
	// and the completion set, and AddGoals changes neither, so today this
	// comparison never differs; the branch is kept for the cache-semantics
	// contract it states.
	withGoal := s.AddGoals(g)
	for _, h := range s.goals {
		before := s.cache[h.TargetID]
		after := withGoal.cache[h.TargetID]
		if before == nil || after == nil {
			continue
		}
		if before.Achievable && !after.Achievable {
			conflicts = append(conflicts, Conflict{
				Severity:    InducedConflict,
				Goals:       []game.Goal{g, h},
				Description: fmt.Sprintf("adding goal %q makes goal %q unachievable", g.ID, h.ID),
			})
		}
	}
	return conflicts
}
