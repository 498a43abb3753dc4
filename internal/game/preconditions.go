package game

import "sort"

// Precondition is a boolean expression over completed actions and held items.
// The tree is finite, acyclic, and pure; Evaluate is total.
type Precondition interface {
	isPrecondition()
}

// Always is the trivially satisfied precondition.
type Always struct{}

// ActionRequired holds iff the named action has been completed.
type ActionRequired struct {
	ActionID string
}

// ActionForbidden holds iff the named action has NOT been completed.
type ActionForbidden struct {
	ActionID string
}

// ItemRequired holds iff the named item is in the inventory.
type ItemRequired struct {
	ItemID string
}

// And holds iff every child holds. An empty And holds.
type And struct {
	Children []Precondition
}

// Or holds iff at least one child holds. An empty Or does not hold.
type Or struct {
	Children []Precondition
}

func (Always) isPrecondition()          {}
func (ActionRequired) isPrecondition()  {}
func (ActionForbidden) isPrecondition() {}
func (ItemRequired) isPrecondition()    {}
func (And) isPrecondition()             {}
func (Or) isPrecondition()              {}

// AllOf builds an And node.
func AllOf(children ...Precondition) And { return And{Children: children} }

// AnyOf builds an Or node.
func AnyOf(children ...Precondition) Or { return Or{Children: children} }

// Evaluate decides a precondition against a completion set and an inventory.
// Unknown ids simply evaluate per the set-membership rules; nothing errors.
func Evaluate(p Precondition, completed map[string]bool, inventory map[string]bool) bool {
	switch e := p.(type) {
	case nil:
		return true
	case Always:
		return true
	case ActionRequired:
		return completed[e.ActionID]
	case ActionForbidden:
		return !completed[e.ActionID]
	case ItemRequired:
		return inventory[e.ItemID]
	case And:
		for _, c := range e.Children {
			if !Evaluate(c, completed, inventory) {
				return false
			}
		}
		return true
	case Or:
		for _, c := range e.Children {
			if Evaluate(c, completed, inventory) {
				return true
			}
		}
		return false
	}
	return false
}

// Inventory derives the item set granted by a completion set: the union of
// rewards of every completed action. Rewards referencing items absent from
// the catalogue grant nothing. The result is independent of the order the
// completed set is walked in.
func Inventory(data *GameData, completed map[string]bool) map[string]bool {
	inv := make(map[string]bool)
	for id := range completed {
		a, ok := data.Action(id)
		if !ok {
			continue
		}
		for _, r := range a.Rewards {
			if _, declared := data.Item(r.ItemID); declared {
				inv[r.ItemID] = true
			}
		}
	}
	return inv
}

// RequiredActions collects every action id referenced by an ActionRequired
// leaf anywhere in the tree. Or branches are unioned, not alternated; the
// result over-approximates the actions a satisfying assignment needs.
func RequiredActions(p Precondition) []string {
	set := make(map[string]bool)
	collect(p, func(leaf Precondition) {
		if r, ok := leaf.(ActionRequired); ok {
			set[r.ActionID] = true
		}
	})
	return sortedKeys(set)
}

// ForbiddenActions collects every action id referenced by an ActionForbidden
// leaf anywhere in the tree.
func ForbiddenActions(p Precondition) []string {
	set := make(map[string]bool)
	collect(p, func(leaf Precondition) {
		if f, ok := leaf.(ActionForbidden); ok {
			set[f.ActionID] = true
		}
	})
	return sortedKeys(set)
}

// RequiredItems collects every item id referenced by an ItemRequired leaf
// anywhere in the tree.
func RequiredItems(p Precondition) []string {
	set := make(map[string]bool)
	collect(p, func(leaf Precondition) {
		if r, ok := leaf.(ItemRequired); ok {
			set[r.ItemID] = true
		}
	})
	return sortedKeys(set)
}

// collect walks the tree and hands every leaf to fn.
func collect(p Precondition, fn func(Precondition)) {
	switch e := p.(type) {
	case And:
		for _, c := range e.Children {
			collect(c, fn)
		}
	case Or:
		for _, c := range e.Children {
			collect(c, fn)
		}
	case nil:
	default:
		fn(p)
	}
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
