// Package search builds searchable goal records from a game catalogue and
// ranks them against free-text queries. It is a convenience layer over the
// catalogue; the reasoning kernel does not depend on it.
package search

import (
	"sort"
	"strings"

	"github.com/questbro/questbro/internal/game"
)

// SearchableGoal is one suggestable goal: either an action itself, or an
// item paired with an action that provides it.
type SearchableGoal struct {
	ID             string
	Name           string
	Description    string
	Category       game.ActionCategory
	TargetActionID string
	Keywords       []string
}

// Result is a ranked match.
type Result struct {
	Goal  SearchableGoal
	Score int
}

// stopwords are dropped during keyword extraction.
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "for": true, "from": true,
	"in": true, "of": true, "on": true, "or": true, "the": true,
	"to": true, "with": true,
}

// BuildIndex produces one record per action plus one per (item, providing
// action) pair, in catalogue order.
func BuildIndex(data *game.GameData) []SearchableGoal {
	var index []SearchableGoal
	for _, a := range data.Actions() {
		index = append(index, SearchableGoal{
			ID:             a.ID,
			Name:           a.Name,
			Description:    a.Description,
			Category:       a.Category,
			TargetActionID: a.ID,
			Keywords:       extractKeywords(a.Name, a.Description),
		})
	}
	for _, it := range data.Items() {
		for _, provider := range data.Providers(it.ID) {
			index = append(index, SearchableGoal{
				ID:             it.ID + ":" + provider.ID,
				Name:           it.Name,
				Description:    it.Description,
				Category:       provider.Category,
				TargetActionID: provider.ID,
				Keywords:       extractKeywords(it.Name, it.Description, provider.Name),
			})
		}
	}
	return index
}

// Search ranks the index against a query with a bag-of-terms score: a term
// occurring in the name scores 10, description 5, category 3, and an exact
// keyword hit 1. Zero-score records are omitted.
func Search(index []SearchableGoal, query string) []Result {
	terms := tokenize(query)
	if len(terms) == 0 {
		return nil
	}
	var results []Result
	for _, sg := range index {
		score := scoreGoal(sg, terms)
		if score > 0 {
			results = append(results, Result{Goal: sg, Score: score})
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].Goal.Name != results[j].Goal.Name {
			return results[i].Goal.Name < results[j].Goal.Name
		}
		return results[i].Goal.ID < results[j].Goal.ID
	})
	return results
}

func scoreGoal(sg SearchableGoal, terms []string) int {
	name := strings.ToLower(sg.Name)
	description := strings.ToLower(sg.Description)
	category := strings.ToLower(string(sg.Category))
	score := 0
	for _, term := range terms {
		if strings.Contains(name, term) {
			score += 10
		}
		if description != "" && strings.Contains(description, term) {
			score += 5
		}
		if category != "" && strings.Contains(category, term) {
			score += 3
		}
		for _, kw := range sg.Keywords {
			if kw == term {
				score++
				break
			}
		}
	}
	return score
}

// extractKeywords tokenizes the given texts, dropping stopwords and
// single-character tokens, deduplicated in first-seen order.
func extractKeywords(texts ...string) []string {
	seen := make(map[string]bool)
	var keywords []string
	for _, text := range texts {
		for _, tok := range tokenize(text) {
			if seen[tok] {
				continue
			}
			seen[tok] = true
			keywords = append(keywords, tok)
		}
	}
	return keywords
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	})
	var out []string
	for _, f := range fields {
		if len(f) < 2 || stopwords[f] {
			continue
		}
		out = append(out, f)
	}
	return out
}
