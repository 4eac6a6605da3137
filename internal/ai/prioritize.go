package ai

import (
	"context"
	"sort"
	"strings"

	"github.com/hearthhq/hearth/internal/model"
)

const (
	unrankedPriority = 999
	unrankedReason   = "No AI analysis available"
	fallbackReason   = "Fallback prioritization (AI unavailable)"
	insightsFallback = "AI insights are temporarily unavailable. Keep up the great work on your tasks!"
)

// TodoInput is a todo as submitted for analysis.
type TodoInput struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Completed  bool    `json:"completed"`
	Priority   string  `json:"priority"`
	AssignedTo *string `json:"assigned_to"`
}

// RankedTodo is a TodoInput with the analysis attached.
type RankedTodo struct {
	TodoInput
	AIPriority int    `json:"aiPriority"`
	AIReason   string `json:"aiReason"`
}

// Prioritize ranks the submitted todos. It asks the model for rankings
// and falls back to keyword matching against the user's preferences when
// the model is unavailable or returns garbage, so the call always
// produces a usable ordering.
func (s *Service) Prioritize(ctx context.Context, todos []TodoInput, prefs *model.UserPreferences, customPrompt string) []RankedTodo {
	prompt := customPrompt
	if prompt == "" {
		prompt = buildPrioritizationPrompt(todos, prefs)
	}

	rankings, err := s.requestRankings(ctx, prompt)
	if err != nil {
		if err != ErrDisabled {
			s.logger.Warn("using fallback prioritization", "error", err)
		}
		rankings = fallbackRankings(todos, prefs)
	}

	return mergeRankings(todos, rankings)
}

func (s *Service) requestRankings(ctx context.Context, prompt string) ([]todoRanking, error) {
	content, err := s.complete(ctx, prompt+jsonOnlySuffix)
	if err != nil {
		return nil, err
	}
	return parseRankings(content)
}

// Insights returns a short observation about the household's recent
// activity, or a canned line when the model can't be reached.
func (s *Service) Insights(ctx context.Context, todos []TodoInput, prefs *model.UserPreferences) string {
	content, err := s.complete(ctx, buildInsightsPrompt(todos, prefs))
	if err != nil {
		if err != ErrDisabled {
			s.logger.Warn("insights unavailable", "error", err)
		}
		return insightsFallback
	}
	return strings.TrimSpace(content)
}

// fallbackRankings scores open todos by keyword against the user's
// preferred categories: pet care beats cooking beats laundry, and
// anything unmatched keeps its position order.
func fallbackRankings(todos []TodoInput, prefs *model.UserPreferences) []todoRanking {
	var rankings []todoRanking
	for i, todo := range todos {
		if todo.Completed {
			continue
		}
		title := strings.ToLower(todo.Title)
		priority := unrankedPriority
		reason := fallbackReason

		if prefs != nil {
			if prefs.PetCare && containsAny(title, "feed", "pet", "bunny", "dog", "cat") {
				priority, reason = 1, "Pet care preference match"
			}
			if prefs.Cooking && containsAny(title, "cook", "meal", "food", "kitchen") && priority > 2 {
				priority, reason = 2, "Cooking preference match"
			}
			if prefs.Laundry && containsAny(title, "laundry", "wash", "clothes") && priority > 3 {
				priority, reason = 3, "Laundry preference match"
			}
		}

		if priority == unrankedPriority {
			priority = i + 1
		}
		rankings = append(rankings, todoRanking{ID: todo.Title, AIPriority: priority, AIReason: reason})
	}
	return rankings
}

// mergeRankings joins rankings onto the submitted todos by title and
// sorts ascending. Todos the model skipped, completed ones included,
// sink to the bottom.
func mergeRankings(todos []TodoInput, rankings []todoRanking) []RankedTodo {
	byTitle := make(map[string]todoRanking, len(rankings))
	for _, r := range rankings {
		if _, ok := byTitle[r.ID]; !ok {
			byTitle[r.ID] = r
		}
	}

	ranked := make([]RankedTodo, 0, len(todos))
	for _, todo := range todos {
		rt := RankedTodo{TodoInput: todo, AIPriority: unrankedPriority, AIReason: unrankedReason}
		if r, ok := byTitle[todo.Title]; ok {
			rt.AIPriority = r.AIPriority
			rt.AIReason = r.AIReason
		}
		ranked = append(ranked, rt)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].AIPriority < ranked[j].AIPriority
	})
	return ranked
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
