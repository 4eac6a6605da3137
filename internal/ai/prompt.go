package ai

import (
	"fmt"
	"strings"

	"github.com/hearthhq/hearth/internal/model"
)

const jsonOnlySuffix = "\n\nIMPORTANT: Respond ONLY with valid JSON, no extra commentary."

const prioritizationPromptFormat = `You are an AI assistant helping to prioritize household tasks based on user preferences and responsibilities.

USER PREFERENCES:
%s

CURRENT TODOS:
%s

TASK: Reorder these todos based on user preferences and responsibilities, considering:
1. Urgency (tasks that are time-sensitive)
2. Preference alignment (tasks the user prefers)
3. Dependencies (tasks that need to be done before others)
4. Energy levels (when tasks are typically done)
5. Family impact (tasks affecting others)

IMPORTANT: When a user has a preference for a task category (like "Pet care"), prioritize tasks in that category higher than tasks that do not match their preferences.

TASK CATEGORIZATION:
- Pet care tasks include: feeding pets, walking pets, grooming pets, cleaning pet areas, pet health care
- Cooking tasks include: meal preparation, cooking, baking, meal planning
- Laundry tasks include: washing clothes, drying clothes, folding clothes, ironing
- Organization tasks include: tidying, decluttering, organizing spaces
- Plant care tasks include: watering plants, gardening, plant maintenance
- House work tasks include: cleaning, vacuuming, dusting, mopping
- Yard work tasks include: yard, lawn, garden, outdoor
- Family care tasks include: childcare, helping family members

RESPONSE FORMAT:
Return a JSON array of objects with this structure:
[
  {
    "id": "todo-title",
    "aiPriority": 1,
    "aiReason": "Brief explanation of why this priority"
  }
]

Respond ONLY with valid JSON, no extra text.`

const insightsPromptFormat = `You are an AI assistant providing insights about household task management.

USER PREFERENCES:
%s

RECENT TODOS:
%s

TASK: Provide a brief, helpful insight about the user's task management patterns, productivity tips, or suggestions based on their preferences and recent activity.

Keep the response concise (1-2 sentences) and actionable.

Respond with just the insight text, no extra formatting or commentary.`

// formatPreferences renders the enabled task categories for a prompt.
func formatPreferences(prefs *model.UserPreferences) string {
	if prefs == nil {
		return "No preferences specified"
	}

	categories := []struct {
		label string
		on    bool
	}{
		{"Pet Care", prefs.PetCare},
		{"Laundry", prefs.Laundry},
		{"Cooking", prefs.Cooking},
		{"Organization", prefs.Organization},
		{"Plant Care", prefs.PlantCare},
		{"House Work", prefs.HouseWork},
		{"Yard Work", prefs.YardWork},
		{"Family Care", prefs.FamilyCare},
	}

	var enabled []string
	for _, c := range categories {
		if c.on {
			enabled = append(enabled, "- "+c.label)
		}
	}
	if len(enabled) == 0 {
		return "No specific task category preferences"
	}
	return "User prefers these task categories:\n" + strings.Join(enabled, "\n")
}

// buildPrioritizationPrompt lists the open todos with their current
// priority and assignee. Completed todos are left out.
func buildPrioritizationPrompt(todos []TodoInput, prefs *model.UserPreferences) string {
	var lines []string
	for _, todo := range todos {
		if todo.Completed {
			continue
		}
		assignee := "Unassigned"
		if todo.AssignedTo != nil && *todo.AssignedTo != "" {
			assignee = *todo.AssignedTo
		}
		priority := todo.Priority
		if priority == "" {
			priority = model.DefaultPriority
		}
		lines = append(lines, fmt.Sprintf("%s (Priority: %s, Assigned to: %s)", todo.Title, priority, assignee))
	}

	todosText := "No active todos found."
	if len(lines) > 0 {
		todosText = strings.Join(lines, "\n")
	}
	return fmt.Sprintf(prioritizationPromptFormat, formatPreferences(prefs), todosText)
}

// buildInsightsPrompt summarizes the ten most recent todos with their
// completion state.
func buildInsightsPrompt(todos []TodoInput, prefs *model.UserPreferences) string {
	recent := todos
	if len(recent) > 10 {
		recent = recent[len(recent)-10:]
	}

	var lines []string
	for _, todo := range recent {
		state := "Pending"
		if todo.Completed {
			state = "Completed"
		}
		lines = append(lines, fmt.Sprintf("- %s (%s)", todo.Title, state))
	}

	todosText := "No recent todos."
	if len(lines) > 0 {
		todosText = strings.Join(lines, "\n")
	}
	return fmt.Sprintf(insightsPromptFormat, formatPreferences(prefs), todosText)
}
