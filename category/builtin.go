package category

import (
	"fmt"

	"startime/backend"
)

var builtinSeeds = []struct {
	title       string
	description string
	background  string
}{
	{"Work", "Tasks related to work", "#FFCCCC"},
	{"Personal", "Personal tasks and errands", "#CCE5FF"},
	{"Health", "Fitness and wellness activities", "#CCFFCC"},
	{"Education", "Learning and skill development", "#FFFFCC"},
	{"Social", "Events and social gatherings", "#FFCCFF"},
	{"Travel", "Trips and vacations", "#CCCCFF"},
	{"Finance", "Budgeting and financial planning", "#FFE5CC"},
	{"Hobbies", "Creative and recreational activities", "#E5CCFF"},
	{"Family", "Time with family and relatives", "#CCE5E5"},
	{"Projects", "Personal and professional projects", "#E5FFCC"},
	{"Miscellaneous", "Other uncategorized tasks", "#FFCCE5"},
}

// Builtins returns the fixed set shown when the backend cannot be reached.
// A fresh slice is returned on every call.
func Builtins() []backend.Category {
	cats := make([]backend.Category, len(builtinSeeds))
	for i, seed := range builtinSeeds {
		n := i + 1
		cats[i] = backend.Category{
			ID:          backend.ID(fmt.Sprintf("%d", n)),
			ColorID:     fmt.Sprintf("color%d", n),
			Title:       seed.title,
			Description: seed.description,
			Background:  seed.background,
			Foreground:  "#000000",
			Active:      true,
			Examples:    []string{},
		}
	}
	return cats
}
