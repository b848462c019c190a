package domain

import (
	"fmt"
	"strings"
)

// Activity is a named category of work used to classify time spent. The
// catalog is reference data: seeded once, rarely mutated.
type Activity struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	ColorTag    string `json:"colorTag" yaml:"color_tag"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

func (a Activity) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return fmt.Errorf("activity id is required")
	}
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("activity name is required")
	}
	if strings.TrimSpace(a.ColorTag) == "" {
		return fmt.Errorf("activity color tag is required")
	}
	return nil
}

// DefaultActivities is the catalog seeded at first run.
func DefaultActivities() []Activity {
	return []Activity{
		{ID: "preparation", Name: "Preparation", ColorTag: "blue", Description: "Workstation preparation"},
		{ID: "main-task", Name: "Main task", ColorTag: "green", Description: "Primary activity"},
		{ID: "break", Name: "Break", ColorTag: "amber", Description: "Break or stoppage"},
		{ID: "waiting", Name: "Waiting", ColorTag: "red", Description: "Waiting or blocked"},
		{ID: "discussion", Name: "Discussion", ColorTag: "purple", Description: "Discussion or exchange"},
	}
}

func ValidateCatalog(activities []Activity) error {
	seen := map[string]struct{}{}
	for _, activity := range activities {
		if err := activity.Validate(); err != nil {
			return err
		}
		if _, ok := seen[activity.ID]; ok {
			return fmt.Errorf("duplicate activity id: %s", activity.ID)
		}
		seen[activity.ID] = struct{}{}
	}
	return nil
}
