package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/ryokou/internal/itinerary"
	"github.com/roach88/ryokou/internal/view"
)

// Scenario is one trip scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Timezone is the IANA zone calendar days are computed in. Empty means UTC.
	Timezone string `yaml:"timezone,omitempty"`

	Steps []Step `yaml:"steps"`

	// Expect is checked after the last step.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Step is one action of a scenario. Exactly one field is set.
type Step struct {
	Add           *AddStep `yaml:"add,omitempty"`
	Delete        string   `yaml:"delete,omitempty"`
	DeleteDay     string   `yaml:"delete_day,omitempty"`
	SelectDay     string   `yaml:"select_day,omitempty"`
	SelectMonth   string   `yaml:"select_month,omitempty"`
	SelectAllDays bool     `yaml:"select_all_days,omitempty"`
	ShowAllDates  bool     `yaml:"show_all_dates,omitempty"`
	Expect        *Expect  `yaml:"expect,omitempty"`
}

// AddStep creates an item.
type AddStep struct {
	ID       string  `yaml:"id"`
	Type     string  `yaml:"type"`
	Title    string  `yaml:"title"`
	At       string  `yaml:"at,omitempty"` // "YYYY-MM-DD HH:MM" in the scenario zone; empty means undated
	Location string  `yaml:"location,omitempty"`
	Price    float64 `yaml:"price,omitempty"`
	URL      string  `yaml:"url,omitempty"`
	Memo     string  `yaml:"memo,omitempty"`
	Duration string  `yaml:"duration,omitempty"`
	Icon     string  `yaml:"icon,omitempty"`

	// Fails marks an add that must be rejected as invalid input.
	Fails bool `yaml:"fails,omitempty"`
}

// Expect describes the derived list. Unset fields are not checked.
type Expect struct {
	Filter      *string         `yaml:"filter,omitempty"`
	GrandTotal  *float64        `yaml:"grand_total,omitempty"`
	ShowHeaders *bool           `yaml:"show_headers,omitempty"`
	Sections    []SectionExpect `yaml:"sections,omitempty"`
	Days        []string        `yaml:"days,omitempty"`
	Months      []string        `yaml:"months,omitempty"`
	Count       *int            `yaml:"count,omitempty"`
}

// SectionExpect describes one section: its key, total and item titles in order.
type SectionExpect struct {
	Key    string   `yaml:"key"`
	Total  float64  `yaml:"total"`
	Titles []string `yaml:"titles"`
}

// Step kinds as they appear in the trace.
const (
	OpAdd           = "add"
	OpDelete        = "delete"
	OpDeleteDay     = "delete_day"
	OpSelectDay     = "select_day"
	OpSelectMonth   = "select_month"
	OpSelectAllDays = "select_all_days"
	OpShowAllDates  = "show_all_dates"
	OpExpect        = "expect"
)

// Op returns the kind of the step and its argument.
func (s Step) Op() (op, arg string) {
	switch {
	case s.Add != nil:
		return OpAdd, s.Add.ID
	case s.Delete != "":
		return OpDelete, s.Delete
	case s.DeleteDay != "":
		return OpDeleteDay, s.DeleteDay
	case s.SelectDay != "":
		return OpSelectDay, s.SelectDay
	case s.SelectMonth != "":
		return OpSelectMonth, s.SelectMonth
	case s.SelectAllDays:
		return OpSelectAllDays, ""
	case s.ShowAllDates:
		return OpShowAllDates, ""
	case s.Expect != nil:
		return OpExpect, ""
	}
	return "", ""
}

func (s Step) actionCount() int {
	n := 0
	for _, set := range []bool{
		s.Add != nil, s.Delete != "", s.DeleteDay != "", s.SelectDay != "",
		s.SelectMonth != "", s.SelectAllDays, s.ShowAllDates, s.Expect != nil,
	} {
		if set {
			n++
		}
	}
	return n
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates a scenario. Unknown fields are rejected.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and well formed.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	ids := map[string]int{}
	for i, step := range s.Steps {
		if n := step.actionCount(); n != 1 {
			return fmt.Errorf("steps[%d]: exactly one action is required, got %d", i, n)
		}
		if step.Add != nil {
			if step.Add.ID == "" {
				return fmt.Errorf("steps[%d].add: id is required", i)
			}
			if prev, dup := ids[step.Add.ID]; dup && !step.Add.Fails {
				return fmt.Errorf("steps[%d].add: id %q already used by steps[%d]", i, step.Add.ID, prev)
			}
			if _, err := itinerary.ParseItemType(step.Add.Type); err != nil && !step.Add.Fails {
				return fmt.Errorf("steps[%d].add: %w", i, err)
			}
			if !step.Add.Fails {
				ids[step.Add.ID] = i
			}
		}
		if step.DeleteDay != "" {
			if _, err := view.ParseDay(step.DeleteDay); err != nil {
				return fmt.Errorf("steps[%d].delete_day: %w", i, err)
			}
		}
		if step.SelectDay != "" {
			if _, err := view.ParseDay(step.SelectDay); err != nil {
				return fmt.Errorf("steps[%d].select_day: %w", i, err)
			}
		}
		if step.SelectMonth != "" {
			if _, err := view.ParseYearMonth(step.SelectMonth); err != nil {
				return fmt.Errorf("steps[%d].select_month: %w", i, err)
			}
		}
	}
	return nil
}
