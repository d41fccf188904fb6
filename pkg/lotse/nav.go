package lotse

import "fmt"

// NavItem is one entry of the section header shown above every step.
type NavItem struct {
	Number  int    `json:"number"`
	Section string `json:"section"`
	Label   string `json:"label"`
	// Step is the first step of the section.
	Step   string `json:"step"`
	Active bool   `json:"active"`
}

// SectionLabel returns the message key of a section heading.
func SectionLabel(section string) string {
	return "form.lotse.section." + section
}

// Nav lists the wizard sections and marks the one containing active.
func (w *Wizard) Nav(active string) ([]NavItem, error) {
	current, err := w.Step(active)
	if err != nil {
		return nil, fmt.Errorf("lotse: nav: %w", err)
	}

	var items []NavItem
	for _, step := range w.Steps() {
		if step.Section == "" {
			continue
		}
		if len(items) > 0 && items[len(items)-1].Section == step.Section {
			continue
		}
		items = append(items, NavItem{
			Number:  len(items) + 1,
			Section: step.Section,
			Label:   SectionLabel(step.Section),
			Step:    step.Name,
			Active:  step.Section == current.Section,
		})
	}
	return items, nil
}

// SectionStart returns the first step of section.
func (w *Wizard) SectionStart(section string) (string, bool) {
	for _, step := range w.Steps() {
		if step.Section == section {
			return step.Name, true
		}
	}
	return "", false
}
