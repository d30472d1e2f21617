package board

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// AllTabLabel is the label of the synthetic show-all tab.
const AllTabLabel = "All"

// Tab is one filter selector. An empty Owner selects every card.
type Tab struct {
	Label  string
	Owner  string
	Active bool
}

// ParseOwners decodes a JSON array of owner names. Blank input yields no owners.
func ParseOwners(raw []byte) ([]string, error) {
	if strings.TrimSpace(string(raw)) == "" {
		return nil, nil
	}
	var owners []string
	if err := json.Unmarshal(raw, &owners); err != nil {
		return nil, fmt.Errorf("decode owner list: %w", err)
	}
	return owners, nil
}

// TabStrip is the ordered set of filter selectors with exactly one active.
type TabStrip struct {
	tabs   []Tab
	filter *Filter
}

// newTabStrip builds the show-all tab followed by one tab per distinct owner.
func newTabStrip(owners []string, filter *Filter) *TabStrip {
	tabs := []Tab{{Label: AllTabLabel, Active: true}}
	seen := map[string]struct{}{}
	for _, owner := range owners {
		owner = strings.TrimSpace(owner)
		if owner == "" {
			continue
		}
		if _, ok := seen[owner]; ok {
			continue
		}
		seen[owner] = struct{}{}
		tabs = append(tabs, Tab{Label: owner, Owner: owner})
	}
	return &TabStrip{tabs: tabs, filter: filter}
}

// Tabs returns a copy of the selectors in display order.
func (s *TabStrip) Tabs() []Tab {
	return slices.Clone(s.tabs)
}

// Len returns the number of selectors.
func (s *TabStrip) Len() int {
	return len(s.tabs)
}

// Active returns the index of the active selector.
func (s *TabStrip) Active() int {
	for idx, tab := range s.tabs {
		if tab.Active {
			return idx
		}
	}
	return 0
}

// Select activates tab idx and applies its owner as the filter.
func (s *TabStrip) Select(idx int) error {
	if idx < 0 || idx >= len(s.tabs) {
		return fmt.Errorf("tab %d: %w", idx, ErrUnknownTab)
	}
	for i := range s.tabs {
		s.tabs[i].Active = i == idx
	}
	s.filter.Set(s.tabs[idx].Owner)
	return nil
}

// SelectOwner activates the tab for owner. An empty owner selects the show-all tab.
func (s *TabStrip) SelectOwner(owner string) error {
	for idx, tab := range s.tabs {
		if tab.Owner == owner {
			return s.Select(idx)
		}
	}
	return fmt.Errorf("owner %q: %w", owner, ErrUnknownTab)
}
