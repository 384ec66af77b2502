package config

import "sort"

// SortedMainMenu returns the main menu entries ordered by ascending weight.
// The sort is stable, so entries with equal weight keep declaration order.
func (c *Config) SortedMainMenu() []MenuEntry {
	entries := make([]MenuEntry, len(c.Menu.Main))
	copy(entries, c.Menu.Main)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Weight < entries[j].Weight
	})
	return entries
}
