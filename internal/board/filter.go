package board

// Filter holds the single active owner filter. An empty owner means show all.
type Filter struct {
	owner      string
	order      *[]int64
	cards      map[int64]*Card
	partitions *Partitions
}

// newFilter constructs a filter over the shared card table.
func newFilter(cards map[int64]*Card, order *[]int64, partitions *Partitions) *Filter {
	return &Filter{cards: cards, order: order, partitions: partitions}
}

// Set stores owner as the current filter and recomputes visibility for every card.
func (f *Filter) Set(owner string) {
	f.owner = owner
	f.Apply()
}

// Clear removes the filter.
func (f *Filter) Clear() {
	f.Set("")
}

// Current returns the filter owner and whether a filter is set.
func (f *Filter) Current() (string, bool) {
	return f.owner, f.owner != ""
}

// Apply re-runs the visibility pass for the current filter, then the empty states.
func (f *Filter) Apply() {
	for _, id := range *f.order {
		card, ok := f.cards[id]
		if !ok {
			continue
		}
		card.FilteredHidden = f.hides(card)
	}
	f.partitions.RecomputeEmptyStates()
}

// hides reports whether the current filter hides card.
func (f *Filter) hides(card *Card) bool {
	return f.owner != "" && card.Owner != f.owner
}
