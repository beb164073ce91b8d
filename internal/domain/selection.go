package domain

// SelectionSet marks which symbols take part in an allocation. The zero
// value is not usable, build one with NewSelectionSet or DefaultSelection.
type SelectionSet struct {
	symbols map[string]bool
}

func NewSelectionSet(symbols ...string) SelectionSet {
	s := SelectionSet{symbols: map[string]bool{}}
	for _, symbol := range symbols {
		s.symbols[symbol] = true
	}
	return s
}

// DefaultSelection selects every preset symbol that was actually fetched
func DefaultSelection(preset []string, assets []NormalizedAsset) SelectionSet {
	wanted := map[string]bool{}
	for _, symbol := range preset {
		wanted[symbol] = true
	}
	s := NewSelectionSet()
	for _, a := range assets {
		if wanted[a.Symbol] {
			s.symbols[a.Symbol] = true
		}
	}
	return s
}

func (s SelectionSet) Contains(symbol string) bool {
	return s.symbols[symbol]
}

// Toggle flips the membership of symbol and returns the new state
func (s SelectionSet) Toggle(symbol string) bool {
	if s.symbols[symbol] {
		delete(s.symbols, symbol)
		return false
	}
	s.symbols[symbol] = true
	return true
}

func (s SelectionSet) Len() int {
	return len(s.symbols)
}

// Symbols lists the selected symbols in the order they appear in assets.
// selected symbols that are not in assets are left out
func (s SelectionSet) Symbols(assets []NormalizedAsset) []string {
	out := []string{}
	for _, a := range assets {
		if s.symbols[a.Symbol] {
			out = append(out, a.Symbol)
		}
	}
	return out
}
