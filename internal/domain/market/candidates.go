package market

// Scope is the resolved geography filter of a price request. A nil state means
// the whole catalog; a nil district means every district of the state.
type Scope struct {
	State    *Geography
	District *Geography
}

// SelectCandidates builds the geography candidate set for the market fan-out.
// State-level rows never qualify; they have no district to query markets for.
func SelectCandidates(catalog []Geography, scope Scope) []Geography {
	if scope.District != nil {
		return []Geography{*scope.District}
	}

	candidates := make([]Geography, 0)
	for _, g := range catalog {
		if !g.IsDistrictLevel() {
			continue
		}
		if scope.State != nil && g.StateID != scope.State.StateID {
			continue
		}
		candidates = append(candidates, g)
	}
	return candidates
}
