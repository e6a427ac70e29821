package market_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/agroinsight-go/internal/domain/market"
)

var catalog = []market.Geography{
	{StateID: 3, StateName: "Maharashtra"},
	{StateID: 3, StateName: "Maharashtra", DistrictID: 12, DistrictName: "Pune"},
	{StateID: 3, StateName: "Maharashtra", DistrictID: 13, DistrictName: "Nashik"},
	{StateID: 9, StateName: "Punjab"},
	{StateID: 9, StateName: "Punjab", DistrictID: 40, DistrictName: "Ludhiana"},
}

func TestSelectCandidates_DistrictScope(t *testing.T) {
	pune := catalog[1]
	got := market.SelectCandidates(catalog, market.Scope{State: &catalog[0], District: &pune})
	assert.Equal(t, []market.Geography{pune}, got)
}

func TestSelectCandidates_StateScopeSkipsStateRows(t *testing.T) {
	got := market.SelectCandidates(catalog, market.Scope{State: &catalog[0]})
	assert.Len(t, got, 2)
	for _, g := range got {
		assert.Equal(t, 3, g.StateID)
		assert.True(t, g.IsDistrictLevel())
	}
}

func TestSelectCandidates_NoScopeIsEveryDistrict(t *testing.T) {
	got := market.SelectCandidates(catalog, market.Scope{})
	assert.Len(t, got, 3)
}
