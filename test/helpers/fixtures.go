package helpers

import "github.com/andrescamacho/agroinsight-go/internal/domain/market"

// Fixture ids used across tests
const (
	WheatID       = 7
	MaharashtraID = 3
	PuneID        = 12
	NashikID      = 13
	PunjabID      = 5
	LudhianaID    = 51
)

// SeedCatalog loads a small commodity/geography catalog into the gateway
func SeedCatalog(g *MockCatalogGateway) {
	g.SetCommodities(
		market.Commodity{ID: WheatID, Name: "Wheat"},
		market.Commodity{ID: 2, Name: "Rice"},
		market.Commodity{ID: 19, Name: "Onion"},
	)
	g.SetGeographies(
		market.Geography{StateID: MaharashtraID, StateName: "Maharashtra"},
		market.Geography{StateID: MaharashtraID, StateName: "Maharashtra", DistrictID: PuneID, DistrictName: "Pune"},
		market.Geography{StateID: MaharashtraID, StateName: "Maharashtra", DistrictID: NashikID, DistrictName: "Nashik"},
		market.Geography{StateID: PunjabID, StateName: "Punjab"},
		market.Geography{StateID: PunjabID, StateName: "Punjab", DistrictID: LudhianaID, DistrictName: "Ludhiana"},
	)
}

// DistrictGeographies builds n district rows in one state with ids base..base+n-1
func DistrictGeographies(stateID, base, n int) []market.Geography {
	out := make([]market.Geography, n)
	for i := 0; i < n; i++ {
		out[i] = market.Geography{
			StateID:      stateID,
			StateName:    "State",
			DistrictID:   base + i,
			DistrictName: "District",
		}
	}
	return out
}
