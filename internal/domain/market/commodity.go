package market

import "strings"

// Commodity is a tradable crop in the upstream catalog
type Commodity struct {
	ID   int    `json:"commodity_id"`
	Name string `json:"commodity_name"`
}

// Geography is a state, or a state/district pair, in the catalog hierarchy.
// Rows without a district name are state-level rows.
type Geography struct {
	StateID      int    `json:"census_state_id"`
	StateName    string `json:"census_state_name"`
	DistrictID   int    `json:"census_district_id,omitempty"`
	DistrictName string `json:"census_district_name,omitempty"`
}

// IsDistrictLevel reports whether the row names a district
func (g Geography) IsDistrictLevel() bool {
	return strings.TrimSpace(g.DistrictName) != ""
}

// Market is a trading market for a (commodity, state, district) triple.
// The upstream lookup does not carry geography, so it is tagged on by the caller.
type Market struct {
	ID           int    `json:"market_id"`
	Name         string `json:"market_name"`
	StateID      int    `json:"census_state_id"`
	StateName    string `json:"census_state_name"`
	DistrictID   int    `json:"census_district_id"`
	DistrictName string `json:"census_district_name"`
}

// InGeography returns a copy of the market tagged with the originating geography
func (m Market) InGeography(g Geography) Market {
	m.StateID = g.StateID
	m.StateName = g.StateName
	m.DistrictID = g.DistrictID
	m.DistrictName = g.DistrictName
	return m
}

// PriceRecord is one date's price observation at a market.
type PriceRecord struct {
	Date          string  `json:"date"`
	ModalPrice    float64 `json:"modal_price"`
	MinPrice      float64 `json:"min_price"`
	MaxPrice      float64 `json:"max_price"`
	MarketID      int     `json:"market_id"`
	MarketName    string  `json:"market_name"`
	DistrictName  string  `json:"district_name"`
	StateName     string  `json:"state_name"`
	CommodityID   int     `json:"commodity_id"`
	CommodityName string  `json:"commodity_name"`
}

// RawPrice is a price row as returned by the catalog; ModalPrice is nil when the
// upstream omitted it.
type RawPrice struct {
	Date       string   `json:"date"`
	ModalPrice *float64 `json:"modal_price"`
	MinPrice   *float64 `json:"min_price"`
	MaxPrice   *float64 `json:"max_price"`
}

// Valid reports whether the row carries a usable modal price
func (p RawPrice) Valid() bool {
	return p.ModalPrice != nil && *p.ModalPrice >= 0
}
