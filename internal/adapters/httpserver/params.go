package httpserver

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// IDList accepts either a single number or an array of numbers
type IDList []int

// UnmarshalJSON implements json.Unmarshaler
func (l *IDList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		var ids []int
		if err := json.Unmarshal(data, &ids); err != nil {
			return fmt.Errorf("invalid id list: %w", err)
		}
		*l = ids
		return nil
	}
	var id int
	if err := json.Unmarshal(data, &id); err != nil {
		return fmt.Errorf("invalid id: %w", err)
	}
	*l = IDList{id}
	return nil
}

type marketsRequest struct {
	CommodityID int `json:"commodity_id" binding:"required,min=1"`
	StateID     int `json:"state_id" binding:"required,min=1"`
	DistrictID  int `json:"district_id" binding:"required,min=1"`
}

type pricesRequest struct {
	CommodityID int    `json:"commodity_id" binding:"required,min=1"`
	StateID     int    `json:"state_id" binding:"required,min=1"`
	DistrictID  IDList `json:"district_id"`
	MarketID    IDList `json:"market_id"`
	FromDate    string `json:"from_date" binding:"required,datetime=2006-01-02"`
	ToDate      string `json:"to_date" binding:"required,datetime=2006-01-02"`
}

type currentPricesParams struct {
	Commodity string `form:"commodity" binding:"required"`
	State     string `form:"state"`
	District  string `form:"district"`
	Sort      string `form:"sort"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

type irrigationParams struct {
	Lat      *float64 `form:"lat"`
	Lon      *float64 `form:"lon"`
	City     string   `form:"city"`
	District string   `form:"district"`
	State    string   `form:"state"`
	Season   string   `form:"season"`
	Locale   string   `form:"locale"`
}

type soilParams struct {
	Lat *float64 `form:"lat" binding:"required"`
	Lng *float64 `form:"lng" binding:"required"`
}

type weatherParams struct {
	Lat  *float64 `form:"lat"`
	Lon  *float64 `form:"lon"`
	City string   `form:"city"`
}
