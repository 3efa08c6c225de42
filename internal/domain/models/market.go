package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Asset keys used across the snapshot store, cache, and API.
const (
	AssetGold    = "gold"
	AssetUsdVnd  = "usd_vnd"
	AssetBitcoin = "bitcoin"
	AssetVn30    = "vn30"
)

// FallbackSource labels observations produced by a chain's terminal constant.
const FallbackSource = "Fallback (Scraping Failed)"

// GoldPrice is one SJC gold observation in VND per tael.
type GoldPrice struct {
	BuyPrice  decimal.Decimal `json:"buy_price"`
	SellPrice decimal.Decimal `json:"sell_price"`
	Unit      string          `json:"unit"`
	Source    string          `json:"source"`
	Timestamp time.Time       `json:"timestamp"`
}

// Value returns the representative value recorded into the snapshot store.
func (g *GoldPrice) Value() decimal.Decimal { return g.SellPrice }

// UsdVndRate is one USD/VND black-market sell rate observation.
type UsdVndRate struct {
	SellRate  decimal.Decimal `json:"sell_rate"`
	Source    string          `json:"source"`
	Timestamp time.Time       `json:"timestamp"`
}

func (r *UsdVndRate) Value() decimal.Decimal { return r.SellRate }

// BitcoinPrice is one BTC/VND conversion rate observation.
type BitcoinPrice struct {
	BtcToVnd  decimal.Decimal `json:"btc_to_vnd"`
	Source    string          `json:"source"`
	Timestamp time.Time       `json:"timestamp"`
}

func (b *BitcoinPrice) Value() decimal.Decimal { return b.BtcToVnd }

// Vn30Index is one VN30 index observation. ChangePercent is the intraday
// change as published by the source and may be nil when it cannot be parsed.
type Vn30Index struct {
	IndexValue    decimal.Decimal  `json:"index_value"`
	ChangePercent *decimal.Decimal `json:"change_percent,omitempty"`
	Source        string           `json:"source"`
	Timestamp     time.Time        `json:"timestamp"`
}

func (v *Vn30Index) Value() decimal.Decimal { return v.IndexValue }

// MarketData holds the latest observation per asset. A nil field means the
// asset could not be fetched this cycle; failures are isolated per asset.
type MarketData struct {
	Gold      *GoldPrice    `json:"gold,omitempty"`
	UsdVnd    *UsdVndRate   `json:"usd_vnd,omitempty"`
	Bitcoin   *BitcoinPrice `json:"bitcoin,omitempty"`
	Vn30      *Vn30Index    `json:"vn30,omitempty"`
	FetchedAt time.Time     `json:"fetched_at"`
}

// Snapshot is one durably recorded daily value for an asset. At most one
// snapshot exists per (asset, calendar day); a later write for the same day
// replaces the earlier one.
type Snapshot struct {
	Date      string          `json:"date"` // YYYY-MM-DD
	Value     decimal.Decimal `json:"value"`
	Timestamp time.Time       `json:"timestamp"`
}

// HistoricalChange is the derived change for one look-back period.
// OldValue and ChangePercent are nil when no historical value could be
// resolved ("unavailable", never a silent zero).
type HistoricalChange struct {
	Period        string           `json:"period"`
	NewValue      decimal.Decimal  `json:"new_value"`
	OldValue      *decimal.Decimal `json:"old_value,omitempty"`
	ChangePercent *decimal.Decimal `json:"change_percent,omitempty"`
}

// AssetHistory groups the per-period changes of one asset.
type AssetHistory struct {
	Asset   string             `json:"asset"`
	Changes []HistoricalChange `json:"changes"`
}

// Dashboard is the full output of one refresh cycle.
type Dashboard struct {
	Market  *MarketData    `json:"market"`
	History []AssetHistory `json:"history"`
}

// Period is one configured look-back window.
type Period struct {
	Label string
	Days  int
}

// Periods are the configured look-back windows, in display order.
var Periods = []Period{
	{Label: "1D", Days: 1},
	{Label: "1W", Days: 7},
	{Label: "1M", Days: 30},
	{Label: "1Y", Days: 365},
	{Label: "3Y", Days: 1095},
}
