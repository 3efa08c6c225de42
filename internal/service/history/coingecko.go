package history

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"VietPulse/internal/domain/repository"
	xhttp "VietPulse/pkg/http"
)

// coinGeckoMaxDays is the free-tier cap on the market_chart endpoint.
const coinGeckoMaxDays = 365

type coinGeckoChart struct {
	Prices [][2]json.Number `json:"prices"` // [timestamp_ms, price]
}

// CoinGeckoProvider serves daily BTC/VND prices from the market_chart API.
type CoinGeckoProvider struct {
	client *xhttp.Client
	url    string // coins/bitcoin/market_chart, vs_currency preset
}

func NewCoinGeckoProvider(client *xhttp.Client, endpoint string) *CoinGeckoProvider {
	return &CoinGeckoProvider{client: client, url: endpoint}
}

func (p *CoinGeckoProvider) MaxDays() int { return coinGeckoMaxDays }

func (p *CoinGeckoProvider) Series(ctx context.Context, days int) (repository.HistorySeries, error) {
	if days > coinGeckoMaxDays {
		days = coinGeckoMaxDays
	}

	var out coinGeckoChart
	err := p.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         p.url,
		QueryParams: map[string][]string{"days": {strconv.Itoa(days)}},
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("coingecko market_chart: %w", err)
	}
	if len(out.Prices) == 0 {
		return nil, fmt.Errorf("coingecko returned no prices")
	}

	series := make(repository.HistorySeries, len(out.Prices))
	for _, point := range out.Prices {
		tsMs, err := point[0].Int64()
		if err != nil {
			continue
		}
		v, err := decimal.NewFromString(point[1].String())
		if err != nil {
			continue
		}
		// Intraday points collapse to one value per day, last one wins.
		date := time.Unix(tsMs/1000, 0).UTC().Format(dateLayout)
		series[date] = v
	}
	return series, nil
}
