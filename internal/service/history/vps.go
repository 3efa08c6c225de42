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

// vpsMaxDays comfortably covers the longest configured look-back window.
const vpsMaxDays = 3650

type vpsHistory struct {
	Status     string        `json:"s"`
	Timestamps []int64       `json:"t"`
	Closes     []json.Number `json:"c"`
}

// VpsProvider serves daily VN30 closes from the VPS TradingView-style
// history endpoint.
type VpsProvider struct {
	client *xhttp.Client
	url    string // tradingview/history, symbol and resolution preset
	now    func() time.Time
}

func NewVpsProvider(client *xhttp.Client, endpoint string) *VpsProvider {
	return &VpsProvider{client: client, url: endpoint, now: time.Now}
}

func (p *VpsProvider) MaxDays() int { return vpsMaxDays }

func (p *VpsProvider) Series(ctx context.Context, days int) (repository.HistorySeries, error) {
	to := p.now().Unix()
	from := to - int64(days)*86400

	var out vpsHistory
	err := p.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    p.url,
		QueryParams: map[string][]string{
			"from": {strconv.FormatInt(from, 10)},
			"to":   {strconv.FormatInt(to, 10)},
		},
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("vps history: %w", err)
	}
	if out.Status != "ok" || len(out.Timestamps) == 0 || len(out.Timestamps) != len(out.Closes) {
		return nil, fmt.Errorf("vps history returned status %q", out.Status)
	}

	series := make(repository.HistorySeries, len(out.Timestamps))
	for i, ts := range out.Timestamps {
		v, err := decimal.NewFromString(out.Closes[i].String())
		if err != nil {
			continue
		}
		series[time.Unix(ts, 0).UTC().Format(dateLayout)] = v
	}
	return series, nil
}
