// Package history fetches bulk historical series from external APIs and
// normalizes them to day-keyed decimal values.
package history

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"VietPulse/internal/domain/repository"
	xhttp "VietPulse/pkg/http"
)

const dateLayout = "2006-01-02"

// chogiaMaxDays is roughly how far back the chogia.vn AJAX endpoint serves.
const chogiaMaxDays = 30

type chogiaResponse struct {
	Success bool `json:"success"`
	Data    []struct {
		Ngay   string `json:"ngay"`    // DD/MM, no year
		GiaBan string `json:"gia_ban"` // sell price
	} `json:"data"`
}

// ChogiaProvider serves ~30 days of SJC gold or USD sell prices from the
// chogia.vn chart endpoint.
type ChogiaProvider struct {
	client *xhttp.Client
	url    string
	form   url.Values
	scale  decimal.Decimal
	now    func() time.Time
}

// NewChogiaGoldProvider queries SJC gold. The endpoint quotes in thousands
// of VND, so values are scaled to full VND per tael.
func NewChogiaGoldProvider(client *xhttp.Client, endpoint string) *ChogiaProvider {
	return &ChogiaProvider{
		client: client,
		url:    endpoint,
		form: url.Values{
			"action": {"load_gia_vang_cho_do_thi"},
			"congty": {"SJC"},
		},
		scale: decimal.NewFromInt(1000),
		now:   time.Now,
	}
}

// NewChogiaUsdProvider queries the USD sell rate, already in full VND.
func NewChogiaUsdProvider(client *xhttp.Client, endpoint string) *ChogiaProvider {
	return &ChogiaProvider{
		client: client,
		url:    endpoint,
		form: url.Values{
			"action": {"load_gia_ngoai_te_cho_do_thi"},
			"ma":     {"USD"},
		},
		scale: decimal.NewFromInt(1),
		now:   time.Now,
	}
}

func (p *ChogiaProvider) MaxDays() int { return chogiaMaxDays }

func (p *ChogiaProvider) Series(ctx context.Context, _ int) (repository.HistorySeries, error) {
	var out chogiaResponse
	err := p.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodPost,
		URL:     p.url,
		Headers: map[string]string{"Content-Type": "application/x-www-form-urlencoded"},
		Body:    p.form,
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("chogia.vn request: %w", err)
	}
	if !out.Success || len(out.Data) == 0 {
		return nil, fmt.Errorf("chogia.vn returned no data")
	}

	now := p.now()
	series := make(repository.HistorySeries, len(out.Data))
	for _, e := range out.Data {
		date, ok := resolveChogiaDate(e.Ngay, now)
		if !ok {
			continue
		}
		v, err := decimal.NewFromString(e.GiaBan)
		if err != nil {
			continue
		}
		series[date] = v.Mul(p.scale)
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("chogia.vn rows unparseable")
	}
	return series, nil
}

// resolveChogiaDate turns the endpoint's yearless DD/MM into YYYY-MM-DD.
// A month ahead of the current one belongs to the previous year.
func resolveChogiaDate(raw string, now time.Time) (string, bool) {
	parts := strings.Split(raw, "/")
	if len(parts) != 2 {
		return "", false
	}
	day, err := strconv.Atoi(parts[0])
	if err != nil || day < 1 || day > 31 {
		return "", false
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return "", false
	}
	year := now.Year()
	if month > int(now.Month()) {
		year--
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}
