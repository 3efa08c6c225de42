package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"VietPulse/internal/domain/models"
	xhttp "VietPulse/pkg/http"
	"VietPulse/pkg/logger"
)

func htmlServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func failingServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)
	return srv
}

const gold24hPage = `<html><body><table>
<tr><th>Loại vàng</th><th>Mua</th><th>Bán</th></tr>
<tr><td>Vàng SJC</td><td>87.500 +200</td><td>88.500 +200</td></tr>
<tr><td>Nhẫn tròn</td><td>86.000</td><td>87.000</td></tr>
</table></body></html>`

const sjcBoardPage = `<html><body>
<div>Giá vàng SJC</div>
<div>Mua vào</div>
<div>87.500.000</div>
<div>Bán ra</div>
<div>88.500.000</div>
</body></html>`

func TestGoldFetchFrom24h(t *testing.T) {
	srv := htmlServer(t, gold24hPage)
	s := NewGoldSource(xhttp.NewClient(), GoldURLs{Gold24h: srv.URL}, logger.Nop())

	got, err := s.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "24h.com.vn", got.Source)
	// Quotes in thousands get scaled to full VND/tael.
	assert.True(t, got.BuyPrice.Equal(decimal.NewFromInt(87_500_000)), got.BuyPrice.String())
	assert.True(t, got.SellPrice.Equal(decimal.NewFromInt(88_500_000)), got.SellPrice.String())
}

func TestGoldFallsThroughToSJCBoard(t *testing.T) {
	bad := failingServer(t)
	board := htmlServer(t, sjcBoardPage)
	s := NewGoldSource(xhttp.NewClient(), GoldURLs{
		Gold24h: bad.URL,
		SJC:     board.URL,
		MiHong:  bad.URL,
	}, logger.Nop())

	got, err := s.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "SJC", got.Source)
	assert.True(t, got.BuyPrice.Equal(decimal.NewFromInt(87_500_000)))
	assert.True(t, got.SellPrice.Equal(decimal.NewFromInt(88_500_000)))
}

func TestGoldAllStrategiesFailUsesConstant(t *testing.T) {
	bad := failingServer(t)
	s := NewGoldSource(xhttp.NewClient(), GoldURLs{
		Gold24h: bad.URL,
		SJC:     bad.URL,
		MiHong:  bad.URL,
	}, logger.Nop())

	got, err := s.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.FallbackSource, got.Source)
	assert.True(t, got.SellPrice.Equal(decimal.NewFromInt(88_500_000)))
}

func TestScale24hQuote(t *testing.T) {
	cases := []struct {
		name     string
		buy      int64
		wantBuy  int64
		wantSell int64
		sell     int64
	}{
		{name: "already full VND", buy: 87_500_000, sell: 88_500_000, wantBuy: 87_500_000, wantSell: 88_500_000},
		{name: "per two taels in thousands", buy: 175_000, sell: 177_000, wantBuy: 87_500_000, wantSell: 88_500_000},
		{name: "thousands", buy: 87_500, sell: 88_500, wantBuy: 87_500_000, wantSell: 88_500_000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			buy, sell := scale24hQuote(decimal.NewFromInt(tc.buy), decimal.NewFromInt(tc.sell))
			assert.True(t, buy.Equal(decimal.NewFromInt(tc.wantBuy)), buy.String())
			assert.True(t, sell.Equal(decimal.NewFromInt(tc.wantSell)), sell.String())
		})
	}
}
