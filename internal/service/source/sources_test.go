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

const egCurrencyPage = `<html><body>
<div>USD to VND black market</div>
<div>Buy rate</div>
<div>25.350</div>
<div>Sell rate</div>
<div>25.450</div>
</body></html>`

func TestCurrencyFetchFromEGCurrency(t *testing.T) {
	srv := htmlServer(t, egCurrencyPage)
	s := NewCurrencySource(xhttp.NewClient(), srv.URL, logger.Nop())

	got, err := s.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "EGCurrency", got.Source)
	assert.True(t, got.SellRate.Equal(decimal.NewFromInt(25_450)), got.SellRate.String())
}

func TestCurrencyFallbackConstant(t *testing.T) {
	srv := failingServer(t)
	s := NewCurrencySource(xhttp.NewClient(), srv.URL, logger.Nop())

	got, err := s.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.FallbackSource, got.Source)
	assert.True(t, got.SellRate.Equal(decimal.NewFromInt(25_500)))
}

func TestCryptoFetchFromCoinGecko(t *testing.T) {
	bad := failingServer(t)
	gecko := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"bitcoin":{"vnd":2745123456.78}}`))
	}))
	t.Cleanup(gecko.Close)

	s := NewCryptoSource(xhttp.NewClient(), CryptoURLs{
		CoinMarketCap: bad.URL,
		CoinGecko:     gecko.URL,
	}, logger.Nop())

	got, err := s.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "CoinGecko", got.Source)
	// json.Number keeps the upstream digits intact.
	assert.Equal(t, "2745123456.78", got.BtcToVnd.String())
}

func TestCryptoCoinGeckoImplausibleIsParseFailure(t *testing.T) {
	bad := failingServer(t)
	gecko := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"bitcoin":{"vnd":12}}`))
	}))
	t.Cleanup(gecko.Close)

	s := NewCryptoSource(xhttp.NewClient(), CryptoURLs{
		CoinMarketCap: bad.URL,
		CoinGecko:     gecko.URL,
	}, logger.Nop())

	got, err := s.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.FallbackSource, got.Source)
}

const vietstockPage = `<html><body>
<div>VN30-INDEX</div>
<div>1,292.45</div>
<div>10.83 (0.54%)</div>
<div>VN-INDEX</div>
<div>1,280.01</div>
</body></html>`

func TestStockFetchFromVietstock(t *testing.T) {
	srv := htmlServer(t, vietstockPage)
	s := NewStockSource(xhttp.NewClient(), srv.URL, logger.Nop())

	got, err := s.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Vietstock", got.Source)
	assert.Equal(t, "1292.45", got.IndexValue.String())
	require.NotNil(t, got.ChangePercent)
	assert.Equal(t, "10.83", got.ChangePercent.String())
}

func TestStockNegativeIntradayChange(t *testing.T) {
	page := `<html><body><div>VN30-INDEX</div><div>1,292.45</div><div>-10.83 (-0.54%)</div></body></html>`
	srv := htmlServer(t, page)
	s := NewStockSource(xhttp.NewClient(), srv.URL, logger.Nop())

	got, err := s.Fetch(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got.ChangePercent)
	assert.Equal(t, "-10.83", got.ChangePercent.String())
}

func TestStockFallbackConstant(t *testing.T) {
	srv := htmlServer(t, `<html><body><p>maintenance</p></body></html>`)
	s := NewStockSource(xhttp.NewClient(), srv.URL, logger.Nop())

	got, err := s.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.FallbackSource, got.Source)
	assert.True(t, got.IndexValue.Equal(decimal.NewFromInt(1_250)))
}
