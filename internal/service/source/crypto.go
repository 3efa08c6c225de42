package source

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"VietPulse/internal/domain/models"
	xhttp "VietPulse/pkg/http"
	"VietPulse/pkg/htmltext"
	"VietPulse/pkg/logger"
)

// CryptoURLs are the upstream endpoints tried for BTC/VND.
type CryptoURLs struct {
	CoinMarketCap string
	CoinGecko     string // simple/price API, ids=bitcoin&vs_currencies=vnd
}

// CryptoSource fetches the BTC/VND conversion rate: CoinMarketCap page
// scrape first, then the CoinGecko API, then a constant.
type CryptoSource struct {
	client *xhttp.Client
	urls   CryptoURLs
	chain  *Chain[*models.BitcoinPrice]
}

func NewCryptoSource(client *xhttp.Client, urls CryptoURLs, log *logger.Logger) *CryptoSource {
	s := &CryptoSource{client: client, urls: urls}
	s.chain = NewChain(models.AssetBitcoin, log, btcFallback,
		Strategy[*models.BitcoinPrice]{Label: "CoinMarketCap", Fetch: s.fetchFromCoinMarketCap},
		Strategy[*models.BitcoinPrice]{Label: "CoinGecko", Fetch: s.fetchFromCoinGecko},
	)
	return s
}

func (s *CryptoSource) Fetch(ctx context.Context) (*models.BitcoinPrice, error) {
	return s.chain.Fetch(ctx)
}

func btcFallback() *models.BitcoinPrice {
	return &models.BitcoinPrice{
		BtcToVnd:  decimal.NewFromInt(2_600_000_000),
		Source:    models.FallbackSource,
		Timestamp: time.Now(),
	}
}

func (s *CryptoSource) fetchFromCoinMarketCap(ctx context.Context) (*models.BitcoinPrice, error) {
	doc, err := s.client.FetchText(ctx, s.urls.CoinMarketCap)
	if err != nil {
		return nil, transientf("fetch CoinMarketCap", err)
	}

	lines := htmltext.Lines(doc)
	for i, line := range lines {
		if !containsAny(line, "vnd", "bitcoin", "btc") {
			continue
		}
		if v, ok := firstPlausible(lines, i-3, i+5, btcVndBounds); ok {
			return &models.BitcoinPrice{
				BtcToVnd:  v,
				Source:    "CoinMarketCap",
				Timestamp: time.Now(),
			}, nil
		}
	}

	if v, ok := scanNumbers(doc, btcVndBounds); ok {
		return &models.BitcoinPrice{
			BtcToVnd:  v,
			Source:    "CoinMarketCap",
			Timestamp: time.Now(),
		}, nil
	}

	return nil, parseErr("CoinMarketCap", "no plausible BTC/VND rate")
}

type coinGeckoSimplePrice struct {
	Bitcoin struct {
		Vnd json.Number `json:"vnd"`
	} `json:"bitcoin"`
}

func (s *CryptoSource) fetchFromCoinGecko(ctx context.Context) (*models.BitcoinPrice, error) {
	var out coinGeckoSimplePrice
	err := s.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    s.urls.CoinGecko,
	}, &out)
	if err != nil {
		return nil, transientf("fetch CoinGecko", err)
	}

	if out.Bitcoin.Vnd == "" {
		return nil, parseErr("CoinGecko", "response missing bitcoin.vnd")
	}
	v, err := decimal.NewFromString(out.Bitcoin.Vnd.String())
	if err != nil || !btcVndBounds.contains(v) {
		return nil, parseErr("CoinGecko", "bitcoin.vnd outside plausible range")
	}

	return &models.BitcoinPrice{
		BtcToVnd:  v,
		Source:    "CoinGecko",
		Timestamp: time.Now(),
	}, nil
}
