package source

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"VietPulse/internal/domain/models"
	xhttp "VietPulse/pkg/http"
	"VietPulse/pkg/htmltext"
	"VietPulse/pkg/logger"
)

// CurrencySource fetches the USD/VND black-market sell rate from the
// EGCurrency board, falling back to an approximate constant.
type CurrencySource struct {
	client *xhttp.Client
	url    string
	chain  *Chain[*models.UsdVndRate]
}

func NewCurrencySource(client *xhttp.Client, url string, log *logger.Logger) *CurrencySource {
	s := &CurrencySource{client: client, url: url}
	s.chain = NewChain(models.AssetUsdVnd, log, usdVndFallback,
		Strategy[*models.UsdVndRate]{Label: "EGCurrency", Fetch: s.fetchFromEGCurrency},
	)
	return s
}

func (s *CurrencySource) Fetch(ctx context.Context) (*models.UsdVndRate, error) {
	return s.chain.Fetch(ctx)
}

func usdVndFallback() *models.UsdVndRate {
	return &models.UsdVndRate{
		SellRate:  decimal.NewFromInt(25_500),
		Source:    models.FallbackSource,
		Timestamp: time.Now(),
	}
}

func (s *CurrencySource) fetchFromEGCurrency(ctx context.Context) (*models.UsdVndRate, error) {
	doc, err := s.client.FetchText(ctx, s.url)
	if err != nil {
		return nil, transientf("fetch EGCurrency", err)
	}

	lines := htmltext.Lines(doc)
	for i, line := range lines {
		if !containsAny(line, "sell", "bán", "selling") {
			continue
		}
		if v, ok := firstPlausible(lines, i, i+5, usdVndBounds); ok {
			return &models.UsdVndRate{
				SellRate:  v,
				Source:    "EGCurrency",
				Timestamp: time.Now(),
			}, nil
		}
	}

	// Anchors missed: sweep the raw text for any plausible grouped number.
	if v, ok := scanNumbers(doc, usdVndBounds); ok {
		return &models.UsdVndRate{
			SellRate:  v,
			Source:    "EGCurrency",
			Timestamp: time.Now(),
		}, nil
	}

	return nil, parseErr("EGCurrency", "no plausible sell rate")
}
