package source

import (
	"context"

	"VietPulse/internal/domain/models"
	xhttp "VietPulse/pkg/http"
	"VietPulse/pkg/logger"
)

// URLs collects every upstream endpoint the fallback chains scrape.
type URLs struct {
	Gold       GoldURLs
	EGCurrency string
	Crypto     CryptoURLs
	Vietstock  string
}

// Sources bundles the four per-asset fallback chains behind the
// repository.MarketSource interface.
type Sources struct {
	gold     *GoldSource
	currency *CurrencySource
	crypto   *CryptoSource
	stock    *StockSource
}

func NewSources(client *xhttp.Client, urls URLs, log *logger.Logger) *Sources {
	return &Sources{
		gold:     NewGoldSource(client, urls.Gold, log),
		currency: NewCurrencySource(client, urls.EGCurrency, log),
		crypto:   NewCryptoSource(client, urls.Crypto, log),
		stock:    NewStockSource(client, urls.Vietstock, log),
	}
}

func (s *Sources) FetchGold(ctx context.Context) (*models.GoldPrice, error) {
	return s.gold.Fetch(ctx)
}

func (s *Sources) FetchUsdVnd(ctx context.Context) (*models.UsdVndRate, error) {
	return s.currency.Fetch(ctx)
}

func (s *Sources) FetchBitcoin(ctx context.Context) (*models.BitcoinPrice, error) {
	return s.crypto.Fetch(ctx)
}

func (s *Sources) FetchVn30(ctx context.Context) (*models.Vn30Index, error) {
	return s.stock.Fetch(ctx)
}
