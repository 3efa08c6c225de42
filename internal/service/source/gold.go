package source

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"VietPulse/internal/domain/models"
	xhttp "VietPulse/pkg/http"
	"VietPulse/pkg/htmltext"
	"VietPulse/pkg/logger"
	"VietPulse/pkg/vnnum"
)

// GoldURLs are the upstream pages tried, in order.
type GoldURLs struct {
	Gold24h string
	SJC     string
	MiHong  string
}

// GoldSource fetches the SJC gold price in VND/tael.
//
// Strategy order: 24h.com.vn (static table, most scrapable), then the SJC
// official board, then Mi Hong. The terminal fallback is an approximate
// market constant.
type GoldSource struct {
	client *xhttp.Client
	urls   GoldURLs
	chain  *Chain[*models.GoldPrice]
}

func NewGoldSource(client *xhttp.Client, urls GoldURLs, log *logger.Logger) *GoldSource {
	s := &GoldSource{client: client, urls: urls}
	s.chain = NewChain(models.AssetGold, log, goldFallback,
		Strategy[*models.GoldPrice]{Label: "24h.com.vn", Fetch: s.fetchFrom24h},
		Strategy[*models.GoldPrice]{Label: "SJC", Fetch: s.fetchFromSJC},
		Strategy[*models.GoldPrice]{Label: "Mi Hong", Fetch: s.fetchFromMiHong},
	)
	return s
}

func (s *GoldSource) Fetch(ctx context.Context) (*models.GoldPrice, error) {
	return s.chain.Fetch(ctx)
}

func goldFallback() *models.GoldPrice {
	return &models.GoldPrice{
		BuyPrice:  decimal.NewFromInt(87_500_000),
		SellPrice: decimal.NewFromInt(88_500_000),
		Unit:      "VND/tael",
		Source:    models.FallbackSource,
		Timestamp: time.Now(),
	}
}

// fetchFrom24h scans the 24h.com.vn price tables for the SJC row.
func (s *GoldSource) fetchFrom24h(ctx context.Context) (*models.GoldPrice, error) {
	doc, err := s.client.FetchText(ctx, s.urls.Gold24h)
	if err != nil {
		return nil, transientf("fetch 24h.com.vn", err)
	}

	for _, table := range htmltext.Tables(doc) {
		for _, row := range table {
			if len(row) < 3 || !strings.Contains(strings.Join(row, " "), "SJC") {
				continue
			}
			// Cells may append intraday up/down deltas after the quote;
			// only the first token is the price.
			buy, okB := vnnum.Sanitize(firstField(row[1]))
			sell, okS := vnnum.Sanitize(firstField(row[2]))
			if !okB || !okS {
				continue
			}
			buy, sell = scale24hQuote(buy, sell)
			if !goldBounds.contains(buy) || !goldBounds.contains(sell) {
				continue
			}
			return &models.GoldPrice{
				BuyPrice:  buy,
				SellPrice: sell,
				Unit:      "VND/tael",
				Source:    "24h.com.vn",
				Timestamp: time.Now(),
			}, nil
		}
	}

	return nil, parseErr("24h.com.vn", "no SJC row with plausible prices")
}

// scale24hQuote normalizes 24h.com.vn quote conventions to VND per tael:
// quotes below one million are in thousands, and those above one hundred
// thousand are per two taels.
func scale24hQuote(buy, sell decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	million := decimal.NewFromInt(1_000_000)
	if buy.GreaterThanOrEqual(million) {
		return buy, sell
	}
	thousand := decimal.NewFromInt(1000)
	if buy.GreaterThan(decimal.NewFromInt(100_000)) {
		two := decimal.NewFromInt(2)
		return buy.Mul(thousand).Div(two), sell.Mul(thousand).Div(two)
	}
	return buy.Mul(thousand), sell.Mul(thousand)
}

func (s *GoldSource) fetchFromSJC(ctx context.Context) (*models.GoldPrice, error) {
	return s.fetchBoard(ctx, s.urls.SJC, "SJC")
}

func (s *GoldSource) fetchFromMiHong(ctx context.Context) (*models.GoldPrice, error) {
	return s.fetchBoard(ctx, s.urls.MiHong, "Mi Hong")
}

// fetchBoard scans a gold board page for buy/sell values near an SJC anchor.
// Boards that render prices with JavaScript yield a parse failure here and
// control passes to the next strategy.
func (s *GoldSource) fetchBoard(ctx context.Context, url, label string) (*models.GoldPrice, error) {
	doc, err := s.client.FetchText(ctx, url)
	if err != nil {
		return nil, transientf("fetch "+label, err)
	}

	lines := htmltext.Lines(doc)
	buy, okB := extractBoardPrice(lines, "buy", "mua")
	sell, okS := extractBoardPrice(lines, "sell", "bán")
	if !okB || !okS {
		return nil, parseErr(label, "no plausible buy/sell pair near SJC anchor")
	}

	return &models.GoldPrice{
		BuyPrice:  buy,
		SellPrice: sell,
		Unit:      "VND/tael",
		Source:    label,
		Timestamp: time.Now(),
	}, nil
}

// extractBoardPrice finds an SJC line, then a line matching one of the
// keyword anchors within the next 15 lines, then the first plausible value
// within 5 lines of that anchor.
func extractBoardPrice(lines []string, keywords ...string) (decimal.Decimal, bool) {
	for i, line := range lines {
		if !strings.Contains(line, "SJC") {
			continue
		}
		end := i + 15
		if end > len(lines) {
			end = len(lines)
		}
		for j := i; j < end; j++ {
			if !containsAny(lines[j], keywords...) {
				continue
			}
			if v, ok := firstPlausible(lines, j, j+5, goldBounds); ok {
				return v, true
			}
		}
	}
	return decimal.Decimal{}, false
}

func firstField(s string) string {
	if f := strings.Fields(s); len(f) > 0 {
		return f[0]
	}
	return ""
}
