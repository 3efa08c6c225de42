package source

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"VietPulse/internal/domain/models"
	xhttp "VietPulse/pkg/http"
	"VietPulse/pkg/htmltext"
	"VietPulse/pkg/logger"
	"VietPulse/pkg/vnnum"
)

// changePattern pulls the signed point change out of a line shaped like
// "10.83 (0.54%)".
var changePattern = regexp.MustCompile(`([-+]?\d+[.,]\d+)\s*\(`)

// StockSource fetches the VN30 index from the Vietstock price board.
type StockSource struct {
	client *xhttp.Client
	url    string
	chain  *Chain[*models.Vn30Index]
}

func NewStockSource(client *xhttp.Client, url string, log *logger.Logger) *StockSource {
	s := &StockSource{client: client, url: url}
	s.chain = NewChain(models.AssetVn30, log, vn30Fallback,
		Strategy[*models.Vn30Index]{Label: "Vietstock", Fetch: s.fetchFromVietstock},
	)
	return s
}

func (s *StockSource) Fetch(ctx context.Context) (*models.Vn30Index, error) {
	return s.chain.Fetch(ctx)
}

func vn30Fallback() *models.Vn30Index {
	return &models.Vn30Index{
		IndexValue: decimal.NewFromInt(1_250),
		Source:     models.FallbackSource,
		Timestamp:  time.Now(),
	}
}

// fetchFromVietstock anchors on the literal "VN30-INDEX" line; the next line
// carries the index value and the one after it the intraday change.
func (s *StockSource) fetchFromVietstock(ctx context.Context) (*models.Vn30Index, error) {
	doc, err := s.client.FetchText(ctx, s.url)
	if err != nil {
		return nil, transientf("fetch Vietstock", err)
	}

	lines := htmltext.Lines(doc)
	for i, line := range lines {
		if line != "VN30-INDEX" || i+1 >= len(lines) {
			continue
		}

		value, ok := vnnum.Sanitize(lines[i+1])
		if !ok || !vn30Bounds.contains(value) {
			continue
		}

		idx := &models.Vn30Index{
			IndexValue: value,
			Source:     "Vietstock",
			Timestamp:  time.Now(),
		}
		if i+2 < len(lines) {
			idx.ChangePercent = parseIntradayChange(lines[i+2])
		}
		return idx, nil
	}

	return nil, parseErr("Vietstock", "no plausible VN30-INDEX value")
}

func parseIntradayChange(line string) *decimal.Decimal {
	if !strings.Contains(line, "(") || !strings.Contains(line, "%") {
		return nil
	}
	m := changePattern.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	v, ok := vnnum.Sanitize(m[1])
	if !ok {
		return nil
	}
	if strings.HasPrefix(strings.TrimSpace(m[1]), "-") {
		v = v.Neg()
	}
	return &v
}
