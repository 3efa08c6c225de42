package history

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xhttp "VietPulse/pkg/http"
)

func TestResolveChogiaDate(t *testing.T) {
	now, err := time.Parse("2006-01-02", "2026-01-15")
	require.NoError(t, err)

	date, ok := resolveChogiaDate("12/01", now)
	require.True(t, ok)
	assert.Equal(t, "2026-01-12", date)

	// December rows seen in January belong to the previous year.
	date, ok = resolveChogiaDate("28/12", now)
	require.True(t, ok)
	assert.Equal(t, "2025-12-28", date)

	_, ok = resolveChogiaDate("garbage", now)
	assert.False(t, ok)
	_, ok = resolveChogiaDate("32/01", now)
	assert.False(t, ok)
	_, ok = resolveChogiaDate("01/13", now)
	assert.False(t, ok)
}

func TestChogiaGoldSeriesScalesThousands(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "load_gia_vang_cho_do_thi", r.PostFormValue("action"))
		assert.Equal(t, "SJC", r.PostFormValue("congty"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":[
			{"ngay":"10/08","gia_ban":"88500"},
			{"ngay":"11/08","gia_ban":"88700"},
			{"ngay":"bad","gia_ban":"1"}
		]}`))
	}))
	t.Cleanup(srv.Close)

	p := NewChogiaGoldProvider(xhttp.NewClient(), srv.URL)
	p.now = func() time.Time {
		now, _ := time.Parse("2006-01-02", "2026-08-26")
		return now
	}

	series, err := p.Series(context.Background(), 30)
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, "88500000", series["2026-08-10"].String())
	assert.Equal(t, "88700000", series["2026-08-11"].String())
}

func TestChogiaUsdSeriesKeepsRawValues(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "load_gia_ngoai_te_cho_do_thi", r.PostFormValue("action"))
		assert.Equal(t, "USD", r.PostFormValue("ma"))

		_, _ = w.Write([]byte(`{"success":true,"data":[{"ngay":"20/08","gia_ban":"25450"}]}`))
	}))
	t.Cleanup(srv.Close)

	p := NewChogiaUsdProvider(xhttp.NewClient(), srv.URL)
	p.now = func() time.Time {
		now, _ := time.Parse("2006-01-02", "2026-08-26")
		return now
	}

	series, err := p.Series(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, "25450", series["2026-08-20"].String())
}

func TestChogiaUnsuccessfulResponseIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":false}`))
	}))
	t.Cleanup(srv.Close)

	p := NewChogiaGoldProvider(xhttp.NewClient(), srv.URL)
	_, err := p.Series(context.Background(), 30)
	assert.Error(t, err)
}
