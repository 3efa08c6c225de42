// Package api exposes the dashboard state over HTTP.
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	drepo "VietPulse/internal/domain/repository"
	"VietPulse/internal/usecase"
	xhttp "VietPulse/pkg/http"
	xlogger "VietPulse/pkg/logger"
)

// MarketHandler serves the latest refresh cycle output and the recorded
// snapshot series.
type MarketHandler struct {
	logger    *xlogger.Logger
	latest    *usecase.Latest
	snapshots drepo.SnapshotStore
}

func NewMarketHandler(logger *xlogger.Logger, latest *usecase.Latest, snapshots drepo.SnapshotStore) *MarketHandler {
	return &MarketHandler{logger: logger, latest: latest, snapshots: snapshots}
}

func (h *MarketHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/market", h.Market)
	g.GET("/assets/:asset/snapshots", h.Snapshots)
	e.GET("/health", h.Health)
}

// Market returns the latest dashboard; 503 until the first cycle completes.
func (h *MarketHandler) Market(c echo.Context) error {
	d, ok := h.latest.Get()
	if !ok {
		err := xhttp.NewAppError("ERR_NO_DATA", "", "no refresh cycle has completed yet", http.StatusServiceUnavailable)
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, d)
}

// SnapshotsRequest selects one asset's recorded series.
type SnapshotsRequest struct {
	Asset string `param:"asset" validate:"required,oneof=gold usd_vnd bitcoin vn30"`
	Limit int    `query:"limit" default:"0" validate:"gte=0"`
}

// Snapshots returns the stored daily series for one asset, oldest first.
// limit > 0 keeps only the most recent entries.
func (h *MarketHandler) Snapshots(c echo.Context) error {
	req := &SnapshotsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	all := h.snapshots.All(c.Request().Context(), req.Asset)
	if req.Limit > 0 && len(all) > req.Limit {
		all = all[len(all)-req.Limit:]
	}
	return xhttp.ListResponse(c, all, int64(len(all)))
}

func (h *MarketHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, "ok")
}
