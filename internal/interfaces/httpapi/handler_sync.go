package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/footpanel/matchsync/internal/usecase"
)

// RunSync triggers a reconciliation pass. With only ?date= it covers
// one day; ?from= and ?to= run a backfill across the whole range.
func (h *Handler) RunSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSync")
	defer span.End()

	from := strings.TrimSpace(r.URL.Query().Get("from"))
	to := strings.TrimSpace(r.URL.Query().Get("to"))
	if (from == "") != (to == "") {
		writeError(ctx, w, fmt.Errorf("%w: from and to must be provided together", usecase.ErrInvalidInput))
		return
	}

	var (
		result usecase.SyncResult
		err    error
	)
	if from != "" {
		var fromDate, toDate time.Time
		fromDate, err = parseDateParam(r, "from")
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		toDate, err = parseDateParam(r, "to")
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		result, err = h.syncService.SyncRange(ctx, fromDate, toDate, 0)
	} else {
		var date time.Time
		date, err = parseDateParam(r, "date")
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		result, err = h.syncService.SyncDay(ctx, date)
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "sync failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, syncResultDTO{
		Synced:  result.Synced,
		Skipped: result.Skipped,
	})
}
