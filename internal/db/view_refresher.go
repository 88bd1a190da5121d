package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Swordopolis/sc2-replay-analyzer/internal/logging"
	"github.com/Swordopolis/sc2-replay-analyzer/internal/metrics"
)

// ViewRefresher refreshes the dashboard materialized views after a replay
// has been written.
type ViewRefresher struct {
	pool  *pgxpool.Pool
	views []string
}

// NewViewRefresher creates a refresher for views, refreshed in the given
// order. Names may be schema qualified.
func NewViewRefresher(pool *pgxpool.Pool, views []string) *ViewRefresher {
	return &ViewRefresher{pool: pool, views: views}
}

// RefreshAll refreshes every view. A failing view is logged and skipped;
// the call fails only when none could be refreshed.
func (r *ViewRefresher) RefreshAll(ctx context.Context) error {
	if len(r.views) == 0 {
		return nil
	}
	logger := logging.Logger()

	startTime := time.Now()
	refreshed := 0

	for _, view := range r.views {
		if err := r.refreshView(ctx, view); err != nil {
			logger.Warnf("failed to refresh view %s: %v", view, err)
			metrics.ViewRefreshFailures.Inc()
			continue
		}
		refreshed++
	}

	logger.Infof("view refresh completed: %d/%d succeeded in %v", refreshed, len(r.views), time.Since(startTime))

	if refreshed == 0 {
		return fmt.Errorf("all view refreshes failed")
	}

	return nil
}

func (r *ViewRefresher) refreshView(ctx context.Context, view string) error {
	query := "REFRESH MATERIALIZED VIEW " + pgx.Identifier(strings.Split(view, ".")).Sanitize()

	if _, err := r.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("refresh %s: %w", view, err)
	}

	return nil
}
