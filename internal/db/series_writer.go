package db

import (
	"context"
	"encoding/binary"
	"fmt"
	"hash/fnv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Swordopolis/sc2-replay-analyzer/internal/aggregate"
	"github.com/Swordopolis/sc2-replay-analyzer/internal/series"
)

// SeriesWriter writes chart-ready series for one replay.
type SeriesWriter struct {
	pool *pgxpool.Pool
}

// NewSeriesWriter creates a new series writer.
func NewSeriesWriter(pool *pgxpool.Pool) *SeriesWriter {
	return &SeriesWriter{pool: pool}
}

// outputTables in purge order.
var outputTables = []string{
	"replay_panel_points",
	"replay_unit_supply",
	"replay_snapshot_stats",
}

// WriteAll replaces everything stored for the replay within a single
// transaction. An advisory lock on the replay id serializes concurrent jobs
// for the same replay.
func (w *SeriesWriter) WriteAll(ctx context.Context, set *aggregate.AggregateSet, panels []series.Panel) error {
	tx, err := w.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, advisoryLockKey(set.ReplayID)); err != nil {
		return fmt.Errorf("acquire replay lock: %w", err)
	}

	if err := purgeSeries(ctx, tx, set.ReplayID); err != nil {
		return fmt.Errorf("purge series: %w", err)
	}

	if err := insertSnapshots(ctx, tx, aggregate.BuildSnapshotRows(set)); err != nil {
		return fmt.Errorf("insert snapshots: %w", err)
	}

	if err := insertUnitSupply(ctx, tx, aggregate.BuildUnitSupplyRows(set)); err != nil {
		return fmt.Errorf("insert unit supply: %w", err)
	}

	if err := insertPanelPoints(ctx, tx, series.BuildPanelPointRows(set.ReplayID, panels)); err != nil {
		return fmt.Errorf("insert panel points: %w", err)
	}

	return tx.Commit(ctx)
}

// advisoryLockKey generates a stable int64 key from a UUID for pg_advisory_lock.
func advisoryLockKey(id uuid.UUID) int64 {
	h := fnv.New64a()
	h.Write(id[:])
	return int64(binary.BigEndian.Uint64(h.Sum(nil)[:8]))
}

func purgeSeries(ctx context.Context, tx pgx.Tx, replayID uuid.UUID) error {
	for _, table := range outputTables {
		query := fmt.Sprintf(`DELETE FROM %s WHERE replay_id = $1`, pgx.Identifier{table}.Sanitize())
		if _, err := tx.Exec(ctx, query, replayID); err != nil {
			return fmt.Errorf("purge %s: %w", table, err)
		}
	}
	return nil
}

// snapshotColumns are the fixed columns followed by one column per metric.
func snapshotColumns() []string {
	columns := []string{"replay_id", "participant", "seq", "second", "real_minute"}
	for _, m := range aggregate.Metrics() {
		columns = append(columns, m.String())
	}
	return columns
}

func snapshotValues(r aggregate.SnapshotRow) []any {
	values := []any{r.ReplayID, r.Participant, r.Seq, r.Second, series.RealMinutes(r.Second)}
	for _, v := range r.Values {
		values = append(values, v)
	}
	return values
}

// insertSnapshots inserts resource snapshots using COPY protocol.
func insertSnapshots(ctx context.Context, tx pgx.Tx, rows []aggregate.SnapshotRow) error {
	if len(rows) == 0 {
		return nil
	}

	_, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"replay_snapshot_stats"},
		snapshotColumns(),
		pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			return snapshotValues(rows[i]), nil
		}),
	)
	return err
}

// insertUnitSupply inserts ledger checkpoints using COPY protocol.
func insertUnitSupply(ctx context.Context, tx pgx.Tx, rows []aggregate.UnitSupplyRow) error {
	if len(rows) == 0 {
		return nil
	}

	columns := []string{"replay_id", "participant", "unit_type", "seq", "second", "real_minute", "supply"}

	_, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"replay_unit_supply"},
		columns,
		pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			r := rows[i]
			return []any{
				r.ReplayID, r.Participant, r.UnitType, r.Seq, r.Second, series.RealMinutes(r.Second), r.Supply,
			}, nil
		}),
	)
	return err
}

// insertPanelPoints inserts chart points using COPY protocol.
func insertPanelPoints(ctx context.Context, tx pgx.Tx, rows []series.PanelPointRow) error {
	if len(rows) == 0 {
		return nil
	}

	columns := []string{"replay_id", "panel_key", "line", "seq", "real_minute", "value", "dashed", "stack"}

	_, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"replay_panel_points"},
		columns,
		pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			r := rows[i]
			return []any{
				r.ReplayID, r.PanelKey, r.Line, r.Seq, r.Minute, r.Value, r.Dashed, r.Stack,
			}, nil
		}),
	)
	return err
}
