package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Swordopolis/sc2-replay-analyzer/internal/aggregate"
	"github.com/Swordopolis/sc2-replay-analyzer/internal/db"
	"github.com/Swordopolis/sc2-replay-analyzer/internal/logging"
	"github.com/Swordopolis/sc2-replay-analyzer/internal/metrics"
	"github.com/Swordopolis/sc2-replay-analyzer/internal/series"
)

// JobPayload represents the incoming job from the Redis queue.
type JobPayload struct {
	ReplayID string `json:"replay_id"`
}

// ReplayReader loads decoded replays.
type ReplayReader interface {
	ReplayExists(ctx context.Context, replayID uuid.UUID) (bool, error)
	GetReplayData(ctx context.Context, replayID uuid.UUID) (*aggregate.ReplayData, error)
}

// SeriesWriter stores the chart-ready output of one replay.
type SeriesWriter interface {
	WriteAll(ctx context.Context, set *aggregate.AggregateSet, panels []series.Panel) error
}

// ViewRefresher refreshes whatever reads from the written tables.
type ViewRefresher interface {
	RefreshAll(ctx context.Context) error
}

// ReplayProcessor handles replay analysis jobs.
type ReplayProcessor struct {
	reader        ReplayReader
	writer        SeriesWriter
	refresher     ViewRefresher
	ingestWorkers int
}

// NewReplayProcessor creates a processor. refresher may be nil.
func NewReplayProcessor(reader ReplayReader, writer SeriesWriter, refresher ViewRefresher, ingestWorkers int) *ReplayProcessor {
	return &ReplayProcessor{
		reader:        reader,
		writer:        writer,
		refresher:     refresher,
		ingestWorkers: ingestWorkers,
	}
}

// Handle processes a single replay job from the queue.
func (p *ReplayProcessor) Handle(ctx context.Context, payload []byte) error {
	outcome, err := p.handle(ctx, payload)
	metrics.JobsTotal.WithLabelValues(outcome).Inc()
	return err
}

func (p *ReplayProcessor) handle(ctx context.Context, payload []byte) (string, error) {
	startTime := time.Now()

	var job JobPayload
	if err := json.Unmarshal(payload, &job); err != nil {
		return metrics.OutcomeInvalid, fmt.Errorf("unmarshal job payload: %w", err)
	}

	replayID, err := uuid.Parse(job.ReplayID)
	if err != nil {
		return metrics.OutcomeInvalid, fmt.Errorf("parse replay_id: %w", err)
	}

	logger := logging.Logger().With("replay_id", replayID.String())
	logger.Infof("processing replay job")

	exists, err := p.reader.ReplayExists(ctx, replayID)
	if err != nil {
		return metrics.OutcomeFailed, fmt.Errorf("check replay exists: %w", err)
	}
	if !exists {
		logger.Warnf("replay not found, skipping")
		return metrics.OutcomeMissing, nil
	}

	stageStart := time.Now()
	data, err := p.reader.GetReplayData(ctx, replayID)
	if errors.Is(err, db.ErrNoRows) {
		logger.Warnf("replay deleted before it could be read, skipping")
		return metrics.OutcomeMissing, nil
	}
	if err != nil {
		return metrics.OutcomeFailed, fmt.Errorf("get replay data: %w", err)
	}
	metrics.ObserveStage("read", stageStart)

	logger.Infof("loaded replay: %d participants, %d events", len(data.Participants), len(data.Events))

	stageStart = time.Now()
	set, err := aggregate.BuildAggregates(data, p.ingestWorkers)
	if err != nil {
		if errors.Is(err, aggregate.ErrMalformedEvent) || errors.Is(err, aggregate.ErrDuplicateParticipant) {
			return metrics.OutcomeInvalid, fmt.Errorf("build aggregates: %w", err)
		}
		return metrics.OutcomeFailed, fmt.Errorf("build aggregates: %w", err)
	}
	panels := series.BuildPanels(set)
	metrics.ObserveStage("aggregate", stageStart)
	metrics.RecordIngest(set.Applied, set.Skipped, set.Ignored, set.Pruned)

	logger.Infof("computed aggregates: %d applied, %d skipped, %d ignored, %d ledgers pruned, %d panels",
		set.Applied, set.Skipped, set.Ignored, set.Pruned, len(panels))

	stageStart = time.Now()
	if err := p.writer.WriteAll(ctx, set, panels); err != nil {
		return metrics.OutcomeFailed, fmt.Errorf("write series: %w", err)
	}
	metrics.ObserveStage("write", stageStart)

	if p.refresher != nil {
		if err := p.refresher.RefreshAll(ctx); err != nil {
			// series are written; stale views catch up on the next job
			logger.Warnf("view refresh failed: %v", err)
		}
	}

	logger.Infof("replay job completed in %v", time.Since(startTime))

	return metrics.OutcomeOK, nil
}
