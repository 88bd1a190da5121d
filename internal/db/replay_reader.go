package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Swordopolis/sc2-replay-analyzer/internal/aggregate"
	"github.com/Swordopolis/sc2-replay-analyzer/internal/replay"
)

// ReplayReader provides read-only access to the decoder's output tables.
type ReplayReader struct {
	pool *pgxpool.Pool
}

// NewReplayReader creates a new replay reader.
func NewReplayReader(pool *pgxpool.Pool) *ReplayReader {
	return &ReplayReader{pool: pool}
}

// eventRow is one replay_events row. Columns that do not apply to the
// event kind are NULL.
type eventRow struct {
	Second        int
	Kind          string
	PlayerName    *string
	UnitType      *string
	UnitOwnerName *string
	UnitTypeName  *string
	AbilityName   *string
	Stats         [13]*float64
}

// GetReplayData retrieves the participants and ordered events of a replay.
// A replay deleted since it was queued yields an error wrapping ErrNoRows.
func (r *ReplayReader) GetReplayData(ctx context.Context, replayID uuid.UUID) (*aggregate.ReplayData, error) {
	data := &aggregate.ReplayData{ReplayID: replayID}

	err := r.pool.QueryRow(ctx, `
		SELECT played_at
		FROM replays
		WHERE id = $1
	`, replayID).Scan(&data.PlayedAt)
	if err != nil {
		return nil, fmt.Errorf("get replay info: %w", err)
	}

	participants, err := r.getParticipants(ctx, replayID)
	if err != nil {
		return nil, fmt.Errorf("get participants: %w", err)
	}
	data.Participants = participants

	events, err := r.getEvents(ctx, replayID)
	if err != nil {
		return nil, fmt.Errorf("get events: %w", err)
	}
	data.Events = events

	return data, nil
}

func (r *ReplayReader) getParticipants(ctx context.Context, replayID uuid.UUID) ([]replay.Participant, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT name, faction
		FROM replay_participants
		WHERE replay_id = $1
		ORDER BY position
	`, replayID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []replay.Participant
	for rows.Next() {
		var p replay.Participant
		var faction string
		if err := rows.Scan(&p.Name, &faction); err != nil {
			return nil, err
		}
		p.Faction = replay.Faction(faction)
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return participants, replay.ValidateParticipants(participants)
}

// getEvents retrieves events in decoder order.
func (r *ReplayReader) getEvents(ctx context.Context, replayID uuid.UUID) ([]replay.Event, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT second, kind, player_name, unit_type, unit_owner_name, unit_type_name, ability_name,
		       minerals_current, vespene_current,
		       minerals_collection_rate, vespene_collection_rate,
		       minerals_used_current_army, vespene_used_current_army,
		       minerals_used_current_economy, vespene_used_current_economy,
		       minerals_used_current_technology, vespene_used_current_technology,
		       workers_active_count, food_used, food_made
		FROM replay_events
		WHERE replay_id = $1
		ORDER BY seq
	`, replayID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []replay.Event
	for rows.Next() {
		var er eventRow
		dest := []any{&er.Second, &er.Kind, &er.PlayerName, &er.UnitType, &er.UnitOwnerName, &er.UnitTypeName, &er.AbilityName}
		for i := range er.Stats {
			dest = append(dest, &er.Stats[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		events = append(events, er.event())
	}
	return events, rows.Err()
}

// event rebuilds the decoder shape. Stats are attached only when the
// snapshot columns were written.
func (er eventRow) event() replay.Event {
	e := replay.Event{
		Kind:         replay.Kind(er.Kind),
		Second:       er.Second,
		UnitTypeName: deref(er.UnitTypeName),
		AbilityName:  deref(er.AbilityName),
	}
	if er.PlayerName != nil {
		e.Player = &replay.PlayerRef{Name: *er.PlayerName}
	}
	if er.UnitType != nil {
		e.Unit = &replay.UnitRef{Name: *er.UnitType}
		if er.UnitOwnerName != nil {
			e.Unit.Owner = &replay.PlayerRef{Name: *er.UnitOwnerName}
		}
	}
	if er.Stats[0] != nil {
		v := func(i int) float64 { return derefFloat(er.Stats[i]) }
		e.Stats = &replay.ResourceStats{
			MineralsCurrent:               v(0),
			VespeneCurrent:                v(1),
			MineralsCollectionRate:        v(2),
			VespeneCollectionRate:         v(3),
			MineralsUsedCurrentArmy:       v(4),
			VespeneUsedCurrentArmy:        v(5),
			MineralsUsedCurrentEconomy:    v(6),
			VespeneUsedCurrentEconomy:     v(7),
			MineralsUsedCurrentTechnology: v(8),
			VespeneUsedCurrentTechnology:  v(9),
			WorkersActiveCount:            v(10),
			FoodUsed:                      v(11),
			FoodMade:                      v(12),
		}
	}
	return e
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefFloat(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// ReplayExists checks if a replay exists in the database.
func (r *ReplayReader) ReplayExists(ctx context.Context, replayID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM replays WHERE id = $1)
	`, replayID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// ErrNoRows is wrapped by GetReplayData when the replay row is gone.
var ErrNoRows = pgx.ErrNoRows
