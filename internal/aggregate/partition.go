package aggregate

import (
	"golang.org/x/sync/errgroup"

	"github.com/Swordopolis/sc2-replay-analyzer/internal/replay"
)

// indexedEvent keeps an event's position in the full stream for errors.
type indexedEvent struct {
	index int
	event replay.Event
}

// IngestParallel produces the same result as Ingest, folding each
// participant's events on its own goroutine. Events are partitioned by owner
// up front and every partition keeps stream order, so ledger deltas accumulate
// exactly as they would sequentially. At most workers partitions run at once;
// workers <= 1 falls back to Ingest.
func (d *Dispatcher) IngestParallel(events []replay.Event, participants []replay.Participant, workers int) (*AggregateSet, error) {
	if workers <= 1 {
		return d.Ingest(events, participants)
	}

	set, err := newAggregateSet(participants)
	if err != nil {
		return nil, err
	}
	if err := validateStream(events); err != nil {
		return nil, err
	}

	var total counters
	partitions := make(map[string][]indexedEvent, len(participants))
	for i, e := range events {
		if _, ok := handlers[e.Kind]; !ok {
			total.ignored++
			continue
		}
		p := resolveParticipant(set.byName, e)
		if p == nil {
			total.skipped++
			continue
		}
		partitions[p.Name] = append(partitions[p.Name], indexedEvent{index: i, event: e})
	}

	results := make([]counters, len(set.Participants))
	var g errgroup.Group
	g.SetLimit(workers)
	for i, p := range set.Participants {
		sub := partitions[p.Name]
		if len(sub) == 0 {
			continue
		}
		states := map[string]*ParticipantState{p.Name: p}
		g.Go(func() error {
			for _, ie := range sub {
				if err := d.dispatch(states, ie.index, ie.event, &results[i]); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, c := range results {
		total.add(c)
	}
	total.apply(set)
	set.Pruned = pruneAll(set.Participants)

	return set, nil
}
