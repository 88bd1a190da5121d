package aggregate

import (
	"errors"
	"fmt"

	"github.com/Swordopolis/sc2-replay-analyzer/internal/catalog"
	"github.com/Swordopolis/sc2-replay-analyzer/internal/replay"
)

type handlerFunc func(d *Dispatcher, p *ParticipantState, e replay.Event) error

// handlers maps each recognized event kind to exactly one handler.
var handlers = map[replay.Kind]handlerFunc{
	replay.KindResourceSnapshot:    (*Dispatcher).handleResourceSnapshot,
	replay.KindUpgradeComplete:     (*Dispatcher).handleNoop,
	replay.KindUnitBorn:            (*Dispatcher).handleUnitBorn,
	replay.KindUnitTypeChanged:     (*Dispatcher).handleUnitTypeChanged,
	replay.KindConstructionOrdered: (*Dispatcher).handleConstructionOrdered,
	replay.KindUnitInitiated:       (*Dispatcher).handleUnitInitiated,
	replay.KindUnitCompleted:       (*Dispatcher).handleNoop,
	replay.KindUnitDied:            (*Dispatcher).handleUnitDied,
}

// Dispatcher folds a replay's event stream into per-participant state.
type Dispatcher struct {
	catalog *catalog.Catalog
}

// NewDispatcher creates a dispatcher that prices units with the given catalog.
func NewDispatcher(c *catalog.Catalog) *Dispatcher {
	if c == nil {
		c = catalog.Default()
	}
	return &Dispatcher{catalog: c}
}

// Ingest aggregates events with the built-in unit catalog.
func Ingest(events []replay.Event, participants []replay.Participant) (*AggregateSet, error) {
	return NewDispatcher(nil).Ingest(events, participants)
}

// Ingest processes events strictly in the order given. Events owned by nobody
// in participants are skipped; a malformed stream fails the whole call.
func (d *Dispatcher) Ingest(events []replay.Event, participants []replay.Participant) (*AggregateSet, error) {
	set, err := newAggregateSet(participants)
	if err != nil {
		return nil, err
	}
	if err := validateStream(events); err != nil {
		return nil, err
	}

	var c counters
	for i, e := range events {
		if err := d.dispatch(set.byName, i, e, &c); err != nil {
			return nil, err
		}
	}
	c.apply(set)
	set.Pruned = pruneAll(set.Participants)

	return set, nil
}

// counters tallies dispatch outcomes.
type counters struct {
	applied, skipped, ignored int
}

func (c *counters) add(o counters) {
	c.applied += o.applied
	c.skipped += o.skipped
	c.ignored += o.ignored
}

func (c counters) apply(set *AggregateSet) {
	set.Applied = c.applied
	set.Skipped = c.skipped
	set.Ignored = c.ignored
}

// dispatch routes one event to its handler and the owning participant.
func (d *Dispatcher) dispatch(states map[string]*ParticipantState, index int, e replay.Event, c *counters) error {
	handler, ok := handlers[e.Kind]
	if !ok {
		c.ignored++
		return nil
	}

	p := resolveParticipant(states, e)
	if p == nil {
		c.skipped++
		return nil
	}

	if err := handler(d, p, e); err != nil {
		if errors.Is(err, errMissingPayload) {
			c.skipped++
			return nil
		}
		return &IngestError{Index: index, Second: e.Second, Reason: string(e.Kind), Err: err}
	}
	c.applied++
	return nil
}

// resolveParticipant returns the known participant owning e, or nil.
func resolveParticipant(states map[string]*ParticipantState, e replay.Event) *ParticipantState {
	name, ok := e.Owner()
	if !ok {
		return nil
	}
	return states[name]
}

func (d *Dispatcher) handleResourceSnapshot(p *ParticipantState, e replay.Event) error {
	if e.Stats == nil {
		return errMissingPayload
	}
	p.appendSnapshot(e.Second, e.Stats)
	return nil
}

// handleConstructionOrdered counts a unit when its production command is issued.
func (d *Dispatcher) handleConstructionOrdered(p *ParticipantState, e replay.Event) error {
	if e.AbilityName == "" {
		return errMissingPayload
	}
	unit, ok := d.catalog.ResolveAbility(e.AbilityName)
	if !ok {
		return nil
	}
	return p.RecordSupply(unit, e.Second, d.catalog.Supply(unit))
}

// handleUnitBorn counts units hatched from a container.
func (d *Dispatcher) handleUnitBorn(p *ParticipantState, e replay.Event) error {
	if e.UnitTypeName == "" {
		return errMissingPayload
	}
	if !d.catalog.Tracked(e.UnitTypeName) {
		return nil
	}
	return p.RecordSupply(e.UnitTypeName, e.Second, d.catalog.Supply(e.UnitTypeName))
}

// handleUnitInitiated counts units started in place. Container-spawning
// factions report the same units through commands and births instead, so
// their initiations are not counted here.
func (d *Dispatcher) handleUnitInitiated(p *ParticipantState, e replay.Event) error {
	unit := e.UnitType()
	if unit == "" {
		return errMissingPayload
	}
	if !d.catalog.Tracked(unit) || p.Faction.SpawnsFromContainers() {
		return nil
	}
	return p.RecordSupply(unit, e.Second, d.catalog.Supply(unit))
}

// handleUnitTypeChanged removes units consumed by a transformation: units
// entering an egg, and templars merging into an Archon. The merged unit is
// counted by its own creation event.
func (d *Dispatcher) handleUnitTypeChanged(p *ParticipantState, e replay.Event) error {
	oldType := e.UnitType()
	newType := e.UnitTypeName
	if oldType == "" || newType == "" {
		return errMissingPayload
	}

	switch {
	case d.catalog.IsIncubator(newType) && d.catalog.Tracked(oldType):
		return p.RecordSupply(oldType, e.Second, -d.catalog.Supply(oldType))
	case d.catalog.IsMerge(oldType, newType):
		return p.RecordSupply(oldType, e.Second, -d.catalog.Supply(oldType))
	}
	return nil
}

func (d *Dispatcher) handleUnitDied(p *ParticipantState, e replay.Event) error {
	unit := e.UnitType()
	if unit == "" {
		return errMissingPayload
	}
	if !d.catalog.Tracked(unit) {
		return nil
	}
	return p.RecordSupply(unit, e.Second, -d.catalog.Supply(unit))
}

// handleNoop covers completions, which repeat start events, and upgrades,
// which never change supply.
func (d *Dispatcher) handleNoop(*ParticipantState, replay.Event) error {
	return nil
}

func newAggregateSet(participants []replay.Participant) (*AggregateSet, error) {
	set := &AggregateSet{
		Participants: make([]*ParticipantState, 0, len(participants)),
		byName:       make(map[string]*ParticipantState, len(participants)),
	}
	for _, p := range participants {
		if _, dup := set.byName[p.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateParticipant, p.Name)
		}
		state := newParticipantState(p)
		set.Participants = append(set.Participants, state)
		set.byName[p.Name] = state
	}
	return set, nil
}

// validateStream rejects negative timestamps and timestamps that go backwards.
// Events are never reordered.
func validateStream(events []replay.Event) error {
	prev := 0
	for i, e := range events {
		switch {
		case e.Second < 0:
			return &IngestError{Index: i, Second: e.Second, Reason: "negative timestamp", Err: ErrMalformedEvent}
		case e.Second < prev:
			return &IngestError{
				Index:  i,
				Second: e.Second,
				Reason: fmt.Sprintf("timestamp before previous %d", prev),
				Err:    ErrMalformedEvent,
			}
		}
		prev = e.Second
	}
	return nil
}

func pruneAll(states []*ParticipantState) int {
	pruned := 0
	for _, p := range states {
		pruned += p.prune()
	}
	return pruned
}
