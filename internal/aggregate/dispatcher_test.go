package aggregate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Swordopolis/sc2-replay-analyzer/internal/replay"
)

var (
	terran  = replay.Participant{Name: "Clem", Faction: replay.FactionTerran}
	zerg    = replay.Participant{Name: "Serral", Faction: replay.FactionZerg}
	protoss = replay.Participant{Name: "herO", Faction: replay.FactionProtoss}
)

func snapshot(second int, owner string, stats replay.ResourceStats) replay.Event {
	return replay.Event{
		Kind:   replay.KindResourceSnapshot,
		Second: second,
		Player: &replay.PlayerRef{Name: owner},
		Stats:  &stats,
	}
}

func command(second int, owner, ability string) replay.Event {
	return replay.Event{
		Kind:        replay.KindConstructionOrdered,
		Second:      second,
		Player:      &replay.PlayerRef{Name: owner},
		AbilityName: ability,
	}
}

func unitEvent(kind replay.Kind, second int, owner, unit string) replay.Event {
	return replay.Event{
		Kind:   kind,
		Second: second,
		Unit:   &replay.UnitRef{Name: unit, Owner: &replay.PlayerRef{Name: owner}},
	}
}

func born(second int, owner, unit string) replay.Event {
	return replay.Event{
		Kind:         replay.KindUnitBorn,
		Second:       second,
		Unit:         &replay.UnitRef{Name: unit, Owner: &replay.PlayerRef{Name: owner}},
		UnitTypeName: unit,
	}
}

func typeChange(second int, owner, oldType, newType string) replay.Event {
	return replay.Event{
		Kind:         replay.KindUnitTypeChanged,
		Second:       second,
		Unit:         &replay.UnitRef{Name: oldType, Owner: &replay.PlayerRef{Name: owner}},
		UnitTypeName: newType,
	}
}

func ledgerOf(t *testing.T, set *AggregateSet, name, unit string) []Checkpoint {
	t.Helper()
	p, ok := set.Participant(name)
	require.True(t, ok, "participant %s", name)
	l, ok := p.Ledger(unit)
	require.True(t, ok, "ledger %s for %s", unit, name)
	return l
}

func TestIngestResourceSnapshot(t *testing.T) {
	events := []replay.Event{
		snapshot(10, "Clem", replay.ResourceStats{
			MineralsCollectionRate:  500,
			VespeneCollectionRate:   200,
			MineralsUsedCurrentArmy: 300,
			VespeneUsedCurrentArmy:  150,
			WorkersActiveCount:      22,
			FoodUsed:                30,
			FoodMade:                38,
		}),
	}

	set, err := Ingest(events, []replay.Participant{terran})
	require.NoError(t, err)

	p, _ := set.Participant("Clem")
	assert.Equal(t, []int{10}, p.Times())
	minerals := p.Metric(MineralsCollectionRate)
	vespene := p.Metric(VespeneCollectionRate)
	assert.Equal(t, 700.0, minerals[0]+vespene[0])
	assert.Equal(t, []float64{450}, p.Metric(ArmyValue))
	assert.Equal(t, []float64{22}, p.Metric(WorkersActive))
	assert.Equal(t, []float64{30}, p.Metric(FoodUsed))
	assert.Equal(t, []float64{38}, p.Metric(FoodMade))
	assert.Equal(t, 1, set.Applied)
}

func TestIngestConstructionThenDeath(t *testing.T) {
	events := []replay.Event{
		command(5, "Clem", "TrainMarine"),
		unitEvent(replay.KindUnitDied, 40, "Clem", "Marine"),
	}

	set, err := Ingest(events, []replay.Participant{terran})
	require.NoError(t, err)

	assert.Equal(t, []Checkpoint{{0, 0}, {5, 1}, {40, 0}}, ledgerOf(t, set, "Clem", "Marine"))
}

func TestIngestDeathWithoutBirthClampsAndPrunes(t *testing.T) {
	events := []replay.Event{
		unitEvent(replay.KindUnitDied, 12, "Serral", "Zergling"),
	}

	set, err := Ingest(events, []replay.Participant{zerg})
	require.NoError(t, err)

	p, _ := set.Participant("Serral")
	_, ok := p.Ledger("Zergling")
	assert.False(t, ok, "ledger that never exceeded zero must be pruned")
	assert.Equal(t, 1, set.Pruned)

	// before pruning the clamped value is zero, never negative
	state := newParticipantState(zerg)
	require.NoError(t, state.RecordSupply("Zergling", 12, -0.5))
	cps, _ := state.Ledger("Zergling")
	assert.Equal(t, []Checkpoint{{0, 0}, {12, 0}}, cps)
}

func TestIngestUnitInitiatedSkipsContainerFaction(t *testing.T) {
	events := []replay.Event{
		unitEvent(replay.KindUnitInitiated, 20, "herO", "Zealot"),
		unitEvent(replay.KindUnitInitiated, 21, "Serral", "Queen"),
		born(40, "Serral", "Queen"),
	}

	set, err := Ingest(events, []replay.Participant{protoss, zerg})
	require.NoError(t, err)

	assert.Equal(t, []Checkpoint{{0, 0}, {20, 2}}, ledgerOf(t, set, "herO", "Zealot"))
	assert.Equal(t, []Checkpoint{{0, 0}, {40, 2}}, ledgerOf(t, set, "Serral", "Queen"))
}

func TestIngestUnitTypeChanged(t *testing.T) {
	events := []replay.Event{
		born(100, "Serral", "Hydralisk"),
		born(101, "Serral", "Hydralisk"),
		typeChange(150, "Serral", "Hydralisk", "LurkerMPEgg"),
		typeChange(151, "Serral", "Larva", "Egg"),
		typeChange(152, "Serral", "Zergling", "BanelingCocoon"),
		unitEvent(replay.KindUnitInitiated, 200, "herO", "HighTemplar"),
		unitEvent(replay.KindUnitInitiated, 201, "herO", "HighTemplar"),
		typeChange(230, "herO", "HighTemplar", "Archon"),
		typeChange(230, "herO", "HighTemplar", "Archon"),
		born(231, "herO", "Archon"),
	}

	set, err := Ingest(events, []replay.Participant{zerg, protoss})
	require.NoError(t, err)

	assert.Equal(t, []Checkpoint{{0, 0}, {100, 2}, {101, 4}, {150, 2}}, ledgerOf(t, set, "Serral", "Hydralisk"))
	assert.Equal(t, []Checkpoint{{0, 0}, {200, 2}, {201, 4}, {230, 2}, {230, 0}}, ledgerOf(t, set, "herO", "HighTemplar"))
	assert.Equal(t, []Checkpoint{{0, 0}, {231, 4}}, ledgerOf(t, set, "herO", "Archon"))

	serral, _ := set.Participant("Serral")
	assert.Equal(t, []string{"Hydralisk"}, serral.UnitTypes(), "Larva never exceeded zero")
}

func TestIngestNoopKinds(t *testing.T) {
	events := []replay.Event{
		unitEvent(replay.KindUnitCompleted, 30, "Clem", "Marine"),
		{Kind: replay.KindUpgradeComplete, Second: 31, Player: &replay.PlayerRef{Name: "Clem"}},
	}

	set, err := Ingest(events, []replay.Participant{terran})
	require.NoError(t, err)

	p, _ := set.Participant("Clem")
	assert.Empty(t, p.UnitTypes())
	assert.Equal(t, 0, p.Len())
	assert.Equal(t, 2, set.Applied)
}

func TestIngestSkipsUnresolvableAndUnknownEvents(t *testing.T) {
	events := []replay.Event{
		command(1, "Observer", "TrainMarine"),
		{Kind: replay.KindUnitDied, Second: 2, Unit: &replay.UnitRef{Name: "Marine"}},
		{Kind: "CameraEvent", Second: 3, Player: &replay.PlayerRef{Name: "Clem"}},
		{Kind: replay.KindResourceSnapshot, Second: 4, Player: &replay.PlayerRef{Name: "Clem"}},
		command(5, "Clem", "BuildSupplyDepot"),
		command(6, "Clem", "TrainMarine"),
	}

	set, err := Ingest(events, []replay.Participant{terran})
	require.NoError(t, err)

	assert.Equal(t, 3, set.Skipped)
	assert.Equal(t, 1, set.Ignored)
	assert.Equal(t, 2, set.Applied)
	assert.Equal(t, []Checkpoint{{0, 0}, {6, 1}}, ledgerOf(t, set, "Clem", "Marine"))

	p, _ := set.Participant("Clem")
	assert.Equal(t, 0, p.Len())
}

func TestIngestNonProductionCommandsLeaveNoLedger(t *testing.T) {
	events := []replay.Event{
		command(5, "Clem", "MedivacSpeedBoost"),
		command(6, "Clem", "CloakOnBanshee"),
		command(7, "Clem", "MorphToHellion"),
		command(8, "herO", "HallucinationStalker"),
		command(9, "Serral", "BurrowBanelingDown"),
	}

	set, err := Ingest(events, []replay.Participant{terran, protoss, zerg})
	require.NoError(t, err)

	for _, p := range set.Participants {
		assert.Empty(t, p.UnitTypes(), p.Name)
	}
	assert.Equal(t, 5, set.Applied)
	assert.Equal(t, 0, set.Pruned)
}

func TestIngestKeepsMetricSeriesAligned(t *testing.T) {
	var events []replay.Event
	for s := 0; s < 600; s += 10 {
		events = append(events,
			snapshot(s, "Clem", replay.ResourceStats{MineralsCurrent: float64(s)}),
			command(s, "Clem", "TrainSCV"),
			snapshot(s, "Serral", replay.ResourceStats{VespeneCurrent: float64(s)}),
			born(s, "Serral", "Drone"),
		)
	}

	set, err := Ingest(events, []replay.Participant{terran, zerg})
	require.NoError(t, err)

	for _, p := range set.Participants {
		assert.Equal(t, 60, p.Len())
		for _, m := range Metrics() {
			assert.Len(t, p.Metric(m), p.Len(), "%s %s", p.Name, m)
		}
	}
}

func TestIngestRejectsMalformedStream(t *testing.T) {
	events := []replay.Event{
		command(10, "Clem", "TrainMarine"),
		command(9, "Clem", "TrainMarine"),
	}

	set, err := Ingest(events, []replay.Participant{terran})
	assert.Nil(t, set)
	assert.ErrorIs(t, err, ErrMalformedEvent)

	var ingestErr *IngestError
	require.True(t, errors.As(err, &ingestErr))
	assert.Equal(t, 1, ingestErr.Index)

	_, err = Ingest([]replay.Event{command(-1, "Clem", "TrainMarine")}, []replay.Participant{terran})
	assert.ErrorIs(t, err, ErrMalformedEvent)
}

func TestIngestRejectsDuplicateParticipants(t *testing.T) {
	_, err := Ingest(nil, []replay.Participant{terran, terran})
	assert.ErrorIs(t, err, ErrDuplicateParticipant)
}

func TestParticipantAccessorsReturnCopies(t *testing.T) {
	set, err := Ingest([]replay.Event{
		snapshot(10, "Clem", replay.ResourceStats{MineralsCurrent: 50}),
		command(11, "Clem", "TrainMarine"),
	}, []replay.Participant{terran})
	require.NoError(t, err)

	p, _ := set.Participant("Clem")
	p.Times()[0] = 99
	p.Metric(MineralsCurrent)[0] = 99
	cps, _ := p.Ledger("Marine")
	cps[1].Value = 99

	assert.Equal(t, []int{10}, p.Times())
	assert.Equal(t, []float64{50}, p.Metric(MineralsCurrent))
	assert.Equal(t, 1.0, p.PeakSupply("Marine"))
	assert.Equal(t, []Checkpoint{{10, 50}}, p.Points(MineralsCurrent))
	assert.Nil(t, p.Metric(metricCount))
}
