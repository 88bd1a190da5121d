package replay

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOwner(t *testing.T) {
	direct := Event{Player: &PlayerRef{Name: "Serral"}, Unit: &UnitRef{Name: "Drone", Owner: &PlayerRef{Name: "Other"}}}
	name, ok := direct.Owner()
	assert.True(t, ok)
	assert.Equal(t, "Serral", name)

	viaUnit := Event{Unit: &UnitRef{Name: "Marine", Owner: &PlayerRef{Name: "Clem"}}}
	name, ok = viaUnit.Owner()
	assert.True(t, ok)
	assert.Equal(t, "Clem", name)

	orphan := Event{Unit: &UnitRef{Name: "MineralField"}}
	_, ok = orphan.Owner()
	assert.False(t, ok)

	_, ok = Event{Player: &PlayerRef{}}.Owner()
	assert.False(t, ok)
}

func TestFactionSpawnsFromContainers(t *testing.T) {
	assert.True(t, FactionZerg.SpawnsFromContainers())
	assert.False(t, FactionTerran.SpawnsFromContainers())
	assert.False(t, FactionProtoss.SpawnsFromContainers())
}

func TestFactionPlayed(t *testing.T) {
	assert.True(t, FactionTerran.Played())
	assert.True(t, FactionProtoss.Played())
	assert.True(t, FactionZerg.Played())
	assert.False(t, FactionRandom.Played())
	assert.False(t, Faction("").Played())
}

func TestValidateParticipants(t *testing.T) {
	assert.NoError(t, ValidateParticipants([]Participant{{Name: "Clem", Faction: FactionTerran}, {Name: "Serral", Faction: FactionZerg}}))
	assert.ErrorContains(t, ValidateParticipants([]Participant{{Name: "Rogue", Faction: FactionRandom}}), "not a played race")
	assert.ErrorContains(t, ValidateParticipants([]Participant{{Faction: FactionZerg}}), "empty name")
}

func TestReadDump(t *testing.T) {
	doc := `{
		"participants": [{"name": "Clem", "faction": "Terran"}],
		"events": [
			{"kind": "PlayerStatsEvent", "second": 10, "player": {"name": "Clem"},
			 "stats": {"minerals_collection_rate": 500, "vespene_collection_rate": 200}},
			{"kind": "UnitDiedEvent", "second": 40, "unit": {"name": "Marine", "owner": {"name": "Clem"}}}
		]
	}`

	d, err := ReadDump(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, d.Events, 2)
	assert.Equal(t, FactionTerran, d.Participants[0].Faction)
	assert.Equal(t, KindResourceSnapshot, d.Events[0].Kind)
	assert.Equal(t, 500.0, d.Events[0].Stats.MineralsCollectionRate)
	assert.Equal(t, "Marine", d.Events[1].UnitType())
}

func TestReadDumpErrors(t *testing.T) {
	_, err := ReadDump(strings.NewReader(`{"participants": [`))
	assert.Error(t, err)

	_, err = ReadDump(strings.NewReader(`{"participants": [], "events": []}`))
	assert.Error(t, err)

	_, err = ReadDump(strings.NewReader(`{"participants": [{"name": "Rogue", "faction": "Random"}], "events": []}`))
	assert.ErrorContains(t, err, "Random")
}
