package replay

import "fmt"

// Kind names an event type as emitted by the replay decoder.
type Kind string

// Event kinds consumed by the aggregator. Any other kind is ignored.
const (
	KindResourceSnapshot    Kind = "PlayerStatsEvent"
	KindUpgradeComplete     Kind = "UpgradeCompleteEvent"
	KindUnitBorn            Kind = "UnitBornEvent"
	KindUnitTypeChanged     Kind = "UnitTypeChangeEvent"
	KindConstructionOrdered Kind = "BasicCommandEvent"
	KindUnitInitiated       Kind = "UnitInitEvent"
	KindUnitCompleted       Kind = "UnitDoneEvent"
	KindUnitDied            Kind = "UnitDiedEvent"
)

// Faction is a participant's race.
type Faction string

const (
	FactionTerran  Faction = "Terran"
	FactionProtoss Faction = "Protoss"
	FactionZerg    Faction = "Zerg"
	FactionRandom  Faction = "Random"
)

// Played reports whether f is a race a participant can actually play in a
// match. Random is a lobby choice the decoder resolves to one of these.
func (f Faction) Played() bool {
	switch f {
	case FactionTerran, FactionProtoss, FactionZerg:
		return true
	}
	return false
}

// SpawnsFromContainers reports whether the faction's units hatch from eggs
// rather than being initiated in place.
func (f Faction) SpawnsFromContainers() bool {
	return f == FactionZerg
}

// Participant is one side of a match. Names are unique per match and Faction
// is the race actually played, never Random.
type Participant struct {
	Name    string  `json:"name"`
	Faction Faction `json:"faction"`
}

// ValidateParticipants checks that every participant has a name and a played
// race.
func ValidateParticipants(participants []Participant) error {
	for i, p := range participants {
		if p.Name == "" {
			return fmt.Errorf("participant %d: empty name", i)
		}
		if !p.Faction.Played() {
			return fmt.Errorf("participant %q: faction %q is not a played race", p.Name, p.Faction)
		}
	}
	return nil
}

// PlayerRef points at the player an event belongs to.
type PlayerRef struct {
	Name string `json:"name"`
}

// UnitRef is the unit an event is about. Name is the unit's type at the time
// of the event.
type UnitRef struct {
	Name  string     `json:"name"`
	Owner *PlayerRef `json:"owner,omitempty"`
}

// ResourceStats are the counters carried by a resource snapshot.
type ResourceStats struct {
	MineralsCurrent               float64 `json:"minerals_current"`
	VespeneCurrent                float64 `json:"vespene_current"`
	MineralsCollectionRate        float64 `json:"minerals_collection_rate"`
	VespeneCollectionRate         float64 `json:"vespene_collection_rate"`
	MineralsUsedCurrentArmy       float64 `json:"minerals_used_current_army"`
	VespeneUsedCurrentArmy        float64 `json:"vespene_used_current_army"`
	MineralsUsedCurrentEconomy    float64 `json:"minerals_used_current_economy"`
	VespeneUsedCurrentEconomy     float64 `json:"vespene_used_current_economy"`
	MineralsUsedCurrentTechnology float64 `json:"minerals_used_current_technology"`
	VespeneUsedCurrentTechnology  float64 `json:"vespene_used_current_technology"`
	WorkersActiveCount            float64 `json:"workers_active_count"`
	FoodUsed                      float64 `json:"food_used"`
	FoodMade                      float64 `json:"food_made"`
}

// Event is one decoded replay event. Only the fields relevant to Kind are set:
//   - PlayerStatsEvent: Player, Stats
//   - BasicCommandEvent: Player, AbilityName
//   - UnitBornEvent: Unit (owner), UnitTypeName (born type)
//   - UnitTypeChangeEvent: Unit (old type), UnitTypeName (new type)
//   - UnitInitEvent, UnitDoneEvent, UnitDiedEvent: Unit
type Event struct {
	Kind         Kind           `json:"kind"`
	Second       int            `json:"second"`
	Player       *PlayerRef     `json:"player,omitempty"`
	Unit         *UnitRef       `json:"unit,omitempty"`
	UnitTypeName string         `json:"unit_type_name,omitempty"`
	AbilityName  string         `json:"ability_name,omitempty"`
	Stats        *ResourceStats `json:"stats,omitempty"`
}

// Owner resolves the participant an event belongs to: the direct player
// reference when present, otherwise the subject unit's owner.
func (e Event) Owner() (string, bool) {
	if e.Player != nil && e.Player.Name != "" {
		return e.Player.Name, true
	}
	if e.Unit != nil && e.Unit.Owner != nil && e.Unit.Owner.Name != "" {
		return e.Unit.Owner.Name, true
	}
	return "", false
}

// UnitType returns the subject unit's type, empty when there is no unit.
func (e Event) UnitType() string {
	if e.Unit == nil {
		return ""
	}
	return e.Unit.Name
}
