package catalog

import "strings"

// Cost is the price of one unit: minerals, vespene and the supply it occupies.
type Cost struct {
	Minerals float64
	Vespene  float64
	Supply   float64
}

// Alias maps a fragment of a production ability name to the canonical unit
// type it produces. Fragments carry the production verb ("TrainZealot" also
// matches "WarpGateTrainZealot") so toggles, hallucinations and in-place
// transforms that merely mention a unit name never resolve.
type Alias struct {
	Fragment string
	Unit     string
}

// Archon is the merged unit produced by two templars.
const Archon = "Archon"

// costs holds every unit type whose supply is tracked.
// Zerglings and Banelings come in pairs from one egg, so each counts half a supply.
var costs = map[string]Cost{
	// Terran
	"SCV":           {50, 0, 1},
	"Marine":        {50, 0, 1},
	"Marauder":      {100, 25, 2},
	"Reaper":        {50, 50, 1},
	"Ghost":         {150, 125, 2},
	"Hellion":       {100, 0, 2},
	"HellionTank":   {100, 0, 2},
	"WidowMine":     {75, 25, 2},
	"SiegeTank":     {150, 125, 3},
	"Cyclone":       {125, 50, 3},
	"Thor":          {300, 200, 6},
	"VikingFighter": {150, 75, 2},
	"Medivac":       {100, 100, 2},
	"Liberator":     {150, 125, 3},
	"Raven":         {100, 150, 2},
	"Banshee":       {150, 100, 3},
	"Battlecruiser": {400, 300, 6},

	// Protoss
	"Probe":       {50, 0, 1},
	"Zealot":      {100, 0, 2},
	"Stalker":     {125, 50, 2},
	"Sentry":      {50, 100, 2},
	"Adept":       {100, 25, 2},
	"HighTemplar": {50, 150, 2},
	"DarkTemplar": {125, 125, 2},
	"Archon":      {175, 275, 4},
	"Immortal":    {275, 100, 4},
	"Colossus":    {300, 200, 6},
	"Disruptor":   {150, 150, 3},
	"Observer":    {25, 75, 1},
	"WarpPrism":   {250, 0, 2},
	"Phoenix":     {150, 100, 2},
	"VoidRay":     {250, 150, 4},
	"Oracle":      {150, 150, 3},
	"Tempest":     {250, 175, 5},
	"Carrier":     {350, 250, 6},
	"Mothership":  {400, 400, 8},

	// Zerg
	"Larva":       {0, 0, 0},
	"Drone":       {50, 0, 1},
	"Overlord":    {100, 0, 0},
	"Overseer":    {150, 50, 0},
	"Queen":       {150, 0, 2},
	"Zergling":    {25, 0, 0.5},
	"Baneling":    {50, 25, 0.5},
	"Roach":       {75, 25, 2},
	"Ravager":     {100, 100, 3},
	"Hydralisk":   {100, 50, 2},
	"LurkerMP":    {150, 150, 3},
	"Infestor":    {100, 150, 2},
	"SwarmHostMP": {100, 75, 3},
	"Ultralisk":   {275, 200, 6},
	"Mutalisk":    {100, 100, 2},
	"Corruptor":   {150, 100, 2},
	"BroodLord":   {300, 250, 4},
	"Viper":       {100, 200, 3},
}

// aliases is scanned in order and the first match wins, so fragments that are
// substrings of other fragments ("TrainHellion" inside "TrainHellionTank")
// come last. MorphToHellion and MorphToHellionTank transform an existing unit
// and have no entry. Zerg larva production is counted on birth,
// so only morphs from an existing unit and the Queen appear here.
var aliases = []Alias{
	// Terran
	{"TrainSCV", "SCV"},
	{"TrainMarine", "Marine"},
	{"TrainMarauder", "Marauder"},
	{"TrainReaper", "Reaper"},
	{"TrainGhost", "Ghost"},
	{"TrainHellbat", "HellionTank"},
	{"BuildHellbat", "HellionTank"},
	{"TrainHellionTank", "HellionTank"},
	{"BuildHellionTank", "HellionTank"},
	{"TrainHellion", "Hellion"},
	{"BuildHellion", "Hellion"},
	{"TrainWidowMine", "WidowMine"},
	{"BuildWidowMine", "WidowMine"},
	{"TrainSiegeTank", "SiegeTank"},
	{"BuildSiegeTank", "SiegeTank"},
	{"TrainCyclone", "Cyclone"},
	{"BuildCyclone", "Cyclone"},
	{"TrainThor", "Thor"},
	{"BuildThor", "Thor"},
	{"TrainViking", "VikingFighter"},
	{"BuildViking", "VikingFighter"},
	{"TrainMedivac", "Medivac"},
	{"BuildMedivac", "Medivac"},
	{"TrainLiberator", "Liberator"},
	{"BuildLiberator", "Liberator"},
	{"TrainRaven", "Raven"},
	{"BuildRaven", "Raven"},
	{"TrainBanshee", "Banshee"},
	{"BuildBanshee", "Banshee"},
	{"TrainBattlecruiser", "Battlecruiser"},
	{"BuildBattlecruiser", "Battlecruiser"},

	// Protoss
	{"TrainProbe", "Probe"},
	{"TrainZealot", "Zealot"},
	{"WarpInZealot", "Zealot"},
	{"TrainStalker", "Stalker"},
	{"WarpInStalker", "Stalker"},
	{"TrainSentry", "Sentry"},
	{"WarpInSentry", "Sentry"},
	{"TrainAdept", "Adept"},
	{"WarpInAdept", "Adept"},
	{"TrainHighTemplar", "HighTemplar"},
	{"WarpInHighTemplar", "HighTemplar"},
	{"TrainDarkTemplar", "DarkTemplar"},
	{"WarpInDarkTemplar", "DarkTemplar"},
	{"TrainImmortal", "Immortal"},
	{"TrainColossus", "Colossus"},
	{"TrainDisruptor", "Disruptor"},
	{"TrainObserver", "Observer"},
	{"TrainWarpPrism", "WarpPrism"},
	{"TrainPhoenix", "Phoenix"},
	{"TrainVoidRay", "VoidRay"},
	{"TrainOracle", "Oracle"},
	{"TrainTempest", "Tempest"},
	{"TrainCarrier", "Carrier"},
	{"TrainMothership", "Mothership"},

	// Zerg
	{"TrainQueen", "Queen"},
	{"MorphToBroodLord", "BroodLord"},
	{"MorphToRavager", "Ravager"},
	{"MorphToLurker", "LurkerMP"},
	{"MorphToOverseer", "Overseer"},
	{"MorphToBaneling", "Baneling"},
	{"TrainBaneling", "Baneling"},
}

// incubatorMarkers identify unit types that hold a unit while it morphs (eggs).
var incubatorMarkers = []string{"Egg"}

// mergeSources are the caster types that are consumed when merging into an Archon.
var mergeSources = map[string]bool{
	"HighTemplar": true,
	"DarkTemplar": true,
}

// Catalog answers cost and alias lookups over static unit data.
// The zero value is not usable; call Default or New.
type Catalog struct {
	costs      map[string]Cost
	aliases    []Alias
	incubators []string
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return New(costs, aliases)
}

// New builds a catalog over custom tables. Aliases keep the given order.
func New(unitCosts map[string]Cost, morphAliases []Alias) *Catalog {
	c := &Catalog{
		costs:      make(map[string]Cost, len(unitCosts)),
		aliases:    append([]Alias(nil), morphAliases...),
		incubators: incubatorMarkers,
	}
	for unit, cost := range unitCosts {
		c.costs[unit] = cost
	}
	return c
}

// Tracked reports whether supply investment is tracked for the unit type.
func (c *Catalog) Tracked(unit string) bool {
	_, ok := c.costs[unit]
	return ok
}

// Cost returns the unit's cost, or the zero Cost for unknown types.
func (c *Catalog) Cost(unit string) Cost {
	return c.costs[unit]
}

// Supply returns the unit's supply cost, 0 for unknown types.
func (c *Catalog) Supply(unit string) float64 {
	return c.costs[unit].Supply
}

// ResolveAbility returns the tracked unit type produced by a construction
// ability: the first alias whose fragment occurs in the ability name and whose
// unit is tracked.
func (c *Catalog) ResolveAbility(ability string) (string, bool) {
	if ability == "" {
		return "", false
	}
	for _, a := range c.aliases {
		if strings.Contains(ability, a.Fragment) && c.Tracked(a.Unit) {
			return a.Unit, true
		}
	}
	return "", false
}

// IsIncubator reports whether a unit type name denotes an incubation container.
func (c *Catalog) IsIncubator(unit string) bool {
	for _, marker := range c.incubators {
		if strings.Contains(unit, marker) {
			return true
		}
	}
	return false
}

// IsMerge reports whether changing from oldType to newType consumes oldType
// into a merged unit.
func (c *Catalog) IsMerge(oldType, newType string) bool {
	return newType == Archon && mergeSources[oldType]
}
