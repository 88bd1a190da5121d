package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Swordopolis/sc2-replay-analyzer/internal/logging"
)

const dump = `{
  "participants": [
    {"name": "Clem", "faction": "Terran"},
    {"name": "Serral", "faction": "Zerg"}
  ],
  "events": [
    {"kind": "PlayerStatsEvent", "second": 10, "player": {"name": "Clem"},
     "stats": {"minerals_collection_rate": 500, "vespene_collection_rate": 200}},
    {"kind": "PlayerStatsEvent", "second": 10, "player": {"name": "Serral"},
     "stats": {"minerals_collection_rate": 450}},
    {"kind": "BasicCommandEvent", "second": 12, "player": {"name": "Clem"}, "ability_name": "TrainMarine"},
    {"kind": "UnitBornEvent", "second": 20, "unit": {"name": "Drone", "owner": {"name": "Serral"}}, "unit_type_name": "Drone"},
    {"kind": "UnitDiedEvent", "second": 40, "unit": {"name": "Marine", "owner": {"name": "Clem"}}}
  ]
}`

func TestRunPrintsReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "replay.json")
	require.NoError(t, os.WriteFile(path, []byte(dump), 0o600))

	var out bytes.Buffer
	require.NoError(t, run(path, 2, &out, logging.Nop()))

	var got report
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Len(t, got.Participants, 2)
	assert.Equal(t, 1.0, got.Participants[0].PeakSupply["Marine"])
	assert.Equal(t, 1.0, got.Participants[1].PeakSupply["Drone"])
	require.Len(t, got.Panels, 9)
	assert.Equal(t, "collection_rates", got.Panels[0].Key)
	assert.Equal(t, []float64{700}, got.Panels[0].Lines[0].Values)
}

func TestRunReportsBadInput(t *testing.T) {
	dir := t.TempDir()

	assert.Error(t, run(filepath.Join(dir, "missing.json"), 1, &bytes.Buffer{}, logging.Nop()))

	path := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"participants": []}`), 0o600))
	assert.Error(t, run(path, 1, &bytes.Buffer{}, logging.Nop()))
}
