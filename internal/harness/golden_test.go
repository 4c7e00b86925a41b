package harness

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden_Lookup(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/abcd_lookup.yaml")
	require.NoError(t, err)

	require.NoError(t, RunWithGolden(t, scenario))
}

func TestMarshalSnapshot(t *testing.T) {
	result := NewResult()
	result.RunID = "run-1"
	result.Trace = sampleTrace()
	result.Trace[1].Output = json.RawMessage(`{"found":true}`)
	result.Trace[1].Hash = "deadbeef"

	data, err := MarshalSnapshot("sample", result)
	require.NoError(t, err)

	assert.Equal(t, byte('\n'), data[len(data)-1])
	assert.NotContains(t, string(data), "deadbeef", "hashes stay out of golden files")

	var back TraceSnapshot
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, "sample", back.ScenarioName)
	assert.Equal(t, "run-1", back.RunID)
	require.Len(t, back.Trace, 4)
	assert.JSONEq(t, `{"found":true}`, string(back.Trace[1].Output))
	assert.Equal(t, "GRAPH_ERROR: split", back.Trace[2].Error)
}
