package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/labreport/constants"
)

const yamlCatalog = `
version: clinic-7
no_precautions_message: Nothing to worry about.
rules:
  - analyte: hemoglobin
    display_name: Hemoglobin
    unit: g/dL
    low: 12
    high: 15.5
    aliases: ["Hemoglobin"]
    synonyms: ["Hb"]
    match_units: ["g/dL"]
    messages:
      low: "Hemoglobin is low ({reading})."
      normal: "Hemoglobin is normal ({reading})."
      high: "Hemoglobin is high ({reading})."
    precautions:
      low: Eat more spinach.
`

func TestParseJSON_RoundTripBuiltin(t *testing.T) {
	data, err := json.Marshal(Builtin())
	require.NoError(t, err)

	c, err := ParseJSON(data)
	require.NoError(t, err)

	assert.Equal(t, BuiltinVersion, c.Version())
	assert.Equal(t, DefaultNoPrecautions, c.NoPrecautionsMessage())
	assert.Equal(t, Builtin().Rules(), c.Rules())
}

func TestParseYAML(t *testing.T) {
	c, err := ParseYAML([]byte(yamlCatalog))
	require.NoError(t, err)

	assert.Equal(t, "clinic-7", c.Version())
	assert.Equal(t, "Nothing to worry about.", c.NoPrecautionsMessage())
	require.Equal(t, 1, c.Len())

	hb := c.Rule(0)
	assert.Equal(t, constants.Hemoglobin, hb.Analyte)
	assert.Equal(t, 12.0, *hb.Low)
	assert.Equal(t, 15.5, *hb.High)
	assert.Equal(t, "Eat more spinach.", hb.Precaution(constants.ClassLow, 11))
	assert.Empty(t, hb.Precaution(constants.ClassHigh, 16))
}

func TestParseJSON_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing version", `{"rules":[{"analyte":"a","low":1,"aliases":["A"],"messages":{"low":"l","normal":"n"}}]}`},
		{"no rules", `{"version":"v","rules":[]}`},
		{"unknown field", `{"version":"v","colour":"red","rules":[{"analyte":"a","low":1,"aliases":["A"],"messages":{"low":"l","normal":"n"}}]}`},
		{"no threshold", `{"version":"v","rules":[{"analyte":"a","aliases":["A"],"messages":{"normal":"n"}}]}`},
		{"low not a number", `{"version":"v","rules":[{"analyte":"a","low":"1","aliases":["A"],"messages":{"low":"l","normal":"n"}}]}`},
		{"not json", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseJSON([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestParseJSON_RuleValidation(t *testing.T) {
	// Schema-valid but semantically wrong: low exceeds high.
	doc := `{"version":"v","rules":[{"analyte":"a","low":5,"high":1,"aliases":["A"],"messages":{"low":"l","normal":"n","high":"h"}}]}`
	_, err := ParseJSON([]byte(doc))
	assert.ErrorContains(t, err, "exceeds high threshold")
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(yamlCatalog), 0o600))
	c, err := LoadFile(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "clinic-7", c.Version())

	data, err := json.Marshal(Builtin())
	require.NoError(t, err)
	jsonPath := filepath.Join(dir, "catalog.json")
	require.NoError(t, os.WriteFile(jsonPath, data, 0o600))
	c, err = LoadFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, 14, c.Len())

	_, err = LoadFile(filepath.Join(dir, "catalog.toml"))
	assert.Error(t, err)
}

func TestParseJSON_AnalyteIdentifiers(t *testing.T) {
	doc := `{"version":"v","rules":[
		{"analyte":"Platelet Count","low":150,"aliases":["Platelets"],"messages":{"low":"l","normal":"n"}},
		{"analyte":"ferritin","low":30,"aliases":["Ferritin"],"messages":{"low":"l","normal":"n"}}]}`

	c, err := ParseJSON([]byte(doc))
	require.NoError(t, err)
	_, ok := c.Lookup(constants.PlateletCount)
	assert.True(t, ok)
	_, ok = c.Lookup(constants.Analyte("ferritin"))
	assert.True(t, ok)
}
