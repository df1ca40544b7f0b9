package report

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hemoglobinKey = "Interval\nSwasthFit Super 4\nCOMPLETE BLOOD COUNT;CBC\nHemoglobin"

func TestExtractResults_Hemoglobin(t *testing.T) {
	text := hemoglobinKey + " 11.2 g/dL 13.0-17.0"

	table := ExtractResults(text)

	require.Equal(t, 1, table.Len())
	rec, ok := table.Get(hemoglobinKey)
	require.True(t, ok)
	assert.Equal(t, TestRecord{Result: "11.2", Units: "g/dL", Interval: "13.0-17.0"}, rec)
}

func TestExtractResults_MultipleGroups(t *testing.T) {
	text := "RBC Count\n(Electrical Impedence) 4.8 mill/mm3 4.5 - 5.5\n" +
		"Platelet Count 140 thou/mm3 150-410\n" +
		"RDW 15.1 % <14.0\n"

	table := ExtractResults(text)

	assert.Equal(t, []string{"RBC Count\n(Electrical Impedence)", "Platelet Count", "RDW"}, table.Keys())

	rec, _ := table.Get("RBC Count\n(Electrical Impedence)")
	assert.Equal(t, TestRecord{Result: "4.8", Units: "mill/mm3", Interval: "4.5 - 5.5"}, rec)

	rec, _ = table.Get("Platelet Count")
	assert.Equal(t, TestRecord{Result: "140", Units: "thou/mm3", Interval: "150-410"}, rec)

	rec, _ = table.Get("RDW")
	assert.Equal(t, TestRecord{Result: "15.1", Units: "%", Interval: "<14.0"}, rec)
}

func TestExtractResults_LastWins(t *testing.T) {
	text := "Monocytes 0.4 thou/mm3 0.2-1.0\nMonocytes 0.9 thou/mm3 0.2-1.0\n"

	table := ExtractResults(text)

	require.Equal(t, 1, table.Len())
	rec, _ := table.Get("Monocytes")
	assert.Equal(t, "0.9", rec.Result)
}

func TestExtractResults_Empty(t *testing.T) {
	table := ExtractResults("")
	assert.Equal(t, 0, table.Len())

	b, err := json.Marshal(table)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(b))
}

func TestExtractResults_NoNumericLines(t *testing.T) {
	table := ExtractResults("This document has no measurements at all.")
	assert.Equal(t, 0, table.Len())
}

func TestExtractResults_Idempotent(t *testing.T) {
	text := "MCV 80.1 fL 83-101\nMCH 26.0 pg 27-32\n"
	assert.Equal(t, ExtractResults(text), ExtractResults(text))
}

func TestResultTable_JSONRoundTripKeepsOrder(t *testing.T) {
	table := NewResultTable()
	table.Set("Zeta", TestRecord{Result: "1"})
	table.Set("Alpha", TestRecord{Result: "2", Units: "%", Interval: "1-3"})

	b, err := json.Marshal(table)
	require.NoError(t, err)
	assert.Equal(t, `{"Zeta":{"Result":"1","Units":"","Bio. Ref. Interval":""},"Alpha":{"Result":"2","Units":"%","Bio. Ref. Interval":"1-3"}}`, string(b))

	var back ResultTable
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, []string{"Zeta", "Alpha"}, back.Keys())
}
