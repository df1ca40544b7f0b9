package constants

import (
	"strings"
)

// Analyte is the canonical identifier of a measured blood component.
type Analyte string

const (
	Hemoglobin           Analyte = "hemoglobin"
	RBCCount             Analyte = "rbc_count"
	TotalLeukocyteCount  Analyte = "total_leukocyte_count"
	PlateletCount        Analyte = "platelet_count"
	SegmentedNeutrophils Analyte = "segmented_neutrophils"
	PackedCellVolume     Analyte = "packed_cell_volume"
	MCV                  Analyte = "mcv"
	MCH                  Analyte = "mch"
	MCHC                 Analyte = "mchc"
	RDW                  Analyte = "rdw"
	Lymphocytes          Analyte = "lymphocytes"
	Monocytes            Analyte = "monocytes"
	Eosinophils          Analyte = "eosinophils"
	Basophils            Analyte = "basophils"
)

var allAnalytes = []Analyte{
	Hemoglobin,
	RBCCount,
	TotalLeukocyteCount,
	PlateletCount,
	SegmentedNeutrophils,
	PackedCellVolume,
	MCV,
	MCH,
	MCHC,
	RDW,
	Lymphocytes,
	Monocytes,
	Eosinophils,
	Basophils,
}

// Analytes returns the CBC analytes in report order.
func Analytes() []Analyte {
	out := make([]Analyte, len(allAnalytes))
	copy(out, allAnalytes)
	return out
}

// ParseAnalyte accepts an analyte identifier in any case, with spaces or underscores.
func ParseAnalyte(input string) (Analyte, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	normalized = strings.ReplaceAll(normalized, " ", "_")
	if normalized == "" {
		return "", false
	}
	for _, a := range allAnalytes {
		if normalized == string(a) {
			return a, true
		}
	}
	return "", false
}
