package catalog

import (
	"github.com/joseph-ayodele/labreport/constants"
)

// BuiltinVersion identifies the reference table compiled into the binary.
const BuiltinVersion = "cbc-2024.1"

// ptr is a helper to create pointers to float64 literals
func ptr(f float64) *float64 {
	return &f
}

// BuiltinRules returns the CBC reference rules compiled into the binary.
// Aliases are the literal analyte blocks observed in SwasthFit CBC panels; keep them
// byte-for-byte, line breaks included.
func BuiltinRules() []Rule {
	return []Rule{
		// ===== HEMOGLOBIN (g/dL) =====
		{
			Analyte: constants.Hemoglobin, DisplayName: "Hemoglobin", Unit: "g/dL",
			Low: ptr(13.0), High: ptr(17.0),
			Aliases:    []string{"Interval\nSwasthFit Super 4\nCOMPLETE BLOOD COUNT;CBC\nHemoglobin"},
			Synonyms:   []string{"Hemoglobin", "Haemoglobin", "Hb", "HGB"},
			MatchUnits: []string{"g/dL", "gm/dL", "g/dl"},
			Messages: Messages{
				Low:    "Hemoglobin is low ({reading}). Possible anemia.",
				Normal: "Hemoglobin is normal ({reading}).",
				High:   "Hemoglobin is high ({reading}). Possible dehydration or other conditions.",
			},
			Precautions: Precautions{
				Low:  "Consider iron-rich foods or supplements. Consult a doctor if fatigue persists.",
				High: "Ensure adequate hydration. Consult a doctor to rule out underlying conditions.",
			},
		},

		// ===== RED BLOOD CELLS (mill/mm3) =====
		{
			Analyte: constants.RBCCount, DisplayName: "RBC Count", Unit: "mill/mm3",
			Low: ptr(4.5), High: ptr(5.5),
			Aliases:    []string{"RBC Count\n(Electrical Impedence)", "(Calculated)\nRBC Count"},
			Synonyms:   []string{"RBC Count", "Red Blood Cell Count", "Total RBC Count"},
			MatchUnits: []string{"mill/mm3", "million/cumm", "mill/cumm"},
			Messages: Messages{
				Low:    "RBC count is low ({reading}). Could indicate anemia or other issues.",
				Normal: "RBC count is normal ({reading}).",
				High:   "RBC count is high ({reading}). Could indicate dehydration or polycythemia.",
			},
			Precautions: Precautions{
				Low:  "Increase intake of iron and vitamin B12. Consult a healthcare provider.",
				High: "Stay hydrated. Consult a doctor if experiencing headaches or dizziness.",
			},
		},

		// ===== TOTAL LEUKOCYTE COUNT (thou/mm3) =====
		{
			Analyte: constants.TotalLeukocyteCount, DisplayName: "Total Leukocyte Count", Unit: "thou/mm3",
			Low: ptr(4.0), High: ptr(10.0),
			Aliases: []string{
				"Total Leukocyte Count (TLC)\n(Electrical Impedence)",
				"(Electrical Impedence)\nTotal Leukocyte Count (TLC)",
			},
			Synonyms:   []string{"Total Leukocyte Count", "Total Leucocyte Count", "TLC", "WBC Count"},
			MatchUnits: []string{"thou/mm3", "thou/cumm"},
			Messages: Messages{
				Low:    "Total Leukocyte Count is low ({reading}). This could indicate a weakened immune system.",
				Normal: "Total Leukocyte Count is normal ({reading}).",
				High:   "Total Leukocyte Count is high ({reading}). This could indicate an infection.",
			},
			Precautions: Precautions{
				Low:  "Avoid exposure to infections. Maintain a healthy diet to support the immune system.",
				High: "Consult a doctor to check for possible infections or inflammation.",
			},
		},

		// ===== PLATELETS (thou/mm3) =====
		{
			Analyte: constants.PlateletCount, DisplayName: "Platelet Count", Unit: "thou/mm3",
			Low: ptr(150.0), High: ptr(410.0),
			Aliases:    []string{"Platelet Count\n(Electrical impedence)", "Platelet Count"},
			Synonyms:   []string{"Platelet Count", "Platelets"},
			MatchUnits: []string{"thou/mm3", "thou/cumm"},
			Messages: Messages{
				Low:    "Platelet count is low ({reading}). Risk of bleeding or bruising.",
				Normal: "Platelet count is normal ({reading}).",
				High:   "Platelet count is high ({reading}). Risk of clotting issues.",
			},
			Precautions: Precautions{
				Low:  "Avoid activities that may cause bruising or injury. Consult a doctor if symptoms worsen.",
				High: "Stay hydrated and avoid smoking. Consult a doctor to monitor blood clotting risk.",
			},
		},

		// ===== SEGMENTED NEUTROPHILS (%) =====
		{
			Analyte: constants.SegmentedNeutrophils, DisplayName: "Segmented Neutrophils", Unit: "%",
			Low: ptr(40.0), High: ptr(80.0),
			Aliases: []string{
				"Differential Leucocyte Count (DLC)\n(VCS Technology)\nSegmented Neutrophils",
				"(Electrical Impedence)\nDifferential Leucocyte Count (DLC)\n(VCS Technology)\nSegmented Neutrophils",
			},
			Synonyms:   []string{"Segmented Neutrophils", "Neutrophils"},
			MatchUnits: []string{"%"},
			Messages: Messages{
				Low:    "Segmented Neutrophils are low ({reading}). Could indicate neutropenia or a viral infection.",
				Normal: "Segmented Neutrophils are normal ({reading}).",
				High:   "Segmented Neutrophils are high ({reading}). Could indicate a bacterial infection.",
			},
			Precautions: Precautions{
				Low:  "Monitor for signs of infection. Consult a doctor for possible neutropenia.",
				High: "Consult a doctor to check for bacterial infections or other inflammatory conditions.",
			},
		},

		// ===== PACKED CELL VOLUME (%) =====
		{
			Analyte: constants.PackedCellVolume, DisplayName: "Packed Cell Volume (PCV)", Unit: "%",
			Low: ptr(40.0), High: ptr(50.0),
			Aliases:    []string{"(Photometry)\nPacked Cell Volume (PCV)"},
			Synonyms:   []string{"Packed Cell Volume", "PCV", "Hematocrit", "HCT"},
			MatchUnits: []string{"%"},
			Messages: Messages{
				Low:    "Packed Cell Volume (PCV) is low ({reading}). Could indicate anemia.",
				Normal: "Packed Cell Volume (PCV) is normal ({reading}).",
				High:   "Packed Cell Volume (PCV) is high ({reading}). Could indicate dehydration.",
			},
			Precautions: Precautions{
				Low:  "Increase intake of iron-rich foods. Monitor for signs of anemia.",
				High: "Ensure proper hydration and consult a doctor if symptoms of dehydration occur.",
			},
		},

		// ===== MCV (fL) =====
		{
			Analyte: constants.MCV, DisplayName: "MCV", Unit: "fL",
			Low: ptr(83.0), High: ptr(101.0),
			Aliases:    []string{"(Electrical Impedence)\nMCV"},
			Synonyms:   []string{"MCV", "Mean Corpuscular Volume"},
			MatchUnits: []string{"fL"},
			Messages: Messages{
				Low:    "MCV is low ({reading}). Could indicate microcytic anemia.",
				Normal: "MCV is normal ({reading}).",
				High:   "MCV is high ({reading}). Could indicate macrocytic anemia.",
			},
			Precautions: Precautions{
				Low:  "Consider iron and vitamin B6 supplements. Monitor for signs of microcytic anemia.",
				High: "Increase intake of folic acid and vitamin B12. Consult a doctor for possible macrocytic anemia.",
			},
		},

		// ===== MCH (pg) =====
		{
			Analyte: constants.MCH, DisplayName: "MCH", Unit: "pg",
			Low: ptr(27.0), High: ptr(32.0),
			Aliases:    []string{"(Electrical Impedence)\nMCH"},
			Synonyms:   []string{"MCH", "Mean Corpuscular Hemoglobin"},
			MatchUnits: []string{"pg"},
			Messages: Messages{
				Low:    "MCH is low ({reading}). Could indicate hypochromic anemia.",
				Normal: "MCH is normal ({reading}).",
				High:   "MCH is high ({reading}). Could indicate macrocytic anemia.",
			},
			Precautions: Precautions{
				Low:  "Consider iron-rich foods and supplements. Monitor for signs of anemia.",
				High: "Consult a doctor for possible macrocytic anemia. Ensure adequate vitamin B12 intake.",
			},
		},

		// ===== MCHC (g/dL) =====
		{
			Analyte: constants.MCHC, DisplayName: "MCHC", Unit: "g/dL",
			Low: ptr(31.5), High: ptr(34.5),
			Aliases:    []string{"(Calculated)\nMCHC"},
			Synonyms:   []string{"MCHC", "Mean Corpuscular Hemoglobin Concentration"},
			MatchUnits: []string{"g/dL", "gm/dL"},
			Messages: Messages{
				Low:    "MCHC is low ({reading}). Could indicate hypochromic anemia.",
				Normal: "MCHC is normal ({reading}).",
				High:   "MCHC is high ({reading}). Could indicate hereditary spherocytosis.",
			},
			Precautions: Precautions{
				Low:  "Increase intake of iron-rich foods. Monitor for signs of anemia.",
				High: "Consult a doctor for possible hereditary conditions like spherocytosis.",
			},
		},

		// ===== RDW (%) =====
		// Upper bound only.
		{
			Analyte: constants.RDW, DisplayName: "RDW", Unit: "%",
			High:       ptr(14.0),
			Aliases:    []string{"(Calculated)\nRed Cell Distribution Width (RDW)"},
			Synonyms:   []string{"Red Cell Distribution Width", "RDW", "RDW-CV"},
			MatchUnits: []string{"%"},
			Messages: Messages{
				Normal: "RDW is normal ({reading}).",
				High:   "RDW is high ({reading}). Could indicate mixed anemia or iron deficiency.",
			},
			Precautions: Precautions{
				High: "Consider iron or vitamin B12 supplements. Consult a doctor for mixed anemia possibilities.",
			},
		},

		// ===== LYMPHOCYTES (thou/mm3) =====
		{
			Analyte: constants.Lymphocytes, DisplayName: "Lymphocytes", Unit: "thou/mm3",
			Low: ptr(1.0), High: ptr(3.0),
			Aliases:    []string{"Lymphocytes"},
			Synonyms:   []string{"Lymphocytes"},
			MatchUnits: []string{"thou/mm3", "thou/cumm"},
			Messages: Messages{
				Low:    "Lymphocytes are low ({reading}). Could indicate a compromised immune system.",
				Normal: "Lymphocytes are normal ({reading}).",
				High:   "Lymphocytes are high ({reading}). Could indicate a viral infection or lymphoma.",
			},
			Precautions: Precautions{
				Low:  "Monitor for signs of a weakened immune system. Consult a doctor for further evaluation.",
				High: "Consult a doctor for possible viral infections or lymphoproliferative disorders.",
			},
		},

		// ===== MONOCYTES (thou/mm3) =====
		{
			Analyte: constants.Monocytes, DisplayName: "Monocytes", Unit: "thou/mm3",
			Low: ptr(0.20), High: ptr(1.00),
			Aliases:    []string{"Monocytes"},
			Synonyms:   []string{"Monocytes"},
			MatchUnits: []string{"thou/mm3", "thou/cumm"},
			Messages: Messages{
				Low:    "Monocytes count is low ({reading}). This could indicate a potential issue with the immune system.",
				Normal: "Monocytes count is normal ({reading}).",
				High:   "Monocytes count is high ({reading}). This could indicate chronic inflammation or infection.",
			},
			Precautions: Precautions{
				Low:  "Monitor for signs of infection. Consult a doctor if symptoms persist.",
				High: "Consult a doctor to rule out chronic inflammation or infection.",
			},
		},

		// ===== EOSINOPHILS (thou/mm3) =====
		{
			Analyte: constants.Eosinophils, DisplayName: "Eosinophils", Unit: "thou/mm3",
			Low: ptr(0.02), High: ptr(0.50),
			Aliases:    []string{"Eosinophils"},
			Synonyms:   []string{"Eosinophils"},
			MatchUnits: []string{"thou/mm3", "thou/cumm"},
			Messages: Messages{
				Low:    "Eosinophils count is low ({reading}). This could be a sign of an immune deficiency.",
				Normal: "Eosinophils count is normal ({reading}).",
				High:   "Eosinophils count is high ({reading}). This may indicate an allergic reaction or parasitic infection.",
			},
			Precautions: Precautions{
				Low:  "Consult a doctor if symptoms like shortness of breath or skin rashes occur.",
				High: "Consider allergy testing. Consult a doctor for possible parasitic infections or allergic conditions.",
			},
		},

		// ===== BASOPHILS (thou/mm3) =====
		{
			Analyte: constants.Basophils, DisplayName: "Basophils", Unit: "thou/mm3",
			Low: ptr(0.02), High: ptr(0.10),
			Aliases:    []string{"Basophils"},
			Synonyms:   []string{"Basophils"},
			MatchUnits: []string{"thou/mm3", "thou/cumm"},
			Messages: Messages{
				Low:    "Basophils count is low ({reading}). This may suggest a possible allergic reaction or immune deficiency.",
				Normal: "Basophils count is normal ({reading}).",
				High:   "Basophils count is high ({reading}). This could indicate chronic inflammation or an allergic condition.",
			},
			Precautions: Precautions{
				Low:  "Consult a doctor if experiencing signs of an allergic reaction or immune deficiency.",
				High: "Consult a doctor to rule out possible allergic reactions or chronic inflammation.",
			},
		},
	}
}

// Builtin returns the compiled-in catalog.
func Builtin() *Catalog {
	c, err := New(BuiltinVersion, BuiltinRules())
	if err != nil {
		panic("catalog: invalid builtin rules: " + err.Error())
	}
	return c
}
