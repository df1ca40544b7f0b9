package constants

// Basic-info field names, in the order they are reported.
const (
	FieldName          = "Name"
	FieldLabNo         = "Lab No."
	FieldAge           = "Age"
	FieldRefBy         = "Ref By"
	FieldGender        = "Gender"
	FieldCollected     = "Collected"
	FieldCollectedTime = "Collected Time"
	FieldReported      = "Reported"
	FieldReportedTime  = "Reported Time"
	FieldAcStatus      = "A/c Status"
	FieldReportStatus  = "Report Status"
	FieldCollectedAt   = "Collected at"
	FieldProcessedAt   = "Processed at"
)

// Result table record keys, as serialized.
const (
	RecordResult   = "Result"
	RecordUnits    = "Units"
	RecordInterval = "Bio. Ref. Interval"
)

// PageMarkerFormat separates recognized pages in the report text.
const PageMarkerFormat = "\n\n--- Page %d ---\n\n"
