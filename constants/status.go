package constants

// Classification is the outcome of comparing a result against a reference range.
type Classification string

// Stable values (also written to exports).
const (
	ClassLow     Classification = "LOW"
	ClassNormal  Classification = "NORMAL"
	ClassHigh    Classification = "HIGH"
	ClassInvalid Classification = "INVALID" // result did not parse as a number
)
