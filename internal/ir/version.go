package ir

// Version constants for records and the engine.
const (
	// RecordVersion is the schema version of journal records.
	RecordVersion = "1"

	// EngineVersion is the seqraph engine version.
	EngineVersion = "0.1.0"
)
