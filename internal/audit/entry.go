package audit

// TimestampFormat is the layout used in audit entry timestamps.
const TimestampFormat = "2006-01-02T15:04:05.000Z"

// Entry is one line in the hash-chained JSONL audit log.
// It records the outcome of an assessment and a digest of its input, never
// the customer attributes themselves. All fields are scalars to guarantee
// deterministic json.Marshal field order for reproducible hashing.
type Entry struct {
	Timestamp    string `json:"ts"`
	AssessmentID string `json:"assessment_id"`
	Source       string `json:"source"`
	InputDigest  string `json:"input_digest,omitempty"`
	Score        int    `json:"score"`
	Level        string `json:"level,omitempty"`
	Error        string `json:"error,omitempty"`
	WeightsHash  string `json:"weights_hash"`
	PrevHash     string `json:"prev_hash"`
}
