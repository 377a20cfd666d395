package audit

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ppiankov/churnwatch/internal/model"
	"github.com/ppiankov/churnwatch/internal/scoring"
)

// GenesisHash is the prev_hash for the first entry in a new audit log.
const GenesisHash = "sha256:0000000000000000000000000000000000000000000000000000000000000000"

// Log is an append-only JSONL audit log with SHA-256 hash chaining.
// Each entry's prev_hash is the hash of the previous entry's JSON line,
// forming a tamper-evident chain.
type Log struct {
	path     string
	file     *os.File
	prevHash string
	mu       sync.Mutex
}

// Open opens (or creates) an audit log file for appending.
// If the file already exists, it reads the last line to recover the chain tail.
func Open(path string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("audit: create directory: %w", err)
	}

	prevHash, err := chainTail(path)
	if err != nil {
		return nil, err
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("audit: open file: %w", err)
	}

	return &Log{path: path, file: file, prevHash: prevHash}, nil
}

func chainTail(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		return GenesisHash, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("audit: read existing log: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	var last []byte
	for scanner.Scan() {
		last = append(last[:0], scanner.Bytes()...)
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("audit: scan existing log: %w", err)
	}
	if len(last) == 0 {
		return GenesisHash, nil
	}
	return HashLine(last), nil
}

// Record appends an Entry with hash chaining.
// It fills PrevHash, and Timestamp and AssessmentID when empty, then syncs to disk.
func (l *Log) Record(entry Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format(TimestampFormat)
	}
	if entry.AssessmentID == "" {
		entry.AssessmentID = uuid.NewString()
	}
	entry.PrevHash = l.prevHash

	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("audit: marshal entry: %w", err)
	}
	if _, err := l.file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("audit: write entry: %w", err)
	}
	if err := l.file.Sync(); err != nil {
		return fmt.Errorf("audit: sync: %w", err)
	}

	l.prevHash = HashLine(line)
	return nil
}

// Path returns the file the log appends to.
func (l *Log) Path() string { return l.path }

// Close flushes and closes the underlying file.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}

// HashLine returns "sha256:<hex>" of the given bytes.
func HashLine(line []byte) string {
	h := sha256.Sum256(line)
	return "sha256:" + hex.EncodeToString(h[:])
}

// EntryFor builds the audit entry for one assessment outcome.
// The profile is only used for its digest and may be nil when input never parsed.
// Errors are recorded as field and kind only, never with the input value.
func EntryFor(source string, profile *model.CustomerProfile, res scoring.Result, weightsHash string) Entry {
	e := Entry{
		Source:      source,
		WeightsHash: weightsHash,
	}
	if profile != nil {
		e.InputDigest = profile.Digest()
	}
	if res.OK() {
		e.Score = res.Report.RiskScore
		e.Level = string(res.Report.RiskLevel)
		if e.InputDigest == "" {
			e.InputDigest = res.Report.Profile.Digest()
		}
	} else if res.Err != nil {
		e.Error = scoring.RedactedError(res.Err)
	}
	return e
}
