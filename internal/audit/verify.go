package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
)

// VerifyResult holds the outcome of a hash chain verification.
type VerifyResult struct {
	Valid     bool   `json:"valid"`
	Lines     int    `json:"lines"`
	Error     string `json:"error,omitempty"`
	ErrorLine int    `json:"error_line,omitempty"`
}

func broken(line int, format string, args ...any) VerifyResult {
	return VerifyResult{ErrorLine: line, Error: fmt.Sprintf(format, args...)}
}

// Verify walks a JSONL audit log and checks that every prev_hash links to
// the line before it (the first to GenesisHash). It reports the first broken link.
func Verify(path string) VerifyResult {
	f, err := os.Open(path)
	if err != nil {
		return VerifyResult{Error: fmt.Sprintf("open: %v", err)}
	}
	defer f.Close()

	expected := GenesisHash
	n := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		n++
		line := scanner.Bytes()

		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			return broken(n, "parse error: %v", err)
		}
		if entry.PrevHash != expected {
			if n == 1 {
				return broken(n, "first entry prev_hash is %q, expected genesis hash", entry.PrevHash)
			}
			return broken(n, "hash mismatch: expected %s, got %s", expected, entry.PrevHash)
		}
		expected = HashLine(line)
	}
	if err := scanner.Err(); err != nil {
		return VerifyResult{Error: fmt.Sprintf("scan: %v", err)}
	}

	return VerifyResult{Valid: true, Lines: n}
}
