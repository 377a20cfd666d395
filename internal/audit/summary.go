package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Filter restricts which entries Read returns. Zero values mean no bound.
type Filter struct {
	Source string
	From   time.Time
	To     time.Time
}

func (f Filter) match(e Entry) bool {
	if f.Source != "" && e.Source != f.Source {
		return false
	}
	if f.From.IsZero() && f.To.IsZero() {
		return true
	}
	ts, err := time.Parse(TimestampFormat, e.Timestamp)
	if err != nil {
		return false
	}
	if !f.From.IsZero() && ts.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && ts.After(f.To) {
		return false
	}
	return true
}

// Summary counts assessment outcomes in a log.
type Summary struct {
	Total    int            `json:"total"`
	Errors   int            `json:"errors"`
	ByLevel  map[string]int `json:"by_level"`
	AvgScore float64        `json:"avg_score"`
	First    string         `json:"first,omitempty"`
	Last     string         `json:"last,omitempty"`
}

// Read returns entries matching the filter, in file order. Malformed lines are skipped.
func Read(path string, filter Filter) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e Entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			continue
		}
		if filter.match(e) {
			entries = append(entries, e)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read audit log: %w", err)
	}
	return entries, nil
}

// Tail returns the last n entries of the log.
func Tail(path string, n int) ([]Entry, error) {
	entries, err := Read(path, Filter{})
	if err != nil {
		return nil, err
	}
	if n >= 0 && len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	return entries, nil
}

// Summarize aggregates entries. Errors are counted but excluded from the average.
func Summarize(entries []Entry) Summary {
	s := Summary{ByLevel: make(map[string]int)}
	scored := 0
	sum := 0
	for _, e := range entries {
		s.Total++
		if s.First == "" {
			s.First = e.Timestamp
		}
		s.Last = e.Timestamp
		if e.Error != "" {
			s.Errors++
			continue
		}
		s.ByLevel[e.Level]++
		sum += e.Score
		scored++
	}
	if scored > 0 {
		s.AvgScore = float64(sum) / float64(scored)
	}
	return s
}
