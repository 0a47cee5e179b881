package scoreboard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidRecord is returned when a record is missing required fields.
var ErrInvalidRecord = errors.New("invalid score record")

// Record is one completed run.
type Record struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"session_id"`
	ConfigName  string    `json:"config_name"`
	Size        int       `json:"size"`
	Score       int       `json:"score"`
	Moves       int       `json:"moves"`
	ElapsedMs   int64     `json:"elapsed_ms"`
	CompletedAt time.Time `json:"completed_at"`
}

// NewRecord builds a record for a run that just finished.
func NewRecord(sessionID, configName string, size, score, moves int, elapsed time.Duration) Record {
	return Record{
		ID:          uuid.NewString(),
		SessionID:   sessionID,
		ConfigName:  configName,
		Size:        size,
		Score:       score,
		Moves:       moves,
		ElapsedMs:   elapsed.Milliseconds(),
		CompletedAt: time.Now().UTC(),
	}
}

// Validate checks the fields every store relies on.
func (r Record) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidRecord)
	}
	if r.Size < 1 {
		return fmt.Errorf("%w: size must be positive, got %d", ErrInvalidRecord, r.Size)
	}
	if r.ElapsedMs < 0 {
		return fmt.Errorf("%w: negative elapsed time", ErrInvalidRecord)
	}
	return nil
}

// Store persists records and returns the best ones per maze size.
type Store interface {
	Add(ctx context.Context, rec Record) error
	Top(ctx context.Context, size, limit int) ([]Record, error)
	Close() error
}

// rank orders records best first: higher score, then shorter time, then
// earlier completion.
func rank(recs []Record) {
	sort.SliceStable(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.ElapsedMs != b.ElapsedMs {
			return a.ElapsedMs < b.ElapsedMs
		}
		return a.CompletedAt.Before(b.CompletedAt)
	})
}
