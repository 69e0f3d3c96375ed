package record

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

func zeroTime() time.Time { return time.Time{} }

func unixTime(sec int64) time.Time { return time.Unix(sec, 0).UTC() }

func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.UUID{}, nil
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("record: invalid uuid field %q: %w", s, err)
	}
	return u, nil
}
