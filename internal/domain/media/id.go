package media

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Media ids are version 7 UUIDs: the first 48 bits hold the creation time in
// unix milliseconds, so the id alone tells how old a record is and ids sort
// by creation time.

const maxUnixMilli = 1<<48 - 1

// NewID returns a fresh id stamped with at.
func NewID(at time.Time) (ID, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return uuid.Nil, fmt.Errorf("generate media id: %w", err)
	}
	stamp(&id, at)

	return id, nil
}

// CreatedAt decodes the creation instant embedded in id.
func CreatedAt(id ID) (time.Time, bool) {
	if id.Version() != 7 {
		return time.Time{}, false
	}

	return time.Unix(id.Time().UnixTime()), true
}

// IsExpired reports whether an id created at CreatedAt(id) has outlived ttl
// at now. Ids that carry no timestamp are always expired.
func IsExpired(id ID, ttl time.Duration, now time.Time) bool {
	created, ok := CreatedAt(id)
	if !ok {
		return true
	}

	return !now.Before(created.Add(ttl))
}

// ExpiryBoundary returns the smallest id stamped strictly after t. Every id
// created at or before t compares below it bytewise.
func ExpiryBoundary(t time.Time) ID {
	var id ID
	stamp(&id, t.Add(time.Millisecond))
	id[8] = 0x80

	return id
}

func stamp(id *ID, at time.Time) {
	ms := at.UnixMilli()
	if ms < 0 {
		ms = 0
	}
	if ms > maxUnixMilli {
		ms = maxUnixMilli
	}

	id[0] = byte(ms >> 40)
	id[1] = byte(ms >> 32)
	id[2] = byte(ms >> 24)
	id[3] = byte(ms >> 16)
	id[4] = byte(ms >> 8)
	id[5] = byte(ms)
	id[6] = id[6]&0x0f | 0x70
}
