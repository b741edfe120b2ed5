package media

import (
	"github.com/google/uuid"
)

type (
	// ClaimFilter selects the single record a claim may transition. Every
	// field must match for the record to be claimed.
	ClaimFilter struct {
		ID     ID
		Format Format
		Status Status
		Owner  uuid.UUID
	}

	// ClaimTarget is one media a claimant wants, with the format it expects.
	ClaimTarget struct {
		ID     ID
		Format Format
	}
)

// WaitingFor builds the filter that claims id as format on behalf of owner.
func WaitingFor(id ID, format Format, owner uuid.UUID) ClaimFilter {
	return ClaimFilter{
		ID:     id,
		Format: format,
		Status: StatusWaiting,
		Owner:  owner,
	}
}

// Filters turns targets into claim filters for owner.
func Filters(targets []ClaimTarget, owner uuid.UUID) []ClaimFilter {
	out := make([]ClaimFilter, len(targets))
	for idx, t := range targets {
		out[idx] = WaitingFor(t.ID, t.Format, owner)
	}

	return out
}

// HasDuplicates reports whether the same id appears more than once.
func HasDuplicates(targets []ClaimTarget) bool {
	seen := make(map[ID]struct{}, len(targets))
	for _, t := range targets {
		if _, ok := seen[t.ID]; ok {
			return true
		}
		seen[t.ID] = struct{}{}
	}

	return false
}
