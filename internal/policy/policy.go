// Package policy holds the pure domain rules for content mutation:
// ownership plus a time-boxed edit window, and toggle-set membership.
// It performs no I/O; services translate its errors into API errors.
package policy

import (
	"errors"
	"time"
)

// EditWindow is how long after creation the owner may still edit an
// entity. Poems and stories share the same window.
const EditWindow = 10 * time.Minute

var (
	// ErrNotOwner means the caller does not own the entity.
	ErrNotOwner = errors.New("caller is not the owner")
	// ErrWindowExpired means the edit window has elapsed.
	ErrWindowExpired = errors.New("edit window has expired")
)

// CanMutate reports whether callerID may edit an entity owned by ownerID
// that was created at createdAt. The window boundary is inclusive: a
// mutation at exactly createdAt+window succeeds.
func CanMutate(ownerID, callerID uint, createdAt time.Time, window time.Duration, now time.Time) error {
	if ownerID != callerID {
		return ErrNotOwner
	}
	if now.Sub(createdAt) > window {
		return ErrWindowExpired
	}
	return nil
}

// Toggle removes member from set if present (preserving order of the
// rest), otherwise appends it. The second return reports whether the
// member was added. Applying Toggle twice with the same member returns
// the original set.
func Toggle[T comparable](set []T, member T) ([]T, bool) {
	for i, m := range set {
		if m == member {
			out := make([]T, 0, len(set)-1)
			out = append(out, set[:i]...)
			out = append(out, set[i+1:]...)
			return out, false
		}
	}
	out := make([]T, 0, len(set)+1)
	out = append(out, set...)
	out = append(out, member)
	return out, true
}
