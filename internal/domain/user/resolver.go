package user

import (
	"context"

	"ctrc/internal/store"
)

// Resolver turns user references into canonical user records and owns
// the lenient ownership predicate used by ticket visibility and
// pending counts. Every lookup is a fresh scan of the LOGIN table;
// there is no cache by design.
type Resolver struct {
	store store.TableStore
}

func NewResolver(st store.TableStore) *Resolver {
	return &Resolver{store: st}
}

// Resolve finds the user a reference points at: id column when the
// reference carries the id prefix, login column otherwise. A miss is
// (nil, nil) — callers in the matching path must stay lenient.
func (r *Resolver) Resolve(ctx context.Context, ref string) (*User, error) {
	parsed := ParseRef(ref)
	if parsed.Value == "" {
		return nil, nil
	}

	rows, err := r.store.ReadAll(ctx, Table)
	if err != nil {
		return nil, err
	}

	for _, row := range rows[min(1, len(rows)):] {
		u, ok := FromRow(row)
		if !ok {
			continue
		}
		switch parsed.Kind {
		case RefByID:
			if u.ID == parsed.Value {
				return &u, nil
			}
		default:
			if u.Login == parsed.Value {
				return &u, nil
			}
		}
	}

	return nil, nil
}

// TicketOwnerMatches decides whether a stored owner reference belongs
// to the caller. Admins match unconditionally. Otherwise the caller is
// resolved and the stored value is accepted if it equals the resolved
// id, the resolved display name, or the raw caller reference verbatim.
// All three checks are required: each covers a different schema
// generation of ticket rows, and dropping one makes that generation's
// tickets invisible to their owners.
func (r *Resolver) TicketOwnerMatches(ctx context.Context, storedOwner, callerRef string, isAdmin bool) bool {
	if isAdmin {
		return true
	}
	if callerRef == "" {
		return false
	}

	u, err := r.Resolve(ctx, callerRef)
	if err != nil {
		return false
	}
	return OwnerMatchesUser(storedOwner, callerRef, u)
}

// OwnerMatchesUser is the resolve-free core of TicketOwnerMatches,
// for callers that already resolved the user once and are filtering
// many rows. resolved may be nil when the reference matched no record;
// the verbatim check still applies then.
func OwnerMatchesUser(storedOwner, callerRef string, resolved *User) bool {
	if resolved != nil {
		if resolved.ID != "" && storedOwner == resolved.ID {
			return true
		}
		if resolved.Name != "" && storedOwner == resolved.Name {
			return true
		}
	}
	// legacy rows stored the login (or the id the caller passed) as-is
	return storedOwner == callerRef
}
