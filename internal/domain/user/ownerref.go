package user

import "strings"

// RefKind tags the encoding of a user reference. Ticket rows written
// across three schema versions store the raw login, the generated id,
// or the display name in the same column; only the id form is
// lexically recognizable, so the sniff classifies everything else as a
// login on the caller side and leaves stored values opaque.
type RefKind int

const (
	RefByLogin RefKind = iota
	RefByID
	RefByName
)

func (k RefKind) String() string {
	switch k {
	case RefByID:
		return "id"
	case RefByName:
		return "name"
	default:
		return "login"
	}
}

// OwnerRef is a classified user reference.
type OwnerRef struct {
	Kind  RefKind
	Value string
}

// ParseRef classifies a caller-supplied reference with the id-prefix
// sniff. It never yields RefByName: names only appear on the stored
// side, written by creation-time normalization.
func ParseRef(raw string) OwnerRef {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, IDPrefix) {
		return OwnerRef{Kind: RefByID, Value: raw}
	}
	return OwnerRef{Kind: RefByLogin, Value: raw}
}
