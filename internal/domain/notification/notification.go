// Package notification holds the system notification record and its
// row codec over the NOTIFICACOES table.
package notification

import (
	"strings"

	"ctrc/internal/store"
)

// Table is the sheet holding notifications. Header at row 0.
const Table = "NOTIFICACOES"

var Header = []string{"ID", "TITULO", "MENSAGEM", "DATA", "ATIVO"}

const (
	ColID = iota
	ColTitle
	ColMessage
	ColCreatedAt
	ColActive
)

// ActiveValue marks a visible notification. A blank cell also counts
// as active (historical rows predate the column); anything else hides
// the record. No operation ever flips the flag, so records are
// effectively immutable once created.
const ActiveValue = "sim"

type Notification struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
}

// FromRow decodes a NOTIFICACOES row, reporting ok=false for rows with
// a blank key cell or an inactive flag.
func FromRow(row []string) (Notification, bool) {
	id := store.NormalizeID(store.Cell(row, ColID))
	if id == "" {
		return Notification{}, false
	}
	active := strings.ToLower(store.Cell(row, ColActive))
	if active != "" && active != ActiveValue {
		return Notification{}, false
	}
	return Notification{
		ID:        id,
		Title:     store.Cell(row, ColTitle),
		Message:   store.Cell(row, ColMessage),
		CreatedAt: store.Cell(row, ColCreatedAt),
	}, true
}

// Row encodes the record for appending.
func (n Notification) Row() []string {
	return []string{n.ID, n.Title, n.Message, n.CreatedAt, ActiveValue}
}
