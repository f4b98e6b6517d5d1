// Package ticket holds ticket and comment records with their row
// codecs over the TICKETS and TICKET_COMENTARIOS tables.
package ticket

import (
	"strings"

	"ctrc/internal/store"
)

// Table is the sheet holding ticket records. Header at row 0.
const Table = "TICKETS"

var Header = []string{"ID", "CODIGO", "TIPO", "ASSUNTO", "DESCRICAO", "PRIORIDADE", "USUARIO", "STATUS", "DATA", "DATA_ABERTURA"}

const (
	ColID = iota
	ColCode
	ColKind
	ColSubject
	ColDescription
	ColPriority
	ColOwner
	ColStatus
	ColUpdatedAt
	ColCreatedAt
)

type Status string

const (
	StatusOpen       Status = "aberto"
	StatusInProgress Status = "andamento"
	StatusResolved   Status = "resolvido"
	StatusClosed     Status = "fechado"
)

var validStatuses = map[Status]bool{
	StatusOpen:       true,
	StatusInProgress: true,
	StatusResolved:   true,
	StatusClosed:     true,
}

func (s Status) String() string { return string(s) }

func (s Status) IsValid() bool { return validStatuses[s] }

type Kind string

const (
	KindIncident   Kind = "ocorrencia"
	KindSuggestion Kind = "sugestao"
)

func (k Kind) String() string { return string(k) }

func (k Kind) IsValid() bool {
	return k == KindIncident || k == KindSuggestion
}

type Priority string

const (
	PriorityLow    Priority = "baixa"
	PriorityMedium Priority = "media"
	PriorityHigh   Priority = "alta"
)

func (p Priority) String() string { return string(p) }

func (p Priority) IsValid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Ticket is a ticket record. ID is the canonical key; Code is the
// human-facing "#NNNN" display code drawn from an independent counter.
// Owner keeps whatever encoding the row was written with (login, id or
// display name); all ownership checks go through the user resolver.
// Timestamps stay as raw cell strings: historical rows carry formats
// the portal displays verbatim rather than reinterpreting.
type Ticket struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Kind        string `json:"kind"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Owner       string `json:"owner"`
	Status      string `json:"status"`
	UpdatedAt   string `json:"updated_at"`
	CreatedAt   string `json:"created_at"`
	LastComment string `json:"last_comment,omitempty"`
}

// FromRow decodes a TICKETS row. Rows with a blank key cell report
// ok=false.
func FromRow(row []string) (Ticket, bool) {
	id := store.NormalizeID(store.Cell(row, ColID))
	if id == "" {
		return Ticket{}, false
	}
	return Ticket{
		ID:          id,
		Code:        store.Cell(row, ColCode),
		Kind:        store.Cell(row, ColKind),
		Subject:     store.Cell(row, ColSubject),
		Description: store.Cell(row, ColDescription),
		Priority:    store.Cell(row, ColPriority),
		Owner:       strings.TrimSpace(store.Cell(row, ColOwner)),
		Status:      store.Cell(row, ColStatus),
		UpdatedAt:   store.Cell(row, ColUpdatedAt),
		CreatedAt:   store.Cell(row, ColCreatedAt),
	}, true
}

// Row encodes the record for appending to the TICKETS table.
func (t Ticket) Row() []string {
	return []string{
		t.ID,
		t.Code,
		t.Kind,
		t.Subject,
		t.Description,
		t.Priority,
		t.Owner,
		t.Status,
		t.UpdatedAt,
		t.CreatedAt,
	}
}
