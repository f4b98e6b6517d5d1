package ticket

import (
	"sort"

	"ctrc/internal/store"
)

// CommentsTable is the sheet holding ticket comments. Header at row 0.
const CommentsTable = "TICKET_COMENTARIOS"

var CommentsHeader = []string{"ID", "TICKET_ID", "USUARIO", "TEXTO", "DATA"}

const (
	CommentColID = iota
	CommentColTicketID
	CommentColAuthor
	CommentColText
	CommentColCreatedAt
)

// Comment is a ticket comment. Author keeps the raw value supplied by
// the caller; comments are never the subject of ownership checks.
type Comment struct {
	ID        string `json:"id"`
	TicketID  string `json:"ticket_id"`
	Author    string `json:"author"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
}

// CommentFromRow decodes a TICKET_COMENTARIOS row.
func CommentFromRow(row []string) (Comment, bool) {
	id := store.NormalizeID(store.Cell(row, CommentColID))
	if id == "" {
		return Comment{}, false
	}
	return Comment{
		ID:        id,
		TicketID:  store.NormalizeID(store.Cell(row, CommentColTicketID)),
		Author:    store.Cell(row, CommentColAuthor),
		Text:      store.Cell(row, CommentColText),
		CreatedAt: store.Cell(row, CommentColCreatedAt),
	}, true
}

// Row encodes the comment for appending.
func (c Comment) Row() []string {
	return []string{c.ID, c.TicketID, c.Author, c.Text, c.CreatedAt}
}

// SortCommentsAsc orders comments by creation time, oldest first.
// Unparseable dates sort before everything else, keeping malformed
// historical rows visible at the top instead of dropping them.
func SortCommentsAsc(comments []Comment) {
	sort.SliceStable(comments, func(i, j int) bool {
		ti, okI := store.ParseCellTime(comments[i].CreatedAt)
		tj, okJ := store.ParseCellTime(comments[j].CreatedAt)
		if !okI || !okJ {
			return !okI && okJ
		}
		return ti.Before(tj)
	})
}

// LatestCommentTexts derives the newest comment text per ticket id by
// max creation time, the source of the "last comment" column in ticket
// listings.
func LatestCommentTexts(comments []Comment) map[string]string {
	type latest struct {
		text string
		at   int64
	}
	byTicket := make(map[string]latest)
	for _, c := range comments {
		ts := int64(0)
		if t, ok := store.ParseCellTime(c.CreatedAt); ok {
			ts = t.UnixMilli()
		}
		// ties go to the later row; rows append in creation order
		if cur, ok := byTicket[c.TicketID]; !ok || ts >= cur.at {
			byTicket[c.TicketID] = latest{text: c.Text, at: ts}
		}
	}

	out := make(map[string]string, len(byTicket))
	for id, l := range byTicket {
		out[id] = l.text
	}
	return out
}
