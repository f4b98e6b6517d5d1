// Package ticket implements the support ticket workflow: creation,
// listing scoped by ownership, status changes, comments and the
// pending-work counter.
package ticket

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ctrc/internal/domain/ticket"
	"ctrc/internal/domain/user"
	appErrors "ctrc/internal/shared/errors"
	"ctrc/internal/shared/logger"
	"ctrc/internal/store"
)

const (
	msgMissingFields     = "Preencha todos os campos obrigatórios"
	msgTicketNotFound    = "Ticket não encontrado"
	msgInvalidStatus     = "Status inválido"
	msgMissingCommentTxt = "Comentário não pode ser vazio"
)

// CreateCommand carries a new ticket request. Owner is whatever
// reference the caller authenticated with; it is resolved to a display
// name before the row is written.
type CreateCommand struct {
	Owner       string
	Kind        string
	Subject     string
	Description string
	Priority    string
}

// CreateResult reports the generated canonical id and display code of
// a freshly created ticket.
type CreateResult struct {
	ID   string `json:"id"`
	Code string `json:"code"`
}

type Service struct {
	store    store.TableStore
	ids      *store.Generator
	resolver *user.Resolver
	logger   logger.Interface
}

func NewService(ctx context.Context, st store.TableStore, ids *store.Generator, resolver *user.Resolver, log logger.Interface) (*Service, error) {
	if err := st.EnsureTable(ctx, ticket.Table, ticket.Header); err != nil {
		return nil, err
	}
	if err := st.EnsureTable(ctx, ticket.CommentsTable, ticket.CommentsHeader); err != nil {
		return nil, err
	}
	return &Service{store: st, ids: ids, resolver: resolver, logger: log}, nil
}

// Create opens a new ticket. The id and the display code come from two
// independent counters: the id from the key column, the code from the
// CODIGO column. They usually agree but nothing re-synchronizes them.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*CreateResult, error) {
	if strings.TrimSpace(cmd.Subject) == "" || strings.TrimSpace(cmd.Description) == "" {
		return nil, appErrors.NewValidationError(msgMissingFields)
	}

	kind := ticket.Kind(strings.ToLower(strings.TrimSpace(cmd.Kind)))
	if !kind.IsValid() {
		kind = ticket.KindIncident
	}
	priority := ticket.Priority(strings.ToLower(strings.TrimSpace(cmd.Priority)))
	if !priority.IsValid() {
		priority = ticket.PriorityMedium
	}

	owner := strings.TrimSpace(cmd.Owner)
	if resolved, err := s.resolver.Resolve(ctx, owner); err == nil && resolved != nil {
		owner = resolved.DisplayName()
	}

	id, err := s.ids.Sequential(ctx, ticket.Table)
	if err != nil {
		return nil, appErrors.WrapInternal(err, "Erro ao criar ticket")
	}
	codeSeq, err := s.ids.SequentialColumn(ctx, ticket.Table, ticket.ColCode)
	if err != nil {
		return nil, appErrors.WrapInternal(err, "Erro ao criar ticket")
	}
	code := formatCode(codeSeq)

	now := store.FormatCellTime(time.Now())
	record := ticket.Ticket{
		ID:          id,
		Code:        code,
		Kind:        kind.String(),
		Subject:     strings.TrimSpace(cmd.Subject),
		Description: strings.TrimSpace(cmd.Description),
		Priority:    priority.String(),
		Owner:       owner,
		Status:      ticket.StatusOpen.String(),
		UpdatedAt:   now,
		CreatedAt:   now,
	}
	if err := s.store.Append(ctx, ticket.Table, record.Row()); err != nil {
		return nil, appErrors.WrapInternal(err, "Erro ao criar ticket")
	}

	s.logger.Infow("ticket created", "id", id, "code", code, "owner", owner)
	return &CreateResult{ID: id, Code: code}, nil
}

// List returns the tickets visible to the caller: everything for an
// admin, own tickets otherwise. The caller is resolved once and each
// row's owner cell is matched against all of its known encodings. Each
// returned ticket carries the text of its newest comment.
func (s *Service) List(ctx context.Context, callerRef string, isAdmin bool) ([]ticket.Ticket, error) {
	rows, err := s.store.ReadAll(ctx, ticket.Table)
	if err != nil {
		return nil, appErrors.WrapInternal(err, "Erro ao listar tickets")
	}

	callerRef = strings.TrimSpace(callerRef)
	var caller *user.User
	if !isAdmin && callerRef != "" {
		caller, err = s.resolver.Resolve(ctx, callerRef)
		if err != nil {
			return nil, appErrors.WrapInternal(err, "Erro ao listar tickets")
		}
	}

	tickets := []ticket.Ticket{}
	for i, row := range rows {
		if i == 0 {
			continue
		}
		t, ok := ticket.FromRow(row)
		if !ok {
			continue
		}
		if !isAdmin && !user.OwnerMatchesUser(t.Owner, callerRef, caller) {
			continue
		}
		tickets = append(tickets, t)
	}

	latest, err := s.latestCommentTexts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tickets {
		tickets[i].LastComment = latest[tickets[i].ID]
	}
	return tickets, nil
}

// SetStatus rewrites the status cell of a ticket and bumps its update
// timestamp. Any known status value is accepted from any other; the
// workflow has no transition rules.
func (s *Service) SetStatus(ctx context.Context, id, status string) error {
	next := ticket.Status(strings.ToLower(strings.TrimSpace(status)))
	if !next.IsValid() {
		return appErrors.NewValidationError(msgInvalidStatus)
	}

	rowIdx, err := s.findRow(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.WriteCell(ctx, ticket.Table, rowIdx, ticket.ColStatus, next.String()); err != nil {
		return appErrors.WrapInternal(err, "Erro ao atualizar ticket")
	}
	if err := s.store.WriteCell(ctx, ticket.Table, rowIdx, ticket.ColUpdatedAt, store.FormatCellTime(time.Now())); err != nil {
		return appErrors.WrapInternal(err, "Erro ao atualizar ticket")
	}

	s.logger.Infow("ticket status changed", "id", id, "status", next.String())
	return nil
}

// AddComment appends a comment to a ticket and bumps the ticket's
// update timestamp so it rises in recency-ordered views.
func (s *Service) AddComment(ctx context.Context, ticketID, author, text string) (*ticket.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, appErrors.NewValidationError(msgMissingCommentTxt)
	}

	rowIdx, err := s.findRow(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	id, err := s.ids.Sequential(ctx, ticket.CommentsTable)
	if err != nil {
		return nil, appErrors.WrapInternal(err, "Erro ao comentar ticket")
	}

	comment := ticket.Comment{
		ID:        id,
		TicketID:  store.NormalizeID(strings.TrimSpace(ticketID)),
		Author:    strings.TrimSpace(author),
		Text:      strings.TrimSpace(text),
		CreatedAt: store.FormatCellTime(time.Now()),
	}
	if err := s.store.Append(ctx, ticket.CommentsTable, comment.Row()); err != nil {
		return nil, appErrors.WrapInternal(err, "Erro ao comentar ticket")
	}

	if err := s.store.WriteCell(ctx, ticket.Table, rowIdx, ticket.ColUpdatedAt, comment.CreatedAt); err != nil {
		return nil, appErrors.WrapInternal(err, "Erro ao comentar ticket")
	}

	s.logger.Infow("ticket comment added", "ticket_id", comment.TicketID, "comment_id", id)
	return &comment, nil
}

// ListComments returns a ticket's comments oldest first.
func (s *Service) ListComments(ctx context.Context, ticketID string) ([]ticket.Comment, error) {
	rows, err := s.store.ReadAll(ctx, ticket.CommentsTable)
	if err != nil {
		return nil, appErrors.WrapInternal(err, "Erro ao listar comentários")
	}

	want := store.NormalizeID(strings.TrimSpace(ticketID))
	comments := []ticket.Comment{}
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if c, ok := ticket.CommentFromRow(row); ok && c.TicketID == want {
			comments = append(comments, c)
		}
	}

	ticket.SortCommentsAsc(comments)
	return comments, nil
}

// CountPending counts the tickets demanding the caller's attention.
// Admins count every open or in-progress ticket; regular users count
// their own tickets that moved to in-progress or resolved. Closed
// tickets never count for anyone.
func (s *Service) CountPending(ctx context.Context, callerRef string, isAdmin bool) (int, error) {
	rows, err := s.store.ReadAll(ctx, ticket.Table)
	if err != nil {
		return 0, appErrors.WrapInternal(err, "Erro ao contar tickets")
	}

	callerRef = strings.TrimSpace(callerRef)
	var caller *user.User
	if !isAdmin && callerRef != "" {
		caller, err = s.resolver.Resolve(ctx, callerRef)
		if err != nil {
			return 0, appErrors.WrapInternal(err, "Erro ao contar tickets")
		}
	}

	count := 0
	for i, row := range rows {
		if i == 0 {
			continue
		}
		t, ok := ticket.FromRow(row)
		if !ok {
			continue
		}
		status := ticket.Status(strings.ToLower(strings.TrimSpace(t.Status)))

		if isAdmin {
			if status == ticket.StatusOpen || status == ticket.StatusInProgress {
				count++
			}
			continue
		}
		if callerRef == "" || !user.OwnerMatchesUser(t.Owner, callerRef, caller) {
			continue
		}
		if status == ticket.StatusInProgress || status == ticket.StatusResolved {
			count++
		}
	}
	return count, nil
}

// formatCode renders the display code as "#" plus the sequential
// number zero-padded to four digits. Numbers past 9999 keep all their
// digits.
func formatCode(seq string) string {
	if n, err := strconv.Atoi(seq); err == nil {
		return fmt.Sprintf("#%04d", n)
	}
	return "#" + seq
}

func (s *Service) findRow(ctx context.Context, id string) (int, error) {
	rows, err := s.store.ReadAll(ctx, ticket.Table)
	if err != nil {
		return 0, appErrors.WrapInternal(err, "Erro ao buscar ticket")
	}

	want := store.NormalizeID(strings.TrimSpace(id))
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if store.NormalizeID(store.Cell(row, ticket.ColID)) == want && want != "" {
			return i, nil
		}
	}
	return 0, appErrors.NewNotFoundError(msgTicketNotFound)
}

func (s *Service) latestCommentTexts(ctx context.Context) (map[string]string, error) {
	rows, err := s.store.ReadAll(ctx, ticket.CommentsTable)
	if err != nil {
		return nil, appErrors.WrapInternal(err, "Erro ao listar comentários")
	}

	comments := make([]ticket.Comment, 0, len(rows))
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if c, ok := ticket.CommentFromRow(row); ok {
			comments = append(comments, c)
		}
	}
	return ticket.LatestCommentTexts(comments), nil
}
