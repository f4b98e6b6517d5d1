// Package notification implements portal-wide announcements and the
// unread badge counter.
package notification

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"ctrc/internal/domain/notification"
	appErrors "ctrc/internal/shared/errors"
	"ctrc/internal/shared/logger"
	"ctrc/internal/store"
)

const msgMissingFields = "Título e mensagem são obrigatórios"

// CreateCommand carries a new announcement.
type CreateCommand struct {
	Title   string
	Message string
}

type Service struct {
	store  store.TableStore
	ids    *store.Generator
	logger logger.Interface
}

func NewService(ctx context.Context, st store.TableStore, ids *store.Generator, log logger.Interface) (*Service, error) {
	if err := st.EnsureTable(ctx, notification.Table, notification.Header); err != nil {
		return nil, err
	}
	return &Service{store: st, ids: ids, logger: log}, nil
}

// Create publishes an announcement to every portal user.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*notification.Notification, error) {
	title := strings.TrimSpace(cmd.Title)
	message := strings.TrimSpace(cmd.Message)
	if title == "" || message == "" {
		return nil, appErrors.NewValidationError(msgMissingFields)
	}

	id, err := s.ids.Sequential(ctx, notification.Table)
	if err != nil {
		return nil, appErrors.WrapInternal(err, "Erro ao criar notificação")
	}

	record := notification.Notification{
		ID:        id,
		Title:     title,
		Message:   message,
		CreatedAt: store.FormatCellTime(time.Now()),
	}
	if err := s.store.Append(ctx, notification.Table, record.Row()); err != nil {
		return nil, appErrors.WrapInternal(err, "Erro ao criar notificação")
	}

	s.logger.Infow("notification published", "id", id, "title", title)
	return &record, nil
}

// List returns active announcements, newest id first. Soft-deactivated
// rows stay in the table but never surface here.
func (s *Service) List(ctx context.Context) ([]notification.Notification, error) {
	rows, err := s.store.ReadAll(ctx, notification.Table)
	if err != nil {
		return nil, appErrors.WrapInternal(err, "Erro ao listar notificações")
	}

	items := []notification.Notification{}
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if n, ok := notification.FromRow(row); ok {
			items = append(items, n)
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return numericID(items[i].ID) > numericID(items[j].ID)
	})
	return items, nil
}

// CountNew counts active announcements with a numeric id greater than
// the last one the caller has seen. A zero watermark counts everything.
func (s *Service) CountNew(ctx context.Context, lastSeenID int64) (int, error) {
	items, err := s.List(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, n := range items {
		if numericID(n.ID) > lastSeenID {
			count++
		}
	}
	return count, nil
}

// numericID treats non-numeric ids as zero, putting malformed rows at
// the bottom of listings and outside every unread window.
func numericID(id string) int64 {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
