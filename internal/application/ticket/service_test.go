package ticket

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainTicket "ctrc/internal/domain/ticket"
	domainUser "ctrc/internal/domain/user"
	appErrors "ctrc/internal/shared/errors"
	"ctrc/internal/shared/logger"
	"ctrc/internal/store"
	"ctrc/internal/store/memory"
)

func newTestService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	ctx := context.Background()
	st := memory.NewStore()

	require.NoError(t, st.EnsureTable(ctx, domainUser.Table, domainUser.Header))
	users := [][]string{
		{"USER_1755000000000_4821", "maria", "segredo1", "Maria Silva", "maria@ctrc.local", "user", "ativo", "false"},
		{"2", "joao", "123", "João Souza", "joao@ctrc.local", "admin", "ativo", "false"},
	}
	for _, row := range users {
		require.NoError(t, st.Append(ctx, domainUser.Table, row))
	}

	svc, err := NewService(ctx, st, store.NewGenerator(st), domainUser.NewResolver(st), logger.NewLogger())
	require.NoError(t, err)
	return svc, st
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("stores resolved display name and defaults", func(t *testing.T) {
		svc, st := newTestService(t)

		result, err := svc.Create(ctx, CreateCommand{
			Owner:       "maria",
			Subject:     "Atraso na entrega",
			Description: "CTRC 4411 parado há três dias",
		})
		require.NoError(t, err)
		assert.Equal(t, "1", result.ID)
		assert.Equal(t, "#0001", result.Code)

		rows, err := st.ReadAll(ctx, domainTicket.Table)
		require.NoError(t, err)
		created, ok := domainTicket.FromRow(rows[1])
		require.True(t, ok)

		assert.Equal(t, "Maria Silva", created.Owner)
		assert.Equal(t, "ocorrencia", created.Kind)
		assert.Equal(t, "media", created.Priority)
		assert.Equal(t, "aberto", created.Status)
		assert.NotEmpty(t, created.CreatedAt)
		assert.Equal(t, created.CreatedAt, created.UpdatedAt)
	})

	t.Run("unresolvable owner kept verbatim", func(t *testing.T) {
		svc, st := newTestService(t)

		_, err := svc.Create(ctx, CreateCommand{
			Owner:       "fantasma",
			Subject:     "s",
			Description: "d",
		})
		require.NoError(t, err)

		rows, _ := st.ReadAll(ctx, domainTicket.Table)
		created, _ := domainTicket.FromRow(rows[1])
		assert.Equal(t, "fantasma", created.Owner)
	})

	t.Run("sequential ids and codes", func(t *testing.T) {
		svc, _ := newTestService(t)

		first, err := svc.Create(ctx, CreateCommand{Owner: "maria", Subject: "a", Description: "b"})
		require.NoError(t, err)
		second, err := svc.Create(ctx, CreateCommand{Owner: "maria", Subject: "c", Description: "d"})
		require.NoError(t, err)

		assert.Equal(t, "1", first.ID)
		assert.Equal(t, "2", second.ID)
		assert.Equal(t, "#0002", second.Code)
	})

	t.Run("missing required fields", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.Create(ctx, CreateCommand{Owner: "maria", Subject: "  ", Description: "d"})
		require.Error(t, err)
		assert.Equal(t, "Preencha todos os campos obrigatórios", appErrors.GetAppError(err).Message)
	})

	t.Run("invalid kind and priority fall back to defaults", func(t *testing.T) {
		svc, st := newTestService(t)

		_, err := svc.Create(ctx, CreateCommand{
			Owner:       "maria",
			Kind:        "reclamação",
			Priority:    "urgentíssima",
			Subject:     "s",
			Description: "d",
		})
		require.NoError(t, err)

		rows, _ := st.ReadAll(ctx, domainTicket.Table)
		created, _ := domainTicket.FromRow(rows[1])
		assert.Equal(t, "ocorrencia", created.Kind)
		assert.Equal(t, "media", created.Priority)
	})
}

func TestListVisibility(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Create(ctx, CreateCommand{Owner: "maria", Subject: "da maria", Description: "d"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateCommand{Owner: "joao", Subject: "do joao", Description: "d"})
	require.NoError(t, err)

	t.Run("admin sees everything", func(t *testing.T) {
		tickets, err := svc.List(ctx, "joao", true)
		require.NoError(t, err)
		assert.Len(t, tickets, 2)
	})

	t.Run("user sees own tickets only", func(t *testing.T) {
		tickets, err := svc.List(ctx, "maria", false)
		require.NoError(t, err)
		require.Len(t, tickets, 1)
		assert.Equal(t, "da maria", tickets[0].Subject)
	})

	t.Run("owner matches through any encoding", func(t *testing.T) {
		tickets, err := svc.List(ctx, "USER_1755000000000_4821", false)
		require.NoError(t, err)
		assert.Len(t, tickets, 1)
	})

	t.Run("stranger sees nothing", func(t *testing.T) {
		tickets, err := svc.List(ctx, "carlos", false)
		require.NoError(t, err)
		assert.Empty(t, tickets)
	})
}

func TestListCarriesLastComment(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	result, err := svc.Create(ctx, CreateCommand{Owner: "maria", Subject: "s", Description: "d"})
	require.NoError(t, err)

	_, err = svc.AddComment(ctx, result.ID, "Maria Silva", "primeiro comentário")
	require.NoError(t, err)
	_, err = svc.AddComment(ctx, result.ID, "João Souza", "resposta final")
	require.NoError(t, err)

	tickets, err := svc.List(ctx, "maria", false)
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, "resposta final", tickets[0].LastComment)
}

func TestSetStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("rewrites status and bumps timestamp", func(t *testing.T) {
		svc, st := newTestService(t)
		result, err := svc.Create(ctx, CreateCommand{Owner: "maria", Subject: "s", Description: "d"})
		require.NoError(t, err)

		require.NoError(t, svc.SetStatus(ctx, result.ID, "resolvido"))

		rows, _ := st.ReadAll(ctx, domainTicket.Table)
		updated, _ := domainTicket.FromRow(rows[1])
		assert.Equal(t, "resolvido", updated.Status)
	})

	t.Run("any transition allowed", func(t *testing.T) {
		svc, _ := newTestService(t)
		result, err := svc.Create(ctx, CreateCommand{Owner: "maria", Subject: "s", Description: "d"})
		require.NoError(t, err)

		require.NoError(t, svc.SetStatus(ctx, result.ID, "fechado"))
		assert.NoError(t, svc.SetStatus(ctx, result.ID, "aberto"), "reopening a closed ticket is allowed")
	})

	t.Run("unknown status", func(t *testing.T) {
		svc, _ := newTestService(t)

		err := svc.SetStatus(ctx, "1", "pendente")
		require.Error(t, err)
		assert.Equal(t, "Status inválido", appErrors.GetAppError(err).Message)
	})

	t.Run("unknown ticket", func(t *testing.T) {
		svc, _ := newTestService(t)

		err := svc.SetStatus(ctx, "99", "aberto")
		require.Error(t, err)
		assert.Equal(t, "Ticket não encontrado", appErrors.GetAppError(err).Message)
	})
}

func TestComments(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip in order", func(t *testing.T) {
		svc, _ := newTestService(t)
		result, err := svc.Create(ctx, CreateCommand{Owner: "maria", Subject: "s", Description: "d"})
		require.NoError(t, err)

		first, err := svc.AddComment(ctx, result.ID, "Maria Silva", "primeiro")
		require.NoError(t, err)
		assert.Equal(t, "1", first.ID)

		_, err = svc.AddComment(ctx, result.ID, "João Souza", "segundo")
		require.NoError(t, err)

		comments, err := svc.ListComments(ctx, result.ID)
		require.NoError(t, err)
		require.Len(t, comments, 2)
		assert.Equal(t, "primeiro", comments[0].Text)
		assert.Equal(t, "segundo", comments[1].Text)
	})

	t.Run("normalized ticket id filter", func(t *testing.T) {
		svc, _ := newTestService(t)
		result, err := svc.Create(ctx, CreateCommand{Owner: "maria", Subject: "s", Description: "d"})
		require.NoError(t, err)

		_, err = svc.AddComment(ctx, result.ID, "Maria Silva", "texto")
		require.NoError(t, err)

		comments, err := svc.ListComments(ctx, result.ID+".0")
		require.NoError(t, err)
		assert.Len(t, comments, 1)
	})

	t.Run("empty comment rejected", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.AddComment(ctx, "1", "Maria Silva", "   ")
		require.Error(t, err)
		assert.Equal(t, "Comentário não pode ser vazio", appErrors.GetAppError(err).Message)
	})

	t.Run("unknown ticket rejected", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.AddComment(ctx, "42", "Maria Silva", "texto")
		require.Error(t, err)
		assert.Equal(t, "Ticket não encontrado", appErrors.GetAppError(err).Message)
	})
}

func TestCountPending(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	mk := func(owner, status string) {
		result, err := svc.Create(ctx, CreateCommand{Owner: owner, Subject: "s", Description: "d"})
		require.NoError(t, err)
		if status != "aberto" {
			require.NoError(t, svc.SetStatus(ctx, result.ID, status))
		}
	}

	mk("maria", "aberto")
	mk("maria", "andamento")
	mk("maria", "resolvido")
	mk("maria", "fechado")
	mk("joao", "andamento")

	t.Run("admin counts open and in progress across everyone", func(t *testing.T) {
		count, err := svc.CountPending(ctx, "joao", true)
		require.NoError(t, err)
		assert.Equal(t, 3, count)
	})

	t.Run("user counts own in progress and resolved", func(t *testing.T) {
		count, err := svc.CountPending(ctx, "maria", false)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("closed tickets never count", func(t *testing.T) {
		count, err := svc.CountPending(ctx, "maria", false)
		require.NoError(t, err)
		assert.Equal(t, 2, count, "fechado is excluded for both roles")
	})

	t.Run("empty caller counts nothing", func(t *testing.T) {
		count, err := svc.CountPending(ctx, "", false)
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}
