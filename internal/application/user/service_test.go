package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

	svc, err := NewService(ctx, st, store.NewGenerator(st), domainUser.NewResolver(st), logger.NewLogger())
	require.NoError(t, err)

	rows := [][]string{
		{"USER_1755000000000_4821", "maria", "segredo1", "Maria Silva", "maria@ctrc.local", "user", "ativo", "false"},
		{"2", "joao", "123", "João Souza", "joao@ctrc.local", "admin", "ativo", "false"},
	}
	for _, row := range rows {
		require.NoError(t, st.Append(ctx, domainUser.Table, row))
	}
	return svc, st
}

func TestList(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	users, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "maria", users[0].Login)
	assert.Equal(t, "admin", users[1].Role)
}

func TestFind(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	t.Run("by login", func(t *testing.T) {
		found, err := svc.Find(ctx, "maria")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "Maria Silva", found.Name)
	})

	t.Run("by generated id", func(t *testing.T) {
		found, err := svc.Find(ctx, "USER_1755000000000_4821")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "maria", found.Login)
	})

	t.Run("miss is nil, not an error", func(t *testing.T) {
		found, err := svc.Find(ctx, "carlos")
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestSaveNew(t *testing.T) {
	ctx := context.Background()

	t.Run("creates with generated id and defaults", func(t *testing.T) {
		svc, st := newTestService(t)

		err := svc.Save(ctx, SaveCommand{
			Login:    "carlos",
			Name:     "Carlos Dias",
			Email:    "carlos@ctrc.local",
			Password: "segredo9",
			Action:   ActionNew,
		})
		require.NoError(t, err)

		rows, err := st.ReadAll(ctx, domainUser.Table)
		require.NoError(t, err)
		created, ok := domainUser.FromRow(rows[len(rows)-1])
		require.True(t, ok)

		assert.True(t, len(created.ID) > len(domainUser.IDPrefix))
		assert.Equal(t, domainUser.RoleUser, created.Role)
		assert.Equal(t, domainUser.StatusActive, created.Status)
		assert.False(t, created.TemporaryPassword)
	})

	tests := []struct {
		name    string
		cmd     SaveCommand
		wantErr string
	}{
		{
			name:    "duplicate login",
			cmd:     SaveCommand{Login: "maria", Name: "Outra Maria", Email: "m2@ctrc.local", Password: "segredo9", Action: ActionNew},
			wantErr: "Login já existe",
		},
		{
			name:    "short password",
			cmd:     SaveCommand{Login: "novo", Name: "Novo", Email: "novo@ctrc.local", Password: "12345", Action: ActionNew},
			wantErr: "Senha deve ter no mínimo 6 caracteres",
		},
		{
			name:    "missing fields",
			cmd:     SaveCommand{Login: "novo", Action: ActionNew},
			wantErr: "Campos obrigatórios não preenchidos",
		},
		{
			name:    "invalid action",
			cmd:     SaveCommand{Login: "novo", Name: "Novo", Email: "novo@ctrc.local", Action: "upsert"},
			wantErr: "Ação inválida",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t)

			err := svc.Save(ctx, tt.cmd)
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, appErrors.GetAppError(err).Message)
		})
	}
}

func TestSaveEdit(t *testing.T) {
	ctx := context.Background()

	t.Run("updates fields and keeps password when blank", func(t *testing.T) {
		svc, st := newTestService(t)

		err := svc.Save(ctx, SaveCommand{
			Login:  "maria",
			Name:   "Maria S. Oliveira",
			Email:  "maria.o@ctrc.local",
			Role:   "admin",
			Status: "inativo",
			Action: ActionEdit,
		})
		require.NoError(t, err)

		rows, err := st.ReadAll(ctx, domainUser.Table)
		require.NoError(t, err)
		edited, ok := domainUser.FromRow(rows[1])
		require.True(t, ok)

		assert.Equal(t, "Maria S. Oliveira", edited.Name)
		assert.Equal(t, domainUser.RoleAdmin, edited.Role)
		assert.Equal(t, domainUser.StatusInactive, edited.Status)
		assert.Equal(t, "segredo1", edited.Password)
	})

	t.Run("non blank password overwrites and clears temp flag", func(t *testing.T) {
		svc, st := newTestService(t)
		require.NoError(t, st.WriteCell(ctx, domainUser.Table, 1, domainUser.ColTempPassword, "true"))

		err := svc.Save(ctx, SaveCommand{
			Login:    "maria",
			Name:     "Maria Silva",
			Email:    "maria@ctrc.local",
			Password: "trocada",
			Action:   ActionEdit,
		})
		require.NoError(t, err)

		rows, err := st.ReadAll(ctx, domainUser.Table)
		require.NoError(t, err)
		edited, _ := domainUser.FromRow(rows[1])
		assert.Equal(t, "trocada", edited.Password)
		assert.False(t, edited.TemporaryPassword)
	})

	t.Run("no length check on edit", func(t *testing.T) {
		svc, _ := newTestService(t)

		err := svc.Save(ctx, SaveCommand{
			Login:    "maria",
			Name:     "Maria Silva",
			Email:    "maria@ctrc.local",
			Password: "ab",
			Action:   ActionEdit,
		})
		assert.NoError(t, err)
	})

	t.Run("unknown login", func(t *testing.T) {
		svc, _ := newTestService(t)

		err := svc.Save(ctx, SaveCommand{
			Login:  "carlos",
			Name:   "Carlos",
			Email:  "c@ctrc.local",
			Action: ActionEdit,
		})
		require.Error(t, err)
		assert.Equal(t, "Usuário não encontrado", appErrors.GetAppError(err).Message)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("by login", func(t *testing.T) {
		svc, st := newTestService(t)

		require.NoError(t, svc.Delete(ctx, "joao"))

		rows, err := st.ReadAll(ctx, domainUser.Table)
		require.NoError(t, err)
		assert.Len(t, rows, 2, "header plus remaining user")
	})

	t.Run("by generated id", func(t *testing.T) {
		svc, _ := newTestService(t)

		require.NoError(t, svc.Delete(ctx, "USER_1755000000000_4821"))

		found, err := svc.Find(ctx, "maria")
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("unknown reference", func(t *testing.T) {
		svc, _ := newTestService(t)

		err := svc.Delete(ctx, "carlos")
		require.Error(t, err)
		assert.Equal(t, "Usuário não encontrado", appErrors.GetAppError(err).Message)
	})
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("name and email only", func(t *testing.T) {
		svc, st := newTestService(t)

		err := svc.UpdateProfile(ctx, "maria", ProfileCommand{
			Name:  "Maria Oliveira",
			Email: "nova@ctrc.local",
		})
		require.NoError(t, err)

		rows, err := st.ReadAll(ctx, domainUser.Table)
		require.NoError(t, err)
		edited, _ := domainUser.FromRow(rows[1])
		assert.Equal(t, "Maria Oliveira", edited.Name)
		assert.Equal(t, "nova@ctrc.local", edited.Email)
		assert.Equal(t, "segredo1", edited.Password)
	})

	t.Run("with password change", func(t *testing.T) {
		svc, st := newTestService(t)

		err := svc.UpdateProfile(ctx, "maria", ProfileCommand{
			Name:            "Maria Silva",
			Email:           "maria@ctrc.local",
			CurrentPassword: "segredo1",
			NewPassword:     "novonovo",
		})
		require.NoError(t, err)

		rows, err := st.ReadAll(ctx, domainUser.Table)
		require.NoError(t, err)
		edited, _ := domainUser.FromRow(rows[1])
		assert.Equal(t, "novonovo", edited.Password)
	})

	t.Run("wrong current password fails but keeps name and email", func(t *testing.T) {
		svc, st := newTestService(t)

		err := svc.UpdateProfile(ctx, "maria", ProfileCommand{
			Name:            "Maria Renomeada",
			Email:           "renomeada@ctrc.local",
			CurrentPassword: "errada",
			NewPassword:     "nova",
		})
		require.Error(t, err)
		assert.Equal(t, "Senha atual incorreta", appErrors.GetAppError(err).Message)

		rows, readErr := st.ReadAll(ctx, domainUser.Table)
		require.NoError(t, readErr)
		edited, _ := domainUser.FromRow(rows[1])
		assert.Equal(t, "Maria Renomeada", edited.Name)
		assert.Equal(t, "segredo1", edited.Password)
	})

	t.Run("unknown login", func(t *testing.T) {
		svc, _ := newTestService(t)

		err := svc.UpdateProfile(ctx, "carlos", ProfileCommand{Name: "C", Email: "c@ctrc.local"})
		require.Error(t, err)
		assert.Equal(t, "Usuário não encontrado", appErrors.GetAppError(err).Message)
	})
}
