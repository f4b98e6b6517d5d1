// Package user implements the user directory: listing, lookup,
// creation, editing, deletion and self-service profile updates over
// the LOGIN table.
package user

import (
	"context"
	"strings"

	"ctrc/internal/domain/user"
	appErrors "ctrc/internal/shared/errors"
	"ctrc/internal/shared/logger"
	"ctrc/internal/store"
)

const (
	msgMissingFields  = "Campos obrigatórios não preenchidos"
	msgLoginExists    = "Login já existe"
	msgShortPassword  = "Senha deve ter no mínimo 6 caracteres"
	msgUserNotFound   = "Usuário não encontrado"
	msgInvalidAction  = "Ação inválida"
	msgWrongPassword  = "Senha atual incorreta"
	minPasswordLength = 6
)

// SaveAction selects between creating and editing in Save.
type SaveAction string

const (
	ActionNew  SaveAction = "new"
	ActionEdit SaveAction = "edit"
)

// SaveCommand carries the fields of a create or edit request. On edit
// a blank Password leaves the stored one untouched.
type SaveCommand struct {
	Login    string
	Name     string
	Email    string
	Password string
	Role     string
	Status   string
	Action   SaveAction
}

// ProfileCommand carries a self-service profile update. The password
// pair is optional; when present the current password is validated.
type ProfileCommand struct {
	Name            string
	Email           string
	CurrentPassword string
	NewPassword     string
}

type Service struct {
	store    store.TableStore
	ids      *store.Generator
	resolver *user.Resolver
	logger   logger.Interface
}

func NewService(ctx context.Context, st store.TableStore, ids *store.Generator, resolver *user.Resolver, log logger.Interface) (*Service, error) {
	if err := st.EnsureTable(ctx, user.Table, user.Header); err != nil {
		return nil, err
	}
	return &Service{store: st, ids: ids, resolver: resolver, logger: log}, nil
}

// List returns the public projection of every user row.
func (s *Service) List(ctx context.Context) ([]user.Public, error) {
	rows, err := s.store.ReadAll(ctx, user.Table)
	if err != nil {
		return nil, appErrors.WrapInternal(err, "Erro ao listar usuários")
	}

	users := []user.Public{}
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if u, ok := user.FromRow(row); ok {
			users = append(users, u.Public())
		}
	}
	return users, nil
}

// Find resolves a reference (generated id or login) to a public user
// record. A miss is (nil, nil), matching the null contract of the
// lookup operation.
func (s *Service) Find(ctx context.Context, ref string) (*user.Public, error) {
	u, err := s.resolver.Resolve(ctx, ref)
	if err != nil {
		return nil, appErrors.WrapInternal(err, "Erro ao buscar usuário")
	}
	if u == nil {
		return nil, nil
	}
	pub := u.Public()
	return &pub, nil
}

// Save creates or edits a user record depending on the action.
// Creation enforces login uniqueness and the minimum password length;
// editing enforces neither — historical asymmetry that callers rely
// on.
func (s *Service) Save(ctx context.Context, cmd SaveCommand) error {
	if cmd.Login == "" || cmd.Name == "" || cmd.Email == "" {
		return appErrors.NewValidationError(msgMissingFields)
	}

	switch cmd.Action {
	case ActionNew:
		return s.create(ctx, cmd)
	case ActionEdit:
		return s.edit(ctx, cmd)
	default:
		return appErrors.NewValidationError(msgInvalidAction)
	}
}

func (s *Service) create(ctx context.Context, cmd SaveCommand) error {
	rows, err := s.store.ReadAll(ctx, user.Table)
	if err != nil {
		return appErrors.WrapInternal(err, "Erro ao salvar usuário")
	}

	for i, row := range rows {
		if i == 0 {
			continue
		}
		if u, ok := user.FromRow(row); ok && u.Login == cmd.Login {
			return appErrors.NewConflictError(msgLoginExists)
		}
	}

	if len(cmd.Password) < minPasswordLength {
		return appErrors.NewValidationError(msgShortPassword)
	}

	id, err := s.ids.Random(ctx, user.Table, user.IDPrefix)
	if err != nil {
		return appErrors.WrapInternal(err, "Erro ao salvar usuário")
	}

	record := user.User{
		ID:       id,
		Login:    cmd.Login,
		Password: cmd.Password,
		Name:     cmd.Name,
		Email:    cmd.Email,
		Role:     roleOrDefault(cmd.Role),
		Status:   statusOrDefault(cmd.Status),
	}
	if err := s.store.Append(ctx, user.Table, record.Row()); err != nil {
		return appErrors.WrapInternal(err, "Erro ao salvar usuário")
	}

	s.logger.Infow("user created", "login", cmd.Login, "id", id)
	return nil
}

func (s *Service) edit(ctx context.Context, cmd SaveCommand) error {
	rows, err := s.store.ReadAll(ctx, user.Table)
	if err != nil {
		return appErrors.WrapInternal(err, "Erro ao salvar usuário")
	}

	for i, row := range rows {
		if i == 0 {
			continue
		}
		u, ok := user.FromRow(row)
		if !ok || u.Login != cmd.Login {
			continue
		}

		writes := map[int]string{
			user.ColName:   cmd.Name,
			user.ColEmail:  cmd.Email,
			user.ColRole:   roleOrDefault(cmd.Role).String(),
			user.ColStatus: statusOrDefault(cmd.Status).String(),
		}
		if strings.TrimSpace(cmd.Password) != "" {
			writes[user.ColPassword] = cmd.Password
			writes[user.ColTempPassword] = "false"
		}
		if err := s.writeCells(ctx, i, writes); err != nil {
			return err
		}

		s.logger.Infow("user updated", "login", cmd.Login)
		return nil
	}

	return appErrors.NewNotFoundError(msgUserNotFound)
}

// Delete removes a user row permanently. The reference may be a
// generated id or a login. Irreversible.
func (s *Service) Delete(ctx context.Context, ref string) error {
	rows, err := s.store.ReadAll(ctx, user.Table)
	if err != nil {
		return appErrors.WrapInternal(err, "Erro ao excluir usuário")
	}

	parsed := user.ParseRef(ref)
	for i, row := range rows {
		if i == 0 {
			continue
		}
		u, ok := user.FromRow(row)
		if !ok {
			continue
		}

		matched := false
		switch parsed.Kind {
		case user.RefByID:
			matched = u.ID == parsed.Value
		default:
			matched = u.Login == parsed.Value
		}
		if !matched {
			continue
		}

		if err := s.store.DeleteRow(ctx, user.Table, i); err != nil {
			return appErrors.WrapInternal(err, "Erro ao excluir usuário")
		}
		s.logger.Infow("user deleted", "ref", ref)
		return nil
	}

	return appErrors.NewNotFoundError(msgUserNotFound)
}

// UpdateProfile lets a user change their own name and email, and
// optionally their password after validating the current one. Name and
// email land before the password check runs; a wrong current password
// fails the call but keeps those writes, matching the historical
// behavior.
func (s *Service) UpdateProfile(ctx context.Context, login string, cmd ProfileCommand) error {
	rows, err := s.store.ReadAll(ctx, user.Table)
	if err != nil {
		return appErrors.WrapInternal(err, "Erro ao atualizar perfil")
	}

	for i, row := range rows {
		if i == 0 {
			continue
		}
		u, ok := user.FromRow(row)
		if !ok || u.Login != login {
			continue
		}

		if err := s.writeCells(ctx, i, map[int]string{
			user.ColName:  cmd.Name,
			user.ColEmail: cmd.Email,
		}); err != nil {
			return err
		}

		if cmd.CurrentPassword != "" && cmd.NewPassword != "" {
			if u.Password != strings.TrimSpace(cmd.CurrentPassword) {
				return appErrors.NewValidationError(msgWrongPassword)
			}
			if err := s.writeCells(ctx, i, map[int]string{
				user.ColPassword:     cmd.NewPassword,
				user.ColTempPassword: "false",
			}); err != nil {
				return err
			}
		}

		s.logger.Infow("profile updated", "login", login)
		return nil
	}

	return appErrors.NewNotFoundError(msgUserNotFound)
}

func (s *Service) writeCells(ctx context.Context, rowIdx int, cells map[int]string) error {
	for col, value := range cells {
		if err := s.store.WriteCell(ctx, user.Table, rowIdx, col, value); err != nil {
			return appErrors.WrapInternal(err, "Erro ao salvar usuário")
		}
	}
	return nil
}

func roleOrDefault(raw string) user.Role {
	role := user.Role(strings.ToLower(strings.TrimSpace(raw)))
	if !role.IsValid() {
		return user.RoleUser
	}
	return role
}

func statusOrDefault(raw string) user.Status {
	status := user.Status(strings.ToLower(strings.TrimSpace(raw)))
	if !status.IsValid() {
		return user.StatusActive
	}
	return status
}
