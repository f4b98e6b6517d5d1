// Package auth implements credential validation, password change and
// password recovery over the LOGIN table.
package auth

import (
	"context"
	"strings"

	"ctrc/internal/domain/user"
	appErrors "ctrc/internal/shared/errors"
	"ctrc/internal/shared/logger"
	"ctrc/internal/store"
)

const (
	msgInvalidCredentials = "Usuário ou senha inválidos"
	msgInactiveUser       = "Usuário inativo. Entre em contato com o administrador."
	msgWrongPassword      = "Senha atual incorreta"
	msgEmailNotFound      = "Email não encontrado no sistema"
)

// RecoveryMailer delivers the temporary password produced by
// RecoverPassword. The message carries the password in cleartext;
// that is the preserved contract of the recovery flow.
type RecoveryMailer interface {
	SendTemporaryPassword(to, name, login, tempPassword string) error
}

// Profile is the envelope returned by a successful authentication.
// DefaultPassword and TemporaryPassword drive the client's forced
// password-change prompt.
type Profile struct {
	UserID            string `json:"user_id"`
	Login             string `json:"login"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	Role              string `json:"role"`
	DefaultPassword   bool   `json:"default_password"`
	TemporaryPassword bool   `json:"temporary_password"`
}

type Service struct {
	store  store.TableStore
	mailer RecoveryMailer
	logger logger.Interface
}

func NewService(ctx context.Context, st store.TableStore, mailer RecoveryMailer, log logger.Interface) (*Service, error) {
	if err := st.EnsureTable(ctx, user.Table, user.Header); err != nil {
		return nil, err
	}
	return &Service{store: st, mailer: mailer, logger: log}, nil
}

// Authenticate validates a login/password pair against the LOGIN
// table. Comparison is whitespace-trimmed, case-sensitive and in
// plaintext — hardening is explicitly out of scope. Inactive users get
// a distinct message even with correct credentials.
func (s *Service) Authenticate(ctx context.Context, login, password string) (*Profile, error) {
	login = strings.TrimSpace(login)
	password = strings.TrimSpace(password)

	rows, err := s.store.ReadAll(ctx, user.Table)
	if err != nil {
		return nil, appErrors.WrapInternal(err, "Erro ao processar login")
	}

	for _, row := range skipHeader(rows) {
		u, ok := user.FromRow(row)
		if !ok {
			continue
		}
		if u.Login != login || u.Password != password {
			continue
		}

		if u.Status.IsInactive() {
			return nil, appErrors.NewUnauthorizedError(msgInactiveUser)
		}

		s.logger.Infow("user authenticated", "login", u.Login, "role", u.Role.String())
		return &Profile{
			UserID:            u.ID,
			Login:             u.Login,
			Name:              u.DisplayName(),
			Email:             u.Email,
			Role:              u.Role.String(),
			DefaultPassword:   u.Password == user.DefaultPassword,
			TemporaryPassword: u.TemporaryPassword,
		}, nil
	}

	return nil, appErrors.NewUnauthorizedError(msgInvalidCredentials)
}

// ChangePassword overwrites the stored password after validating the
// current one. The reference may be a generated id or a login. There
// is deliberately no minimum-length check on this path; only creation
// enforces one.
func (s *Service) ChangePassword(ctx context.Context, ref, currentPassword, newPassword string) error {
	rows, err := s.store.ReadAll(ctx, user.Table)
	if err != nil {
		return appErrors.WrapInternal(err, "Erro ao alterar senha")
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

		switch parsed.Kind {
		case user.RefByID:
			if u.ID != parsed.Value {
				continue
			}
		default:
			if u.Login != parsed.Value {
				continue
			}
		}

		if u.Password != strings.TrimSpace(currentPassword) {
			return appErrors.NewValidationError(msgWrongPassword)
		}

		if err := s.store.WriteCell(ctx, user.Table, i, user.ColPassword, newPassword); err != nil {
			return appErrors.WrapInternal(err, "Erro ao alterar senha")
		}
		if err := s.store.WriteCell(ctx, user.Table, i, user.ColTempPassword, "false"); err != nil {
			return appErrors.WrapInternal(err, "Erro ao alterar senha")
		}

		s.logger.Infow("password changed", "ref", ref)
		return nil
	}

	return appErrors.NewValidationError(msgWrongPassword)
}

// RecoverPassword generates a temporary password for the account
// matching the email (case-insensitive), stores it with the temporary
// flag set, and mails it in cleartext. A miss returns a distinct
// "email not found" failure — a known enumeration leak, preserved
// because clients depend on the message.
func (s *Service) RecoverPassword(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	rows, err := s.store.ReadAll(ctx, user.Table)
	if err != nil {
		return appErrors.WrapInternal(err, "Erro ao recuperar senha")
	}

	for i, row := range rows {
		if i == 0 {
			continue
		}
		u, ok := user.FromRow(row)
		if !ok || strings.ToLower(u.Email) != email {
			continue
		}

		temp := TemporaryPassword()

		if err := s.store.WriteCell(ctx, user.Table, i, user.ColPassword, temp); err != nil {
			return appErrors.WrapInternal(err, "Erro ao recuperar senha")
		}
		if err := s.store.WriteCell(ctx, user.Table, i, user.ColTempPassword, "true"); err != nil {
			return appErrors.WrapInternal(err, "Erro ao recuperar senha")
		}

		if err := s.mailer.SendTemporaryPassword(u.Email, u.DisplayName(), u.Login, temp); err != nil {
			s.logger.Errorw("failed to send recovery email", "email", u.Email, "error", err)
			return appErrors.WrapInternal(err, "Erro ao recuperar senha")
		}

		s.logger.Infow("recovery email sent", "login", u.Login)
		return nil
	}

	return appErrors.NewNotFoundError(msgEmailNotFound)
}

func skipHeader(rows [][]string) [][]string {
	if len(rows) == 0 {
		return rows
	}
	return rows[1:]
}
