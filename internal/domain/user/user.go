// Package user holds the user record, its row codec over the LOGIN
// table, and the identifier resolver that reconciles the three owner
// encodings found in historical ticket rows.
package user

import (
	"strings"

	"ctrc/internal/store"
)

// Table is the sheet holding user records. Header at row 0.
const Table = "LOGIN"

// Header is the LOGIN table header row.
var Header = []string{"ID", "LOGIN", "SENHA", "NOME", "EMAIL", "PERFIL", "STATUS", "SENHA_TEMPORARIA"}

// Column positions are fixed and load-bearing.
const (
	ColID = iota
	ColLogin
	ColPassword
	ColName
	ColEmail
	ColRole
	ColStatus
	ColTempPassword
)

// IDPrefix marks generator-issued user ids. Legacy rows carry bare
// sequential numbers instead; those resolve through the login path.
const IDPrefix = "USER_"

// DefaultPassword is the well-known bootstrap password. Authentication
// flags it so the UI can force a change.
const DefaultPassword = "123"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (r Role) String() string { return string(r) }

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleUser
}

func (r Role) IsAdmin() bool { return r == RoleAdmin }

type Status string

const (
	StatusActive   Status = "ativo"
	StatusInactive Status = "inativo"
)

func (s Status) String() string { return string(s) }

func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusInactive
}

func (s Status) IsInactive() bool { return s == StatusInactive }

// User is a full user record including the stored password. Passwords
// are kept and compared in plaintext; hardening them is explicitly out
// of scope of this system.
type User struct {
	ID                string
	Login             string
	Password          string
	Name              string
	Email             string
	Role              Role
	Status            Status
	TemporaryPassword bool
}

// Public is the password-free projection returned by listing and
// lookup operations.
type Public struct {
	ID     string `json:"id"`
	Login  string `json:"login"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

func (u User) Public() Public {
	return Public{
		ID:     u.ID,
		Login:  u.Login,
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Role.String(),
		Status: u.Status.String(),
	}
}

// DisplayName falls back to the login when the name cell is blank.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Login
}

// FromRow decodes a LOGIN row. Rows with a blank login cell are
// placeholders and report ok=false. Blank role and status cells take
// the historical defaults.
func FromRow(row []string) (User, bool) {
	login := store.Cell(row, ColLogin)
	if login == "" {
		return User{}, false
	}

	role := Role(strings.ToLower(store.Cell(row, ColRole)))
	if role == "" {
		role = RoleUser
	}
	status := Status(strings.ToLower(store.Cell(row, ColStatus)))
	if status == "" {
		status = StatusActive
	}

	return User{
		ID:                store.NormalizeID(store.Cell(row, ColID)),
		Login:             login,
		Password:          store.Cell(row, ColPassword),
		Name:              store.Cell(row, ColName),
		Email:             store.Cell(row, ColEmail),
		Role:              role,
		Status:            status,
		TemporaryPassword: store.Cell(row, ColTempPassword) == "true",
	}, true
}

// Row encodes the record for appending to the LOGIN table.
func (u User) Row() []string {
	temp := "false"
	if u.TemporaryPassword {
		temp = "true"
	}
	return []string{
		u.ID,
		u.Login,
		u.Password,
		u.Name,
		u.Email,
		u.Role.String(),
		u.Status.String(),
		temp,
	}
}
