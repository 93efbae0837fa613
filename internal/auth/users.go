package auth

import (
	"context"
	"errors"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("auth: invalid credentials")

// User is an agent account. PasswordHash is a bcrypt hash; plaintext
// passwords never leave the login handler.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	PasswordHash string `json:"-"`
}

// Directory abstracts account lookup.
type Directory interface {
	FindByEmail(ctx context.Context, email string) (User, error)
}

// MemoryDirectory is an in-memory account directory, seeded at startup.
type MemoryDirectory struct {
	mu    sync.Mutex
	users map[string]User // keyed by lowercased email
}

func NewMemoryDirectory(users ...User) *MemoryDirectory {
	d := &MemoryDirectory{users: map[string]User{}}
	for _, u := range users {
		d.users[strings.ToLower(u.Email)] = u
	}
	return d
}

func (d *MemoryDirectory) Add(u User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[strings.ToLower(u.Email)] = u
}

func (d *MemoryDirectory) FindByEmail(ctx context.Context, email string) (User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	u, ok := d.users[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

// HashPassword wraps bcrypt for seeding and account creation.
func HashPassword(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Authenticate verifies credentials against the directory. Lookup misses
// and password mismatches both return ErrInvalidCredentials so the
// response does not reveal which part failed.
func Authenticate(ctx context.Context, dir Directory, email, password string) (User, error) {
	u, err := dir.FindByEmail(ctx, email)
	if err != nil {
		return User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}
