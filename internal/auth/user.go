package auth

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserRole int

const (
	UserRoleAdmin UserRole = iota
	UserRoleReadWrite
	UserRoleReadOnly
)

type User struct {
	Id       string
	Name     string
	Password []byte
	Role     UserRole
}

func NewUser(name, password string, role UserRole) *User {
	// password max size is 72 bytes because of bcrypt limit
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return &User{uuid.New().String(), name, hashedPassword, role}
}

func (u *User) ValidateUser(password string) bool {
	return bcrypt.CompareHashAndPassword(u.Password, []byte(password)) == nil
}

// HasClearance reports whether the user's role grants at least r.
// Lower role values carry more privilege.
func (u *User) HasClearance(r UserRole) bool { return u.Role <= r }
