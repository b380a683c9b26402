package identity

import (
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/mjpos/backend/internal/domain/shared"
)

// User is a staff account. There are no roles; every active user can do
// everything.
type User struct {
	shared.BaseEntity
	Username     string `gorm:"type:varchar(64);not null;uniqueIndex" json:"username"`
	PasswordHash string `gorm:"type:varchar(128);not null" json:"-"`
	DisplayName  string `gorm:"type:varchar(191)" json:"display_name"`
	Active       bool   `gorm:"not null;default:true" json:"active"`
}

func (User) TableName() string {
	return "users"
}

func NewUser(username, password, displayName string) (*User, error) {
	username = strings.TrimSpace(strings.ToLower(username))
	if username == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "username is required")
	}
	if len(password) < 8 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &User{
		BaseEntity:   shared.NewBaseEntity(),
		Username:     username,
		PasswordHash: string(hash),
		DisplayName:  displayName,
		Active:       true,
	}, nil
}

func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

func (u *User) ChangePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError(shared.CodeInvalidInput, "password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	u.Touch()
	return nil
}

func (u *User) Deactivate() {
	u.Active = false
	u.Touch()
}
