package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

var (
	ErrEmptyName    = errors.New("name is required")
	ErrInvalidPhone = errors.New("phone number must be a valid phone number")
	ErrWeakPIN      = errors.New("pin must be at least 4 digits")
	ErrInvalidRole  = errors.New("role is invalid")
)

// Role partitions accounts by the side of the marketplace they act on.
type Role string

const (
	RoleVendor     Role = "vendor"
	RoleSupplier   Role = "supplier"
	RoleAgent      Role = "agent"
	RoleNormalUser Role = "normal_user"
)

var phonePattern = regexp.MustCompile(`^(\+91)?[6-9]\d{9}$`)

// User is a platform account identified by phone number.
// PINHash always holds the bcrypt digest, never the raw PIN.
type User struct {
	ID        int64
	Name      string
	Phone     string
	PINHash   string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser builds a user ensuring required invariants. The PIN is validated
// here but hashed by the application layer.
func NewUser(name, phone string, role Role) (*User, error) {
	user := &User{}
	if err := user.SetName(name); err != nil {
		return nil, err
	}
	if err := user.SetPhone(phone); err != nil {
		return nil, err
	}
	if err := user.SetRole(role); err != nil {
		return nil, err
	}
	return user, nil
}

// SetName trims and validates the display name.
func (u *User) SetName(name string) error {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return ErrEmptyName
	}
	u.Name = name
	return nil
}

// SetPhone validates the phone number format.
func (u *User) SetPhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if !phonePattern.MatchString(phone) {
		return ErrInvalidPhone
	}
	u.Phone = phone
	return nil
}

// SetRole ensures only known roles are accepted.
func (u *User) SetRole(role Role) error {
	switch role {
	case RoleVendor, RoleSupplier, RoleAgent, RoleNormalUser:
		u.Role = role
		return nil
	default:
		return ErrInvalidRole
	}
}

// ValidatePIN enforces the minimum PIN strength on the raw secret.
func ValidatePIN(pin string) error {
	pin = strings.TrimSpace(pin)
	if len(pin) < 4 {
		return ErrWeakPIN
	}
	return nil
}

// Validate re-applies core invariants for persistence.
func (u *User) Validate() error {
	if err := u.SetName(u.Name); err != nil {
		return err
	}
	if err := u.SetPhone(u.Phone); err != nil {
		return err
	}
	if err := u.SetRole(u.Role); err != nil {
		return err
	}
	if strings.TrimSpace(u.PINHash) == "" {
		return ErrWeakPIN
	}
	return nil
}
