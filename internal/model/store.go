package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Store is a registered tenant. Its id doubles as the store_id scoping key
// on every other table.
type Store struct {
	ID        string    `json:"store_id" gorm:"primaryKey;type:varchar(36)"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	Address   string    `json:"address" gorm:"type:varchar(255)"`
	Email     string    `json:"email" gorm:"type:varchar(255);unique;not null"`
	Phone     string    `json:"phone" gorm:"type:varchar(30)"`
	Password  string    `json:"-" gorm:"type:varchar(100);not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewStore registers a new tenant, hashing the given plaintext password
func NewStore(name, address, email, phone, password string) (*Store, error) {
	s := &Store{
		ID:      uuid.New().String(),
		Name:    strings.TrimSpace(name),
		Address: strings.TrimSpace(address),
		Email:   strings.TrimSpace(email),
		Phone:   strings.TrimSpace(phone),
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if err := s.SetPassword(password); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the store field invariants
func (s *Store) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("store name is required")
	}
	if s.Email != "" && !strings.Contains(s.Email, "@") {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// UpdateConfig replaces the store profile fields, re-validating them
func (s *Store) UpdateConfig(name, address, email, phone string) error {
	prev := *s
	s.Name = strings.TrimSpace(name)
	s.Address = strings.TrimSpace(address)
	s.Email = strings.TrimSpace(email)
	s.Phone = strings.TrimSpace(phone)
	if err := s.Validate(); err != nil {
		*s = prev
		return err
	}
	return nil
}

// SetPassword hashes and stores a new password
func (s *Store) SetPassword(password string) error {
	if len(password) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.Password = string(hashed)
	return nil
}

// ValidatePassword checks a plaintext password against the stored hash
func (s *Store) ValidatePassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(s.Password), []byte(password)) == nil
}
