package domain

import (
	"strings"
	"time"
)

// SocialLinks holds optional profile links.
type SocialLinks struct {
	LinkedIn string `json:"linkedin,omitempty" bson:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty" bson:"github,omitempty"`
	Twitter  string `json:"twitter,omitempty" bson:"twitter,omitempty"`
}

// Profile is the free-form part of a user record.
type Profile struct {
	Bio         string       `json:"bio,omitempty" bson:"bio,omitempty"`
	Location    string       `json:"location,omitempty" bson:"location,omitempty"`
	Website     string       `json:"website,omitempty" bson:"website,omitempty"`
	SocialLinks *SocialLinks `json:"socialLinks,omitempty" bson:"socialLinks,omitempty"`
}

// User is the persisted identity record.
type User struct {
	ID                   string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email                string     `json:"email" gorm:"uniqueIndex;not null"`
	Password             string     `json:"-" gorm:"not null"` // bcrypt hash, never serialized
	FirstName            string     `json:"firstName,omitempty"`
	LastName             string     `json:"lastName,omitempty"`
	Avatar               string     `json:"avatar,omitempty"`
	Phone                string     `json:"phone,omitempty"`
	Role                 Role       `json:"role" gorm:"type:varchar(20);not null;index"`
	IsVerified           bool       `json:"isVerified" gorm:"not null"`
	IsActive             bool       `json:"isActive" gorm:"not null"`
	VerificationToken    string     `json:"-"`
	ResetPasswordToken   string     `json:"-"`
	ResetPasswordExpires *time.Time `json:"-"`
	LastLogin            *time.Time `json:"lastLogin,omitempty"`
	Profile              *Profile   `json:"profile,omitempty" gorm:"serializer:json;type:jsonb"`
	GoogleID             *string    `json:"-" gorm:"uniqueIndex"`
	FacebookID           *string    `json:"-" gorm:"uniqueIndex"`
	CreatedAt            time.Time  `json:"createdAt" gorm:"index:idx_users_created_at,sort:desc"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

// FullName joins first and last name, dropping whichever is missing.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// ExternalID returns the linked identifier for provider, or "" when not linked.
func (u *User) ExternalID(provider Provider) string {
	var id *string
	switch provider {
	case ProviderGoogle:
		id = u.GoogleID
	case ProviderFacebook:
		id = u.FacebookID
	}
	if id == nil {
		return ""
	}
	return *id
}

// PublicUser is the only shape of a user that leaves the service.
type PublicUser struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	FirstName  string     `json:"firstName,omitempty"`
	LastName   string     `json:"lastName,omitempty"`
	FullName   string     `json:"fullName,omitempty"`
	Avatar     string     `json:"avatar,omitempty"`
	Phone      string     `json:"phone,omitempty"`
	Role       Role       `json:"role"`
	IsVerified bool       `json:"isVerified"`
	IsActive   bool       `json:"isActive"`
	Profile    *Profile   `json:"profile,omitempty"`
	LastLogin  *time.Time `json:"lastLogin,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// Public projects the record without secrets, hashes or tokens.
func (u *User) Public() *PublicUser {
	if u == nil {
		return nil
	}
	return &PublicUser{
		ID:         u.ID,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		FullName:   u.FullName(),
		Avatar:     u.Avatar,
		Phone:      u.Phone,
		Role:       u.Role,
		IsVerified: u.IsVerified,
		IsActive:   u.IsActive,
		Profile:    u.Profile,
		LastLogin:  u.LastLogin,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

// NewUser is the data needed to create an account. Password is the raw value;
// the store hashes it.
type NewUser struct {
	Email      string
	Password   string
	FirstName  string
	LastName   string
	Avatar     string
	IsVerified bool
	GoogleID   string
	FacebookID string
}

// UserUpdate is a partial update. Nil fields are left untouched.
type UserUpdate struct {
	FirstName  *string
	LastName   *string
	Phone      *string
	Avatar     *string
	Profile    *Profile
	Role       *Role
	IsActive   *bool
	IsVerified *bool
	GoogleID   *string
	FacebookID *string
}

// NormalizeEmail lowercases and trims an address the way the store keys it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
