package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Provider is the credential origin of an account. It is fixed at creation.
type Provider string

const (
	ProviderEmail  Provider = "email"
	ProviderGoogle Provider = "google"
)

// User is the persisted account record. Accounts created through Google OAuth
// carry an empty HashedPassword and are verified immediately; email accounts
// stay unverified until the registration OTP is confirmed.
type User struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty"  json:"id"`
	Email               string             `bson:"email"          json:"email"`
	FullName            string             `bson:"full_name"      json:"full_name"`
	HashedPassword      string             `bson:"hashed_password" json:"-"`
	Provider            Provider           `bson:"provider"       json:"provider"`
	IsActive            bool               `bson:"is_active"      json:"is_active"`
	IsSuperuser         bool               `bson:"is_superuser"   json:"is_superuser"`
	IsVerified          bool               `bson:"is_verified"    json:"is_verified"`
	VerificationOTP     string             `bson:"verification_otp,omitempty" json:"-"`
	VerificationExpires *time.Time         `bson:"verification_expires,omitempty" json:"-"`
	ResetOTP            string             `bson:"reset_otp,omitempty" json:"-"`
	ResetExpires        *time.Time         `bson:"reset_expires,omitempty" json:"-"`
	CreatedAt           time.Time          `bson:"created_at"     json:"created_at"`
}

// Profile is the public projection returned by /auth/me. It never carries
// the password hash or OTP fields.
type Profile struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	FullName   string    `json:"full_name"`
	Provider   Provider  `json:"provider"`
	IsActive   bool      `json:"is_active"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
}

func (u *User) Profile() Profile {
	return Profile{
		ID:         u.ID.Hex(),
		Email:      u.Email,
		FullName:   u.FullName,
		Provider:   u.Provider,
		IsActive:   u.IsActive,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
	}
}
