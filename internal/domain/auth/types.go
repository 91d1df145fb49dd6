package auth

import (
	"strconv"
	"time"

	"github.com/yanqian/aqi-advisor/internal/domain/advisor"
)

// Config drives authentication behavior.
type Config struct {
	Secret          string
	TokenTTL        time.Duration
	RefreshTokenTTL time.Duration
}

// User represents a persisted account. One row carries both credentials and
// the health profile the advisor consumes, mirroring the upstream schema.
type User struct {
	ID            int64     `json:"id"`
	Phone         string    `json:"phone"`
	PasswordHash  string    `json:"-"`
	City          string    `json:"city"`
	State         string    `json:"state"`
	Country       string    `json:"country"`
	BirthMonth    int       `json:"birthMonth"`
	BirthYear     int       `json:"birthYear"`
	Pregnant      bool      `json:"pregnancyStatus"`
	HasAsthma     bool      `json:"hasAsthma"`
	HasBronchitis bool      `json:"hasBronchitis"`
	HasCopd       bool      `json:"hasCopd"`
	CreatedAt     time.Time `json:"createdAt"`
}

// HealthProfile converts the account row into the advisor input record.
func (u User) HealthProfile() advisor.UserHealthProfile {
	return advisor.UserHealthProfile{
		UserID:        strconv.FormatInt(u.ID, 10),
		Phone:         u.Phone,
		City:          u.City,
		State:         u.State,
		Country:       u.Country,
		BirthMonth:    u.BirthMonth,
		BirthYear:     u.BirthYear,
		Pregnant:      u.Pregnant,
		HasAsthma:     u.HasAsthma,
		HasBronchitis: u.HasBronchitis,
		HasCopd:       u.HasCopd,
	}
}

// HealthFields groups the mutable profile attributes shared by registration
// and profile updates.
type HealthFields struct {
	City          string `json:"city"`
	State         string `json:"state"`
	Country       string `json:"country"`
	BirthMonth    int    `json:"birthMonth"`
	BirthYear     int    `json:"birthYear"`
	Pregnant      bool   `json:"pregnancyStatus"`
	HasAsthma     bool   `json:"hasAsthma"`
	HasBronchitis bool   `json:"hasBronchitis"`
	HasCopd       bool   `json:"hasCopd"`
}

// RegisterRequest captures the registration payload, health fields included.
type RegisterRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
	HealthFields
}

// LoginRequest captures login details.
type LoginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// LoginResponse returns the signed tokens.
type LoginResponse struct {
	Token        string   `json:"token"`
	RefreshToken string   `json:"refreshToken"`
	User         UserView `json:"user"`
}

// UserView trims sensitive fields.
type UserView struct {
	ID            int64     `json:"id"`
	Phone         string    `json:"phone"`
	City          string    `json:"city"`
	State         string    `json:"state"`
	Country       string    `json:"country"`
	BirthMonth    int       `json:"birthMonth"`
	BirthYear     int       `json:"birthYear"`
	Pregnant      bool      `json:"pregnancyStatus"`
	HasAsthma     bool      `json:"hasAsthma"`
	HasBronchitis bool      `json:"hasBronchitis"`
	HasCopd       bool      `json:"hasCopd"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Claims are extracted from the JWT token. Phone rides along so the SMS
// dispatcher can address the caller without a second lookup.
type Claims struct {
	UserID    int64
	Phone     string
	TokenType string
	ExpiresAt time.Time
}

// RefreshRequest encapsulates refresh token payload.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}
