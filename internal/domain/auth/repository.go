package auth

import "context"

// Repository abstracts user persistence.
type Repository interface {
	Create(ctx context.Context, user User) (User, error)
	GetByPhone(ctx context.Context, phone string) (User, bool, error)
	GetByID(ctx context.Context, id int64) (User, bool, error)
	UpdateHealthFields(ctx context.Context, id int64, fields HealthFields) (User, error)
}
