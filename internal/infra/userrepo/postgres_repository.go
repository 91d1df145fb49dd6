package userrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/aqi-advisor/internal/domain/auth"
)

// PostgresRepository persists users in Postgres.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const userColumns = `id, phone, password_hash, city, state, country, birth_month, birth_year,
	pregnancy_status, has_asthma, has_bronchitis, has_copd, created_at`

// Create inserts a new user row.
func (r *PostgresRepository) Create(ctx context.Context, user auth.User) (auth.User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (phone, password_hash, city, state, country, birth_month, birth_year,
			pregnancy_status, has_asthma, has_bronchitis, has_copd)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+userColumns+`
	`, user.Phone, user.PasswordHash, user.City, user.State, user.Country,
		user.BirthMonth, user.BirthYear, user.Pregnant, user.HasAsthma, user.HasBronchitis, user.HasCopd)
	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return auth.User{}, auth.ErrPhoneExists
		}
		return auth.User{}, err
	}
	return created, nil
}

// GetByPhone fetches a user by phone number.
func (r *PostgresRepository) GetByPhone(ctx context.Context, phone string) (auth.User, bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE phone = $1
		LIMIT 1
	`, phone)
	return scanUserMaybe(row)
}

// GetByID fetches by primary key.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (auth.User, bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
		LIMIT 1
	`, id)
	return scanUserMaybe(row)
}

// UpdateHealthFields replaces the mutable profile attributes.
func (r *PostgresRepository) UpdateHealthFields(ctx context.Context, id int64, fields auth.HealthFields) (auth.User, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE users
		SET city = $2, state = $3, country = $4, birth_month = $5, birth_year = $6,
			pregnancy_status = $7, has_asthma = $8, has_bronchitis = $9, has_copd = $10
		WHERE id = $1
		RETURNING `+userColumns+`
	`, id, fields.City, fields.State, fields.Country, fields.BirthMonth, fields.BirthYear,
		fields.Pregnant, fields.HasAsthma, fields.HasBronchitis, fields.HasCopd)
	return scanUser(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (auth.User, error) {
	var user auth.User
	var created time.Time
	if err := row.Scan(&user.ID, &user.Phone, &user.PasswordHash, &user.City, &user.State, &user.Country,
		&user.BirthMonth, &user.BirthYear, &user.Pregnant, &user.HasAsthma, &user.HasBronchitis, &user.HasCopd,
		&created); err != nil {
		return auth.User{}, err
	}
	user.CreatedAt = created.UTC()
	return user, nil
}

func scanUserMaybe(row rowScanner) (auth.User, bool, error) {
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.User{}, false, nil
		}
		return auth.User{}, false, err
	}
	return user, true, nil
}

var _ auth.Repository = (*PostgresRepository)(nil)
