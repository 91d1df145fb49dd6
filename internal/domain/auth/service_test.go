package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/aqi-advisor/pkg/errors"
)

type stubRepo struct {
	users map[int64]User
	seq   int64
}

func newStubRepo() *stubRepo {
	return &stubRepo{users: map[int64]User{}}
}

func (r *stubRepo) Create(_ context.Context, user User) (User, error) {
	for _, existing := range r.users {
		if existing.Phone == user.Phone {
			return User{}, ErrPhoneExists
		}
	}
	r.seq++
	user.ID = r.seq
	user.CreatedAt = time.Now().UTC()
	r.users[user.ID] = user
	return user, nil
}

func (r *stubRepo) GetByPhone(_ context.Context, phone string) (User, bool, error) {
	for _, user := range r.users {
		if user.Phone == phone {
			return user, true, nil
		}
	}
	return User{}, false, nil
}

func (r *stubRepo) GetByID(_ context.Context, id int64) (User, bool, error) {
	user, ok := r.users[id]
	return user, ok, nil
}

func (r *stubRepo) UpdateHealthFields(_ context.Context, id int64, fields HealthFields) (User, error) {
	user := r.users[id]
	user.City = fields.City
	user.State = fields.State
	user.Country = fields.Country
	user.BirthMonth = fields.BirthMonth
	user.BirthYear = fields.BirthYear
	user.Pregnant = fields.Pregnant
	user.HasAsthma = fields.HasAsthma
	user.HasBronchitis = fields.HasBronchitis
	user.HasCopd = fields.HasCopd
	r.users[id] = user
	return user, nil
}

func newAuthService(repo Repository) Service {
	return NewService(
		Config{Secret: "test-secret", TokenTTL: time.Hour, RefreshTokenTTL: 24 * time.Hour},
		repo,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func validRegistration() RegisterRequest {
	return RegisterRequest{
		Phone:    "+15550100123",
		Password: "correct-horse",
		HealthFields: HealthFields{
			City:       "Los Angeles",
			State:      "CA",
			Country:    "USA",
			BirthMonth: 6,
			BirthYear:  1990,
			HasAsthma:  true,
		},
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(newStubRepo())

	view, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)
	require.Equal(t, "+15550100123", view.Phone)
	require.True(t, view.HasAsthma)

	resp, err := svc.Login(context.Background(), LoginRequest{Phone: "+15550100123", Password: "correct-horse"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.NotEmpty(t, resp.RefreshToken)
	require.Equal(t, view.ID, resp.User.ID)
}

func TestRegisterDuplicatePhone(t *testing.T) {
	svc := newAuthService(newStubRepo())
	_, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), validRegistration())
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "phone_exists"))
}

func TestRegisterRejectsBadInput(t *testing.T) {
	svc := newAuthService(newStubRepo())

	req := validRegistration()
	req.Phone = "not-a-phone"
	_, err := svc.Register(context.Background(), req)
	require.True(t, apperrors.IsCode(err, "invalid_input"))

	req = validRegistration()
	req.Password = "short"
	_, err = svc.Register(context.Background(), req)
	require.True(t, apperrors.IsCode(err, "invalid_input"))
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newAuthService(newStubRepo())
	_, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginRequest{Phone: "+15550100123", Password: "wrong-password"})
	require.True(t, apperrors.IsCode(err, "invalid_credentials"))
}

func TestValidateTokenCarriesPhoneClaim(t *testing.T) {
	svc := newAuthService(newStubRepo())
	_, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), LoginRequest{Phone: "+15550100123", Password: "correct-horse"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(context.Background(), resp.Token)
	require.NoError(t, err)
	require.Equal(t, resp.User.ID, claims.UserID)
	require.Equal(t, "+15550100123", claims.Phone)

	// Refresh tokens must not validate as access tokens.
	_, err = svc.ValidateToken(context.Background(), resp.RefreshToken)
	require.True(t, apperrors.IsCode(err, "invalid_token"))
}

func TestRefreshIssuesNewTokens(t *testing.T) {
	svc := newAuthService(newStubRepo())
	_, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)
	resp, err := svc.Login(context.Background(), LoginRequest{Phone: "+15550100123", Password: "correct-horse"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), resp.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, refreshed.Token)

	_, err = svc.Refresh(context.Background(), resp.Token)
	require.True(t, apperrors.IsCode(err, "invalid_token"))
}

func TestUpdateProfileAndHealthProfile(t *testing.T) {
	svc := newAuthService(newStubRepo())
	view, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(context.Background(), view.ID, HealthFields{
		City: "Fresno", State: "CA", Country: "USA",
		BirthMonth: 6, BirthYear: 1990,
		HasAsthma: true, HasBronchitis: true,
	})
	require.NoError(t, err)
	require.Equal(t, "Fresno", updated.City)
	require.True(t, updated.HasBronchitis)

	profile, err := svc.HealthProfile(context.Background(), view.ID)
	require.NoError(t, err)
	require.Equal(t, "1", profile.UserID)
	require.Equal(t, "+15550100123", profile.Phone)
	require.True(t, profile.HasAsthma)
	require.True(t, profile.HasBronchitis)

	_, err = svc.HealthProfile(context.Background(), 999)
	require.True(t, apperrors.IsCode(err, "user_not_found"))
}
