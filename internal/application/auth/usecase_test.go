package auth_test

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/pos-api/internal/application/auth"
	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/testutil/memstore"
	"github.com/jhoicas/pos-api/pkg/jwt"
)

type memOTP struct {
	mu       sync.Mutex
	data     map[string]string
	attempts map[string]int64
	ttl      time.Duration
}

func (m *memOTP) Save(_ context.Context, email, hash string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[email] = hash
	delete(m.attempts, email)
	m.ttl = ttl
	return nil
}

func (m *memOTP) Fail(_ context.Context, email string, _ time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts[email]++
	return m.attempts[email], nil
}

func (m *memOTP) Get(_ context.Context, email string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[email], nil
}

func (m *memOTP) Delete(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, email)
	delete(m.attempts, email)
	return nil
}

type sentMail struct{ to, subject, html string }

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(_ context.Context, to, subject, html string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to, subject, html})
	return nil
}

var otpInMail = regexp.MustCompile(`>(\d{6})<`)

type fixture struct {
	uc     *auth.AuthUseCase
	db     *memstore.DB
	otp    *memOTP
	mailer *fakeMailer
	cfg    auth.JWTConfig
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		db:     memstore.New(),
		otp:    &memOTP{data: map[string]string{}, attempts: map[string]int64{}},
		mailer: &fakeMailer{},
		cfg: auth.JWTConfig{
			Secret:            "access-secret",
			RefreshSecret:     "refresh-secret",
			ExpMinutes:        60,
			RefreshExpMinutes: 600,
			Issuer:            "pos-api-test",
		},
	}
	f.uc = auth.NewAuthUseCase(f.db.Users(), f.otp, f.mailer, f.cfg, nil)
	return f
}

func (f *fixture) register(t *testing.T, email, password string) *dto.UserResponse {
	t.Helper()
	u, err := f.uc.RegisterUser(dto.RegisterRequest{Name: "Lan", Email: email, Password: password})
	require.NoError(t, err)
	return u
}

func TestRegister(t *testing.T) {
	f := newFixture(t)

	u := f.register(t, "  Lan@Shop.VN ", "secreto")
	assert.Equal(t, "lan@shop.vn", u.Email)
	assert.Equal(t, entity.RoleStaff, u.Role)

	stored, err := f.db.Users().GetByEmail("lan@shop.vn")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secreto")))

	_, err = f.uc.RegisterUser(dto.RegisterRequest{Email: "LAN@shop.vn", Password: "otro123"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	_, err = f.uc.RegisterUser(dto.RegisterRequest{Email: "x@shop.vn", Password: "secreto", Role: "OWNER"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	admin, err := f.uc.RegisterUser(dto.RegisterRequest{Email: "jefe@shop.vn", Password: "secreto", Role: entity.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, admin.Role)
	assert.Equal(t, "jefe@shop.vn", admin.Name)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "lan@shop.vn", "secreto")

	res, err := f.uc.Login(dto.LoginRequest{Email: "LAN@shop.vn", Password: "secreto"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.User.ID)

	id, err := jwt.Parse(f.cfg.Secret, res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id.UserID)
	assert.Equal(t, entity.RoleStaff, id.Role)

	// el refresh se firma con otro secreto
	_, err = jwt.Parse(f.cfg.Secret, res.RefreshToken)
	assert.Error(t, err)
	_, err = jwt.Parse(f.cfg.RefreshSecret, res.RefreshToken)
	assert.NoError(t, err)

	_, err = f.uc.Login(dto.LoginRequest{Email: "lan@shop.vn", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = f.uc.Login(dto.LoginRequest{Email: "nadie@shop.vn", Password: "secreto"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestRefresh_RotaElToken(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "lan@shop.vn", "secreto")
	login, err := f.uc.Login(dto.LoginRequest{Email: "lan@shop.vn", Password: "secreto"})
	require.NoError(t, err)

	pair, err := f.uc.Refresh(dto.RefreshRequest{UserID: u.ID, RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, pair.RefreshToken)

	_, err = f.uc.Refresh(dto.RefreshRequest{UserID: u.ID, RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, domain.ErrForbidden, "el refresh anterior queda invalidado")

	_, err = f.uc.Refresh(dto.RefreshRequest{UserID: u.ID, RefreshToken: pair.RefreshToken})
	assert.NoError(t, err)
}

func TestRefresh_Rechazos(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "lan@shop.vn", "secreto")

	_, err := f.uc.Refresh(dto.RefreshRequest{UserID: u.ID, RefreshToken: "a.b.c"})
	assert.ErrorIs(t, err, domain.ErrForbidden, "sin sesión guardada")

	login, err := f.uc.Login(dto.LoginRequest{Email: "lan@shop.vn", Password: "secreto"})
	require.NoError(t, err)

	_, err = f.uc.Refresh(dto.RefreshRequest{UserID: "otro", RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.uc.Refresh(dto.RefreshRequest{UserID: u.ID})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.uc.Refresh(dto.RefreshRequest{UserID: u.ID, RefreshToken: login.AccessToken})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestForgotVerifyReset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "lan@shop.vn", "secreto")

	require.NoError(t, f.uc.ForgotPassword(ctx, dto.ForgotPasswordRequest{Email: "Lan@shop.vn"}))
	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, "lan@shop.vn", f.mailer.sent[0].to)
	assert.Equal(t, auth.OTPTTL, f.otp.ttl)

	m := otpInMail.FindStringSubmatch(f.mailer.sent[0].html)
	require.Len(t, m, 2, "el correo lleva el código")
	code := m[1]

	assert.ErrorIs(t, f.uc.VerifyOTP(ctx, dto.VerifyOTPRequest{Email: "lan@shop.vn", OTP: "000000"}), domain.ErrInvalidOTP)
	assert.NoError(t, f.uc.VerifyOTP(ctx, dto.VerifyOTPRequest{Email: "lan@shop.vn", OTP: code}))

	require.NoError(t, f.uc.ResetPassword(ctx, dto.ResetPasswordRequest{Email: "lan@shop.vn", OTP: code, NewPassword: "nueva123"}))
	_, err := f.uc.Login(dto.LoginRequest{Email: "lan@shop.vn", Password: "nueva123"})
	assert.NoError(t, err)

	// el OTP se consume
	assert.ErrorIs(t, f.uc.VerifyOTP(ctx, dto.VerifyOTPRequest{Email: "lan@shop.vn", OTP: code}), domain.ErrInvalidOTP)
}

func TestVerifyOTP_InvalidaTrasIntentosFallidos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "lan@shop.vn", "secreto")

	require.NoError(t, f.uc.ForgotPassword(ctx, dto.ForgotPasswordRequest{Email: "lan@shop.vn"}))
	code := otpInMail.FindStringSubmatch(f.mailer.sent[0].html)[1]

	for i := 0; i < auth.MaxOTPAttempts-1; i++ {
		assert.ErrorIs(t, f.uc.VerifyOTP(ctx, dto.VerifyOTPRequest{Email: "lan@shop.vn", OTP: "000000"}), domain.ErrInvalidOTP)
	}
	// aún vigente antes del último intento
	require.NoError(t, f.uc.VerifyOTP(ctx, dto.VerifyOTPRequest{Email: "lan@shop.vn", OTP: code}))

	assert.ErrorIs(t, f.uc.VerifyOTP(ctx, dto.VerifyOTPRequest{Email: "lan@shop.vn", OTP: "000000"}), domain.ErrInvalidOTP)
	assert.ErrorIs(t, f.uc.VerifyOTP(ctx, dto.VerifyOTPRequest{Email: "lan@shop.vn", OTP: code}), domain.ErrInvalidOTP)
	assert.ErrorIs(t, f.uc.ResetPassword(ctx, dto.ResetPasswordRequest{Email: "lan@shop.vn", OTP: code, NewPassword: "nueva123"}), domain.ErrInvalidOTP)

	// un OTP nuevo reinicia los intentos
	require.NoError(t, f.uc.ForgotPassword(ctx, dto.ForgotPasswordRequest{Email: "lan@shop.vn"}))
	code = otpInMail.FindStringSubmatch(f.mailer.sent[1].html)[1]
	assert.ErrorIs(t, f.uc.VerifyOTP(ctx, dto.VerifyOTPRequest{Email: "lan@shop.vn", OTP: "000000"}), domain.ErrInvalidOTP)
	assert.NoError(t, f.uc.VerifyOTP(ctx, dto.VerifyOTPRequest{Email: "lan@shop.vn", OTP: code}))
}

func TestForgotPassword_Errores(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.uc.ForgotPassword(ctx, dto.ForgotPasswordRequest{Email: "nadie@shop.vn"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	f.register(t, "lan@shop.vn", "secreto")
	f.mailer.err = errors.New("smtp caído")
	err = f.uc.ForgotPassword(ctx, dto.ForgotPasswordRequest{Email: "lan@shop.vn"})
	assert.Error(t, err)

	assert.ErrorIs(t, f.uc.ResetPassword(ctx, dto.ResetPasswordRequest{Email: "lan@shop.vn", OTP: "123456"}), domain.ErrInvalidInput)
	assert.ErrorIs(t, f.uc.ResetPassword(ctx, dto.ResetPasswordRequest{Email: "lan@shop.vn", OTP: "123456", NewPassword: "x"}), domain.ErrInvalidOTP)
}
