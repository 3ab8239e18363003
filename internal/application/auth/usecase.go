package auth

import (
	"bytes"
	"context"
	"crypto/rand"
	"fmt"
	"html/template"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
	"github.com/jhoicas/pos-api/pkg/jwt"
	"github.com/jhoicas/pos-api/pkg/logger"
)

// BcryptCost costo de bcrypt para contraseñas, refresh tokens y OTP.
const BcryptCost = 10

// OTPTTL vigencia del OTP de recuperación.
const OTPTTL = 5 * time.Minute

// MaxOTPAttempts intentos fallidos tras los cuales el OTP se invalida.
const MaxOTPAttempts = 5

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret            string
	RefreshSecret     string
	ExpMinutes        int
	RefreshExpMinutes int
	Issuer            string
}

// AuthUseCase casos de uso de autenticación: registro, login, refresh y recuperación por OTP.
type AuthUseCase struct {
	userRepo repository.UserRepository
	otp      OTPStore
	mailer   Mailer
	jwtCfg   JWTConfig
	log      *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, otp OTPStore, mailer Mailer, jwtCfg JWTConfig, log *logger.Logger) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{userRepo: userRepo, otp: otp, mailer: mailer, jwtCfg: jwtCfg, log: log}
}

// RegisterUser crea un usuario: hashea password con bcrypt y persiste. Devuelve ErrEmailAlreadyExists si el email ya existe.
func (uc *AuthUseCase) RegisterUser(in dto.RegisterRequest) (*dto.UserResponse, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email y password son requeridos", domain.ErrInvalidInput)
	}
	role := in.Role
	if role == "" {
		role = entity.RoleStaff
	}
	if !entity.IsValidRole(role) {
		return nil, fmt.Errorf("%w: rol %q", domain.ErrInvalidInput, role)
	}
	existing, err := uc.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), BcryptCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = email
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// Login verifica email/password, genera el par de tokens y guarda el hash del refresh token.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(normalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	pair, err := uc.issue(user)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         *ToUserResponse(user),
	}, nil
}

// Refresh valida el refresh token contra el hash guardado y rota el par.
func (uc *AuthUseCase) Refresh(in dto.RefreshRequest) (*dto.TokenPair, error) {
	if in.UserID == "" || in.RefreshToken == "" {
		return nil, domain.ErrForbidden
	}
	user, err := uc.userRepo.GetByID(in.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.RefreshTokenHash == "" {
		return nil, domain.ErrForbidden
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.RefreshTokenHash), []byte(tokenDigest(in.RefreshToken))); err != nil {
		return nil, domain.ErrForbidden
	}
	if _, err := jwt.Parse(uc.jwtCfg.RefreshSecret, in.RefreshToken); err != nil {
		return nil, domain.ErrForbidden
	}
	return uc.issue(user)
}

// issue firma access y refresh con secretos distintos y persiste el hash del refresh.
func (uc *AuthUseCase) issue(user *entity.User) (*dto.TokenPair, error) {
	id := jwt.Identity{UserID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role}
	access, err := jwt.Generate(uc.jwtCfg.Secret, id, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	refresh, err := jwt.Generate(uc.jwtCfg.RefreshSecret, id, uc.jwtCfg.Issuer, uc.jwtCfg.RefreshExpMinutes)
	if err != nil {
		return nil, err
	}
	// bcrypt sólo considera 72 bytes; el refresh se guarda como hash de su firma
	hash, err := bcrypt.GenerateFromPassword([]byte(tokenDigest(refresh)), BcryptCost)
	if err != nil {
		return nil, err
	}
	if err := uc.userRepo.UpdateRefreshToken(user.ID, string(hash)); err != nil {
		return nil, err
	}
	return &dto.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// tokenDigest último segmento del JWT (la firma), único por token.
func tokenDigest(token string) string {
	if i := strings.LastIndexByte(token, '.'); i >= 0 {
		return token[i+1:]
	}
	return token
}

// ForgotPassword genera un OTP de 6 dígitos, guarda su hash por 5 minutos y lo envía por correo.
func (uc *AuthUseCase) ForgotPassword(ctx context.Context, in dto.ForgotPasswordRequest) error {
	email := normalizeEmail(in.Email)
	user, err := uc.userRepo.GetByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("%w: email no registrado", domain.ErrNotFound)
	}
	code, err := generateOTP()
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), BcryptCost)
	if err != nil {
		return err
	}
	if err := uc.otp.Save(ctx, email, string(hash), OTPTTL); err != nil {
		return fmt.Errorf("guardar otp: %w", err)
	}
	body, err := renderOTPMail(code)
	if err != nil {
		return err
	}
	if err := uc.mailer.Send(ctx, user.Email, "Código para restablecer tu contraseña", body); err != nil {
		uc.log.Error().Err(err).Str("email", email).Msg("no se pudo enviar el OTP")
		return fmt.Errorf("enviar otp: %w", err)
	}
	return nil
}

// VerifyOTP compara el OTP con el hash vigente.
func (uc *AuthUseCase) VerifyOTP(ctx context.Context, in dto.VerifyOTPRequest) error {
	return uc.checkOTP(ctx, normalizeEmail(in.Email), in.OTP)
}

// ResetPassword verifica el OTP, cambia la contraseña y consume el OTP.
func (uc *AuthUseCase) ResetPassword(ctx context.Context, in dto.ResetPasswordRequest) error {
	email := normalizeEmail(in.Email)
	if in.NewPassword == "" {
		return fmt.Errorf("%w: newPassword requerido", domain.ErrInvalidInput)
	}
	if err := uc.checkOTP(ctx, email, in.OTP); err != nil {
		return err
	}
	user, err := uc.userRepo.GetByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("%w: email no registrado", domain.ErrNotFound)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), BcryptCost)
	if err != nil {
		return err
	}
	if err := uc.userRepo.UpdatePassword(user.ID, string(hash)); err != nil {
		return err
	}
	if err := uc.otp.Delete(ctx, email); err != nil {
		uc.log.Warn().Err(err).Str("email", email).Msg("no se pudo borrar el OTP usado")
	}
	return nil
}

func (uc *AuthUseCase) checkOTP(ctx context.Context, email, code string) error {
	if email == "" || code == "" {
		return domain.ErrInvalidOTP
	}
	hash, err := uc.otp.Get(ctx, email)
	if err != nil {
		return fmt.Errorf("leer otp: %w", err)
	}
	if hash == "" {
		return domain.ErrInvalidOTP
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) != nil {
		n, err := uc.otp.Fail(ctx, email, OTPTTL)
		if err != nil {
			return fmt.Errorf("contar intento otp: %w", err)
		}
		if n >= MaxOTPAttempts {
			uc.log.Warn().Str("email", email).Int64("attempts", n).Msg("OTP invalidado por intentos fallidos")
			if err := uc.otp.Delete(ctx, email); err != nil {
				return fmt.Errorf("invalidar otp: %w", err)
			}
		}
		return domain.ErrInvalidOTP
	}
	return nil
}

// generateOTP número aleatorio de 6 dígitos (100000..999999).
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

var otpMail = template.Must(template.New("otp").Parse(`<div style="font-family: Arial, sans-serif; padding: 20px;">
  <h2>Solicitud de cambio de contraseña</h2>
  <p>Solicitaste restablecer tu contraseña. Este es tu código:</p>
  <h3 style="background-color: #f0f0f0; padding: 10px; text-align: center; font-size: 24px;">{{.}}</h3>
  <p>El código vence en 5 minutos.</p>
  <p>Si no hiciste esta solicitud, ignora este correo.</p>
</div>`))

func renderOTPMail(code string) (string, error) {
	var buf bytes.Buffer
	if err := otpMail.Execute(&buf, code); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ToUserResponse convierte la entidad a DTO (sin hashes).
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
