package auth

import (
	"context"
	"time"
)

// OTPStore guarda el hash del OTP de recuperación con expiración.
type OTPStore interface {
	Save(ctx context.Context, email, hash string, ttl time.Duration) error
	// Get devuelve "" si no existe o expiró.
	Get(ctx context.Context, email string) (string, error)
	// Delete invalida el OTP y su contador de intentos.
	Delete(ctx context.Context, email string) error
	// Fail suma un intento fallido y devuelve el total; el contador vence con ttl.
	Fail(ctx context.Context, email string, ttl time.Duration) (int64, error)
}

// Mailer envía correos HTML.
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}
