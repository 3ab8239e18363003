package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOTPKey(t *testing.T) {
	assert.Equal(t, "otp:ana@pos.test", otpKey("ana@pos.test"))
	assert.Equal(t, "otp:attempts:ana@pos.test", attemptsKey("ana@pos.test"))
}
