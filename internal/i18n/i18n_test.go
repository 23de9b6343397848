package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestT_InsufficientBalance(t *testing.T) {
	msg := T("en", "leave.insufficient_balance", map[string]any{"Requested": 5, "Remaining": 2})

	assert.Equal(t, "You cannot apply for 5 day(s). Only 2 day(s) remaining.", msg)
}

func TestT_Vietnamese(t *testing.T) {
	msg := T("vi", "leave.insufficient_balance", map[string]any{"Requested": 5, "Remaining": 2})

	assert.Contains(t, msg, "5 ngày")
}

func TestT_UnknownLocaleFallsBack(t *testing.T) {
	assert.Equal(t, "Not found.", T("fr", "errors.not_found"))
}

func TestT_UnknownMessage(t *testing.T) {
	assert.Equal(t, "no.such.message", T("en", "no.such.message"))
}

func TestNegotiate(t *testing.T) {
	assert.Equal(t, "vi", Negotiate("vi-VN,vi;q=0.9,en;q=0.8"))
	assert.Equal(t, "en", Negotiate("en-US"))
	assert.Equal(t, DefaultLocale(), Negotiate(""))
	assert.Equal(t, DefaultLocale(), Negotiate("de-DE"))
}
