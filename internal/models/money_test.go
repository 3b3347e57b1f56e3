package models

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney_Validate(t *testing.T) {
	tests := []struct {
		name    string
		money   Money
		wantErr error
		wantMsg string
	}{
		{name: "minimum is accepted", money: NewMoney(50, "usd")},
		{name: "regular amount", money: NewMoney(9996, "USD")},
		{name: "below minimum", money: NewMoney(25, "usd"), wantErr: ErrAmountTooSmall, wantMsg: "$0.50"},
		{name: "zero", money: NewMoney(0, "usd"), wantErr: ErrAmountTooSmall},
		{name: "negative", money: NewMoney(-100, "usd"), wantErr: ErrAmountTooSmall},
		{name: "other currency minimum", money: NewMoney(10, "eur"), wantErr: ErrAmountTooSmall, wantMsg: "0.50 EUR"},
		{name: "empty currency", money: NewMoney(100, ""), wantErr: ErrInvalidCurrency},
		{name: "long currency", money: NewMoney(100, "usdt"), wantErr: ErrInvalidCurrency},
		{name: "digits in currency", money: NewMoney(100, "us1"), wantErr: ErrInvalidCurrency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.money.Validate(MinAmount)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr))
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestMoney_String(t *testing.T) {
	assert.Equal(t, "$99.96", NewMoney(9996, "usd").String())
	assert.Equal(t, "$0.05", NewMoney(5, "usd").String())
	assert.Equal(t, "12.00 EUR", NewMoney(1200, "eur").String())
	assert.Equal(t, "-$1.50", NewMoney(-150, "usd").String())
}

func TestNewMoney_NormalizesCurrency(t *testing.T) {
	assert.Equal(t, "usd", NewMoney(100, " USD ").Currency)
}

func TestIntentStatus_Terminal(t *testing.T) {
	terminal := []IntentStatus{StatusSucceeded, StatusFailed, StatusCanceled}
	inProgress := []IntentStatus{
		StatusRequiresPaymentMethod, StatusRequiresConfirmation, StatusRequiresAction,
		StatusRequiresCapture, StatusProcessing,
	}
	for _, s := range terminal {
		assert.True(t, s.IsTerminal(), s)
	}
	for _, s := range inProgress {
		assert.False(t, s.IsTerminal(), s)
	}
	assert.True(t, StatusCanceled.IsFailure())
	assert.False(t, StatusSucceeded.IsFailure())
}

func TestIntentHandle_NeverPrintsSecret(t *testing.T) {
	h := IntentHandle{ID: "pi_123", ClientSecret: "pi_123_secret_abc"}

	var buf strings.Builder
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	logger.Info("intent created", slog.Any("handle", h))

	assert.NotContains(t, buf.String(), "pi_123_secret_abc")
	assert.Contains(t, buf.String(), "pi_123")
	assert.NotContains(t, fmt.Sprint(h), "secret")
	assert.False(t, h.IsZero())
	assert.True(t, IntentHandle{}.IsZero())
}
