package response

import (
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/checkout-handshake/internal/models"
)

func TestError(t *testing.T) {
	msg := "Your card was declined."
	resp := Error(msg)

	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, msg, resp.Error)
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name    string
		req     models.CreateIntentRequest
		wantMsg string
	}{
		{
			name:    "missing currency",
			req:     models.CreateIntentRequest{Amount: 100},
			wantMsg: "field Currency is a required field",
		},
		{
			name:    "wrong length",
			req:     models.CreateIntentRequest{Amount: 100, Currency: "usdt"},
			wantMsg: "field Currency must be exactly 3 characters long",
		},
		{
			name:    "digits",
			req:     models.CreateIntentRequest{Amount: 100, Currency: "us1"},
			wantMsg: "field Currency can contain only letters",
		},
	}

	v := validator.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.req)
			require.Error(t, err)

			resp := ValidationError(err.(validator.ValidationErrors))
			assert.Equal(t, StatusError, resp.Status)
			assert.Equal(t, tt.wantMsg, resp.Error)
		})
	}
}
