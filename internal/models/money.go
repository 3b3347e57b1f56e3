// Package models содержит доменные структуры платёжного рукопожатия:
// сумму в минимальных единицах валюты, платёжное намерение, его статус
// и короткоживущий дескриптор, который клиент получает от relay.
package models

import (
	"errors"
	"fmt"
	"strings"
)

// MinAmount минимальная сумма платежа в минимальных единицах валюты ($0.50).
const MinAmount int64 = 50

var (
	// ErrAmountTooSmall сумма меньше MinAmount.
	ErrAmountTooSmall = errors.New("amount below minimum")
	// ErrInvalidCurrency код валюты не похож на ISO 4217.
	ErrInvalidCurrency = errors.New("invalid currency")
)

// Money хранит сумму в минимальных единицах (центах), никогда во float.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// NewMoney создаёт Money с нормализованным (строчным) кодом валюты.
func NewMoney(amount int64, currency string) Money {
	return Money{
		Amount:   amount,
		Currency: NormalizeCurrency(currency),
	}
}

// NormalizeCurrency приводит код валюты к виду, который ожидает процессор: "usd".
func NormalizeCurrency(currency string) string {
	return strings.ToLower(strings.TrimSpace(currency))
}

// Validate проверяет сумму против min и формат валюты.
// Текст ошибки предназначен для показа пользователю как есть.
func (m Money) Validate(min int64) error {
	if len(m.Currency) != 3 {
		return fmt.Errorf("%w: currency must be a 3-letter ISO 4217 code, got %q", ErrInvalidCurrency, m.Currency)
	}
	for _, r := range m.Currency {
		if r < 'a' || r > 'z' {
			return fmt.Errorf("%w: currency must be a 3-letter ISO 4217 code, got %q", ErrInvalidCurrency, m.Currency)
		}
	}
	if m.Amount < min {
		return fmt.Errorf("%w: amount must be at least %s", ErrAmountTooSmall, Money{Amount: min, Currency: m.Currency})
	}
	return nil
}

// String форматирует сумму в основных единицах: "$99.96" для usd, "0.50 EUR" для остальных.
func (m Money) String() string {
	sign := ""
	amount := m.Amount
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	major := fmt.Sprintf("%d.%02d", amount/100, amount%100)
	if m.Currency == "usd" {
		return sign + "$" + major
	}
	return sign + major + " " + strings.ToUpper(m.Currency)
}
