package checkout

import (
	"context"

	"github.com/magabrotheeeer/checkout-handshake/internal/models"
)

// WidgetState данные способа оплаты, собранные виджетом процессора.
// Ядро их не разбирает и передаёт в Widget.Confirm как есть.
type WidgetState any

// WidgetResult итог клиентского подтверждения у процессора.
// Остальные поля ответа процессора ядру не нужны.
type WidgetResult struct {
	Status       models.IntentStatus
	ErrorMessage string
	RedirectURL  string
}

// Widget клиентская часть процессора, которая подтверждает намерение по client secret.
type Widget interface {
	Confirm(ctx context.Context, clientSecret string, payment WidgetState, returnURL string) (WidgetResult, error)
}
