package orders

import "regexp"

// Статусы заказа — открытые строки, но дефолты и сопоставление
// "доставлен"/"отменён" живут только здесь.
const (
	StatusPending = "В ожидании"
	StatusCreated = "Создан"
)

const (
	DefaultHistoryNote = "Created via API"
	CartHistoryNote    = "Created from cart"
)

var (
	deliveredRe = regexp.MustCompile(`(?i)(delivered|доставлен|доставлено)`)
	cancelledRe = regexp.MustCompile(`(?i)(cancelled|canceled|отменен|отменён|отменено)`)
)

// IsDelivered: статус означает доставку (независимо от языка и формы слова).
func IsDelivered(status string) bool {
	return deliveredRe.MatchString(status)
}

// IsCancelled: статус означает отмену.
func IsCancelled(status string) bool {
	return cancelledRe.MatchString(status)
}
