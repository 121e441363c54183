package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"primetop-backend/internal/config"
	"primetop-backend/internal/database"
	"primetop-backend/internal/models"
)

// Уведомления в Telegram делаются best-effort: ошибка доставки пишется
// в лог и никогда не роняет запрос, который её вызвал.

var (
	cfg    *config.Config
	client = &http.Client{Timeout: 10 * time.Second}
)

func Init(c *config.Config) {
	cfg = c
	if !enabled() {
		log.Println("[WARN] Telegram-уведомления выключены (нет TELEGRAM_BOT_TOKEN или NOTIFY_TG=0)")
	}
}

func enabled() bool {
	return cfg != nil && cfg.NotifyTGEnabled && cfg.TelegramBotToken != ""
}

type sendMessageRequest struct {
	ChatID    int64  `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

// SendMessage отправляет текст в чат через Bot API.
func SendMessage(chatID int64, text string) error {
	if !enabled() {
		return nil
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", cfg.TelegramAPIURL, cfg.TelegramBotToken)
	body, err := json.Marshal(sendMessageRequest{ChatID: chatID, Text: text})
	if err != nil {
		return err
	}

	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API вернул статус %d", resp.StatusCode)
	}
	return nil
}

// OrderStatusChanged рассылает смену статуса заказа всем активным
// Telegram-привязкам пользователей клиента.
func OrderStatusChanged(orderID, clientID uint, status string) {
	if !enabled() {
		return
	}

	var links []models.TelegramLink
	err := database.DB.
		Joins("JOIN users ON users.id = telegram_links.user_id").
		Where("users.client_id = ? AND telegram_links.is_active = ?", clientID, true).
		Find(&links).Error
	if err != nil {
		log.Printf("[WARN] не удалось получить Telegram-привязки клиента %d: %v", clientID, err)
		return
	}

	text := fmt.Sprintf("Заказ №%d: новый статус — %q", orderID, status)
	now := time.Now()
	for _, link := range links {
		if err := SendMessage(link.ChatID, text); err != nil {
			log.Printf("[WARN] не доставлено уведомление в чат %d: %v", link.ChatID, err)
			continue
		}
		database.DB.Model(&models.TelegramLink{}).
			Where("id = ?", link.ID).
			Update("last_status_sent_at", now)
	}
}
