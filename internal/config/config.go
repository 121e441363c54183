package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	JWTSecret   string
	CORSOrigins string

	// TTL выданных токенов в часах
	AuthTokenTTLHours int

	// Redis-кэш каталога; пустой адрес — кэш отключён
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Telegram-уведомления о смене статуса заказа
	TelegramBotToken string
	TelegramAPIURL   string
	NotifyTGEnabled  bool
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Файл .env не найден, используем переменные окружения")
	}

	ttlHours, _ := strconv.Atoi(getEnv("AUTH_TOKEN_TTL_HOURS", "12"))
	if ttlHours <= 0 {
		ttlHours = 12
	}

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	cfg := &Config{
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:       getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=primetop port=5432 sslmode=disable"),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		CORSOrigins:       getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		AuthTokenTTLHours: ttlHours,
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisDB:           redisDB,
		TelegramBotToken:  getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramAPIURL:    getEnv("TELEGRAM_API_URL", "https://api.telegram.org"),
		NotifyTGEnabled:   getEnv("NOTIFY_TG_ENABLED", "true") == "true",
	}

	// Проверки на запуск в production
	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] Переменная окружения JWT_SECRET не задана! Обязательна для работы.")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET должен быть не короче 32 символов! Угроза безопасности.")
	}
	if cfg.DatabaseDSN == "host=localhost user=postgres password=postgres dbname=primetop port=5432 sslmode=disable" {
		log.Println("[WARN] DATABASE_DSN использует значение по умолчанию, для production задай собственное подключение к Postgres.")
	}
	if cfg.TelegramBotToken == "" {
		log.Println("[WARN] TELEGRAM_BOT_TOKEN не задан, уведомления в Telegram отправляться не будут.")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
