package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"primetop-backend/internal/config"

	"github.com/go-redis/redis/v8"
)

// Кэш горячих чтений каталога (списки продуктов, типы покрытий).
// Необязательный: без REDIS_ADDR все операции — no-op и запросы идут в Postgres.

var client *redis.Client

const defaultTTL = 60 * time.Second

func Init(cfg *config.Config) {
	if cfg.RedisAddr == "" {
		log.Println("REDIS_ADDR не задан, кэш каталога отключён")
		return
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("[WARN] Redis недоступен (%v), кэш каталога отключён", err)
		return
	}

	client = rdb
	log.Println("Redis подключен, кэш каталога включён")
}

func Enabled() bool { return client != nil }

// GetJSON: прочитать закэшированный ответ в dest. false — промах или кэш выключен.
func GetJSON(ctx context.Context, key string, dest any) bool {
	if client == nil {
		return false
	}
	raw, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false
	}
	return true
}

func SetJSON(ctx context.Context, key string, value any) {
	if client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := client.Set(ctx, key, raw, defaultTTL).Err(); err != nil {
		log.Printf("[WARN] Не удалось записать кэш %s: %v", key, err)
	}
}

// InvalidatePrefix: сбросить все ключи с префиксом (после административных правок каталога).
func InvalidatePrefix(ctx context.Context, prefix string) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Printf("[WARN] Не удалось сбросить кэш %s*: %v", prefix, err)
	}
}
