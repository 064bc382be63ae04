package repository

import (
	"time"
)

// CacheRepository определяет методы для работы с кешем транскриптов.
// Кеш не авторитетен, поэтому интерфейс умышленно узкий: записать JSON
// с TTL, прочитать его обратно и перечислить ключи одной попытки.
type CacheRepository interface {
	SetJSON(key string, value interface{}, expiration time.Duration) error
	GetJSON(key string, dest interface{}) error
	// Keys возвращает все ключи по шаблону (например, "user:1:company:2:*").
	// Используется только экспортом транскриптов.
	Keys(pattern string) ([]string, error)
}
