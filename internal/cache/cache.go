// Package cache provides a small read-through cache for the admin settings
// singleton. The banner and category list are read on every storefront page
// load but change rarely, so they are worth keeping out of mongo.
package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	bannerKey     = "settings:banner"
	categoriesKey = "settings:categories"
	settingsTTL   = 10 * time.Minute
)

// Settings caches the banner and category list. A nil client disables every
// method, so the caller never has to branch on whether redis is configured.
type Settings struct {
	client *redis.Client
}

// New connects to redis when addr is set and returns a disabled cache
// otherwise. A redis that is configured but unreachable fails the boot, same
// as the document store.
func New(addr, password string) (*Settings, error) {
	if addr == "" {
		log.Println("[CACHE] [INFO] REDIS_ADDR not set, settings cache disabled")
		return &Settings{}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	log.Println("[CACHE] [INFO] redis connected:", addr)
	return &Settings{client: client}, nil
}

func (s *Settings) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

func (s *Settings) Banner(ctx context.Context) (string, bool) {
	if s.client == nil {
		return "", false
	}
	value, err := s.client.Get(ctx, bannerKey).Result()
	if err != nil {
		if err != redis.Nil {
			log.Println("[CACHE] [ERROR] banner get failed:", err)
		}
		return "", false
	}
	return value, true
}

func (s *Settings) SetBanner(ctx context.Context, banner string) {
	if s.client == nil {
		return
	}
	if err := s.client.Set(ctx, bannerKey, banner, settingsTTL).Err(); err != nil {
		log.Println("[CACHE] [ERROR] banner set failed:", err)
	}
}

func (s *Settings) Categories(ctx context.Context) ([]string, bool) {
	if s.client == nil {
		return nil, false
	}
	raw, err := s.client.Get(ctx, categoriesKey).Result()
	if err != nil {
		if err != redis.Nil {
			log.Println("[CACHE] [ERROR] categories get failed:", err)
		}
		return nil, false
	}

	var categories []string
	if err := json.Unmarshal([]byte(raw), &categories); err != nil {
		log.Println("[CACHE] [ERROR] categories decode failed:", err)
		return nil, false
	}
	return categories, true
}

func (s *Settings) SetCategories(ctx context.Context, categories []string) {
	if s.client == nil {
		return
	}
	raw, err := json.Marshal(categories)
	if err != nil {
		return
	}
	if err := s.client.Set(ctx, categoriesKey, raw, settingsTTL).Err(); err != nil {
		log.Println("[CACHE] [ERROR] categories set failed:", err)
	}
}

// Invalidate drops both cached values. Called after any settings write.
func (s *Settings) Invalidate(ctx context.Context) {
	if s.client == nil {
		return
	}
	if err := s.client.Del(ctx, bannerKey, categoriesKey).Err(); err != nil {
		log.Println("[CACHE] [ERROR] invalidate failed:", err)
	}
}
