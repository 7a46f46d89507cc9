package cache

import (
	"fmt"

	"leettrack/internal/config"
	"leettrack/internal/tracker"
)

// NewCacheFromConfig creates a SettingsCache based on the cache config type.
func NewCacheFromConfig(cfg config.CacheConfig) (tracker.SettingsCache, error) {
	switch cfg.Type {
	case "filesystem":
		if cfg.Dir == "" {
			return nil, fmt.Errorf("dir required for filesystem cache")
		}
		return NewFileSystemCache(cfg.Dir)
	case "memory":
		return NewMemoryCache(), nil
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("redis_addr required for redis cache")
		}
		return NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB), nil
	default:
		return nil, fmt.Errorf("unknown cache type: %s", cfg.Type)
	}
}
