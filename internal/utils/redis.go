// 包 utils：外部连接与证书工具
package utils

import (
	"crew-map/internal/config"
	"crew-map/internal/logger"

	"github.com/redis/go-redis/v9"
)

// OpenRedis：按配置打开 Redis 客户端
// 约束：未配置地址时返回 nil，调用方据此关闭访客统计
func OpenRedis(c *config.Config) *redis.Client {
	if c.RedisAddr == "" {
		return nil
	}
	db := c.RedisDB
	if db < 0 {
		db = 0
	}
	logger.L().Debug("redis_config", "addr", c.RedisAddr, "db", db)
	return redis.NewClient(&redis.Options{Addr: c.RedisAddr, Password: c.RedisPass, DB: db})
}
