package initializers

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"noblelift-backend/config"
	tokenstore "noblelift-backend/lib/auth/token-store"
)

// InitRedis без REDIS_HOST refresh токены не хранятся на сервере
func InitRedis(ctx context.Context) tokenstore.Provider {
	if config.Conf.Redis.Host == "" {
		log.Warn("redis не настроен, refresh токены не отзываются")
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", config.Conf.Redis.Host, config.Conf.Redis.Port),
		Password: config.Conf.Redis.Password,
		DB:       config.Conf.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		panic("Ошибка подключения к redis: " + err.Error())
	}
	go func() {
		<-ctx.Done()
		if err := client.Close(); err != nil {
			log.WithError(err).Error("ошибка закрытия соединения с redis")
		}
	}()
	log.Info("Сервис успешно подключен к redis")
	return tokenstore.NewInstance(client)
}
