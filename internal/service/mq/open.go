package mq

import (
	"fmt"

	"orderbook-core/pkg/config"
	"orderbook-core/pkg/database"
	"orderbook-core/pkg/errno"
)

// Open 按 mq.type 创建生产者, "none" 返回 nil
func Open(cfg *config.Config) (Producer, error) {
	switch cfg.MQ.Type {
	case "", "none":
		return nil, nil
	case "redis":
		rdb, err := database.ConnectRedis(cfg.Redis)
		if err != nil {
			return nil, err
		}
		return NewRedisProducer(rdb), nil
	case "kafka":
		if len(cfg.Kafka.Brokers) == 0 {
			return nil, errno.Wrapf(errno.ErrConfig, "kafka.brokers is empty")
		}
		return NewKafkaProducer(cfg.Kafka.Brokers), nil
	}
	return nil, errno.Wrap(errno.ErrConfig, fmt.Errorf("unknown mq type %q", cfg.MQ.Type))
}
