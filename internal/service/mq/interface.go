package mq

import "context"

// Message 一条发往消息队列的订单簿事件
type Message struct {
	Topic   string
	Key     string // 事件去重键, 同时作为 Kafka 分区键
	Payload []byte // JSON
}

// Producer 生产者接口
type Producer interface {
	// Publish 发送消息
	// key 相同的消息进入同一个分区, 保证同一条日志的重复投递顺序一致
	Publish(ctx context.Context, topic string, key string, payload []byte) error
	Close() error
}
