package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"orderbook-core/internal/model"
	"orderbook-core/internal/orderbook"
	"orderbook-core/internal/service/mq"
	"orderbook-core/pkg/crypto_util"
	"orderbook-core/pkg/errno"
	"orderbook-core/pkg/logger"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// LoggingSink 把每个事件打到日志里
type LoggingSink struct {
	log *zap.Logger
}

func NewLoggingSink() *LoggingSink {
	return &LoggingSink{log: logger.Named("events")}
}

func (s *LoggingSink) Deliver(_ context.Context, from, to uint64, events []model.OrderEvent) error {
	for _, ev := range events {
		fields := []zap.Field{
			zap.String("kind", string(ev.Kind)),
			zap.Uint64("order_id", ev.OrderID),
			zap.Uint64("block", ev.BlockNumber),
			zap.String("tx", ev.TxHash.Hex()),
		}
		if ev.Kind == model.EventOrdersMatched {
			fields = append(fields, zap.Uint64("maker_id", ev.MakerID))
		}
		s.log.Info("order event", fields...)
	}
	if len(events) == 0 {
		s.log.Debug("no events", zap.Uint64("from", from), zap.Uint64("to", to))
	}
	return nil
}

// ForwardingSink 解析新订单并 POST 到下游撮合服务
type ForwardingSink struct {
	resolver Resolver
	poster   OrderPoster
	posted   *cache.Cache // 最近已转发的订单 id, 窗口重试时不重复 POST
	log      *zap.Logger
}

func NewForwardingSink(resolver Resolver, poster OrderPoster) *ForwardingSink {
	return &ForwardingSink{
		resolver: resolver,
		poster:   poster,
		posted:   cache.New(30*time.Minute, 10*time.Minute),
		log:      logger.Named("forwarder"),
	}
}

// Deliver 只处理 OrderPlaced, 同一窗口内重复的 id 只解析一次
// 订单不存在或无法解密时跳过, 其余错误返回让整个窗口重试
func (s *ForwardingSink) Deliver(ctx context.Context, _, _ uint64, events []model.OrderEvent) error {
	seen := make(map[uint64]struct{}, len(events))
	for _, ev := range events {
		if ev.Kind != model.EventOrderPlaced {
			continue
		}
		if _, dup := seen[ev.OrderID]; dup {
			continue
		}
		seen[ev.OrderID] = struct{}{}

		key := strconv.FormatUint(ev.OrderID, 10)
		if _, done := s.posted.Get(key); done {
			continue
		}

		order, err := s.resolver.Resolve(ctx, ev.OrderID)
		if err != nil {
			if errors.Is(err, errno.ErrNotFound) || errors.Is(err, errno.ErrDecryption) {
				s.log.Warn("skip unresolvable order",
					zap.Uint64("order_id", ev.OrderID),
					zap.Uint64("block", ev.BlockNumber),
					zap.Error(err))
				continue
			}
			return fmt.Errorf("resolve order %d: %w", ev.OrderID, err)
		}

		if err := s.poster.PostOrder(ctx, orderbook.FromRecord(order, ev.BlockNumber)); err != nil {
			return fmt.Errorf("post order %d: %w", ev.OrderID, err)
		}
		s.posted.SetDefault(key, struct{}{})

		s.log.Info("order forwarded",
			zap.Uint64("order_id", order.ID),
			zap.String("side", string(order.OrderSide())),
			zap.Uint64("amount", order.Amount),
			zap.Uint64("price", order.Price))
	}
	return nil
}

// PublishingSink 把事件以 JSON 发到消息队列, key 为日志的去重键
type PublishingSink struct {
	producer mq.Producer
	topic    string
}

func NewPublishingSink(producer mq.Producer, topic string) *PublishingSink {
	return &PublishingSink{producer: producer, topic: topic}
}

func (s *PublishingSink) Deliver(ctx context.Context, _, _ uint64, events []model.OrderEvent) error {
	for _, ev := range events {
		payload, err := json.Marshal(ev)
		if err != nil {
			return err
		}
		key := crypto_util.EventKey(ev.TxHash.Bytes(), ev.LogIndex)
		if err := s.producer.Publish(ctx, s.topic, key, payload); err != nil {
			return fmt.Errorf("publish %s: %w", key, err)
		}
	}
	return nil
}

// EventSink 与 scanner.EventSink 方法集相同
type EventSink interface {
	Deliver(ctx context.Context, from, to uint64, events []model.OrderEvent) error
}

// MultiSink 依次投递, 遇到第一个错误就停止
type MultiSink []EventSink

func (m MultiSink) Deliver(ctx context.Context, from, to uint64, events []model.OrderEvent) error {
	for _, s := range m {
		if err := s.Deliver(ctx, from, to, events); err != nil {
			return err
		}
	}
	return nil
}
