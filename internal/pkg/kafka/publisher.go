package kafka

import (
	"Bulletin/internal/api/config"
	"Bulletin/internal/model"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// EventPublisher 把帖子生命周期事件写入 Kafka，未启用时什么也不做
type EventPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

func NewEventPublisher(cfg config.KafkaConfig, enabled bool) (*EventPublisher, error) {
	if !enabled {
		log.Info("post events disabled")
		return &EventPublisher{}, nil
	}

	producer, err := sarama.NewSyncProducer(cfg.Brokers, newSaramaConfig(cfg))
	if err != nil {
		return nil, err
	}
	log.Info("post events enabled", "topic", cfg.Topic)
	return NewEventPublisherWithProducer(producer, cfg.Topic), nil
}

func NewEventPublisherWithProducer(producer sarama.SyncProducer, topic string) *EventPublisher {
	return &EventPublisher{producer: producer, topic: topic}
}

// Publish 发送失败只记录日志，不影响界面操作
func (p *EventPublisher) Publish(ctx context.Context, event *model.PostEvent) {
	if p.producer == nil || event == nil {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.ErrorContext(ctx, "marshal post event failed", "err", err)
		return
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.PostID),
		Value: sarama.ByteEncoder(data),
	})
	if err != nil {
		log.ErrorContext(ctx, "publish post event failed", "type", event.Type, "post_id", event.PostID, "err", err)
		return
	}
	log.DebugContext(ctx, "post event published", "type", event.Type, "partition", partition, "offset", offset)
}

func (p *EventPublisher) Close() error {
	if p.producer == nil {
		return nil
	}
	return p.producer.Close()
}
