package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/imagehub/imagehub/internal/dto"
	"github.com/imagehub/imagehub/internal/entity"
	"github.com/imagehub/imagehub/pkg/kafka/producer"
	"github.com/segmentio/kafka-go"
)

// ResizeProducer publishes resize jobs keyed by image id, so jobs of
// one image land on one partition and stay ordered.
type ResizeProducer struct {
	*producer.Producer
	topic string
}

func NewResizeProducer(producer *producer.Producer, topic string) *ResizeProducer {
	return &ResizeProducer{
		producer,
		topic,
	}
}

func (rp *ResizeProducer) EnqueueResize(ctx context.Context, message dto.ResizeMessage) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("ResizeProducer - EnqueueResize - json.Marshal: %w",
			entity.ErrMessageEnqueueFailed(message.ImageID).WithCause(err))
	}

	err = rp.Writer.WriteMessages(ctx, kafka.Message{
		Topic: rp.topic,
		Key:   []byte(message.ImageID.String()),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("ResizeProducer - EnqueueResize - rp.Writer.WriteMessages: %w",
			entity.ErrMessageEnqueueFailed(message.ImageID).WithCause(err))
	}

	return nil
}

func (rp *ResizeProducer) Close() error {
	err := rp.Producer.Close()
	if err != nil {
		return fmt.Errorf("ResizeProducer - Close: %w", err)
	}

	return nil
}
