package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/imagehub/imagehub/internal/dto"
	kafkapc "github.com/imagehub/imagehub/internal/infrastructure/kafka"
	"github.com/imagehub/imagehub/internal/usecase"
	"github.com/imagehub/imagehub/pkg/logger"
	"github.com/segmentio/kafka-go"
)

// KafkaController drains the resize topic with a small worker pool.
// Messages are committed only after a successful ExecuteResize, so a
// failed job is redelivered; ExecuteResize itself is idempotent, which
// makes the at-least-once delivery safe.
type KafkaController struct {
	img    usecase.ImageUseCase
	ec     *kafkapc.EventConsumer
	logger logger.Interface

	commitTimeout  time.Duration
	processTimeout time.Duration

	workers int
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	started atomic.Bool
}

func New(
	img usecase.ImageUseCase,
	ec *kafkapc.EventConsumer,
	l logger.Interface,
	commitTimeout time.Duration,
	processTimeout time.Duration,
	workers int,
) *KafkaController {
	return &KafkaController{
		img:            img,
		ec:             ec,
		logger:         l,
		commitTimeout:  commitTimeout,
		processTimeout: processTimeout,
		workers:        workers,
	}
}

func (c *KafkaController) Start(ctx context.Context) error {
	if !c.started.CompareAndSwap(false, true) {
		return fmt.Errorf("KafkaController - Start - controller already started")
	}

	c.ctx, c.cancel = context.WithCancel(ctx)

	tasks := make(chan kafka.Message, c.workers*2)

	for i := 0; i < c.workers; i++ {
		c.wg.Add(1)
		go c.worker(tasks)
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer close(tasks)

		for {
			select {
			case <-c.ctx.Done():
				return
			default:
				event, err := c.ec.ReadEvent(c.ctx)
				if err != nil {
					if !errors.Is(err, context.Canceled) {
						c.logger.Error(err, "KafkaController - Start - c.ec.ReadEvent")
					}
					continue
				}

				select {
				case tasks <- event:
				case <-c.ctx.Done():
					return
				}
			}
		}
	}()

	return nil
}

func (c *KafkaController) processResize(ctx context.Context, event kafka.Message) error {
	var body dto.ResizeMessage
	if err := json.Unmarshal(event.Value, &body); err != nil {
		return fmt.Errorf("KafkaController - processResize - json.Unmarshal: %w", err)
	}

	// delivery id is for log correlation only, never dedup
	message := dto.MessageWrapper{
		MessageID: fmt.Sprintf("%s/%d/%d", event.Topic, event.Partition, event.Offset),
		Body:      body,
	}

	if err := c.img.ExecuteResize(ctx, message); err != nil {
		return fmt.Errorf("KafkaController - processResize - c.img.ExecuteResize: %w", err)
	}

	return nil
}

func (c *KafkaController) worker(tasks <-chan kafka.Message) {
	defer c.wg.Done()

	for event := range tasks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					c.logger.Error(fmt.Errorf("panic %v", r), "KafkaController - worker - panic")
				}
			}()

			processCtx, processCancel := context.WithTimeout(c.ctx, c.processTimeout)
			err := c.processResize(processCtx, event)
			processCancel()
			if err != nil {
				c.logger.Error(err, "KafkaController - worker - c.processResize")

				return
			}

			// commit only after success; failed jobs get redelivered
			commitCtx, commitCancel := context.WithTimeout(c.ctx, c.commitTimeout)
			err = c.ec.CommitEvent(commitCtx, event)
			commitCancel()
			if err != nil {
				c.logger.Error(err, "KafkaController - worker - c.ec.CommitEvent")
			}
		}()
	}
}

func (c *KafkaController) Shutdown(ctx context.Context) error {
	if !c.started.Load() {
		return nil
	}

	if c.cancel != nil {
		c.cancel()
	}

	done := make(chan struct{})

	go func() {
		c.wg.Wait()
		c.ec.Close()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return nil
	}
}
