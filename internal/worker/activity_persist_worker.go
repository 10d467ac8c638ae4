package worker

import (
	"context"
	"fmt"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"postboard/internal/model"
	"postboard/internal/platform/rabbitmq"
)

// ActivityStore is the persistence side of the worker; *repository.ActivityRepository satisfies it.
type ActivityStore interface {
	Create(ctx context.Context, activity *model.Activity) error
}

type ActivityPersistWorker struct {
	conn      *amqp.Connection
	store     ActivityStore
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewActivityPersistWorker(conn *amqp.Connection, store ActivityStore, queueName string) *ActivityPersistWorker {
	return &ActivityPersistWorker{
		conn:      conn,
		store:     store,
		queueName: queueName,
	}
}

func (w *ActivityPersistWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	_, err = ch.QueueDeclare(
		w.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare worker queue failed: %w", err)
	}

	if err := ch.Qos(32, 0, false); err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("set worker qos failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				if err := w.Handle(workerCtx, d.Body); err != nil {
					log.Printf("activity worker: %v", err)
					_ = d.Nack(false, false)
					continue
				}
				_ = d.Ack(false)
			}
		}
	}()

	return nil
}

// Handle decodes one delivery body and stores it.
func (w *ActivityPersistWorker) Handle(ctx context.Context, body []byte) error {
	activity, err := rabbitmq.DecodeActivity(body)
	if err != nil {
		return err
	}
	if err := w.store.Create(ctx, &activity); err != nil {
		return fmt.Errorf("persist activity failed: %w", err)
	}
	return nil
}

func (w *ActivityPersistWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
