package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"postboard/internal/model"
)

type ActivityPublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewActivityPublisher(conn *amqp.Connection, queueName string) *ActivityPublisher {
	return &ActivityPublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *ActivityPublisher) Publish(ctx context.Context, activity model.Activity) error {
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now()
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		p.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue failed: %w", err)
	}

	payload, err := EncodeActivity(activity)
	if err != nil {
		return err
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Type:         activity.Kind,
			Body:         payload,
			DeliveryMode: amqp.Persistent,
		},
	); err != nil {
		return fmt.Errorf("publish activity failed: %w", err)
	}
	return nil
}

// EncodeActivity is the wire format shared by the publisher and the activity worker.
func EncodeActivity(activity model.Activity) ([]byte, error) {
	activity.ID = 0
	payload, err := json.Marshal(activity)
	if err != nil {
		return nil, fmt.Errorf("marshal activity payload failed: %w", err)
	}
	return payload, nil
}

func DecodeActivity(body []byte) (model.Activity, error) {
	var activity model.Activity
	if err := json.Unmarshal(body, &activity); err != nil {
		return model.Activity{}, fmt.Errorf("unmarshal activity payload failed: %w", err)
	}
	if activity.UserID == 0 || activity.Kind == "" {
		return model.Activity{}, fmt.Errorf("activity payload missing user or kind")
	}
	activity.ID = 0
	return activity, nil
}
