package rabbitmq

import (
	"encoding/json"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"reports/config"
)

// Consumer reads ingestion jobs from a durable queue. One consumer owns
// one channel; close it when the worker stops.
type Consumer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	config  config.RabbitMQConfig
}

func NewConsumer(cfg config.RabbitMQConfig) (*Consumer, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := channel.Qos(cfg.PrefetchCount, 0, false); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	return &Consumer{
		conn:    conn,
		channel: channel,
		config:  cfg,
	}, nil
}

func (c *Consumer) Close() {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		c.conn.Close()
	}
}

// ConsumeQueue declares the queue (idempotent) and feeds each message body
// to handler. A handler error nacks the message back onto the queue;
// handlers must absorb permanent failures themselves or the message will
// redeliver forever.
func (c *Consumer) ConsumeQueue(queueName string, handler func([]byte) error) error {
	_, err := c.channel.QueueDeclare(
		queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	msgs, err := c.channel.Consume(
		queueName,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	log.Printf("✓ Started consuming from queue: %s", queueName)

	for msg := range msgs {
		if err := handler(msg.Body); err != nil {
			log.Printf("✗ Error processing message: %v", err)
			msg.Nack(false, true)
		} else {
			msg.Ack(false)
		}
	}

	return nil
}

func ParseJSON(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}
