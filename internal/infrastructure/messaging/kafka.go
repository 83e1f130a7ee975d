// Package messaging forwards domain events to Kafka for downstream
// consumers such as the kitchen display.
package messaging

import (
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// Client holds the broker list shared by writers
type Client struct {
	Brokers []string
}

// NewClient creates a client, dropping blank broker entries
func NewClient(brokers []string) *Client {
	clean := make([]string, 0, len(brokers))
	for _, b := range brokers {
		for _, part := range strings.Split(b, ",") {
			if part = strings.TrimSpace(part); part != "" {
				clean = append(clean, part)
			}
		}
	}
	return &Client{Brokers: clean}
}

// Enabled reports whether any broker is configured
func (c *Client) Enabled() bool {
	return len(c.Brokers) > 0
}

// NewWriter creates a writer that hashes message keys to partitions, so all
// events of one aggregate stay ordered
func (c *Client) NewWriter(topic string, writeTimeout time.Duration) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(c.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: writeTimeout,
	}
}
