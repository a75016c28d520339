package app

import (
	"log"

	"taxiweb/internal/config"
	"taxiweb/internal/queue"
)

// NewPublisher connects to RabbitMQ when a URL is configured and falls back
// to logging events otherwise, or when the broker cannot be reached.
func NewPublisher(cfg config.RabbitMQConfig) queue.Publisher {
	if cfg.URL == "" {
		log.Println("RabbitMQ not configured, events will be logged only")
		return queue.LogPublisher{}
	}

	pub, err := queue.NewAMQPPublisher(cfg.URL, cfg.Exchange)
	if err != nil {
		log.Printf("Warning: RabbitMQ unavailable, events will be logged only: %v", err)
		return queue.LogPublisher{}
	}

	log.Printf("Publishing events to RabbitMQ exchange %q", cfg.Exchange)
	return pub
}
