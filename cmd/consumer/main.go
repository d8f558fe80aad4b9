package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/pupkingeorgij/proofbot/internal/repository"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		brokers = "localhost:9092"
	}
	topic := os.Getenv("KAFKA_TOPIC")
	if topic == "" {
		topic = "order_reports"
	}

	log.Println("Starting report consumer...")

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        strings.Split(brokers, ","),
		GroupID:        "order-report-consumer-group",
		Topic:          topic,
		MinBytes:       10e3,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
		MaxWait:        3 * time.Second,
	})
	defer func() {
		if err := r.Close(); err != nil {
			log.Printf("Error closing Kafka reader: %v", err)
		}
	}()

	log.Printf("Consumer connected to topic %q on brokers %s", topic, brokers)

	for {
		select {
		case <-ctx.Done():
			log.Println("Shutdown signal received, stopping consumer.")
			return
		default:
			m, err := r.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Printf("Error reading message: %v", err)
				time.Sleep(5 * time.Second)
				continue
			}

			var payload repository.ReportPayload
			if err := json.Unmarshal(m.Value, &payload); err != nil {
				log.Printf("Skipping malformed report %s: %v", string(m.Key), err)
				continue
			}

			fmt.Printf("\n--- ORDER REPORT ---\n")
			fmt.Printf("Reported:  %s\n", payload.ReportedAt.Format(time.RFC3339))
			fmt.Printf("Order:     %s\n", payload.OrderNumber)
			fmt.Printf("User:      %d (%s)\n", payload.UserID, payload.DisplayName)
			fmt.Printf("Success:   %t\n", payload.Success)
			fmt.Printf("Comment:   %s\n", payload.Comment)
			if payload.Address != "" {
				fmt.Printf("Address:   %s\n", payload.Address)
			}
			fmt.Println("--- END REPORT ---")
		}
	}
}
