//go:build integration

package publisher

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/rabbitmq"
	"github.com/testcontainers/testcontainers-go/wait"

	"trendwatch/internal/domain"
)

type RabbitMQIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *rabbitmq.RabbitMQContainer
	amqpURL   string
	logger    *slog.Logger
}

func (s *RabbitMQIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	container, err := rabbitmq.Run(s.ctx,
		"rabbitmq:3.13-management-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Server startup complete").
				WithStartupTimeout(60*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	amqpURL, err := container.AmqpURL(s.ctx)
	s.Require().NoError(err)
	s.amqpURL = amqpURL
}

func (s *RabbitMQIntegrationSuite) TearDownSuite() {
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func TestRabbitMQIntegrationSuite(t *testing.T) {
	suite.Run(t, new(RabbitMQIntegrationSuite))
}

func (s *RabbitMQIntegrationSuite) TestPublisher_Connection() {
	cfg := Config{
		URL:        s.amqpURL,
		Exchange:   "test-exchange",
		RoutingKey: "test-routing-key",
		QueueName:  "test-queue",
	}

	pub, err := NewRabbitMQ(cfg, s.logger)
	s.NoError(err)
	s.NotNil(pub)

	err = pub.Close()
	s.NoError(err)
}

func (s *RabbitMQIntegrationSuite) TestPublisher_PublishReport() {
	cfg := Config{
		URL:        s.amqpURL,
		Exchange:   "test-exchange-report",
		RoutingKey: "test-routing-key-report",
		QueueName:  "test-queue-report",
	}

	pub, err := NewRabbitMQ(cfg, s.logger)
	s.Require().NoError(err)
	defer pub.Close()

	report := &domain.CollectionReport{
		Success: true,
		Message: "Collected 12 videos and 8 articles for KR",
		Stats: domain.CollectionStats{
			Country:    "KR",
			BucketID:   42,
			Keywords:   20,
			Videos:     12,
			Articles:   8,
			New:        15,
			Reassigned: 5,
			Score:      26,
		},
		TopKeywords: []string{"festival", "election"},
		AIKeywords:  []string{"summer travel", "ai assistants"},
	}

	err = pub.Publish(s.ctx, report)
	s.NoError(err)

	msg := s.consumeMessage(cfg)
	s.NotNil(msg)

	var received ReportMessage
	err = json.Unmarshal(msg.Body, &received)
	s.NoError(err)
	s.True(received.Report.Success)
	s.Equal("KR", received.Report.Stats.Country)
	s.Equal(int64(42), received.Report.Stats.BucketID)
	s.Equal(12, received.Report.Stats.Videos)
	s.Equal([]string{"festival", "election"}, received.Report.TopKeywords)
	s.False(received.Timestamp.IsZero())
}

func (s *RabbitMQIntegrationSuite) TestPublisher_PublishFailureReport() {
	cfg := Config{
		URL:        s.amqpURL,
		Exchange:   "test-exchange-failure",
		RoutingKey: "test-routing-key-failure",
		QueueName:  "test-queue-failure",
	}

	pub, err := NewRabbitMQ(cfg, s.logger)
	s.Require().NoError(err)
	defer pub.Close()

	report := &domain.CollectionReport{
		Success: false,
		Message: "content store unavailable",
		Stats: domain.CollectionStats{
			Country: "JP",
		},
	}

	err = pub.Publish(s.ctx, report)
	s.NoError(err)

	msg := s.consumeMessage(cfg)
	s.NotNil(msg)

	var received ReportMessage
	err = json.Unmarshal(msg.Body, &received)
	s.NoError(err)
	s.False(received.Report.Success)
	s.Equal("content store unavailable", received.Report.Message)
}

func (s *RabbitMQIntegrationSuite) TestPublisher_MessageFormat() {
	cfg := Config{
		URL:        s.amqpURL,
		Exchange:   "test-exchange-format",
		RoutingKey: "test-routing-key-format",
		QueueName:  "test-queue-format",
	}

	pub, err := NewRabbitMQ(cfg, s.logger)
	s.Require().NoError(err)
	defer pub.Close()

	report := &domain.CollectionReport{
		Success: true,
		Message: "ok",
		Stats: domain.CollectionStats{
			Country:  "KR",
			BucketID: 7,
			Score:    1.5,
		},
	}

	err = pub.Publish(s.ctx, report)
	s.NoError(err)

	msg := s.consumeMessage(cfg)
	s.NotNil(msg)

	s.Equal("application/json", msg.ContentType)
	s.Equal(uint8(amqp.Persistent), msg.DeliveryMode)

	var received ReportMessage
	err = json.Unmarshal(msg.Body, &received)
	s.NoError(err)
	s.Equal(1.5, received.Report.Stats.Score)
}

func (s *RabbitMQIntegrationSuite) consumeMessage(cfg Config) *amqp.Delivery {
	conn, err := amqp.Dial(s.amqpURL)
	s.Require().NoError(err)
	defer conn.Close()

	ch, err := conn.Channel()
	s.Require().NoError(err)
	defer ch.Close()

	msgs, err := ch.Consume(cfg.QueueName, "", true, false, false, false, nil)
	s.Require().NoError(err)

	select {
	case msg := <-msgs:
		return &msg
	case <-time.After(5 * time.Second):
		s.Fail("Timeout waiting for message")
		return nil
	}
}
