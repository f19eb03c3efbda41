package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"
)

// PubSubHandler handles Pub/Sub messages for the worker.
type PubSubHandler struct {
	client           *pubsub.Client
	subscriber       *pubsub.Subscriber
	subscriptionName string
	auditJob         *AuditJob
	logger           zerolog.Logger
}

// PubSubConfig holds configuration for the Pub/Sub handler.
type PubSubConfig struct {
	ProjectID        string
	SubscriptionName string
	AuditJob         *AuditJob
	Logger           zerolog.Logger
}

// JobMessage represents a worker job message.
type JobMessage struct {
	JobType string `json:"job_type"`

	// MaxIssues overrides the issue log cap for a dataset_audit job.
	MaxIssues int `json:"max_issues,omitempty"`
}

// NewPubSubHandler creates a new Pub/Sub handler.
func NewPubSubHandler(ctx context.Context, cfg PubSubConfig) (*PubSubHandler, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	subscriber := client.Subscriber(cfg.SubscriptionName)

	subscriber.ReceiveSettings.MaxOutstandingMessages = 10
	subscriber.ReceiveSettings.MaxExtension = 10 * time.Minute

	return &PubSubHandler{
		client:           client,
		subscriber:       subscriber,
		subscriptionName: cfg.SubscriptionName,
		auditJob:         cfg.AuditJob,
		logger:           cfg.Logger,
	}, nil
}

// Start begins processing Pub/Sub messages.
func (h *PubSubHandler) Start(ctx context.Context) error {
	h.logger.Info().
		Str("subscription", h.subscriptionName).
		Msg("starting pubsub handler")

	return h.subscriber.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		h.handleMessage(ctx, msg)
	})
}

// Close closes the Pub/Sub client.
func (h *PubSubHandler) Close() error {
	return h.client.Close()
}

func (h *PubSubHandler) handleMessage(ctx context.Context, msg *pubsub.Message) {
	startTime := time.Now()

	logger := h.logger.With().
		Str("message_id", msg.ID).
		Str("publish_time", msg.PublishTime.Format(time.RFC3339)).
		Logger()

	logger.Debug().Msg("received pubsub message")

	var jobMsg JobMessage
	if err := json.Unmarshal(msg.Data, &jobMsg); err != nil {
		logger.Error().Err(err).Msg("failed to parse message")
		msg.Nack()
		return
	}

	var err error
	switch jobMsg.JobType {
	case "dataset_audit":
		err = h.handleDatasetAudit(ctx, jobMsg)
	case "health_check":
		err = h.handleHealthCheck(ctx)
	default:
		logger.Warn().Str("job_type", jobMsg.JobType).Msg("unknown job type")
		msg.Ack() // Ack unknown messages to prevent redelivery
		return
	}

	if err != nil {
		logger.Error().Err(err).Msg("job failed")
		msg.Nack()
		return
	}

	logger.Info().
		Str("job_type", jobMsg.JobType).
		Dur("duration", time.Since(startTime)).
		Msg("job completed successfully")

	msg.Ack()
}

func (h *PubSubHandler) handleDatasetAudit(ctx context.Context, msg JobMessage) error {
	result := h.auditJob.Run(ctx)
	if result.Err != nil {
		return fmt.Errorf("loading dataset: %w", result.Err)
	}

	maxIssues := msg.MaxIssues
	if maxIssues <= 0 {
		maxIssues = 20
	}
	for i, issue := range result.Issues {
		if i >= maxIssues {
			h.logger.Info().
				Int("suppressed", len(result.Issues)-maxIssues).
				Msg("further audit issues suppressed")
			break
		}
		h.logger.Warn().
			Str("place_id", issue.PlaceID).
			Str("check", issue.Check).
			Msg(issue.Detail)
	}

	for _, cov := range result.Coverage {
		if !cov.Met() {
			h.logger.Warn().
				Str("district", cov.District).
				Int("places", cov.Places).
				Int("min_places", cov.MinPlaces).
				Msg("district coverage below floor")
		}
	}

	if !result.Healthy(h.auditJob.config) {
		return fmt.Errorf("dataset unhealthy: hours %.2f, locatable %.2f, issues %d",
			result.HoursRate(), result.LocatableRate(), len(result.Issues))
	}
	return nil
}

func (h *PubSubHandler) handleHealthCheck(ctx context.Context) error {
	h.logger.Debug().Msg("running health check")

	// A health check only needs the dataset to load and be non-empty.
	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	places, err := h.auditJob.repo.LoadAll(checkCtx)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	if len(places) == 0 {
		return fmt.Errorf("health check failed: empty dataset")
	}

	h.logger.Debug().Int("places", len(places)).Msg("health check passed")
	return nil
}
