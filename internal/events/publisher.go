package events

import (
	"context"
	"time"

	"github.com/Tesseract-Nexus/go-shared/events"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// StreamStorefrontAdmin holds every audit event this service emits
const StreamStorefrontAdmin = "STOREFRONT_ADMIN_EVENTS"

// Storefront admin event types
const (
	BannerSaved         = "storefront.banner.saved"
	BannerMediaRemoved  = "storefront.banner.media_removed"
	EventCreated        = "storefront.event.created"
	EventUpdated        = "storefront.event.updated"
	EventDeleted        = "storefront.event.deleted"
	EventProductAdded   = "storefront.event.product_added"
	EventProductRemoved = "storefront.event.product_removed"
	ProductCreated      = "storefront.product.created"
	ProductUpdated      = "storefront.product.updated"
	ProductDeleted      = "storefront.product.deleted"
	ProductToggled      = "storefront.product.toggled"
	SettingsUpdated     = "storefront.settings.updated"
)

// AdminActionEvent records one confirmed mutation made through the admin API
type AdminActionEvent struct {
	events.BaseEvent
	ResourceType string                 `json:"resourceType"`
	ResourceID   string                 `json:"resourceId"`
	ActorID      string                 `json:"actorId,omitempty"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}

func (e *AdminActionEvent) GetSubject() string {
	return e.EventType
}

func (e *AdminActionEvent) GetStream() string {
	return StreamStorefrontAdmin
}

// Publisher wraps the shared events publisher for admin audit events.
// A nil *Publisher is valid and drops every event.
type Publisher struct {
	publisher *events.Publisher
	logger    *logrus.Entry
}

// NewPublisher connects to NATS and ensures the audit stream exists
func NewPublisher(natsURL string, logger *logrus.Logger) (*Publisher, error) {
	config := events.DefaultPublisherConfig(natsURL)
	config.Name = "storefront-admin-service"

	publisher, err := events.NewPublisher(config, logger)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := publisher.EnsureStream(ctx, StreamStorefrontAdmin, []string{"storefront.>"}); err != nil {
		logger.WithError(err).Warn("Failed to ensure STOREFRONT_ADMIN_EVENTS stream")
	}

	return &Publisher{
		publisher: publisher,
		logger:    logger.WithField("component", "events.publisher"),
	}, nil
}

// PublishAdminAction publishes an audit event. Failures are logged, never
// returned: the mutation has already been confirmed by the backend.
func (p *Publisher) PublishAdminAction(ctx context.Context, eventType, resourceType, resourceID, actorID string, metadata map[string]interface{}) {
	if p == nil || p.publisher == nil {
		return
	}

	event := &AdminActionEvent{
		BaseEvent: events.BaseEvent{
			EventType: eventType,
			SourceID:  uuid.New().String(),
			Timestamp: time.Now().UTC(),
		},
		ResourceType: resourceType,
		ResourceID:   resourceID,
		ActorID:      actorID,
		Metadata:     metadata,
	}

	if err := p.publisher.Publish(ctx, event); err != nil {
		p.logger.WithError(err).WithFields(logrus.Fields{
			"event_type":  eventType,
			"resource_id": resourceID,
		}).Warn("Failed to publish admin event")
	}
}

// IsConnected returns true if connected to NATS
func (p *Publisher) IsConnected() bool {
	if p == nil || p.publisher == nil {
		return false
	}
	return p.publisher.IsConnected()
}

// Close closes the publisher connection
func (p *Publisher) Close() {
	if p == nil || p.publisher == nil {
		return
	}
	p.publisher.Close()
}
