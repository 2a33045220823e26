package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"storefront-admin-service/internal/clients"
	"storefront-admin-service/internal/composer"
	"storefront-admin-service/internal/events"
	"storefront-admin-service/internal/models"
	"storefront-admin-service/internal/repository"
	"storefront-admin-service/internal/validation"
)

const (
	eventListCacheKey = "events:list"
	eventCreateLock   = "events:create"
)

// EventService manages promotional events. The live event list is cached
// and refreshed after every confirmed mutation, so limit and duplicate
// checks are made locally.
type EventService struct {
	api       clients.StorefrontAPI
	cache     repository.DraftStore
	cacheTTL  time.Duration
	publisher AuditPublisher
	logger    *logrus.Entry
}

// NewEventService creates a new EventService
func NewEventService(api clients.StorefrontAPI, cache repository.DraftStore, cacheTTL time.Duration, publisher AuditPublisher, logger *logrus.Logger) *EventService {
	return &EventService{
		api:       api,
		cache:     cache,
		cacheTTL:  cacheTTL,
		publisher: publisherOrNoop(publisher),
		logger:    logger.WithField("component", "event_service"),
	}
}

// List returns the live events, from cache when possible
func (s *EventService) List(ctx context.Context, sess Session) ([]models.EventRecord, error) {
	var cached []models.EventRecord
	err := s.cache.Load(ctx, eventListCacheKey, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, repository.ErrDraftNotFound) {
		s.logger.WithError(err).Warn("Event cache unavailable, fetching from storefront")
	}
	return s.refresh(ctx, sess)
}

// refresh re-fetches the event list and replaces the cached copy
func (s *EventService) refresh(ctx context.Context, sess Session) ([]models.EventRecord, error) {
	list, err := s.api.ListEvents(ctx, sess.Token)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Save(ctx, eventListCacheKey, list, s.cacheTTL); err != nil {
		s.logger.WithError(err).Warn("Failed to cache event list")
	}
	return list, nil
}

// reconcile refreshes the cache after a mutation; the mutation itself
// already succeeded, so a failure only drops the cached copy
func (s *EventService) reconcile(ctx context.Context, sess Session) {
	if _, err := s.refresh(ctx, sess); err != nil {
		s.logger.WithError(err).Warn("Failed to refresh events after mutation")
		if err := s.cache.Delete(ctx, eventListCacheKey); err != nil {
			s.logger.WithError(err).Warn("Failed to drop cached event list")
		}
	}
}

// Get returns one event
func (s *EventService) Get(ctx context.Context, sess Session, id string) (*models.EventRecord, error) {
	return s.api.GetEvent(ctx, sess.Token, id)
}

// Create submits a new event. It is refused without contacting the
// backend once the live event limit is reached.
func (s *EventService) Create(ctx context.Context, sess Session, sub *models.EventSubmission) (*models.EventRecord, error) {
	release, err := s.cache.AcquireLock(ctx, eventCreateLock)
	if err != nil {
		return nil, err
	}
	defer release()

	live, err := s.List(ctx, sess)
	if err != nil {
		return nil, err
	}
	if err := validation.ValidateEventCreate(len(live), sub); err != nil {
		s.logger.WithField("reason", err.Error()).Debug("Event create rejected")
		return nil, err
	}

	payload, err := composer.ComposeEventSubmission(sub, false)
	if err != nil {
		return nil, err
	}
	created, err := s.api.CreateEvent(ctx, sess.Token, payload)
	if err != nil {
		return nil, err
	}

	s.logger.WithField("event_id", created.ID).Info("Event created")
	s.publisher.PublishAdminAction(ctx, events.EventCreated, "event", created.ID, sess.OperatorID,
		map[string]interface{}{"title": created.Title})
	s.reconcile(ctx, sess)
	return created, nil
}

// Update resubmits the changed fields of an event
func (s *EventService) Update(ctx context.Context, sess Session, id string, sub *models.EventSubmission) (*models.EventRecord, error) {
	if err := validation.ValidateEventUpdate(sub); err != nil {
		return nil, err
	}

	release, err := s.cache.AcquireLock(ctx, "events:"+id)
	if err != nil {
		return nil, err
	}
	defer release()

	payload, err := composer.ComposeEventSubmission(sub, true)
	if err != nil {
		return nil, err
	}
	updated, err := s.api.UpdateEvent(ctx, sess.Token, id, payload)
	if err != nil {
		return nil, err
	}

	s.publisher.PublishAdminAction(ctx, events.EventUpdated, "event", id, sess.OperatorID, nil)
	s.reconcile(ctx, sess)
	return updated, nil
}

// Delete removes an event; the backend drops its product associations
func (s *EventService) Delete(ctx context.Context, sess Session, id string) error {
	if err := s.api.DeleteEvent(ctx, sess.Token, id); err != nil {
		return err
	}
	s.logger.WithField("event_id", id).Info("Event deleted")
	s.publisher.PublishAdminAction(ctx, events.EventDeleted, "event", id, sess.OperatorID, nil)
	s.reconcile(ctx, sess)
	return nil
}

// AddProduct associates a product with an event unless it already is
func (s *EventService) AddProduct(ctx context.Context, sess Session, eventID, productID string) (*models.EventRecord, error) {
	event, err := s.find(ctx, sess, eventID)
	if err != nil {
		return nil, err
	}
	if err := validation.ValidateEventProductAdd(event, productID); err != nil {
		return nil, err
	}

	if err := s.api.AddEventProduct(ctx, sess.Token, eventID, productID); err != nil {
		return nil, err
	}
	s.publisher.PublishAdminAction(ctx, events.EventProductAdded, "event", eventID, sess.OperatorID,
		map[string]interface{}{"productId": productID})
	return s.afterProductChange(ctx, sess, eventID)
}

// RemoveProduct drops a product association from an event
func (s *EventService) RemoveProduct(ctx context.Context, sess Session, eventID, productID string) (*models.EventRecord, error) {
	if err := s.api.RemoveEventProduct(ctx, sess.Token, eventID, productID); err != nil {
		return nil, err
	}
	s.publisher.PublishAdminAction(ctx, events.EventProductRemoved, "event", eventID, sess.OperatorID,
		map[string]interface{}{"productId": productID})
	return s.afterProductChange(ctx, sess, eventID)
}

func (s *EventService) afterProductChange(ctx context.Context, sess Session, eventID string) (*models.EventRecord, error) {
	s.reconcile(ctx, sess)
	return s.api.GetEvent(ctx, sess.Token, eventID)
}

// find looks an event up in the cached list, falling back to the backend
func (s *EventService) find(ctx context.Context, sess Session, id string) (*models.EventRecord, error) {
	live, err := s.List(ctx, sess)
	if err != nil {
		return nil, err
	}
	for i := range live {
		if live[i].ID == id {
			return &live[i], nil
		}
	}
	return s.api.GetEvent(ctx, sess.Token, id)
}
