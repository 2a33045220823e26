package services

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"storefront-admin-service/internal/clients"
	"storefront-admin-service/internal/composer"
	"storefront-admin-service/internal/events"
	"storefront-admin-service/internal/models"
	"storefront-admin-service/internal/repository"
	"storefront-admin-service/internal/validation"
)

// BannerSaveResult is the reconciled section after a confirmed save
type BannerSaveResult struct {
	Operation composer.Operation `json:"operation"`
	Slot      *models.MediaSlot  `json:"slot"`
}

// BannerService edits banner sections: it keeps a per-operator draft of
// each section, validates every mutation and submits the final selection
type BannerService struct {
	api       clients.StorefrontAPI
	drafts    repository.DraftStore
	publisher AuditPublisher
	logger    *logrus.Entry
}

// NewBannerService creates a new BannerService
func NewBannerService(api clients.StorefrontAPI, drafts repository.DraftStore, publisher AuditPublisher, logger *logrus.Logger) *BannerService {
	return &BannerService{
		api:       api,
		drafts:    drafts,
		publisher: publisherOrNoop(publisher),
		logger:    logger.WithField("component", "banner_service"),
	}
}

func bannerDraftKey(sess Session, section string) string {
	return "banner:" + sess.draftOwner() + ":" + strings.ToLower(section)
}

// GetSection returns the section as stored by the backend
func (s *BannerService) GetSection(ctx context.Context, sess Session, section string) (*models.MediaSlot, error) {
	return s.api.GetBanner(ctx, sess.Token, section)
}

// GetDraft returns the operator's draft of a section, starting one from the
// stored section if none exists
func (s *BannerService) GetDraft(ctx context.Context, sess Session, section string) (*models.BannerDraft, error) {
	var draft models.BannerDraft
	err := s.drafts.Load(ctx, bannerDraftKey(sess, section), &draft)
	if err == nil {
		return &draft, nil
	}
	if !errors.Is(err, repository.ErrDraftNotFound) {
		return nil, err
	}

	slot, err := s.api.GetBanner(ctx, sess.Token, section)
	if err != nil {
		return nil, err
	}
	fresh := &models.BannerDraft{
		Section:  section,
		Kind:     models.SectionKindFor(section),
		Existing: slot.Items,
		Pending:  []models.MediaItem{},
	}
	refreshWarning(fresh)
	if err := s.drafts.Save(ctx, bannerDraftKey(sess, section), fresh, 0); err != nil {
		return nil, err
	}
	return fresh, nil
}

// AddMedia validates and stages uploads and/or a YouTube link.
// In replace mode the staged selection supersedes what the section holds.
func (s *BannerService) AddMedia(ctx context.Context, sess Session, section string, files []models.FileUpload, youtubeLink string, mode validation.AddMode) (*models.BannerDraft, error) {
	draft, err := s.GetDraft(ctx, sess, section)
	if err != nil {
		return nil, err
	}

	next := nextSelectionIndex(draft.Pending)
	proposed := make([]models.MediaItem, 0, len(files)+1)
	for i := range files {
		f := files[i]
		f.SelectionIndex = next + f.SelectionIndex
		proposed = append(proposed, models.MediaItem{Kind: f.Kind, File: &f})
	}
	if link := strings.TrimSpace(youtubeLink); link != "" {
		proposed = append(proposed, models.MediaItem{Kind: models.MediaKindYouTubeLink, URL: link})
	}

	result, err := validation.ValidateAdd(draft.Kind, visibleItems(draft), proposed, mode)
	if err != nil {
		s.logger.WithFields(logrus.Fields{"section": section, "reason": err.Error()}).Debug("Banner media rejected")
		return nil, err
	}

	if mode == validation.AddModeReplace {
		draft.Replace = true
		draft.Pending = result.Accepted
	} else {
		draft.Pending = append(draft.Pending, result.Accepted...)
	}
	draft.Warning = result.Warning

	if err := s.drafts.Save(ctx, bannerDraftKey(sess, section), draft, 0); err != nil {
		return nil, err
	}
	return draft, nil
}

// RemoveDraftItem drops a staged item by its position in the pending list
func (s *BannerService) RemoveDraftItem(ctx context.Context, sess Session, section string, index int) (*models.BannerDraft, error) {
	draft, err := s.GetDraft(ctx, sess, section)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(draft.Pending) {
		return nil, &validation.Error{Code: validation.CodeValidation, Field: "index", Message: "No pending media at that position"}
	}

	draft.Pending = append(draft.Pending[:index], draft.Pending[index+1:]...)
	if len(draft.Pending) == 0 {
		draft.Replace = false
	}
	refreshWarning(draft)

	if err := s.drafts.Save(ctx, bannerDraftKey(sess, section), draft, 0); err != nil {
		return nil, err
	}
	return draft, nil
}

// RemoveSavedMedia deletes a stored item at the backend and reconciles the
// draft with the section as it is afterwards
func (s *BannerService) RemoveSavedMedia(ctx context.Context, sess Session, section, mediaURL string) (*models.BannerDraft, error) {
	if strings.TrimSpace(mediaURL) == "" {
		return nil, &validation.Error{Code: validation.CodeValidation, Field: "url", Message: "Media URL is required"}
	}
	draft, err := s.GetDraft(ctx, sess, section)
	if err != nil {
		return nil, err
	}

	if err := s.api.DeleteBannerMedia(ctx, sess.Token, section, mediaURL); err != nil {
		return nil, err
	}
	s.publisher.PublishAdminAction(ctx, events.BannerMediaRemoved, "banner", section, sess.OperatorID,
		map[string]interface{}{"url": mediaURL})

	slot, err := s.api.GetBanner(ctx, sess.Token, section)
	if err != nil {
		return nil, err
	}
	draft.Existing = slot.Items
	refreshWarning(draft)

	if err := s.drafts.Save(ctx, bannerDraftKey(sess, section), draft, 0); err != nil {
		return nil, err
	}
	return draft, nil
}

// Discard drops the operator's draft. A save already sent is not affected.
func (s *BannerService) Discard(ctx context.Context, sess Session, section string) error {
	return s.drafts.Delete(ctx, bannerDraftKey(sess, section))
}

// Save submits the staged selection, then re-fetches the section and
// clears the draft
func (s *BannerService) Save(ctx context.Context, sess Session, section string) (*BannerSaveResult, error) {
	key := bannerDraftKey(sess, section)

	release, err := s.drafts.AcquireLock(ctx, key)
	if err != nil {
		return nil, err
	}
	defer release()

	var draft models.BannerDraft
	if err := s.drafts.Load(ctx, key, &draft); err != nil {
		return nil, err
	}
	if len(draft.Pending) == 0 {
		return nil, &validation.Error{Code: validation.CodeValidation, Field: "media", Message: validation.MsgNoMediaSelected}
	}

	if err := validation.ValidateSave(draft.Kind, visibleItems(&draft)); err != nil {
		return nil, err
	}

	sub, err := composer.ComposeMediaSubmission(draft.Kind, len(draft.Existing), draft.PendingFiles(), draft.PendingLink())
	if err != nil {
		return nil, err
	}

	saved, err := s.api.SaveBanner(ctx, sess.Token, section, sub)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"section":   section,
		"operation": sub.Operation,
		"items":     len(draft.Pending),
	}).Info("Banner saved")
	s.publisher.PublishAdminAction(ctx, events.BannerSaved, "banner", section, sess.OperatorID,
		map[string]interface{}{"operation": string(sub.Operation), "items": len(draft.Pending)})

	if err := s.drafts.Delete(ctx, key); err != nil {
		s.logger.WithError(err).WithField("section", section).Warn("Failed to clear banner draft")
	}

	slot, err := s.api.GetBanner(ctx, sess.Token, section)
	if err != nil {
		s.logger.WithError(err).WithField("section", section).Warn("Banner saved but refresh failed")
		slot = saved
	}
	return &BannerSaveResult{Operation: sub.Operation, Slot: slot}, nil
}

// visibleItems is what the section will hold once the draft is saved
func visibleItems(d *models.BannerDraft) []models.MediaItem {
	if d.Replace {
		return d.Pending
	}
	items := make([]models.MediaItem, 0, len(d.Existing)+len(d.Pending))
	items = append(items, d.Existing...)
	return append(items, d.Pending...)
}

func refreshWarning(d *models.BannerDraft) {
	d.Warning = ""
	if d.Kind == models.SectionKindHome {
		d.Warning = validation.HomeShortfall(len(visibleItems(d)))
	}
}

func nextSelectionIndex(items []models.MediaItem) int {
	next := 0
	for _, item := range items {
		if item.File != nil && item.File.SelectionIndex >= next {
			next = item.File.SelectionIndex + 1
		}
	}
	return next
}
