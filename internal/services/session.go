package services

import (
	"context"

	"github.com/google/uuid"
)

// Session identifies the operator a request is made for. Token is forwarded
// to the storefront backend unchanged. DraftOwner scopes draft keys and is
// only the operator id when the token was verified.
type Session struct {
	Token      string
	OperatorID string
	DraftOwner string
}

func (s Session) draftOwner() string {
	if s.DraftOwner != "" {
		return s.DraftOwner
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(s.Token)).String()
}

// AuditPublisher receives an event for every mutation the backend confirmed
type AuditPublisher interface {
	PublishAdminAction(ctx context.Context, eventType, resourceType, resourceID, actorID string, metadata map[string]interface{})
}

type noopPublisher struct{}

func (noopPublisher) PublishAdminAction(context.Context, string, string, string, string, map[string]interface{}) {}

func publisherOrNoop(p AuditPublisher) AuditPublisher {
	if p == nil {
		return noopPublisher{}
	}
	return p
}
