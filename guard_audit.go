package portalauth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	auditEventLoginSuccess      = "login_success"
	auditEventLoginFailure      = "login_failure"
	auditEventRateLimited       = "rate_limited"
	auditEventSuspiciousSession = "suspicious_session"
	auditEventSessionDestroyed  = "session_destroyed"
)

// AuditErrorCode defines a public type used by the portal authorization layer.
//
// AuditErrorCode instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditErrorCode string

const (
	auditErrInvalidCredentials AuditErrorCode = "invalid_credentials"
	auditErrRateLimited        AuditErrorCode = "rate_limited"
	auditErrUnauthenticated    AuditErrorCode = "unauthenticated"
	auditErrCaseNotFound       AuditErrorCode = "case_not_found"
	auditErrPasswordPolicy     AuditErrorCode = "password_policy"
	auditErrUnavailable        AuditErrorCode = "backend_unavailable"
	auditErrInternal           AuditErrorCode = "internal_error"
)

func (g *Guard) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	caseID string,
	caseNumber string,
	tokenID string,
	origin string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if g == nil || g.audit == nil {
		return
	}
	if origin == "" {
		origin = clientIPFromContext(ctx)
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		EventID:    uuid.NewString(),
		Timestamp:  time.Now().UTC(),
		EventType:  eventType,
		CaseID:     caseID,
		CaseNumber: caseNumber,
		TokenID:    tokenID,
		Origin:     origin,
		Success:    success,
		Metadata:   metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	g.audit.Emit(ctx, event)
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return auditErrInvalidCredentials
	case errors.Is(err, ErrRateLimited):
		return auditErrRateLimited
	case errors.Is(err, ErrUnauthenticated):
		return auditErrUnauthenticated
	case errors.Is(err, ErrCaseNotFound):
		return auditErrCaseNotFound
	case errors.Is(err, ErrPasswordPolicy):
		return auditErrPasswordPolicy
	case errors.Is(err, ErrProviderCaseNotFound):
		return auditErrCaseNotFound
	case errors.Is(err, ErrGuardNotReady), errors.Is(err, ErrCaseNumberExhausted):
		return auditErrInternal
	default:
		return auditErrUnavailable
	}
}
