package portalauth

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stephschuch819-blip/portalauth/internal"
	"github.com/stephschuch819-blip/portalauth/internal/rate"
	"github.com/stephschuch819-blip/portalauth/password"
	"github.com/stephschuch819-blip/portalauth/session"
)

// Guard defines a public type used by the portal authorization layer.
//
// Guard instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
//
// Every protected operation resolves its case through [Guard.RequireCase];
// case identifiers never flow from client input into record lookups, only
// from the server-resolved session.
type Guard struct {
	config       Config
	sessionStore *session.Store
	rateLimiter  *rate.Limiter
	audit        *auditDispatcher
	metrics      *Metrics
	passwordHash *password.Argon2
	caseProvider CaseProvider
}

// Close drains the audit pipeline. Call once when the embedding server shuts
// down.
func (g *Guard) Close() {
	if g == nil {
		return
	}
	if g.audit != nil {
		g.audit.Close()
	}
}

// AuditDropped reports how many audit events were discarded under
// backpressure.
func (g *Guard) AuditDropped() uint64 {
	if g == nil || g.audit == nil {
		return 0
	}
	return g.audit.Dropped()
}

// MetricsSnapshot returns a point-in-time copy of the guard's counters.
func (g *Guard) MetricsSnapshot() MetricsSnapshot {
	if g == nil || g.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return g.metrics.Snapshot()
}

func (g *Guard) metricInc(id MetricID) {
	if g == nil || g.metrics == nil {
		return
	}
	g.metrics.Inc(id)
}

// Login describes the login operation and its observable behavior.
//
// Login may return an error when input validation, dependency calls, or security checks fail.
// Login does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// The rate-limit check always precedes any CredentialStore work, and a wrong
// password is indistinguishable from an unknown or inactive case number.
func (g *Guard) Login(ctx context.Context, caseNumber, pw, originKey string) (string, error) {
	return g.LoginRotating(ctx, caseNumber, pw, originKey, "")
}

// LoginRotating is [Guard.Login] with session-fixation rotation: on success,
// priorTokenID — the session token the client presented before
// authenticating, if any — is destroyed before the fresh token is issued, so
// a pre-set token never survives authentication.
func (g *Guard) LoginRotating(ctx context.Context, caseNumber, pw, originKey, priorTokenID string) (string, error) {
	if g == nil || g.passwordHash == nil || g.sessionStore == nil || g.caseProvider == nil {
		return "", ErrGuardNotReady
	}

	if g.rateLimiter != nil {
		if err := g.rateLimiter.Admit(ctx, originKey); err != nil {
			// Limiter storage failure blocks as well: fail closed, never open.
			g.metricInc(MetricLoginRateLimited)
			g.emitAudit(ctx, auditEventRateLimited, false, "", "", "", originKey, ErrRateLimited, func() map[string]string {
				return map[string]string{
					"case_number": caseNumber,
				}
			})
			return "", ErrRateLimited
		}
	}

	if pw == "" {
		g.metricInc(MetricLoginFailure)
		g.emitAudit(ctx, auditEventLoginFailure, false, "", caseNumber, "", originKey, ErrInvalidCredentials, func() map[string]string {
			return map[string]string{
				"reason": "empty_password",
			}
		})
		return "", ErrInvalidCredentials
	}

	record, err := g.caseProvider.GetCaseByNumber(ctx, caseNumber)
	if err != nil {
		g.metricInc(MetricLoginFailure)
		g.emitAudit(ctx, auditEventLoginFailure, false, "", caseNumber, "", originKey, ErrInvalidCredentials, func() map[string]string {
			return map[string]string{
				"reason": "case_not_found",
			}
		})
		return "", ErrInvalidCredentials
	}
	if !record.IsActive {
		g.metricInc(MetricLoginFailure)
		g.emitAudit(ctx, auditEventLoginFailure, false, record.CaseID, caseNumber, "", originKey, ErrInvalidCredentials, func() map[string]string {
			return map[string]string{
				"reason": "case_inactive",
			}
		})
		return "", ErrInvalidCredentials
	}

	ok, err := g.passwordHash.Verify(pw, record.CredentialHash)
	if err != nil || !ok {
		g.metricInc(MetricLoginFailure)
		g.emitAudit(ctx, auditEventLoginFailure, false, record.CaseID, caseNumber, "", originKey, ErrInvalidCredentials, func() map[string]string {
			return map[string]string{
				"reason": "password_mismatch",
			}
		})
		return "", ErrInvalidCredentials
	}

	if g.config.Password.RehashOnLogin {
		if needsRehash, err := g.passwordHash.NeedsRehash(record.CredentialHash); err == nil && needsRehash {
			if upgradedHash, err := g.passwordHash.Hash(pw); err == nil {
				// Rehash update is best-effort and must not block successful login.
				if err := g.caseProvider.UpdateCredentialHash(ctx, record.CaseID, upgradedHash); err != nil {
					log.Print("portalauth: credential hash upgrade update failed")
				}
			} else {
				log.Print("portalauth: credential hash upgrade generation failed")
			}
		}
	}
	pw = ""

	if priorTokenID != "" {
		// Fixation defense: the token the client walked in with must not
		// survive authentication. Treat destruction failure as a failed login.
		if _, err := g.sessionStore.Delete(ctx, priorTokenID); err != nil {
			g.metricInc(MetricLoginFailure)
			g.emitAudit(ctx, auditEventLoginFailure, false, record.CaseID, caseNumber, priorTokenID, originKey, err, func() map[string]string {
				return map[string]string{
					"reason": "prior_token_destroy_failed",
				}
			})
			return "", err
		}
	}

	tid, err := internal.NewTokenID()
	if err != nil {
		g.metricInc(MetricLoginFailure)
		g.emitAudit(ctx, auditEventLoginFailure, false, record.CaseID, caseNumber, "", originKey, err, func() map[string]string {
			return map[string]string{
				"reason": "token_id_generation",
			}
		})
		return "", err
	}
	tokenID := tid.String()

	now := time.Now()
	sess := &session.Session{
		TokenID:    tokenID,
		CaseID:     record.CaseID,
		CaseNumber: record.CaseNumber,
		IssuedAt:   now.UnixMilli(),
		LastSeenAt: now.UnixMilli(),
	}

	if err := g.sessionStore.Save(ctx, sess, g.config.Session.IdleWindow); err != nil {
		g.metricInc(MetricLoginFailure)
		g.emitAudit(ctx, auditEventLoginFailure, false, record.CaseID, caseNumber, tokenID, originKey, err, func() map[string]string {
			return map[string]string{
				"reason": "session_save_failed",
			}
		})
		return "", err
	}

	g.metricInc(MetricSessionCreated)
	g.metricInc(MetricLoginSuccess)
	g.emitAudit(ctx, auditEventLoginSuccess, true, record.CaseID, caseNumber, tokenID, originKey, nil, nil)

	return tokenID, nil
}

// RequireCase describes the requirecase operation and its observable behavior.
//
// RequireCase may return an error when input validation, dependency calls, or security checks fail.
// RequireCase does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// A session bound to a missing or deactivated case is destroyed before the
// failure is returned, and the failure is [ErrCaseNotFound] — deliberately
// indistinguishable from a case that never existed. On success the session's
// idle window restarts.
func (g *Guard) RequireCase(ctx context.Context, tokenID string) (*CaseRecord, error) {
	if g == nil || g.sessionStore == nil || g.caseProvider == nil {
		return nil, ErrGuardNotReady
	}
	if g.metrics != nil && g.metrics.LatencyEnabled() {
		start := time.Now()
		defer func() {
			g.metrics.Observe(MetricRequireCaseLatency, time.Since(start))
		}()
	}

	if tokenID == "" {
		g.metricInc(MetricRequireCaseRejected)
		return nil, ErrUnauthenticated
	}

	sess, err := g.sessionStore.Get(ctx, tokenID, g.config.Session.IdleWindow)
	if err != nil {
		g.metricInc(MetricRequireCaseRejected)
		if errors.Is(err, redis.Nil) {
			return nil, ErrUnauthenticated
		}
		// Store unavailable or blob corrupt: fail closed.
		return nil, ErrUnauthenticated
	}

	record, err := g.caseProvider.GetCaseByID(ctx, sess.CaseID)
	if err != nil {
		if errors.Is(err, ErrProviderCaseNotFound) {
			return nil, g.rejectSuspiciousSession(ctx, sess)
		}
		// Record store unavailable: fail closed, but keep the session. Only a
		// case that is confirmed missing or inactive triggers destruction.
		g.metricInc(MetricRequireCaseRejected)
		return nil, ErrUnauthenticated
	}
	if !record.IsActive {
		return nil, g.rejectSuspiciousSession(ctx, sess)
	}

	if err := g.sessionStore.Touch(ctx, sess, g.config.Session.IdleWindow); err != nil {
		g.metricInc(MetricRequireCaseRejected)
		return nil, ErrUnauthenticated
	}

	g.metricInc(MetricRequireCaseSuccess)
	return &record, nil
}

// rejectSuspiciousSession handles a session whose bound case no longer
// resolves to an active record: audit, destroy, then fail. Destruction always
// happens before the failure reaches the caller.
func (g *Guard) rejectSuspiciousSession(ctx context.Context, sess *session.Session) error {
	g.metricInc(MetricSuspiciousSession)
	g.metricInc(MetricRequireCaseRejected)
	g.emitAudit(ctx, auditEventSuspiciousSession, false, sess.CaseID, sess.CaseNumber, sess.TokenID, "", ErrCaseNotFound, func() map[string]string {
		return map[string]string{
			"reason": "case_missing_or_inactive",
		}
	})

	if existed, err := g.sessionStore.Delete(ctx, sess.TokenID); err != nil {
		log.Print("portalauth: suspicious session destruction failed")
	} else if existed {
		g.metricInc(MetricSessionDestroyed)
		g.emitAudit(ctx, auditEventSessionDestroyed, true, sess.CaseID, sess.CaseNumber, sess.TokenID, "", nil, nil)
	}

	return ErrCaseNotFound
}

// Logout describes the logout operation and its observable behavior.
//
// Logout may return an error when input validation, dependency calls, or security checks fail.
// Logout does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (g *Guard) Logout(ctx context.Context, tokenID string) error {
	if g == nil || g.sessionStore == nil {
		return ErrGuardNotReady
	}

	existed, err := g.sessionStore.Delete(ctx, tokenID)
	if err != nil {
		g.emitAudit(ctx, auditEventSessionDestroyed, false, "", "", tokenID, "", err, nil)
		return err
	}
	if !existed {
		// Nothing was destroyed; logging out an unknown token is a silent no-op.
		return nil
	}

	g.metricInc(MetricSessionDestroyed)
	g.emitAudit(ctx, auditEventSessionDestroyed, true, "", "", tokenID, "", nil, nil)
	return nil
}

// InvalidateCaseSessions destroys every session bound to a case. The
// back-office collaborator calls it when a case is deactivated; sessions that
// slip past it still fail the per-request active check.
func (g *Guard) InvalidateCaseSessions(ctx context.Context, caseID string) error {
	if g == nil || g.sessionStore == nil {
		return ErrGuardNotReady
	}

	err := g.sessionStore.DeleteAllForCase(ctx, caseID)
	if err == nil {
		g.metricInc(MetricSessionDestroyed)
	}
	g.emitAudit(ctx, auditEventSessionDestroyed, err == nil, caseID, "", "", "", err, func() map[string]string {
		return map[string]string{
			"scope": "case",
		}
	})
	return err
}

// UnreadStaffMessages returns the number of unread staff messages for the
// session's case. The lookup is keyed by the server-resolved case, never by
// client input.
func (g *Guard) UnreadStaffMessages(ctx context.Context, tokenID string) (int, error) {
	record, err := g.RequireCase(ctx, tokenID)
	if err != nil {
		return 0, err
	}

	return g.caseProvider.UnreadStaffMessageCount(ctx, record.CaseID)
}
