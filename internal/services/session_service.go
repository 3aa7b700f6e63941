package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/devcatalyst/intake-service/internal/cache"
	"github.com/devcatalyst/intake-service/internal/metrics"
	"github.com/devcatalyst/intake-service/internal/models"
)

const sessionKeyPrefix = "session:"

// SessionOptions carries the shared secrets and lifetime from config.Config.
type SessionOptions struct {
	DashboardPassword   string
	EvaluationPasswords map[string]string
	TTL                 time.Duration
}

type sessionService struct {
	cache   cache.CacheService
	opts    SessionOptions
	metrics *metrics.Metrics
	logger  *ServiceLogger
	now     func() time.Time
}

func NewSessionService(c cache.CacheService, m *metrics.Metrics, logger *slog.Logger, opts SessionOptions) SessionService {
	if opts.TTL <= 0 {
		opts.TTL = 8 * time.Hour
	}
	return &sessionService{
		cache:   c,
		opts:    opts,
		metrics: m,
		logger:  NewServiceLogger(logger, LogConfig{Service: "intake-service", Component: "session"}),
		now:     time.Now,
	}
}

func (s *sessionService) Login(ctx context.Context, password string) (*models.Session, error) {
	if s.opts.DashboardPassword == "" {
		return nil, NewConfigurationError("DASHBOARD_PASSWORD", "dashboard password is not configured")
	}
	if !secretsMatch(password, s.opts.DashboardPassword) {
		s.denied(ctx, models.ScopeDashboard, "")
		return nil, ErrInvalidCredentials
	}
	return s.issue(ctx, models.ScopeDashboard, "")
}

func (s *sessionService) LoginEvaluation(ctx context.Context, team, password string) (*models.Session, error) {
	keyword, ok := TeamKeyword(team)
	if !ok {
		return nil, invalid("team", "Unknown evaluation team", team)
	}
	secret := s.opts.EvaluationPasswords[keyword]
	if secret == "" {
		return nil, NewConfigurationError(evaluationSecretSetting(keyword), "evaluation password is not configured for "+keyword)
	}
	if !secretsMatch(password, secret) {
		s.denied(ctx, models.ScopeEvaluation, keyword)
		return nil, ErrInvalidCredentials
	}
	return s.issue(ctx, models.ScopeEvaluation, keyword)
}

func (s *sessionService) issue(ctx context.Context, scope models.SessionScope, track string) (*models.Session, error) {
	now := s.now().UTC()
	session := &models.Session{
		Token:     uuid.NewString(),
		Scope:     scope,
		Track:     track,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.opts.TTL),
	}
	if err := s.cache.Set(ctx, sessionKeyPrefix+session.Token, session, s.opts.TTL); err != nil {
		return nil, NewStoreError("store session", err)
	}
	s.metrics.AuthAttempts.WithLabelValues(string(scope), "success").Inc()
	return session, nil
}

func (s *sessionService) denied(ctx context.Context, scope models.SessionScope, track string) {
	s.metrics.AuthAttempts.WithLabelValues(string(scope), "denied").Inc()
	s.logger.LogSecurityEvent(ctx, "login_denied", string(scope), map[string]interface{}{
		"track": track,
	})
}

// Validate loads a session and checks its scope and expiry.
func (s *sessionService) Validate(ctx context.Context, token string, scope models.SessionScope) (*models.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrUnauthorized
	}

	var session models.Session
	if err := s.cache.Get(ctx, sessionKeyPrefix+token, &session); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, ErrSessionExpired
		}
		return nil, NewStoreError("load session", err)
	}
	if session.Expired(s.now()) {
		_ = s.cache.Delete(ctx, sessionKeyPrefix+token)
		return nil, ErrSessionExpired
	}
	if session.Scope != scope {
		return nil, ErrSessionScope
	}
	return &session, nil
}

func (s *sessionService) Logout(ctx context.Context, token string) error {
	if err := s.cache.Delete(ctx, sessionKeyPrefix+strings.TrimSpace(token)); err != nil {
		return NewStoreError("delete session", err)
	}
	return nil
}

func evaluationSecretSetting(keyword string) string {
	if keyword == models.TeamTech {
		return "EVAL_TECHNICAL_PASSWORD"
	}
	return "EVAL_" + strings.ToUpper(keyword) + "_PASSWORD"
}

func secretsMatch(given, want string) bool {
	return subtle.ConstantTimeCompare([]byte(given), []byte(want)) == 1
}

type sessionContextKey struct{}

// ContextWithSession stores the authenticated session on the context.
func ContextWithSession(ctx context.Context, session *models.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, session)
}

// SessionFromContext returns the session placed by the auth middleware.
func SessionFromContext(ctx context.Context) (*models.Session, bool) {
	session, ok := ctx.Value(sessionContextKey{}).(*models.Session)
	return session, ok && session != nil
}
