package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devcatalyst/intake-service/internal/cache"
	"github.com/devcatalyst/intake-service/internal/metrics"
	"github.com/devcatalyst/intake-service/internal/models"
)

func mustTime(t *testing.T) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, "2025-02-01T10:00:00Z")
	require.NoError(t, err)
	return ts
}

func newSessionService(opts SessionOptions) *sessionService {
	return NewSessionService(cache.NewMemoryCache(), metrics.New(), testLogger(), opts).(*sessionService)
}

func TestSessionService_Login(t *testing.T) {
	tests := []struct {
		name     string
		secret   string
		password string
		check    func(error) bool
	}{
		{name: "unconfigured", secret: "", password: "anything", check: IsConfiguration},
		{name: "mismatch", secret: "hunter2", password: "hunter3", check: func(err error) bool { return errors.Is(err, ErrInvalidCredentials) }},
		{name: "empty password", secret: "hunter2", password: "", check: IsUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newSessionService(SessionOptions{DashboardPassword: tt.secret})
			_, err := svc.Login(context.Background(), tt.password)
			require.Error(t, err)
			assert.True(t, tt.check(err))
		})
	}
}

func TestSessionService_LoginAndValidate(t *testing.T) {
	svc := newSessionService(SessionOptions{DashboardPassword: "hunter2", TTL: time.Hour})
	ctx := context.Background()

	session, err := svc.Login(ctx, "hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, models.ScopeDashboard, session.Scope)
	assert.Equal(t, time.Hour, session.ExpiresAt.Sub(session.IssuedAt))

	loaded, err := svc.Validate(ctx, session.Token, models.ScopeDashboard)
	require.NoError(t, err)
	assert.Equal(t, session.Token, loaded.Token)

	_, err = svc.Validate(ctx, session.Token, models.ScopeEvaluation)
	assert.ErrorIs(t, err, ErrSessionScope)

	_, err = svc.Validate(ctx, "", models.ScopeDashboard)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Validate(ctx, "not-a-token", models.ScopeDashboard)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestSessionService_Expiry(t *testing.T) {
	svc := newSessionService(SessionOptions{DashboardPassword: "hunter2", TTL: time.Hour})
	ctx := context.Background()

	session, err := svc.Login(ctx, "hunter2")
	require.NoError(t, err)

	svc.now = func() time.Time { return session.ExpiresAt.Add(time.Second) }
	_, err = svc.Validate(ctx, session.Token, models.ScopeDashboard)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestSessionService_Logout(t *testing.T) {
	svc := newSessionService(SessionOptions{DashboardPassword: "hunter2"})
	ctx := context.Background()

	session, err := svc.Login(ctx, "hunter2")
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, session.Token))

	_, err = svc.Validate(ctx, session.Token, models.ScopeDashboard)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestSessionService_LoginEvaluation(t *testing.T) {
	svc := newSessionService(SessionOptions{
		EvaluationPasswords: map[string]string{models.TeamTech: "tech-secret", models.TeamCore: ""},
	})
	ctx := context.Background()

	session, err := svc.LoginEvaluation(ctx, "Technical Team", "tech-secret")
	require.NoError(t, err)
	assert.Equal(t, models.ScopeEvaluation, session.Scope)
	assert.Equal(t, models.TeamTech, session.Track)

	_, err = svc.LoginEvaluation(ctx, "tech", "core-secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.LoginEvaluation(ctx, "core", "whatever")
	var configErr *ConfigurationError
	require.ErrorAs(t, err, &configErr)
	assert.Equal(t, "EVAL_CORE_PASSWORD", configErr.Setting)

	_, err = svc.LoginEvaluation(ctx, "design", "whatever")
	assert.True(t, IsValidation(err))
}

func TestSessionContext(t *testing.T) {
	_, ok := SessionFromContext(context.Background())
	assert.False(t, ok)

	session := &models.Session{Token: "t", Scope: models.ScopeDashboard}
	got, ok := SessionFromContext(ContextWithSession(context.Background(), session))
	require.True(t, ok)
	assert.Same(t, session, got)
}
