package cmd

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuze/cli/pkg/api"
)

type FakeStatusService struct {
	SessionReadyFunc func() error
	HealthFunc       func(ctx context.Context) error
	VerifyFunc       func(ctx context.Context) error
}

func (f *FakeStatusService) SessionReady() error {
	if f.SessionReadyFunc != nil {
		return f.SessionReadyFunc()
	}
	return nil
}

func (f *FakeStatusService) Health(ctx context.Context) error {
	if f.HealthFunc != nil {
		return f.HealthFunc(ctx)
	}
	return nil
}

func (f *FakeStatusService) Verify(ctx context.Context) error {
	if f.VerifyFunc != nil {
		return f.VerifyFunc(ctx)
	}
	return nil
}

func TestStatusConnected(t *testing.T) {
	buf := setupStdoutCapture(t)

	s := StatusCmd{client: &FakeStatusService{}}
	require.NoError(t, s.Run(context.Background()))
	assert.Contains(t, buf.String(), "Connected")
	assert.NotContains(t, buf.String(), "offline")
}

func TestStatusRejectionClearsSession(t *testing.T) {
	buf := setupStdoutCapture(t)

	cleared := false
	s := StatusCmd{
		client: &FakeStatusService{
			VerifyFunc: func(ctx context.Context) error {
				return &api.RemoteError{StatusCode: http.StatusUnauthorized}
			},
		},
		clearSession: func() error {
			cleared = true
			return nil
		},
	}
	require.NoError(t, s.Run(context.Background()))
	assert.Contains(t, buf.String(), "Session expired - please login")
	assert.True(t, cleared, "an explicit rejection must clear the stored session")
}

func TestStatusOfflineKeepsSession(t *testing.T) {
	buf := setupStdoutCapture(t)

	cleared := false
	s := StatusCmd{
		client: &FakeStatusService{
			VerifyFunc: func(ctx context.Context) error {
				return &api.NetworkError{Err: errors.New("connection refused")}
			},
		},
		clearSession: func() error {
			cleared = true
			return nil
		},
	}
	require.NoError(t, s.Run(context.Background()))
	assert.Contains(t, buf.String(), "Connected (offline)")
	assert.False(t, cleared, "a network failure proves nothing about the token")
}

func TestStatusNotLoggedIn(t *testing.T) {
	buf := setupStdoutCapture(t)

	s := StatusCmd{
		client: &FakeStatusService{
			SessionReadyFunc: func() error { return api.ErrUnauthenticated },
		},
	}
	require.NoError(t, s.Run(context.Background()))
	assert.Contains(t, buf.String(), "Not logged in - please login")
	assert.Contains(t, buf.String(), "Server reachable")
}

func TestStatusUnconfigured(t *testing.T) {
	buf := setupStdoutCapture(t)

	s := StatusCmd{
		client: &FakeStatusService{
			SessionReadyFunc: func() error { return api.ErrUnconfigured },
		},
	}
	require.NoError(t, s.Run(context.Background()))
	assert.Contains(t, buf.String(), "No server configured")
}
