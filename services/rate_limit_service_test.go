package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitService_CheckLimit(t *testing.T) {
	tests := []struct {
		name        string
		setupMock   func(mock redismock.ClientMock)
		wantAllowed bool
		wantRetry   time.Duration
		wantErr     bool
	}{
		{
			name: "first request starts the window",
			setupMock: func(mock redismock.ClientMock) {
				mock.ExpectIncr("rate_limit:mutations:10.0.0.1").SetVal(1)
				mock.ExpectExpireNX("rate_limit:mutations:10.0.0.1", time.Minute).SetVal(true)
			},
			wantAllowed: true,
		},
		{
			name: "request within limit",
			setupMock: func(mock redismock.ClientMock) {
				mock.ExpectIncr("rate_limit:mutations:10.0.0.1").SetVal(3)
				mock.ExpectExpireNX("rate_limit:mutations:10.0.0.1", time.Minute).SetVal(false)
			},
			wantAllowed: true,
		},
		{
			name: "request over limit returns remaining window",
			setupMock: func(mock redismock.ClientMock) {
				mock.ExpectIncr("rate_limit:mutations:10.0.0.1").SetVal(4)
				mock.ExpectExpireNX("rate_limit:mutations:10.0.0.1", time.Minute).SetVal(false)
				mock.ExpectTTL("rate_limit:mutations:10.0.0.1").SetVal(42 * time.Second)
			},
			wantAllowed: false,
			wantRetry:   42 * time.Second,
		},
		{
			name: "ttl failure falls back to full window",
			setupMock: func(mock redismock.ClientMock) {
				mock.ExpectIncr("rate_limit:mutations:10.0.0.1").SetVal(9)
				mock.ExpectExpireNX("rate_limit:mutations:10.0.0.1", time.Minute).SetVal(false)
				mock.ExpectTTL("rate_limit:mutations:10.0.0.1").SetErr(errors.New("boom"))
			},
			wantAllowed: false,
			wantRetry:   time.Minute,
		},
		{
			name: "redis failure is returned",
			setupMock: func(mock redismock.ClientMock) {
				mock.ExpectIncr("rate_limit:mutations:10.0.0.1").SetErr(errors.New("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, mock := redismock.NewClientMock()
			tt.setupMock(mock)

			service := NewRateLimitService(client)
			allowed, retry, err := service.CheckLimit(context.Background(), "mutations:10.0.0.1", 3, time.Minute)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantAllowed, allowed)
				assert.Equal(t, tt.wantRetry, retry)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRateLimitService_LostExpiryIsRestored(t *testing.T) {
	client, mock := redismock.NewClientMock()
	service := NewRateLimitService(client)
	ctx := context.Background()
	key := "rate_limit:mutations:10.0.0.1"

	// The first window's EXPIRE times out and the counter is left without a TTL.
	mock.ExpectIncr(key).SetVal(1)
	mock.ExpectExpireNX(key, time.Minute).SetErr(errors.New("i/o timeout"))
	_, _, err := service.CheckLimit(ctx, "mutations:10.0.0.1", 3, time.Minute)
	require.Error(t, err)

	// The next request sets the missing expiry.
	mock.ExpectIncr(key).SetVal(2)
	mock.ExpectExpireNX(key, time.Minute).SetVal(true)
	allowed, _, err := service.CheckLimit(ctx, "mutations:10.0.0.1", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)

	// Once over the limit the client is told when the restored window ends.
	mock.ExpectIncr(key).SetVal(500)
	mock.ExpectExpireNX(key, time.Minute).SetVal(false)
	mock.ExpectTTL(key).SetVal(37 * time.Second)
	allowed, retry, err := service.CheckLimit(ctx, "mutations:10.0.0.1", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 37*time.Second, retry)

	require.NoError(t, mock.ExpectationsWereMet())
}
