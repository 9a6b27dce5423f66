package carrierapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const trackBody = `{
	"trackResults": [
		{
			"trackingNumber": "794812345678",
			"latestStatusDetail": {
				"code": "DL",
				"derivedCode": "DL",
				"description": "Delivered",
				"ancillaryDetails": []
			},
			"scanEvents": [
				{
					"date": "2026-03-11T14:00:00Z",
					"eventType": "DL",
					"eventDescription": "Delivered to recipient",
					"derivedStatusCode": "DL",
					"exceptionCode": ""
				}
			],
			"deliveryDetails": {"receivedByName": "J.SMITH"}
		}
	]
}`

func TestExpressTrackingClient_Track(t *testing.T) {
	var gotPath, gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-API-Key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(trackBody))
	}))
	defer server.Close()

	client := NewExpressTrackingClient(server.URL, "secret", nil, nil)

	response, err := client.Track(context.Background(), "794812345678")

	require.NoError(t, err)
	assert.Equal(t, "/track/v1/shipments/794812345678", gotPath)
	assert.Equal(t, "secret", gotKey)
	require.Len(t, response.TrackResults, 1)
	result := response.TrackResults[0]
	assert.Equal(t, "794812345678", result.TrackingNumber)
	assert.Equal(t, "DL", result.LatestStatusDetail.DerivedCode)
	require.Len(t, result.ScanEvents, 1)
	assert.Equal(t, "DL", result.ScanEvents[0].EventType)
	assert.Equal(t, "J.SMITH", result.DeliveryDetails.ReceivedByName)
}

func TestExpressTrackingClient_Track_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewExpressTrackingClient(server.URL, "secret", nil, nil)

	_, err := client.Track(context.Background(), "794812345678")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestExpressTrackingClient_Track_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewExpressTrackingClient(server.URL, "secret", nil, nil)

	_, err := client.Track(context.Background(), "794812345678")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestExpressTrackingClient_Track_SecondLookupServedFromCache(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(trackBody))
	}))
	defer server.Close()

	mr := miniredis.RunT(t)
	cache, err := NewRedisCache("redis://" + mr.Addr())
	require.NoError(t, err)
	defer cache.Close()

	client := NewExpressTrackingClient(server.URL, "secret", cache, nil)
	ctx := context.Background()

	first, err := client.Track(ctx, "794812345678")
	require.NoError(t, err)

	second, err := client.Track(ctx, "794812345678")
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, first, second)
}

func TestExpressTrackingClient_Track_CorruptCacheEntryIsRefetched(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(trackBody))
	}))
	defer server.Close()

	mr := miniredis.RunT(t)
	cache, err := NewRedisCache("redis://" + mr.Addr())
	require.NoError(t, err)
	defer cache.Close()

	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, "track:794812345678", []byte("garbage"), 0))

	client := NewExpressTrackingClient(server.URL, "secret", cache, nil)

	response, err := client.Track(ctx, "794812345678")

	require.NoError(t, err)
	require.Len(t, response.TrackResults, 1)
}

func TestRedisCache_GetSet(t *testing.T) {
	mr := miniredis.RunT(t)

	cache, err := NewRedisCache("redis://" + mr.Addr())
	require.NoError(t, err)
	defer cache.Close()

	ctx := context.Background()

	err = cache.Set(ctx, "k", []byte("v"), 10*time.Second)
	require.NoError(t, err)

	got, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestRedisCache_MissReturnsSentinel(t *testing.T) {
	mr := miniredis.RunT(t)

	cache, err := NewRedisCache("redis://" + mr.Addr())
	require.NoError(t, err)
	defer cache.Close()

	_, err = cache.Get(context.Background(), "absent")

	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_TTLExpires(t *testing.T) {
	mr := miniredis.RunT(t)

	cache, err := NewRedisCache("redis://" + mr.Addr())
	require.NoError(t, err)
	defer cache.Close()

	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, "k", []byte("v"), time.Second))

	mr.FastForward(2 * time.Second)

	_, err = cache.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestNewRedisCache_InvalidURL(t *testing.T) {
	_, err := NewRedisCache("://bad")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse Redis URL")
}
