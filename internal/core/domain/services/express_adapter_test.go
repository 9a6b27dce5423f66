package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shiptrack/internal/core/domain/model/carrier"
	"shiptrack/internal/core/domain/model/shipment"
)

func Test_ExpressTrackingAdapter_DeliveryWinsOverLaterScans(t *testing.T) {
	// The carrier appends correction scans after a delivery is confirmed,
	// so a DL event must win even when it is not chronologically latest.
	adapter := NewExpressTrackingAdapter()

	resp := carrier.TrackResponse{
		TrackResults: []carrier.TrackResult{
			{
				TrackingNumber: "794812345678",
				LatestStatusDetail: carrier.LatestStatusDetail{
					Code:        "DL",
					DerivedCode: "DL",
					Description: "Delivered",
				},
				ScanEvents: []carrier.ScanEvent{
					{
						Date:             "2026-03-12T09:15:00",
						EventType:        "IT",
						EventDescription: "In transit",
						ScanLocation:     "MEMPHIS TN",
					},
					{
						Date:             "2026-03-11T14:02:00",
						EventType:        "DL",
						EventDescription: "Delivered",
						ScanLocation:     "AUSTIN TX",
					},
				},
				DeliveryDetails: carrier.DeliveryDetails{ReceivedByName: "J.SMITH"},
			},
		},
	}

	events, err := adapter.Normalize("794812345678", resp)
	require.NoError(t, err)
	require.Len(t, events, 2)

	winner := events[0]
	assert.Equal(t, "DL", winner.Type)
	assert.Equal(t, shipment.Delivered, winner.Status)
	assert.Equal(t, "J.SMITH", winner.ReceivedBy)
	assert.Equal(t, "IT", events[1].Type)
}

func Test_ExpressTrackingAdapter_DerivedCodeMarksDelivery(t *testing.T) {
	adapter := NewExpressTrackingAdapter()

	resp := carrier.TrackResponse{
		TrackResults: []carrier.TrackResult{
			{
				ScanEvents: []carrier.ScanEvent{
					{Date: "2026-03-12T09:15:00", EventType: "IT"},
					{Date: "2026-03-11T14:02:00", EventType: "FD", DerivedStatusCode: "DL"},
				},
			},
		},
	}

	events, err := adapter.Normalize("794812345678", resp)
	require.NoError(t, err)
	assert.Equal(t, "FD", events[0].Type)
	assert.Equal(t, "DL", events[0].DerivedCode)
}

func Test_ExpressTrackingAdapter_LatestWinsWithoutDelivery(t *testing.T) {
	adapter := NewExpressTrackingAdapter()

	resp := carrier.TrackResponse{
		TrackResults: []carrier.TrackResult{
			{
				ScanEvents: []carrier.ScanEvent{
					{Date: "2026-03-10T08:00:00", EventType: "OC"},
					{Date: "2026-03-12T16:30:00", EventType: "AR"},
					{Date: "2026-03-11T12:00:00", EventType: "IT"},
				},
			},
		},
	}

	events, err := adapter.Normalize("794812345678", resp)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "AR", events[0].Type)
	assert.Equal(t, shipment.InTransit, events[0].Status)
}

func Test_ExpressTrackingAdapter_WinnerResolution(t *testing.T) {
	adapter := NewExpressTrackingAdapter()

	t.Run("exception code from first ancillary reason", func(t *testing.T) {
		resp := carrier.TrackResponse{
			TrackResults: []carrier.TrackResult{
				{
					LatestStatusDetail: carrier.LatestStatusDetail{
						Code: "DE",
						AncillaryDetails: []carrier.AncillaryDetail{
							{Reason: "08", ReasonDescription: "Recipient not available"},
							{Reason: "17"},
						},
					},
					ScanEvents: []carrier.ScanEvent{
						{Date: "2026-03-12T10:00:00", EventType: "DE", ExceptionCode: "99"},
					},
				},
			},
		}

		events, err := adapter.Normalize("794812345678", resp)
		require.NoError(t, err)
		assert.Equal(t, "08", events[0].ExceptionCode)
	})

	t.Run("exception code falls back to the scan's own", func(t *testing.T) {
		resp := carrier.TrackResponse{
			TrackResults: []carrier.TrackResult{
				{
					ScanEvents: []carrier.ScanEvent{
						{Date: "2026-03-12T10:00:00", EventType: "DE", ExceptionCode: "99"},
					},
				},
			},
		}

		events, err := adapter.Normalize("794812345678", resp)
		require.NoError(t, err)
		assert.Equal(t, "99", events[0].ExceptionCode)
	})

	t.Run("derived code falls back to the summary", func(t *testing.T) {
		resp := carrier.TrackResponse{
			TrackResults: []carrier.TrackResult{
				{
					LatestStatusDetail: carrier.LatestStatusDetail{DerivedCode: "OD"},
					ScanEvents: []carrier.ScanEvent{
						{Date: "2026-03-12T10:00:00", EventType: "DE"},
					},
				},
			},
		}

		events, err := adapter.Normalize("794812345678", resp)
		require.NoError(t, err)
		assert.Equal(t, "OD", events[0].DerivedCode)
	})
}

func Test_ExpressTrackingAdapter_ResultMatching(t *testing.T) {
	adapter := NewExpressTrackingAdapter()

	t.Run("matches the requested tracking number", func(t *testing.T) {
		resp := carrier.TrackResponse{
			TrackResults: []carrier.TrackResult{
				{
					TrackingNumber: "794800000001",
					ScanEvents:     []carrier.ScanEvent{{Date: "2026-03-12T10:00:00", EventType: "IT"}},
				},
				{
					TrackingNumber: "794800000002",
					ScanEvents:     []carrier.ScanEvent{{Date: "2026-03-12T11:00:00", EventType: "DL"}},
				},
			},
		}

		events, err := adapter.Normalize("794800000002", resp)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "DL", events[0].Type)
	})

	t.Run("falls back to the first result when the echo is missing", func(t *testing.T) {
		resp := carrier.TrackResponse{
			TrackResults: []carrier.TrackResult{
				{ScanEvents: []carrier.ScanEvent{{Date: "2026-03-12T10:00:00", EventType: "PU"}}},
			},
		}

		events, err := adapter.Normalize("794800000009", resp)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, shipment.ReceivedAtHub, events[0].Status)
	})

	t.Run("zero track results is an invalid response", func(t *testing.T) {
		_, err := adapter.Normalize("794800000009", carrier.TrackResponse{})
		assert.ErrorIs(t, err, ErrCarrierResponseInvalid)
	})
}

func Test_ExpressTrackingAdapter_UnknownEventType(t *testing.T) {
	adapter := NewExpressTrackingAdapter()

	resp := carrier.TrackResponse{
		TrackResults: []carrier.TrackResult{
			{ScanEvents: []carrier.ScanEvent{{Date: "2026-03-12T10:00:00", EventType: "ZZ"}}},
		},
	}

	events, err := adapter.Normalize("794812345678", resp)
	require.NoError(t, err)
	assert.Equal(t, shipment.Unknown, events[0].Status)
}

func Test_ExpressTrackingAdapter_NoScanEvents(t *testing.T) {
	adapter := NewExpressTrackingAdapter()

	resp := carrier.TrackResponse{
		TrackResults: []carrier.TrackResult{{TrackingNumber: "794812345678"}},
	}

	events, err := adapter.Normalize("794812345678", resp)
	require.NoError(t, err)
	assert.Empty(t, events)
}
