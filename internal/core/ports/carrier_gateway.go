package ports

import (
	"context"

	"shiptrack/internal/core/domain/model/carrier"
)

// CarrierTrackingGateway fetches the raw tracking payload for one tracking
// number from the express carrier's REST API. Implementations handle
// transport, auth, and caching; the response is normalized by the domain
// adapter, not here.
//
// Non-2xx replies and empty results are per-tracking-number errors. The
// orchestrator reports them and continues the batch.
type CarrierTrackingGateway interface {
	Track(ctx context.Context, trackingNumber string) (carrier.TrackResponse, error)
}

// ReportSource fetches the cargo carrier's free-text tracking report, one
// document per invocation. The document is parsed by the domain report
// parser.
type ReportSource interface {
	FetchReport(ctx context.Context) (string, error)
}
