package carrier

// TrackResponse is the per-tracking-number reply of the REST tracking API.
// The wire shape is validated at the adapter boundary: a response carrying
// zero track results is unusable and rejected there.
type TrackResponse struct {
	TrackResults []TrackResult `json:"trackResults"`
}

// TrackResult is one tracked consignment inside a TrackResponse.
type TrackResult struct {
	TrackingNumber     string             `json:"trackingNumber"`
	LatestStatusDetail LatestStatusDetail `json:"latestStatusDetail"`
	ScanEvents         []ScanEvent        `json:"scanEvents"`
	// DeliveryDetails carries delivery confirmation data such as the
	// signature name, when the carrier supplies it.
	DeliveryDetails DeliveryDetails `json:"deliveryDetails"`
}

// LatestStatusDetail is the carrier's summary of the consignment's current
// state: a derived status code plus ancillary exception reasons.
type LatestStatusDetail struct {
	Code             string            `json:"code"`
	DerivedCode      string            `json:"derivedCode"`
	Description      string            `json:"description"`
	AncillaryDetails []AncillaryDetail `json:"ancillaryDetails"`
}

// AncillaryDetail qualifies the latest status with an exception reason code.
type AncillaryDetail struct {
	Reason            string `json:"reason"`
	ReasonDescription string `json:"reasonDescription"`
}

// ScanEvent is one raw scan record in the consignment's event list.
type ScanEvent struct {
	Date              string `json:"date"`
	EventType         string `json:"eventType"`
	EventDescription  string `json:"eventDescription"`
	DerivedStatusCode string `json:"derivedStatusCode"`
	ExceptionCode     string `json:"exceptionCode"`
	ScanLocation      string `json:"scanLocation"`
}

// DeliveryDetails carries proof-of-delivery data.
type DeliveryDetails struct {
	ReceivedByName string `json:"receivedByName"`
}
