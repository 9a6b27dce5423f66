package commands

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"shiptrack/internal/core/domain/model/carrier"
	"shiptrack/internal/core/domain/model/shipment"
	"shiptrack/internal/core/domain/model/subsidiary"
	"shiptrack/internal/core/domain/services"
	"shiptrack/internal/core/ports"
	"shiptrack/internal/pkg/errs"
)

const defaultFetchWorkers = 10

// ReconcileShipmentsCommandHandler orchestrates one reconciliation batch.
//
// The same pipeline runs against two disjoint collections, primary and
// charge shipments, producing two parallel reports. Per tracking number:
// fetch the raw carrier payload, normalize it through the owning carrier's
// adapter, select and validate the authoritative event against the
// shipment's subsidiary policy, then apply the update in a per-shipment
// transaction.
//
// No failure from processing one tracking number escapes the batch loop;
// every failure mode becomes an outcome-report entry. Only an inability to
// load the shipment backlog at all aborts the invocation.
type ReconcileShipmentsCommandHandler struct {
	uowFactory   UoWFactory
	gateway      ports.CarrierTrackingGateway
	reportSource ports.ReportSource
	resolver     *subsidiary.Resolver

	expressAdapter services.ExpressTrackingAdapter
	reportParser   services.CargoReportParser
	selector       services.EventSelector

	fetchWorkers int
	logger       *zap.Logger
}

// NewReconcileShipmentsCommandHandler creates the batch handler.
// fetchWorkers bounds concurrent outbound carrier calls; zero or negative
// falls back to the default of 10.
func NewReconcileShipmentsCommandHandler(
	uowFactory UoWFactory,
	gateway ports.CarrierTrackingGateway,
	reportSource ports.ReportSource,
	resolver *subsidiary.Resolver,
	selector services.EventSelector,
	fetchWorkers int,
	logger *zap.Logger,
) ReconcileShipmentsCommandHandler {
	if fetchWorkers <= 0 {
		fetchWorkers = defaultFetchWorkers
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return ReconcileShipmentsCommandHandler{
		uowFactory:     uowFactory,
		gateway:        gateway,
		reportSource:   reportSource,
		resolver:       resolver,
		expressAdapter: services.NewExpressTrackingAdapter(),
		reportParser:   services.NewCargoReportParser(),
		selector:       selector,
		fetchWorkers:   fetchWorkers,
		logger:         logger,
	}
}

// collection distinguishes the two shipment stores inside one batch.
type collection int

const (
	collectionPrimary collection = iota
	collectionCharge
)

func (c collection) String() string {
	if c == collectionCharge {
		return "charge"
	}
	return "primary"
}

// repositoryFor returns the repository of the given collection bound to uow.
// Both ports expose the same contract; the shared view keeps the pipeline
// collection-agnostic.
func repositoryFor(uow UoW, c collection) shipmentStore {
	if c == collectionCharge {
		return uow.ChargeShipmentRepository()
	}
	return uow.ShipmentRepository()
}

// shipmentStore is the read/write subset of the repository contracts the
// pipeline needs, satisfied by both ports.
type shipmentStore interface {
	Update(ctx context.Context, aggregate *shipment.Shipment) error
	GetByTrackingNumber(ctx context.Context, trackingNumber string) (*shipment.Shipment, error)
	GetAllNonTerminal(ctx context.Context) ([]*shipment.Shipment, error)
}

// Handle runs the batch and returns the aggregated outcome.
//
// The two sub-batches run concurrently; within each, outbound carrier calls
// are parallelized up to the fetch worker bound while validation and
// persistence run inline per worker. The cargo carrier's text report is
// fetched once per invocation and shared by both sub-batches.
func (h *ReconcileShipmentsCommandHandler) Handle(
	ctx context.Context,
	cmd ReconcileShipmentsCommand,
) (ReconciliationOutcome, error) {
	if err := cmd.Validate(); err != nil {
		return ReconciliationOutcome{}, err
	}

	outcome := ReconciliationOutcome{
		DryRun:    !cmd.PersistIfValid(),
		StartedAt: time.Now().UTC(),
	}

	primary, charge, err := h.loadTargets(ctx, cmd.TrackingNumbers(), &outcome.Primary)
	if err != nil {
		return ReconciliationOutcome{}, err
	}

	h.logger.Info("reconciliation batch started",
		zap.Int("primaryShipments", len(primary)),
		zap.Int("chargeShipments", len(charge)),
		zap.Bool("dryRun", outcome.DryRun))

	reportIndex, reportErr := h.fetchReportIndex(ctx, primary, charge)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		h.runSubBatch(gctx, collectionPrimary, primary, reportIndex, reportErr,
			cmd.PersistIfValid(), &outcome.Primary)
		return nil
	})
	g.Go(func() error {
		h.runSubBatch(gctx, collectionCharge, charge, reportIndex, reportErr,
			cmd.PersistIfValid(), &outcome.Charge)
		return nil
	})
	_ = g.Wait()

	outcome.FinishedAt = time.Now().UTC()

	h.logger.Info("reconciliation batch finished",
		zap.Int("primaryUpdated", len(outcome.Primary.Updated)),
		zap.Int("chargeUpdated", len(outcome.Charge.Updated)),
		zap.Int("primaryErrors", len(outcome.Primary.Errors)),
		zap.Int("chargeErrors", len(outcome.Charge.Errors)),
		zap.Duration("elapsed", outcome.FinishedAt.Sub(outcome.StartedAt)))

	return outcome, nil
}

// loadTargets resolves the batch targets. With an explicit tracking number
// list, each number is looked up in the primary store first and the charge
// store second; numbers absent from both are reported, never thrown.
// Without a list, the full non-terminal backlog of both stores is used.
func (h *ReconcileShipmentsCommandHandler) loadTargets(
	ctx context.Context,
	trackingNumbers []string,
	primaryReport *ReconciliationReport,
) (primary []*shipment.Shipment, charge []*shipment.Shipment, err error) {
	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	shipmentRepo := uow.ShipmentRepository()
	chargeRepo := uow.ChargeShipmentRepository()

	if len(trackingNumbers) == 0 {
		if primary, err = shipmentRepo.GetAllNonTerminal(ctx); err != nil {
			return nil, nil, err
		}
		if charge, err = chargeRepo.GetAllNonTerminal(ctx); err != nil {
			return nil, nil, err
		}
		return primary, charge, uow.Commit(ctx)
	}

	for _, tn := range trackingNumbers {
		shp, getErr := shipmentRepo.GetByTrackingNumber(ctx, tn)
		if getErr == nil {
			primary = append(primary, shp)
			continue
		}
		if !errors.Is(getErr, errs.ErrObjectNotFound) {
			return nil, nil, getErr
		}

		shp, getErr = chargeRepo.GetByTrackingNumber(ctx, tn)
		if getErr == nil {
			charge = append(charge, shp)
			continue
		}
		if !errors.Is(getErr, errs.ErrObjectNotFound) {
			return nil, nil, getErr
		}

		primaryReport.Errors = append(primaryReport.Errors, ShipmentError{
			TrackingNumber: tn,
			Error:          "shipment not found",
		})
	}

	return primary, charge, uow.Commit(ctx)
}

// fetchReportIndex fetches and parses the cargo carrier's text report when
// any target shipment belongs to the cargo carrier. A fetch or parse
// failure does not abort the batch: it is returned so every cargo shipment
// can be classified as an error while express shipments proceed.
func (h *ReconcileShipmentsCommandHandler) fetchReportIndex(
	ctx context.Context,
	primary []*shipment.Shipment,
	charge []*shipment.Shipment,
) (map[string]carrier.ReportShipment, error) {
	needed := false
	for _, shp := range primary {
		if shp.Carrier() == shipment.CarrierCargo {
			needed = true
			break
		}
	}
	if !needed {
		for _, shp := range charge {
			if shp.Carrier() == shipment.CarrierCargo {
				needed = true
				break
			}
		}
	}
	if !needed {
		return nil, nil
	}

	document, err := h.reportSource.FetchReport(ctx)
	if err != nil {
		h.logger.Warn("cargo report fetch failed", zap.Error(err))
		return nil, err
	}

	blocks, err := h.reportParser.Parse(document)
	if err != nil {
		h.logger.Warn("cargo report parse failed", zap.Error(err))
		return nil, err
	}

	index := make(map[string]carrier.ReportShipment, len(blocks))
	for _, block := range blocks {
		index[block.AWB] = block
	}
	return index, nil
}

// runSubBatch processes one shipment collection with a bounded worker pool.
// Workers never return errors: every per-shipment failure is classified
// into the report.
func (h *ReconcileShipmentsCommandHandler) runSubBatch(
	ctx context.Context,
	c collection,
	shipments []*shipment.Shipment,
	reportIndex map[string]carrier.ReportShipment,
	reportErr error,
	persist bool,
	report *ReconciliationReport,
) {
	builder := &reportBuilder{report: report}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.fetchWorkers)

	for _, shp := range shipments {
		g.Go(func() error {
			h.processShipment(gctx, c, shp, reportIndex, reportErr, persist, builder)
			return nil
		})
	}
	_ = g.Wait()
}

// processShipment runs the full pipeline for one shipment and records
// exactly one report entry.
func (h *ReconcileShipmentsCommandHandler) processShipment(
	ctx context.Context,
	c collection,
	shp *shipment.Shipment,
	reportIndex map[string]carrier.ReportShipment,
	reportErr error,
	persist bool,
	builder *reportBuilder,
) {
	tn := shp.TrackingNumber()

	events, receivedBy, err := h.fetchEvents(ctx, shp, reportIndex, reportErr)
	if err != nil {
		h.logger.Warn("carrier fetch failed",
			zap.String("collection", c.String()),
			zap.String("trackingNumber", tn),
			zap.Error(err))
		builder.addError(tn, err)
		return
	}

	rules := h.resolver.Resolve(shp.SubsidiaryID())

	event, mapped, err := h.selector.SelectAndValidate(shp, events, rules)
	if err != nil {
		builder.classifyValidation(tn, err)
		return
	}

	if event.ReceivedBy != "" {
		receivedBy = event.ReceivedBy
	}

	if !persist {
		if shp.Status() == mapped {
			builder.addUnchanged(tn)
		} else {
			builder.addUpdated(ShipmentSummary{
				TrackingNumber: tn,
				PreviousStatus: shp.Status(),
				NewStatus:      mapped,
				EventType:      event.Type,
				OccurredAt:     event.OccurredAt,
			})
		}
		return
	}

	summary, changed, err := h.applyAndCommit(ctx, c, shp, event, mapped, receivedBy)
	if err != nil {
		h.logger.Error("shipment commit failed",
			zap.String("collection", c.String()),
			zap.String("trackingNumber", tn),
			zap.Error(err))
		builder.addError(tn, err)
		return
	}

	if changed {
		builder.addUpdated(summary)
	} else {
		builder.addUnchanged(tn)
	}
}

// fetchEvents routes the shipment to its carrier's feed and returns the
// normalized events plus the carrier-supplied proof-of-delivery name, when
// one exists outside the events themselves.
func (h *ReconcileShipmentsCommandHandler) fetchEvents(
	ctx context.Context,
	shp *shipment.Shipment,
	reportIndex map[string]carrier.ReportShipment,
	reportErr error,
) ([]carrier.Event, string, error) {
	switch shp.Carrier() {
	case shipment.CarrierExpress:
		resp, err := h.gateway.Track(ctx, shp.TrackingNumber())
		if err != nil {
			return nil, "", err
		}
		events, err := h.expressAdapter.Normalize(shp.TrackingNumber(), resp)
		if err != nil {
			return nil, "", err
		}
		return events, "", nil

	case shipment.CarrierCargo:
		if reportErr != nil {
			return nil, "", reportErr
		}
		block, ok := reportIndex[shp.TrackingNumber()]
		if !ok {
			// Absent from the report means no events this cycle; the
			// validator classifies it.
			return nil, "", nil
		}
		return block.Events, block.Receiver, nil

	default:
		return nil, "", fmt.Errorf("unroutable carrier kind %d for %s",
			shp.Carrier(), shp.TrackingNumber())
	}
}

// applyAndCommit applies the validated update inside a per-shipment
// transaction. The history append, status flip, payment side effect, and
// receivedBy fill commit as one unit or not at all.
func (h *ReconcileShipmentsCommandHandler) applyAndCommit(
	ctx context.Context,
	c collection,
	shp *shipment.Shipment,
	event carrier.Event,
	mapped shipment.Status,
	receivedBy string,
) (ShipmentSummary, bool, error) {
	previous := shp.Status()

	changed, err := shp.ApplyCarrierUpdate(
		mapped, event.ExceptionCode, event.OccurredAt, event.Description, receivedBy)
	if err != nil {
		return ShipmentSummary{}, false, err
	}
	if !changed {
		return ShipmentSummary{}, false, nil
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return ShipmentSummary{}, false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = repositoryFor(uow, c).Update(ctx, shp); err != nil {
		return ShipmentSummary{}, false, err
	}
	if err = uow.Commit(ctx); err != nil {
		return ShipmentSummary{}, false, err
	}

	return ShipmentSummary{
		TrackingNumber: shp.TrackingNumber(),
		PreviousStatus: previous,
		NewStatus:      mapped,
		EventType:      event.Type,
		OccurredAt:     event.OccurredAt,
	}, true, nil
}

// reportBuilder serializes concurrent report appends from pool workers.
type reportBuilder struct {
	mu     sync.Mutex
	report *ReconciliationReport
}

func (b *reportBuilder) addUpdated(summary ShipmentSummary) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.report.Updated = append(b.report.Updated, summary)
}

func (b *reportBuilder) addUnchanged(trackingNumber string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.report.Unchanged = append(b.report.Unchanged, trackingNumber)
}

func (b *reportBuilder) addError(trackingNumber string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.report.Errors = append(b.report.Errors, ShipmentError{
		TrackingNumber: trackingNumber,
		Error:          err.Error(),
	})
}

// classifyValidation buckets a policy rejection: the OD gate goes to its own
// list, everything else is an unusual code flagged for human review.
func (b *reportBuilder) classifyValidation(trackingNumber string, err error) {
	var vErr *services.ValidationError
	if !errors.As(err, &vErr) {
		b.addError(trackingNumber, err)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if vErr.Kind == services.ValidationExceptionODNotAllowed {
		b.report.WithOD = append(b.report.WithOD, ODCase{
			TrackingNumber: trackingNumber,
			Reason:         vErr.Detail,
		})
		return
	}

	b.report.UnusualCodes = append(b.report.UnusualCodes, UnusualCode{
		TrackingNumber: trackingNumber,
		DerivedCode:    vErr.Event.DerivedCode,
		ExceptionCode:  vErr.Event.ExceptionCode,
		EventDate:      vErr.Event.RawDate,
		Reason:         vErr.Kind.String(),
	})
}
