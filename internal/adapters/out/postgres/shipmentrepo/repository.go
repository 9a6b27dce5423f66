package shipmentrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shiptrack/internal/core/domain/model/kernel"
	"shiptrack/internal/core/domain/model/shipment"
	"shiptrack/internal/pkg/errs"
)

// GormShipmentRepository implements ShipmentRepository using GORM.
type GormShipmentRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormShipmentRepository creates a new GORM shipment repository.
func NewGormShipmentRepository(db *gorm.DB, tracker aggregateTracker) *GormShipmentRepository {
	return &GormShipmentRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new shipment to the database, including its history rows and
// embedded payment.
func (r *GormShipmentRepository) Add(ctx context.Context, aggregate *shipment.Shipment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing shipment to the database. The status flip and any
// history entries appended since the aggregate was loaded are written
// together; run inside a transaction so they commit as one unit. Existing
// history rows are never modified.
func (r *GormShipmentRepository) Update(ctx context.Context, aggregate *shipment.Shipment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&ShipmentDTO{}).Where("id = ?", dto.ID).Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if len(dto.History) > 0 {
		err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&dto.History).Error
		if err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a shipment by ID with its full history and payment.
func (r *GormShipmentRepository) Get(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ShipmentDTO
	err := r.withHistory(ctx).First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("shipment", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByTrackingNumber retrieves the shipment owning a tracking number.
func (r *GormShipmentRepository) GetByTrackingNumber(
	ctx context.Context,
	trackingNumber string,
) (*shipment.Shipment, error) {
	if trackingNumber == "" {
		return nil, errs.NewValueIsRequiredError("trackingNumber")
	}

	var dto ShipmentDTO
	err := r.withHistory(ctx).First(&dto, "tracking_number = ?", trackingNumber).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("trackingNumber", trackingNumber)
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllNonTerminal retrieves the polling backlog: every shipment whose
// status is neither Delivered nor ReturnedToCarrier, highest priority first.
func (r *GormShipmentRepository) GetAllNonTerminal(ctx context.Context) ([]*shipment.Shipment, error) {
	var dtos []ShipmentDTO
	err := r.withHistory(ctx).
		Where("status NOT IN ?", terminalStatuses()).
		Order("priority DESC, tracking_number").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	shipments := make([]*shipment.Shipment, 0, len(dtos))
	for _, dto := range dtos {
		s, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		shipments = append(shipments, s)
	}

	return shipments, nil
}

func (r *GormShipmentRepository) withHistory(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("History", func(db *gorm.DB) *gorm.DB {
		return db.Order("seq ASC")
	})
}

func terminalStatuses() []int {
	return []int{int(shipment.Delivered), int(shipment.ReturnedToCarrier)}
}
