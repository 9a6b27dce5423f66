package chargerepo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shiptrack/internal/core/domain/model/kernel"
	"shiptrack/internal/core/domain/model/shipment"
	"shiptrack/internal/pkg/errs"
)

// GormChargeShipmentRepository implements ChargeShipmentRepository using GORM.
type GormChargeShipmentRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormChargeShipmentRepository creates a new GORM charge shipment repository.
func NewGormChargeShipmentRepository(db *gorm.DB, tracker aggregateTracker) *GormChargeShipmentRepository {
	return &GormChargeShipmentRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new charge shipment to the database.
func (r *GormChargeShipmentRepository) Add(ctx context.Context, aggregate *shipment.Shipment) error {
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

// Update saves an existing charge shipment. The status flip and any newly
// appended history rows are written together; run inside a transaction so
// they commit as one unit.
func (r *GormChargeShipmentRepository) Update(ctx context.Context, aggregate *shipment.Shipment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&ChargeShipmentDTO{}).Where("id = ?", dto.ID).Updates(&dto)
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

// Get retrieves a charge shipment by ID with its full history and payment.
func (r *GormChargeShipmentRepository) Get(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ChargeShipmentDTO
	err := r.withHistory(ctx).First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("chargeShipment", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByTrackingNumber retrieves the charge shipment owning a tracking number.
func (r *GormChargeShipmentRepository) GetByTrackingNumber(
	ctx context.Context,
	trackingNumber string,
) (*shipment.Shipment, error) {
	if trackingNumber == "" {
		return nil, errs.NewValueIsRequiredError("trackingNumber")
	}

	var dto ChargeShipmentDTO
	err := r.withHistory(ctx).First(&dto, "tracking_number = ?", trackingNumber).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("trackingNumber", trackingNumber)
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllNonTerminal retrieves every charge shipment whose status is neither
// Delivered nor ReturnedToCarrier, highest priority first.
func (r *GormChargeShipmentRepository) GetAllNonTerminal(ctx context.Context) ([]*shipment.Shipment, error) {
	var dtos []ChargeShipmentDTO
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

func (r *GormChargeShipmentRepository) withHistory(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("History", func(db *gorm.DB) *gorm.DB {
		return db.Order("seq ASC")
	})
}

func terminalStatuses() []int {
	return []int{int(shipment.Delivered), int(shipment.ReturnedToCarrier)}
}
