// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// Consultation model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a consultation is not found, functions return
//     gorm.ErrRecordNotFound (also exported here as ErrNotFound).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
//
// The state-changing functions (ClaimConsultation, TransitionConsultation)
// are compare-and-swap updates guarded by the version column. They report
// whether the swap won via the returned row count; a zero count means another
// actor mutated the row first and the caller must re-read to classify the
// conflict. There is no lock manager: the version column is the only
// serialization point for consultation state.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-consult-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateConsultation inserts a new Consultation row submitted by patientID.
// The consultation starts PENDING with version 1 and no provider bound.
//
// On success, it returns the persisted Consultation. On failure, it returns a DB error.
func CreateConsultation(ctx context.Context, db *gorm.DB, patientID, summary string, priorityBucket int) (*domain.Consultation, error) {
	c := &domain.Consultation{
		ID:             uuid.NewString(),
		PatientID:      patientID,
		Status:         domain.StatusPending,
		Summary:        summary,
		PriorityBucket: priorityBucket,
		Version:        1,
		CreatedAt:      time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// GetConsultation fetches a single consultation by its ID. If the record
// does not exist, it returns ErrNotFound. On other DB errors, the raw error
// is returned.
func GetConsultation(ctx context.Context, db *gorm.DB, id string) (*domain.Consultation, error) {
	var c domain.Consultation
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ClaimConsultation attempts to atomically bind providerID to a PENDING
// consultation at the expected version. It returns true when this caller won
// the claim; false means the row was already claimed, cancelled, or mutated
// by another actor since expectedVersion was read.
func ClaimConsultation(ctx context.Context, db *gorm.DB, id, providerID string, expectedVersion int64, now time.Time) (bool, error) {
	res := db.WithContext(ctx).
		Model(&domain.Consultation{}).
		Where("id = ? AND version = ? AND status = ?", id, expectedVersion, domain.StatusPending).
		Updates(map[string]any{
			"status":      domain.StatusClaimed,
			"provider_id": providerID,
			"claimed_at":  now,
			"version":     expectedVersion + 1,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// TransitionConsultation performs a version-checked status update from
// fromStatus to target. Terminal targets also stamp resolved_at. It returns
// true when the swap won; false when the version or status no longer match.
func TransitionConsultation(ctx context.Context, db *gorm.DB, id string, fromStatus, target domain.Status, expectedVersion int64, now time.Time) (bool, error) {
	updates := map[string]any{
		"status":  target,
		"version": expectedVersion + 1,
	}
	if target.Terminal() {
		updates["resolved_at"] = now
	}
	res := db.WithContext(ctx).
		Model(&domain.Consultation{}).
		Where("id = ? AND version = ? AND status = ?", id, expectedVersion, fromStatus).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CountConsultationsByPatient returns the total number of consultations
// submitted by patientID.
func CountConsultationsByPatient(ctx context.Context, db *gorm.DB, patientID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Consultation{}).
		Where("patient_id = ?", patientID).
		Count(&total).Error
	return total, err
}

// ListConsultationsByPatientPage returns a paginated slice of consultations
// submitted by patientID, most recent first.
func ListConsultationsByPatientPage(ctx context.Context, db *gorm.DB, patientID string, offset, limit int) ([]domain.Consultation, error) {
	var out []domain.Consultation
	err := db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// CountConsultationsByProvider returns the total number of consultations
// claimed by providerID.
func CountConsultationsByProvider(ctx context.Context, db *gorm.DB, providerID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Consultation{}).
		Where("provider_id = ?", providerID).
		Count(&total).Error
	return total, err
}

// ListConsultationsByProviderPage returns a paginated slice of consultations
// claimed by providerID, most recent first.
func ListConsultationsByProviderPage(ctx context.Context, db *gorm.DB, providerID string, offset, limit int) ([]domain.Consultation, error) {
	var out []domain.Consultation
	err := db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}
