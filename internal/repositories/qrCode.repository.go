package repositories

import (
	"context"
	"errors"
	"time"

	contextutil "sitelog/internal/context"
	"sitelog/internal/database"
	"sitelog/internal/logger"
	. "sitelog/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QRCodeRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*QRCode, error)
	GetByCode(ctx context.Context, code string) (*QRCode, error)
	GetByObjectGUID(ctx context.Context, projectID uuid.UUID, guid string) (*QRCode, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]QRCode, error)
	CreateBatch(ctx context.Context, codes []*QRCode) error
	Activate(ctx context.Context, code *QRCode, objectGUID string, userID uuid.UUID) error
	Release(ctx context.Context, code *QRCode) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type qrCodeRepository struct {
	db  database.DB
	log logger.Logger
}

func NewQRCodeRepository(db database.DB) QRCodeRepository {
	return &qrCodeRepository{
		db:  db,
		log: logger.New("qrCodeRepository"),
	}
}

func (r *qrCodeRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextutil.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *qrCodeRepository) GetByID(ctx context.Context, id uuid.UUID) (*QRCode, error) {
	log := r.log.Function("GetByID")

	var code QRCode
	if err := r.getDB(ctx).First(&code, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, log.Err("failed to get QR code", err, "id", id)
	}

	return &code, nil
}

func (r *qrCodeRepository) GetByCode(ctx context.Context, code string) (*QRCode, error) {
	log := r.log.Function("GetByCode")

	var qr QRCode
	if err := r.getDB(ctx).First(&qr, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, log.Err("failed to get QR code", err, "code", code)
	}

	return &qr, nil
}

func (r *qrCodeRepository) GetByObjectGUID(ctx context.Context, projectID uuid.UUID, guid string) (*QRCode, error) {
	log := r.log.Function("GetByObjectGUID")

	var qr QRCode
	err := r.getDB(ctx).First(&qr, "project_id = ? AND object_guid = ?", projectID, guid).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, log.Err("failed to get QR code by object GUID", err, "projectID", projectID, "guid", guid)
	}

	return &qr, nil
}

func (r *qrCodeRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]QRCode, error) {
	log := r.log.Function("ListByProject")

	var codes []QRCode
	err := r.getDB(ctx).
		Where("project_id = ?", projectID).
		Order("created_at desc").
		Find(&codes).Error
	if err != nil {
		return nil, log.Err("failed to list QR codes", err, "projectID", projectID)
	}

	return codes, nil
}

func (r *qrCodeRepository) CreateBatch(ctx context.Context, codes []*QRCode) error {
	log := r.log.Function("CreateBatch")

	if len(codes) == 0 {
		return nil
	}

	if err := r.getDB(ctx).CreateInBatches(codes, 500).Error; err != nil {
		return log.Err("failed to create QR codes", err, "count", len(codes))
	}

	return nil
}

func (r *qrCodeRepository) Activate(ctx context.Context, code *QRCode, objectGUID string, userID uuid.UUID) error {
	log := r.log.Function("Activate")

	now := time.Now().UTC()
	code.ObjectGUID = &objectGUID
	code.ActivatedAt = &now
	code.ActivatedByID = &userID

	if err := r.getDB(ctx).Save(code).Error; err != nil {
		return log.Err("failed to activate QR code", err, "codeID", code.ID, "guid", objectGUID)
	}

	return nil
}

func (r *qrCodeRepository) Release(ctx context.Context, code *QRCode) error {
	log := r.log.Function("Release")

	code.ObjectGUID = nil
	code.ActivatedAt = nil
	code.ActivatedByID = nil

	err := r.getDB(ctx).
		Model(code).
		Select("ObjectGUID", "ActivatedAt", "ActivatedByID").
		Updates(map[string]any{
			"object_guid":     nil,
			"activated_at":    nil,
			"activated_by_id": nil,
		}).Error
	if err != nil {
		return log.Err("failed to release QR code", err, "codeID", code.ID)
	}

	return nil
}

func (r *qrCodeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	log := r.log.Function("Delete")

	if err := r.getDB(ctx).Delete(&QRCode{}, "id = ?", id).Error; err != nil {
		return log.Err("failed to delete QR code", err, "codeID", id)
	}

	return nil
}
