package qrController

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"

	"sitelog/config"
	"sitelog/internal/database"
	"sitelog/internal/logger"
	. "sitelog/internal/models"
	"sitelog/internal/repositories"
	"sitelog/internal/services"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrCodeNotFound     = errors.New("QR code not found")
	ErrCodeActive       = errors.New("QR code is already bound to an object")
	ErrCodeInactive     = errors.New("QR code is not bound to an object")
	ErrObjectBound      = errors.New("object already has an active QR code")
	ErrInvalidBatchSize = errors.New("batch size must be between 1 and 1000")
	ErrGUIDRequired     = errors.New("object GUID is required")
)

// codeAlphabet omits visually ambiguous characters for codes printed on
// weather-exposed labels.
const codeAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"
const codeLength = 8

type QRController struct {
	qrRepo             repositories.QRCodeRepository
	transactionService *services.TransactionService
	db                 database.DB
	Config             config.Config
	log                logger.Logger
}

type GenerateBatchRequest struct {
	Count int    `json:"count" validate:"required"`
	Label string `json:"label"`
}

type ActivateRequest struct {
	ObjectGUID string `json:"objectGuid" validate:"required"`
}

type QRControllerInterface interface {
	List(ctx context.Context, projectID uuid.UUID) ([]QRCode, error)
	GenerateBatch(ctx context.Context, projectID uuid.UUID, request *GenerateBatchRequest) ([]QRCode, error)
	Resolve(ctx context.Context, code string) (*QRCode, error)
	Activate(ctx context.Context, code string, user *User, request *ActivateRequest) (*QRCode, error)
	Release(ctx context.Context, code string) (*QRCode, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
	db database.DB,
) QRControllerInterface {
	return &QRController{
		qrRepo:             repos.QRCode,
		transactionService: services.Transaction,
		db:                 db,
		Config:             config,
		log:                logger.New("qrController"),
	}
}

func (c *QRController) List(ctx context.Context, projectID uuid.UUID) ([]QRCode, error) {
	log := c.log.Function("List")

	codes, err := c.qrRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, log.Err("failed to list QR codes", err, "projectID", projectID)
	}

	return codes, nil
}

// GenerateBatch mints a set of unbound codes for printing
func (c *QRController) GenerateBatch(ctx context.Context, projectID uuid.UUID, request *GenerateBatchRequest) ([]QRCode, error) {
	log := c.log.Function("GenerateBatch")

	if request.Count < 1 || request.Count > 1000 {
		return nil, ErrInvalidBatchSize
	}

	codes := make([]*QRCode, request.Count)
	for i := range codes {
		code, err := randomCode()
		if err != nil {
			return nil, log.Err("failed to generate code", err)
		}
		codes[i] = &QRCode{
			ProjectID: projectID,
			Code:      code,
			Label:     request.Label,
		}
	}

	if err := c.qrRepo.CreateBatch(ctx, codes); err != nil {
		return nil, log.Err("failed to persist QR codes", err, "projectID", projectID, "count", request.Count)
	}

	log.Info("QR codes generated", "projectID", projectID, "count", request.Count)

	result := make([]QRCode, len(codes))
	for i, code := range codes {
		result[i] = *code
	}

	return result, nil
}

func (c *QRController) Resolve(ctx context.Context, code string) (*QRCode, error) {
	qr, err := c.qrRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if qr == nil {
		return nil, ErrCodeNotFound
	}
	return qr, nil
}

// Activate binds a printed code to a model object. The bind is exclusive
// both ways: one code per object and one object per code.
func (c *QRController) Activate(ctx context.Context, code string, user *User, request *ActivateRequest) (*QRCode, error) {
	log := c.log.Function("Activate")

	if request.ObjectGUID == "" {
		return nil, ErrGUIDRequired
	}

	var qr *QRCode
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		qr, err = c.qrRepo.GetByCode(ctx, code)
		if err != nil {
			return err
		}
		if qr == nil {
			return ErrCodeNotFound
		}
		if qr.IsActivated() {
			return ErrCodeActive
		}

		bound, err := c.qrRepo.GetByObjectGUID(ctx, qr.ProjectID, request.ObjectGUID)
		if err != nil {
			return err
		}
		if bound != nil {
			return ErrObjectBound
		}

		return c.qrRepo.Activate(ctx, qr, request.ObjectGUID, user.ID)
	})
	if err != nil {
		if errors.Is(err, ErrCodeNotFound) || errors.Is(err, ErrCodeActive) || errors.Is(err, ErrObjectBound) {
			return nil, err
		}
		return nil, log.Err("failed to activate QR code", err, "code", code)
	}

	log.Info("QR code activated", "code", code, "guid", request.ObjectGUID, "userID", user.ID)
	return qr, nil
}

func (c *QRController) Release(ctx context.Context, code string) (*QRCode, error) {
	log := c.log.Function("Release")

	qr, err := c.Resolve(ctx, code)
	if err != nil {
		return nil, err
	}
	if !qr.IsActivated() {
		return nil, ErrCodeInactive
	}

	if err := c.qrRepo.Release(ctx, qr); err != nil {
		return nil, log.Err("failed to release QR code", err, "code", code)
	}

	log.Info("QR code released", "code", code)
	return qr, nil
}

func randomCode() (string, error) {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}

	return string(buf), nil
}
