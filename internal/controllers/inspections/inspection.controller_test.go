package inspectionController

import (
	"context"
	"regexp"
	"testing"

	"sitelog/config"
	"sitelog/internal/database"
	"sitelog/internal/repositories"
	"sitelog/internal/services"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newTestController(t *testing.T) (InspectionControllerInterface, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)

	dbWrapper := database.DB{SQL: gormDB}
	repos := repositories.Repository{Inspection: repositories.NewInspectionRepository(dbWrapper)}
	svc := services.Service{Transaction: services.NewTransactionService(dbWrapper)}

	return New(repos, svc, config.Config{}, dbWrapper), mock
}

func TestDeleteTypeCascadesInOneTransaction(t *testing.T) {
	controller, mock := newTestController(t)

	typeID := uuid.New()
	projectID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "inspection_types"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "project_id", "name"}).
			AddRow(typeID, projectID, "Erection"))

	// The whole subtree is soft-deleted bottom up inside the transaction
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "response_options"`)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "checkpoint_attachments"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "inspection_checkpoints"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "inspection_categories"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "inspection_types"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := controller.DeleteType(context.Background(), typeID)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteTypeRollsBackOnFailure(t *testing.T) {
	controller, mock := newTestController(t)

	typeID := uuid.New()
	projectID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "inspection_types"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "project_id", "name"}).
			AddRow(typeID, projectID, "Erection"))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "response_options"`)).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := controller.DeleteType(context.Background(), typeID)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTypeRejectsDuplicateName(t *testing.T) {
	controller, mock := newTestController(t)

	projectID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "inspection_types"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	_, err := controller.CreateType(context.Background(), projectID, &TypeRequest{Name: "Erection"})
	assert.ErrorIs(t, err, ErrNameTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCategoryRejectsDuplicateName(t *testing.T) {
	controller, mock := newTestController(t)

	typeID := uuid.New()
	projectID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "inspection_types"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "project_id", "name"}).
			AddRow(typeID, projectID, "Erection"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "inspection_categories"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	_, err := controller.CreateCategory(context.Background(), typeID, &CategoryRequest{Name: "Positioning"})
	assert.ErrorIs(t, err, ErrNameTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}
