package resourceController

import (
	"context"
	"regexp"
	"testing"

	"sitelog/config"
	"sitelog/internal/database"
	. "sitelog/internal/models"
	"sitelog/internal/repositories"
	"sitelog/internal/services"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newTestController(t *testing.T) (ResourceControllerInterface, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)

	dbWrapper := database.DB{SQL: gormDB}
	repos := repositories.Repository{Resource: repositories.NewResourceRepository(dbWrapper)}

	return New(repos, services.Service{}, config.Config{}, dbWrapper), mock
}

func TestCreateRejectsDuplicateName(t *testing.T) {
	controller, mock := newTestController(t)

	projectID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "project_resources"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	_, err := controller.Create(context.Background(), projectID, &ResourceRequest{
		Name: "Mobile crane 90t",
		Kind: ResourceEquipment,
	})
	assert.ErrorIs(t, err, ErrNameTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateSkipsNameCheckWhenUnchanged(t *testing.T) {
	controller, mock := newTestController(t)

	resourceID := uuid.New()
	projectID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "project_resources"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "project_id", "name", "kind"}).
			AddRow(resourceID, projectID, "Erection crew", "labor"))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "project_resources"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	updated, err := controller.Update(context.Background(), resourceID, &ResourceRequest{
		Name: "Erection crew",
		Kind: ResourceLabor,
	})
	require.NoError(t, err)
	assert.Equal(t, "Erection crew", updated.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
