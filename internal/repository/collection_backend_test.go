package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edu-agent-api/internal/models"
	"github.com/noah-isme/edu-agent-api/pkg/storage"
)

func newBackendMock(t *testing.T) (*PostgresCollectionBackend, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresCollectionBackend(sqlx.NewDb(db, "sqlmock")), mock, func() { db.Close() }
}

func TestPostgresBackendReadMissingIsNotFound(t *testing.T) {
	backend, mock, cleanup := newBackendMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT payload FROM record_collections WHERE name = $1")).
		WithArgs("cours").
		WillReturnError(sql.ErrNoRows)

	_, err := backend.Read(context.Background(), models.CollectionCourses)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresBackendReadReturnsPayload(t *testing.T) {
	backend, mock, cleanup := newBackendMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT payload FROM record_collections WHERE name = $1")).
		WithArgs("notes").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow([]byte(`[{"id":1,"valeur":12}]`)))

	payload, err := backend.Read(context.Background(), models.CollectionGrades)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1,"valeur":12}]`, string(payload))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresBackendWriteUpserts(t *testing.T) {
	backend, mock, cleanup := newBackendMock(t)
	defer cleanup()

	mock.ExpectExec("(?s)INSERT INTO record_collections.*ON CONFLICT \\(name\\) DO UPDATE").
		WithArgs("reviews", `[]`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, backend.Write(context.Background(), models.CollectionReviews, []byte(`[]`)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresBackendThroughRepository(t *testing.T) {
	backend, mock, cleanup := newBackendMock(t)
	defer cleanup()
	repos := NewRepositories(NewRecordStore(backend, nil))

	mock.ExpectQuery("SELECT payload FROM record_collections").
		WithArgs("professeurs").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow([]byte(`[{"id":4,"nom":"Curie"}]`)))
	mock.ExpectExec("INSERT INTO record_collections").
		WithArgs("professeurs", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	created, err := repos.Professors.Insert(context.Background(), models.Professor{Name: "Turing"})
	require.NoError(t, err)
	assert.Equal(t, 5, created.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresBackendEnsureSchema(t *testing.T) {
	backend, mock, cleanup := newBackendMock(t)
	defer cleanup()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS record_collections").WillReturnError(errors.New("denied"))
	err := backend.EnsureSchema(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ensure record_collections")
	assert.NoError(t, mock.ExpectationsWereMet())
}
