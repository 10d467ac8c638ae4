package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"postboard/internal/model"
)

func setupMySQLMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return db, mock
}

func TestEvaluationRepository_UpsertMySQLUsesDuplicateKeyUpdate(t *testing.T) {
	db, mock := setupMySQLMock(t)
	repo := NewEvaluationRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `likes`") + ".*" + regexp.QuoteMeta("ON DUPLICATE KEY UPDATE `is_like`=")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Upsert(context.Background(), &model.Evaluation{UserID: 2, PostID: 1, Like: true})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEvaluationRepository_GetMySQL(t *testing.T) {
	db, mock := setupMySQLMock(t)
	repo := NewEvaluationRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `likes` WHERE user_id = ? AND post_id = ?")).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "post_id", "is_like"}).AddRow(2, 1, false))

	found, err := repo.Get(context.Background(), 2, 1)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.False(t, found.Like)
	assert.NoError(t, mock.ExpectationsWereMet())
}
