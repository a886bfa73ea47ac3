package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobRepository_ConsumeCreditsTx(t *testing.T) {

	tests := []struct {
		name      string
		n         int
		setupMock func(sqlmock.Sqlmock)
		wantOK    bool
		wantErr   bool
	}{
		{
			name: "credits available",
			n:    3,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`UPDATE jobs`).
					WithArgs(3, sqlmock.AnyArg(), "job-1", 3).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			wantOK: true,
		},
		{
			name: "ceiling reached",
			n:    5,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`UPDATE jobs`).
					WithArgs(5, sqlmock.AnyArg(), "job-1", 5).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantOK: false,
		},
		{
			name: "database error",
			n:    1,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`UPDATE jobs`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			repo := NewJobRepository(db)

			tt.setupMock(mock)

			tx, err := db.Begin()
			require.NoError(t, err)

			ok, err := repo.ConsumeCreditsTx(context.Background(), tx, "job-1", tt.n)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantOK, ok)
			}

			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPaymentRepository_ConsumeTx(t *testing.T) {

	tests := []struct {
		name      string
		setupMock func(sqlmock.Sqlmock)
		wantOK    bool
	}{
		{
			name: "first consumer wins",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`UPDATE payments`).
					WithArgs(sqlmock.AnyArg(), "payment-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			wantOK: true,
		},
		{
			name: "already consumed",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`UPDATE payments`).
					WithArgs(sqlmock.AnyArg(), "payment-1").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			repo := NewPaymentRepository(db)

			tt.setupMock(mock)

			tx, err := db.Begin()
			require.NoError(t, err)

			ok, err := repo.ConsumeTx(context.Background(), tx, "payment-1")
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)

			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
