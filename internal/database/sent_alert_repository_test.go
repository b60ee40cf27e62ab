package database_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/saspirant/notifier/internal/database"
	"github.com/saspirant/notifier/internal/domain"
)

func TestSentAlertRepository_Exists(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := database.NewSentAlertRepository(db)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("user-1", "notif-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.Exists(context.Background(), "user-1", "notif-1")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if !exists {
		t.Error("expected exists=true")
	}

	expectationsMet(t, mock)
}

func TestSentAlertRepository_Create(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := database.NewSentAlertRepository(db)

	mock.ExpectExec("INSERT INTO sent_alerts").
		WillReturnResult(sqlmock.NewResult(0, 1))

	alert := &domain.SentAlert{
		UserID:         "user-1",
		NotificationID: "notif-1",
		Status:         domain.AlertStatusSent,
	}
	if err := repo.Create(context.Background(), alert); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if alert.ID == "" {
		t.Error("expected a generated alert ID")
	}

	expectationsMet(t, mock)
}

func TestSentAlertRepository_Create_DuplicateIsSilent(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := database.NewSentAlertRepository(db)

	// ON CONFLICT DO NOTHING: zero rows affected, no error.
	mock.ExpectExec("INSERT INTO sent_alerts").
		WillReturnResult(sqlmock.NewResult(0, 0))

	alert := &domain.SentAlert{
		UserID:         "user-1",
		NotificationID: "notif-1",
		Status:         domain.AlertStatusFailed,
	}
	if err := repo.Create(context.Background(), alert); err != nil {
		t.Fatalf("Create() on duplicate should not error, got %v", err)
	}

	expectationsMet(t, mock)
}
