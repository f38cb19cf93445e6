package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/carewatch/carewatch/module/core/domain"
)

func TestListActiveByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	rows := sqlmock.NewRows([]string{"id", "user_id", "name", "center_lat", "center_lng", "radius_m", "kind", "alert_on_enter", "alert_on_exit", "active"}).
		AddRow("f-home", "u1", "Home", 35.6595, 139.7005, 200.0, "safe", false, true, true).
		AddRow("f-river", "u1", "Riverbank", 35.6680, 139.7100, 150.0, "danger", true, false, true)
	mock.ExpectQuery(`SELECT (.+) FROM geofences WHERE user_id = \$1 AND active = TRUE`).
		WithArgs("u1").
		WillReturnRows(rows)

	repo := NewGeofenceRepo(db)
	fences, err := repo.ListActiveByUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fences) != 2 {
		t.Fatalf("expected 2 geofences, got %d", len(fences))
	}
	if fences[0].Kind != domain.ZoneSafe || !fences[0].AlertOnExit {
		t.Errorf("unexpected safe fence %+v", fences[0])
	}
	if fences[1].Kind != domain.ZoneDanger || !fences[1].AlertOnEnter {
		t.Errorf("unexpected danger fence %+v", fences[1])
	}
}

func TestListActiveByUser_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	rows := sqlmock.NewRows([]string{"id", "user_id", "name", "center_lat", "center_lng", "radius_m", "kind", "alert_on_enter", "alert_on_exit", "active"})
	mock.ExpectQuery(`SELECT (.+) FROM geofences`).
		WithArgs("u1").
		WillReturnRows(rows)

	repo := NewGeofenceRepo(db)
	fences, err := repo.ListActiveByUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fences) != 0 {
		t.Fatalf("expected no geofences, got %d", len(fences))
	}
}
