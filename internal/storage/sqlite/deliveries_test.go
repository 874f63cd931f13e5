package sqlite

import (
	"testing"
)

func TestInitDBAndRoundtrip(t *testing.T) {
	db, err := InitDB(":memory:")
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	defer db.Close()

	batch := []Delivery{
		{WeekNumber: 41, Channel: "slack-report", Recipient: "#timesheet-alerts", OK: true},
		{WeekNumber: 41, Channel: "slack-dm", Recipient: "U001", OK: true},
		{WeekNumber: 41, Channel: "slack-dm", Recipient: "U002", OK: false, Error: "conversation open failed"},
		{WeekNumber: 41, Channel: "email", Recipient: "admin@example.com", OK: true},
	}
	n, err := InsertDeliveries(db, batch)
	if err != nil {
		t.Fatalf("InsertDeliveries: %v", err)
	}
	if n != len(batch) {
		t.Errorf("inserted %d, want %d", n, len(batch))
	}

	got, err := RecentDeliveries(db, 10)
	if err != nil {
		t.Fatalf("RecentDeliveries: %v", err)
	}
	if len(got) != len(batch) {
		t.Fatalf("got %d deliveries, want %d", len(got), len(batch))
	}

	byRecipient := make(map[string]Delivery, len(got))
	for _, d := range got {
		byRecipient[d.Recipient] = d
		if d.WeekNumber != 41 {
			t.Errorf("week_number = %d, want 41", d.WeekNumber)
		}
		if d.SentAt.IsZero() {
			t.Errorf("sent_at not populated for %s", d.Recipient)
		}
	}
	failed := byRecipient["U002"]
	if failed.OK {
		t.Error("U002 should be recorded as failed")
	}
	if failed.Error != "conversation open failed" {
		t.Errorf("error = %q", failed.Error)
	}
	if !byRecipient["#timesheet-alerts"].OK {
		t.Error("report delivery should be recorded as ok")
	}
}

func TestRecentDeliveriesLimit(t *testing.T) {
	db, err := InitDB(":memory:")
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	defer db.Close()

	var batch []Delivery
	for i := 0; i < 5; i++ {
		batch = append(batch, Delivery{WeekNumber: 40 + i, Channel: "email", Recipient: "hr@example.com", OK: true})
	}
	if _, err := InsertDeliveries(db, batch); err != nil {
		t.Fatalf("InsertDeliveries: %v", err)
	}

	got, err := RecentDeliveries(db, 2)
	if err != nil {
		t.Fatalf("RecentDeliveries: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d deliveries, want 2", len(got))
	}
	// Same timestamp for all rows, so the id tiebreak puts the newest first.
	if got[0].WeekNumber != 44 {
		t.Errorf("newest week = %d, want 44", got[0].WeekNumber)
	}
}

func TestRecentDeliveriesClampsLimit(t *testing.T) {
	db, err := InitDB(":memory:")
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	defer db.Close()

	batch := make([]Delivery, maxRecentDeliveries+10)
	for i := range batch {
		batch[i] = Delivery{WeekNumber: 41, Channel: "slack-dm", Recipient: "U1", OK: true}
	}
	if _, err := InsertDeliveries(db, batch); err != nil {
		t.Fatalf("InsertDeliveries: %v", err)
	}

	got, err := RecentDeliveries(db, 100_000_000)
	if err != nil {
		t.Fatalf("RecentDeliveries: %v", err)
	}
	if len(got) != maxRecentDeliveries {
		t.Errorf("got %d deliveries, want the %d cap", len(got), maxRecentDeliveries)
	}
}

func TestInsertDeliveriesEmptyBatch(t *testing.T) {
	db, err := InitDB(":memory:")
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	defer db.Close()

	n, err := InsertDeliveries(db, nil)
	if err != nil {
		t.Fatalf("InsertDeliveries: %v", err)
	}
	if n != 0 {
		t.Errorf("inserted %d, want 0", n)
	}
}
