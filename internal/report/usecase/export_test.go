package usecase_test

import (
	"bytes"
	"encoding/csv"
	"reflect"
	"testing"
	"time"

	messagedomain "jobradar-backend/internal/message/domain"
	"jobradar-backend/internal/report/usecase"
)

func TestWriteRankingCSV(t *testing.T) {
	ranked := []*messagedomain.RankedGroup{
		{
			GroupID: "g1", Name: "Alpha Jobs", Link: "https://t.me/alpha",
			JobMessageCount: 42, TotalMessageCount: 100, JobPercentage: 42,
			LastActivity: time.Date(2026, 8, 30, 14, 5, 0, 0, time.UTC),
			OwnedBy:      "account1",
		},
		{
			GroupID: "g2", Name: "Beta Jobs", Link: "https://t.me/beta",
			JobMessageCount: 10, TotalMessageCount: 30, JobPercentage: 33.333333,
		},
	}

	var buf bytes.Buffer
	if err := usecase.WriteRankingCSV(&buf, ranked); err != nil {
		t.Fatalf("WriteRankingCSV failed: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parsing output: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}

	wantHeader := []string{
		"rank", "channel_name", "channel_link", "job_messages",
		"total_messages", "job_percentage", "last_activity", "joined_by_account",
	}
	if !reflect.DeepEqual(rows[0], wantHeader) {
		t.Errorf("header = %v, want %v", rows[0], wantHeader)
	}

	want1 := []string{"1", "Alpha Jobs", "https://t.me/alpha", "42", "100", "42.00", "2026-08-30 14:05:00", "account1"}
	if !reflect.DeepEqual(rows[1], want1) {
		t.Errorf("row 1 = %v, want %v", rows[1], want1)
	}

	// Unowned group with no activity timestamp leaves both fields empty
	want2 := []string{"2", "Beta Jobs", "https://t.me/beta", "10", "30", "33.33", "", ""}
	if !reflect.DeepEqual(rows[2], want2) {
		t.Errorf("row 2 = %v, want %v", rows[2], want2)
	}
}

func TestWriteRankingCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := usecase.WriteRankingCSV(&buf, nil); err != nil {
		t.Fatalf("WriteRankingCSV failed: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parsing output: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("rows = %d, want header only", len(rows))
	}
}
