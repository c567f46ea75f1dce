package db

import (
	"testing"
	"time"
)

func TestLogAndRecentRequests(t *testing.T) {
	gdb, err := InitDB("file::memory:")
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}

	if err := LogRequest(gdb, "GET", "/api/glucose/current", 200, 12*time.Millisecond, "127.0.0.1", ""); err != nil {
		t.Fatalf("LogRequest: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	if err := LogRequest(gdb, "GET", "/api/devices", 500, 40*time.Millisecond, "127.0.0.1", "upstream failure"); err != nil {
		t.Fatalf("LogRequest: %v", err)
	}

	logs, err := RecentRequests(gdb, 10)
	if err != nil {
		t.Fatalf("RecentRequests: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("len = %d, want 2", len(logs))
	}
	if logs[0].Path != "/api/devices" {
		t.Errorf("newest first: got %q", logs[0].Path)
	}
	if logs[0].Status != 500 || logs[0].Error != "upstream failure" {
		t.Errorf("row = %+v", logs[0])
	}
	if logs[1].DurationMs != 12 {
		t.Errorf("duration = %d", logs[1].DurationMs)
	}
}

func TestRecentRequestsLimit(t *testing.T) {
	gdb, err := InitDB("file::memory:")
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		if err := LogRequest(gdb, "GET", "/api/statistics", 200, time.Millisecond, "", ""); err != nil {
			t.Fatal(err)
		}
	}
	logs, err := RecentRequests(gdb, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 3 {
		t.Errorf("len = %d, want 3", len(logs))
	}
}
