package store

import (
	"testing"
	"time"

	"github.com/hearthhq/hearth/internal/database"
	"github.com/hearthhq/hearth/internal/model"
)

func setupBackupTestDB(t *testing.T) *BackupStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewBackupStore(db)
}

func TestBackupCreate(t *testing.T) {
	bs := setupBackupTestDB(t)

	b, err := bs.Create("backup-2025.db.enc", "backups/2025-01-01T00:00:00Z.db.enc")
	if err != nil {
		t.Fatalf("create backup: %v", err)
	}
	if b.ID == 0 {
		t.Error("expected non-zero ID")
	}
	if b.Filename != "backup-2025.db.enc" {
		t.Errorf("filename = %q, want %q", b.Filename, "backup-2025.db.enc")
	}
	if b.Status != model.BackupStatusPending {
		t.Errorf("status = %q, want %q", b.Status, model.BackupStatusPending)
	}
}

func TestBackupUpdateStatus(t *testing.T) {
	bs := setupBackupTestDB(t)

	b, _ := bs.Create("test.db.enc", "backups/test.db.enc")

	err := bs.UpdateStatus(b.ID, model.BackupStatusUploading, "")
	if err != nil {
		t.Fatalf("update status: %v", err)
	}

	got, _ := bs.GetByID(b.ID)
	if got.Status != model.BackupStatusUploading {
		t.Errorf("status = %q, want %q", got.Status, model.BackupStatusUploading)
	}

	// Update with error
	err = bs.UpdateStatus(b.ID, model.BackupStatusFailed, "upload failed")
	if err != nil {
		t.Fatalf("update status with error: %v", err)
	}
	got, _ = bs.GetByID(b.ID)
	if got.Status != model.BackupStatusFailed {
		t.Errorf("status = %q, want %q", got.Status, model.BackupStatusFailed)
	}
	if got.ErrorMessage != "upload failed" {
		t.Errorf("error_message = %q, want %q", got.ErrorMessage, "upload failed")
	}
}

func TestBackupUpdateCompleted(t *testing.T) {
	bs := setupBackupTestDB(t)

	b, _ := bs.Create("test.db.enc", "backups/test.db.enc")

	err := bs.UpdateCompleted(b.ID, 1024*1024)
	if err != nil {
		t.Fatalf("update completed: %v", err)
	}

	got, _ := bs.GetByID(b.ID)
	if got.Status != model.BackupStatusCompleted {
		t.Errorf("status = %q, want %q", got.Status, model.BackupStatusCompleted)
	}
	if got.SizeBytes != 1024*1024 {
		t.Errorf("size_bytes = %d, want %d", got.SizeBytes, 1024*1024)
	}
	if got.CompletedAt == nil {
		t.Error("expected completed_at to be set")
	}
}

func TestBackupListOrderAndLimit(t *testing.T) {
	bs := setupBackupTestDB(t)

	bs.Create("first.db.enc", "backups/first.db.enc")
	time.Sleep(10 * time.Millisecond)
	bs.Create("second.db.enc", "backups/second.db.enc")
	time.Sleep(10 * time.Millisecond)
	bs.Create("third.db.enc", "backups/third.db.enc")

	// List all
	all, err := bs.List(10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
	// Should be newest first
	if all[0].Filename != "third.db.enc" {
		t.Errorf("first entry = %q, want %q", all[0].Filename, "third.db.enc")
	}

	// Limit
	limited, err := bs.List(2)
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("len = %d, want 2", len(limited))
	}
}

func TestBackupGetByIDMissing(t *testing.T) {
	bs := setupBackupTestDB(t)

	b, err := bs.GetByID(999)
	if err != nil {
		t.Fatalf("get backup: %v", err)
	}
	if b != nil {
		t.Errorf("expected nil for missing backup, got %+v", b)
	}
}

func TestBackupDeleteOlderThan(t *testing.T) {
	bs := setupBackupTestDB(t)

	bs.Create("old.db.enc", "backups/old.db.enc")
	time.Sleep(50 * time.Millisecond)
	cutoff := time.Now().UTC()
	time.Sleep(50 * time.Millisecond)
	bs.Create("new.db.enc", "backups/new.db.enc")

	keys, err := bs.DeleteOlderThan(cutoff)
	if err != nil {
		t.Fatalf("delete older than: %v", err)
	}
	if len(keys) != 1 {
		t.Fatalf("deleted keys = %d, want 1", len(keys))
	}
	if keys[0] != "backups/old.db.enc" {
		t.Errorf("deleted key = %q, want %q", keys[0], "backups/old.db.enc")
	}

	remaining, _ := bs.List(10)
	if len(remaining) != 1 {
		t.Fatalf("remaining = %d, want 1", len(remaining))
	}
	if remaining[0].Filename != "new.db.enc" {
		t.Errorf("remaining = %q, want %q", remaining[0].Filename, "new.db.enc")
	}
}

func TestBackupLatestCompleted(t *testing.T) {
	bs := setupBackupTestDB(t)

	b1, _ := bs.Create("first.db.enc", "backups/first.db.enc")
	bs.UpdateCompleted(b1.ID, 100)
	time.Sleep(10 * time.Millisecond)
	b2, _ := bs.Create("second.db.enc", "backups/second.db.enc")
	bs.UpdateCompleted(b2.ID, 200)

	// Also create a failed one that shouldn't be returned
	b3, _ := bs.Create("failed.db.enc", "backups/failed.db.enc")
	bs.UpdateStatus(b3.ID, model.BackupStatusFailed, "error")

	latest, err := bs.LatestCompleted()
	if err != nil {
		t.Fatalf("latest completed: %v", err)
	}
	if latest == nil {
		t.Fatal("expected latest, got nil")
	}
	if latest.Filename != "second.db.enc" {
		t.Errorf("filename = %q, want %q", latest.Filename, "second.db.enc")
	}
}
