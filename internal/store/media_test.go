package store

import (
	"testing"

	"github.com/google/uuid"

	"spacecms/internal/models"
)

func testAsset(key string) *models.MediaAsset {
	return &models.MediaAsset{
		FileName:    "photo.jpg",
		S3Key:       key,
		FileURL:     "https://cdn.example.com/" + key,
		ContentType: "image/jpeg",
		SizeBytes:   1024,
		Category:    "general",
	}
}

func testS3Key() string {
	return "general/test-" + uuid.NewString()[:8] + ".jpg"
}

func TestSoftDeleteKeepsRowHidesFromListing(t *testing.T) {
	db := testDB(t)
	s := NewMediaStore(db)

	key := testS3Key()
	t.Cleanup(func() { cleanMediaByKey(t, db, key) })

	created, err := s.Create(testAsset(key))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := s.SoftDelete(created.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	// The row survives with its storage key intact.
	got, err := s.FindByID(created.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got == nil {
		t.Fatal("row gone after soft delete")
	}
	if got.IsActive {
		t.Error("asset still active")
	}
	if got.S3Key != key {
		t.Errorf("s3 key changed: %q", got.S3Key)
	}

	// But never appears in the active listing.
	items, err := s.ListActive(100, 0)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	for _, m := range items {
		if m.ID == created.ID {
			t.Fatal("soft-deleted asset leaked into active listing")
		}
	}
}

func TestReplaceFileUpdatesMetadataInPlace(t *testing.T) {
	db := testDB(t)
	s := NewMediaStore(db)

	oldKey := testS3Key()
	newKey := testS3Key()
	t.Cleanup(func() { cleanMediaByKey(t, db, oldKey, newKey) })

	created, err := s.Create(testAsset(oldKey))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	replaced, err := s.ReplaceFile(created.ID, "newphoto.png", newKey,
		"https://cdn.example.com/"+newKey, "image/png", 2048)
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if replaced.ID != created.ID {
		t.Error("replace created a new row")
	}
	if replaced.S3Key != newKey || replaced.ContentType != "image/png" || replaced.SizeBytes != 2048 {
		t.Errorf("metadata not updated: %+v", replaced)
	}

	// Lifecycle check: after replace + soft delete, the single surviving
	// row is inactive and carries the post-replace metadata. The old and
	// new objects both linger in storage for the janitor.
	if err := s.SoftDelete(created.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	final, _ := s.FindByID(created.ID)
	if final.IsActive || final.S3Key != newKey {
		t.Errorf("final row = %+v, want inactive with key %q", final, newKey)
	}

	keys, err := s.AllKeys()
	if err != nil {
		t.Fatalf("all keys: %v", err)
	}
	if !keys[newKey] {
		t.Error("current key missing from janitor reference set")
	}
	if keys[oldKey] {
		t.Error("replaced key still referenced; janitor would never collect it")
	}
}

func TestListByCategory(t *testing.T) {
	db := testDB(t)
	s := NewMediaStore(db)

	key := testS3Key()
	t.Cleanup(func() { cleanMediaByKey(t, db, key) })

	a := testAsset(key)
	a.Category = "hero"
	if _, err := s.Create(a); err != nil {
		t.Fatalf("create: %v", err)
	}

	items, err := s.ListByCategory("hero", 100, 0)
	if err != nil {
		t.Fatalf("list by category: %v", err)
	}
	found := false
	for _, m := range items {
		if m.S3Key == key {
			found = true
		}
		if m.Category != "hero" {
			t.Errorf("foreign category leaked: %s", m.Category)
		}
	}
	if !found {
		t.Error("created asset missing from category listing")
	}
}

func TestHardDeleteReleasesKeyForJanitor(t *testing.T) {
	db := testDB(t)
	s := NewMediaStore(db)

	key := testS3Key()
	t.Cleanup(func() { cleanMediaByKey(t, db, key) })

	created, err := s.Create(testAsset(key))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	removed, err := s.HardDelete(created.ID)
	if err != nil {
		t.Fatalf("hard delete: %v", err)
	}
	if removed == nil || removed.S3Key != key {
		t.Fatalf("removed = %+v, want row with key %q", removed, key)
	}

	// Unlike soft delete, the key leaves the janitor reference set.
	keys, err := s.AllKeys()
	if err != nil {
		t.Fatalf("all keys: %v", err)
	}
	if keys[key] {
		t.Error("hard-deleted key still pins its object")
	}

	again, err := s.HardDelete(created.ID)
	if err != nil {
		t.Fatalf("second hard delete: %v", err)
	}
	if again != nil {
		t.Error("expected nil for an already-removed row")
	}
}

func TestCountAndSizeAggregates(t *testing.T) {
	db := testDB(t)
	s := NewMediaStore(db)

	key := testS3Key()
	t.Cleanup(func() { cleanMediaByKey(t, db, key) })

	category := "agg-" + uuid.NewString()[:8]
	a := testAsset(key)
	a.Category = category
	a.SizeBytes = 2048
	created, err := s.Create(a)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	count, err := s.CountActive()
	if err != nil {
		t.Fatalf("count active: %v", err)
	}
	if count < 1 {
		t.Errorf("count = %d, want at least 1", count)
	}

	sizes, err := s.SizeByCategory()
	if err != nil {
		t.Fatalf("size by category: %v", err)
	}
	if sizes[category] != 2048 {
		t.Errorf("size for %s = %d, want 2048", category, sizes[category])
	}

	// Soft-deleted assets drop out of the aggregates.
	if err := s.SoftDelete(created.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	sizes, err = s.SizeByCategory()
	if err != nil {
		t.Fatalf("size by category: %v", err)
	}
	if sizes[category] != 0 {
		t.Errorf("inactive asset still counted: %d bytes", sizes[category])
	}
}

func TestSoftDeleteMissingAsset(t *testing.T) {
	db := testDB(t)
	s := NewMediaStore(db)

	if err := s.SoftDelete(uuid.New()); err == nil {
		t.Fatal("expected error for missing asset")
	}
}
