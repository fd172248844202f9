package store

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"
)

func testSectionKey() string {
	return "test_section_" + uuid.NewString()[:8]
}

func TestUpdateContentBumpsVersionAndJournals(t *testing.T) {
	db := testDB(t)
	s := NewContentStore(db)

	key := testSectionKey()
	t.Cleanup(func() { cleanSections(t, db, key) })

	created, err := s.CreateSection(key, "Test Section", json.RawMessage(`{"v":0}`), nil)
	if err != nil {
		t.Fatalf("create section: %v", err)
	}
	if created.Version != 1 {
		t.Fatalf("new section version = %d, want 1", created.Version)
	}

	// N updates must produce version+N and exactly N new journal rows.
	const updates = 3
	for i := 1; i <= updates; i++ {
		payload := json.RawMessage(fmt.Sprintf(`{"v":%d}`, i))
		got, err := s.UpdateContent(key, payload, nil)
		if err != nil {
			t.Fatalf("update %d: %v", i, err)
		}
		if got.Version != 1+i {
			t.Fatalf("after update %d version = %d, want %d", i, got.Version, 1+i)
		}
	}

	count, err := s.HistoryCount(key)
	if err != nil {
		t.Fatalf("history count: %v", err)
	}
	// 1 create entry + 3 update entries.
	if count != 1+updates {
		t.Fatalf("history count = %d, want %d", count, 1+updates)
	}

	history, err := s.HistoryForKey(key, 10)
	if err != nil {
		t.Fatalf("history list: %v", err)
	}
	latest := history[0]
	if latest.Version != 1+updates {
		t.Fatalf("latest history version = %d, want %d", latest.Version, 1+updates)
	}
	var snap struct{ V int }
	if err := json.Unmarshal(latest.Content, &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.V != updates {
		t.Fatalf("latest snapshot v = %d, want %d", snap.V, updates)
	}
}

func TestSetPublishedLeavesVersionAndHistoryAlone(t *testing.T) {
	db := testDB(t)
	s := NewContentStore(db)

	key := testSectionKey()
	t.Cleanup(func() { cleanSections(t, db, key) })

	if _, err := s.CreateSection(key, "Test Section", json.RawMessage(`{"a":1}`), nil); err != nil {
		t.Fatalf("create section: %v", err)
	}

	before, _ := s.FindByKey(key)
	beforeCount, _ := s.HistoryCount(key)

	for _, published := range []bool{true, false, true} {
		if err := s.SetPublished(key, published); err != nil {
			t.Fatalf("set published %v: %v", published, err)
		}
	}

	after, err := s.FindByKey(key)
	if err != nil {
		t.Fatalf("find section: %v", err)
	}
	if !after.IsPublished {
		t.Error("section should end published")
	}
	if after.Version != before.Version {
		t.Errorf("publish toggles changed version: %d -> %d", before.Version, after.Version)
	}
	afterCount, _ := s.HistoryCount(key)
	if afterCount != beforeCount {
		t.Errorf("publish toggles changed history count: %d -> %d", beforeCount, afterCount)
	}
}

func TestUpdateContentUnknownSection(t *testing.T) {
	db := testDB(t)
	s := NewContentStore(db)

	if _, err := s.UpdateContent("no_such_section_"+uuid.NewString()[:8], json.RawMessage(`{}`), nil); err == nil {
		t.Fatal("expected error for unknown section key")
	}
}

func TestUpdateContentRejectsInvalidPayload(t *testing.T) {
	db := testDB(t)
	s := NewContentStore(db)

	key := testSectionKey()
	t.Cleanup(func() { cleanSections(t, db, key) })

	if _, err := s.CreateSection(key, "Test Section", json.RawMessage(`{"a":1}`), nil); err != nil {
		t.Fatalf("create section: %v", err)
	}

	if _, err := s.UpdateContent(key, json.RawMessage(`{"broken":`), nil); err == nil {
		t.Fatal("expected error for invalid json")
	}

	// A rejected write must not bump the version.
	got, _ := s.FindByKey(key)
	if got.Version != 1 {
		t.Fatalf("version after rejected write = %d, want 1", got.Version)
	}
}

func TestListPublishedExcludesDrafts(t *testing.T) {
	db := testDB(t)
	s := NewContentStore(db)

	published := testSectionKey()
	draft := testSectionKey()
	t.Cleanup(func() { cleanSections(t, db, published, draft) })

	if _, err := s.CreateSection(published, "Pub", json.RawMessage(`{}`), nil); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.CreateSection(draft, "Draft", json.RawMessage(`{}`), nil); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.SetPublished(published, true); err != nil {
		t.Fatalf("publish: %v", err)
	}

	items, err := s.ListPublished()
	if err != nil {
		t.Fatalf("list published: %v", err)
	}
	keys := make(map[string]bool)
	for _, c := range items {
		keys[c.SectionKey] = true
	}
	if !keys[published] {
		t.Error("published section missing from listing")
	}
	if keys[draft] {
		t.Error("draft section leaked into published listing")
	}
}
