package store

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestSettingUpsertReplacesWholeValue(t *testing.T) {
	db := testDB(t)
	s := NewSiteSettingStore(db)

	key := "test_setting_" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanSettings(t, db, key) })

	if err := s.Set(key, json.RawMessage(`{"a":1,"b":2}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	// Second write replaces, never merges.
	if err := s.Set(key, json.RawMessage(`{"c":3}`)); err != nil {
		t.Fatalf("set again: %v", err)
	}

	got, err := s.Get(key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	var v map[string]int
	if err := json.Unmarshal(got.SettingValue, &v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, stale := v["a"]; stale {
		t.Error("old field survived the replace")
	}
	if v["c"] != 3 {
		t.Errorf("value = %v, want c:3", v)
	}
}

func TestSettingRejectsInvalidJSON(t *testing.T) {
	db := testDB(t)
	s := NewSiteSettingStore(db)

	err := s.Set("whatever", json.RawMessage(`{broken`))
	if err == nil {
		t.Fatal("expected error for invalid json")
	}
	if !errors.Is(err, ErrInvalidValue) {
		t.Errorf("error %v does not wrap ErrInvalidValue", err)
	}
}

func TestSettingGetMissing(t *testing.T) {
	db := testDB(t)
	s := NewSiteSettingStore(db)

	got, err := s.Get("missing_" + uuid.NewString()[:8])
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatal("expected nil for missing setting")
	}
}
