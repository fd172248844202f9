package models

import "testing"

func TestMediaIsImage(t *testing.T) {
	cases := []struct {
		contentType string
		want        bool
	}{
		{"image/jpeg", true},
		{"image/svg+xml", true},
		{"application/pdf", false},
		{"", false},
	}
	for _, tc := range cases {
		m := &MediaAsset{ContentType: tc.contentType}
		if got := m.IsImage(); got != tc.want {
			t.Errorf("IsImage(%q) = %v, want %v", tc.contentType, got, tc.want)
		}
	}
}

func TestMediaHumanSize(t *testing.T) {
	cases := []struct {
		bytes int64
		want  string
	}{
		{512, "512 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
	}
	for _, tc := range cases {
		m := &MediaAsset{SizeBytes: tc.bytes}
		if got := m.HumanSize(); got != tc.want {
			t.Errorf("HumanSize(%d) = %q, want %q", tc.bytes, got, tc.want)
		}
	}
}
