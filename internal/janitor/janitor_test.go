package janitor

import "testing"

func TestThumbKey(t *testing.T) {
	cases := []struct {
		key  string
		want string
	}{
		{"hero/1700000000-a1b2c3d4.png", "hero/1700000000-a1b2c3d4_thumb.jpg"},
		{"general/file.jpeg", "general/file_thumb.jpg"},
		{"general/no-extension", "general/no-extension_thumb.jpg"},
		{"dir.with.dots/plain", "dir.with.dots/plain_thumb.jpg"},
	}
	for _, tc := range cases {
		if got := thumbKey(tc.key); got != tc.want {
			t.Errorf("thumbKey(%q) = %q, want %q", tc.key, got, tc.want)
		}
	}
}

func TestPinnedKeysIncludeThumbnails(t *testing.T) {
	referenced := map[string]bool{
		"hero/1-aaaa.png":    true,
		"general/2-bbbb.pdf": true,
	}

	pinned := pinnedKeys(referenced)

	for _, want := range []string{
		"hero/1-aaaa.png",
		"hero/1-aaaa_thumb.jpg",
		"general/2-bbbb.pdf",
		"general/2-bbbb_thumb.jpg",
	} {
		if !pinned[want] {
			t.Errorf("expected %q to be pinned", want)
		}
	}
	if pinned["hero/3-cccc.png"] {
		t.Error("unreferenced key should not be pinned")
	}
}
