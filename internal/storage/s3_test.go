package storage

import "testing"

func testClient(t *testing.T, publicURL string) *Client {
	t.Helper()
	c, err := New("http://127.0.0.1:9000/", "us-east-1", "key", "secret", "space-media", publicURL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestNewUnconfiguredReturnsNil(t *testing.T) {
	c, err := New("", "us-east-1", "", "", "space-media", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c != nil {
		t.Fatal("expected nil client without endpoint and credentials")
	}
}

func TestFileURL(t *testing.T) {
	c := testClient(t, "")
	if got := c.FileURL("hero/1-aaaa.png"); got != "http://127.0.0.1:9000/space-media/hero/1-aaaa.png" {
		t.Errorf("path-style url = %q", got)
	}

	c = testClient(t, "https://cdn.example.com/")
	if got := c.FileURL("hero/1-aaaa.png"); got != "https://cdn.example.com/hero/1-aaaa.png" {
		t.Errorf("cdn url = %q", got)
	}
}

func TestExtractKeyRoundTrips(t *testing.T) {
	for _, publicURL := range []string{"", "https://cdn.example.com"} {
		c := testClient(t, publicURL)
		key := "general/1700000000-a1b2c3d4.jpg"
		got, ok := c.ExtractKey(c.FileURL(key))
		if !ok {
			t.Fatalf("publicURL=%q: url not recognized", publicURL)
		}
		if got != key {
			t.Errorf("publicURL=%q: key = %q, want %q", publicURL, got, key)
		}
	}
}

func TestExtractKeyRejectsForeignURL(t *testing.T) {
	c := testClient(t, "https://cdn.example.com")
	if _, ok := c.ExtractKey("https://elsewhere.example.com/general/file.jpg"); ok {
		t.Fatal("foreign url should not map to a key")
	}
}
