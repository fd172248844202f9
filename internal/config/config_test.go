package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("POSTGRES_PASSWORD", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("default port = %q, want 8080", cfg.Port)
	}
	if cfg.S3Bucket != "space-media" {
		t.Errorf("default bucket = %q, want space-media", cfg.S3Bucket)
	}
	if !cfg.IsDev() {
		t.Error("expected development mode")
	}
}

func TestProductionRejectsDefaultPassword(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("POSTGRES_PASSWORD", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for default password in production")
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5432", DBName: "d",
	}
	want := "postgres://u:p@h:5432/d?sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN = %q, want %q", got, want)
	}
}

func TestStorageConfigured(t *testing.T) {
	cfg := &Config{S3Endpoint: "http://minio:9000", S3AccessKey: "a", S3SecretKey: "s"}
	if !cfg.StorageConfigured() {
		t.Error("expected storage configured")
	}
	cfg.S3SecretKey = ""
	if cfg.StorageConfigured() {
		t.Error("expected storage not configured without secret")
	}
}
