package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %q, want 8080", cfg.Server.Port)
	}
	// The zerolog level is configured separately from the gin mode; "release"
	// is not a parseable log level.
	if cfg.Server.LogLevel != "info" {
		t.Errorf("Server.LogLevel = %q, want info", cfg.Server.LogLevel)
	}
	if cfg.Server.MaxUploadMB != 64 {
		t.Errorf("Server.MaxUploadMB = %d, want 64", cfg.Server.MaxUploadMB)
	}
	if cfg.Digest.TargetDays != 30 {
		t.Errorf("Digest.TargetDays = %v, want 30", cfg.Digest.TargetDays)
	}
	if cfg.Digest.DedupeSeconds != 0 {
		t.Errorf("Digest.DedupeSeconds = %d, want 0", cfg.Digest.DedupeSeconds)
	}
	if cfg.Cache.Enabled {
		t.Error("Cache.Enabled should default to false")
	}
}
