package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg != Default() {
		t.Errorf("Expected defaults, got %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.yaml")
	content := []byte("addr: \":9000\"\ndebug: false\ndata_path: data/autos.csv\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":9000" {
		t.Errorf("Addr: expected :9000, got %s", cfg.Addr)
	}
	if cfg.Debug {
		t.Error("Debug: expected false")
	}
	if cfg.DataPath != "data/autos.csv" {
		t.Errorf("DataPath: expected data/autos.csv, got %s", cfg.DataPath)
	}
	// untouched keys keep their defaults
	if cfg.IDColumn != "car_ID" {
		t.Errorf("IDColumn: expected car_ID, got %s", cfg.IDColumn)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.yaml")
	if err := os.WriteFile(path, []byte("image_width: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Expected error for zero image width")
	}
}
