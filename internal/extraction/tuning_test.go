package extraction

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadTuningDefaults(t *testing.T) {
	got, err := LoadTuning("")
	if err != nil {
		t.Fatalf("LoadTuning: %v", err)
	}
	if got != DefaultTuning() {
		t.Errorf("LoadTuning(\"\") = %+v, want defaults", got)
	}
}

func TestLoadTuningOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	raw := "cascade_labelled: 0.99\ntax_rate: 0.10\n"
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write tuning file: %v", err)
	}

	got, err := LoadTuning(path)
	if err != nil {
		t.Fatalf("LoadTuning: %v", err)
	}
	if got.CascadeLabelled != 0.99 {
		t.Errorf("cascade_labelled = %v, want 0.99", got.CascadeLabelled)
	}
	if got.TaxRate != 0.10 {
		t.Errorf("tax_rate = %v, want 0.10", got.TaxRate)
	}
	// Unset keys keep their defaults.
	if got.SyntheticDefault != DefaultTuning().SyntheticDefault {
		t.Errorf("synthetic_default = %v, want default", got.SyntheticDefault)
	}
}

func TestLoadTuningMissingFile(t *testing.T) {
	if _, err := LoadTuning(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing tuning file")
	}
}
