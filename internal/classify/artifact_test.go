package classify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spendlens/spendlens/internal/feature"
)

func TestArtifact_RoundTrip(t *testing.T) {
	m := trainedTestModel(t)
	path := filepath.Join(t.TempDir(), "model.json")

	art, err := NewArtifact(m)
	if err != nil {
		t.Fatal(err)
	}
	if art.FormatVersion != ArtifactFormatVersion {
		t.Errorf("format version %d, want %d", art.FormatVersion, ArtifactFormatVersion)
	}
	if art.Version == "" {
		t.Error("artifact version id must be set")
	}
	if err := SaveArtifact(art, path); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadArtifact(path)
	if err != nil {
		t.Fatal(err)
	}
	restored, err := loaded.Model()
	if err != nil {
		t.Fatal(err)
	}

	text := "netflix subscription streaming"
	extractor := feature.NewExtractor()
	raw := append(extractor.Extract(text, nil, "", ""), restored.Vocabulary.Weights(text)...)
	pred, err := restored.Predict(raw)
	if err != nil {
		t.Fatal(err)
	}
	if pred.Category != "Entertainment" {
		t.Errorf("restored model predicted %s, want Entertainment", pred.Category)
	}
}

func TestLoadArtifact_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadArtifact(path); err == nil {
		t.Error("expected error for corrupt artifact")
	}
}

func TestArtifact_Validate(t *testing.T) {
	m := trainedTestModel(t)
	fresh := func() *Artifact {
		art, err := NewArtifact(m)
		if err != nil {
			t.Fatal(err)
		}
		return art
	}

	tests := []struct {
		name   string
		mutate func(*Artifact)
	}{
		{"wrong format version", func(a *Artifact) { a.FormatVersion = 99 }},
		{"single label", func(a *Artifact) { a.Labels = a.Labels[:1] }},
		{"no feature names", func(a *Artifact) { a.FeatureNames = nil }},
		{"missing scaler", func(a *Artifact) { a.Scaler = nil }},
		{"missing classifier bytes", func(a *Artifact) { a.Classifier = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			art := fresh()
			tt.mutate(art)
			if _, err := art.Model(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestStore_LoadFile(t *testing.T) {
	m := trainedTestModel(t)
	path := filepath.Join(t.TempDir(), "model.json")
	art, err := NewArtifact(m)
	if err != nil {
		t.Fatal(err)
	}
	if err := SaveArtifact(art, path); err != nil {
		t.Fatal(err)
	}

	store := NewStore()
	if store.Current() != nil {
		t.Fatal("new store must start empty")
	}
	if err := store.LoadFile(path); err != nil {
		t.Fatal(err)
	}
	if store.Current() == nil {
		t.Fatal("expected a loaded model")
	}
}

func TestStore_LoadFileFailureKeepsActiveModel(t *testing.T) {
	store := NewStore()
	active := trainedTestModel(t)
	store.Swap(active)

	if err := store.LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
	if store.Current() != active {
		t.Error("failed load must not disturb the active model")
	}
}
