package classify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jbrukh/bayesian"

	"github.com/spendlens/spendlens/internal/feature"
)

// ArtifactFormatVersion changes whenever the on-disk layout does.
// Loading rejects any other version.
const ArtifactFormatVersion = 1

// Artifact is the serialized form of a trained model: the feature
// pipeline state plus the gob-encoded classifier, in one JSON envelope.
type Artifact struct {
	FormatVersion int                 `json:"format_version"`
	Version       string              `json:"version"`
	CreatedAt     time.Time           `json:"created_at"`
	Labels        []string            `json:"labels"`
	FeatureNames  []string            `json:"feature_names"`
	Vocabulary    *feature.Vocabulary `json:"vocabulary"`
	Scaler        *feature.Scaler     `json:"scaler"`
	Classifier    []byte              `json:"classifier"`
}

// NewArtifact packages a trained model for persistence, stamping it
// with a fresh version id
func NewArtifact(m *Model) (*Artifact, error) {
	if err := validateModel(m); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := m.Classifier.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encoding classifier: %w", err)
	}
	return &Artifact{
		FormatVersion: ArtifactFormatVersion,
		Version:       uuid.NewString(),
		CreatedAt:     time.Now().UTC(),
		Labels:        m.Labels,
		FeatureNames:  m.FeatureNames,
		Vocabulary:    m.Vocabulary,
		Scaler:        m.Scaler,
		Classifier:    buf.Bytes(),
	}, nil
}

// Model reconstructs the runtime model, validating the artifact first
func (a *Artifact) Model() (*Model, error) {
	if err := a.validate(); err != nil {
		return nil, err
	}
	clf, err := bayesian.NewClassifierFromReader(bytes.NewReader(a.Classifier))
	if err != nil {
		return nil, fmt.Errorf("decoding classifier: %w", err)
	}
	if len(clf.Classes) != len(a.Labels) {
		return nil, fmt.Errorf("classifier has %d classes, artifact lists %d labels", len(clf.Classes), len(a.Labels))
	}
	return &Model{
		Labels:       a.Labels,
		FeatureNames: a.FeatureNames,
		Vocabulary:   a.Vocabulary,
		Scaler:       a.Scaler,
		Classifier:   clf,
	}, nil
}

func (a *Artifact) validate() error {
	if a.FormatVersion != ArtifactFormatVersion {
		return fmt.Errorf("unsupported artifact format version %d", a.FormatVersion)
	}
	if len(a.Labels) < 2 {
		return fmt.Errorf("artifact must list at least two labels, got %d", len(a.Labels))
	}
	if len(a.FeatureNames) == 0 {
		return fmt.Errorf("artifact lists no feature names")
	}
	if a.Vocabulary == nil {
		return fmt.Errorf("artifact is missing its vocabulary")
	}
	if a.Scaler == nil {
		return fmt.Errorf("artifact is missing its scaler")
	}
	if a.Scaler.Width() != len(a.FeatureNames) {
		return fmt.Errorf("scaler width %d does not match %d feature names", a.Scaler.Width(), len(a.FeatureNames))
	}
	if len(a.Classifier) == 0 {
		return fmt.Errorf("artifact carries no classifier bytes")
	}
	return nil
}

func validateModel(m *Model) error {
	if m == nil || m.Classifier == nil {
		return fmt.Errorf("model is incomplete")
	}
	if len(m.Labels) < 2 {
		return fmt.Errorf("model must know at least two categories")
	}
	if m.Vocabulary == nil || m.Scaler == nil {
		return fmt.Errorf("model is missing pipeline state")
	}
	return nil
}

// SaveArtifact writes the artifact atomically: a temp file in the
// target directory, fsynced, then renamed into place
func SaveArtifact(a *Artifact, path string) error {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding artifact: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating model directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".model-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing artifact: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing artifact: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("installing artifact: %w", err)
	}
	return nil
}

// LoadArtifact reads and validates an artifact from disk
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading artifact: %w", err)
	}
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parsing artifact: %w", err)
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return &a, nil
}
