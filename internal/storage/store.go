package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/jansim/internal/config"
	"github.com/san-kum/jansim/internal/gait"
	"github.com/san-kum/jansim/internal/metrics"
	"github.com/san-kum/jansim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	stepsFile    = "steps.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Model     string             `json:"model"`
	Timestamp time.Time          `json:"timestamp"`
	Steps     int                `json:"steps"`
	StepSize  float64            `json:"step_size"`
	Speed     float64            `json:"target_speed"`
	Phase     gait.Phase         `json:"phase"`
	Timing    gait.Timing        `json:"timing"`
	Metrics   map[string]float64 `json:"metrics"`
	Summary   metrics.Summary    `json:"summary"`
	Config    *config.Config     `json:"config"`
}

// Save writes a finished run to <base>/<model>_<id>/ and returns the run id.
func (s *Store) Save(model string, cfg *config.Config, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("%s_%s", model, uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Model:     model,
		Timestamp: time.Now(),
		Steps:     len(result.Samples),
		StepSize:  result.StepSize,
		Speed:     cfg.Gait.TargetSpeed,
		Phase:     result.Phase,
		Timing:    result.Timing,
		Metrics:   result.Metrics,
		Summary:   metrics.Summarize(result.Samples),
		Config:    cfg,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := ExportTable(filepath.Join(runDir, stepsFile), result.Samples); err != nil {
		return "", err
	}

	return runID, nil
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadSeries reads the step table of a run.
func (s *Store) LoadSeries(runID string) ([]Row, error) {
	return LoadTable(filepath.Join(s.baseDir, runID, stepsFile))
}

// WriteMetadata encodes meta as indented JSON.
func WriteMetadata(w io.Writer, meta *RunMetadata) error {
	return encodeJSON(w, meta)
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encodeJSON(f, v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
