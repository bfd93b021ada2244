package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/planetsim/internal/physics"
	"github.com/san-kum/planetsim/internal/sim"
	"github.com/san-kum/planetsim/internal/world"
)

const (
	metadataFile = "metadata.json"
	samplesFile  = "samples.csv"
	bodiesFile   = "bodies.json"
)

var sampleHeader = []string{"step", "population", "total_mass", "px", "py", "pz", "kinetic_energy", "merges"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunParams describes how a run was configured.
type RunParams struct {
	Preset string
	Seed   int64
	Steps  int
	G      float64
	Bodies int
	// Extent is the edge of the seeding cube.
	Extent float64
}

type RunMetadata struct {
	ID            string             `json:"id"`
	Preset        string             `json:"preset,omitempty"`
	Timestamp     time.Time          `json:"timestamp"`
	Seed          int64              `json:"seed"`
	Steps         int                `json:"steps"`
	StepsTaken    int                `json:"steps_taken"`
	G             float64            `json:"g"`
	Extent        float64            `json:"extent,omitempty"`
	InitialBodies int                `json:"initial_bodies"`
	FinalBodies   int                `json:"final_bodies"`
	Merges        int                `json:"merges"`
	MassDrift     float64            `json:"mass_drift"`
	MomentumDrift float64            `json:"momentum_drift"`
	Metrics       map[string]float64 `json:"metrics"`
}

func (s *Store) Save(params RunParams, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("run_%d", now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:            runID,
		Preset:        params.Preset,
		Timestamp:     now,
		Seed:          params.Seed,
		Steps:         params.Steps,
		StepsTaken:    result.StepsTaken,
		G:             params.G,
		Extent:        params.Extent,
		InitialBodies: params.Bodies,
		FinalBodies:   len(result.Final),
		Merges:        result.Merges,
		MassDrift:     result.MassDrift,
		MomentumDrift: result.MomentumDrift,
		Metrics:       result.Metrics,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, bodiesFile), result.Final); err != nil {
		return "", err
	}
	if err := writeSamples(filepath.Join(runDir, samplesFile), result.Samples); err != nil {
		return "", err
	}

	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeSamples(path string, samples []sim.Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return encodeSamples(f, samples)
}

func encodeSamples(out io.Writer, samples []sim.Sample) error {
	w := csv.NewWriter(out)
	if err := w.Write(sampleHeader); err != nil {
		return err
	}
	for _, smp := range samples {
		if err := w.Write(sampleRow(smp)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func sampleRow(smp sim.Sample) []string {
	ff := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	return []string{
		strconv.Itoa(smp.Step),
		strconv.Itoa(smp.Population),
		ff(smp.TotalMass),
		ff(smp.Momentum.X),
		ff(smp.Momentum.Y),
		ff(smp.Momentum.Z),
		ff(smp.KineticEnergy),
		strconv.Itoa(smp.Merges),
	}
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

// LoadBodies returns the final live population of a run.
func (s *Store) LoadBodies(runID string) ([]world.Entry, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, bodiesFile))
	if err != nil {
		return nil, err
	}

	var entries []world.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *Store) LoadSamples(runID string) ([]sim.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, samplesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(sampleHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []sim.Sample{}, nil
	}

	samples := make([]sim.Sample, 0, len(records)-1)
	for i, record := range records[1:] {
		smp, err := parseSample(record)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", samplesFile, i+2, err)
		}
		samples = append(samples, smp)
	}

	return samples, nil
}

func parseSample(record []string) (sim.Sample, error) {
	ints := make([]int, 0, 3)
	floats := make([]float64, 0, 5)
	for i, field := range record {
		switch i {
		case 0, 1, 7:
			v, err := strconv.Atoi(field)
			if err != nil {
				return sim.Sample{}, err
			}
			ints = append(ints, v)
		default:
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return sim.Sample{}, err
			}
			floats = append(floats, v)
		}
	}

	return sim.Sample{
		Step:          ints[0],
		Population:    ints[1],
		TotalMass:     floats[0],
		Momentum:      physics.Vec3{X: floats[1], Y: floats[2], Z: floats[3]},
		KineticEnergy: floats[4],
		Merges:        ints[2],
	}, nil
}
