package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/planetsim/internal/sim"
	"github.com/san-kum/planetsim/internal/world"
)

type ExportData struct {
	Run     RunMetadata   `json:"run"`
	Samples []sim.Sample  `json:"samples"`
	Bodies  []world.Entry `json:"bodies"`
}

// ExportJSON writes everything stored for runID as one JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	samples, err := s.LoadSamples(runID)
	if err != nil {
		return err
	}
	bodies, err := s.LoadBodies(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Run: *meta, Samples: samples, Bodies: bodies})
}

// ExportCSV copies the stored samples to w.
func (s *Store) ExportCSV(w io.Writer, runID string) error {
	samples, err := s.LoadSamples(runID)
	if err != nil {
		return err
	}
	return encodeSamples(w, samples)
}
