package storage

import (
	"encoding/json"
	"io"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/orbitsim/internal/dynamo"
)

type ExportBody struct {
	Name   string  `json:"name"`
	Color  string  `json:"color"`
	Kind   string  `json:"kind"`
	Mass   float64 `json:"mass"`
	Radius float64 `json:"radius,omitempty"`
}

type ExportData struct {
	Metadata  RunMetadata     `json:"metadata"`
	Bodies    []ExportBody    `json:"bodies"`
	Energies  []dynamo.Energy `json:"energies"`
	Levels    []dynamo.Level  `json:"levels"`
	Positions [][]mgl64.Vec3  `json:"positions"`
}

// ExportJSON writes a stored run as a single JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	rec, err := s.LoadRun(runID)
	if err != nil {
		return err
	}

	data := ExportData{
		Metadata:  *meta,
		Bodies:    make([]ExportBody, len(rec.Bodies)),
		Energies:  rec.History.Energies,
		Levels:    rec.History.Levels,
		Positions: rec.History.Positions,
	}
	for i, b := range rec.Bodies {
		data.Bodies[i] = ExportBody{Name: b.Name, Color: b.Color, Kind: b.Kind.String(), Mass: b.Mass(), Radius: b.Radius()}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
