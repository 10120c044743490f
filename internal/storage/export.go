package storage

import (
	"io"

	"github.com/samber/lo"

	"github.com/san-kum/jansim/internal/gait"
	"github.com/san-kum/jansim/internal/sim"
)

type ExportData struct {
	Model    string             `json:"model"`
	Steps    int                `json:"steps"`
	StepSize float64            `json:"step_size"`
	Phase    gait.Phase         `json:"phase"`
	Timing   gait.Timing        `json:"timing"`
	Times    []float64          `json:"times"`
	Theta    []float64          `json:"theta"`
	Omega    []float64          `json:"omega"`
	Alpha    []float64          `json:"alpha"`
	FootX    []float64          `json:"foot_x"`
	FootY    []float64          `json:"foot_y"`
	Torque   []float64          `json:"torque"`
	Metrics  map[string]float64 `json:"metrics"`
}

func exportData(model string, result *sim.Result) ExportData {
	rows := make([]Row, len(result.Samples))
	for i := range result.Samples {
		rows[i] = rowOf(&result.Samples[i])
	}
	col := func(f func(Row) float64) []float64 {
		return lo.Map(rows, func(r Row, _ int) float64 { return f(r) })
	}

	return ExportData{
		Model:    model,
		Steps:    len(rows),
		StepSize: result.StepSize,
		Phase:    result.Phase,
		Timing:   result.Timing,
		Times:    col(func(r Row) float64 { return r.Time }),
		Theta:    col(func(r Row) float64 { return r.Theta }),
		Omega:    col(func(r Row) float64 { return r.Omega }),
		Alpha:    col(func(r Row) float64 { return r.Alpha }),
		FootX:    col(func(r Row) float64 { return r.FootX }),
		FootY:    col(func(r Row) float64 { return r.FootY }),
		Torque:   col(func(r Row) float64 { return r.Torque }),
		Metrics:  result.Metrics,
	}
}

// WriteJSON encodes the run as column arrays.
func WriteJSON(w io.Writer, model string, result *sim.Result) error {
	return encodeJSON(w, exportData(model, result))
}

func ExportJSON(path, model string, result *sim.Result) error {
	return writeJSON(path, exportData(model, result))
}
