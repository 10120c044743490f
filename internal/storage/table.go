package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/san-kum/jansim/internal/dynamo"
	"github.com/san-kum/jansim/internal/integrators"
	"github.com/san-kum/jansim/internal/linkage"
)

// Columns is the fixed layout of the step table.
var Columns = []string{"time", "theta", "omega", "alpha", "foot_x", "foot_y", "torque"}

// Row is one line of the step table.
type Row struct {
	Time   float64
	Theta  float64
	Omega  float64
	Alpha  float64
	FootX  float64
	FootY  float64
	Torque float64
}

func rowOf(s *dynamo.Sample) Row {
	foot := s.Foot().Pos
	return Row{s.Time, s.Theta, s.Omega, s.Alpha, foot.X, foot.Y, s.Torque}
}

func (r Row) values() []float64 {
	return []float64{r.Time, r.Theta, r.Omega, r.Alpha, r.FootX, r.FootY, r.Torque}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteTable writes a header and one row per sample.
func WriteTable(w io.Writer, samples []dynamo.Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}

	record := make([]string, len(Columns))
	for i := range samples {
		for j, v := range rowOf(&samples[i]).values() {
			record[j] = formatFloat(v)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportTable writes the step table to path. The file appears only once it is
// complete.
func ExportTable(path string, samples []dynamo.Sample) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := WriteTable(tmp, samples); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// ReadTable parses a table written by WriteTable.
func ReadTable(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Columns)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty table")
	}
	for i, c := range Columns {
		if records[0][i] != c {
			return nil, fmt.Errorf("column %d: expected %q, got %q", i, c, records[0][i])
		}
	}

	rows := make([]Row, 0, len(records)-1)
	for n, record := range records[1:] {
		var v [7]float64
		for j, field := range record {
			f, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d column %s: %w", n+2, Columns[j], err)
			}
			v[j] = f
		}
		rows = append(rows, Row{v[0], v[1], v[2], v[3], v[4], v[5], v[6]})
	}
	return rows, nil
}

// LoadTable reads a table file.
func LoadTable(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadTable(f)
}

// Rebuild turns stored rows back into samples for rendering. Joints other than
// the foot are re-evaluated on m at each row's angle; contact follows the
// stored foot height. Joint velocities are differenced against the previous
// row on the current row's branch of m. Reactions and joint accelerations are
// not recovered.
func Rebuild(rows []Row, m *linkage.Model, threshold float64) []dynamo.Sample {
	samples := make([]dynamo.Sample, len(rows))
	for i, r := range rows {
		s := &samples[i]
		s.Step = i
		s.Time, s.Theta, s.Omega, s.Alpha, s.Torque = r.Time, r.Theta, r.Omega, r.Alpha, r.Torque

		pos := m.Positions(r.Theta)
		for j := range s.Joints {
			s.Joints[j].Pos = pos[j]
		}
		s.Joints[dynamo.FootJoint].Pos = dynamo.Vec2{X: r.FootX, Y: r.FootY}
		s.Contact = r.FootY <= threshold

		if i == 0 {
			continue
		}
		if h := r.Time - rows[i-1].Time; h > 0 {
			prev := m.PositionsNear(rows[i-1].Theta, r.Theta)
			integrators.NewBackward(h).Joints(&s.Joints, prev, prev, false)
		}
	}
	return samples
}
