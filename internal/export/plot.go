package export

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/san-kum/jansim/internal/dynamo"
)

// TorquePlot plots crank torque against time, with the stance steps drawn
// as a second series.
func TorquePlot(samples []dynamo.Sample) (*plot.Plot, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("no samples to plot")
	}

	p := plot.New()
	p.Title.Text = "Crank torque over one gait cycle"
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = "torque (N*m)"

	all := make(plotter.XYs, len(samples))
	stance := make(plotter.XYs, 0, len(samples))
	for i, s := range samples {
		all[i].X, all[i].Y = s.Time, s.Torque
		if s.Contact {
			stance = append(stance, plotter.XY{X: s.Time, Y: s.Torque})
		}
	}

	line, err := plotter.NewLine(all)
	if err != nil {
		return nil, err
	}
	line.LineStyle.Width = vg.Points(1.5)
	p.Add(line)
	p.Legend.Add("torque", line)

	if len(stance) > 0 {
		pts, err := plotter.NewScatter(stance)
		if err != nil {
			return nil, err
		}
		pts.GlyphStyle.Radius = vg.Points(1)
		p.Add(pts)
		p.Legend.Add("stance", pts)
	}

	p.Add(plotter.NewGrid())
	return p, nil
}

// TorquePNG renders TorquePlot to a PNG file of widthIn x heightIn inches.
func TorquePNG(samples []dynamo.Sample, widthIn, heightIn float64, filename string) error {
	p, err := TorquePlot(samples)
	if err != nil {
		return err
	}
	return savePlotPNG(p, widthIn, heightIn, filename)
}

func savePlotPNG(p *plot.Plot, widthIn, heightIn float64, filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("cannot create directory: %w", err)
	}

	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(widthIn)*vg.Inch, vg.Length(heightIn)*vg.Inch),
		vgimg.UseDPI(150),
	)
	p.Draw(draw.New(c))

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("cannot create png: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(bw); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return bw.Flush()
}
