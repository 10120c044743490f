package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/jansim/internal/dynamo"
)

func loop(n int) []dynamo.Sample {
	out := make([]dynamo.Sample, n)
	for i := range out {
		out[i].Time = float64(i) * 0.01
		out[i].Torque = float64(i%7) - 3
		out[i].Contact = i < n*3/4
		out[i].Joints[dynamo.FootJoint].Pos = dynamo.Vec2{X: float64(i) * 0.001, Y: -0.35 + float64(i%5)*0.01}
	}
	return out
}

func TestFootPathSVG(t *testing.T) {
	svg := FootPathSVG(loop(20), 400, 300, "#00ff00")

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("expected a complete SVG document")
	}
	if !strings.Contains(svg, `width="400" height="300"`) {
		t.Error("missing dimensions")
	}
	if !strings.Contains(svg, `stroke="#00ff00"`) {
		t.Error("missing stroke color")
	}
	if got := strings.Count(svg, " L"); got != 19 {
		t.Errorf("expected 19 segments, got %d", got)
	}
}

func TestPathToSVGScalesIntoView(t *testing.T) {
	svg := PathToSVG([]dynamo.Vec2{{X: 0, Y: 0}, {X: 1, Y: 1}}, 120, 120, "red")

	// 10% padding on each side: (0,0) maps to (10,110), (1,1) to (110,10).
	if !strings.Contains(svg, "M10.0,110.0 L110.0,10.0") {
		t.Errorf("unexpected path in %s", svg)
	}
}

func TestPathToSVGTooShort(t *testing.T) {
	if PathToSVG([]dynamo.Vec2{{X: 1, Y: 1}}, 10, 10, "red") != "" {
		t.Error("expected empty output for a single point")
	}
}

func TestTorquePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plots", "torque.png")
	if err := TorquePNG(loop(50), 4, 3, path); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("output is not a PNG")
	}
}

func TestTorquePlotEmpty(t *testing.T) {
	if _, err := TorquePlot(nil); err == nil {
		t.Error("expected error for no samples")
	}
}
