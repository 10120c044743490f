package viz

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/jansim/internal/dynamo"
)

func TestCanvasSetAndLine(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Set(0, 0)
	if c.Grid[0][0] != blank|0x1 {
		t.Errorf("expected dot 1 set, got %U", c.Grid[0][0])
	}

	c.Set(-1, 3)
	c.Set(100, 100)

	c.Clear()
	c.DrawLine(0, 0, 7, 0)
	for col := 0; col < 4; col++ {
		if c.Grid[0][col] != blank|0x1|0x8 {
			t.Errorf("col %d: expected top row lit, got %U", col, c.Grid[0][col])
		}
	}
	if lines := strings.Count(c.String(), "\n"); lines != 2 {
		t.Errorf("expected 2 rows, got %d", lines)
	}
}

func TestFitKeepsPointsOnCanvas(t *testing.T) {
	c := NewCanvas(20, 10)
	pts := []dynamo.Vec2{{X: -0.1, Y: -0.4}, {X: 0.4, Y: 0.1}, {X: 0.2, Y: -0.35}}
	f := Fit(c, pts)

	for _, p := range pts {
		x, y := f.Dot(p)
		if x < 0 || x >= c.Width*2 || y < 0 || y >= c.Height*4 {
			t.Errorf("%v mapped off canvas to (%d, %d)", p, x, y)
		}
	}

	// y grows downwards on the canvas.
	_, yLow := f.Dot(dynamo.Vec2{Y: -0.4})
	_, yHigh := f.Dot(dynamo.Vec2{Y: 0.1})
	if yLow <= yHigh {
		t.Errorf("expected lower point further down, got %d <= %d", yLow, yHigh)
	}
}

func TestDownsample(t *testing.T) {
	s := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8}
	got := Downsample(s, 3)
	if len(got) != 3 || got[0] != 0 || got[1] != 4 || got[2] != 8 {
		t.Errorf("unexpected downsample %v", got)
	}
	if len(Downsample(s, 20)) != len(s) {
		t.Error("short series should pass through")
	}
	if Chart([]float64{1}, 10, 3, "x") != "" {
		t.Error("single value should not chart")
	}
	if Chart(s, 10, 3, "torque") == "" {
		t.Error("expected a chart")
	}
}

func samples(n int) []dynamo.Sample {
	out := make([]dynamo.Sample, n)
	for i := range out {
		out[i].Step = i
		out[i].Torque = float64(i)
		out[i].Contact = i%2 == 0
		for j := range out[i].Joints {
			out[i].Joints[j].Pos = dynamo.Vec2{X: 0.05 * float64(j), Y: -0.05*float64(j) - 0.001*float64(i)}
		}
	}
	return out
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestViewerPlayback(t *testing.T) {
	var m tea.Model = NewViewer("jansen", samples(10), dynamo.Vec2{X: 0.14, Y: -0.03})

	m, _ = m.Update(TickMsg{})
	if m.(Viewer).Pos() != 1 {
		t.Fatalf("expected tick to advance to 1, got %d", m.(Viewer).Pos())
	}

	m, _ = m.Update(key(" "))
	m, _ = m.Update(TickMsg{})
	if m.(Viewer).Pos() != 1 {
		t.Errorf("paused viewer moved to %d", m.(Viewer).Pos())
	}

	m, _ = m.Update(key("l"))
	m, _ = m.Update(key("+"))
	m, _ = m.Update(key("l"))
	if m.(Viewer).Pos() != 4 {
		t.Errorf("expected step 4, got %d", m.(Viewer).Pos())
	}

	for i := 0; i < 10; i++ {
		m, _ = m.Update(key("l"))
	}
	if m.(Viewer).Pos() != 9 {
		t.Errorf("expected clamp at 9, got %d", m.(Viewer).Pos())
	}

	m, _ = m.Update(key("g"))
	if m.(Viewer).Pos() != 0 {
		t.Errorf("expected restart at 0, got %d", m.(Viewer).Pos())
	}

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Error("expected quit command")
	}
}

func TestViewerView(t *testing.T) {
	v := NewViewer("jansen", samples(10), dynamo.Vec2{X: 0.14, Y: -0.03})
	out := v.View()
	for _, want := range []string{"JANSEN", "GROUND", "torque", "foot speed"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}

	empty := NewViewer("jansen", nil, dynamo.Vec2{})
	if !strings.Contains(empty.View(), "no samples") {
		t.Error("expected empty notice")
	}
}

func TestSparklineAndTable(t *testing.T) {
	if Sparkline(nil, 5) != "─────" {
		t.Error("expected flat line for empty input")
	}
	if s := Sparkline([]float64{1, 2, 3}, 3); !strings.ContainsRune(s, '█') {
		t.Errorf("expected full block for max, got %q", s)
	}
	if tb := Table([][2]string{{"peak", "3.0"}}); !strings.Contains(tb, "peak") || !strings.Contains(tb, "3.0") {
		t.Errorf("unexpected table %q", tb)
	}
}
