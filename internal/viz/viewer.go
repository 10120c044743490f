package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/san-kum/jansim/internal/dynamo"
)

const (
	canvasWidth  = 48
	canvasHeight = 20
	chartWidth   = 50
	pinJoint     = -1
	centreJoint  = -2
)

// bars are the drawn links, crank first. pinJoint and centreJoint are the two
// fixed frame points.
var bars = [][2]int{
	{centreJoint, 0},
	{1, 0}, {2, 1}, {4, 2}, {5, 4}, {5, 3},
	{3, 0}, {4, 3}, {3, pinJoint}, {1, pinJoint}, {2, pinJoint},
}

type TickMsg time.Time

// Viewer replays a finished run: the leg at the current step, the foot path
// drawn so far and the torque trace.
type Viewer struct {
	samples []dynamo.Sample
	pin     dynamo.Vec2
	canvas  *Canvas
	frame   Frame
	torque  []float64
	title   string
	pos     int
	stride  int
	playing bool
}

func NewViewer(title string, samples []dynamo.Sample, pin dynamo.Vec2) Viewer {
	points := []dynamo.Vec2{pin, {}}
	for _, s := range samples {
		for _, j := range s.Joints {
			points = append(points, j.Pos)
		}
	}
	c := NewCanvas(canvasWidth, canvasHeight)
	return Viewer{
		samples: samples,
		pin:     pin,
		canvas:  c,
		frame:   Fit(c, points),
		torque:  lo.Map(samples, func(s dynamo.Sample, _ int) float64 { return s.Torque }),
		title:   title,
		stride:  max(1, len(samples)/300),
		playing: true,
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (v Viewer) Init() tea.Cmd { return tick() }

func (v Viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return v, tea.Quit
		case " ":
			v.playing = !v.playing
		case "left", "h":
			v.seek(-v.stride)
		case "right", "l":
			v.seek(v.stride)
		case "+", "=":
			v.stride *= 2
		case "-", "_":
			v.stride = max(1, v.stride/2)
		case "home", "g":
			v.pos = 0
		}
	case TickMsg:
		if v.playing && len(v.samples) > 0 {
			v.pos = (v.pos + v.stride) % len(v.samples)
		}
		return v, tick()
	}
	return v, nil
}

func (v *Viewer) seek(d int) {
	if len(v.samples) == 0 {
		return
	}
	v.pos = max(0, min(len(v.samples)-1, v.pos+d))
}

// Pos is the step currently shown.
func (v Viewer) Pos() int { return v.pos }

func (v Viewer) point(s *dynamo.Sample, j int) dynamo.Vec2 {
	switch j {
	case pinJoint:
		return v.pin
	case centreJoint:
		return dynamo.Vec2{}
	}
	return s.Joints[j].Pos
}

func (v Viewer) draw() {
	v.canvas.Clear()
	s := &v.samples[v.pos]
	for _, b := range bars {
		v.canvas.Segment(v.frame, v.point(s, b[0]), v.point(s, b[1]))
	}
	for i := 0; i <= v.pos; i++ {
		x, y := v.frame.Dot(v.samples[i].Foot().Pos)
		v.canvas.Set(x, y)
	}
}

func (v Viewer) View() string {
	if len(v.samples) == 0 {
		return StatusError.Render("no samples") + "\n"
	}
	v.draw()
	s := v.samples[v.pos]

	phase := StatusAir.Render("AIR")
	if s.Contact {
		phase = StatusGround.Render("GROUND")
	}

	var b strings.Builder
	b.WriteString(Title.Render(strings.ToUpper(v.title)) + "  " + phase + "\n\n")
	b.WriteString(Table([][2]string{
		{"step", fmt.Sprintf("%d / %d", s.Step, len(v.samples)-1)},
		{"time", fmt.Sprintf("%.4f s", s.Time)},
		{"theta", fmt.Sprintf("%.4f rad", s.Theta)},
		{"omega", fmt.Sprintf("%.3f rad/s", s.Omega)},
		{"foot", s.Foot().Pos.String()},
		{"foot speed", fmt.Sprintf("%.3f m/s", s.Foot().Vel.Norm())},
		{"torque", fmt.Sprintf("%.3f N*m", s.Torque)},
	}))
	b.WriteString("\n\n" + ProgressBar(float64(v.pos)/float64(max(1, len(v.samples)-1)), 30) + "\n\n")
	b.WriteString(GraphStyle.Render(Chart(v.torque[:v.pos+1], chartWidth, 8, "torque (N*m)")))
	b.WriteString("\n\n" + KeyHint.Render("space:play/pause  h/l:step  +/-:speed  g:start  q:quit"))

	leg := LegStyle.Render(v.canvas.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, Panel.Render(leg), Panel.Render(b.String()))
}

// RunViewer blocks until the viewer is closed.
func RunViewer(title string, samples []dynamo.Sample, pin dynamo.Vec2) error {
	_, err := tea.NewProgram(NewViewer(title, samples, pin), tea.WithAltScreen()).Run()
	return err
}
