// Package viz renders gait runs in the terminal.
//
//   - [Viewer]: Bubble Tea replay of a run, drawing the leg on a Braille
//     [Canvas] next to the torque trace
//   - [Chart], [Sparkline], [Table]: static output for the CLI
//
// # Key Bindings
//
//	Space - Play/Pause
//	H/L   - Step back/forward
//	+/-   - Playback speed
//	G     - Back to first contact
//	Q     - Quit
package viz
