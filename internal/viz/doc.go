// Package viz provides the live terminal view of a wave field.
//
// The view is a Bubble Tea program:
//
//   - [Model]: steps a wavefield.Set every frame and draws the far cascade
//   - [Canvas]: Braille dot canvas with crest, contour and foam plots
//   - [NewInteractiveApp]: preset menu and parameter editor in front of Model
//
// # Key Bindings
//
//	Space - Pause/Resume
//	Up/Dn - Raise/lower the viewer; the altitude LOD policy rescales cascades
//	W/S   - Wind speed
//	A/D   - Wind direction
//	C     - Cycle plot mode
//	V     - Toggle the 3D wireframe
//	T     - Cycle color themes
//	Q     - Quit
//
// The viewer altitude is smoothed with a harmonica spring, so length scales
// glide between LOD levels instead of jumping.
package viz
