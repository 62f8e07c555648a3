package mirror

import "fmt"

// DistortionParams are the wall-surface warp parameters pushed into each
// face's shading uniforms.
type DistortionParams struct {
	Amount float32 `yaml:"amount"`
	Scale  float32 `yaml:"scale"`
	Speed  float32 `yaml:"speed"`
}

// Store holds the externally supplied shading parameters and pushes them
// into each wall whenever a setter is called or faces are rebuilt. Pure
// data propagation, no algorithmic state.
type Store struct {
	width, height int
	tint          [3]float32
	distortion    DistortionParams
}

// NewStore creates a store with the given capture resolution, tint and
// distortion. Resolution is clamped to at least 1x1.
func NewStore(width, height int, tint [3]float32, d DistortionParams) *Store {
	s := &Store{tint: tint, distortion: d}
	s.SetResolution(width, height)
	return s
}

// SetResolution records the capture resolution, clamped to ≥ 1.
func (s *Store) SetResolution(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	s.width = width
	s.height = height
}

// Resolution returns the current capture resolution.
func (s *Store) Resolution() (width, height int) {
	return s.width, s.height
}

// SetTint records the wall tint.
func (s *Store) SetTint(tint [3]float32) {
	s.tint = tint
}

// SetDistortion replaces the distortion bag.
func (s *Store) SetDistortion(d DistortionParams) {
	s.distortion = d
}

// Push writes the current shading parameters into every face that has a
// shading hook.
func (s *Store) Push(faces []*Face) {
	params := ShadingParams{Tint: s.tint, Distortion: s.distortion}
	for _, f := range faces {
		if f != nil && f.SetShading != nil {
			f.SetShading(params)
		}
	}
}

// ParseColor parses a #RRGGBB hex color into normalized RGB.
func ParseColor(s string) ([3]float32, error) {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return [3]float32{1, 1, 1}, fmt.Errorf("parsing color %q: %w", s, err)
	}
	return [3]float32{float32(r) / 255, float32(g) / 255, float32(b) / 255}, nil
}
