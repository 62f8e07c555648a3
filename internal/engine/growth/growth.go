// Package growth runs the procedural growth simulation that fills the
// enclosure with tube-like shapes: a random walk over a cubic occupancy
// grid. Each step a walker extends its tube into a free neighboring cell,
// never revisiting occupied cells; stuck walkers respawn elsewhere.
package growth

import (
	"math/rand"

	"github.com/Faultbox/mirrorbox/pkg/math"
)

// Segment is one rendered tube piece between two adjacent cell centers.
type Segment struct {
	From   math.Vec3
	To     math.Vec3
	Radius float32
	Color  [3]float32
}

// Config holds simulation parameters.
type Config struct {
	GridSize int     `yaml:"grid_size"` // cells per axis
	Walkers  int     `yaml:"walkers"`
	Radius   float32 `yaml:"radius"` // tube radius in world units
	Seed     int64   `yaml:"seed"`   // 0 picks a random seed
}

// DefaultConfig returns simulation defaults.
func DefaultConfig() Config {
	return Config{
		GridSize: 12,
		Walkers:  6,
		Radius:   0.04,
	}
}

// Six axis step directions, matching the enclosure's wall axes.
var directions = [6][3]int{
	{1, 0, 0}, {-1, 0, 0},
	{0, 1, 0}, {0, -1, 0},
	{0, 0, 1}, {0, 0, -1},
}

// Walker palette, cycled by spawn order.
var palette = [][3]float32{
	{0.9, 0.3, 0.4},
	{0.3, 0.8, 0.9},
	{0.9, 0.8, 0.3},
	{0.5, 0.9, 0.4},
	{0.8, 0.4, 0.9},
	{0.9, 0.6, 0.3},
}

type walker struct {
	cell  [3]int
	color [3]float32
	alive bool
}

// Sim is the occupancy-grid growth simulation for one enclosure.
type Sim struct {
	cfg      Config
	size     float32 // enclosure world size
	rng      *rand.Rand
	occupied []bool
	walkers  []walker
	segments []Segment
	spawned  int
}

// New creates a simulation for an enclosure of the given world size.
func New(cfg Config, size float32) *Sim {
	if cfg.GridSize < 2 {
		cfg.GridSize = 2
	}
	if cfg.Walkers < 1 {
		cfg.Walkers = 1
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	s := &Sim{
		cfg:  cfg,
		size: size,
		rng:  rand.New(rand.NewSource(seed)),
	}
	s.Reset()
	return s
}

// Reset clears the grid and all tubes and respawns the walkers.
func (s *Sim) Reset() {
	n := s.cfg.GridSize
	s.occupied = make([]bool, n*n*n)
	s.segments = s.segments[:0]
	s.walkers = make([]walker, s.cfg.Walkers)
	s.spawned = 0
	for i := range s.walkers {
		s.spawn(&s.walkers[i])
	}
}

// SetSize updates the enclosure world size. Existing tubes keep their
// grid cells and are re-emitted at the new scale on the next Reset; the
// host resets the sim when the enclosure is rebuilt.
func (s *Sim) SetSize(size float32) {
	s.size = size
}

func (s *Sim) spawn(w *walker) {
	n := s.cfg.GridSize
	// A handful of placement attempts is enough on a sparse grid.
	for try := 0; try < 32; try++ {
		c := [3]int{s.rng.Intn(n), s.rng.Intn(n), s.rng.Intn(n)}
		if !s.occupied[s.index(c)] {
			s.occupied[s.index(c)] = true
			w.cell = c
			w.color = palette[s.spawned%len(palette)]
			w.alive = true
			s.spawned++
			return
		}
	}
	w.alive = false
}

func (s *Sim) index(c [3]int) int {
	n := s.cfg.GridSize
	return (c[0]*n+c[1])*n + c[2]
}

func (s *Sim) inGrid(c [3]int) bool {
	n := s.cfg.GridSize
	return c[0] >= 0 && c[0] < n && c[1] >= 0 && c[1] < n && c[2] >= 0 && c[2] < n
}

// cellCenter maps a grid cell to world space inside the enclosure.
func (s *Sim) cellCenter(c [3]int) math.Vec3 {
	n := float32(s.cfg.GridSize)
	return math.Vec3{
		X: (float32(c[0])+0.5)/n*s.size - s.size/2,
		Y: (float32(c[1])+0.5)/n*s.size - s.size/2,
		Z: (float32(c[2])+0.5)/n*s.size - s.size/2,
	}
}

// Step advances every walker by one cell. Walkers with no free neighbor
// respawn; when the grid is mostly full the simulation restarts itself.
func (s *Sim) Step() {
	n := s.cfg.GridSize
	if len(s.segments) >= n*n*n*3/4 {
		s.Reset()
		return
	}

	for i := range s.walkers {
		w := &s.walkers[i]
		if !w.alive {
			s.spawn(w)
			continue
		}

		// Collect free neighbors, then pick one at random.
		var free [6][3]int
		freeCount := 0
		for _, d := range directions {
			next := [3]int{w.cell[0] + d[0], w.cell[1] + d[1], w.cell[2] + d[2]}
			if s.inGrid(next) && !s.occupied[s.index(next)] {
				free[freeCount] = next
				freeCount++
			}
		}
		if freeCount == 0 {
			s.spawn(w)
			continue
		}

		next := free[s.rng.Intn(freeCount)]
		s.occupied[s.index(next)] = true
		s.segments = append(s.segments, Segment{
			From:   s.cellCenter(w.cell),
			To:     s.cellCenter(next),
			Radius: s.cfg.Radius,
			Color:  w.color,
		})
		w.cell = next
	}
}

// Segments returns all tube segments grown so far.
func (s *Sim) Segments() []Segment {
	return s.segments
}
