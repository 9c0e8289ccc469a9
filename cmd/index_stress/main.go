// Stress test comparing BVH capsule queries against an exhaustive scan
package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/alecthomas/kong"
	"github.com/go-gl/mathgl/mgl64"

	"walkcore/internal/physics"
	"walkcore/internal/world"
)

var CLI struct {
	Queries int   `help:"Capsule queries per measurement." default:"2000"`
	Seed    int64 `help:"Random seed." default:"42"`
	Sizes   []int `help:"Grid sizes to test; a grid of n tiles has 2n² triangles." default:"8,16,32,64,128,256"`
}

func main() {
	kong.Parse(&CLI,
		kong.Name("index_stress"),
		kong.Description("BVH vs exhaustive scan capsule query timing"))

	if CLI.Queries < 1 {
		fmt.Println("queries must be at least 1")
		return
	}

	for _, n := range CLI.Sizes {
		testQueries(n)
	}
}

// terrain builds an n×n grid of bumpy tiles plus a scattering of crates.
func terrain(rng *rand.Rand, n int) []physics.Triangle {
	height := func(i, j int) float64 {
		return 0.3 * float64((i*7+j*13)%5)
	}

	var tris []physics.Triangle
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			x, z := float64(i), float64(j)
			a := mgl64.Vec3{x, height(i, j), z}
			b := mgl64.Vec3{x, height(i, j+1), z + 1}
			c := mgl64.Vec3{x + 1, height(i+1, j+1), z + 1}
			d := mgl64.Vec3{x + 1, height(i+1, j), z}
			tris = append(tris, physics.NewTriangle(a, b, c), physics.NewTriangle(a, c, d))
		}
	}

	for k := 0; k < n; k++ {
		crate := world.Shape{
			Type:     world.ShapeBox,
			Position: [3]float64{rng.Float64() * float64(n), 1, rng.Float64() * float64(n)},
			Rotation: [3]float64{0, rng.Float64() * 90, 0},
			Size:     [3]float64{1, 2, 1},
		}
		tris = append(tris, crate.Triangles()...)
	}
	return tris
}

func testQueries(n int) {
	rng := rand.New(rand.NewSource(CLI.Seed)) // Consistent results
	tris := terrain(rng, n)

	buildStart := time.Now()
	idx := physics.NewIndex(tris)
	buildTime := time.Since(buildStart)

	capsules := make([]physics.Capsule, CLI.Queries)
	for i := range capsules {
		feet := mgl64.Vec3{rng.Float64() * float64(n), rng.Float64() * 2, rng.Float64() * float64(n)}
		capsules[i] = physics.NewCapsule(feet.Add(mgl64.Vec3{0, 0.35, 0}), 0.65, 0.35)
	}

	// Time BVH
	bvhStart := time.Now()
	bvhHits := 0
	for _, c := range capsules {
		if _, ok := idx.CapsuleIntersect(c); ok {
			bvhHits++
		}
	}
	bvhTime := time.Since(bvhStart) / time.Duration(len(capsules))

	// Time exhaustive scan
	scanStart := time.Now()
	scanHits := 0
	for _, c := range capsules {
		if _, ok := physics.ScanCapsule(tris, c); ok {
			scanHits++
		}
	}
	scanTime := time.Since(scanStart) / time.Duration(len(capsules))

	// Calculate speedup
	speedup := float64(scanTime) / float64(bvhTime)

	fmt.Printf("%7d tris (depth %2d, build %8v): BVH %8v (%4d hits) | scan %10v (%4d hits) | %.1fx speedup\n",
		idx.TriangleCount(), idx.Depth(), buildTime.Round(time.Microsecond),
		bvhTime, bvhHits, scanTime, scanHits, speedup)
}
