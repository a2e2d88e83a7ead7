package sampleelim

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/stat"
)

// minPairDist returns the smallest Euclidean distance between any two points.
func minPairDist(pts [][]float64) float64 {
	best := math.Inf(1)
	for i := range pts {
		for j := i + 1; j < len(pts); j++ {
			if d := math.Sqrt(sqDist(pts[i], pts[j])); d < best {
				best = d
			}
		}
	}
	return best
}

// randomSubsetMinDist averages minPairDist over trials random k-subsets.
func randomSubsetMinDist(pts [][]float64, k, trials int, seed int64) float64 {
	rng := rand.New(rand.NewSource(seed))
	dists := make([]float64, trials)
	for t := range dists {
		perm := rng.Perm(len(pts))
		subset := make([][]float64, k)
		for i := range subset {
			subset[i] = pts[perm[i]]
		}
		dists[t] = minPairDist(subset)
	}
	return stat.Mean(dists, nil)
}

// sortedRows returns a sorted copy of pts for set comparison.
func sortedRows(pts [][]float64) [][]float64 {
	out := append([][]float64(nil), pts...)
	sort.Slice(out, func(i, j int) bool {
		for d := range out[i] {
			if out[i][d] != out[j][d] {
				return out[i][d] < out[j][d]
			}
		}
		return false
	})
	return out
}

func mustEliminate(t *testing.T, data [][]float64, m int, cfg Config, opts Options) [][]float64 {
	t.Helper()
	out, err := Eliminate(data, m, cfg, opts)
	if err != nil {
		t.Fatalf("Eliminate: %v", err)
	}
	if len(out) != m {
		t.Fatalf("got %d points, want %d", len(out), m)
	}
	return out
}

func TestEliminate_OutputIsSubsetOfInput(t *testing.T) {
	data := uniformPoints(500, 2, 42)
	out := mustEliminate(t, data, 50, DefaultConfig(), Options{})

	inInput := map[[2]float64]bool{}
	for _, p := range data {
		inInput[[2]float64{p[0], p[1]}] = true
	}
	seen := map[[2]float64]bool{}
	for i, p := range out {
		key := [2]float64{p[0], p[1]}
		if !inInput[key] {
			t.Errorf("output point %d %v is not an input point", i, p)
		}
		if seen[key] {
			t.Errorf("output point %d %v is duplicated", i, p)
		}
		seen[key] = true
	}
}

func TestEliminate_BeatsRandomSubset(t *testing.T) {
	rMax := MaxPoissonDiskRadius(2, 100, 1)
	for seed := int64(1); seed <= 10; seed++ {
		data := uniformPoints(1000, 2, seed)
		out := mustEliminate(t, data, 100, DefaultConfig(), Options{})

		got := minPairDist(out)
		random := randomSubsetMinDist(data, 100, 1, seed+100)
		if got <= random {
			t.Errorf("seed=%d: eliminated min distance %v does not beat random subset %v", seed, got, random)
		}
		if got < 0.4*rMax {
			t.Errorf("seed=%d: eliminated min distance %v below 0.4·r_max (%v)", seed, got, 0.4*rMax)
		}
	}
}

func TestEliminate_SmallerOutputIsSparser(t *testing.T) {
	data := uniformPoints(1000, 2, 42)
	prev := 0.0
	for _, m := range []int{400, 200, 100, 50} {
		d := minPairDist(mustEliminate(t, data, m, DefaultConfig(), Options{}))
		if d < prev {
			t.Errorf("m=%d: min distance %v shrank from %v", m, d, prev)
		}
		prev = d
	}
}

func TestEliminate_Deterministic(t *testing.T) {
	data := uniformPoints(800, 2, 3)
	for _, progressive := range []bool{false, true} {
		a := mustEliminate(t, data, 120, DefaultConfig(), Options{Progressive: progressive})
		b := mustEliminate(t, data, 120, DefaultConfig(), Options{Progressive: progressive})
		if diff := cmp.Diff(a, b); diff != "" {
			t.Errorf("progressive=%v: repeated calls differ (-first +second):\n%s", progressive, diff)
		}
	}
}

func TestEliminate_WorkersDoNotChangeResult(t *testing.T) {
	data := uniformPoints(800, 2, 4)
	cfg := DefaultConfig()
	cfg.Workers = 1
	want := mustEliminate(t, data, 100, cfg, Options{Progressive: true})
	for _, workers := range []int{2, 3, 8} {
		cfg.Workers = workers
		got := mustEliminate(t, data, 100, cfg, Options{Progressive: true})
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("workers=%d: output differs from single worker (-want +got):\n%s", workers, diff)
		}
	}
}

func TestEliminate_ExplicitRadiusMatchesDerived(t *testing.T) {
	data := uniformPoints(600, 2, 5)
	e, err := New(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	derived := make([][]float64, 80)
	if err := e.Eliminate(data, derived, Options{}); err != nil {
		t.Fatal(err)
	}
	explicit := make([][]float64, 80)
	radius := 2 * e.MaxPoissonDiskRadius(2, 80, 0)
	if err := e.Eliminate(data, explicit, Options{Radius: radius}); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(derived, explicit); diff != "" {
		t.Errorf("explicit radius changed the result (-derived +explicit):\n%s", diff)
	}
}

func TestEliminate_ProgressiveIsPermutationOfPlain(t *testing.T) {
	data := uniformPoints(1000, 2, 6)
	plain := mustEliminate(t, data, 100, DefaultConfig(), Options{})
	progressive := mustEliminate(t, data, 100, DefaultConfig(), Options{Progressive: true})
	if diff := cmp.Diff(sortedRows(plain), sortedRows(progressive)); diff != "" {
		t.Errorf("progressive output is not a reordering of the plain output (-plain +progressive):\n%s", diff)
	}
}

func TestEliminate_ProgressivePrefixes(t *testing.T) {
	data := uniformPoints(1000, 2, 42)
	out := mustEliminate(t, data, 100, DefaultConfig(), Options{Progressive: true})

	for _, k := range []int{6, 12, 25, 50, 100} {
		prefix := out[:k]
		got := minPairDist(prefix)
		random := randomSubsetMinDist(data, k, 20, int64(k))
		if got <= random {
			t.Errorf("prefix %d: min distance %v does not beat random subsets (mean %v)", k, got, random)
		}
		// A prefix should be nearly as spread as a direct elimination to k.
		if k >= 12 {
			direct := minPairDist(mustEliminate(t, data, k, DefaultConfig(), Options{}))
			if got < 0.5*direct {
				t.Errorf("prefix %d: min distance %v is far below direct elimination %v", k, got, direct)
			}
		}
	}
}

func TestEliminate_EveryProgressivePrefixIsSpread(t *testing.T) {
	data := uniformPoints(1000, 2, 43)
	const m = 100
	out := mustEliminate(t, data, m, DefaultConfig(), Options{Progressive: true})

	for k := 3; k <= m; k++ {
		floor := 0.4 * MaxPoissonDiskRadius(2, k, 1)
		if got := minPairDist(out[:k]); got <= floor {
			t.Errorf("prefix %d: min distance %v below %v", k, got, floor)
		}
	}
}

func TestEliminate_ProgressiveTinyOutputs(t *testing.T) {
	data := uniformPoints(50, 2, 8)
	for _, m := range []int{1, 2, 3, 4} {
		plain := mustEliminate(t, data, m, DefaultConfig(), Options{})
		progressive := mustEliminate(t, data, m, DefaultConfig(), Options{Progressive: true})
		if diff := cmp.Diff(sortedRows(plain), sortedRows(progressive)); diff != "" {
			t.Errorf("m=%d: progressive set differs from plain (-plain +progressive):\n%s", m, diff)
		}
	}
}

func TestEliminate_TilingSpreadsAcrossEdges(t *testing.T) {
	// With tiling, points hugging opposite edges count as neighbors, so the
	// torus distance between kept points stays large too.
	data := uniformPoints(1000, 2, 9)
	out := mustEliminate(t, data, 100, DefaultConfig(), Options{})

	torusMin := math.Inf(1)
	for i := range out {
		for j := i + 1; j < len(out); j++ {
			var d2 float64
			for d := 0; d < 2; d++ {
				delta := math.Abs(out[i][d] - out[j][d])
				delta = math.Min(delta, 1-delta)
				d2 += delta * delta
			}
			torusMin = math.Min(torusMin, math.Sqrt(d2))
		}
	}
	random := randomSubsetMinDist(data, 100, 5, 9)
	if torusMin <= random {
		t.Errorf("torus min distance %v does not beat random subsets (mean %v)", torusMin, random)
	}
}

func TestComputeWeights_SeesWrappedNeighbor(t *testing.T) {
	input := []float64{
		0.05, 0.5, // A
		0.95, 0.5, // B, 0.1 from A through the wrap
		0.5, 0.5, // C, far from both
	}
	const radius = 0.2
	wf := UnclampedWeight(8)
	want := math.Pow(0.5, 8)

	cfg := DefaultConfig()
	cfg.Workers = 1
	tiled, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	idx := tiled.buildSampleIndex(input, 3, radius)
	w := computeWeights(idx, input, 3, 2, radius, wf, 1)
	for i, expect := range []float64{want, want, 0} {
		if math.Abs(w[i]-expect) > 1e-9 {
			t.Errorf("tiled weight[%d] = %v, want %v", i, w[i], expect)
		}
	}

	// Eliminating one of the pair removes its contribution from the other.
	h := NewMaxHeap(w)
	top := h.Top()
	if top == 2 {
		t.Fatalf("point C should not be the heaviest")
	}
	h.Pop()
	point := input[top*2 : top*2+2]
	idx.QueryRadius(point, radius, func(id int, q []float64, d2 float64) {
		if id >= 3 || id == top {
			return
		}
		h.Decrease(id, wf(point, q, d2, radius))
	})
	other := 1 - top
	if math.Abs(h.Weight(other)) > 1e-9 {
		t.Errorf("weight of partner %d after elimination = %v, want 0", other, h.Weight(other))
	}

	cfg.Tiling = false
	flat, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	w = computeWeights(flat.buildSampleIndex(input, 3, radius), input, 3, 2, radius, wf, 1)
	for i := range w {
		if w[i] != 0 {
			t.Errorf("untiled weight[%d] = %v, want 0", i, w[i])
		}
	}
}

func TestEliminate_TilingDropsOneOfWrappedPair(t *testing.T) {
	data := [][]float64{{0.05, 0.5}, {0.95, 0.5}, {0.5, 0.5}}
	out := mustEliminate(t, data, 2, DefaultConfig(), Options{Radius: 0.2})

	var keptC, keptPair int
	for _, p := range out {
		if p[0] == 0.5 {
			keptC++
		} else {
			keptPair++
		}
	}
	if keptC != 1 || keptPair != 1 {
		t.Errorf("expected C and one of the wrapped pair, got %v", out)
	}
}

func TestEliminate_IndexKindsProduceBlueNoise(t *testing.T) {
	data := uniformPoints(1000, 2, 10)
	random := randomSubsetMinDist(data, 100, 5, 10)
	for _, kind := range []IndexKind{IndexKDTree, IndexBallTree, IndexBrute} {
		cfg := DefaultConfig()
		cfg.Index = kind
		out := mustEliminate(t, data, 100, cfg, Options{Progressive: true})
		if got := minPairDist(out); got <= random {
			t.Errorf("index=%s: min distance %v does not beat random subsets (mean %v)", kind, got, random)
		}
	}
}

func TestEliminate_SamplingDimsSubset(t *testing.T) {
	// Points carry a third component that the derived radius ignores.
	data := uniformPoints(400, 3, 12)
	cfg := DefaultConfig()
	cfg.Dimensions = 3
	cfg.Bounds = UnitBounds(3)
	out := mustEliminate(t, data, 40, cfg, Options{Dimensions: 2})
	for _, p := range out {
		if len(p) != 3 {
			t.Fatalf("output point has %d components, want 3", len(p))
		}
	}
}

func TestEliminate_CustomWeightMatchingDefault(t *testing.T) {
	data := uniformPoints(300, 2, 13)
	cfg := DefaultConfig()
	cfg.Workers = 1
	e, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	want := make([][]float64, 30)
	if err := e.Eliminate(data, want, Options{}); err != nil {
		t.Fatal(err)
	}

	radius := 2 * e.MaxPoissonDiskRadius(2, 30, 0)
	base := DefaultWeight(radius*e.WeightLimitFraction(300, 30), cfg.Alpha)
	calls := 0
	custom := func(a, b []float64, d2, r float64) float64 {
		calls++
		return base(a, b, d2, r)
	}
	got := make([][]float64, 30)
	if err := e.Eliminate(data, got, Options{Weight: custom}); err != nil {
		t.Fatal(err)
	}
	if calls == 0 {
		t.Error("custom weight function was never called")
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("custom copy of the default weight changed the result (-default +custom):\n%s", diff)
	}
}

func TestEliminate_WeightLimitingOff(t *testing.T) {
	data := uniformPoints(500, 2, 14)
	cfg := DefaultConfig()
	cfg.WeightLimiting = false
	out := mustEliminate(t, data, 50, cfg, Options{})
	if got, random := minPairDist(out), randomSubsetMinDist(data, 50, 5, 14); got <= random {
		t.Errorf("unclamped min distance %v does not beat random (mean %v)", got, random)
	}
}

func TestEliminateFlat_MatchesRows(t *testing.T) {
	flat := uniformFlatData(400, 2, 15)
	rows := make([][]float64, 400)
	for i := range rows {
		rows[i] = flat[i*2 : i*2+2]
	}
	e, err := New(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	outFlat := make([]float64, 40*2)
	if err := e.EliminateFlat(flat, outFlat, Options{Progressive: true}); err != nil {
		t.Fatal(err)
	}
	outRows := make([][]float64, 40)
	if err := e.Eliminate(rows, outRows, Options{Progressive: true}); err != nil {
		t.Fatal(err)
	}
	for i, p := range outRows {
		if p[0] != outFlat[i*2] || p[1] != outFlat[i*2+1] {
			t.Errorf("row %d: %v differs from flat %v", i, p, outFlat[i*2:i*2+2])
		}
	}
}

func TestEliminate_WritesRowsInPlace(t *testing.T) {
	data := uniformPoints(100, 2, 16)
	e, err := New(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	backing := make([]float64, 20)
	output := make([][]float64, 10)
	for i := range output {
		output[i] = backing[i*2 : i*2+2]
	}
	if err := e.Eliminate(data, output, Options{}); err != nil {
		t.Fatal(err)
	}
	for i := range output {
		if &output[i][0] != &backing[i*2] {
			t.Errorf("row %d was reallocated instead of overwritten", i)
		}
	}
	if backing[0] == 0 && backing[1] == 0 {
		t.Error("output rows were not written")
	}
}

func TestEliminate_NonUnitBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	data := make([][]float64, 500)
	for i := range data {
		data[i] = []float64{-5 + 10*rng.Float64(), 100 + 2*rng.Float64()}
	}
	cfg := DefaultConfig()
	cfg.Bounds = Bounds{Min: []float64{-5, 100}, Max: []float64{5, 102}}
	out := mustEliminate(t, data, 50, cfg, Options{})
	if got, random := minPairDist(out), randomSubsetMinDist(data, 50, 5, 17); got <= random {
		t.Errorf("min distance %v does not beat random (mean %v)", got, random)
	}
}
