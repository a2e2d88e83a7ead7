// Package sampleelim implements weighted sample elimination for generating
// blue-noise (Poisson-disk-like) point sets.
//
// Starting from a dense candidate set, the algorithm assigns every point a
// weight that grows with how crowded its neighborhood is, then repeatedly
// removes the heaviest point and lowers the weights of its neighbors until
// the requested number of points remains. The survivors are well spread:
// no two of them are much closer than the ideal Poisson-disk radius for
// the output size.
//
// Basic usage:
//
//	cfg := sampleelim.DefaultConfig()
//	out, err := sampleelim.Eliminate(candidates, 100, cfg, sampleelim.Options{})
//	// out holds 100 of the candidate points
//
// For repeated calls with the same configuration, build an [Eliminator] once
// and write into caller-owned buffers:
//
//	e, err := sampleelim.New(cfg)
//	output := make([][]float64, 100)
//	err = e.Eliminate(candidates, output, sampleelim.Options{Progressive: true})
//
// # Progressive ordering
//
// With Options.Progressive set, the output is reordered so that every prefix
// is itself a well-spread sample. The kept set is halved repeatedly and each
// eliminated half is spliced in after the surviving head, so output[:k] can
// be used as a k-point sample for any k.
//
// # Tiling
//
// Config.Tiling (on in [DefaultConfig]) treats the domain described by
// Config.Bounds as a torus when measuring neighborhoods, which keeps points
// from piling up against the domain edges.
//
// # Spatial index selection
//
// Radius queries run against a spatial index chosen by Config.Index:
//
//	cfg.Index = sampleelim.IndexKDTree   // k-d tree with bounding boxes
//	cfg.Index = sampleelim.IndexBallTree // ball tree with centroid radii
//	cfg.Index = sampleelim.IndexBrute    // linear scan
package sampleelim
