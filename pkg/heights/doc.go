// Package heights synthesizes a scalar height field over an adjacency graph
// by randomized breadth-first diffusion.
//
// A [Field] starts unseeded. [Field.Create] clears it and runs one diffusion
// pass from a vertex chosen uniformly at random; [Field.AddTo] runs another
// pass from a caller-supplied point without clearing, so later passes may
// overwrite heights written by earlier ones.
//
// # Diffusion
//
// The seed receives a height drawn from [Options.SeedMin, Options.SeedMax].
// Every newly reached neighbor n of a dequeued vertex p receives
//
//	clamp01((h[p]*Decay + h[n]) * (1 - j*Sharpness))
//
// where j is uniform in [0, 1) and h[n] is zero if n has no height yet. A
// modifier that rounds to zero is replaced by 1. Vertices are marked visited
// when enqueued, so each reachable vertex is processed exactly once per pass.
//
// After every pass each cell's site height is set to the mean of its boundary
// vertex heights.
//
// # Misses
//
// Looking up a position that no pass has reached is not an error. The lookup
// returns [Options.MissDefault], increments [Field.Misses] and logs at debug
// level, so a defaulted height is never confused with a computed zero.
package heights
