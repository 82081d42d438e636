// Package pkg provides the core libraries for Coastlines terrain generation.
//
// # Overview
//
// Coastlines grows low-poly terrain from a handful of random points. Sites are
// scattered over a rectangle, their Voronoi cells are relaxed toward evenly
// sized polygons, heights are diffused across the cell corners by a
// randomized breadth-first walk, and the corners are fan-triangulated into a
// mesh split into height bands.
//
// # Architecture
//
// The data flow through a generation run:
//
//	random sites
//	     ↓
//	[subdivision] Voronoi diagram clipped to the bounds
//	     ↓
//	[relax] Lloyd relaxation with site birth and death
//	     ↓
//	[graph] adjacency over cell corners
//	     ↓
//	[heights] randomized BFS diffusion
//	     ↓
//	[mesh] fan triangulation and banding
//	     ↓
//	[terrain] serializable result
//	     ↓
//	[render/sink] SVG, PNG, PDF, JSON, OBJ/MTL, GeoJSON
//
// # Quick Start
//
//	t, err := pipeline.Generate(ctx, pipeline.Options{SiteCount: pipeline.Ptr(200), Seed: 7})
//	if err != nil {
//	    return err
//	}
//	svg := sink.RenderSVG(t, sink.WithOutlines())
//
// # Main Packages
//
// ## Geometry and Generation
//
// [geom] - Points, segments and bounds shared by every stage.
//
// [sites] - Uniform site scattering from a seeded random source.
//
// [subdivision] - Voronoi diagrams as cells of half-edges. [subdivision.Fortune]
// builds them with Fortune's sweep; [subdivision.Grid] builds square test grids.
//
// [relax] - Lloyd relaxation where crowded cells may die and large cells may
// split, rebuilding the diagram each iteration.
//
// [graph] - Adjacency graph over cell corners with stable vertex ids.
//
// [heights] - Height field filled by randomized breadth-first diffusion with
// geometric decay, plus summary statistics.
//
// [mesh] - Fan triangulation of every cell around its site, one triangle list
// per height band.
//
// [gradient] - Band color ramps.
//
// [terrain] - The finished, cacheable terrain every renderer consumes.
//
// ## Output
//
// [render] - Viewport fitting and SVG to PDF conversion.
//
// [render/sink] - Output formats for finished terrains.
//
// [render/adjacency] - Graphviz rendering of the diffusion graph for debugging.
//
// ## Infrastructure
//
// [pipeline] - Options, validation, generation and rendering with cache-aside
// lookups. Used by both the CLI and the API so they behave identically.
//
// [cache] - Cache backends: file (CLI), Redis and MongoDB (API), null.
//
// [observability] - Hooks for pipeline, cache and HTTP events.
//
// [errors] - Coded errors and input validation.
//
// [buildinfo] - Version information injected at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/heights/...  # Specific package
//	go test -run Example ./... # Examples only
package pkg
