// Package generate produces ready-made graphs: seeded random networks,
// parameterised templates and the fixed teaching scenarios.
//
// Every generator returns a *graph.Graph built through the graph builder, so
// ids follow the "node-N"/"edge-N" scheme and the id counters are ready for
// further edits. Randomness always comes from a caller-supplied *rand.Rand;
// the same seed yields the same graph.
//
//	rng := rand.New(rand.NewSource(42))
//	g := generate.Random(8, rng)
//
//	tpl, _ := generate.LookupTemplate("power-grid")
//	g = tpl.Build(rng)
package generate
