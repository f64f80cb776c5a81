// Package statsview offers runtime statistics of the emulator process
// (heap, goroutines, GC pauses) over a local HTTP server.
//
// Underlying functionality provided by "github.com/go-echarts/statsview"
//
// After launch, graphical statistics will be viewable at:
//
//	localhost:12600/debug/statsview
//
// And standard Go pprof statistics available at:
//
//	localhost:12600/debug/pprof/
//
// Adapted from the statsview package of Gopher2600
// (https://github.com/JetSetIlly/Gopher2600), GPL-3.0-or-later.
package statsview
