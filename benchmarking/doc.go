// Package benchmarking compares vec.Vector against a preallocated builtin
// slice.
//
// A Plan lists the workloads, containers, and sizes to measure. A Runner
// expands the plan into cases, measures each case with a Measurer, and
// records the results and the host they ran on through a
// datarecording.DataRecorder. Compare and WriteReport turn recorded results
// into a side-by-side table.
package benchmarking
