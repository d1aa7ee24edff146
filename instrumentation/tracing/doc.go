// Package tracing turns buffer hook events into records.
//
// BufferTracer writes every push, pop, reject, and clear into a
// datarecording table. LevelTracer keeps peak occupancy and reject counts in
// memory.
package tracing
