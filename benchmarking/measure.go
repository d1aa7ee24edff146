package benchmarking

import (
	"flag"
	"sync"
	"testing"
	"time"
)

// A Measurement is the outcome of timing one benchmark function.
type Measurement struct {
	Iterations  int
	NsPerOp     float64
	AllocsPerOp int64
	BytesPerOp  int64
}

// A Measurer times benchmark functions.
type Measurer interface {
	Measure(fn func(b *testing.B)) Measurement
}

var testingInit sync.Once

// BenchmarkMeasurer measures with testing.Benchmark, outside of go test.
type BenchmarkMeasurer struct {
	lock      sync.Mutex
	benchTime time.Duration
}

// NewBenchmarkMeasurer creates a measurer that runs each function for about
// benchTime.
func NewBenchmarkMeasurer(benchTime time.Duration) *BenchmarkMeasurer {
	testingInit.Do(testing.Init)

	return &BenchmarkMeasurer{benchTime: benchTime}
}

// Measure runs fn until the bench time is reached. Measurements are
// serialized because the bench time is a process-wide setting.
func (m *BenchmarkMeasurer) Measure(fn func(b *testing.B)) Measurement {
	m.lock.Lock()
	defer m.lock.Unlock()

	err := flag.Set("test.benchtime", m.benchTime.String())
	if err != nil {
		panic(err)
	}

	r := testing.Benchmark(func(b *testing.B) {
		b.ReportAllocs()
		fn(b)
	})

	return fromBenchmarkResult(r)
}

func fromBenchmarkResult(r testing.BenchmarkResult) Measurement {
	m := Measurement{
		Iterations:  r.N,
		AllocsPerOp: r.AllocsPerOp(),
		BytesPerOp:  r.AllocedBytesPerOp(),
	}

	if r.N > 0 {
		m.NsPerOp = float64(r.T.Nanoseconds()) / float64(r.N)
	}

	return m
}
