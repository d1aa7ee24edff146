package benchmarking

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/sarchlab/staticvec/vec"
)

// A Workload is an operation pattern applied to a container.
type Workload string

// Workloads measured by the harness.
const (
	WorkloadConstruction Workload = "construction"
	WorkloadPushBack     Workload = "push_back"
	WorkloadEmplaceBack  Workload = "emplace_back"
	WorkloadRandomAccess Workload = "random_access"
	WorkloadIteration    Workload = "iteration"
	WorkloadPopBack      Workload = "pop_back"
)

// AllWorkloads lists the workloads in report order.
var AllWorkloads = []Workload{
	WorkloadConstruction,
	WorkloadPushBack,
	WorkloadEmplaceBack,
	WorkloadRandomAccess,
	WorkloadIteration,
	WorkloadPopBack,
}

// A Container is the sequence implementation under test.
type Container string

// Containers measured by the harness.
const (
	// ContainerStaticVec is a vec.Vector with a capacity equal to the size.
	ContainerStaticVec Container = "staticvec"

	// ContainerSlice is a builtin slice. Except for construction, it is
	// preallocated with make([]int, 0, size).
	ContainerSlice Container = "slice"
)

// AllContainers lists the containers in report order.
var AllContainers = []Container{ContainerStaticVec, ContainerSlice}

func workloadIndex(w Workload) int {
	for i, x := range AllWorkloads {
		if x == w {
			return i
		}
	}

	return -1
}

func containerIndex(c Container) int {
	for i, x := range AllContainers {
		if x == c {
			return i
		}
	}

	return -1
}

// A Case is one measurement: a workload on a container holding Size
// elements.
type Case struct {
	Workload  Workload
	Container Container
	Size      int
}

// Name returns workload/container/size.
func (c Case) Name() string {
	return fmt.Sprintf("%s/%s/%d", c.Workload, c.Container, c.Size)
}

// sink keeps the compiler from discarding the measured reads.
var sink int

// randomData returns n pseudo-random ints. The sequence only depends on n.
func randomData(n int) []int {
	r := rand.New(rand.NewPCG(uint64(n), 0x5eed))

	data := make([]int, n)
	for i := range data {
		data[i] = r.Int()
	}

	return data
}

func shuffledIndices(n int) []int {
	r := rand.New(rand.NewPCG(uint64(n), 0x1d5))

	return r.Perm(n)
}

func setInt(slot *int, x int) {
	*slot = x
}

// BenchFunc returns the function measuring the case. The input data is
// generated before the function is returned, outside the timed region.
func (c Case) BenchFunc() (func(b *testing.B), error) {
	if c.Size <= 0 {
		return nil, fmt.Errorf("invalid size %d", c.Size)
	}

	data := randomData(c.Size)

	switch c.Container {
	case ContainerStaticVec:
		return staticVecBench(c.Workload, data)
	case ContainerSlice:
		return sliceBench(c.Workload, data)
	default:
		return nil, fmt.Errorf("unknown container %q", c.Container)
	}
}

func staticVecBench(w Workload, data []int) (func(b *testing.B), error) {
	n := len(data)

	switch w {
	case WorkloadConstruction:
		return func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				v := vec.New[int](n)
				for _, x := range data {
					v.PushBack(x)
				}
				sink += v.Len()
			}
		}, nil

	case WorkloadPushBack:
		return func(b *testing.B) {
			buf := make([]int, n)
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				v := vec.Over(buf)
				for _, x := range data {
					v.PushBack(x)
				}
				sink += v.Len()
			}
		}, nil

	case WorkloadEmplaceBack:
		return func(b *testing.B) {
			buf := make([]int, n)
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				v := vec.Over(buf)
				for _, x := range data {
					vec.EmplaceBackWith(&v, setInt, x)
				}
				sink += v.Len()
			}
		}, nil

	case WorkloadRandomAccess:
		return func(b *testing.B) {
			v := filledVector(data)
			indices := shuffledIndices(n)
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				for _, idx := range indices {
					sink += v.Get(idx)
				}
			}
		}, nil

	case WorkloadIteration:
		return func(b *testing.B) {
			v := filledVector(data)
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				for _, x := range v.All() {
					sink += *x
				}
			}
		}, nil

	case WorkloadPopBack:
		return func(b *testing.B) {
			v := vec.New[int](n)

			for i := 0; i < b.N; i++ {
				b.StopTimer()
				for _, x := range data {
					v.PushBack(x)
				}
				b.StartTimer()

				for !v.IsEmpty() {
					v.PopBack()
				}
			}
		}, nil

	default:
		return nil, fmt.Errorf("unknown workload %q", w)
	}
}

func filledVector(data []int) *vec.Vector[int] {
	v := vec.New[int](len(data))
	for _, x := range data {
		v.PushBack(x)
	}

	return v
}

func sliceBench(w Workload, data []int) (func(b *testing.B), error) {
	n := len(data)

	switch w {
	case WorkloadConstruction:
		return func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				var s []int
				for _, x := range data {
					s = append(s, x)
				}
				sink += len(s)
			}
		}, nil

	case WorkloadPushBack:
		return func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				s := make([]int, 0, n)
				for _, x := range data {
					s = append(s, x)
				}
				sink += len(s)
			}
		}, nil

	case WorkloadEmplaceBack:
		return func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				s := make([]int, 0, n)
				for _, x := range data {
					s = s[:len(s)+1]
					setInt(&s[len(s)-1], x)
				}
				sink += len(s)
			}
		}, nil

	case WorkloadRandomAccess:
		return func(b *testing.B) {
			s := append(make([]int, 0, n), data...)
			indices := shuffledIndices(n)
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				for _, idx := range indices {
					sink += s[idx]
				}
			}
		}, nil

	case WorkloadIteration:
		return func(b *testing.B) {
			s := append(make([]int, 0, n), data...)
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				for _, x := range s {
					sink += x
				}
			}
		}, nil

	case WorkloadPopBack:
		return func(b *testing.B) {
			s := make([]int, 0, n)

			for i := 0; i < b.N; i++ {
				b.StopTimer()
				s = append(s[:0], data...)
				b.StartTimer()

				for len(s) > 0 {
					s = s[:len(s)-1]
				}
			}
		}, nil

	default:
		return nil, fmt.Errorf("unknown workload %q", w)
	}
}
