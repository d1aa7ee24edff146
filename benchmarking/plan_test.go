package benchmarking

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Plan", func() {
	It("should cover every case by default", func() {
		p := DefaultPlan()

		Expect(p.Validate()).To(Succeed())
		Expect(p.BenchTime).To(Equal(200 * time.Millisecond))

		cases := p.Cases()
		Expect(cases).To(HaveLen(6 * 5 * 2))
		Expect(cases[0]).To(Equal(Case{
			Workload: WorkloadConstruction, Container: ContainerStaticVec, Size: 8,
		}))
		Expect(cases[1]).To(Equal(Case{
			Workload: WorkloadConstruction, Container: ContainerSlice, Size: 8,
		}))
		Expect(cases[len(cases)-1]).To(Equal(Case{
			Workload: WorkloadPopBack, Container: ContainerSlice, Size: 8192,
		}))
	})

	It("should not share slices with the defaults", func() {
		p := DefaultPlan()
		p.Sizes[0] = 1

		Expect(DefaultSizes[0]).To(Equal(8))
	})

	It("should parse YAML over the defaults", func() {
		p, err := ParsePlan([]byte(
			"workloads: [push_back, iteration]\n" +
				"sizes: [4, 16]\n" +
				"benchtime: 50ms\n"))

		Expect(err).NotTo(HaveOccurred())
		Expect(p.Workloads).To(Equal([]Workload{
			WorkloadPushBack, WorkloadIteration,
		}))
		Expect(p.Containers).To(Equal(AllContainers))
		Expect(p.Sizes).To(Equal([]int{4, 16}))
		Expect(p.BenchTime).To(Equal(50 * time.Millisecond))
	})

	It("should reject unknown fields", func() {
		_, err := ParsePlan([]byte("size: [4]\n"))

		Expect(err).To(MatchError(ContainSubstring("failed to parse YAML")))
	})

	DescribeTable("invalid plans",
		func(yaml, msg string) {
			_, err := ParsePlan([]byte(yaml))

			Expect(err).To(MatchError(ContainSubstring(msg)))
		},
		Entry("unknown workload", "workloads: [sort]\n", "unknown workload"),
		Entry("unknown container", "containers: [list]\n", "unknown container"),
		Entry("empty workloads", "workloads: []\n", "workloads list"),
		Entry("empty containers", "containers: []\n", "containers list"),
		Entry("empty sizes", "sizes: []\n", "sizes list"),
		Entry("negative size", "sizes: [-1]\n", "invalid size"),
		Entry("zero bench time", "benchtime: 0s\n", "invalid bench time"),
	)

	It("should load a file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "plan.yaml")
		Expect(os.WriteFile(path, []byte("containers: [staticvec]\n"), 0o644)).
			To(Succeed())

		p, err := LoadPlan(path)

		Expect(err).NotTo(HaveOccurred())
		Expect(p.Containers).To(Equal([]Container{ContainerStaticVec}))
	})

	It("should report missing files", func() {
		_, err := LoadPlan(filepath.Join(GinkgoT().TempDir(), "none.yaml"))

		Expect(err).To(MatchError(ContainSubstring("failed to read plan file")))
	})
})
