package benchmarking

import (
	"bytes"
	"context"
	"database/sql"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/staticvec/datarecording"
)

func result(workload string, container Container, size int, ns float64) Result {
	return Result{
		RunID:     "run",
		Workload:  workload,
		Container: string(container),
		Size:      size,
		NsPerOp:   ns,
		NsPerItem: ns / float64(size),
	}
}

var _ = Describe("Compare", func() {
	It("should pair containers in report order", func() {
		cs := Compare([]Result{
			result("iteration", ContainerStaticVec, 64, 30),
			result("push_back", ContainerSlice, 64, 40),
			result("push_back", ContainerStaticVec, 64, 20),
			result("push_back", ContainerStaticVec, 8, 4),
			result("push_back", ContainerSlice, 8, 8),
			result("construction", ContainerSlice, 8, 10),
			result("construction", ContainerStaticVec, 8, 5),
		})

		Expect(cs).To(Equal([]Comparison{
			{Workload: "construction", Size: 8, StaticVecNs: 5, SliceNs: 10},
			{Workload: "push_back", Size: 8, StaticVecNs: 4, SliceNs: 8},
			{Workload: "push_back", Size: 64, StaticVecNs: 20, SliceNs: 40},
		}))
		Expect(cs[0].Ratio()).To(Equal(0.5))
	})

	It("should let later results win", func() {
		cs := Compare([]Result{
			result("pop_back", ContainerStaticVec, 8, 4),
			result("pop_back", ContainerSlice, 8, 8),
			result("pop_back", ContainerStaticVec, 8, 16),
		})

		Expect(cs).To(HaveLen(1))
		Expect(cs[0].Ratio()).To(Equal(2.0))
	})

	It("should not divide by zero", func() {
		Expect(Comparison{StaticVecNs: 1}.Ratio()).To(BeZero())
	})
})

var _ = Describe("WriteReport", func() {
	It("should print a table", func() {
		buf := new(bytes.Buffer)

		err := WriteReport(buf, &Host{
			RunID:     "run",
			CPUModel:  "Test CPU",
			Cores:     8,
			MemTotal:  16 << 30,
			GoVersion: "go1.24.0",
		}, []Comparison{
			{Workload: "push_back", Size: 4096, StaticVecNs: 100, SliceNs: 200},
		})

		Expect(err).NotTo(HaveOccurred())

		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
		Expect(lines).To(HaveLen(4))
		Expect(lines[0]).To(Equal(
			"run run: Test CPU, 8 cores, 16 GiB memory, go1.24.0"))
		Expect(lines[2]).To(ContainSubstring("staticvec ns/op"))
		Expect(strings.Fields(lines[3])).To(Equal([]string{
			"push_back", "4,096", "100.0", "200.0", "0.50",
		}))
	})

	It("should skip the host line", func() {
		buf := new(bytes.Buffer)

		Expect(WriteReport(buf, nil, nil)).To(Succeed())
		Expect(buf.String()).To(HavePrefix("workload"))
	})
})

var _ = Describe("ReadResults", func() {
	var (
		db     *sql.DB
		reader datarecording.DataReader
	)

	BeforeEach(func() {
		var err error
		db, err = sql.Open("sqlite3",
			filepath.Join(GinkgoT().TempDir(), "bench.sqlite3"))
		Expect(err).NotTo(HaveOccurred())

		recorder := datarecording.NewDataRecorderWithDB(db)
		recorder.CreateTable(HostTable, Host{})
		recorder.CreateTable(ResultTable, Result{})

		for _, id := range []string{"old", "new"} {
			recorder.InsertData(HostTable, Host{RunID: id, Cores: 2})

			r := result("push_back", ContainerStaticVec, 8, 4)
			r.RunID = id
			recorder.InsertData(ResultTable, r)
		}

		recorder.Flush()

		reader = datarecording.NewReaderWithDB(db)
	})

	AfterEach(func() {
		Expect(db.Close()).To(Succeed())
	})

	It("should read the latest run", func() {
		host, results, err := ReadResults(context.Background(), reader, "")

		Expect(err).NotTo(HaveOccurred())
		Expect(host.RunID).To(Equal("new"))
		Expect(results).To(HaveLen(1))
		Expect(results[0].RunID).To(Equal("new"))
		Expect(results[0].NsPerOp).To(Equal(4.0))
	})

	It("should read a given run", func() {
		host, results, err := ReadResults(context.Background(), reader, "old")

		Expect(err).NotTo(HaveOccurred())
		Expect(host.RunID).To(Equal("old"))
		Expect(results).To(HaveLen(1))
		Expect(results[0].Size).To(Equal(8))
	})

	It("should report unknown runs", func() {
		_, _, err := ReadResults(context.Background(), reader, "none")

		Expect(err).To(MatchError(ContainSubstring("no run")))
	})
})
