package benchmarking

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/sarchlab/staticvec/datarecording"
)

// A Comparison pairs the two containers on one workload and size.
type Comparison struct {
	Workload    string
	Size        int
	StaticVecNs float64
	SliceNs     float64
}

// Ratio is StaticVecNs / SliceNs. Values below 1 favor vec.Vector.
func (c Comparison) Ratio() float64 {
	if c.SliceNs == 0 {
		return 0
	}

	return c.StaticVecNs / c.SliceNs
}

type comparisonKey struct {
	workload string
	size     int
}

// Compare pairs results by workload and size. Keys measured on only one
// container are dropped. When a key is measured more than once, the later
// result wins.
func Compare(results []Result) []Comparison {
	byKey := make(map[comparisonKey]*Comparison)
	seen := make(map[comparisonKey][2]bool)

	for _, r := range results {
		k := comparisonKey{workload: r.Workload, size: r.Size}

		c, ok := byKey[k]
		if !ok {
			c = &Comparison{Workload: r.Workload, Size: r.Size}
			byKey[k] = c
		}

		s := seen[k]

		switch Container(r.Container) {
		case ContainerStaticVec:
			c.StaticVecNs = r.NsPerOp
			s[0] = true
		case ContainerSlice:
			c.SliceNs = r.NsPerOp
			s[1] = true
		}

		seen[k] = s
	}

	out := make([]Comparison, 0, len(byKey))
	for k, c := range byKey {
		if seen[k][0] && seen[k][1] {
			out = append(out, *c)
		}
	}

	slices.SortFunc(out, func(a, b Comparison) int {
		return cmp.Or(
			cmp.Compare(reportRank(a.Workload), reportRank(b.Workload)),
			cmp.Compare(a.Workload, b.Workload),
			cmp.Compare(a.Size, b.Size),
		)
	})

	return out
}

// reportRank places known workloads first, in AllWorkloads order.
func reportRank(w string) int {
	i := workloadIndex(Workload(w))
	if i < 0 {
		return len(AllWorkloads)
	}

	return i
}

// WriteReport prints the comparisons as an aligned table. host may be nil.
func WriteReport(w io.Writer, host *Host, comparisons []Comparison) error {
	if host != nil {
		_, err := fmt.Fprintf(w, "run %s: %s, %d cores, %s memory, %s\n\n",
			host.RunID, host.CPUModel, host.Cores,
			humanize.IBytes(host.MemTotal), host.GoVersion)
		if err != nil {
			return err
		}
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	fmt.Fprintln(tw, "workload\tsize\tstaticvec ns/op\tslice ns/op\tratio\t")

	for _, c := range comparisons {
		fmt.Fprintf(tw, "%s\t%s\t%.1f\t%.1f\t%.2f\t\n",
			c.Workload, humanize.Comma(int64(c.Size)),
			c.StaticVecNs, c.SliceNs, c.Ratio())
	}

	return tw.Flush()
}

// ReadResults loads the results of a run. An empty runID selects the most
// recent run, whose host is returned as well.
func ReadResults(
	ctx context.Context,
	reader datarecording.DataReader,
	runID string,
) (*Host, []Result, error) {
	reader.MapTable(HostTable, Host{})
	reader.MapTable(ResultTable, Result{})

	hostParams := datarecording.QueryParams{
		OrderBy: "rowid DESC",
		Limit:   1,
	}
	if runID != "" {
		hostParams.Where = "RunID = ?"
		hostParams.Args = []any{runID}
	}

	hosts, _, err := reader.Query(ctx, HostTable, hostParams)
	if err != nil {
		return nil, nil, fmt.Errorf("query hosts: %w", err)
	}

	if len(hosts) == 0 {
		return nil, nil, fmt.Errorf("no run %q recorded", runID)
	}

	host := hosts[0].(*Host)

	rows, _, err := reader.Query(ctx, ResultTable, datarecording.QueryParams{
		Where:   "RunID = ?",
		Args:    []any{host.RunID},
		OrderBy: "rowid",
	})
	if err != nil {
		return nil, nil, fmt.Errorf("query results: %w", err)
	}

	results := make([]Result, 0, len(rows))
	for _, row := range rows {
		results = append(results, *row.(*Result))
	}

	return host, results, nil
}
