package monitoring

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/rs/xid"
	"github.com/sarchlab/staticvec/instrumentation/tracing"
	"github.com/sarchlab/staticvec/monitoring/web"
	"github.com/sarchlab/staticvec/queueing"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"
)

// Monitor serves the state of a running benchmark over HTTP.
type Monitor struct {
	portNumber int
	url        string

	buffersLock sync.Mutex
	buffers     []queueing.Level

	levelTracer *tracing.LevelTracer

	resultsLock sync.Mutex
	results     any

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor. Ports below 1000 are
// replaced by a random port.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterBuffer registers a buffer to be monitored.
func (m *Monitor) RegisterBuffer(b queueing.Level) {
	m.buffersLock.Lock()
	defer m.buffersLock.Unlock()

	m.buffers = append(m.buffers, b)
}

// RegisterLevelTracer sets the tracer whose statistics /api/levels reports.
func (m *Monitor) RegisterLevelTracer(t *tracing.LevelTracer) {
	m.levelTracer = t
}

// SetResults replaces the value reported by /api/results. The value must be
// serializable to JSON.
func (m *Monitor) SetResults(results any) {
	m.resultsLock.Lock()
	defer m.resultsLock.Unlock()

	m.results = results
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        xid.New().String(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar to be shown on the webpage.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// Handler returns the router serving the API and the static page.
func (m *Monitor) Handler() http.Handler {
	r := mux.NewRouter()

	fServer := http.FileServer(web.GetAssets())
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/buffers", m.listBuffers)
	r.HandleFunc("/api/buffer/{name}", m.bufferDetails)
	r.HandleFunc("/api/field/{json}", m.listFieldValue)
	r.HandleFunc("/api/levels", m.listLevels)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.HandleFunc("/api/results", m.listResults)
	r.PathPrefix("/").Handler(fServer)

	return r
}

// StartServer starts the monitor as a web server and returns the port it
// listens on.
func (m *Monitor) StartServer() int {
	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	port := listener.Addr().(*net.TCPAddr).Port
	m.url = fmt.Sprintf("http://localhost:%d", port)

	fmt.Fprintf(os.Stderr, "Monitoring benchmark with %s\n", m.url)

	handler := m.Handler()

	go func() {
		err := http.Serve(listener, handler)
		dieOnErr(err)
	}()

	return port
}

// OpenBrowser opens the monitoring page in the default browser. The server
// must have been started.
func (m *Monitor) OpenBrowser() error {
	if m.url == "" {
		return errors.New("monitoring server not started")
	}

	return browser.OpenURL(m.url)
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	bars := make([]progressBarState, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		bars = append(bars, b.state())
	}
	m.progressBarsLock.Unlock()

	writeJSON(w, bars)
}

func (m *Monitor) listBuffers(w http.ResponseWriter, r *http.Request) {
	sortMethod, limit, offset, err := m.buffersParseParams(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "Error: %s", err)
		return
	}

	writeJSON(w, m.sortAndSelectBuffers(sortMethod, limit, offset))
}

func (*Monitor) buffersParseParams(
	r *http.Request,
) (sort string, limit, offset int, err error) {
	sortMethod := r.URL.Query().Get("sort")
	if sortMethod == "" {
		sortMethod = "percent"
	}

	if sortMethod != "level" && sortMethod != "percent" {
		errStr := fmt.Sprintf(
			"Invalid sort method: %s. Allowed values are `level` and `percent`",
			sortMethod)
		return "", 0, 0, errors.New(errStr)
	}

	limitNumber, err := intParam(r, "limit")
	if err != nil {
		return sortMethod, 0, 0, err
	}

	offsetNumber, err := intParam(r, "offset")
	if err != nil {
		return sortMethod, limitNumber, 0, err
	}

	return sortMethod, limitNumber, offsetNumber, nil
}

func intParam(r *http.Request, key string) (int, error) {
	str := r.URL.Query().Get(key)
	if str == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(str)
	if err != nil {
		return 0, err
	}

	if n < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}

	return n, nil
}

// sortAndSelectBuffers returns the snapshots in the requested order. A limit
// of 0 means no limit. Handlers only ever read buffers through snapshots,
// since the buffers keep changing on their owners' goroutines.
func (m *Monitor) sortAndSelectBuffers(
	sortMethod string,
	limit, offset int,
) []queueing.LevelSnapshot {
	m.buffersLock.Lock()
	snapshots := make([]queueing.LevelSnapshot, 0, len(m.buffers))
	for _, b := range m.buffers {
		snapshots = append(snapshots, queueing.SnapshotOf(b))
	}
	m.buffersLock.Unlock()

	switch sortMethod {
	case "level":
		sort.SliceStable(snapshots, func(i, j int) bool {
			if snapshots[i].Level != snapshots[j].Level {
				return snapshots[i].Level > snapshots[j].Level
			}

			return snapshots[i].Percent() > snapshots[j].Percent()
		})
	case "percent":
		sort.SliceStable(snapshots, func(i, j int) bool {
			if snapshots[i].Percent() != snapshots[j].Percent() {
				return snapshots[i].Percent() > snapshots[j].Percent()
			}

			return snapshots[i].Level > snapshots[j].Level
		})
	default:
		panic("Invalid sort method " + sortMethod)
	}

	if offset > len(snapshots) {
		offset = len(snapshots)
	}

	end := len(snapshots)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	return snapshots[offset:end]
}

func (m *Monitor) bufferDetails(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	buffer := m.findBufferOr404(w, name)
	if buffer == nil {
		return
	}

	snapshot := queueing.SnapshotOf(buffer)

	serializer := goseth.NewSerializer()
	serializer.SetRoot(&snapshot)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

type fieldReq struct {
	BufferName string `json:"buffer_name,omitempty"`
	FieldName  string `json:"field_name,omitempty"`
}

func (m *Monitor) listFieldValue(w http.ResponseWriter, r *http.Request) {
	jsonString := mux.Vars(r)["json"]
	req := fieldReq{}

	err := json.Unmarshal([]byte(jsonString), &req)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "Error: %s", err)
		return
	}

	buffer := m.findBufferOr404(w, req.BufferName)
	if buffer == nil {
		return
	}

	snapshot := queueing.SnapshotOf(buffer)

	serializer := goseth.NewSerializer()
	serializer.SetRoot(&snapshot)
	serializer.SetMaxDepth(1)

	err = serializer.SetEntryPoint(strings.Split(req.FieldName, "."))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "Error: %s", err)
		return
	}

	err = serializer.Serialize(w)
	dieOnErr(err)
}

func (m *Monitor) findBufferOr404(
	w http.ResponseWriter,
	name string,
) queueing.Level {
	m.buffersLock.Lock()
	defer m.buffersLock.Unlock()

	for _, b := range m.buffers {
		if b.Name() == name {
			return b
		}
	}

	w.WriteHeader(http.StatusNotFound)
	_, err := w.Write([]byte("Buffer not found"))
	dieOnErr(err)

	return nil
}

func (m *Monitor) listLevels(w http.ResponseWriter, _ *http.Request) {
	if m.levelTracer == nil {
		writeJSON(w, []tracing.LevelStat{})
		return
	}

	writeJSON(w, m.levelTracer.Stats())
}

func (m *Monitor) listResults(w http.ResponseWriter, _ *http.Request) {
	m.resultsLock.Lock()
	defer m.resultsLock.Unlock()

	if m.results == nil {
		writeJSON(w, []any{})
		return
	}

	writeJSON(w, m.results)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		w.WriteHeader(http.StatusConflict)
		fmt.Fprintf(w, "Error: %s", err)
		return
	}

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
