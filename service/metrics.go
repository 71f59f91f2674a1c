package service

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	opNamespaceProcesses = "namespace_processes"
	opResolveCgroup      = "resolve_cgroup"
	opCollectPIDs        = "collect_pids"
	opFindInit           = "find_init"
)

// ScanMetrics is a prometheus collector tracking the resolver's scan
// activity per operation.
type ScanMetrics struct {
	mu           sync.Mutex
	scanCount    map[string]float64
	errorCount   map[string]float64
	lastDuration map[string]float64
	lastResults  map[string]float64

	scanDesc     *prometheus.Desc
	errorDesc    *prometheus.Desc
	durationDesc *prometheus.Desc
	resultDesc   *prometheus.Desc
}

func NewScanMetrics(machineID string) *ScanMetrics {
	labels := []string{"operation"}
	constLabels := prometheus.Labels{"machine_id": machineID}
	return &ScanMetrics{
		scanCount:    make(map[string]float64),
		errorCount:   make(map[string]float64),
		lastDuration: make(map[string]float64),
		lastResults:  make(map[string]float64),
		scanDesc: prometheus.NewDesc("penguin_scans_total",
			"Number of process-table scans performed, per operation", labels, constLabels),
		errorDesc: prometheus.NewDesc("penguin_scan_errors_total",
			"Number of scans that returned an error, per operation", labels, constLabels),
		durationDesc: prometheus.NewDesc("penguin_last_scan_duration_seconds",
			"Duration of the most recent scan, per operation", labels, constLabels),
		resultDesc: prometheus.NewDesc("penguin_last_scan_results",
			"Result count of the most recent successful scan, per operation", labels, constLabels),
	}
}

func (m *ScanMetrics) Observe(op string, duration time.Duration, results int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scanCount[op]++
	if err != nil {
		m.errorCount[op]++
	} else {
		m.lastResults[op] = float64(results)
	}
	m.lastDuration[op] = duration.Seconds()
}

func (m *ScanMetrics) Describe(ch chan<- *prometheus.Desc) {
	ch <- m.scanDesc
	ch <- m.errorDesc
	ch <- m.durationDesc
	ch <- m.resultDesc
}

func (m *ScanMetrics) Collect(ch chan<- prometheus.Metric) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for op, v := range m.scanCount {
		ch <- prometheus.MustNewConstMetric(m.scanDesc, prometheus.CounterValue, v, op)
	}
	for op, v := range m.errorCount {
		ch <- prometheus.MustNewConstMetric(m.errorDesc, prometheus.CounterValue, v, op)
	}
	for op, v := range m.lastDuration {
		ch <- prometheus.MustNewConstMetric(m.durationDesc, prometheus.GaugeValue, v, op)
	}
	for op, v := range m.lastResults {
		ch <- prometheus.MustNewConstMetric(m.resultDesc, prometheus.GaugeValue, v, op)
	}
}

// observeScan records one scan on the collector. Tests build Service
// literals without a collector; that is fine.
func (svc *Service) observeScan(op string, start time.Time, results int, err error) {
	if svc.metrics == nil {
		return
	}
	svc.metrics.Observe(op, time.Since(start), results, err)
}
