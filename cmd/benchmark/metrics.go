package main

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Metrics tracks benchmark results.
type Metrics struct {
	TruePositives  int64 // lender detected
	FalsePositives int64 // non-lender flagged
	TrueNegatives  int64 // non-lender passed
	FalseNegatives int64 // lender missed

	TotalProcessed int64
	TotalLenders   int64
	TotalOther     int64
	TotalErrors    int64

	ProcessingTimeMs int64
}

func (m *Metrics) record(predicted, actual bool) {
	atomic.AddInt64(&m.TotalProcessed, 1)
	if actual {
		atomic.AddInt64(&m.TotalLenders, 1)
	} else {
		atomic.AddInt64(&m.TotalOther, 1)
	}

	switch {
	case predicted && actual:
		atomic.AddInt64(&m.TruePositives, 1)
	case predicted:
		atomic.AddInt64(&m.FalsePositives, 1)
	case actual:
		atomic.AddInt64(&m.FalseNegatives, 1)
	default:
		atomic.AddInt64(&m.TrueNegatives, 1)
	}
}

func (m *Metrics) recordError() {
	atomic.AddInt64(&m.TotalProcessed, 1)
	atomic.AddInt64(&m.TotalErrors, 1)
}

func ratio(num, den int64) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// Precision is the share of detections that were lenders.
func (m *Metrics) Precision() float64 {
	return ratio(m.TruePositives, m.TruePositives+m.FalsePositives)
}

// Recall is the share of lenders that were detected.
func (m *Metrics) Recall() float64 {
	return ratio(m.TruePositives, m.TruePositives+m.FalseNegatives)
}

// F1 is the harmonic mean of precision and recall.
func (m *Metrics) F1() float64 {
	p, r := m.Precision(), m.Recall()
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

func (m *Metrics) Accuracy() float64 {
	total := m.TruePositives + m.TrueNegatives + m.FalsePositives + m.FalseNegatives
	return ratio(m.TruePositives+m.TrueNegatives, total)
}

func printResults(m *Metrics, duration time.Duration) {
	fmt.Println("\n╔═══════════════════════════════════════════════════════════════╗")
	fmt.Println("║                      BENCHMARK RESULTS                        ║")
	fmt.Println("╚═══════════════════════════════════════════════════════════════╝")

	fmt.Printf("\nDATASET\n")
	fmt.Printf("   Total Processed:  %d\n", m.TotalProcessed)
	fmt.Printf("   Lenders:          %d\n", m.TotalLenders)
	fmt.Printf("   Other:            %d\n", m.TotalOther)
	fmt.Printf("   Errors:           %d\n", m.TotalErrors)

	fmt.Printf("\nCONFUSION MATRIX\n")
	fmt.Println("                        Predicted")
	fmt.Println("                   LENDER      OTHER")
	fmt.Println("              ┌──────────┬──────────┐")
	fmt.Printf("   Actual  L  │ %8d │ %8d │  (TP, FN)\n", m.TruePositives, m.FalseNegatives)
	fmt.Println("              ├──────────┼──────────┤")
	fmt.Printf("           O  │ %8d │ %8d │  (FP, TN)\n", m.FalsePositives, m.TrueNegatives)
	fmt.Println("              └──────────┴──────────┘")

	fmt.Printf("\nDETECTION METRICS\n")
	fmt.Printf("   Precision:  %.4f  (of detections, how many were lenders)\n", m.Precision())
	fmt.Printf("   Recall:     %.4f  (of lenders, how many were detected)\n", m.Recall())
	fmt.Printf("   F1-Score:   %.4f\n", m.F1())
	fmt.Printf("   Accuracy:   %.4f\n", m.Accuracy())

	if m.TotalOther > 0 {
		fmt.Printf("   False Alarms: %d / %d (%.2f%%)\n", m.FalsePositives, m.TotalOther, 100*ratio(m.FalsePositives, m.TotalOther))
	}

	fmt.Printf("\nPERFORMANCE\n")
	fmt.Printf("   Total Duration:   %v\n", duration.Round(time.Millisecond))
	if m.TotalProcessed > 0 {
		fmt.Printf("   Avg Latency:      %.2f ms\n", float64(m.ProcessingTimeMs)/float64(m.TotalProcessed))
		fmt.Printf("   Throughput:       %.2f req/sec\n", float64(m.TotalProcessed)/duration.Seconds())
	}
	fmt.Println()
}
