package handlers

import (
	"net/http/httptest"
	"testing"
)

// ============================================================================
// BENCHMARKS
// ============================================================================

func benchmarkTarget(b *testing.B, records int, target string) {
	router := newTestRouter(newTestHandler(records))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest("GET", target, nil))
	}
}

// BenchmarkServeViewAll benchmarks the unfiltered JSON view
func BenchmarkServeViewAll(b *testing.B) {
	benchmarkTarget(b, 3000, "/api/view")
}

// BenchmarkServeViewFiltered benchmarks a two-selector JSON view
func BenchmarkServeViewFiltered(b *testing.B) {
	benchmarkTarget(b, 3000, "/api/view?condition=Acne&drug_class=Tetracyclines")
}

// BenchmarkServeChart benchmarks the per-request render of the rating histogram
func BenchmarkServeChart(b *testing.B) {
	benchmarkTarget(b, 3000, "/charts/ratings.png?condition=Diabetes")
}

// BenchmarkIndex benchmarks the HTML page
func BenchmarkIndex(b *testing.B) {
	benchmarkTarget(b, 3000, "/")
}
