package metrics

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("arena"),
				WithHistogramBuckets([]float64{1, 10, 100}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then its collectors are registered under the namespace", func() {
				So(manager, ShouldNotBeNil)
				manager.hits.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() == "test_arena_hits_total" {
						found = true
					}
				}
				So(found, ShouldBeTrue)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording a hit", func() {
			hitsBefore := testutil.ToFloat64(globalManager.hits)
			damageBefore := testutil.ToFloat64(globalManager.damageDealt)
			RecordHit(5)

			Convey("Then hits and damage advance together", func() {
				So(testutil.ToFloat64(globalManager.hits), ShouldEqual, hitsBefore+1)
				So(testutil.ToFloat64(globalManager.damageDealt), ShouldEqual, damageBefore+5)
			})
		})

		Convey("When recording store operations", func() {
			ok := globalManager.storeOperations.WithLabelValues(StoreLive, "incr_score", "ok")
			failed := globalManager.storeOperations.WithLabelValues(StoreRelational, "insert_stats", "error")
			okBefore := testutil.ToFloat64(ok)
			failedBefore := testutil.ToFloat64(failed)

			RecordStoreOperation(StoreLive, "incr_score", 2*time.Millisecond, nil)
			RecordStoreOperation(StoreRelational, "insert_stats", time.Millisecond, errors.New("boom"))

			Convey("Then outcomes are split by error", func() {
				So(testutil.ToFloat64(ok), ShouldEqual, okBefore+1)
				So(testutil.ToFloat64(failed), ShouldEqual, failedBefore+1)
			})

			Convey("And failures are counted per component", func() {
				c := globalManager.errorsByComponent.WithLabelValues(StoreRelational, "insert_stats")
				So(testutil.ToFloat64(c), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When recording HTTP and game metrics", func() {
			Convey("Then nothing panics", func() {
				So(func() {
					RecordHTTPRequest("hit", "POST", "200")
					RecordHTTPRequestDuration("hit", "POST", "200", 3.5)
					RecordErrorByComponent("web", "bad_request")
					RecordMatchFinished()
					RecordArchiveRows(3)
				}, ShouldNotPanic)
			})
		})

		Convey("When updating system gauges", func() {
			UpdateSystemMemoryUsage(2048)
			UpdateSystemGoroutineCount(12)
			RecordSystemGCPauseTime(0.25)

			Convey("Then the gauges hold the last value", func() {
				So(testutil.ToFloat64(globalManager.memoryUsage), ShouldEqual, 2048)
				So(testutil.ToFloat64(globalManager.goroutineCount), ShouldEqual, 12)
				So(testutil.ToFloat64(globalManager.gcPause), ShouldEqual, 0.25)
			})
		})

		Convey("When gathering the custom registry", func() {
			RecordHit(5)
			out, err := testutil.GatherAndCount(GetRegistry(), "arena_hits_total")

			Convey("Then the arena collectors are exposed", func() {
				So(err, ShouldBeNil)
				So(out, ShouldEqual, 1)
			})

			Convey("And Go runtime collectors are not", func() {
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
				for _, f := range families {
					So(strings.HasPrefix(f.GetName(), "go_"), ShouldBeFalse)
				}
			})
		})
	})
}
