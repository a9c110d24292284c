package httpapi_test

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"staffing/internal/adapters/impexp"
	"staffing/internal/adapters/persistence"
	"staffing/internal/adapters/telemetry"
	"staffing/internal/httpapi"
	"staffing/internal/service"
)

const integrationSnapshot = `{
  "people": [
    {
      "id": "p-ada", "name": "Ada", "status": "ACTIVE", "defaultHoursPerWeek": 40,
      "role": {"id": "role-dev", "name": "Developer"},
      "practices": [{"practiceId": "pr-eng", "practiceName": "Engineering", "isPrimary": true}],
      "allocations": [
        {"id": "a-1", "project": {"id": "prj-1", "name": "Billing"}, "startDate": "2026-01-05", "endDate": "2026-01-09", "hoursPerDay": 6, "status": "CONFIRMED"}
      ]
    },
    {"id": "p-bob", "name": "Bob", "status": "ACTIVE", "defaultHoursPerWeek": 20}
  ]
}`

var _ = Describe("Router with the real service", func() {
	var router *gin.Engine

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		dir, err := filepathTempDir()
		Expect(err).NotTo(HaveOccurred())

		repo, err := persistence.NewFileRepository(filepath.Join(dir, "snapshot.json"))
		Expect(err).NotTo(HaveOccurred())

		registry := prometheus.NewRegistry()
		sink, err := telemetry.NewPromTelemetry(registry)
		Expect(err).NotTo(HaveOccurred())

		now := time.Date(2026, time.January, 6, 9, 0, 0, 0, time.UTC)
		svc, err := service.New(repo, sink, impexp.NewSnapshotCodec(repo), service.WithClock(func() time.Time { return now }))
		Expect(err).NotTo(HaveOccurred())

		router = httpapi.NewRouter(svc, httpapi.RouterConfig{
			MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		})

		w := serve(router, http.MethodPost, "/api/snapshot", []byte(integrationSnapshot), nil)
		Expect(w.Code).To(Equal(http.StatusNoContent))
	})

	It("ranks people by available hours", func() {
		w := serve(router, http.MethodGet, "/api/availability?startDate=2026-01-05&endDate=2026-01-09", nil, nil)
		Expect(w.Code).To(Equal(http.StatusOK))

		var resp []map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp).To(HaveLen(2))
		Expect(resp[0]["personId"]).To(Equal("p-bob"))
		Expect(resp[0]["availableHours"]).To(BeNumerically("~", 20, 1e-9))
		Expect(resp[0]["practice"]).To(BeNil())
		Expect(resp[1]["personId"]).To(Equal("p-ada"))
		Expect(resp[1]["availableHours"]).To(BeNumerically("~", 10, 1e-9))
		Expect(resp[1]["practice"]).To(Equal("Engineering"))
	})

	It("rejects an inverted window", func() {
		w := serve(router, http.MethodGet, "/api/availability?startDate=2026-01-09&endDate=2026-01-05", nil, nil)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("forecasts the current week by practice", func() {
		w := serve(router, http.MethodGet, "/api/capacity/forecast?weeks=2", nil, nil)
		Expect(w.Code).To(Equal(http.StatusOK))

		var resp []struct {
			WeekStart      string  `json:"weekStart"`
			TotalCapacity  float64 `json:"totalCapacity"`
			AllocatedHours float64 `json:"allocatedHours"`
			ByPractice     map[string]struct {
				Capacity float64 `json:"capacity"`
			} `json:"byPractice"`
		}
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp).To(HaveLen(2))
		Expect(resp[0].WeekStart).To(Equal("2026-01-05"))
		Expect(resp[0].TotalCapacity).To(BeNumerically("~", 60, 1e-9))
		Expect(resp[0].AllocatedHours).To(BeNumerically("~", 30, 1e-9))
		Expect(resp[0].ByPractice).To(HaveKey("Engineering"))
		Expect(resp[0].ByPractice).To(HaveKey("Unassigned"))
		Expect(resp[1].AllocatedHours).To(BeZero())
	})

	It("rejects weeks above the configured maximum", func() {
		w := serve(router, http.MethodGet, "/api/capacity/forecast?weeks=500", nil, nil)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("exposes service metrics", func() {
		serve(router, http.MethodGet, "/api/capacity/forecast?weeks=1", nil, nil)
		w := serve(router, http.MethodGet, "/metrics", nil, nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`staffing_events_total{event="forecast.compute",outcome="ok"} 1`))
		Expect(w.Body.String()).To(ContainSubstring(`staffing_events_total{event="snapshot.import",outcome="ok"} 1`))
	})
})
