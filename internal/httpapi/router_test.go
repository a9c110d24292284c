package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"staffing/internal/domain"
	"staffing/internal/httpapi"
	"staffing/internal/service"
)

func serve(router http.Handler, method, target string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func errorMessage(w *httptest.ResponseRecorder) string {
	var resp map[string]string
	Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
	return resp["error"]
}

var _ = Describe("Router", func() {
	var (
		router *gin.Engine
		svc    *mockStaffingService
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		svc = &mockStaffingService{}
		router = httpapi.NewRouter(svc, httpapi.RouterConfig{CORSAllowedOrigins: []string{"https://app.example"}})
	})

	It("reports health", func() {
		w := serve(router, http.MethodGet, "/healthz", nil, nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`{"status":"ok"}`))
	})

	It("returns 404 for unknown routes", func() {
		w := serve(router, http.MethodGet, "/api/unknown", nil, nil)
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(errorMessage(w)).To(Equal("not found"))
	})

	It("echoes or assigns a request id", func() {
		w := serve(router, http.MethodGet, "/healthz", nil, map[string]string{"X-Request-ID": "req-1"})
		Expect(w.Header().Get("X-Request-ID")).To(Equal("req-1"))

		w = serve(router, http.MethodGet, "/healthz", nil, nil)
		Expect(w.Header().Get("X-Request-ID")).NotTo(BeEmpty())
	})

	Describe("CORS", func() {
		It("allows configured origins", func() {
			w := serve(router, http.MethodGet, "/healthz", nil, map[string]string{"Origin": "https://app.example"})
			Expect(w.Header().Get("Access-Control-Allow-Origin")).To(Equal("https://app.example"))
			Expect(w.Header().Get("Vary")).To(Equal("Origin"))
		})

		It("ignores unknown origins", func() {
			w := serve(router, http.MethodGet, "/healthz", nil, map[string]string{"Origin": "https://evil.example"})
			Expect(w.Header().Get("Access-Control-Allow-Origin")).To(BeEmpty())
		})

		It("answers preflight requests", func() {
			w := serve(router, http.MethodOptions, "/api/availability", nil, map[string]string{"Origin": "https://app.example"})
			Expect(w.Code).To(Equal(http.StatusNoContent))
			Expect(w.Header().Get("Access-Control-Allow-Methods")).To(ContainSubstring("GET"))
		})

		It("allows any origin with a wildcard", func() {
			open := httpapi.NewRouter(svc, httpapi.RouterConfig{CORSAllowedOrigins: []string{"*"}})
			w := serve(open, http.MethodGet, "/healthz", nil, map[string]string{"Origin": "https://any.example"})
			Expect(w.Header().Get("Access-Control-Allow-Origin")).To(Equal("*"))
		})
	})

	Describe("GET /api/availability", func() {
		It("passes parsed filters to the service", func() {
			var captured service.AvailabilityRequest
			svc.availabilityFn = func(_ context.Context, request service.AvailabilityRequest) ([]domain.PersonAvailability, error) {
				captured = request
				return []domain.PersonAvailability{{PersonID: "p1", Name: "Ada", TotalCapacity: 40, AvailableHours: 40, AvailabilityPct: 1, Skills: []string{}, Allocations: []domain.AllocationSlice{}}}, nil
			}

			w := serve(router, http.MethodGet, "/api/availability?startDate=2026-01-05&endDate=2026-01-09&skillIds=s1,s2&skillIds=s3&roleId=r1&practiceId=pr1&minHours=8", nil, nil)
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(captured.StartDate).To(Equal("2026-01-05"))
			Expect(captured.EndDate).To(Equal("2026-01-09"))
			Expect(captured.SkillIDs).To(Equal([]string{"s1", "s2", "s3"}))
			Expect(captured.RoleID).To(Equal("r1"))
			Expect(captured.PracticeID).To(Equal("pr1"))
			Expect(captured.MinHours).NotTo(BeNil())
			Expect(*captured.MinHours).To(Equal(8))

			var resp []map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp).To(HaveLen(1))
			Expect(resp[0]["personId"]).To(Equal("p1"))
			Expect(resp[0]["availabilityPct"]).To(BeNumerically("==", 1))
		})

		It("leaves optional filters empty", func() {
			var captured service.AvailabilityRequest
			svc.availabilityFn = func(_ context.Context, request service.AvailabilityRequest) ([]domain.PersonAvailability, error) {
				captured = request
				return []domain.PersonAvailability{}, nil
			}

			w := serve(router, http.MethodGet, "/api/availability", nil, nil)
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(MatchJSON(`[]`))
			Expect(captured.StartDate).To(BeEmpty())
			Expect(captured.MinHours).To(BeNil())
			Expect(captured.SkillIDs).To(BeEmpty())
		})

		DescribeTable("rejects malformed parameters",
			func(query string) {
				called := false
				svc.availabilityFn = func(context.Context, service.AvailabilityRequest) ([]domain.PersonAvailability, error) {
					called = true
					return nil, nil
				}
				w := serve(router, http.MethodGet, "/api/availability?"+query, nil, nil)
				Expect(w.Code).To(Equal(http.StatusBadRequest))
				Expect(called).To(BeFalse())
			},
			Entry("bad start date", "startDate=05-01-2026"),
			Entry("bad end date", "endDate=2026-02-30"),
			Entry("non numeric minHours", "minHours=lots"),
			Entry("fractional minHours", "minHours=1.5"),
		)

		It("maps validation errors to 400 with detail", func() {
			svc.availabilityFn = func(context.Context, service.AvailabilityRequest) ([]domain.PersonAvailability, error) {
				return nil, fmt.Errorf("end date before start date: %w", domain.ErrValidation)
			}
			w := serve(router, http.MethodGet, "/api/availability?startDate=2026-01-09&endDate=2026-01-05", nil, nil)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(errorMessage(w)).To(Equal("end date before start date"))
		})

		It("hides internal errors", func() {
			svc.availabilityFn = func(context.Context, service.AvailabilityRequest) ([]domain.PersonAvailability, error) {
				return nil, errors.New("database exploded")
			}
			w := serve(router, http.MethodGet, "/api/availability", nil, nil)
			Expect(w.Code).To(Equal(http.StatusInternalServerError))
			Expect(errorMessage(w)).To(Equal("internal server error"))
		})
	})

	Describe("GET /api/capacity/forecast", func() {
		It("passes weeks through", func() {
			var captured *int
			svc.forecastFn = func(_ context.Context, weeks *int) ([]domain.CapacityForecastWeek, error) {
				captured = weeks
				return []domain.CapacityForecastWeek{{
					WeekStart:     "2026-01-05",
					TotalCapacity: 40,
					ByPractice:    map[string]domain.PracticeCapacity{"Engineering": {Capacity: 40, Available: 40}},
				}}, nil
			}

			w := serve(router, http.MethodGet, "/api/capacity/forecast?weeks=1", nil, nil)
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(captured).NotTo(BeNil())
			Expect(*captured).To(Equal(1))
			Expect(w.Body.String()).To(ContainSubstring(`"weekStart":"2026-01-05"`))
			Expect(w.Body.String()).To(ContainSubstring(`"byPractice"`))
		})

		It("uses the default horizon without weeks", func() {
			var captured = new(int)
			svc.forecastFn = func(_ context.Context, weeks *int) ([]domain.CapacityForecastWeek, error) {
				captured = weeks
				return []domain.CapacityForecastWeek{}, nil
			}
			w := serve(router, http.MethodGet, "/api/capacity/forecast", nil, nil)
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(captured).To(BeNil())
		})

		It("rejects non numeric weeks", func() {
			w := serve(router, http.MethodGet, "/api/capacity/forecast?weeks=soon", nil, nil)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(errorMessage(w)).To(Equal("weeks must be an integer"))
		})

		It("serves the summary", func() {
			svc.forecastSummaryFn = func(context.Context, *int) (domain.ForecastSummary, error) {
				return domain.ForecastSummary{Weeks: 2, PeakWeekStart: "2026-01-12", PeakUtilizationPct: 0.75}, nil
			}
			w := serve(router, http.MethodGet, "/api/capacity/forecast/summary?weeks=2", nil, nil)
			Expect(w.Code).To(Equal(http.StatusOK))
			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["peakWeekStart"]).To(Equal("2026-01-12"))
			Expect(resp["weeks"]).To(BeNumerically("==", 2))
		})
	})

	Describe("/api/snapshot", func() {
		It("imports the request body", func() {
			var received []byte
			svc.importFn = func(_ context.Context, raw []byte) error {
				received = raw
				return nil
			}
			w := serve(router, http.MethodPost, "/api/snapshot", []byte(`{"people":[]}`), map[string]string{"Content-Type": "application/json"})
			Expect(w.Code).To(Equal(http.StatusNoContent))
			Expect(string(received)).To(Equal(`{"people":[]}`))
		})

		It("rejects invalid snapshots", func() {
			svc.importFn = func(context.Context, []byte) error {
				return fmt.Errorf("people[0]: person id is required: %w", domain.ErrValidation)
			}
			w := serve(router, http.MethodPost, "/api/snapshot", []byte(`{"people":[{}]}`), nil)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(errorMessage(w)).To(ContainSubstring("person id is required"))
		})

		It("rejects oversized bodies", func() {
			body := []byte(`{"people":[` + strings.Repeat(" ", 9<<20) + `]}`)
			w := serve(router, http.MethodPost, "/api/snapshot", body, nil)
			Expect(w.Code).To(Equal(http.StatusRequestEntityTooLarge))
		})

		It("exports the stored snapshot", func() {
			w := serve(router, http.MethodGet, "/api/snapshot", nil, nil)
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))
			Expect(w.Body.String()).To(MatchJSON(`{"people":[]}`))
		})
	})
})
