package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shopmetrics/ybscontrol/internal/domain/models"
	"github.com/shopmetrics/ybscontrol/internal/service/production"
	"github.com/shopmetrics/ybscontrol/internal/timeutil"
)

func jobsRouter(t *testing.T, repo *fakeOrderRepo) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := production.NewService(repo, timeutil.NewStore(timeutil.DefaultCalendar()), "UTC", 0, nil)
	h := NewReportHandler(svc, nil, t.TempDir(), time.UTC, nil)
	r := gin.New()
	r.GET("/reports/jobs", h.Jobs)
	return r
}

func TestJobsReturnsGroupedRows(t *testing.T) {
	ts := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)
	repo := &fakeOrderRepo{
		rows: []models.JobRangeRow{{
			Order:       "1001",
			Company:     "ACME Corp",
			Workstation: "Laminate",
			Hours:       4.0,
			Status:      "Completed",
			Start:       time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC),
			End:         ts,
		}},
		steps: map[string][]models.Step{"1001": {{Name: "Laminate", Timestamp: &ts}}},
	}
	r := jobsRouter(t, repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/reports/jobs?start=2024-01-02&end=2024-01-02", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}
	var body struct {
		Jobs []production.JobRollup `json:"jobs"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Jobs) != 1 {
		t.Fatalf("got %d jobs, want 1", len(body.Jobs))
	}
	job := body.Jobs[0]
	if job.Company != "ACME Corp" || job.Status != "Completed" {
		t.Fatalf("job = %+v, want company and status surfaced", job)
	}
}

func TestJobsRejectsBadDates(t *testing.T) {
	r := jobsRouter(t, &fakeOrderRepo{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/reports/jobs?start=yesterday&end=2024-01-02", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for malformed start date", w.Code)
	}
}
