package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/veriverse/veriverse/internal/model"
	"github.com/veriverse/veriverse/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) (*Server, *store.Store, *store.Queue) {
	t.Helper()
	dir := t.TempDir()
	st, err := store.NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	q, err := store.NewQueue(dir)
	if err != nil {
		t.Fatal(err)
	}
	return NewServer(st, q, nil, nil, nil), st, q
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestSubmitPrompt(t *testing.T) {
	s, st, q := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/prompts",
		`{"prompt": "RBI cut interest rates in Mumbai today", "requester": "alice"}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202: %s", rec.Code, rec.Body)
	}

	var resp struct {
		RunID  string   `json:"run_id"`
		Status string   `json:"status"`
		Topics []string `json:"topics"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.RunID == "" || resp.Status != string(model.StatusQueued) {
		t.Errorf("response = %+v", resp)
	}

	wantTopics := map[string]bool{"Finance": true, "India": true}
	for _, topic := range resp.Topics {
		if !wantTopics[topic] {
			t.Errorf("unexpected topic %s", topic)
		}
		delete(wantTopics, topic)
	}
	if len(wantTopics) != 0 {
		t.Errorf("missing topics: %v", wantTopics)
	}

	run, err := st.Get(resp.RunID)
	if err != nil {
		t.Fatalf("run not persisted: %v", err)
	}
	if run.Requester != "alice" || run.Status != model.StatusQueued {
		t.Errorf("run = %+v", run)
	}

	job, err := q.Dequeue()
	if err != nil || job == nil || job.RunID != resp.RunID {
		t.Errorf("job = %+v (err %v), want enqueued for %s", job, err, resp.RunID)
	}
}

func TestSubmitPrompt_Invalid(t *testing.T) {
	s, _, _ := newTestServer(t)

	for _, body := range []string{``, `{}`, `{"prompt": "   "}`, `not json`} {
		rec := doRequest(t, s, http.MethodPost, "/prompts", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestGetRun(t *testing.T) {
	s, st, _ := newTestServer(t)
	conf := 0.81
	if err := st.Create(&model.Run{
		ID:                "run-1",
		Prompt:            "p",
		Status:            model.StatusCompleted,
		ProvisionalAnswer: "true",
		Confidence:        &conf,
	}); err != nil {
		t.Fatal(err)
	}

	rec := doRequest(t, s, http.MethodGet, "/runs/run-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var run model.Run
	if err := json.Unmarshal(rec.Body.Bytes(), &run); err != nil {
		t.Fatal(err)
	}
	if run.ID != "run-1" || run.Confidence == nil || *run.Confidence != 0.81 {
		t.Errorf("run = %+v", run)
	}
}

func TestGetRun_NotFound(t *testing.T) {
	s, _, _ := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/runs/ghost", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestGetLeaderboard(t *testing.T) {
	s, _, _ := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/leaderboard", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Leaderboard []struct {
			Rank   int     `json:"rank"`
			UserID string  `json:"user_id"`
			Points float64 `json:"points"`
			Tier   string  `json:"tier"`
		} `json:"leaderboard"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Leaderboard) == 0 {
		t.Fatal("empty leaderboard")
	}
	if resp.Leaderboard[0].Rank != 1 {
		t.Errorf("first entry rank = %d, want 1", resp.Leaderboard[0].Rank)
	}
}

func TestValidateRunSources_Disabled(t *testing.T) {
	s, st, _ := newTestServer(t)
	if err := st.Create(&model.Run{ID: "run-1", Prompt: "p"}); err != nil {
		t.Fatal(err)
	}

	rec := doRequest(t, s, http.MethodGet, "/runs/run-1/sources", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503 when validation disabled", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	s, _, _ := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestClassifyTopics(t *testing.T) {
	tests := []struct {
		prompt string
		want   []string
	}{
		{"a new AI software release", []string{"Technology"}},
		{"stock market crash", []string{"Finance"}},
		{"IPL cricket final", []string{"Sports"}},
		{"heavy rain in Mumbai", []string{"India"}},
		{"the moon is made of cheese", []string{"General"}},
	}
	for _, tt := range tests {
		got := ClassifyTopics(tt.prompt)
		if len(got) != len(tt.want) {
			t.Errorf("ClassifyTopics(%q) = %v, want %v", tt.prompt, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("ClassifyTopics(%q) = %v, want %v", tt.prompt, got, tt.want)
			}
		}
	}
}
