package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/studydeck/coursecart/internal/config"
	"github.com/studydeck/coursecart/internal/domain"
)

func newBackend(t *testing.T, handler http.Handler) (*httptest.Server, *config.Config) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server, &config.Config{APIBaseURL: server.URL, APIToken: "test-token"}
}

func TestBalanceFetchAndCache(t *testing.T) {
	ctx := context.Background()
	var hits int
	_, cfg := newBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/points/balance" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("missing bearer token, got %q", got)
		}
		hits++
		fmt.Fprint(w, `{"balance": 420}`)
	}))

	client := NewMarketplaceClient(cfg)

	balance, err := client.Balance(ctx)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 420 {
		t.Errorf("expected 420, got %d", balance)
	}

	// Second lookup within the TTL stays off the wire.
	if _, err := client.Balance(ctx); err != nil {
		t.Fatalf("cached balance: %v", err)
	}
	if hits != 1 {
		t.Errorf("expected 1 backend hit, got %d", hits)
	}

	ok, err := client.HasEnough(ctx, 400)
	if err != nil || !ok {
		t.Errorf("expected enough for 400, got ok=%v err=%v", ok, err)
	}
	ok, _ = client.HasEnough(ctx, 500)
	if ok {
		t.Error("expected not enough for 500")
	}
}

func TestPurchaseCoursesWithPoints(t *testing.T) {
	ctx := context.Background()
	var received struct {
		CourseIDs   []string `json:"course_ids"`
		PointsCost  int64    `json:"points_cost"`
		Description string   `json:"description"`
	}
	_, cfg := newBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/points/purchases" || r.Method != "POST" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode request: %v", err)
		}
		fmt.Fprint(w, `{"success": true}`)
	}))

	client := NewMarketplaceClient(cfg)

	ok, err := client.PurchaseCoursesWithPoints(ctx, []string{"go-101", "sql-201"}, 240, "order test")
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if !ok {
		t.Error("expected success")
	}
	if len(received.CourseIDs) != 2 || received.PointsCost != 240 || received.Description != "order test" {
		t.Errorf("unexpected payload: %+v", received)
	}
}

func TestPurchaseRejectedIsNotAnError(t *testing.T) {
	ctx := context.Background()
	_, cfg := newBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success": false}`)
	}))

	client := NewMarketplaceClient(cfg)

	ok, err := client.PurchaseCoursesWithPoints(ctx, []string{"go-101"}, 100, "order test")
	if err != nil {
		t.Fatalf("expected no transport error, got %v", err)
	}
	if ok {
		t.Error("expected rejection")
	}
}

func TestFetchCourseExtractsSummaryAndImage(t *testing.T) {
	ctx := context.Background()
	_, cfg := newBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/courses/go-101" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{
			"id": "go-101",
			"title": "Intro to Go",
			"price": "300",
			"points_price": 150,
			"teacher_name": "A. Teacher",
			"subject": "Programming",
			"description_html": "<div><p>  Learn Go from scratch.  </p><img src=\"https://cdn.studydeck.io/go101.png\"></div>"
		}`)
	}))

	client := NewCatalogClient(cfg)

	course, err := client.FetchCourse(ctx, "go-101")
	if err != nil {
		t.Fatalf("fetch course: %v", err)
	}
	if course.Title != "Intro to Go" || course.PointsPrice != 150 {
		t.Errorf("unexpected course: %+v", course)
	}
	if course.Summary != "Learn Go from scratch." {
		t.Errorf("unexpected summary %q", course.Summary)
	}
	if course.ImageURL != "https://cdn.studydeck.io/go101.png" {
		t.Errorf("unexpected image %q", course.ImageURL)
	}
}

func TestFetchCourseNotFound(t *testing.T) {
	ctx := context.Background()
	_, cfg := newBackend(t, http.NotFoundHandler())

	client := NewCatalogClient(cfg)

	_, err := client.FetchCourse(ctx, "missing")
	if !errors.Is(err, domain.ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}
}
