package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
	"github.com/studydeck/coursecart/internal/config"
	"github.com/studydeck/coursecart/internal/domain"
)

// CatalogClient fetches the course snapshot a cart line is built from. The
// backend returns course metadata as JSON with an HTML description body;
// the summary and fallback image are extracted from that HTML.
type CatalogClient struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

func NewCatalogClient(cfg *config.Config) *CatalogClient {
	return &CatalogClient{
		httpClient: &http.Client{Timeout: config.RequestTimeout},
		baseURL:    cfg.APIBaseURL,
		token:      cfg.APIToken,
	}
}

func (c *CatalogClient) FetchCourse(ctx context.Context, courseID string) (domain.Course, error) {
	url := fmt.Sprintf("%s/api/v1/courses/%s", c.baseURL, courseID)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return domain.Course{}, fmt.Errorf("create request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Course{}, fmt.Errorf("fetch course: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.Course{}, domain.ErrCourseNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return domain.Course{}, fmt.Errorf("fetch course: unexpected status %d", resp.StatusCode)
	}

	var payload struct {
		ID              string          `json:"id"`
		Title           string          `json:"title"`
		Price           decimal.Decimal `json:"price"`
		PointsPrice     int64           `json:"points_price"`
		ImageURL        string          `json:"image_url"`
		TeacherName     string          `json:"teacher_name"`
		Subject         string          `json:"subject"`
		DescriptionHTML string          `json:"description_html"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.Course{}, fmt.Errorf("decode course: %w", err)
	}

	course := domain.Course{
		ID:          payload.ID,
		Title:       payload.Title,
		Price:       payload.Price,
		PointsPrice: payload.PointsPrice,
		ImageURL:    payload.ImageURL,
		TeacherName: payload.TeacherName,
		Subject:     payload.Subject,
	}

	if payload.DescriptionHTML != "" {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(payload.DescriptionHTML))
		if err == nil {
			course.Summary = strings.TrimSpace(doc.Find("p").First().Text())
			if course.ImageURL == "" {
				course.ImageURL = doc.Find("img").First().AttrOr("src", "")
			}
		}
	}

	return course, nil
}
