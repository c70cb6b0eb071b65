package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Course is the catalog snapshot a cart line is built from.
type Course struct {
	ID          string
	Title       string
	Price       decimal.Decimal
	PointsPrice int64
	ImageURL    string
	TeacherName string
	Subject     string
	Summary     string
}

// CartItem is one purchasable line. Immutable once created; lines are
// removed wholesale, never edited in place.
type CartItem struct {
	ID          string          `json:"id"`
	CourseID    string          `json:"course_id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	PointsPrice int64           `json:"points_price"`
	ImageURL    string          `json:"image_url"`
	TeacherName string          `json:"teacher_name"`
	Subject     string          `json:"subject"`
	AddedAt     time.Time       `json:"added_at"`
}

// NewCartItem builds a line from a course snapshot. The line id combines the
// course id with the add timestamp so repeated add/remove cycles of the same
// course produce distinguishable lines.
func NewCartItem(course Course, addedAt time.Time) CartItem {
	return CartItem{
		ID:          fmt.Sprintf("%s-%d", course.ID, addedAt.UnixMilli()),
		CourseID:    course.ID,
		Title:       course.Title,
		Price:       course.Price,
		PointsPrice: course.PointsPrice,
		ImageURL:    course.ImageURL,
		TeacherName: course.TeacherName,
		Subject:     course.Subject,
		AddedAt:     addedAt,
	}
}

// Cart is an insertion-ordered sequence of lines plus derived totals.
// Totals are always a pure function of Items; Recalculate must run after
// every change to Items.
type Cart struct {
	Items            []CartItem      `json:"items"`
	TotalPrice       decimal.Decimal `json:"total_price"`
	TotalPointsPrice int64           `json:"total_points_price"`
}

func EmptyCart() Cart {
	return Cart{
		Items:      []CartItem{},
		TotalPrice: decimal.Zero,
	}
}

func (c *Cart) Recalculate() {
	total := decimal.Zero
	var points int64
	for _, item := range c.Items {
		total = total.Add(item.Price)
		points += item.PointsPrice
	}
	c.TotalPrice = total
	c.TotalPointsPrice = points
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c Cart) CourseIDs() []string {
	ids := make([]string, len(c.Items))
	for i, item := range c.Items {
		ids[i] = item.CourseID
	}
	return ids
}
