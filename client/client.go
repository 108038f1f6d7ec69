// Package client is a Go client for the enrollment REST API.
//
// The client keeps no login state. Register and Login return a Session and
// every directory call takes that Session explicitly, so one Client can serve
// several users at once.
package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"enrollment/directory"
	"enrollment/models"

	"github.com/go-resty/resty/v2"
)

const defaultTimeout = 30 * time.Second

type Client struct {
	BaseURL string
	http    *resty.Client
}

// New returns a client for the API served at baseURL, e.g.
// "http://localhost:5000".
func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		http: resty.New().
			SetBaseURL(baseURL+"/api").
			SetTimeout(defaultTimeout).
			SetHeader("Accept", "application/json"),
	}
}

// User is the account a Session belongs to.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Session is an authenticated identity.
type Session struct {
	Token string
	User  User
}

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
	// Data carries per-field messages for request validation failures.
	Data map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Kind maps the status back onto the directory taxonomy. Conflicts share
// 400 with validation failures and are reported as validation.
func (e *APIError) Kind() directory.Kind {
	switch e.StatusCode {
	case http.StatusBadRequest:
		return directory.KindValidation
	case http.StatusNotFound:
		return directory.KindNotFound
	default:
		return directory.KindUnexpected
	}
}

// Unauthorized reports a missing, invalid or expired session.
func (e *APIError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

type errorBody struct {
	Message string            `json:"message"`
	Data    map[string]string `json:"data"`
}

type authResponse struct {
	User
	Token string `json:"token"`
}

type messageResponse struct {
	Message string `json:"message"`
	Deleted int64  `json:"deleted"`
	Updated int64  `json:"updated"`
}

func (c *Client) request(ctx context.Context, s *Session) *resty.Request {
	r := c.http.R().SetContext(ctx).SetError(&errorBody{})
	if s != nil {
		r.SetAuthToken(s.Token)
	}
	return r
}

func check(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if !resp.IsError() {
		return nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode()}
	if body, ok := resp.Error().(*errorBody); ok && body != nil {
		apiErr.Message = body.Message
		apiErr.Data = body.Data
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode())
	}
	return apiErr
}

/* -------- Auth -------- */

func (c *Client) Register(ctx context.Context, name, email, password string) (Session, error) {
	return c.authenticate(ctx, "/auth/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
}

func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	return c.authenticate(ctx, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
}

func (c *Client) authenticate(ctx context.Context, path string, body map[string]string) (Session, error) {
	var out authResponse
	resp, err := c.request(ctx, nil).SetBody(body).SetResult(&out).Post(path)
	if err := check(resp, err); err != nil {
		return Session{}, err
	}
	return Session{Token: out.Token, User: out.User}, nil
}

/* -------- Students -------- */

// ListStudents fetches one page of the directory. Zero fields of q are
// left to the server defaults.
func (c *Client) ListStudents(ctx context.Context, s Session, q directory.Query) (*directory.Page, error) {
	params := map[string]string{}
	if q.Search != "" {
		params["search"] = q.Search
	}
	if q.Course != "" {
		params["course"] = q.Course
	}
	if q.SortField != "" {
		params["sortField"] = q.SortField
	}
	if q.SortOrder != "" {
		params["sortOrder"] = string(q.SortOrder)
	}
	if q.Page > 0 {
		params["page"] = strconv.Itoa(q.Page)
	}
	if q.PageSize > 0 {
		params["limit"] = strconv.Itoa(q.PageSize)
	}

	var page directory.Page
	resp, err := c.request(ctx, &s).SetQueryParams(params).SetResult(&page).Get("/students")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetStudent(ctx context.Context, s Session, id string) (*models.Enrollment, error) {
	var out models.Enrollment
	resp, err := c.request(ctx, &s).SetPathParam("id", id).SetResult(&out).Get("/students/{id}")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// StudentEnrollments returns every enrollment for email, oldest first.
func (c *Client) StudentEnrollments(ctx context.Context, s Session, email string) ([]models.Enrollment, error) {
	var out []models.Enrollment
	resp, err := c.request(ctx, &s).SetPathParam("email", email).SetResult(&out).Get("/students/email/{email}")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateStudent(ctx context.Context, s Session, in directory.EnrollmentInput) (*models.Enrollment, error) {
	var out models.Enrollment
	resp, err := c.request(ctx, &s).SetBody(in).SetResult(&out).Post("/students")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateStudent(ctx context.Context, s Session, id string, patch directory.EnrollmentPatch) (*models.Enrollment, error) {
	var out models.Enrollment
	resp, err := c.request(ctx, &s).SetPathParam("id", id).SetBody(patch).SetResult(&out).Put("/students/{id}")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteStudent(ctx context.Context, s Session, id string) error {
	resp, err := c.request(ctx, &s).SetPathParam("id", id).Delete("/students/{id}")
	return check(resp, err)
}

// BulkDeleteStudents returns how many enrollments were removed.
func (c *Client) BulkDeleteStudents(ctx context.Context, s Session, ids []string) (int64, error) {
	var out messageResponse
	resp, err := c.request(ctx, &s).
		SetBody(map[string][]string{"ids": ids}).
		SetResult(&out).
		Post("/students/bulk-delete")
	if err := check(resp, err); err != nil {
		return 0, err
	}
	return out.Deleted, nil
}

// BulkUpdateStatus returns how many enrollments were updated.
func (c *Client) BulkUpdateStatus(ctx context.Context, s Session, ids []string, status string) (int64, error) {
	var out messageResponse
	resp, err := c.request(ctx, &s).
		SetBody(map[string]any{"ids": ids, "status": status}).
		SetResult(&out).
		Put("/students/bulk-status")
	if err := check(resp, err); err != nil {
		return 0, err
	}
	return out.Updated, nil
}

/* -------- Courses -------- */

func (c *Client) ListCourses(ctx context.Context, s Session) ([]models.Course, error) {
	var out []models.Course
	resp, err := c.request(ctx, &s).SetResult(&out).Get("/courses")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateCourse(ctx context.Context, s Session, name string) (*models.Course, error) {
	var out models.Course
	resp, err := c.request(ctx, &s).SetBody(map[string]string{"name": name}).SetResult(&out).Post("/courses")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RenameCourse(ctx context.Context, s Session, id, name string) (*models.Course, error) {
	var out models.Course
	resp, err := c.request(ctx, &s).
		SetPathParam("id", id).
		SetBody(map[string]string{"name": name}).
		SetResult(&out).
		Put("/courses/{id}")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCourse(ctx context.Context, s Session, id string) error {
	resp, err := c.request(ctx, &s).SetPathParam("id", id).Delete("/courses/{id}")
	return check(resp, err)
}

/* -------- Analytics -------- */

func (c *Client) Analytics(ctx context.Context, s Session) (*directory.Analytics, error) {
	var out directory.Analytics
	resp, err := c.request(ctx, &s).SetResult(&out).Get("/analytics")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}
