package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/unilink-app/unilink-api/utils/apperr"
)

func TestCalculatePagination(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		limit     int
		total     int64
		wantPage  int
		wantLimit int
		wantPages int
	}{
		{"exact fit", 1, 10, 100, 1, 10, 10},
		{"partial last page", 2, 10, 101, 2, 10, 11},
		{"empty result", 1, 10, 0, 1, 10, 0},
		{"page clamped to 1", 0, 10, 50, 1, 10, 5},
		{"limit clamped to default", 1, 0, 50, 1, 10, 5},
		{"limit clamped to max", 1, 500, 500, 1, 100, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := CalculatePagination(tt.page, tt.limit, tt.total)
			if meta.CurrentPage != tt.wantPage {
				t.Errorf("CurrentPage = %d, want %d", meta.CurrentPage, tt.wantPage)
			}
			if meta.PerPage != tt.wantLimit {
				t.Errorf("PerPage = %d, want %d", meta.PerPage, tt.wantLimit)
			}
			if meta.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", meta.TotalPages, tt.wantPages)
			}
			if meta.Total != tt.total {
				t.Errorf("Total = %d, want %d", meta.Total, tt.total)
			}
		})
	}
}

func TestFromErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"not found names the kind", apperr.NotFound("module"), fiber.StatusNotFound, "module not found"},
		{"wrapped not found", fmt.Errorf("cascade: %w", apperr.NotFound("faculty")), fiber.StatusNotFound, "faculty not found"},
		{"conflict", apperr.Conflict("request"), fiber.StatusConflict, "request already exists"},
		{"validation", apperr.Validation("limit out of range"), fiber.StatusBadRequest, "limit out of range"},
		{"unexpected", errors.New("disk on fire"), fiber.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return FromError(c, tt.err)
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}

			body, _ := io.ReadAll(resp.Body)
			var parsed Response
			if err := json.Unmarshal(body, &parsed); err != nil {
				t.Fatalf("failed to parse response body: %v", err)
			}
			if parsed.Success {
				t.Error("error response marked as success")
			}
			if parsed.Error == nil || parsed.Error.Message != tt.wantMsg {
				t.Errorf("error message = %v, want %q", parsed.Error, tt.wantMsg)
			}
		})
	}
}
