package handler

import (
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"gestiostock-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

func TestBusinessErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{service.ErrProductNotFound, 404},
		{service.ErrUserNotFound, 404},
		{service.ErrInsufficientStock, 400},
		{service.ErrPaymentTarget, 400},
		{service.ErrReferenceExists, 409},
		{service.ErrEmailExists, 409},
		{service.ErrUsernameExists, 409},
		{errors.New("Validation failed: Field 'Email' failed on tag 'email'"), 400},
		{errors.New("driver: bad connection"), 500},
	}

	app := fiber.New()
	for i, tc := range cases {
		err := tc.err
		app.Get(fmt.Sprintf("/case/%d", i), func(c *fiber.Ctx) error {
			return businessError(c, err)
		})
	}

	for i, tc := range cases {
		resp, err := app.Test(httptest.NewRequest("GET", fmt.Sprintf("/case/%d", i), nil))
		if err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
		if resp.StatusCode != tc.status {
			t.Fatalf("%v: status = %d, want %d", tc.err, resp.StatusCode, tc.status)
		}
	}
}
