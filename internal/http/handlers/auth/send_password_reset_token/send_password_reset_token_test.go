package sendpasswordresettoken

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	c "taskhive/internal/core/domain/common"
	ratelimiter "taskhive/internal/core/domain/rate_limiter"
	"taskhive/internal/core/domain/user"
	service "taskhive/internal/core/services/send_password_reset_token"
	"testing"

	"github.com/stretchr/testify/assert"
)

const TOKEN = "test-password-reset-token"

type stubService struct {
	err   error
	input *service.Input
}

func (s *stubService) Run(ctx context.Context, input service.Input) (result service.Result, err error) {
	if s.err != nil {
		return result, s.err
	}
	s.input = &input
	result.Token = user.PasswordResetToken(TOKEN)
	return result, nil
}

func TestSendPasswordResetTokenHandler(t *testing.T) {
	cases := []struct {
		id             string
		body           string
		serviceErr     error
		expectedStatus int
		expectedInput  *service.Input
	}{
		{
			id:             "success",
			body:           `{"email": "test@test.test"}`,
			expectedStatus: http.StatusOK,
			expectedInput:  &service.Input{Email: c.Email("test@test.test")},
		},
		{
			id:             "email is normalized",
			body:           `{"email": "  Test@TEST.test "}`,
			expectedStatus: http.StatusOK,
			expectedInput:  &service.Input{Email: c.Email("test@test.test")},
		},
		{
			id:             "invalid json",
			body:           `{"email": `,
			expectedStatus: http.StatusBadRequest,
		},
		{
			id:             "email is missing",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			id:             "email is invalid",
			body:           `{"email": "not-an-email"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			id:             "rate limit exceeded",
			body:           `{"email": "test@test.test"}`,
			serviceErr:     ratelimiter.ErrRateLimitExceeded,
			expectedStatus: http.StatusTooManyRequests,
		},
		{
			id:             "internal error",
			body:           `{"email": "test@test.test"}`,
			serviceErr:     context.DeadlineExceeded,
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			req, err := http.NewRequest("POST", "/auth/password_reset/token", strings.NewReader(testcase.body))
			if err != nil {
				t.Fatal(err)
			}

			service := &stubService{err: testcase.serviceErr}
			rr := httptest.NewRecorder()
			handler := New(service, false)
			handler.ServeHTTP(rr, req)

			assert.Equal(t, testcase.expectedStatus, rr.Code)
			assert.Equal(t, testcase.expectedInput, service.input)
			assert.Empty(t, rr.Header().Get("x-test-password-reset-token"))
		})
	}
}

func TestTokenExposedInTestMode(t *testing.T) {
	req, err := http.NewRequest("POST", "/auth/password_reset/token", strings.NewReader(`{"email": "test@test.test"}`))
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	handler := New(&stubService{}, true)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, TOKEN, rr.Header().Get("x-test-password-reset-token"))
}
