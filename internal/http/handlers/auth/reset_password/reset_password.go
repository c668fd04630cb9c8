package resetpassword

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	e "taskhive/internal/core/domain/errors"
	"taskhive/internal/core/domain/user"
	"taskhive/internal/core/services"
	resetpassword "taskhive/internal/core/services/reset_password"
	"taskhive/internal/http/handlers/response"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation"
)

type Handler struct {
	service services.Service[resetpassword.Input, resetpassword.Result]
}

func New(
	service services.Service[resetpassword.Input, resetpassword.Result],
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service}
}

type Input struct {
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.NewPassword, validation.Required, validation.Length(8, 256)),
		validation.Field(&i.ConfirmPassword, validation.Required, validation.By(i.matchesNewPassword)),
	)
}

func (i Input) matchesNewPassword(value interface{}) error {
	confirm, _ := value.(string)
	if confirm != i.NewPassword {
		return errors.New("must match new password")
	}
	return nil
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" || len(token) > 1024 {
		response.RenderError(rw, "invalid token", http.StatusUnauthorized)
		return
	}

	input := Input{}
	if err := input.FromJSON(r.Body); err != nil {
		response.RenderError(rw, "invalid request data", http.StatusBadRequest)
		return
	}
	if err := input.Validate(); err != nil {
		response.Render(rw, err, http.StatusBadRequest)
		return
	}

	_, err := h.service.Run(
		r.Context(),
		resetpassword.Input{
			Token:       user.PasswordResetToken(token),
			NewPassword: user.RawPassword(input.NewPassword),
		},
	)
	if errors.Is(err, user.ErrInvalidPasswordResetToken) {
		response.RenderError(rw, "invalid or expired token", http.StatusUnauthorized)
		return
	}
	if errors.Is(err, user.ErrUserDoesNotExist) {
		response.RenderError(rw, "user does not exist", http.StatusNotFound)
		return
	}
	if errors.Is(err, user.ErrCredentialConflict) {
		response.RenderError(rw, err.Error(), http.StatusConflict)
		return
	}
	if err != nil {
		response.RenderInternalError(rw)
		return
	}

	response.Render(rw, struct{}{}, http.StatusCreated)
}
