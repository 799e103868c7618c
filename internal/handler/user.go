package handler

import (
	"net/http"

	"github.com/sakif/catalog-service/internal/pipeline"
	"github.com/sakif/catalog-service/internal/service"
)

// UserHandler serves signup and authentication. Both endpoints are public:
// their chains carry only input validation.
type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Signup handles POST /users/signup. Chain: ValidateInput(Signup).
func (h *UserHandler) Signup(r *http.Request, rc *pipeline.Context) (any, error) {
	token, err := h.users.Signup(r.Context(), rc.Input.String("email"), rc.Input.String("password"))
	if err != nil {
		return nil, err
	}
	return tokenResponse{AccessToken: token}, nil
}

// Authenticate handles POST /users/auth. Chain: ValidateInput(Login).
func (h *UserHandler) Authenticate(r *http.Request, rc *pipeline.Context) (any, error) {
	token, err := h.users.Authenticate(r.Context(), rc.Input.String("email"), rc.Input.String("password"))
	if err != nil {
		return nil, err
	}
	return tokenResponse{AccessToken: token}, nil
}
