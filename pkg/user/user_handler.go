package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/klokku/ledger/internal/rest"
	log "github.com/sirupsen/logrus"
)

type UserDTO struct {
	Id       int     `json:"id"`
	Name     string  `json:"name"`
	Token    string  `json:"token"`
	Active   bool    `json:"active"`
	Overtime float64 `json:"overtime"`
}

type Handler struct {
	userService Service
}

func NewHandler(userService Service) *Handler {
	return &Handler{
		userService: userService,
	}
}

// CurrentUser godoc
// @Summary Get current user
// @Description Retrieve the user identified by the X-User-Token header
// @Tags User
// @Produce json
// @Success 200 {object} UserDTO
// @Failure 403 {object} rest.ErrorResponse "User not found"
// @Router /api/user/current [get]
// @Security XUserToken
func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Trace("Getting current user")

	currentUser, err := h.userService.GetCurrentUser(r.Context())
	if err != nil {
		if errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrNoUser) {
			w.WriteHeader(http.StatusForbidden)
			encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
				Error: "User not found",
			})
			if encodeErr != nil {
				http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
			}
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(userToDTO(currentUser)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// GetActiveUsers godoc
// @Summary Get active users
// @Description Retrieve all users that take part in reporting
// @Tags User
// @Produce json
// @Success 200 {array} UserDTO
// @Router /api/user [get]
// @Security XUserToken
func (h *Handler) GetActiveUsers(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Trace("Getting active users")

	users, err := h.userService.GetActiveUsers(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	usersDTO := make([]UserDTO, 0, len(users))
	for _, u := range users {
		usersDTO = append(usersDTO, userToDTO(u))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(usersDTO); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func userToDTO(user User) UserDTO {
	return UserDTO{
		Id:       user.Id,
		Name:     user.Name,
		Token:    user.Token,
		Active:   user.Active,
		Overtime: user.Overtime,
	}
}
