package handler

import (
	"net/http"

	"code_arena/internal/api/middleware"
	"code_arena/internal/app/service"
	"code_arena/internal/common"

	"github.com/go-chi/chi/v5"
)

type BadgeHandler struct {
	badgeService *service.BadgeService
}

func NewBadgeHandler(bs *service.BadgeService) *BadgeHandler {
	return &BadgeHandler{badgeService: bs}
}

func (h *BadgeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listCatalog) // GET /api/v1/badges (public)

	r.Group(func(authRouter chi.Router) {
		authRouter.Use(middleware.Authenticator)
		authRouter.Get("/progress", h.getProgress) // GET /api/v1/badges/progress
	})
}

func (h *BadgeHandler) listCatalog(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.badgeService.ListCatalog(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, catalog)
}

func (h *BadgeHandler) getProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	report, err := h.badgeService.GetProgress(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, report)
}
