package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"gw-transaction-view/internal/api/middlew"
	"gw-transaction-view/internal/custom_err"
	"gw-transaction-view/internal/models"
	"gw-transaction-view/internal/service"
	"gw-transaction-view/pkg/response"
)

type InfoHandler struct {
	service service.Info
}

func NewInfoHandler(service service.Info) *InfoHandler {
	return &InfoHandler{
		service: service,
	}
}

// GetCorridorInfo godoc
// @Summary      Тарифная справка коридора
// @Description  Возвращает комиссию и валюты для указанного типа перевода
// @Tags         transactions
// @Security     BearerAuth
// @Produce      json
// @Param        type query string true "Тип коридора"
// @Success      200 {object} models.CorridorInfoResponse
// @Failure      400 {object} response.ErrorResponse
// @Failure      401 {object} response.ErrorResponse
// @Router       /transactions/info [get]
func (h *InfoHandler) GetCorridorInfo(w http.ResponseWriter, r *http.Request) {
	const op = "handler.GetCorridorInfo"
	log := middlew.GetLogger(r.Context())

	kind := models.CorridorKind(r.URL.Query().Get("type"))
	if kind == "" {
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_request", "Query param 'type' is required")
		return
	}

	info, err := h.service.GetCorridorInfo(kind)
	if err != nil {
		if errors.Is(err, custom_err.ErrUnknownCorridor) {
			log.Warn("unknown corridor requested", slog.String("op", op), slog.String("type", string(kind)))
			response.WriteJSONError(w, log, http.StatusBadRequest, "unknown_corridor", "Unknown transfer type")
			return
		}
		log.Error("failed to get corridor info", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteJSONError(w, log, http.StatusInternalServerError, "internal_error", "An internal error occurred")
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, info)
}
