package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"gw-transaction-view/internal/api/middlew"
	"gw-transaction-view/internal/custom_err"
	"gw-transaction-view/internal/models"
	"gw-transaction-view/internal/service"
	"gw-transaction-view/pkg/response"
)

type HistoryHandler struct {
	service service.History
}

func NewHistoryHandler(service service.History) *HistoryHandler {
	return &HistoryHandler{
		service: service,
	}
}

// GetTransactions godoc
// @Summary      Получить историю транзакций
// @Description  Возвращает нормализованные транзакции, сгруппированные по дням
// @Tags         transactions
// @Security     BearerAuth
// @Produce      json
// @Param        from   query string false "Начало периода (RFC3339 или YYYY-MM-DD)"
// @Param        to     query string false "Конец периода (RFC3339 или YYYY-MM-DD)"
// @Param        type   query string false "Фильтр по коридору"
// @Param        status query string false "Фильтр по статусу"
// @Param        limit  query int    false "Размер страницы"
// @Param        offset query int    false "Смещение"
// @Success      200 {object} models.HistoryResponse
// @Failure      400 {object} response.ErrorResponse
// @Failure      401 {object} response.ErrorResponse
// @Router       /transactions [get]
func (h *HistoryHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	const op = "handler.GetTransactions"
	log := middlew.GetLogger(r.Context())

	userID := middlew.GetUserID(r.Context())

	req, err := parseHistoryRequest(r)
	if err != nil {
		log.Warn("invalid query params", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	log.Info("transaction history request",
		slog.String("op", op),
		slog.String("user_id", userID.String()),
		slog.String("kind", string(req.Kind)))

	resp, err := h.service.GetTransactions(r.Context(), userID, req)
	if err != nil {
		log.Error("failed to get transactions", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteJSONError(w, log, http.StatusInternalServerError, "internal_error", "Failed to retrieve transactions")
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, resp)
}

// GetTransactionByID godoc
// @Summary      Получить детали транзакции
// @Description  Возвращает каноническое представление одной транзакции
// @Tags         transactions
// @Security     BearerAuth
// @Produce      json
// @Param        transactionID path string true "ID транзакции"
// @Success      200 {object} models.TransactionView
// @Failure      401 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Failure      422 {object} response.ErrorResponse
// @Router       /transactions/{transactionID} [get]
func (h *HistoryHandler) GetTransactionByID(w http.ResponseWriter, r *http.Request) {
	const op = "handler.GetTransactionByID"
	log := middlew.GetLogger(r.Context())

	userID := middlew.GetUserID(r.Context())
	recordID := chi.URLParam(r, "transactionID")
	if recordID == "" {
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_request", "Transaction ID is required")
		return
	}

	view, err := h.service.GetTransactionByID(r.Context(), userID, recordID)
	if err != nil {
		switch {
		case errors.Is(err, custom_err.ErrNotFound):
			log.Info("transaction not found", slog.String("op", op), slog.String("id", recordID))
			response.WriteJSONError(w, log, http.StatusNotFound, "not_found", "Transaction not found")
		case errors.Is(err, custom_err.ErrUnrepresentable):
			log.Warn("transaction details unavailable", slog.String("op", op), slog.String("id", recordID))
			response.WriteJSONError(w, log, http.StatusUnprocessableEntity, "details_unavailable", "Transaction details unavailable")
		default:
			log.Error("failed to get transaction", slog.String("op", op), slog.String("error", err.Error()))
			response.WriteJSONError(w, log, http.StatusInternalServerError, "internal_error", "Failed to retrieve transaction")
		}
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, view)
}

// GetAccounts godoc
// @Summary      Получить счета пользователя
// @Description  Возвращает карты, IBAN и крипто-кошельки с маскированными номерами
// @Tags         accounts
// @Security     BearerAuth
// @Produce      json
// @Success      200 {array} models.MaskedAccountResponse
// @Failure      401 {object} response.ErrorResponse
// @Router       /accounts [get]
func (h *HistoryHandler) GetAccounts(w http.ResponseWriter, r *http.Request) {
	const op = "handler.GetAccounts"
	log := middlew.GetLogger(r.Context())

	userID := middlew.GetUserID(r.Context())

	accounts, err := h.service.GetUserAccounts(r.Context(), userID)
	if err != nil {
		log.Error("failed to get accounts", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteJSONError(w, log, http.StatusInternalServerError, "internal_error", "Failed to retrieve accounts")
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, map[string]interface{}{
		"accounts": accounts,
	})
}

// IngestTransaction godoc
// @Summary      Сохранить сырую запись транзакции
// @Description  Принимает запись в формате апстрима и сохраняет ее для пользователя
// @Tags         transactions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body models.RawRecord true "Сырая запись"
// @Success      201 {object} map[string]string
// @Failure      400 {object} response.ErrorResponse
// @Failure      401 {object} response.ErrorResponse
// @Failure      422 {object} response.ErrorResponse
// @Router       /transactions [post]
func (h *HistoryHandler) IngestTransaction(w http.ResponseWriter, r *http.Request) {
	const op = "handler.IngestTransaction"
	log := middlew.GetLogger(r.Context())

	userID := middlew.GetUserID(r.Context())

	var raw models.RawRecord
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		log.Warn("invalid JSON body", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	if err := h.service.IngestRecord(r.Context(), userID, &raw); err != nil {
		if errors.Is(err, custom_err.ErrUnrepresentable) {
			log.Warn("unrepresentable record rejected", slog.String("op", op), slog.String("error", err.Error()))
			response.WriteJSONError(w, log, http.StatusUnprocessableEntity, "unrepresentable_record", err.Error())
			return
		}
		log.Error("failed to ingest record", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteJSONError(w, log, http.StatusInternalServerError, "internal_error", "Failed to save record")
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusCreated, map[string]string{"id": raw.ID})
}

func parseHistoryRequest(r *http.Request) (service.HistoryRequest, error) {
	var req service.HistoryRequest
	q := r.URL.Query()

	if v := q.Get("from"); v != "" {
		t, err := parseTime(v)
		if err != nil {
			return req, errors.New("invalid 'from' timestamp")
		}
		req.From = t
	}
	if v := q.Get("to"); v != "" {
		t, err := parseTime(v)
		if err != nil {
			return req, errors.New("invalid 'to' timestamp")
		}
		req.To = t
	}
	if v := q.Get("type"); v != "" {
		req.Kind = models.CorridorKind(v)
	}
	if v := q.Get("status"); v != "" {
		req.Status = models.ViewStatus(v)
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return req, errors.New("invalid 'limit'")
		}
		req.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return req, errors.New("invalid 'offset'")
		}
		req.Offset = n
	}
	return req, nil
}

func parseTime(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}
