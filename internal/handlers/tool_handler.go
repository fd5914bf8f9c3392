package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ruralpay/ledgersim/internal/services"
	"go.uber.org/zap"
)

const maxBodyBytes = 1_048_576 // 1 MB

type ToolHandler struct {
	toolkit *services.Toolkit
	queries *services.QueryService
	log     *zap.Logger
}

func NewToolHandler(toolkit *services.Toolkit, queries *services.QueryService, log *zap.Logger) *ToolHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ToolHandler{toolkit: toolkit, queries: queries, log: log.Named("tools")}
}

// ToolCallResponse wraps the result of a tool invocation.
type ToolCallResponse struct {
	Tool   string            `json:"tool"`
	Type   services.ToolType `json:"type"`
	Result any               `json:"result"`
}

// ListTools lists every tool with its READ/WRITE classification
// @Summary List tools
// @Description List the ledger tools available to an agent
// @Tags tools
// @Produce json
// @Success 200 {object} object{tools=[]services.ToolInfo}
// @Router /tools [get]
func (h *ToolHandler) ListTools(w http.ResponseWriter, r *http.Request) {
	services.SendJSON(w, http.StatusOK, map[string]any{
		"tools": h.toolkit.Tools(),
	})
}

// InvokeTool runs a single tool with a JSON object of arguments
// @Summary Invoke tool
// @Description Invoke a ledger tool by name
// @Tags tools
// @Accept json
// @Produce json
// @Param toolName path string true "Tool name"
// @Param arguments body object false "Tool arguments"
// @Success 200 {object} ToolCallResponse
// @Failure 400 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Failure 409 {object} services.ErrorResponse
// @Failure 422 {object} services.ErrorResponse
// @Router /tools/{toolName} [post]
func (h *ToolHandler) InvokeTool(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "toolName")
	info, ok := h.toolkit.Lookup(name)
	if !ok {
		services.SendErrorResponse(w, "Unknown tool: "+name, http.StatusNotFound, nil)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			services.SendErrorResponse(w, "Request body too large", http.StatusRequestEntityTooLarge, nil)
			return
		}
		services.SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	result, err := h.toolkit.Call(r.Context(), name, json.RawMessage(body))
	if err != nil {
		status, code := services.StatusFor(err)
		if status == http.StatusInternalServerError {
			h.log.Error("Tool call failed", zap.String("tool", name), zap.Error(err))
		} else {
			h.log.Debug("Tool call rejected", zap.String("tool", name), zap.String("code", code), zap.Error(err))
		}
		services.SendDomainError(w, err)
		return
	}

	h.log.Info("Tool call", zap.String("tool", name), zap.String("type", string(info.Type)))
	services.SendJSON(w, http.StatusOK, ToolCallResponse{Tool: name, Type: info.Type, Result: result})
}

// GetStatistics returns entity counts
// @Summary Ledger statistics
// @Description Count customers, accounts, transactions and SWIFT messages
// @Tags ledger
// @Produce json
// @Success 200 {object} store.Statistics
// @Router /statistics [get]
func (h *ToolHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	services.SendJSON(w, http.StatusOK, h.queries.GetStatistics())
}
