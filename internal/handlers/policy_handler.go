package handlers

import (
	"errors"
	"io/fs"
	"net/http"
	"os"

	"github.com/ruralpay/ledgersim/internal/services"
)

// PolicyHandler serves the operator policy document as markdown.
type PolicyHandler struct {
	path string
}

func NewPolicyHandler(path string) *PolicyHandler {
	return &PolicyHandler{path: path}
}

// GetPolicy returns the policy document
// @Summary Policy document
// @Description Return the markdown policy the agent operates under
// @Tags ledger
// @Produce text/markdown
// @Success 200 {string} string
// @Failure 404 {object} services.ErrorResponse
// @Router /policy [get]
func (h *PolicyHandler) GetPolicy(w http.ResponseWriter, r *http.Request) {
	data, err := os.ReadFile(h.path)
	if errors.Is(err, fs.ErrNotExist) {
		services.SendErrorResponse(w, "Policy not found", http.StatusNotFound, nil)
		return
	}
	if err != nil {
		services.SendErrorResponse(w, "Failed to read policy", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write(data)
}
