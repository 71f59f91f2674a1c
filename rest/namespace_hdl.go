package rest

import (
	"net/http"
	"strconv"

	"github.com/Desperationis/penguin/domain"
)

// NamespaceProcess is one process as seen inside a PID namespace (for API response)
type NamespaceProcess struct {
	PID  int    `json:"pid"`
	Name string `json:"name"`
}

// ListNamespaceProcessesResponse is the response structure for the
// GET /api/v1/namespaces/{pid}/processes endpoint
type ListNamespaceProcessesResponse struct {
	ReferenceHostPID int                `json:"reference_host_pid"`
	Processes        []NamespaceProcess `json:"processes"`
}

// ListNamespaceProcesses godoc
// @Summary List processes sharing a PID namespace
// @Description Returns every process co-resident in the PID namespace of the given reference host PID, with namespace-local PIDs and names
// @Tags Namespaces
// @Produce json
// @Security BearerAuth
// @Param pid path int true "Reference host PID"
// @Success 200 {object} SuccessResponse[ListNamespaceProcessesResponse]
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/namespaces/{pid}/processes [get]
func (h *Handler) ListNamespaceProcesses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	refPID, err := strconv.Atoi(h.GetPathParam(r, "pid"))
	if err != nil || refPID <= 0 {
		h.ErrorResponse(ctx, w, http.StatusBadRequest, "Reference PID must be a positive integer", err)
		return
	}

	procs, err := h.Svc.ListNamespaceProcesses(ctx, refPID)
	if err != nil {
		h.HandleError(ctx, w, err)
		return
	}

	resp := ListNamespaceProcessesResponse{
		ReferenceHostPID: refPID,
		Processes:        convertNamespaceProcesses(procs),
	}
	h.JSONResponse(ctx, w, http.StatusOK, NewSuccessResponse(&resp))
}

func convertNamespaceProcesses(procs []domain.NamespaceProcess) []NamespaceProcess {
	out := make([]NamespaceProcess, 0, len(procs))
	for _, p := range procs {
		out = append(out, NamespaceProcess{PID: p.PID, Name: p.Name})
	}
	return out
}
