package rest

import (
	"net/http"
)

// GetContainerCgroupResponse is the response structure for the
// GET /api/v1/containers/{id}/cgroup endpoint
type GetContainerCgroupResponse struct {
	ContainerID string `json:"container_id"`
	CgroupPath  string `json:"cgroup_path"`
}

// GetContainerCgroup godoc
// @Summary Resolve a container's cgroup v2 path
// @Description Returns the unified-hierarchy cgroup path of the container whose identifier contains the given substring
// @Tags Containers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Container identifier (full or truncated)"
// @Success 200 {object} SuccessResponse[GetContainerCgroupResponse]
// @Failure 404 {object} ErrorResponse
// @Failure 501 {object} ErrorResponse
// @Router /api/v1/containers/{id}/cgroup [get]
func (h *Handler) GetContainerCgroup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	containerID := h.GetPathParam(r, "id")
	if containerID == "" {
		h.ErrorResponse(ctx, w, http.StatusBadRequest, "Container identifier is required", nil)
		return
	}

	path, err := h.Svc.ResolveContainerCgroup(ctx, containerID)
	if err != nil {
		h.HandleError(ctx, w, err)
		return
	}

	resp := GetContainerCgroupResponse{
		ContainerID: containerID,
		CgroupPath:  path,
	}
	h.JSONResponse(ctx, w, http.StatusOK, NewSuccessResponse(&resp))
}

// GetContainerPIDsResponse is the response structure for the
// GET /api/v1/containers/{id}/processes endpoint
type GetContainerPIDsResponse struct {
	ContainerID string `json:"container_id"`
	HostPIDs    []int  `json:"host_pids"`
}

// GetContainerPIDs godoc
// @Summary List a container's host PIDs
// @Description Returns every host PID registered anywhere in the container's cgroup subtree, deduplicated and sorted ascending
// @Tags Containers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Container identifier (full or truncated)"
// @Success 200 {object} SuccessResponse[GetContainerPIDsResponse]
// @Failure 404 {object} ErrorResponse
// @Failure 501 {object} ErrorResponse
// @Router /api/v1/containers/{id}/processes [get]
func (h *Handler) GetContainerPIDs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	containerID := h.GetPathParam(r, "id")
	if containerID == "" {
		h.ErrorResponse(ctx, w, http.StatusBadRequest, "Container identifier is required", nil)
		return
	}

	pids, err := h.Svc.CollectContainerPIDs(ctx, containerID)
	if err != nil {
		h.HandleError(ctx, w, err)
		return
	}

	resp := GetContainerPIDsResponse{
		ContainerID: containerID,
		HostPIDs:    pids,
	}
	h.JSONResponse(ctx, w, http.StatusOK, NewSuccessResponse(&resp))
}

// GetContainerInitResponse is the response structure for the
// GET /api/v1/containers/{id}/init endpoint. Found is false when the
// container has no live init; that is a 200, not an error.
type GetContainerInitResponse struct {
	ContainerID string `json:"container_id"`
	Found       bool   `json:"found"`
	HostPID     int    `json:"host_pid,omitempty"`
}

// GetContainerInit godoc
// @Summary Find a container's init process
// @Description Returns the host PID whose namespace-local PID is 1 inside the container, if one is alive
// @Tags Containers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Container identifier (full or truncated)"
// @Success 200 {object} SuccessResponse[GetContainerInitResponse]
// @Failure 404 {object} ErrorResponse
// @Failure 501 {object} ErrorResponse
// @Router /api/v1/containers/{id}/init [get]
func (h *Handler) GetContainerInit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	containerID := h.GetPathParam(r, "id")
	if containerID == "" {
		h.ErrorResponse(ctx, w, http.StatusBadRequest, "Container identifier is required", nil)
		return
	}

	init, err := h.Svc.FindContainerInit(ctx, containerID)
	if err != nil {
		h.HandleError(ctx, w, err)
		return
	}

	resp := GetContainerInitResponse{
		ContainerID: containerID,
		Found:       init.Found,
		HostPID:     init.HostPID,
	}
	h.JSONResponse(ctx, w, http.StatusOK, NewSuccessResponse(&resp))
}
