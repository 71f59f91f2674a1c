package domain

import (
	"context"
)

// Service defines the interface for the introspection service layer
type Service interface {
	// ListNamespaceProcesses lists every process sharing the PID namespace of
	// the given reference host PID, sorted ascending by namespace-local PID
	ListNamespaceProcesses(ctx context.Context, refHostPID int) ([]NamespaceProcess, error)
	// ResolveContainerCgroup resolves the cgroup v2 path of the container
	// whose identifier contains the given substring
	ResolveContainerCgroup(ctx context.Context, containerID string) (string, error)
	// CollectContainerPIDs collects every host PID registered anywhere in the
	// container's cgroup subtree, deduplicated and sorted ascending
	CollectContainerPIDs(ctx context.Context, containerID string) ([]int, error)
	// FindContainerInit finds the host PID of the container's init (PID 1
	// inside the container); an absent init is a normal outcome
	FindContainerInit(ctx context.Context, containerID string) (ContainerInit, error)
	// VerifyAndGenerateToken verifies the provided public key and generates a JWT token if valid
	VerifyAndGenerateToken(ctx context.Context, clientID string, publicKey string) (string, int64, error)
	// ValidateToken validates a bearer token and returns the client id it was issued to
	ValidateToken(ctx context.Context, tokenString string) (string, error)
}
