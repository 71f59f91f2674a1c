package domain

import "errors"

var (
	// ErrProcessNotFound means the reference host PID has no entry in the
	// process table.
	ErrProcessNotFound = errors.New("process not found in proc filesystem")

	// ErrPermissionDenied means a pseudo-file required for the primary
	// lookup was unreadable. Unreadable entries met during a bulk scan are
	// skipped instead.
	ErrPermissionDenied = errors.New("insufficient permissions to read proc entry")

	// ErrCgroupV2Unsupported means the host does not expose a unified
	// cgroup hierarchy under the configured cgroup root.
	ErrCgroupV2Unsupported = errors.New("host is not using cgroup v2 (unified hierarchy)")

	// ErrContainerNotFound means no live process carries a cgroup path
	// matching the requested container identifier.
	ErrContainerNotFound = errors.New("no cgroup path found for container")
)
