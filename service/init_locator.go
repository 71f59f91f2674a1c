package service

import (
	"context"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Desperationis/penguin/domain"
	"github.com/Desperationis/penguin/pkg/logger"
)

// FindContainerInit finds the host PID of the container's init, the process
// whose NSpid stack ends in 1. PIDs are probed in ascending order and the
// first hit wins.
//
// A container without such a process (its PID 1 already exited, or it never
// had a classic init) yields Found == false with a nil error; that is a
// valid outcome, not a resolution failure.
func (svc *Service) FindContainerInit(ctx context.Context, containerID string) (outcome domain.ContainerInit, err error) {
	start := time.Now()
	defer func() { svc.observeScan(opFindInit, start, 0, err) }()

	pids, err := svc.CollectContainerPIDs(ctx, containerID)
	if err != nil {
		return domain.ContainerInit{}, err
	}

	for _, pid := range pids {
		st, stErr := readProcStatus(filepath.Join(svc.procRoot, strconv.Itoa(pid)))
		if stErr != nil {
			// Exited between the collect and this read.
			continue
		}
		if n := len(st.NSPIDs); n > 0 && st.NSPIDs[n-1] == 1 {
			return domain.ContainerInit{HostPID: pid, Found: true}, nil
		}
	}

	logger.Logger(ctx).Debug().Msgf("container %q has no live init process", containerID)
	return domain.ContainerInit{}, nil
}
