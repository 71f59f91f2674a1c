package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/Desperationis/penguin/domain"
	"github.com/Desperationis/penguin/pkg/logger"
)

// ListNamespaceProcesses lists every process sharing the PID namespace of
// refHostPID as (namespace-local PID, name) pairs, sorted ascending by
// namespace-local PID.
//
// The scan races against the live process table: entries that vanish or are
// unreadable mid-scan contribute nothing and are never reported as errors.
// Only the reference lookup itself is fatal.
func (svc *Service) ListNamespaceProcesses(ctx context.Context, refHostPID int) (result []domain.NamespaceProcess, err error) {
	start := time.Now()
	defer func() { svc.observeScan(opNamespaceProcesses, start, len(result), err) }()

	refNS, err := svc.pidNamespace(strconv.Itoa(refHostPID))
	if err != nil {
		switch {
		case os.IsNotExist(err):
			return nil, fmt.Errorf("host PID %d: %w", refHostPID, domain.ErrProcessNotFound)
		case os.IsPermission(err):
			return nil, fmt.Errorf("host PID %d: %w", refHostPID, domain.ErrPermissionDenied)
		default:
			return nil, fmt.Errorf("failed to resolve PID namespace of %d: %v", refHostPID, err)
		}
	}

	pids, err := numericProcEntries(svc.procRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to read proc directory: %v", err)
	}

	result = []domain.NamespaceProcess{}
	for _, pid := range pids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ns, nsErr := svc.pidNamespace(pid)
		if nsErr != nil || ns != refNS {
			continue
		}

		pidDir := filepath.Join(svc.procRoot, pid)
		st, stErr := readProcStatus(pidDir)
		if stErr != nil {
			logger.Logger(ctx).Debug().Err(stErr).Msgf("skipping pid %s: status unreadable", pid)
			continue
		}
		if len(st.NSPIDs) == 0 {
			// Without the NSpid stack the namespace-local PID is unknown.
			continue
		}

		name := st.Name
		if name == "" {
			comm, commErr := readComm(pidDir)
			if commErr != nil {
				continue
			}
			name = comm
		}

		result = append(result, domain.NamespaceProcess{
			PID:  st.NSPIDs[len(st.NSPIDs)-1],
			Name: name,
		})
	}

	sort.Slice(result, func(i, j int) bool { return result[i].PID < result[j].PID })
	return result, nil
}
