package service

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Desperationis/penguin/domain"
	"github.com/Desperationis/penguin/pkg/logger"
)

const (
	// cgroupControllersFile exists at the cgroup mount root only on a
	// unified (v2) hierarchy.
	cgroupControllersFile = "cgroup.controllers"
	// cgroupProcsFile lists the host PIDs directly assigned to one cgroup
	// node, never its descendants.
	cgroupProcsFile = "cgroup.procs"
	// unifiedLinePrefix marks the v2 membership line in /proc/<pid>/cgroup.
	unifiedLinePrefix = "0::"
)

// ensureCgroupV2 verifies the configured cgroup root is a unified mount.
func (svc *Service) ensureCgroupV2() error {
	_, err := os.Stat(filepath.Join(svc.cgroupRoot, cgroupControllersFile))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", svc.cgroupRoot, domain.ErrCgroupV2Unsupported)
		}
		return fmt.Errorf("failed to probe cgroup root %s: %v", svc.cgroupRoot, err)
	}
	return nil
}

// unifiedCgroupPath extracts the cgroup v2 path (the part after "0::") from
// a process's cgroup membership record, e.g.
// "0::/system.slice/docker-94860d9dd294.scope". Missing record or missing
// line both yield ok == false; the process raced away or predates v2.
func (svc *Service) unifiedCgroupPath(pid string) (string, bool) {
	file, err := os.Open(filepath.Join(svc.procRoot, pid, "cgroup"))
	if err != nil {
		return "", false
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, unifiedLinePrefix) {
			return strings.TrimSpace(strings.TrimPrefix(line, unifiedLinePrefix)), true
		}
	}
	return "", false
}

// ResolveContainerCgroup finds the cgroup v2 path belonging to the container
// whose identifier (full or truncated, case-insensitive) appears in the
// path. Candidates come from the membership records of live processes and
// must still exist as directories under the cgroup root.
//
// When several paths qualify the shortest one wins, ties going to the first
// seen. An ancestor scope can textually contain the identifier in
// pathological layouts; the shortest match is assumed to be the container's
// own node. This is a best-effort heuristic, kept for compatibility.
func (svc *Service) ResolveContainerCgroup(ctx context.Context, containerID string) (path string, err error) {
	start := time.Now()
	defer func() { svc.observeScan(opResolveCgroup, start, 0, err) }()

	if err = svc.ensureCgroupV2(); err != nil {
		return "", err
	}
	cid := strings.ToLower(containerID)

	pids, err := numericProcEntries(svc.procRoot)
	if err != nil {
		return "", fmt.Errorf("failed to read proc directory: %v", err)
	}

	best := ""
	for _, pid := range pids {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		cgpath, ok := svc.unifiedCgroupPath(pid)
		if !ok || cgpath == "" {
			continue
		}
		if !strings.Contains(strings.ToLower(cgpath), cid) {
			continue
		}
		// Guard against a stale record whose directory is already gone.
		info, statErr := os.Stat(svc.absCgroupDir(cgpath))
		if statErr != nil || !info.IsDir() {
			continue
		}

		if best == "" || len(cgpath) < len(best) {
			best = cgpath
		}
	}

	if best == "" {
		return "", fmt.Errorf("container id %q: %w", containerID, domain.ErrContainerNotFound)
	}

	logger.Logger(ctx).Debug().Msgf("resolved container %q to cgroup path %s", containerID, best)
	return best, nil
}

// CollectContainerPIDs aggregates every host PID registered anywhere in the
// container's cgroup subtree, deduplicated and sorted ascending.
//
// cgroup v2 lists only directly assigned processes per node, so the whole
// subtree is walked with an explicit pending stack. A node that disappears
// mid-walk contributes an empty set.
func (svc *Service) CollectContainerPIDs(ctx context.Context, containerID string) (pids []int, err error) {
	start := time.Now()
	defer func() { svc.observeScan(opCollectPIDs, start, len(pids), err) }()

	cgpath, err := svc.ResolveContainerCgroup(ctx, containerID)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]struct{})
	pending := []string{svc.absCgroupDir(cgpath)}
	for len(pending) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		dir := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		for _, pid := range readCgroupProcs(dir) {
			seen[pid] = struct{}{}
		}

		entries, readErr := os.ReadDir(dir)
		if readErr != nil {
			// Sub-cgroup removed while walking.
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				pending = append(pending, filepath.Join(dir, entry.Name()))
			}
		}
	}

	pids = make([]int, 0, len(seen))
	for pid := range seen {
		pids = append(pids, pid)
	}
	sort.Ints(pids)
	return pids, nil
}

// absCgroupDir maps a path from a membership record onto the cgroup mount.
func (svc *Service) absCgroupDir(cgpath string) string {
	return filepath.Join(svc.cgroupRoot, strings.TrimPrefix(cgpath, "/"))
}

// readCgroupProcs reads one node's process list. A missing file means the
// node raced out of existence and contributes nothing.
func readCgroupProcs(dir string) []int {
	data, err := os.ReadFile(filepath.Join(dir, cgroupProcsFile))
	if err != nil {
		return nil
	}

	var pids []int
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		pid, err := strconv.Atoi(line)
		if err != nil {
			continue
		}
		pids = append(pids, pid)
	}
	return pids
}
