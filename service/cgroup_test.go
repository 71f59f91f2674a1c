package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Desperationis/penguin/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupFakeCgroupRoot builds a fake unified cgroup mount. nodes maps
// relative cgroup paths to the content of their cgroup.procs file; an empty
// content creates the node without a process list.
func setupFakeCgroupRoot(t *testing.T, nodes map[string]string) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "cgroup.controllers"), []byte("cpuset cpu io memory pids\n"), 0644))
	for rel, procs := range nodes {
		dir := filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(rel, "/")))
		require.NoError(t, os.MkdirAll(dir, 0755))
		if procs != "" {
			require.NoError(t, os.WriteFile(filepath.Join(dir, cgroupProcsFile), []byte(procs), 0644))
		}
	}
	return root
}

// setupFakeProcCgroups builds a fake proc tree holding only per-pid cgroup
// membership records.
func setupFakeProcCgroups(t *testing.T, memberships map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for pid, record := range memberships {
		pidDir := filepath.Join(root, pid)
		require.NoError(t, os.Mkdir(pidDir, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(pidDir, "cgroup"), []byte(record), 0644))
	}
	return root
}

const containerID = "94860d9dd294"

func TestResolveContainerCgroupShortestMatchWins(t *testing.T) {
	cgroupRoot := setupFakeCgroupRoot(t, map[string]string{
		"/system.slice/docker-94860d9dd294.scope":          "",
		"/system.slice/docker-94860d9dd294.scope/buildkit": "",
	})
	procRoot := setupFakeProcCgroups(t, map[string]string{
		"10": "0::/system.slice/docker-94860d9dd294.scope\n",
		"12": "0::/system.slice/docker-94860d9dd294.scope/buildkit\n",
	})
	svc := &Service{procRoot: procRoot, cgroupRoot: cgroupRoot}

	path, err := svc.ResolveContainerCgroup(context.Background(), containerID)
	require.NoError(t, err)
	assert.Equal(t, "/system.slice/docker-94860d9dd294.scope", path,
		"ancestor scope must win over the deeper buildkit node")
}

func TestResolveContainerCgroupCaseInsensitive(t *testing.T) {
	cgroupRoot := setupFakeCgroupRoot(t, map[string]string{
		"/system.slice/docker-94860d9dd294.scope": "",
	})
	procRoot := setupFakeProcCgroups(t, map[string]string{
		"10": "0::/system.slice/docker-94860d9dd294.scope\n",
	})
	svc := &Service{procRoot: procRoot, cgroupRoot: cgroupRoot}

	path, err := svc.ResolveContainerCgroup(context.Background(), "94860D9DD294")
	require.NoError(t, err)
	assert.Equal(t, "/system.slice/docker-94860d9dd294.scope", path)
}

func TestResolveContainerCgroupIgnoresLegacyLines(t *testing.T) {
	cgroupRoot := setupFakeCgroupRoot(t, map[string]string{
		"/system.slice/docker-94860d9dd294.scope": "",
	})
	procRoot := setupFakeProcCgroups(t, map[string]string{
		// Hybrid record: only the 0:: line describes the unified hierarchy.
		"10": "12:memory:/legacy/docker-94860d9dd294.legacy\n0::/system.slice/docker-94860d9dd294.scope\n",
	})
	svc := &Service{procRoot: procRoot, cgroupRoot: cgroupRoot}

	path, err := svc.ResolveContainerCgroup(context.Background(), containerID)
	require.NoError(t, err)
	assert.Equal(t, "/system.slice/docker-94860d9dd294.scope", path)
}

func TestResolveContainerCgroupStaleDirSkipped(t *testing.T) {
	// The membership record points at a directory that no longer exists.
	cgroupRoot := setupFakeCgroupRoot(t, map[string]string{})
	procRoot := setupFakeProcCgroups(t, map[string]string{
		"10": "0::/system.slice/docker-94860d9dd294.scope\n",
	})
	svc := &Service{procRoot: procRoot, cgroupRoot: cgroupRoot}

	_, err := svc.ResolveContainerCgroup(context.Background(), containerID)
	assert.ErrorIs(t, err, domain.ErrContainerNotFound)
}

func TestResolveContainerCgroupNotFound(t *testing.T) {
	cgroupRoot := setupFakeCgroupRoot(t, map[string]string{})
	procRoot := setupFakeProcCgroups(t, map[string]string{
		"10": "0::/system.slice/other.scope\n",
	})
	svc := &Service{procRoot: procRoot, cgroupRoot: cgroupRoot}

	_, err := svc.ResolveContainerCgroup(context.Background(), containerID)
	assert.ErrorIs(t, err, domain.ErrContainerNotFound)
}

func TestResolveContainerCgroupRequiresUnifiedHierarchy(t *testing.T) {
	cgroupRoot := t.TempDir() // no cgroup.controllers file
	procRoot := setupFakeProcCgroups(t, map[string]string{
		"10": "0::/system.slice/docker-94860d9dd294.scope\n",
	})
	svc := &Service{procRoot: procRoot, cgroupRoot: cgroupRoot}

	_, err := svc.ResolveContainerCgroup(context.Background(), containerID)
	assert.ErrorIs(t, err, domain.ErrCgroupV2Unsupported)
}

func TestCollectContainerPIDs(t *testing.T) {
	cgroupRoot := setupFakeCgroupRoot(t, map[string]string{
		"/system.slice/docker-94860d9dd294.scope":          "10\n11\n",
		"/system.slice/docker-94860d9dd294.scope/buildkit": "12\n",
	})
	procRoot := setupFakeProcCgroups(t, map[string]string{
		"10": "0::/system.slice/docker-94860d9dd294.scope\n",
	})
	svc := &Service{procRoot: procRoot, cgroupRoot: cgroupRoot}

	pids, err := svc.CollectContainerPIDs(context.Background(), containerID)
	require.NoError(t, err)
	assert.Equal(t, []int{10, 11, 12}, pids,
		"must union the root node and every sub-cgroup")
}

func TestCollectContainerPIDsDeduplicatesAndSorts(t *testing.T) {
	cgroupRoot := setupFakeCgroupRoot(t, map[string]string{
		"/system.slice/docker-94860d9dd294.scope":        "30\n10\n",
		"/system.slice/docker-94860d9dd294.scope/worker": "20\n10\n",
	})
	procRoot := setupFakeProcCgroups(t, map[string]string{
		"10": "0::/system.slice/docker-94860d9dd294.scope\n",
	})
	svc := &Service{procRoot: procRoot, cgroupRoot: cgroupRoot}

	pids, err := svc.CollectContainerPIDs(context.Background(), containerID)
	require.NoError(t, err)
	assert.Equal(t, []int{10, 20, 30}, pids)
}

func TestCollectContainerPIDsMissingProcsFile(t *testing.T) {
	cgroupRoot := setupFakeCgroupRoot(t, map[string]string{
		"/system.slice/docker-94860d9dd294.scope": "10\n",
		// Node without a cgroup.procs file, as if it raced out of existence.
		"/system.slice/docker-94860d9dd294.scope/gone": "",
	})
	procRoot := setupFakeProcCgroups(t, map[string]string{
		"10": "0::/system.slice/docker-94860d9dd294.scope\n",
	})
	svc := &Service{procRoot: procRoot, cgroupRoot: cgroupRoot}

	pids, err := svc.CollectContainerPIDs(context.Background(), containerID)
	require.NoError(t, err)
	assert.Equal(t, []int{10}, pids)
}

func TestCollectContainerPIDsIdempotent(t *testing.T) {
	cgroupRoot := setupFakeCgroupRoot(t, map[string]string{
		"/system.slice/docker-94860d9dd294.scope":          "10\n11\n",
		"/system.slice/docker-94860d9dd294.scope/buildkit": "12\n",
	})
	procRoot := setupFakeProcCgroups(t, map[string]string{
		"10": "0::/system.slice/docker-94860d9dd294.scope\n",
	})
	svc := &Service{procRoot: procRoot, cgroupRoot: cgroupRoot}

	first, err := svc.CollectContainerPIDs(context.Background(), containerID)
	require.NoError(t, err)
	second, err := svc.CollectContainerPIDs(context.Background(), containerID)
	require.NoError(t, err)
	assert.Equal(t, first, second, "stable container must yield identical snapshots")
}
