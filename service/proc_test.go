package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePidDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func TestReadProcStatus(t *testing.T) {
	dir := writePidDir(t, map[string]string{
		"status": "Name:\tnginx\nUmask:\t0022\nState:\tS (sleeping)\nPid:\t1420390\nNSpid:\t1420390\t42\t7\n",
	})

	st, err := readProcStatus(dir)
	require.NoError(t, err)
	assert.Equal(t, "nginx", st.Name)
	assert.Equal(t, []int{1420390, 42, 7}, st.NSPIDs,
		"NSpid stack must keep outermost-to-innermost order")
}

func TestReadProcStatusMissingFields(t *testing.T) {
	dir := writePidDir(t, map[string]string{
		"status": "Pid:\t77\nState:\tR (running)\n",
	})

	st, err := readProcStatus(dir)
	require.NoError(t, err)
	assert.Empty(t, st.Name)
	assert.Empty(t, st.NSPIDs)
}

func TestReadComm(t *testing.T) {
	dir := writePidDir(t, map[string]string{
		"comm": "kworker/0:1\n",
	})

	name, err := readComm(dir)
	require.NoError(t, err)
	assert.Equal(t, "kworker/0:1", name)
}

func TestNumericProcEntries(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"1", "42", "1420372", "acpi", "sys"} {
		require.NoError(t, os.Mkdir(filepath.Join(root, name), 0755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, "uptime"), []byte("1 2\n"), 0644))

	pids, err := numericProcEntries(root)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"1", "42", "1420372"}, pids)
}
