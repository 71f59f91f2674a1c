package service

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// procStatus is the subset of /proc/<pid>/status the resolver cares about.
// NSPIDs is the NSpid stack, outermost namespace first; the last element is
// the PID the process sees in the deepest namespace it belongs to.
type procStatus struct {
	Name   string
	NSPIDs []int
}

// readProcStatus parses /proc/<pid>/status. A missing NSpid line leaves
// NSPIDs empty; a missing Name line leaves Name empty and the caller falls
// back to the comm file.
func readProcStatus(pidDir string) (procStatus, error) {
	var st procStatus

	file, err := os.Open(filepath.Join(pidDir, "status"))
	if err != nil {
		return st, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "Name:") {
			st.Name = strings.TrimSpace(strings.TrimPrefix(line, "Name:"))
		} else if strings.HasPrefix(line, "NSpid:") {
			for _, field := range strings.Fields(line)[1:] {
				id, err := strconv.Atoi(field)
				if err != nil {
					continue
				}
				st.NSPIDs = append(st.NSPIDs, id)
			}
		}
		if st.Name != "" && len(st.NSPIDs) > 0 {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return st, err
	}
	return st, nil
}

// readComm reads the single-line command name file, the fallback when the
// status record carries no Name field.
func readComm(pidDir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(pidDir, "comm"))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// pidNamespace returns the PID-namespace token of a process, e.g.
// "pid:[4026532456]". The token is opaque; two processes share a namespace
// iff their tokens compare equal.
func (svc *Service) pidNamespace(pid string) (string, error) {
	return os.Readlink(filepath.Join(svc.procRoot, pid, "ns", "pid"))
}

// numericProcEntries lists the process-table entries, skipping everything
// that is not a PID directory ("acpi", "bus", ...).
func numericProcEntries(procRoot string) ([]string, error) {
	entries, err := os.ReadDir(procRoot)
	if err != nil {
		return nil, err
	}
	pids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := strconv.Atoi(entry.Name()); err != nil {
			continue
		}
		pids = append(pids, entry.Name())
	}
	return pids, nil
}
