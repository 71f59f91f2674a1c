package domain

// NamespaceProcess is one process as seen from inside a PID namespace. PID
// is the namespace-local id, i.e. what the process calls itself inside the
// container; Name is the best-effort display name from the status record,
// with the comm file as fallback.
type NamespaceProcess struct {
	PID  int    `json:"pid"`
	Name string `json:"name"`
}

// ContainerInit is the outcome of an init lookup. A container whose PID 1
// already exited yields Found == false, which is a normal result rather
// than an error.
type ContainerInit struct {
	HostPID int  `json:"host_pid,omitempty"`
	Found   bool `json:"found"`
}
