package config

// SecretValue is a string that hides itself from fmt and friends so that a
// dumped config never leaks key material into logs.
type SecretValue string

func (s SecretValue) String() string {
	if s == "" {
		return ""
	}
	return "[REDACTED]"
}

func (s SecretValue) Value() string {
	return string(s)
}
