package models

// HealthStatus is the body returned by the service root endpoint
type HealthStatus struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// OK reports whether the service declared itself healthy
func (h HealthStatus) OK() bool {
	return h.Status == "OK"
}
