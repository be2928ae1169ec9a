package models

// StatusKind classifies a transient execution status.
type StatusKind string

const (
	StatusNone    StatusKind = "none"
	StatusSuccess StatusKind = "success"
	StatusError   StatusKind = "error"
)

// ExecutionStatus is the user-visible outcome of the latest run.
type ExecutionStatus struct {
	Kind    StatusKind `json:"kind"`
	Message string     `json:"message"`
}

// NoStatus is the cleared status.
var NoStatus = ExecutionStatus{Kind: StatusNone}
