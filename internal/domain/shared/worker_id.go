package shared

import "fmt"

// WorkerID is a value object identifying the warehouse worker operating
// the handheld device
type WorkerID struct {
	value int
}

// NewWorkerID creates a new WorkerID value object
func NewWorkerID(id int) (WorkerID, error) {
	if id <= 0 {
		return WorkerID{}, fmt.Errorf("worker_id must be positive")
	}
	return WorkerID{value: id}, nil
}

// MustNewWorkerID creates a new WorkerID value object, panicking if invalid
// Use this only when you're certain the ID is valid (e.g., from database)
func MustNewWorkerID(id int) WorkerID {
	workerID, err := NewWorkerID(id)
	if err != nil {
		panic(err)
	}
	return workerID
}

// Value returns the integer value of the WorkerID
func (w WorkerID) Value() int {
	return w.value
}

// String returns a string representation of the WorkerID
func (w WorkerID) String() string {
	return fmt.Sprintf("%d", w.value)
}

// Equals checks if two WorkerIDs are equal
func (w WorkerID) Equals(other WorkerID) bool {
	return w.value == other.value
}
