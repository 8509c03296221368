package entities

// SubjectCount is one row of the top-subjects projection.
type SubjectCount struct {
	Subject string `json:"subject"`
	Count   int    `json:"count"`
}

// WorkerStatistics is a read-only projection over a worker's orders.
// Always recomputed, never cached.
type WorkerStatistics struct {
	TopSubjects    []SubjectCount `json:"top_subjects"`
	TotalCompleted int            `json:"total_completed"`
	ActiveOrders   int            `json:"active_orders"`
}
