package dto

// ImportResponse summarizes an import without echoing created records.
// @Description Import summary
type ImportResponse struct {
	Message  string `json:"message"`
	FileName string `json:"fileName,omitempty"`
	Count    int64  `json:"count,omitempty"`
}

// SnapshotResponse confirms a database replacement.
// @Description Snapshot replace confirmation
type SnapshotResponse struct {
	Message  string `json:"message"`
	FileName string `json:"fileName"`
	ExitCode int    `json:"exitCode"`
	Output   string `json:"output,omitempty"`
}

// HealthResponse reports liveness and whether the store is attached.
type HealthResponse struct {
	Status        string `json:"status"`
	StoreAttached bool   `json:"storeAttached"`
}
