package api

// Bookmark is a single bookmark record as the Fuze service represents it.
type Bookmark struct {
	ID          string   `json:"id,omitempty"`
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
}

// ImportItem is one entry of a bulk import payload. The import endpoint
// accepts a reduced shape compared to single-bookmark creation.
type ImportItem struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	Category string `json:"category"`
}

// ImportStatus enumerates the server-side import job states.
type ImportStatus string

const (
	ImportStatusNotStarted ImportStatus = "not_started"
	ImportStatusWaiting    ImportStatus = "waiting"
	ImportStatusProcessing ImportStatus = "processing"
	ImportStatusCompleted  ImportStatus = "completed"
	ImportStatusError      ImportStatus = "error"
)

// Terminal reports whether the status ends progress monitoring.
func (s ImportStatus) Terminal() bool {
	return s == ImportStatusCompleted || s == ImportStatusError
}

// Snapshot is a single import progress report.
type Snapshot struct {
	Status    ImportStatus `json:"status"`
	Processed int          `json:"processed"`
	Total     int          `json:"total"`
	Added     int          `json:"added"`
	Skipped   int          `json:"skipped"`
	Errors    int          `json:"errors"`
}

// Percent returns the completion percentage as an integer, rounded down.
func (s Snapshot) Percent() int {
	if s.Total <= 0 {
		return 0
	}
	return s.Processed * 100 / s.Total
}

// Running reports whether the snapshot describes an in-flight job.
func (s Snapshot) Running() bool {
	return s.Status == ImportStatusWaiting || s.Status == ImportStatusProcessing
}
