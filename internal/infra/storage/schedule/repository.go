package schedule

// Repository is the configuration store: templates, seasons, overrides
// and closure blocks, each as an immutable version log with a mutable
// published pointer on the parent. Query methods per aggregate live in
// the sibling repository_*.go files.
type Repository struct {
	db DBExecutor
}

// NewRepository creates a schedule configuration repository.
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}
