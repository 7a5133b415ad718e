package config

// NewPolicyForTest creates a Policy config for testing purposes
func NewPolicyForTest(path, unitHeadScope string) *Policy {
	return &Policy{
		path:          path,
		unitHeadScope: unitHeadScope,
	}
}

// NewRepositoryForTest creates a Repository config for testing purposes
func NewRepositoryForTest(backend, dsn string) *Repository {
	return &Repository{
		backend: backend,
		dsn:     dsn,
	}
}

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{
		level:  level,
		format: format,
		output: output,
	}
}
