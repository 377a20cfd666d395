package churnwatch

// Option configures a Client at creation time.
type Option func(*clientConfig)

type clientConfig struct {
	weightsPath  string
	auditLogPath string
	historyPath  string
	source       string
}

// WithWeights sets the path to a weights YAML file.
func WithWeights(path string) Option {
	return func(c *clientConfig) { c.weightsPath = path }
}

// WithAuditLog records every assessment in a hash-chained audit log.
func WithAuditLog(path string) Option {
	return func(c *clientConfig) { c.auditLogPath = path }
}

// WithHistory records every assessment in a SQLite history database.
func WithHistory(path string) Option {
	return func(c *clientConfig) { c.historyPath = path }
}

// WithSource sets the source tag recorded with each assessment (default "sdk").
func WithSource(source string) Option {
	return func(c *clientConfig) { c.source = source }
}
