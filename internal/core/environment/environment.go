// Package environment defines the Environment descriptor produced by detection
// and consumed by the artifact generators.
//
// This is part of the Functional Core - the descriptor is a plain value, and
// every predicate defined on it is a pure function of its fields.
package environment

// =============================================================================
// Defaults
// =============================================================================

const (
	// DefaultPHPVersion is used when no PHP constraint can be detected.
	DefaultPHPVersion = "8.2"

	// DefaultNodeVersion is used when package.json declares engines.node but
	// the constraint holds no version digits (e.g. "latest").
	DefaultNodeVersion = "20"
)

// =============================================================================
// Enumerations
// =============================================================================

// Database is the primary datastore driver.
type Database string

const (
	DatabaseMySQL  Database = "mysql"
	DatabasePgSQL  Database = "pgsql"
	DatabaseSQLite Database = "sqlite"
)

// CacheDriver is the cache backend.
type CacheDriver string

const (
	CacheFile      CacheDriver = "file"
	CacheRedis     CacheDriver = "redis"
	CacheMemcached CacheDriver = "memcached"
)

// QueueDriver is the background-job backend.
type QueueDriver string

const (
	QueueSync     QueueDriver = "sync"
	QueueRedis    QueueDriver = "redis"
	QueueDatabase QueueDriver = "database"
)

// Dependency is a tag for an optional integration detected from declared packages.
type Dependency string

const (
	DependencyRedis         Dependency = "redis"
	DependencyMongoDB       Dependency = "mongodb"
	DependencyElasticsearch Dependency = "elasticsearch"
	DependencyMeilisearch   Dependency = "meilisearch"
	DependencyImagick       Dependency = "imagick"
)

// =============================================================================
// Dependencies
// =============================================================================

// Dependencies is an insertion-ordered set of dependency tags.
// The zero value is an empty set ready to use.
type Dependencies []Dependency

// Has reports whether tag is present.
func (d Dependencies) Has(tag Dependency) bool {
	for _, t := range d {
		if t == tag {
			return true
		}
	}
	return false
}

// Add returns the set with tag appended, unless it is already present.
func (d Dependencies) Add(tag Dependency) Dependencies {
	if d.Has(tag) {
		return d
	}
	return append(d, tag)
}

// Strings returns the tags as plain strings, never nil.
func (d Dependencies) Strings() []string {
	out := make([]string, 0, len(d))
	for _, t := range d {
		out = append(out, string(t))
	}
	return out
}

// =============================================================================
// Environment
// =============================================================================

// Environment is the normalized detection result threaded through the pipeline.
//
// Database, CacheDriver and QueueDriver always hold a value. NodeVersion is
// empty when the project does not need a Node.js toolchain.
type Environment struct {
	PHPVersion   string       `yaml:"php_version"`
	NodeVersion  string       `yaml:"node_version,omitempty"`
	Database     Database     `yaml:"database"`
	CacheDriver  CacheDriver  `yaml:"cache_driver"`
	QueueDriver  QueueDriver  `yaml:"queue_driver"`
	Dependencies Dependencies `yaml:"dependencies"`
	MailCapture  bool         `yaml:"mail_capture"`
}

// Default returns the descriptor used when nothing at all can be detected.
func Default() Environment {
	return Environment{
		PHPVersion:   DefaultPHPVersion,
		Database:     DatabaseMySQL,
		CacheDriver:  CacheFile,
		QueueDriver:  QueueSync,
		Dependencies: Dependencies{},
	}
}

// NeedsRedis reports whether a redis extension and service are required,
// either because a redis client is declared or a driver is set to redis.
func (e Environment) NeedsRedis() bool {
	return e.Dependencies.Has(DependencyRedis) ||
		e.CacheDriver == CacheRedis ||
		e.QueueDriver == QueueRedis
}

// NeedsMemcached reports whether the memcached extension is required.
func (e Environment) NeedsMemcached() bool {
	return e.CacheDriver == CacheMemcached
}

// NeedsMongo reports whether the mongodb extension is required.
func (e Environment) NeedsMongo() bool {
	return e.Dependencies.Has(DependencyMongoDB)
}

// NeedsImagick reports whether the imagick extension is required.
func (e Environment) NeedsImagick() bool {
	return e.Dependencies.Has(DependencyImagick)
}

// NeedsMeilisearch reports whether a Meilisearch service is required.
func (e Environment) NeedsMeilisearch() bool {
	return e.Dependencies.Has(DependencyMeilisearch)
}

// NeedsElasticsearch reports whether an Elasticsearch service is required.
func (e Environment) NeedsElasticsearch() bool {
	return e.Dependencies.Has(DependencyElasticsearch)
}

// NeedsNode reports whether a Node.js toolchain must be installed.
func (e Environment) NeedsNode() bool {
	return e.NodeVersion != ""
}

// NeedsQueueWorker reports whether a supervised queue worker is required.
func (e Environment) NeedsQueueWorker() bool {
	return e.QueueDriver != QueueSync
}
