package environment

import (
	"errors"
	"fmt"
)

// =============================================================================
// Error Types
// =============================================================================

// ErrInvalidOverride is returned when a user-supplied override is not a
// value the generators understand.
var ErrInvalidOverride = errors.New("invalid override")

// OverrideError wraps errors with the override that failed.
type OverrideError struct {
	Field   string // e.g., "database"
	Value   string
	Message string
	Err     error
}

func (e *OverrideError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Field, e.Value, e.Message)
}

func (e *OverrideError) Unwrap() error {
	return e.Err
}

func newOverrideError(field, value, message string) *OverrideError {
	return &OverrideError{
		Field:   field,
		Value:   value,
		Message: message,
		Err:     ErrInvalidOverride,
	}
}

// =============================================================================
// Parsing
// =============================================================================

// ParseDatabase converts a raw driver name into a Database.
func ParseDatabase(raw string) (Database, error) {
	switch d := Database(raw); d {
	case DatabaseMySQL, DatabasePgSQL, DatabaseSQLite:
		return d, nil
	}
	return "", newOverrideError("database", raw, "must be one of mysql, pgsql, sqlite")
}

// ParseCacheDriver converts a raw driver name into a CacheDriver.
func ParseCacheDriver(raw string) (CacheDriver, error) {
	switch c := CacheDriver(raw); c {
	case CacheFile, CacheRedis, CacheMemcached:
		return c, nil
	}
	return "", newOverrideError("cache", raw, "must be one of file, redis, memcached")
}

// ParseQueueDriver converts a raw driver name into a QueueDriver.
func ParseQueueDriver(raw string) (QueueDriver, error) {
	switch q := QueueDriver(raw); q {
	case QueueSync, QueueRedis, QueueDatabase:
		return q, nil
	}
	return "", newOverrideError("queue", raw, "must be one of sync, redis, database")
}

// =============================================================================
// Overrides
// =============================================================================

// Overrides holds explicit user choices. Empty fields leave the detected
// value in place.
type Overrides struct {
	PHP      string
	Node     string
	Database string
	Cache    string
	Queue    string
}

// Apply returns a copy of env with every non-empty override replacing the
// corresponding field. No merging is done beyond field replacement.
func (o Overrides) Apply(env Environment) (Environment, error) {
	if o.PHP != "" {
		if err := ValidateVersion(o.PHP); err != nil {
			return env, newOverrideError("php", o.PHP, err.Error())
		}
		env.PHPVersion = o.PHP
	}
	if o.Node != "" {
		if err := ValidateVersion(o.Node); err != nil {
			return env, newOverrideError("node", o.Node, err.Error())
		}
		env.NodeVersion = o.Node
	}
	if o.Database != "" {
		db, err := ParseDatabase(o.Database)
		if err != nil {
			return env, err
		}
		env.Database = db
	}
	if o.Cache != "" {
		c, err := ParseCacheDriver(o.Cache)
		if err != nil {
			return env, err
		}
		env.CacheDriver = c
	}
	if o.Queue != "" {
		q, err := ParseQueueDriver(o.Queue)
		if err != nil {
			return env, err
		}
		env.QueueDriver = q
	}
	return env, nil
}
