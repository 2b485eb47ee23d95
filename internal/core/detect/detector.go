// Package detect reads a Laravel project's manifests and environment file and
// produces an environment.Environment.
//
// Detection never fails: every unreadable or inconclusive source falls back
// to a documented default. All file access goes through the afero.Fs handed
// to New, so detection runs against in-memory fixtures in tests.
package detect

import (
	"encoding/json"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/artpar/dockerize/internal/core/environment"
	"github.com/spf13/afero"
)

// Project files consulted during detection, relative to the project root.
const (
	ComposerFile = "composer.json"
	PackageFile  = "package.json"
	EnvFile      = ".env"
)

// phpConstraintRegex captures the first MAJOR.MINOR in a constraint,
// dropping a leading ~ or ^.
var phpConstraintRegex = regexp.MustCompile(`[~^]?(\d+\.\d+)`)

// nonVersionRegex matches everything that is not part of a dotted version.
var nonVersionRegex = regexp.MustCompile(`[^\d.]`)

// dependencyRule maps composer packages to the tag they imply.
type dependencyRule struct {
	Tag      environment.Dependency
	Packages []string
}

// dependencyRules is evaluated in order; the order of the resulting tags
// follows this table, not the manifest.
var dependencyRules = []dependencyRule{
	{Tag: environment.DependencyRedis, Packages: []string{"predis/predis", "ext-redis"}},
	{Tag: environment.DependencyMongoDB, Packages: []string{"mongodb/mongodb", "mongodb/laravel-mongodb", "jenssegers/mongodb", "ext-mongodb"}},
	{Tag: environment.DependencyElasticsearch, Packages: []string{"elasticsearch/elasticsearch"}},
	{Tag: environment.DependencyMeilisearch, Packages: []string{"meilisearch/meilisearch-php"}},
	{Tag: environment.DependencyImagick, Packages: []string{"ext-imagick"}},
}

// composerManifest is the subset of composer.json we read.
type composerManifest struct {
	Require map[string]string `json:"require"`
}

// packageManifest is the subset of package.json we read.
type packageManifest struct {
	Engines map[string]string `json:"engines"`
}

// Detector inspects a project directory.
type Detector struct {
	fs     afero.Fs
	root   string
	logger *slog.Logger
}

// New creates a Detector reading project files below root on fs.
func New(fs afero.Fs, root string, logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{fs: fs, root: root, logger: logger}
}

// Detect builds the environment descriptor for the project.
func (d *Detector) Detect() environment.Environment {
	composer, hasComposer := d.readComposer()
	envFile := d.readEnvFile()

	env := environment.Environment{
		PHPVersion:   detectPHPVersion(composer, hasComposer),
		NodeVersion:  d.detectNodeVersion(),
		Database:     detectDatabase(envFile),
		CacheDriver:  detectCacheDriver(envFile),
		QueueDriver:  detectQueueDriver(envFile),
		Dependencies: detectDependencies(composer),
		MailCapture:  detectMailCapture(envFile),
	}

	d.logger.Debug("environment detected",
		"php", env.PHPVersion,
		"node", env.NodeVersion,
		"database", env.Database,
		"cache", env.CacheDriver,
		"queue", env.QueueDriver,
		"dependencies", env.Dependencies.Strings(),
		"mail_capture", env.MailCapture,
	)
	return env
}

// =============================================================================
// Source Readers
// =============================================================================

func (d *Detector) read(name string) ([]byte, bool) {
	path := filepath.Join(d.root, name)
	data, err := afero.ReadFile(d.fs, path)
	if err != nil {
		d.logger.Debug("project file unavailable, using defaults", "path", path, "error", err)
		return nil, false
	}
	return data, true
}

// readComposer returns the parsed composer manifest. A file that is not valid
// JSON is treated as absent.
func (d *Detector) readComposer() (composerManifest, bool) {
	var m composerManifest
	data, ok := d.read(ComposerFile)
	if !ok {
		return m, false
	}
	if err := json.Unmarshal(data, &m); err != nil {
		d.logger.Debug("composer.json is not valid JSON, using defaults", "error", err)
		return composerManifest{}, false
	}
	return m, true
}

// readEnvFile returns the raw .env content, or "" when the file is missing.
func (d *Detector) readEnvFile() string {
	data, ok := d.read(EnvFile)
	if !ok {
		return ""
	}
	return string(data)
}

// =============================================================================
// Field Detection
// =============================================================================

func detectPHPVersion(m composerManifest, ok bool) string {
	if !ok {
		return environment.DefaultPHPVersion
	}
	constraint, found := m.Require["php"]
	if !found {
		return environment.DefaultPHPVersion
	}
	match := phpConstraintRegex.FindStringSubmatch(constraint)
	if match == nil {
		return environment.DefaultPHPVersion
	}
	return match[1]
}

// detectNodeVersion returns "" when package.json is missing, invalid, or has
// no engines.node entry.
func (d *Detector) detectNodeVersion() string {
	data, ok := d.read(PackageFile)
	if !ok {
		return ""
	}
	var m packageManifest
	if err := json.Unmarshal(data, &m); err != nil {
		d.logger.Debug("package.json is not valid JSON, skipping node", "error", err)
		return ""
	}
	constraint, found := m.Engines["node"]
	if !found {
		return ""
	}
	if v := nonVersionRegex.ReplaceAllString(constraint, ""); v != "" {
		return v
	}
	return environment.DefaultNodeVersion
}

func detectDatabase(envFile string) environment.Database {
	switch {
	case strings.Contains(envFile, "DB_CONNECTION=mysql"):
		return environment.DatabaseMySQL
	case strings.Contains(envFile, "DB_CONNECTION=pgsql"):
		return environment.DatabasePgSQL
	case strings.Contains(envFile, "DB_CONNECTION=sqlite"):
		return environment.DatabaseSQLite
	}
	return environment.DatabaseMySQL
}

func detectCacheDriver(envFile string) environment.CacheDriver {
	switch {
	case strings.Contains(envFile, "CACHE_DRIVER=redis"):
		return environment.CacheRedis
	case strings.Contains(envFile, "CACHE_DRIVER=memcached"):
		return environment.CacheMemcached
	}
	return environment.CacheFile
}

func detectQueueDriver(envFile string) environment.QueueDriver {
	switch {
	case strings.Contains(envFile, "QUEUE_CONNECTION=redis"):
		return environment.QueueRedis
	case strings.Contains(envFile, "QUEUE_CONNECTION=database"):
		return environment.QueueDatabase
	}
	return environment.QueueSync
}

// detectMailCapture matches commented-out keys too; that is accepted.
func detectMailCapture(envFile string) bool {
	return strings.Contains(envFile, "MAIL_MAILER=") || strings.Contains(envFile, "MAIL_HOST=")
}

func detectDependencies(m composerManifest) environment.Dependencies {
	deps := environment.Dependencies{}
	for _, rule := range dependencyRules {
		for _, pkg := range rule.Packages {
			if _, ok := m.Require[pkg]; ok {
				deps = deps.Add(rule.Tag)
				break
			}
		}
	}
	return deps
}
