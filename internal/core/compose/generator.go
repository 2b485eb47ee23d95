package compose

import (
	"github.com/artpar/dockerize/internal/core/environment"
	"github.com/artpar/dockerize/internal/core/render"
	"github.com/artpar/dockerize/internal/core/templates"
)

// =============================================================================
// Database Mapping
// =============================================================================

// DatabaseImage returns the container image for the database service.
func DatabaseImage(db environment.Database) string {
	switch db {
	case environment.DatabasePgSQL:
		return "postgres:15"
	case environment.DatabaseSQLite:
		return "alpine:latest"
	default:
		return "mysql:8.0"
	}
}

// DatabaseService returns the compose service name for the database.
func DatabaseService(db environment.Database) string {
	switch db {
	case environment.DatabasePgSQL:
		return "postgres"
	case environment.DatabaseSQLite:
		return "sqlite"
	default:
		return "mysql"
	}
}

// DatabasePort returns the port the database listens on, or "" for sqlite,
// which is file based and publishes nothing.
func DatabasePort(db environment.Database) string {
	switch db {
	case environment.DatabasePgSQL:
		return "5432"
	case environment.DatabaseSQLite:
		return ""
	default:
		return "3306"
	}
}

// DatabaseDataPath returns where the database keeps its files inside the container.
func DatabaseDataPath(db environment.Database) string {
	switch db {
	case environment.DatabasePgSQL:
		return "/var/lib/postgresql/data"
	case environment.DatabaseSQLite:
		return "/data"
	default:
		return "/var/lib/mysql"
	}
}

// =============================================================================
// Auxiliary Services
// =============================================================================

// BaseVolume is the named volume backing the database service.
const BaseVolume = "dbdata"

// serviceBlock ties an auxiliary service to the condition that enables it
// and the named volume it mounts, so services and volumes cannot disagree.
type serviceBlock struct {
	Name    string
	Volume  string // empty when the service keeps no data
	Enabled func(environment.Environment) bool
}

// serviceBlocks lists the auxiliary services in output order.
var serviceBlocks = []serviceBlock{
	{Name: templates.ServiceRedis, Volume: "redis_data", Enabled: environment.Environment.NeedsRedis},
	{Name: templates.ServiceMailhog, Enabled: func(e environment.Environment) bool { return e.MailCapture }},
	{Name: templates.ServiceMeilisearch, Volume: "meilisearch_data", Enabled: environment.Environment.NeedsMeilisearch},
	{Name: templates.ServiceElasticsearch, Volume: "elasticsearch_data", Enabled: environment.Environment.NeedsElasticsearch},
}

// AuxiliaryServices returns the names of the enabled auxiliary services in order.
func AuxiliaryServices(env environment.Environment) []string {
	names := []string{}
	for _, b := range serviceBlocks {
		if b.Enabled(env) {
			names = append(names, b.Name)
		}
	}
	return names
}

// AdditionalServices returns the compose fragments of the enabled auxiliary services.
func AdditionalServices(env environment.Environment) []string {
	blocks := []string{}
	for _, b := range serviceBlocks {
		if b.Enabled(env) {
			blocks = append(blocks, templates.Service(b.Name))
		}
	}
	return blocks
}

// Volumes returns the top-level named volumes: the database volume, then one
// per enabled auxiliary service that keeps data.
func Volumes(env environment.Environment) []string {
	volumes := []string{BaseVolume}
	for _, b := range serviceBlocks {
		if b.Volume != "" && b.Enabled(env) {
			volumes = append(volumes, b.Volume)
		}
	}
	return volumes
}

// =============================================================================
// Template Data
// =============================================================================

// Data is the value the compose template is executed with.
type Data struct {
	PHPVersion         string
	NodeVersion        string
	Database           string
	CacheDriver        string
	QueueDriver        string
	Dependencies       []string
	DatabaseImage      string
	DatabaseService    string
	DatabasePort       string
	DatabaseDataPath   string
	AdditionalServices []string
	Volumes            []string
}

// NewData derives the template data from env.
func NewData(env environment.Environment) Data {
	return Data{
		PHPVersion:         env.PHPVersion,
		NodeVersion:        env.NodeVersion,
		Database:           string(env.Database),
		CacheDriver:        string(env.CacheDriver),
		QueueDriver:        string(env.QueueDriver),
		Dependencies:       env.Dependencies.Strings(),
		DatabaseImage:      DatabaseImage(env.Database),
		DatabaseService:    DatabaseService(env.Database),
		DatabasePort:       DatabasePort(env.Database),
		DatabaseDataPath:   DatabaseDataPath(env.Database),
		AdditionalServices: AdditionalServices(env),
		Volumes:            Volumes(env),
	}
}

// =============================================================================
// Generator
// =============================================================================

// Generator renders docker-compose documents from a template.
type Generator struct {
	name     string
	template string
}

// New creates a Generator. An empty tmpl selects the built-in default.
func New(tmpl string) *Generator {
	if tmpl == "" {
		tmpl = DefaultTemplate()
	}
	return &Generator{name: templates.ComposeName, template: tmpl}
}

// DefaultTemplate returns the built-in compose template.
func DefaultTemplate() string {
	return templates.Default(templates.ComposeName)
}

// Render expands the template for env.
func (g *Generator) Render(env environment.Environment) (string, error) {
	return render.Render(g.name, g.template, NewData(env))
}
