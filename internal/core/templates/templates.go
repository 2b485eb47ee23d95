// Package templates holds the built-in default templates and the fixed
// service fragments used by the generators.
package templates

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed defaults
var defaults embed.FS

// Template and config file names. The same names are used when looking for
// user-supplied overrides in the templates directory.
const (
	DockerfileName = "Dockerfile.tmpl"
	ComposeName    = "docker-compose.yml.tmpl"
	NginxName      = "nginx.conf"
	PHPIniName     = "php.ini"
	SupervisorName = "supervisord.conf"
)

// Service fragment names.
const (
	ServiceRedis         = "redis"
	ServiceMailhog       = "mailhog"
	ServiceMeilisearch   = "meilisearch"
	ServiceElasticsearch = "elasticsearch"
)

// Default returns the built-in content for name. It panics for unknown
// names since the set is fixed at compile time.
func Default(name string) string {
	data, err := defaults.ReadFile("defaults/" + name)
	if err != nil {
		panic(fmt.Sprintf("templates: no built-in default %q", name))
	}
	return string(data)
}

// Service returns the compose fragment for a named auxiliary service,
// indented for the services map and without a trailing newline.
func Service(name string) string {
	return strings.TrimRight(Default("services/"+name+".yml"), "\n")
}
