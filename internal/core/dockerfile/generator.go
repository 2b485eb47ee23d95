// Package dockerfile renders the application's container build recipe from an
// environment descriptor.
//
// This package is part of the Functional Core: Render is a pure function of
// the descriptor and the template. Writing the result is left to the caller.
package dockerfile

import (
	"github.com/artpar/dockerize/internal/core/environment"
	"github.com/artpar/dockerize/internal/core/render"
	"github.com/artpar/dockerize/internal/core/templates"
)

// =============================================================================
// Base Lists
// =============================================================================

// baseExtensions are always installed, in this order.
var baseExtensions = []string{"pdo_mysql", "mbstring", "exif", "pcntl", "bcmath", "gd"}

// baseSystemPackages are always installed, in this order.
var baseSystemPackages = []string{"git", "curl", "libpng-dev", "libonig-dev", "libxml2-dev", "zip", "unzip"}

// =============================================================================
// Template Data
// =============================================================================

// Data is the value the Dockerfile template is executed with.
type Data struct {
	PHPVersion         string
	Extensions         []string
	SystemPackages     []string
	AdditionalCommands []string
	QueueWorker        bool
}

// NewData derives the template data from env.
func NewData(env environment.Environment) Data {
	return Data{
		PHPVersion:         env.PHPVersion,
		Extensions:         Extensions(env),
		SystemPackages:     SystemPackages(env),
		AdditionalCommands: AdditionalCommands(env),
		QueueWorker:        env.NeedsQueueWorker(),
	}
}

// Extensions returns the PHP extensions to install: the base list followed
// by database and cache specific ones.
func Extensions(env environment.Environment) []string {
	exts := append([]string{}, baseExtensions...)

	switch env.Database {
	case environment.DatabasePgSQL:
		exts = append(exts, "pdo_pgsql")
	case environment.DatabaseSQLite:
		exts = append(exts, "pdo_sqlite")
	}

	if env.NeedsRedis() {
		exts = append(exts, "redis")
	}
	if env.NeedsMemcached() {
		exts = append(exts, "memcached")
	}
	return exts
}

// SystemPackages returns the apt packages to install.
func SystemPackages(env environment.Environment) []string {
	pkgs := append([]string{}, baseSystemPackages...)

	switch env.Database {
	case environment.DatabasePgSQL:
		pkgs = append(pkgs, "libpq-dev")
	case environment.DatabaseMySQL:
		pkgs = append(pkgs, "default-mysql-client")
	}

	if env.NeedsMongo() {
		pkgs = append(pkgs, "libssl-dev")
	}
	if env.NeedsImagick() {
		pkgs = append(pkgs, "libmagickwand-dev")
	}
	// Build headers for the memcached extension.
	if env.NeedsMemcached() {
		pkgs = append(pkgs, "libmemcached-dev", "zlib1g-dev")
	}
	return pkgs
}

// AdditionalCommands returns the gated instruction blocks in fixed order:
// mongodb, imagick, Node.js, supervisor. Each entry is one instruction line.
func AdditionalCommands(env environment.Environment) []string {
	cmds := []string{}

	if env.NeedsMongo() {
		cmds = append(cmds, "RUN pecl install mongodb && docker-php-ext-enable mongodb")
	}
	if env.NeedsImagick() {
		cmds = append(cmds, "RUN pecl install imagick && docker-php-ext-enable imagick")
	}
	if env.NeedsNode() {
		cmds = append(cmds,
			"RUN curl -fsSL https://deb.nodesource.com/setup_"+env.NodeMajor()+".x | bash -",
			"RUN apt-get install -y nodejs",
		)
	}
	if env.NeedsQueueWorker() {
		cmds = append(cmds,
			"RUN apt-get install -y supervisor",
			"COPY docker/supervisor/supervisord.conf /etc/supervisor/conf.d/supervisord.conf",
		)
	}
	return cmds
}

// =============================================================================
// Generator
// =============================================================================

// Generator renders Dockerfiles from a template.
type Generator struct {
	name     string
	template string
}

// New creates a Generator. An empty tmpl selects the built-in default.
func New(tmpl string) *Generator {
	if tmpl == "" {
		tmpl = templates.Default(templates.DockerfileName)
	}
	return &Generator{name: templates.DockerfileName, template: tmpl}
}

// Render expands the template for env.
func (g *Generator) Render(env environment.Environment) (string, error) {
	return render.Render(g.name, g.template, NewData(env))
}
