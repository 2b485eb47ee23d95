package dockerfile

import (
	"strings"
	"testing"

	"github.com/artpar/dockerize/internal/core/environment"
	"github.com/artpar/dockerize/internal/core/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Extension Tests
// =============================================================================

func TestExtensions_Base(t *testing.T) {
	env := environment.Default()
	assert.Equal(t, []string{"pdo_mysql", "mbstring", "exif", "pcntl", "bcmath", "gd"}, Extensions(env))
}

func TestExtensions_Conditional(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*environment.Environment)
		want   []string
	}{
		{"pgsql", func(e *environment.Environment) { e.Database = environment.DatabasePgSQL }, []string{"pdo_pgsql"}},
		{"sqlite", func(e *environment.Environment) { e.Database = environment.DatabaseSQLite }, []string{"pdo_sqlite"}},
		{"redis dependency", func(e *environment.Environment) {
			e.Dependencies = environment.Dependencies{environment.DependencyRedis}
		}, []string{"redis"}},
		{"redis queue", func(e *environment.Environment) { e.QueueDriver = environment.QueueRedis }, []string{"redis"}},
		{"memcached", func(e *environment.Environment) { e.CacheDriver = environment.CacheMemcached }, []string{"memcached"}},
		{"pgsql and redis everywhere", func(e *environment.Environment) {
			e.Database = environment.DatabasePgSQL
			e.CacheDriver = environment.CacheRedis
			e.QueueDriver = environment.QueueRedis
			e.Dependencies = environment.Dependencies{environment.DependencyRedis}
		}, []string{"pdo_pgsql", "redis"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := environment.Default()
			tt.mutate(&env)
			got := Extensions(env)
			assert.Equal(t, tt.want, got[len(baseExtensions):])
		})
	}
}

// =============================================================================
// System Package Tests
// =============================================================================

func TestSystemPackages(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*environment.Environment)
		want   []string
	}{
		{"mysql", func(e *environment.Environment) {}, []string{"default-mysql-client"}},
		{"pgsql", func(e *environment.Environment) { e.Database = environment.DatabasePgSQL }, []string{"libpq-dev"}},
		{"sqlite", func(e *environment.Environment) { e.Database = environment.DatabaseSQLite }, []string{}},
		{"mongo and imagick", func(e *environment.Environment) {
			e.Dependencies = environment.Dependencies{environment.DependencyImagick, environment.DependencyMongoDB}
		}, []string{"default-mysql-client", "libssl-dev", "libmagickwand-dev"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := environment.Default()
			tt.mutate(&env)
			got := SystemPackages(env)
			assert.Equal(t, baseSystemPackages, got[:len(baseSystemPackages)])
			assert.Equal(t, tt.want, got[len(baseSystemPackages):])
		})
	}
}

// =============================================================================
// Additional Command Tests
// =============================================================================

func TestAdditionalCommands_NoneByDefault(t *testing.T) {
	assert.Empty(t, AdditionalCommands(environment.Default()))
}

func TestAdditionalCommands_FixedOrder(t *testing.T) {
	env := environment.Default()
	env.Dependencies = environment.Dependencies{environment.DependencyImagick, environment.DependencyMongoDB}
	env.NodeVersion = "18.17.0"
	env.QueueDriver = environment.QueueDatabase

	assert.Equal(t, []string{
		"RUN pecl install mongodb && docker-php-ext-enable mongodb",
		"RUN pecl install imagick && docker-php-ext-enable imagick",
		"RUN curl -fsSL https://deb.nodesource.com/setup_18.x | bash -",
		"RUN apt-get install -y nodejs",
		"RUN apt-get install -y supervisor",
		"COPY docker/supervisor/supervisord.conf /etc/supervisor/conf.d/supervisord.conf",
	}, AdditionalCommands(env))
}

// =============================================================================
// Render Tests
// =============================================================================

func TestRender_Default(t *testing.T) {
	out, err := New("").Render(environment.Default())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "FROM php:8.2-fpm\n"))
	assert.Contains(t, out, "RUN install-php-extensions pdo_mysql mbstring exif pcntl bcmath gd\n")
	assert.Contains(t, out, "    git \\\n    curl \\\n")
	assert.Contains(t, out, "    unzip \\\n    default-mysql-client\n")
	assert.Contains(t, out, `CMD ["php-fpm"]`)
	assert.NotContains(t, out, "supervisor")
	assert.NotContains(t, out, "nodesource")
}

func TestRender_QueueWorkerUsesSupervisor(t *testing.T) {
	env := environment.Default()
	env.QueueDriver = environment.QueueRedis

	out, err := New("").Render(env)
	require.NoError(t, err)

	assert.Contains(t, out, "RUN apt-get install -y supervisor\n")
	assert.Contains(t, out, "supervisord.conf /etc/supervisor/conf.d/supervisord.conf\n")
	assert.Contains(t, out, `CMD ["/usr/bin/supervisord"`)
	assert.Contains(t, out, " redis\n")
}

func TestRender_Idempotent(t *testing.T) {
	env := environment.Default()
	env.Dependencies = environment.Dependencies{environment.DependencyMongoDB}
	env.NodeVersion = "20"
	g := New("")

	first, err := g.Render(env)
	require.NoError(t, err)
	second, err := g.Render(env)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRender_CustomTemplate(t *testing.T) {
	g := New(`FROM php:{{ .PHPVersion }}-cli
RUN docker-php-ext-install {{ join " " .Extensions }}
`)
	env := environment.Default()
	env.PHPVersion = "8.3"
	env.Database = environment.DatabaseSQLite

	out, err := g.Render(env)
	require.NoError(t, err)
	assert.Equal(t, "FROM php:8.3-cli\nRUN docker-php-ext-install pdo_mysql mbstring exif pcntl bcmath gd pdo_sqlite\n", out)
}

func TestRender_BrokenTemplate(t *testing.T) {
	_, err := New("FROM php:{{ .PHPVersion").Render(environment.Default())
	require.Error(t, err)
	assert.ErrorIs(t, err, render.ErrTemplate)
}

// =============================================================================
// Inspect Tests
// =============================================================================

func TestInspect_RenderedDefault(t *testing.T) {
	env := environment.Default()
	env.Database = environment.DatabasePgSQL
	env.NodeVersion = "18"
	env.QueueDriver = environment.QueueDatabase

	out, err := New("").Render(env)
	require.NoError(t, err)

	summary, err := Inspect(out)
	require.NoError(t, err)

	assert.Equal(t, "php:8.2-fpm", summary.BaseImage)
	commands := summary.Commands()
	assert.Equal(t, "FROM", commands[0])
	assert.Equal(t, "CMD", commands[len(commands)-1])
	assert.Contains(t, commands, "WORKDIR")

	var aptLine string
	for _, in := range summary.Instructions {
		if strings.Contains(in.Original, "apt-get update") {
			aptLine = in.Original
			break
		}
	}
	assert.Contains(t, aptLine, "libpq-dev")
}

func TestInspect_Empty(t *testing.T) {
	_, err := Inspect("  \n")
	assert.ErrorIs(t, err, ErrEmptyInput)
}
