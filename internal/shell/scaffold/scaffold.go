// Package scaffold runs the dockerize pipeline against a project workspace:
// detect the environment, apply overrides, render the artifacts and write them.
//
// This is part of the Imperative Shell. All decisions are delegated to the
// pure packages under internal/core; this package only sequences them and
// performs the reads and writes.
package scaffold

import (
	"errors"
	"log/slog"
	"path/filepath"

	"github.com/artpar/dockerize/internal/core/compose"
	"github.com/artpar/dockerize/internal/core/detect"
	"github.com/artpar/dockerize/internal/core/dockerfile"
	"github.com/artpar/dockerize/internal/core/environment"
	"github.com/artpar/dockerize/internal/core/render"
	"github.com/artpar/dockerize/internal/core/templates"
	"github.com/artpar/dockerize/internal/shell/workspace"
)

// =============================================================================
// Options
// =============================================================================

// Paths locates every artifact and the template directory, relative to the
// project root.
type Paths struct {
	Dockerfile string
	Compose    string
	Nginx      string
	PHPIni     string
	Supervisor string
	Templates  string
}

// DefaultPaths returns the conventional Laravel layout.
func DefaultPaths() Paths {
	return Paths{
		Dockerfile: "Dockerfile",
		Compose:    "docker-compose.yml",
		Nginx:      "docker/nginx/nginx.conf",
		PHPIni:     "docker/php/php.ini",
		Supervisor: "docker/supervisor/supervisord.conf",
		Templates:  "docker/stubs",
	}
}

// Options configures a single run.
type Options struct {
	Overrides environment.Overrides
	// Force suppresses the warning logged when an existing artifact is replaced.
	// Artifacts are overwritten either way.
	Force bool
	Paths Paths
}

// =============================================================================
// Result
// =============================================================================

// Artifact is one file written by a run.
type Artifact struct {
	Path        string
	Overwritten bool
}

// Result describes a completed run.
type Result struct {
	Environment     environment.Environment
	Artifacts       []Artifact
	ComposeServices []string
	ComposeVolumes  []string
	BaseImage       string
}

// Paths returns the written paths in write order.
func (r *Result) Paths() []string {
	out := make([]string, 0, len(r.Artifacts))
	for _, a := range r.Artifacts {
		out = append(out, a.Path)
	}
	return out
}

// =============================================================================
// Scaffolder
// =============================================================================

// Scaffolder runs the pipeline for one workspace.
type Scaffolder struct {
	ws     *workspace.Workspace
	logger *slog.Logger
}

// New creates a Scaffolder.
func New(ws *workspace.Workspace, logger *slog.Logger) *Scaffolder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scaffolder{ws: ws, logger: logger}
}

// Detect returns the detected environment without applying overrides.
func (s *Scaffolder) Detect() environment.Environment {
	return detect.New(s.ws.FS(), s.ws.Root(), s.logger).Detect()
}

// Run executes the full pipeline. The only errors are invalid overrides,
// returned before anything is written, and write failures, which stop the
// run and leave earlier artifacts in place.
func (s *Scaffolder) Run(opts Options) (*Result, error) {
	if opts.Paths == (Paths{}) {
		opts.Paths = DefaultPaths()
	}

	env, err := opts.Overrides.Apply(s.Detect())
	if err != nil {
		return nil, err
	}

	result := &Result{Environment: env}

	if err := s.writeDockerfile(opts, env, result); err != nil {
		return result, err
	}
	if err := s.writeCompose(opts, env, result); err != nil {
		return result, err
	}
	if err := s.writeStatic(opts, templates.NginxName, opts.Paths.Nginx, result); err != nil {
		return result, err
	}
	if err := s.writeStatic(opts, templates.PHPIniName, opts.Paths.PHPIni, result); err != nil {
		return result, err
	}
	if env.NeedsQueueWorker() {
		if err := s.writeStatic(opts, templates.SupervisorName, opts.Paths.Supervisor, result); err != nil {
			return result, err
		}
	}

	s.logger.Info("dockerize complete", "artifacts", result.Paths())
	return result, nil
}

// =============================================================================
// Pipeline Steps
// =============================================================================

func (s *Scaffolder) writeDockerfile(opts Options, env environment.Environment, result *Result) error {
	tmpl, _, _ := s.loadTemplate(opts.Paths.Templates, templates.DockerfileName)

	content, err := dockerfile.New(tmpl).Render(env)
	if err != nil {
		s.warnTemplateFallback(err)
		content, err = dockerfile.New("").Render(env)
		if err != nil {
			return err
		}
	}

	if summary, err := dockerfile.Inspect(content); err != nil {
		s.logger.Warn("rendered Dockerfile does not parse", "error", err)
	} else {
		result.BaseImage = summary.BaseImage
		s.logger.Debug("Dockerfile rendered",
			"base_image", summary.BaseImage,
			"instructions", len(summary.Instructions),
		)
	}

	return s.write(opts, opts.Paths.Dockerfile, content, result)
}

func (s *Scaffolder) writeCompose(opts Options, env environment.Environment, result *Result) error {
	tmpl, _, exists := s.loadTemplate(opts.Paths.Templates, templates.ComposeName)
	if !exists {
		// Persist the built-in template so later runs can be customized from it.
		tmpl = compose.DefaultTemplate()
		path := filepath.Join(opts.Paths.Templates, templates.ComposeName)
		if err := s.write(opts, path, tmpl, result); err != nil {
			return err
		}
	}

	content, err := compose.New(tmpl).Render(env)
	if err != nil {
		s.warnTemplateFallback(err)
		content, err = compose.New("").Render(env)
		if err != nil {
			return err
		}
	}

	if summary, err := compose.Inspect(content); err != nil {
		s.logger.Warn("rendered compose file does not load", "error", err)
	} else {
		result.ComposeServices = summary.ServiceNames()
		result.ComposeVolumes = summary.Volumes
		s.logger.Debug("compose file rendered",
			"services", result.ComposeServices,
			"volumes", result.ComposeVolumes,
		)
	}

	return s.write(opts, opts.Paths.Compose, content, result)
}

// writeStatic copies a config file verbatim, preferring a user-supplied
// version from the template directory.
func (s *Scaffolder) writeStatic(opts Options, name, dest string, result *Result) error {
	content, ok, _ := s.loadTemplate(opts.Paths.Templates, name)
	if !ok {
		content = templates.Default(name)
	}
	return s.write(opts, dest, content, result)
}

// =============================================================================
// Helpers
// =============================================================================

// loadTemplate reads an optional template. ok reports usable content;
// exists reports whether a file is present at all. An unreadable file exists
// but is not ok, so callers fall back to the default without replacing it.
func (s *Scaffolder) loadTemplate(dir, name string) (content string, ok, exists bool) {
	path := filepath.Join(dir, name)
	content, ok, err := s.ws.ReadOptional(path)
	if err != nil {
		s.logger.Warn("template unreadable, using built-in default", "path", path, "error", err)
		return "", false, true
	}
	if ok {
		s.logger.Debug("using template", "path", path)
	}
	return content, ok, ok
}

func (s *Scaffolder) warnTemplateFallback(err error) {
	var tErr *render.TemplateError
	if errors.As(err, &tErr) {
		s.logger.Warn("template rejected, using built-in default",
			"template", tErr.Name,
			"stage", tErr.Stage,
			"error", tErr.Err,
		)
		return
	}
	s.logger.Warn("template rejected, using built-in default", "error", err)
}

func (s *Scaffolder) write(opts Options, rel, content string, result *Result) error {
	existed := s.ws.Exists(rel)
	if existed && !opts.Force {
		s.logger.Warn("overwriting existing file", "path", rel)
	}
	if err := s.ws.WriteFile(rel, content); err != nil {
		s.logger.Error("write failed", "path", rel, "error", err)
		return err
	}
	result.Artifacts = append(result.Artifacts, Artifact{Path: rel, Overwritten: existed})
	s.logger.Info("wrote artifact", "path", rel)
	return nil
}
