package compose

import (
	"context"
	"sort"
	"strings"

	"github.com/compose-spec/compose-go/v2/loader"
	"github.com/compose-spec/compose-go/v2/types"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// Inspect
// =============================================================================

// Inspect loads a rendered compose document and summarizes its services,
// volumes and networks.
// This is a pure function - no I/O, no side effects.
func Inspect(yamlContent string) (*Summary, error) {
	if strings.TrimSpace(yamlContent) == "" {
		return nil, ErrEmptyInput
	}

	project, err := loadCompose(yamlContent)
	if err != nil {
		return nil, err
	}

	if len(project.Services) == 0 {
		return nil, ErrNoServices
	}

	summary := &Summary{
		Services: make([]Service, 0, len(project.Services)),
		Volumes:  make([]string, 0, len(project.Volumes)),
		Networks: make([]string, 0, len(project.Networks)),
	}

	for _, svc := range project.Services {
		summary.Services = append(summary.Services, convertService(svc))
	}
	sort.Slice(summary.Services, func(i, j int) bool {
		return summary.Services[i].Name < summary.Services[j].Name
	})

	for name := range project.Volumes {
		summary.Volumes = append(summary.Volumes, name)
	}
	sort.Strings(summary.Volumes)

	for name := range project.Networks {
		summary.Networks = append(summary.Networks, name)
	}
	sort.Strings(summary.Networks)

	return summary, nil
}

// loadCompose loads a compose document using compose-go
func loadCompose(yamlContent string) (*types.Project, error) {
	// Parse YAML into a map first
	var dict map[string]interface{}
	if err := yaml.Unmarshal([]byte(yamlContent), &dict); err != nil {
		return nil, NewParseError("", "invalid YAML syntax", ErrInvalidYAML)
	}

	// Check if it's a valid object
	if dict == nil {
		return nil, NewParseError("", "invalid YAML syntax", ErrInvalidYAML)
	}

	project, err := loader.LoadWithContext(context.Background(), types.ConfigDetails{
		ConfigFiles: []types.ConfigFile{
			{
				Filename: "docker-compose.yml",
				Content:  []byte(yamlContent),
				Config:   dict,
			},
		},
	}, func(opts *loader.Options) {
		opts.SetProjectName("dockerize", false)
		opts.SkipValidation = false
		opts.SkipInterpolation = false // ${DB_PASSWORD:-secret} style defaults must resolve
		// Don't resolve paths since we're in-memory
		opts.SkipNormalization = true
		opts.SkipExtends = true
	})
	if err != nil {
		if strings.Contains(err.Error(), "empty compose file") {
			return nil, NewParseError("services", "no services defined", ErrNoServices)
		}
		return nil, NewParseError("", err.Error(), ErrInvalidYAML)
	}

	return project, nil
}

// convertService converts a compose-go service to our Service type
func convertService(svc types.ServiceConfig) Service {
	service := Service{
		Name:      svc.Name,
		Image:     svc.Image,
		HasBuild:  svc.Build != nil,
		Restart:   svc.Restart,
		Networks:  make([]string, 0, len(svc.Networks)),
		DependsOn: make([]string, 0, len(svc.DependsOn)),
	}

	for _, p := range svc.Ports {
		service.Ports = append(service.Ports, Port{
			Target:    p.Target,
			Published: p.Published,
		})
	}

	for _, v := range svc.Volumes {
		mount := VolumeMount{
			Type:   v.Type,
			Source: v.Source,
			Target: v.Target,
		}
		if mount.Type == "" {
			// Infer type from source
			if strings.HasPrefix(v.Source, "./") || strings.HasPrefix(v.Source, "/") || strings.HasPrefix(v.Source, "~") {
				mount.Type = "bind"
			} else {
				mount.Type = "volume"
			}
		}
		service.Volumes = append(service.Volumes, mount)
	}

	for net := range svc.Networks {
		service.Networks = append(service.Networks, net)
	}
	sort.Strings(service.Networks)

	for dep := range svc.DependsOn {
		service.DependsOn = append(service.DependsOn, dep)
	}
	sort.Strings(service.DependsOn)

	return service
}
