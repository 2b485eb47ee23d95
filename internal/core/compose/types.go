package compose

// =============================================================================
// Summary - Inspect Output Type
// =============================================================================

// Summary describes a loaded compose document, decoupled from compose-go types.
// Services and volumes are sorted by name.
type Summary struct {
	Services []Service `json:"services"`
	Volumes  []string  `json:"volumes,omitempty"`
	Networks []string  `json:"networks,omitempty"`
}

// ServiceNames returns the service names in order.
func (s *Summary) ServiceNames() []string {
	names := make([]string, 0, len(s.Services))
	for _, svc := range s.Services {
		names = append(names, svc.Name)
	}
	return names
}

// Service looks up a service by name.
func (s *Summary) Service(name string) (Service, bool) {
	for _, svc := range s.Services {
		if svc.Name == name {
			return svc, true
		}
	}
	return Service{}, false
}

// =============================================================================
// Service Types
// =============================================================================

// Service is the part of a service definition we report on.
type Service struct {
	Name      string        `json:"name"`
	Image     string        `json:"image,omitempty"`
	HasBuild  bool          `json:"has_build"`
	Ports     []Port        `json:"ports,omitempty"`
	Volumes   []VolumeMount `json:"volumes,omitempty"`
	Networks  []string      `json:"networks,omitempty"`
	DependsOn []string      `json:"depends_on,omitempty"`
	Restart   string        `json:"restart,omitempty"`
}

// Port represents a port mapping.
type Port struct {
	Target    uint32 `json:"target"`              // Container port
	Published string `json:"published,omitempty"` // Host port
}

// VolumeMount represents a volume mount in a service.
type VolumeMount struct {
	Type   string `json:"type"`   // bind, volume, tmpfs
	Source string `json:"source"` // Path or volume name
	Target string `json:"target"` // Container path
}

// NamedVolumes returns the sources of the service's named-volume mounts.
func (s Service) NamedVolumes() []string {
	var out []string
	for _, v := range s.Volumes {
		if v.Type == "volume" && v.Source != "" {
			out = append(out, v.Source)
		}
	}
	return out
}
