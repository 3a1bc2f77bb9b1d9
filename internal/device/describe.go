package device

// Description is a snapshot of a device and what it holds.
type Description struct {
	Kind         string        `json:"kind"`
	Target       string        `json:"target"`
	DisplayName  string        `json:"display_name"`
	UUID         string        `json:"uuid"`
	Path         string        `json:"path"`
	Presentation string        `json:"presentation"`
	Services     []ServiceInfo `json:"services"`
	Devices      []Description `json:"devices,omitempty"`
}

// ServiceInfo describes one service.
type ServiceInfo struct {
	Kind        string `json:"kind"`
	Target      string `json:"target"`
	DisplayName string `json:"display_name"`
	Path        string `json:"path"`
	FormPath    string `json:"form_path,omitempty"`
}

// Describe returns a snapshot of the device and its services.
func (d *Device) Describe() Description {
	desc := Description{
		Kind:         d.kind.Name(),
		Target:       d.target,
		DisplayName:  d.displayName,
		UUID:         d.uuid,
		Path:         d.Path(),
		Presentation: d.self.Presentation().Mode.String(),
		Services:     make([]ServiceInfo, 0, len(d.services)),
	}
	for _, s := range d.services {
		base := s.BaseService()
		info := ServiceInfo{
			Kind:        s.Kind().Name(),
			Target:      base.target,
			DisplayName: base.displayName,
			Path:        base.Path(),
		}
		if base.HasForm() {
			info.FormPath = base.FormPath()
		}
		desc.Services = append(desc.Services, info)
	}
	return desc
}

// Describe returns a snapshot of the whole tree.
func (r *RootDevice) Describe() Description {
	desc := r.Device.Describe()
	desc.Devices = make([]Description, 0, len(r.devices))
	for _, d := range r.devices {
		desc.Devices = append(desc.Devices, d.BaseDevice().Describe())
	}
	return desc
}
