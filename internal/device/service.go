package device

import "github.com/nerrad567/webdevice-core/internal/web"

// FormHandler is the path suffix a service's form handler is served under.
const FormHandler = "configForm"

// ServiceNode is implemented by *Service and every type embedding it.
type ServiceNode interface {
	Object
	BaseService() *Service
	Setup(d Dispatcher)
}

// Service is a tree node bound to one request handler, with an optional
// second handler that presents a form.
type Service struct {
	Node
	handler     web.HandlerFunc
	formHandler web.HandlerFunc
}

// NewService returns a service with no handler.
func NewService(target, displayName string) *Service {
	s := &Service{}
	s.Init(s, KindService, target, displayName)
	return s
}

// Init prepares a Service embedded in self. Types embedding Service call it
// from their constructor with their own kind.
func (s *Service) Init(self ServiceNode, kind *Kind, target, displayName string) {
	s.Node.init(self, kind, target, displayName)
}

// BaseService returns s.
func (s *Service) BaseService() *Service { return s }

// SetHandler sets the handler run for requests to the service path.
func (s *Service) SetHandler(h web.HandlerFunc) { s.handler = h }

// SetFormHandler sets the handler served at FormPath. It must be set before
// the service is wired to a dispatcher.
func (s *Service) SetFormHandler(h web.HandlerFunc) { s.formHandler = h }

// HandleRequest runs the handler. Without one it does nothing.
func (s *Service) HandleRequest(c *web.Context) {
	if s.handler != nil {
		s.handler(c)
	}
}

// HandleForm runs the form handler. Without one it does nothing.
func (s *Service) HandleForm(c *web.Context) {
	if s.formHandler != nil {
		s.formHandler(c)
	}
}

// HasForm reports whether a form handler is set.
func (s *Service) HasForm() bool { return s.formHandler != nil }

// FormPath returns the URL of the form handler.
func (s *Service) FormPath() string { return s.HandlerPath(FormHandler) }

// Setup registers the service path, and the form path if there is a form
// handler. Calling it twice registers twice.
func (s *Service) Setup(d Dispatcher) {
	s.adopt(s, KindService)
	path := s.Path()
	d.On(path, s.HandleRequest)
	if s.formHandler != nil {
		d.On(s.FormPath(), s.HandleForm)
	}
	s.logger().Debug("service registered", "path", path, "kind", s.kind.Name())
}
