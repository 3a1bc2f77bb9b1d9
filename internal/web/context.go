package web

import (
	"io"
	"net/http"
	"net/url"
	"strings"
)

// maxFormBody bounds the urlencoded body read for POST arguments.
const maxFormBody = 64 << 10

// HandlerFunc handles one request for a registered tree path.
type HandlerFunc func(*Context)

type arg struct {
	name  string
	value string
}

// Context is the request and response of a single tree request.
//
// Arguments keep the order in which they were sent: query string first,
// then the urlencoded body of a POST.
type Context struct {
	w      http.ResponseWriter
	r      *http.Request
	args   []arg
	status int
}

// NewContext wraps a request for a tree handler.
func NewContext(w http.ResponseWriter, r *http.Request) *Context {
	c := &Context{w: w, r: r}
	c.args = parseArgs(r.URL.RawQuery, nil)
	if r.Method == http.MethodPost && r.Body != nil &&
		strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxFormBody))
		if err == nil {
			c.args = parseArgs(string(body), c.args)
		}
	}
	return c
}

func parseArgs(raw string, args []arg) []arg {
	for raw != "" {
		var pair string
		pair, raw, _ = strings.Cut(raw, "&")
		if pair == "" {
			continue
		}
		name, value, _ := strings.Cut(pair, "=")
		if n, err := url.QueryUnescape(name); err == nil {
			name = n
		}
		if v, err := url.QueryUnescape(value); err == nil {
			value = v
		}
		args = append(args, arg{name: name, value: value})
	}
	return args
}

// Request returns the underlying request.
func (c *Context) Request() *http.Request { return c.r }

// Host returns the host the client addressed, including any port.
func (c *Context) Host() string { return c.r.Host }

// ArgCount returns the number of request arguments.
func (c *Context) ArgCount() int { return len(c.args) }

// ArgName returns the name of argument i, or "" when i is out of range.
func (c *Context) ArgName(i int) string {
	if i < 0 || i >= len(c.args) {
		return ""
	}
	return c.args[i].name
}

// Arg returns the value of argument i, or "" when i is out of range.
func (c *Context) Arg(i int) string {
	if i < 0 || i >= len(c.args) {
		return ""
	}
	return c.args[i].value
}

// ArgValue returns the value of the first argument whose name matches name
// ignoring case.
func (c *Context) ArgValue(name string) (string, bool) {
	for _, a := range c.args {
		if strings.EqualFold(a.name, name) {
			return a.value, true
		}
	}
	return "", false
}

// Send writes a complete response. Only the first call has any effect.
func (c *Context) Send(status int, contentType string, body []byte) {
	if c.status != 0 {
		return
	}
	c.status = status
	c.w.Header().Set("Content-Type", contentType)
	c.w.WriteHeader(status)
	//nolint:errcheck // Best-effort write; client may have gone
	c.w.Write(body)
}

// SendString is Send for a string body.
func (c *Context) SendString(status int, contentType, body string) {
	c.Send(status, contentType, []byte(body))
}

// Sent reports whether a response has been written.
func (c *Context) Sent() bool { return c.status != 0 }

// Status returns the status sent, or 0 before Send.
func (c *Context) Status() int { return c.status }
