// Package extract turns site URLs into normalized media descriptions.
// Each site adapter is an Extractor; a Registry owns the mapping from
// URL patterns to adapters and follows redirects between them.
package extract

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"blinkx/internal/httputil"
	"blinkx/internal/media"
)

var (
	// ErrUnsupportedURL is returned when no extractor matches a URL.
	ErrUnsupportedURL = errors.New("unsupported URL")

	// ErrMalformedResponse is returned when an API response cannot be
	// parsed or lacks a required key.
	ErrMalformedResponse = errors.New("malformed API response")
)

// Extractor resolves a site URL into a media description.
type Extractor interface {
	// Name returns the extractor name used for redirects (e.g., "blinkx").
	Name() string

	// Pattern returns the regular expression of URLs the extractor handles.
	Pattern() *regexp.Regexp

	// Extract retrieves video information for a URL matching Pattern.
	Extract(ctx context.Context, url string) (*media.Result, error)
}

// IDExtractor is an Extractor that also resolves a bare video ID, as
// handed over by another extractor's redirect.
type IDExtractor interface {
	Extractor
	ExtractID(ctx context.Context, id string) (*media.Result, error)
}

// HandlerFunc extracts a single URL or, for redirect targets, a bare ID.
type HandlerFunc func(ctx context.Context, input string) (*media.Result, error)

// Entry binds a URL pattern to its handler. Delegate, when set, receives
// the bare IDs of redirects naming this entry.
type Entry struct {
	Name     string
	Pattern  *regexp.Regexp
	Handler  HandlerFunc
	Delegate HandlerFunc
}

// Registry is an ordered list of entries. The first matching entry wins.
type Registry struct {
	entries []Entry
	log     logrus.FieldLogger
}

// NewRegistry creates an empty registry.
func NewRegistry(log logrus.FieldLogger) *Registry {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Registry{log: log}
}

// Add appends an entry.
func (r *Registry) Add(e Entry) {
	r.entries = append(r.entries, e)
}

// Register appends an Extractor. IDExtractors also become redirect delegates.
func (r *Registry) Register(ext Extractor) {
	e := Entry{
		Name:    ext.Name(),
		Pattern: ext.Pattern(),
		Handler: ext.Extract,
	}
	if ide, ok := ext.(IDExtractor); ok {
		e.Delegate = ide.ExtractID
	}
	r.Add(e)
}

// Names lists registered entry names in order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.Name
	}
	return names
}

// Find returns the first entry whose pattern matches url.
func (r *Registry) Find(url string) (Entry, bool) {
	for _, e := range r.entries {
		if e.Pattern != nil && e.Pattern.MatchString(url) {
			return e, true
		}
	}
	return Entry{}, false
}

// lookup returns the entry with the given name, ignoring case.
func (r *Registry) lookup(name string) (Entry, bool) {
	for _, e := range r.entries {
		if strings.EqualFold(e.Name, name) {
			return e, true
		}
	}
	return Entry{}, false
}

// Extract runs the matching handler. A redirect to a registered delegate
// is followed once; any other redirect is returned as is.
func (r *Registry) Extract(ctx context.Context, url string) (*media.Result, error) {
	e, ok := r.Find(url)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedURL, url)
	}

	r.log.WithFields(logrus.Fields{"extractor": e.Name, "url": url}).Debug("dispatching")

	res, err := run(ctx, e.Name, e.Handler, url)
	if err != nil {
		return nil, err
	}

	if !res.IsRedirect() {
		return res, nil
	}

	delegate, ok := r.lookup(res.Redirect.Extractor)
	if !ok || delegate.Delegate == nil {
		r.log.WithField("extractor", res.Redirect.Extractor).Debug("no delegate registered, returning redirect")
		return res, nil
	}

	r.log.WithFields(logrus.Fields{"extractor": delegate.Name, "id": res.Redirect.TargetID}).Debug("following redirect")
	return run(ctx, delegate.Name, delegate.Delegate, res.Redirect.TargetID)
}

// run calls h and rejects an empty result.
func run(ctx context.Context, name string, h HandlerFunc, input string) (*media.Result, error) {
	if h == nil {
		return nil, fmt.Errorf("%s: no handler", name)
	}
	res, err := h(ctx, input)
	if err != nil {
		return nil, err
	}
	if res == nil || (res.Info == nil && res.Redirect == nil) {
		return nil, fmt.Errorf("%s returned no result for %s", name, input)
	}
	return res, nil
}

// DefaultRegistry returns a registry with every built-in extractor.
func DefaultRegistry(f httputil.Fetcher, opts BlinkxOptions) *Registry {
	r := NewRegistry(opts.Logger)
	r.Register(NewBlinkx(f, opts))
	return r
}
