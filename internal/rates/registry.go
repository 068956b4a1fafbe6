package rates

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"
)

var log = logrus.WithField("module", "rates")

// ErrUnknownYear is returned when no table exists for the requested year.
var ErrUnknownYear = errors.New("unknown tax year")

const (
	defaultFetchTimeout = 2 * time.Second
	defaultRemoteWindow = 1
)

// Registry resolves rate tables by year. Tables come from the embedded set,
// an optional override file and an optional remote rate registry; remote
// failures fall back to whatever is already loaded.
type Registry struct {
	mu          sync.RWMutex
	tables      map[int]*Table
	revision    uint64
	defaultYear int

	remoteURL string
	client    *fasthttp.Client
	timeout   time.Duration
	window    int
	fetched   sync.Map // year -> struct{}
}

type Option func(*Registry)

// WithDefaultYear pins the year used when a caller asks for year 0.
func WithDefaultYear(year int) Option {
	return func(r *Registry) { r.defaultYear = year }
}

// WithRemote enables fetching tables from baseURL + "/rates/{year}".
// A nil client gets a pooled default.
func WithRemote(baseURL string, client *fasthttp.Client) Option {
	return func(r *Registry) {
		r.remoteURL = strings.TrimRight(baseURL, "/")
		r.client = client
	}
}

// WithRemoteWindow limits remote fetches to years at most n away from a
// loaded table.
func WithRemoteWindow(n int) Option {
	return func(r *Registry) { r.window = n }
}

func WithFetchTimeout(d time.Duration) Option {
	return func(r *Registry) { r.timeout = d }
}

// NewRegistry loads the embedded tables and applies opts.
func NewRegistry(opts ...Option) (*Registry, error) {
	embedded, err := Embedded()
	if err != nil {
		return nil, err
	}
	return NewRegistryFrom(embedded, opts...)
}

// NewRegistryFrom builds a registry over the given tables only.
func NewRegistryFrom(tables []*Table, opts ...Option) (*Registry, error) {
	if len(tables) == 0 {
		return nil, errNoTables
	}
	r := &Registry{
		tables:  make(map[int]*Table, len(tables)),
		timeout: defaultFetchTimeout,
		window:  defaultRemoteWindow,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.remoteURL != "" && r.client == nil {
		r.client = &fasthttp.Client{
			MaxConnsPerHost:     100,
			MaxIdleConnDuration: 90 * time.Second,
		}
	}

	r.Replace(tables...)

	if r.defaultYear == 0 {
		years := r.Years()
		r.defaultYear = years[len(years)-1]
	} else if _, ok := r.tables[r.defaultYear]; !ok {
		return nil, fmt.Errorf("default year %d: %w (have %s)", r.defaultYear, ErrUnknownYear, describe(r.Years()))
	}
	return r, nil
}

// Table returns the table for year; 0 selects the default year.
func (r *Registry) Table(year int) (*Table, error) {
	if year == 0 {
		year = r.DefaultYear()
	}

	if r.remoteURL != "" && r.inRemoteWindow(year) {
		if _, done := r.fetched.LoadOrStore(year, struct{}{}); !done {
			r.fetchRemote(year)
		}
	}

	r.mu.RLock()
	t, ok := r.tables[year]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownYear, year)
	}
	return t, nil
}

// inRemoteWindow bounds which years may trigger an outbound fetch.
func (r *Registry) inRemoteWindow(year int) bool {
	years := r.Years()
	return year >= years[0]-r.window && year <= years[len(years)-1]+r.window
}

func (r *Registry) DefaultYear() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaultYear
}

// Years lists loaded years, ascending.
func (r *Registry) Years() []int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tables := make([]*Table, 0, len(r.tables))
	for _, t := range r.tables {
		tables = append(tables, t)
	}
	return Years(tables)
}

// Replace publishes tables, overwriting any with the same year. Each published
// table is a copy stamped with a fresh revision.
func (r *Registry) Replace(tables ...*Table) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range tables {
		r.revision++
		cp := *t
		cp.Revision = r.revision
		r.tables[cp.Year] = &cp
	}
}

// ReloadFile replaces the table for the year found in path. The current table
// stays in place when the file is invalid.
func (r *Registry) ReloadFile(path string) error {
	t, err := LoadFile(path)
	if err != nil {
		return err
	}
	r.Replace(t)
	log.Infof("Loaded rate table %d from %s", t.Year, path)
	return nil
}

func (r *Registry) fetchRemote(year int) {
	t, err := r.fetch(year)
	if err != nil {
		log.Warnf("Remote rate table %d unavailable, using local tables: %v", year, err)
		return
	}
	r.Replace(t)
	log.Infof("Loaded rate table %d from %s", year, r.remoteURL)
}

func (r *Registry) fetch(year int) (*Table, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(r.remoteURL + "/rates/" + strconv.Itoa(year))
	req.Header.SetMethod(fasthttp.MethodGet)

	if err := r.client.DoTimeout(req, resp, r.timeout); err != nil {
		return nil, err
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode())
	}

	t, err := Parse(resp.Body())
	if err != nil {
		return nil, err
	}
	if t.Year != year {
		return nil, fmt.Errorf("asked for %d, got table for %d", year, t.Year)
	}
	return t, nil
}
