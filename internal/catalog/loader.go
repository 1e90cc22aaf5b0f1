package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/wavtouch/internal/log"
)

// DefaultTimeout bounds loading a single source.
const DefaultTimeout = 10 * time.Second

// DefaultMaxAssetBytes caps one fetched index or asset.
const DefaultMaxAssetBytes = 64 << 20

var tracer = otel.Tracer("github.com/zjrosen/wavtouch/internal/catalog")

// Config configures a Loader.
type Config struct {
	Sources    []string      // base locations in priority order; empty uses DefaultSources
	Timeout    time.Duration // per-source bound; zero uses DefaultTimeout
	Client     *http.Client  // nil uses a client without its own timeout
	Discoverer *Discoverer   // nil disables the "//" shorthand
	MaxBytes   int64         // per response body; zero uses DefaultMaxAssetBytes
}

// Loader loads catalogs from an ordered list of base locations.
type Loader struct {
	sources    []string
	timeout    time.Duration
	client     *http.Client
	discoverer *Discoverer
	maxBytes   int64
}

// NewLoader creates a Loader from cfg.
func NewLoader(cfg Config) *Loader {
	sources := cfg.Sources
	if len(sources) == 0 {
		sources = DefaultSources
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{}
	}
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxAssetBytes
	}
	return &Loader{
		sources:    append([]string(nil), sources...),
		timeout:    timeout,
		client:     client,
		discoverer: cfg.Discoverer,
		maxBytes:   maxBytes,
	}
}

// Sources returns the configured base locations.
func (l *Loader) Sources() []string {
	return append([]string(nil), l.sources...)
}

// Locations resolves the configured sources, skipping any that cannot be
// resolved right now.
func (l *Loader) Locations() []Location {
	var out []Location
	for _, raw := range l.sources {
		if loc, ok := resolve(raw, l.discoverer); ok {
			out = append(out, loc)
		}
	}
	return out
}

// Load tries each source in order and returns the first non-empty
// catalog. Failures are logged and never returned: when every source
// fails the result is an empty catalog.
func (l *Loader) Load(ctx context.Context) *Catalog {
	ctx, span := tracer.Start(ctx, "catalog.Load")
	defer span.End()

	log.Info(log.CatCatalog, "Loading catalog", "sources", len(l.sources))

	for _, raw := range l.sources {
		loc, ok := resolve(raw, l.discoverer)
		if !ok {
			log.Debug(log.CatCatalog, "Skipping unresolved source", "source", raw)
			continue
		}

		entries, err := l.loadLocation(ctx, loc)
		if err != nil {
			log.Warn(log.CatCatalog, "Source failed", "source", loc.Base, "error", err)
			span.AddEvent("source failed", trace.WithAttributes(
				attribute.String("source.base", loc.Base),
				attribute.String("error", err.Error()),
			))
			continue
		}
		if len(entries) == 0 {
			log.Info(log.CatCatalog, "Source has no entries", "source", loc.Base)
			continue
		}

		span.SetAttributes(
			attribute.String("catalog.source", loc.Base),
			attribute.Int("catalog.entries", len(entries)),
		)
		log.Info(log.CatCatalog, "Catalog loaded", "source", loc.Base, "entries", len(entries))
		return &Catalog{Source: loc.Base, Entries: entries}
	}

	span.SetStatus(codes.Error, "no source yielded entries")
	log.Warn(log.CatCatalog, "No source yielded entries")
	return &Catalog{}
}

func (l *Loader) loadLocation(ctx context.Context, loc Location) ([]Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	ctx, span := tracer.Start(ctx, "catalog.loadSource")
	defer span.End()
	span.SetAttributes(attribute.String("source.base", loc.Base), attribute.String("source.kind", loc.Kind.String()))

	var (
		entries []Entry
		err     error
	)
	if loc.Kind == KindRemote {
		entries, err = l.loadRemote(ctx, loc.Base)
	} else {
		entries, err = loadLocal(ctx, loc.Base)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("source.entries", len(entries)))
	return entries, nil
}

func (l *Loader) loadRemote(ctx context.Context, base string) ([]Entry, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, &SourceUnavailableError{Location: base, Err: err}
	}

	indexURL := baseURL.ResolveReference(&url.URL{Path: IndexName}).String()
	log.Debug(log.CatCatalog, "Opening index", "url", indexURL)
	body, err := l.get(ctx, indexURL)
	if err != nil {
		return nil, err
	}
	names, err := ParseIndex(bytes.NewReader(body))
	if err != nil {
		return nil, &SourceUnavailableError{Location: indexURL, Err: err}
	}

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		ref, err := url.Parse(name)
		if err != nil {
			log.Warn(log.CatCatalog, "Skipping unparseable entry name", "name", name, "error", err)
			continue
		}
		assetURL := baseURL.ResolveReference(ref).String()
		log.Debug(log.CatCatalog, "Loading entry", "url", assetURL)

		data, err := l.get(ctx, assetURL)
		var unavailable *SourceUnavailableError
		if errors.As(err, &unavailable) && unavailable.Status != 0 {
			// The server answered but not with the asset; skip just this entry.
			log.Warn(log.CatCatalog, "Skipping entry", "url", assetURL, "status", unavailable.Status)
			continue
		}
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Name: name, Data: data})
	}
	return entries, nil
}

// get fetches url and requires a 200 response with a body of at most
// maxBytes.
func (l *Loader) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &SourceUnavailableError{Location: rawURL, Err: err}
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, &SourceUnavailableError{Location: rawURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &SourceUnavailableError{Location: rawURL, Status: resp.StatusCode}
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBytes+1))
	if err != nil {
		return nil, &SourceUnavailableError{Location: rawURL, Err: fmt.Errorf("reading body: %w", err)}
	}
	if int64(len(data)) > l.maxBytes {
		return nil, &SourceUnavailableError{Location: rawURL, Err: fmt.Errorf("body exceeds %d bytes", l.maxBytes)}
	}
	return data, nil
}

func loadLocal(ctx context.Context, dir string) ([]Entry, error) {
	indexPath := filepath.Join(dir, IndexName)
	log.Debug(log.CatCatalog, "Opening index", "path", indexPath)

	f, err := os.Open(indexPath) //nolint:gosec // catalog directory is user-supplied
	if err != nil {
		return nil, &SourceUnavailableError{Location: indexPath, Err: err}
	}
	names, err := ParseIndex(f)
	_ = f.Close()
	if err != nil {
		return nil, &SourceUnavailableError{Location: indexPath, Err: err}
	}

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, &SourceUnavailableError{Location: dir, Err: err}
		}
		path := filepath.Join(dir, filepath.FromSlash(name))
		log.Debug(log.CatCatalog, "Loading entry", "path", path)
		data, err := os.ReadFile(path) //nolint:gosec // names come from the catalog index
		if err != nil {
			return nil, &SourceUnavailableError{Location: path, Err: err}
		}
		entries = append(entries, Entry{Name: name, Data: data})
	}
	return entries, nil
}
