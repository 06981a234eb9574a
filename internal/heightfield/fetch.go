package heightfield

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Fetcher opens the bytes behind a height-field location.
type Fetcher interface {
	Fetch(ctx context.Context, location string) (io.ReadCloser, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, location string) (io.ReadCloser, error)

func (fn FetcherFunc) Fetch(ctx context.Context, location string) (io.ReadCloser, error) {
	return fn(ctx, location)
}

// FileFetcher reads locations from disk. Absolute locations are resolved
// against Root, the way a web server serves "/h2.png" from its document
// root; an empty Root means the working directory.
type FileFetcher struct {
	Root string
}

func (ff FileFetcher) Fetch(ctx context.Context, location string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.FromSlash(location)
	if ff.Root != "" || filepath.IsAbs(path) {
		path = filepath.Join(ff.Root, strings.TrimPrefix(path, string(filepath.Separator)))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// HTTPFetcher downloads http and https locations.
type HTTPFetcher struct {
	Client *http.Client
}

func (hf HTTPFetcher) Fetch(ctx context.Context, location string) (io.ReadCloser, error) {
	client := hf.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: %s", location, resp.Status)
	}
	return resp.Body, nil
}

// IsURL reports whether location names an http or https resource.
func IsURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// DefaultFetcher routes URLs over HTTP and everything else to files under
// root.
func DefaultFetcher(root string) Fetcher {
	files := FileFetcher{Root: root}
	web := HTTPFetcher{}
	return FetcherFunc(func(ctx context.Context, location string) (io.ReadCloser, error) {
		if IsURL(location) {
			return web.Fetch(ctx, location)
		}
		return files.Fetch(ctx, location)
	})
}
