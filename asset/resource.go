package asset

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// Timeout for fetching remote resources.
var FetchTimeout = 30 * time.Second

var httpClient = &http.Client{}

// A Resource wraps a readable local file or http/https stream together with
// the location it was loaded from, so that files it references (meshes
// included by a scene description) can be resolved relative to it.
type Resource struct {
	io.ReadCloser
	url *url.URL
}

// Returns the location of this resource.
func (r *Resource) Path() string {
	return r.url.String()
}

// Returns the last element of the resource location.
func (r *Resource) Name() string {
	if r.IsRemote() {
		return path.Base(r.url.Path)
	}
	return filepath.Base(r.url.Path)
}

// Returns true if the resource is streamed over http/https.
func (r *Resource) IsRemote() bool {
	return r.url.Scheme != ""
}

// Open a local file or an http/https URL. If relTo is not nil and location is
// a relative path, it is resolved against the directory of relTo.
//
// The caller must close the returned resource.
func NewResource(location string, relTo *Resource) (*Resource, error) {
	target, err := resolve(location, relTo)
	if err != nil {
		return nil, err
	}

	var reader io.ReadCloser
	switch target.Scheme {
	case "":
		reader, err = os.Open(filepath.Clean(target.Path))
		if err != nil {
			return nil, fmt.Errorf("resource: could not open '%s': %w", target.Path, err)
		}
	case "http", "https":
		reader, err = fetch(target.String())
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("resource: unsupported scheme '%s'", target.Scheme)
	}

	return &Resource{
		ReadCloser: reader,
		url:        target,
	}, nil
}

// Create a resource from a reader. The name is used for resolving relative
// references and for error messages.
func NewResourceFromStream(name string, source io.Reader) *Resource {
	target, err := url.Parse(filepath.ToSlash(name))
	if err != nil {
		target = &url.URL{Path: name}
	}

	rc, ok := source.(io.ReadCloser)
	if !ok {
		rc = io.NopCloser(source)
	}
	return &Resource{
		ReadCloser: rc,
		url:        target,
	}
}

// Read the remaining resource contents and close it.
func ReadAll(res *Resource) ([]byte, error) {
	defer res.Close()

	data, err := io.ReadAll(res)
	if err != nil {
		return nil, fmt.Errorf("resource: could not read '%s': %w", res.Path(), err)
	}
	return data, nil
}

func resolve(location string, relTo *Resource) (*url.URL, error) {
	// Windows-style separators are accepted in scene files
	target, err := url.Parse(strings.Replace(location, `\`, `/`, -1))
	if err != nil {
		return nil, fmt.Errorf("resource: invalid location '%s': %w", location, err)
	}

	if target.Scheme != "" || relTo == nil || filepath.IsAbs(target.Path) {
		return target, nil
	}

	// Relative to a remote resource
	if relTo.IsRemote() {
		return relTo.url.ResolveReference(target), nil
	}

	base, err := filepath.Abs(relTo.url.Path)
	if err != nil {
		return nil, fmt.Errorf("resource: could not detect abs path for %s: %w", relTo.url.Path, err)
	}
	return &url.URL{Path: filepath.Join(filepath.Dir(base), filepath.FromSlash(target.Path))}, nil
}

func fetch(location string) (io.ReadCloser, error) {
	client := *httpClient
	client.Timeout = FetchTimeout

	resp, err := client.Get(location)
	if err != nil {
		return nil, fmt.Errorf("resource: could not fetch '%s': %w", location, err)
	}
	if resp.StatusCode >= 400 {
		resp.Body.Close()
		return nil, fmt.Errorf("resource: could not fetch '%s': status %d", location, resp.StatusCode)
	}
	return resp.Body, nil
}
