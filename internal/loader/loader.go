package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/i474232898/weather-map/internal/fetch"
	"github.com/i474232898/weather-map/internal/weather"
)

var validate = validator.New()

// Loader produces the dataset a dashboard session renders.
type Loader interface {
	Load(ctx context.Context) (*weather.Dataset, error)
}

// New returns an HTTPLoader for http(s) sources and a FileLoader otherwise.
func New(source string, client *http.Client) Loader {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return NewHTTPLoader(source, client)
	}
	return NewFileLoader(source)
}

// HTTPLoader fetches the dataset with a single request.
type HTTPLoader struct {
	url    string
	client *fetch.Client
}

// NewHTTPLoader creates an HTTPLoader. The request is attempted once.
func NewHTTPLoader(url string, client *http.Client) *HTTPLoader {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPLoader{
		url:    url,
		client: fetch.New("weather-data", fetch.Config{Client: client}),
	}
}

func (l *HTTPLoader) Load(ctx context.Context) (*weather.Dataset, error) {
	resp, err := l.client.Do(ctx, func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodGet, l.url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	})
	if err != nil {
		return nil, &weather.FetchError{URL: l.url, StatusCode: fetch.StatusCode(err), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &weather.FetchError{URL: l.url, Err: err}
	}
	return Decode(body)
}

// FileLoader reads the dataset from the local filesystem.
type FileLoader struct {
	path string
}

func NewFileLoader(path string) *FileLoader {
	return &FileLoader{path: path}
}

func (l *FileLoader) Load(ctx context.Context) (*weather.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, &weather.FetchError{URL: l.path, Err: err}
	}
	body, err := os.ReadFile(l.path)
	if err != nil {
		return nil, &weather.FetchError{URL: l.path, Err: err}
	}
	return Decode(body)
}

// Decode parses and validates a weather_data.json payload. Every failure is
// reported as a *weather.ParseError.
func Decode(body []byte) (*weather.Dataset, error) {
	dec := json.NewDecoder(bytes.NewReader(body))

	var ds weather.Dataset
	if err := dec.Decode(&ds); err != nil {
		return nil, &weather.ParseError{Err: err}
	}
	if dec.More() {
		return nil, &weather.ParseError{Err: fmt.Errorf("trailing data after document")}
	}
	if err := validate.Struct(&ds); err != nil {
		return nil, &weather.ParseError{Err: err}
	}
	if err := ds.Validate(); err != nil {
		return nil, &weather.ParseError{Err: err}
	}
	return &ds, nil
}
