package nicetable

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	fs "github.com/ungerik/go-fs"
)

// HTTPClient is used by Load for http and https locations.
var HTTPClient = http.DefaultClient

// Load reads the JSON table data from location
// and returns the constructed TableData.
//
// Locations starting with http:// or https:// are fetched
// with HTTPClient, everything else is read as file.
// Failures to retrieve the data are returned as *FetchError,
// invalid data as error wrapping ErrConstruction.
func Load(ctx context.Context, location string, opts ...Option) (*TableData, error) {
	payload, err := Fetch(ctx, location)
	if err != nil {
		return nil, err
	}
	return New(payload, opts...)
}

// Fetch returns the raw bytes from location like Load
// without constructing a TableData.
func Fetch(ctx context.Context, location string) ([]byte, error) {
	if isHTTPLocation(location) {
		payload, err := fetchHTTP(ctx, location)
		if err != nil {
			return nil, &FetchError{Location: location, Err: err}
		}
		return payload, nil
	}
	payload, err := fs.File(location).ReadAllContext(ctx)
	if err != nil {
		return nil, &FetchError{Location: location, Err: err}
	}
	return payload, nil
}

func isHTTPLocation(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func fetchHTTP(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	response, err := HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected HTTP status %s", response.Status)
	}
	return io.ReadAll(response.Body)
}
