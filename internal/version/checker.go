package version

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
)

const (
	releasesURL  = "https://api.github.com/repos/studiowebux/orgsocial/releases/latest"
	checkTimeout = 5 * time.Second
)

type release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// Update describes the latest published release
type Update struct {
	Available bool
	Latest    string
	URL       string
}

// Checker looks up the latest release
type Checker struct {
	client *http.Client
	url    string
}

// NewChecker returns a checker against the project releases. An empty url
// uses the default releases endpoint.
func NewChecker(url string) *Checker {
	if url == "" {
		url = releasesURL
	}
	client := cleanhttp.DefaultClient()
	client.Timeout = checkTimeout
	return &Checker{client: client, url: url}
}

// Check reports whether a release newer than current exists
func (c *Checker) Check(ctx context.Context, current string) (Update, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return Update{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "orgsocial/"+current)

	resp, err := c.client.Do(req)
	if err != nil {
		return Update{}, fmt.Errorf("failed to fetch latest release: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Update{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var rel release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return Update{}, fmt.Errorf("failed to decode response: %w", err)
	}

	latest := strings.TrimPrefix(rel.TagName, "v")
	return Update{
		Available: latest != "" && isNewerVersion(latest, strings.TrimPrefix(current, "v")),
		Latest:    latest,
		URL:       rel.HTMLURL,
	}, nil
}

// isNewerVersion compares dotted versions, ignoring pre-release and build
// suffixes
func isNewerVersion(latest, current string) bool {
	a, b := parseVersion(latest), parseVersion(current)
	for len(a) < len(b) {
		a = append(a, 0)
	}
	for len(b) < len(a) {
		b = append(b, 0)
	}

	for i := range a {
		if a[i] != b[i] {
			return a[i] > b[i]
		}
	}
	return false
}

func parseVersion(version string) []int {
	if idx := strings.IndexAny(version, "-+"); idx != -1 {
		version = version[:idx]
	}

	var out []int
	for _, part := range strings.Split(version, ".") {
		if n, err := strconv.Atoi(part); err == nil {
			out = append(out, n)
		}
	}
	return out
}
