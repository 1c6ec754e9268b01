package installer

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"

	"github.com/buildermethods/agentos/internal/config"
)

// checkTimeout caps a single release lookup. Update proceeds without the
// version info when the lookup is slow, so this stays short.
const checkTimeout = 10 * time.Second

// Checker queries the GitHub Releases API for the latest published AgentOS
// version. It performs exactly one request per call: no retries, no caching.
type Checker struct {
	owner  string
	repo   string
	client *github.Client
}

// NewChecker builds a release checker for the configured repository. When a
// token is configured the request is authenticated, which raises the API
// rate limit; anonymous access works fine for occasional checks.
func NewChecker(settings config.Settings) *Checker {
	httpClient := &http.Client{Timeout: checkTimeout}
	if settings.GitHubToken.IsSet() {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: settings.GitHubToken.Value()})
		httpClient = oauth2.NewClient(context.Background(), src)
		httpClient.Timeout = checkTimeout
	}

	return &Checker{
		owner:  settings.GitHubOwner,
		repo:   settings.GitHubRepo,
		client: github.NewClient(httpClient),
	}
}

// NewCheckerWithClient builds a checker around a preconfigured GitHub client.
func NewCheckerWithClient(owner, repo string, client *github.Client) *Checker {
	return &Checker{owner: owner, repo: repo, client: client}
}

// LatestVersion returns the latest release version with any leading "v"
// stripped from the tag name.
func (c *Checker) LatestVersion(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	release, _, err := c.client.Repositories.GetLatestRelease(ctx, c.owner, c.repo)
	if err != nil {
		return "", fmt.Errorf("failed to check latest version from GitHub: %w", err)
	}

	version := strings.TrimPrefix(release.GetTagName(), "v")
	if version == "" {
		return "", fmt.Errorf("release %s/%s has an empty tag name", c.owner, c.repo)
	}
	return version, nil
}
