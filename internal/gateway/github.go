// Package gateway provides a gateway to the GitHub search API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/naka-gawa/github-adoption/internal/domain"
)

const (
	// MaxPerPage is the largest page size the search API accepts.
	MaxPerPage = 100
	// DefaultMaxResults is the number of results the search API will ever return for one query.
	DefaultMaxResults = 1000
	// DefaultDelay is the pause between consecutive page requests.
	DefaultDelay = time.Second
)

// Backend selects which GitHub API the gateway searches through.
type Backend string

const (
	BackendREST    Backend = "rest"
	BackendGraphQL Backend = "graphql"
)

// ParseBackend validates a backend name.
func ParseBackend(s string) (Backend, error) {
	switch Backend(strings.ToLower(s)) {
	case BackendREST:
		return BackendREST, nil
	case BackendGraphQL:
		return BackendGraphQL, nil
	default:
		return "", fmt.Errorf("unknown backend %q: must be rest or graphql", s)
	}
}

// Options configures a GitHubGateway.
type Options struct {
	Token      string
	BaseURL    string
	Backend    Backend
	PerPage    int
	MaxResults int
	Delay      time.Duration
}

// Fetcher defines the behavior of a gateway for searching repositories on GitHub.
type Fetcher interface {
	// FetchRepositories pages through the search results for query.
	// A failed request is not an error: the repositories gathered so far are
	// returned with Truncated set. The error is reserved for cancellation.
	FetchRepositories(ctx context.Context, query string) (*domain.ResultSet, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	backend       Backend
	perPage       int
	maxResults    int
	pacer         *pacer
	logger        *slog.Logger
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(opts Options, logger *slog.Logger) (Fetcher, error) {
	// A zero sleep limit hands secondary rate limit responses back to the client
	// so the search loop stops on them instead of retrying the page.
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil,
		github_ratelimit.WithSingleSleepLimit(0, func(cbCtx *github_ratelimit.CallbackContext) {
			logger.Warn("secondary rate limit detected", "path", cbCtx.Request.URL.Path, "until", cbCtx.SleepUntil.Format(time.RFC3339))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	var transport http.RoundTripper = rateLimitWaiter
	if opts.Token != "" {
		transport = &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token}),
		}
	}
	httpClient := &http.Client{Transport: transport}

	restClient := github.NewClient(httpClient)
	graphqlClient := githubv4.NewClient(httpClient)
	if opts.BaseURL != "" {
		baseURL, err := url.Parse(strings.TrimSuffix(opts.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("failed to parse base url: %w", err)
		}
		restClient.BaseURL = baseURL
		graphqlClient = githubv4.NewEnterpriseClient(graphqlEndpoint(baseURL), httpClient)
	}

	backend := opts.Backend
	if backend == "" {
		backend = BackendREST
	}
	if _, err := ParseBackend(string(backend)); err != nil {
		return nil, err
	}

	return newGateway(restClient, graphqlClient, backend, opts, logger), nil
}

func newGateway(restClient *github.Client, graphqlClient *githubv4.Client, backend Backend, opts Options, logger *slog.Logger) *GitHubGateway {
	perPage := opts.PerPage
	switch {
	case perPage <= 0:
		perPage = MaxPerPage
	case perPage > MaxPerPage:
		logger.Warn("per_page exceeds the API ceiling, clamping", "per_page", perPage, "max", MaxPerPage)
		perPage = MaxPerPage
	}
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	return &GitHubGateway{
		restClient:    restClient,
		graphqlClient: graphqlClient,
		backend:       backend,
		perPage:       perPage,
		maxResults:    maxResults,
		pacer:         newPacer(opts.Delay),
		logger:        logger,
	}
}

// graphqlEndpoint derives the GraphQL URL from a REST base URL.
// GitHub Enterprise serves REST under /api/v3/ and GraphQL under /api/graphql.
func graphqlEndpoint(base *url.URL) string {
	u := *base
	if strings.HasSuffix(u.Path, "/api/v3/") {
		u.Path = strings.TrimSuffix(u.Path, "v3/") + "graphql"
	} else {
		u.Path += "graphql"
	}
	return u.String()
}

// FetchRepositories searches repositories using the configured backend.
func (g *GitHubGateway) FetchRepositories(ctx context.Context, query string) (*domain.ResultSet, error) {
	g.logger.Info("querying GitHub for repositories", "query", query, "backend", g.backend, "per_page", g.perPage)
	var (
		rs  *domain.ResultSet
		err error
	)
	if g.backend == BackendGraphQL {
		rs, err = g.searchGraphQL(ctx, query)
	} else {
		rs, err = g.searchREST(ctx, query)
	}
	if err != nil {
		return nil, err
	}
	g.logger.Info("search finished", "repositories", rs.Len(), "pages", rs.Pages, "reason", rs.StopReason)
	return rs, nil
}

func (g *GitHubGateway) searchREST(ctx context.Context, query string) (*domain.ResultSet, error) {
	rs := &domain.ResultSet{Query: query}
	opts := &github.SearchOptions{ListOptions: github.ListOptions{PerPage: g.perPage}}
	for page := 1; ; page++ {
		if err := g.pacer.Wait(ctx); err != nil {
			return nil, fmt.Errorf("failed to wait for next page: %w", err)
		}
		opts.Page = page
		result, resp, err := g.restClient.Search.Repositories(ctx, query, opts)
		g.pacer.Done()
		rs.Pages = page
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("failed to search repositories with REST API: %w", ctx.Err())
			}
			g.truncate(rs, page, restFailure(resp, err))
			return rs, nil
		}
		rs.TotalCount = result.GetTotal()
		if len(result.Repositories) == 0 {
			rs.StopReason = "empty page"
			return rs, nil
		}
		for _, item := range result.Repositories {
			rs.Repositories = append(rs.Repositories, domain.NewRepository(
				item.GetFullName(),
				item.GetCreatedAt().Time,
				item.GetLanguage(),
				item.GetHTMLURL(),
			))
		}
		g.logger.Info("fetched page", "page", page, "repos", len(result.Repositories))
		if g.isLastPage(page, rs.TotalCount) {
			rs.StopReason = "result limit reached"
			return rs, nil
		}
	}
}

// isLastPage reports whether page already covers everything the API will return.
func (g *GitHubGateway) isLastPage(page, totalCount int) bool {
	return page*g.perPage >= min(totalCount, g.maxResults)
}

func (g *GitHubGateway) truncate(rs *domain.ResultSet, page int, reason string) {
	g.logger.Error("search request failed, keeping partial results", "page", page, "error", reason, "repositories", rs.Len())
	rs.Truncated = true
	rs.StopReason = reason
}

func restFailure(resp *github.Response, err error) string {
	if resp != nil && resp.Response != nil {
		return fmt.Sprintf("status %d: %v", resp.StatusCode, err)
	}
	return err.Error()
}
