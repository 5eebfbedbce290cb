package gateway

import (
	"context"
	"fmt"

	"github.com/shurcooL/githubv4"

	"github.com/naka-gawa/github-adoption/internal/domain"
)

// searchRepositoriesQuery mirrors the REST search through the GraphQL search connection.
type searchRepositoriesQuery struct {
	Search struct {
		RepositoryCount int
		PageInfo        struct {
			HasNextPage bool
			EndCursor   githubv4.String
		}
		Nodes []struct {
			Repository struct {
				NameWithOwner   string
				CreatedAt       githubv4.DateTime
				URL             string `graphql:"url"`
				PrimaryLanguage *struct {
					Name string
				}
			} `graphql:"... on Repository"`
		}
	} `graphql:"search(query: $query, type: REPOSITORY, first: $first, after: $cursor)"`
}

func (g *GitHubGateway) searchGraphQL(ctx context.Context, query string) (*domain.ResultSet, error) {
	rs := &domain.ResultSet{Query: query}
	variables := map[string]interface{}{
		"query":  githubv4.String(query),
		"first":  githubv4.Int(g.perPage),
		"cursor": (*githubv4.String)(nil),
	}
	for page := 1; ; page++ {
		if err := g.pacer.Wait(ctx); err != nil {
			return nil, fmt.Errorf("failed to wait for next page: %w", err)
		}
		var q searchRepositoriesQuery
		err := g.graphqlClient.Query(ctx, &q, variables)
		g.pacer.Done()
		rs.Pages = page
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("failed to execute GraphQL search: %w", ctx.Err())
			}
			g.truncate(rs, page, err.Error())
			return rs, nil
		}
		rs.TotalCount = q.Search.RepositoryCount
		if len(q.Search.Nodes) == 0 {
			rs.StopReason = "empty page"
			return rs, nil
		}
		for _, node := range q.Search.Nodes {
			repo := node.Repository
			language := ""
			if repo.PrimaryLanguage != nil {
				language = repo.PrimaryLanguage.Name
			}
			rs.Repositories = append(rs.Repositories, domain.NewRepository(
				repo.NameWithOwner,
				repo.CreatedAt.Time,
				language,
				repo.URL,
			))
		}
		g.logger.Info("fetched page", "page", page, "repos", len(q.Search.Nodes))
		if g.isLastPage(page, rs.TotalCount) {
			rs.StopReason = "result limit reached"
			return rs, nil
		}
		if !q.Search.PageInfo.HasNextPage {
			rs.StopReason = "no next page"
			return rs, nil
		}
		variables["cursor"] = githubv4.NewString(q.Search.PageInfo.EndCursor)
	}
}
