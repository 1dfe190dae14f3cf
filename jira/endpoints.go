package jira

import (
	"context"
	"fmt"
	"net/url"

	"github.com/andyle182810/jiraclient/httpclient"
)

const (
	projectsPath    = "/rest/api/2/project"
	createMetaPath  = "/rest/api/2/issue/createmeta"
	createIssuePath = "/rest/api/2/issue"
	prioritiesPath  = "/rest/api/2/priority"
	versionsPath    = "/rest/api/2/project/%s/versions"
	assignablePath  = "/rest/api/2/user/assignable/search"
	issuePath       = "/rest/api/2/issue/%s"

	createMetaExpand = "projects.issuetypes.fields"
)

// ListProjects returns the projects visible to the session user. Cached.
func (c *Client) ListProjects(ctx context.Context) (*httpclient.Response, error) {
	return c.GetCached(ctx, projectsPath)
}

// GetCreateMeta returns the create metadata of project with issue type fields
// expanded.
func (c *Client) GetCreateMeta(ctx context.Context, project string) (*httpclient.Response, error) {
	return c.http.Get(ctx, createMetaPath, map[string]string{
		"projectKeys": project,
		"expand":      createMetaExpand,
	})
}

// ListVersions returns the versions of project. Cached.
func (c *Client) ListVersions(ctx context.Context, project string) (*httpclient.Response, error) {
	return c.GetCached(ctx, fmt.Sprintf(versionsPath, url.PathEscape(project)))
}

// ListPriorities returns the instance's issue priorities. Cached.
func (c *Client) ListPriorities(ctx context.Context) (*httpclient.Response, error) {
	return c.GetCached(ctx, prioritiesPath)
}

func (c *Client) ListAssignableUsers(ctx context.Context, project string) (*httpclient.Response, error) {
	return c.http.Get(ctx, assignablePath, map[string]string{"project": project})
}

// CreateIssue posts fields as {"fields": fields}.
func (c *Client) CreateIssue(ctx context.Context, fields any) (*httpclient.Response, error) {
	return c.http.Post(ctx, createIssuePath, map[string]any{"fields": fields})
}

func (c *Client) GetIssue(ctx context.Context, key string) (*httpclient.Response, error) {
	return c.http.Get(ctx, fmt.Sprintf(issuePath, url.PathEscape(key)), nil)
}
