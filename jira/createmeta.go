package jira

import (
	"context"

	"github.com/andyle182810/jiraclient/httpclient"
	"github.com/andyle182810/jiraclient/jsondoc"
)

const msgMultipleProjects = "More than one project found."

// GetCreateMetaForProject narrows GetCreateMeta to its single project entry.
// It returns nil without error when Jira sent no usable metadata, and an error
// when more than one project came back.
//
//nolint:nilnil
func (c *Client) GetCreateMetaForProject(ctx context.Context, project string) (jsondoc.Object, error) {
	resp, err := c.GetCreateMeta(ctx, project)
	if err != nil {
		return nil, err
	}

	doc, ok := resp.JSON()
	if !ok || jsondoc.IsEmpty(doc) {
		return nil, nil
	}

	value, ok := jsondoc.Get(doc, "projects")
	if !ok {
		return nil, nil
	}

	projects, ok := jsondoc.AsArray(value)
	if !ok || len(projects) == 0 {
		return nil, nil
	}

	if len(projects) > 1 {
		return nil, httpclient.NewError(msgMultipleProjects)
	}

	meta, ok := jsondoc.AsObject(projects[0])
	if !ok {
		return nil, nil
	}

	return meta, nil
}
