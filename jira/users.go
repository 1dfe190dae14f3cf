package jira

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/andyle182810/jiraclient/httpclient"
	"github.com/andyle182810/jiraclient/jsondoc"
	"github.com/antchfx/xmlquery"
)

var (
	ErrUnexpectedUserBody = errors.New("jira: user list is neither a JSON array nor XML")
	ErrAutocompleteURL    = errors.New("jira: invalid autocomplete URL")
)

const jsonUserPickerPath = "/rest/api/latest/user/"

// UserSuggestion is one entry of a user picker. Display is HTML when
// NeedsRender is false, otherwise plain text the caller still has to render.
type UserSuggestion struct {
	Value       string `json:"value"`
	Display     string `json:"display"`
	NeedsRender bool   `json:"needsRender"`
	Query       string `json:"q"`
}

// AutocompleteUsers resolves query against the picker endpoint Jira handed
// out in autocompleteURL. Newer instances expose a JSON endpoint, older ones
// an XML picker that returns pre-rendered HTML. An empty query lists every
// assignable user of project instead. Picker reads go through the read cache.
func (c *Client) AutocompleteUsers(
	ctx context.Context,
	autocompleteURL string,
	query string,
	project string,
) ([]UserSuggestion, error) {
	if query == "" {
		resp, err := c.ListAssignableUsers(ctx, project)
		if err != nil {
			return nil, err
		}

		return ParseUserSuggestions(resp, query)
	}

	target, err := pickerURL(autocompleteURL, query, project)
	if err != nil {
		return nil, err
	}

	resp, err := c.GetCached(ctx, target)
	if err != nil {
		return nil, err
	}

	return ParseUserSuggestions(resp, query)
}

func pickerURL(autocompleteURL, query, project string) (string, error) {
	parsed, err := url.Parse(autocompleteURL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAutocompleteURL, err)
	}

	params := parsed.Query()

	if strings.Contains(autocompleteURL, jsonUserPickerPath) {
		params.Set("username", query)
		params.Del("issueKey")
		params.Set("project", project)
	} else {
		params.Set("query", query)

		if fieldName := params.Get("fieldName"); fieldName != "" {
			params.Set("fieldName", fieldName)
		}
	}

	parsed.RawQuery = params.Encode()

	return parsed.String(), nil
}

// ParseUserSuggestions reads a JSON array of users or an XML picker result.
func ParseUserSuggestions(resp *httpclient.Response, query string) ([]UserSuggestion, error) {
	if root, ok := resp.XML(); ok {
		return parseXMLUsers(root, query), nil
	}

	doc, ok := resp.JSON()
	if !ok {
		return nil, ErrUnexpectedUserBody
	}

	items, ok := jsondoc.AsArray(doc)
	if !ok {
		return nil, ErrUnexpectedUserBody
	}

	suggestions := make([]UserSuggestion, 0, len(items))

	for _, item := range items {
		name := jsondoc.GetString(item, "name")

		suggestions = append(suggestions, UserSuggestion{
			Value: name,
			Display: fmt.Sprintf("%s - %s (%s)",
				jsondoc.GetString(item, "displayName"),
				jsondoc.GetString(item, "emailAddress"),
				name,
			),
			NeedsRender: true,
			Query:       query,
		})
	}

	return suggestions, nil
}

func parseXMLUsers(root *xmlquery.Node, query string) []UserSuggestion {
	nodes := xmlquery.Find(root, "//users")
	suggestions := make([]UserSuggestion, 0, len(nodes))

	for _, node := range nodes {
		suggestions = append(suggestions, UserSuggestion{
			Value:       childText(node, "name"),
			Display:     childText(node, "html"),
			NeedsRender: false,
			Query:       query,
		})
	}

	return suggestions
}

func childText(node *xmlquery.Node, name string) string {
	child := xmlquery.FindOne(node, name)
	if child == nil {
		return ""
	}

	return child.InnerText()
}
