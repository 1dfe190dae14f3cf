package jira

import (
	"errors"
	"fmt"

	"github.com/andyle182810/jiraclient/httpclient"
)

var ErrMissingIssueKey = errors.New("jira: create response has no issue key")

type Project struct {
	ID         string            `json:"id"`
	Key        string            `json:"key"`
	Name       string            `json:"name"`
	Self       string            `json:"self,omitempty"`
	AvatarURLs map[string]string `json:"avatarUrls,omitempty"`
}

type Version struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Archived    bool   `json:"archived"`
	Released    bool   `json:"released"`
	ReleaseDate string `json:"releaseDate,omitempty"`
	Self        string `json:"self,omitempty"`
}

type Priority struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	IconURL string `json:"iconUrl,omitempty"`
	Self    string `json:"self,omitempty"`
}

// User is a Jira Server user. Name is the login used in assignee fields.
type User struct {
	Name         string `json:"name"`
	Key          string `json:"key,omitempty"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress,omitempty"`
	Active       bool   `json:"active"`
	Self         string `json:"self,omitempty"`
}

// Issue keeps fields undecoded since their shape depends on the project's
// configuration.
type Issue struct {
	ID     string         `json:"id"`
	Key    string         `json:"key"`
	Self   string         `json:"self,omitempty"`
	Fields map[string]any `json:"fields,omitempty"`
}

func (i *Issue) Summary() string {
	summary, _ := i.Fields["summary"].(string)

	return summary
}

type CreatedIssue struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Self string `json:"self"`
}

// CreatedIssueKey extracts the key of the issue a CreateIssue call made.
func CreatedIssueKey(resp *httpclient.Response) (string, error) {
	created, err := httpclient.DecodeJSON[CreatedIssue](resp)
	if err != nil {
		return "", fmt.Errorf("jira: %w", err)
	}

	if created.Key == "" {
		return "", ErrMissingIssueKey
	}

	return created.Key, nil
}
