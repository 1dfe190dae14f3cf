// Package jira is a client for the Jira REST API v2 as used by issue-tracker
// integrations: listing projects, versions, priorities and assignable users,
// reading create metadata, and creating or fetching issues.
//
// A Client logs in lazily with a cookie session on first use and keeps that
// session for its lifetime. Project, version and priority lists are served
// through a shared read cache keyed by URL and instance.
//
//	client, err := jira.New(jira.Config{
//		InstanceURL: "https://jira.example.com",
//		Username:    "bot",
//		Password:    os.Getenv("JIRA_PASSWORD"),
//	})
//	if err != nil {
//		return err
//	}
//
//	resp, err := client.CreateIssue(ctx, map[string]any{
//		"project":   map[string]string{"key": "OPS"},
//		"summary":   "Disk full on db-1",
//		"issuetype": map[string]string{"name": "Bug"},
//	})
//	if err != nil {
//		if apiErr, ok := httpclient.AsError(err); ok && apiErr.StatusCode() == http.StatusBadRequest {
//			fields, msgs := apiErr.FieldErrors()
//			...
//		}
//		return err
//	}
//
//	key, _ := jira.CreatedIssueKey(resp)
//	fmt.Println(client.IssueURL(key))
//
// Failures of the request operations (MakeRequest, GetCached and the endpoint
// methods) are *httpclient.Error values; use httpclient.IsUnauthorized to detect
// rejected credentials. Helpers that work on results return their own
// sentinels: AutocompleteUsers adds ErrAutocompleteURL and
// ErrUnexpectedUserBody, CreatedIssueKey returns ErrMissingIssueKey or a
// decode error, and Forget returns cache store errors.
package jira
