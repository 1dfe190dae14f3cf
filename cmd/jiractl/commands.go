package main

import (
	"fmt"

	"github.com/andyle182810/jiraclient/jira"
	"github.com/urfave/cli/v2"
)

// projectFlag is built per command since cli mutates flags as it applies them.
//
//nolint:exhaustruct
func projectFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "project",
		Aliases:  []string{"p"},
		Usage:    "project key",
		Required: true,
	}
}

//nolint:exhaustruct
func (s *session) projectsCommand() *cli.Command {
	return &cli.Command{
		Name:  "projects",
		Usage: "List the projects visible to the user",
		Action: func(c *cli.Context) error {
			resp, err := s.client.ListProjects(c.Context)
			if err != nil {
				s.reportAPIError(err)

				return err //nolint:wrapcheck
			}

			return s.printResponse(resp)
		},
	}
}

//nolint:exhaustruct
func (s *session) prioritiesCommand() *cli.Command {
	return &cli.Command{
		Name:  "priorities",
		Usage: "List issue priorities",
		Action: func(c *cli.Context) error {
			resp, err := s.client.ListPriorities(c.Context)
			if err != nil {
				s.reportAPIError(err)

				return err //nolint:wrapcheck
			}

			return s.printResponse(resp)
		},
	}
}

//nolint:exhaustruct
func (s *session) versionsCommand() *cli.Command {
	return &cli.Command{
		Name:  "versions",
		Usage: "List the versions of a project",
		Flags: []cli.Flag{projectFlag()},
		Action: func(c *cli.Context) error {
			resp, err := s.client.ListVersions(c.Context, c.String("project"))
			if err != nil {
				s.reportAPIError(err)

				return err //nolint:wrapcheck
			}

			return s.printResponse(resp)
		},
	}
}

//nolint:exhaustruct
func (s *session) usersCommand() *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "Suggest users for a project, or list every assignable user without --query",
		Flags: []cli.Flag{
			projectFlag(),
			&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: "name prefix to complete"},
			&cli.StringFlag{Name: "autocomplete-url", Value: defaultUserPicker, Usage: "user picker endpoint"},
		},
		Action: func(c *cli.Context) error {
			users, err := s.client.AutocompleteUsers(c.Context,
				c.String("autocomplete-url"), c.String("query"), c.String("project"))
			if err != nil {
				s.reportAPIError(err)

				return err //nolint:wrapcheck
			}

			return s.printJSON(map[string]any{"users": users})
		},
	}
}

//nolint:exhaustruct
func (s *session) createMetaCommand() *cli.Command {
	return &cli.Command{
		Name:  "createmeta",
		Usage: "Show the issue types and fields available when creating issues in a project",
		Flags: []cli.Flag{projectFlag()},
		Action: func(c *cli.Context) error {
			project := c.String("project")

			meta, err := s.client.GetCreateMetaForProject(c.Context, project)
			if err != nil {
				s.reportAPIError(err)

				return err //nolint:wrapcheck
			}

			if meta == nil {
				return fmt.Errorf("%w %s", errNoCreateMeta, project)
			}

			return s.printJSON(meta)
		},
	}
}

//nolint:exhaustruct
func (s *session) issueCommand() *cli.Command {
	return &cli.Command{
		Name:      "issue",
		Usage:     "Show an issue",
		ArgsUsage: "KEY",
		Action: func(c *cli.Context) error {
			key := c.Args().First()
			if key == "" {
				return cli.ShowSubcommandHelp(c)
			}

			resp, err := s.client.GetIssue(c.Context, key)
			if err != nil {
				s.reportAPIError(err)

				return err //nolint:wrapcheck
			}

			return s.printResponse(resp)
		},
	}
}

//nolint:exhaustruct
func (s *session) createCommand() *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "Create an issue and print its key and link",
		Flags: []cli.Flag{
			projectFlag(),
			&cli.StringFlag{Name: "summary", Aliases: []string{"s"}, Required: true},
			&cli.StringFlag{Name: "issue-type", Aliases: []string{"t"}, Value: "Bug"},
			&cli.StringFlag{Name: "description", Aliases: []string{"d"}},
			&cli.StringFlag{Name: "priority"},
			&cli.StringFlag{Name: "assignee"},
		},
		Action: func(c *cli.Context) error {
			resp, err := s.client.CreateIssue(c.Context, issueFields(c))
			if err != nil {
				s.reportAPIError(err)

				return fmt.Errorf("%w: %w", errCreateRejected, err)
			}

			key, err := jira.CreatedIssueKey(resp)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(s.out, "%s\t%s\n", key, s.client.IssueURL(key))

			return err //nolint:wrapcheck
		},
	}
}

//nolint:exhaustruct
func (s *session) urlCommand() *cli.Command {
	return &cli.Command{
		Name:      "url",
		Usage:     "Print the browser link of an issue",
		ArgsUsage: "KEY",
		Action: func(c *cli.Context) error {
			key := c.Args().First()
			if key == "" {
				return cli.ShowSubcommandHelp(c)
			}

			_, err := fmt.Fprintln(s.out, s.client.IssueURL(key))

			return err //nolint:wrapcheck
		},
	}
}

func issueFields(c *cli.Context) map[string]any {
	fields := map[string]any{
		"project":   map[string]string{"key": c.String("project")},
		"summary":   c.String("summary"),
		"issuetype": map[string]string{"name": c.String("issue-type")},
	}

	if description := c.String("description"); description != "" {
		fields["description"] = description
	}

	if priority := c.String("priority"); priority != "" {
		fields["priority"] = map[string]string{"name": priority}
	}

	if assignee := c.String("assignee"); assignee != "" {
		fields["assignee"] = map[string]string{"name": assignee}
	}

	return fields
}
