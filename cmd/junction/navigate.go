package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xy-planning-network/junction/http/control"
	"github.com/xy-planning-network/junction/stack"
)

func navigateCmd(o *rootOptions) *cobra.Command {
	var neglect bool

	cmd := &cobra.Command{
		Use:   "navigate <step>...",
		Short: "Dispatch a sequence of navigations and print the resulting history",
		Long: `Dispatch a sequence of navigations, in order, against the manifest's routes
and print the navigation history they leave behind.

Each step is a verb optionally followed by a destination:
  push:/path/7             push a path, which may carry a query string
  replace:@item?id=7       replace with a named route, its parameters as a query string
  replace-all:/            clear the history and record a path
  pop                      return to the previous entry
  pop:?tab=2               return to the previous entry, overriding its parameters`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()

			r, err := o.router(w, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer r.Dispose()

			nav, err := stack.New(cmd.Context(), r, stack.WithContext(cmd.Context()))
			if err != nil {
				return err
			}

			var failed int
			for _, step := range args {
				verb, req, err := parseStep(step)
				if err != nil {
					return err
				}
				req.Neglect = neglect

				call, err := req.Call(verb)
				if err != nil {
					return fmt.Errorf("%s: %w", step, err)
				}

				fmt.Fprintln(w, step)
				if err := <-nav.Submit(call); err != nil {
					failed++
					errorMsg(w, "%s", err)
				}
			}
			nav.Flush()

			printStack(cmd, nav.Entries())

			if failed > 0 {
				return fmt.Errorf("%d of %d navigations failed", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&neglect, "neglect", false, "Dispatch without recording history")

	return cmd
}

// parseStep splits a step into its verb and the request it makes.
func parseStep(step string) (control.Verb, control.NavigateRequest, error) {
	verb, dest, _ := strings.Cut(step, ":")
	v := control.Verb(verb)
	if err := v.Valid(); err != nil {
		return "", control.NavigateRequest{}, err
	}

	var req control.NavigateRequest
	switch {
	case dest == "":
	case strings.HasPrefix(dest, "@"):
		name, query, _ := strings.Cut(dest[1:], "?")
		params, err := parseQuery(query)
		if err != nil {
			return "", control.NavigateRequest{}, err
		}
		req.Name = name
		req.Parameters = params
	case v == control.VerbPop:
		params, err := parseQuery(strings.TrimPrefix(dest, "?"))
		if err != nil {
			return "", control.NavigateRequest{}, err
		}
		req.Parameters = params
	default:
		req.Path = dest
	}

	return v, req, nil
}

func printStack(cmd *cobra.Command, entries []stack.Entry) {
	w := cmd.OutOrStdout()
	if len(entries) == 0 {
		warn(w, "history is empty")
		return
	}

	success(w, "history (%d)", len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		line := fmt.Sprintf("%d  %s", i, e.URI)
		if e.Name != "" {
			line += fmt.Sprintf("  @%s", e.Name)
		}
		info(w, "%s", line)
	}
}
