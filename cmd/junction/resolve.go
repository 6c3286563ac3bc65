package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xy-planning-network/junction/route"
)

func resolveCmd(o *rootOptions) *cobra.Command {
	var method string

	cmd := &cobra.Command{
		Use:   "resolve <uri>",
		Short: "Resolve a destination without running its handlers",
		Long: `Resolve a destination against the manifest's routes and print the route it reaches,
the parameters it binds and the quality of the match.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := route.Method(strings.ToUpper(strings.ReplaceAll(method, "-", "_")))
			if err := m.Valid(); err != nil {
				return fmt.Errorf("%w: method %q", err, method)
			}

			r, err := o.router(cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer r.Dispose()

			call := route.NewPathCall(m.Kind(), args[0], nil)
			call.All = m == route.MethodReplaceAll

			res, err := r.Resolve(call)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			success(w, "%s", res.URI)
			info(w, "route   %s", res.Route)
			info(w, "quality %.2f", res.Quality)
			printParams(w, res.Parameters)
			return nil
		},
	}

	cmd.Flags().StringVar(&method, "method", route.MethodEmpty.String(), "Navigation method to resolve with: empty, push, replace, replace-all or pop")

	return cmd
}
