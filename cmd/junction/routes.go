package main

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func routesCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the named routes of a manifest",
		Long: `List every route the manifest names directly, with its path.

Routes named in nested routers resolve by name but are listed by the router that owns them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := o.router(cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer r.Dispose()

			names := r.Names()
			if len(names) == 0 {
				warn(cmd.OutOrStdout(), "no named routes in %s", o.manifest)
				return nil
			}

			sorted := make([]string, 0, len(names))
			for name := range names {
				sorted = append(sorted, name)
			}
			sort.Strings(sorted)

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, name := range sorted {
				fmt.Fprintf(tw, "%s\t%s\n", name, names[name])
			}
			return tw.Flush()
		},
	}
}

func pathCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "path <name> [key=value...]",
		Short: "Build the path of a named route",
		Long: `Build the path of a named route, substituting its parameters.

Examples:
  junction path item id=7           # /path/7
  junction path files path=a path=b # /files/a/b`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseParams(args[1:])
			if err != nil {
				return err
			}

			r, err := o.router(cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer r.Dispose()

			p, err := r.MapNameToPath(args[0], params)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), p)
			return nil
		},
	}
}
