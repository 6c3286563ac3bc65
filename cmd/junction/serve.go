package main

import (
	"github.com/spf13/cobra"
	"github.com/xy-planning-network/junction/ranger"
)

func serveCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP control surface",
		Long: `Serve the HTTP control surface over the manifest's routes.

The server is configured through environment variables; see package ranger.
Routes naming a handler log the calls they receive.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := []ranger.RangerOption{ranger.WithContext(cmd.Context())}
			if o.manifest != "" {
				m, err := o.loadManifest()
				if err != nil {
					return err
				}
				opts = append(opts, ranger.WithManifest(m, nil))
			}

			rng, err := ranger.New(opts...)
			if err != nil {
				return err
			}

			return rng.Guide()
		},
	}
}
