package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "forkfilter",
		Short: "Find and filter nearby restaurants with live busyness",
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")

	root.AddCommand(serveCmd())
	root.AddCommand(initDBCmd())
	root.AddCommand(seedCmd())
	root.AddCommand(countCmd())
	root.AddCommand(ingestFSQCmd())
	root.AddCommand(ingestOSMCmd())

	return root
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "server port (default: from config)")
	return cmd
}

func initDBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-db",
		Short: "Create the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInitDB()
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed Dallas-area fixture restaurants and check-ins",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed()
		},
	}
}

func countCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count-restaurants",
		Short: "Print the number of stored restaurants",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCount()
		},
	}
}

type ingestFlags struct {
	lat      float64
	lng      float64
	radiusKm float64
	terms    string
	limit    int
}

func (f *ingestFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.lat, "lat", 32.7767, "latitude of the search center")
	cmd.Flags().Float64Var(&f.lng, "lng", -96.7970, "longitude of the search center")
	cmd.Flags().Float64Var(&f.radiusKm, "radius-km", 5, "search radius in kilometers")
	cmd.Flags().StringVar(&f.terms, "terms", "", "comma-separated search terms (one pass per term)")
	cmd.Flags().IntVar(&f.limit, "limit", 50, "max rows per provider call")
}

func ingestFSQCmd() *cobra.Command {
	var (
		flags      ingestFlags
		prices     string
		categories string
		delay      string
		maxRetries int
	)

	cmd := &cobra.Command{
		Use:   "ingest-fsq",
		Short: "Bulk-ingest restaurants from Foursquare",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngestFSQ(flags, prices, categories, delay, maxRetries)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&prices, "prices", "", "comma-separated price tiers 1-4")
	cmd.Flags().StringVar(&categories, "categories", "", "Foursquare category ids (default: restaurants)")
	cmd.Flags().StringVar(&delay, "delay", "", "pause between terms (default: from config)")
	cmd.Flags().IntVar(&maxRetries, "max-retries", 0, "retry budget per term (default: from config)")
	return cmd
}

func ingestOSMCmd() *cobra.Command {
	var flags ingestFlags

	cmd := &cobra.Command{
		Use:   "ingest-osm",
		Short: "Bulk-ingest restaurants from OpenStreetMap",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngestOSM(flags)
		},
	}

	flags.register(cmd)
	return cmd
}
