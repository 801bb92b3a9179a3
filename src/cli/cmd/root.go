package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/cratedock/cratedock/src/build"
	"github.com/cratedock/cratedock/src/config"
	"github.com/cratedock/cratedock/src/pipeline"
)

var (
	verbose bool
	export  bool
	dryRun  bool

	flagName        string
	flagTag         string
	flagTags        []string
	flagDockerfile  string
	flagTitle       string
	flagDescription string
	flagAuthors     string
	flagURL         string
	flagSource      string
	flagVendor      string
	flagLicenses    string
	flagAppName     string
)

var rootCmd = &cobra.Command{
	Use:   "cratedock",
	Short: "Package a Cargo project into a container image",
	Long: `Cratedock builds a Cargo project in release mode, packages it into a
container image with OCI descriptor labels, and can export the image as a
compressed archive for offline transport.

Image name and tag default to the package name and version from Cargo.toml;
a Dockerize.toml at the project root and command-line flags override them.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).
			With().Timestamp().Logger()
	},
	RunE:          runPackage,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.Flags().BoolVar(&export, "export", false, "export the image as a TGZ archive")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "show the resolved plan without executing")
	rootCmd.Flags().StringVar(&flagName, "name", "", "image name (default: package name)")
	rootCmd.Flags().StringVar(&flagTag, "tag", "", "primary tag (default: package version)")
	rootCmd.Flags().StringSliceVar(&flagTags, "tags", nil, "additional tags (comma-separated)")
	rootCmd.Flags().StringVar(&flagDockerfile, "dockerfile", "", "Dockerfile path (default: Dockerfile at project root)")
	rootCmd.Flags().StringVar(&flagTitle, "title", "", "image title label")
	rootCmd.Flags().StringVar(&flagDescription, "description", "", "image description label")
	rootCmd.Flags().StringVar(&flagAuthors, "authors", "", "image authors label")
	rootCmd.Flags().StringVar(&flagURL, "url", "", "image url label")
	rootCmd.Flags().StringVar(&flagSource, "source", "", "image source label")
	rootCmd.Flags().StringVar(&flagVendor, "vendor", "", "image vendor label")
	rootCmd.Flags().StringVar(&flagLicenses, "licenses", "", "image licenses label")
	rootCmd.Flags().StringVar(&flagAppName, "application_name", "", "application name label")
}

func runPackage(cmd *cobra.Command, args []string) error {
	startDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	opts := pipeline.Options{
		StartDir: startDir,
		Export:   export,
		Overrides: config.Overrides{
			Name:            flagName,
			Tag:             flagTag,
			Tags:            flagTags,
			Dockerfile:      flagDockerfile,
			Title:           flagTitle,
			Description:     flagDescription,
			Authors:         flagAuthors,
			URL:             flagURL,
			Source:          flagSource,
			Vendor:          flagVendor,
			Licenses:        flagLicenses,
			ApplicationName: flagAppName,
		},
	}

	plan, err := pipeline.NewPlan(opts)
	if err != nil {
		return err
	}

	if dryRun {
		printPlan(cmd, plan)
		return nil
	}

	if err := plan.Execute(context.Background(), build.ExecRunner{}); err != nil {
		return err
	}

	log.Info().Str("image", plan.ImageRef).Msg("packaging complete")
	if plan.ArchivePath != "" {
		log.Info().Str("archive", plan.ArchivePath).Msg("image exported")
	}
	return nil
}

func printPlan(cmd *cobra.Command, p *pipeline.Plan) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "root:       %s\n", p.Root)
	fmt.Fprintf(w, "image:      %s\n", p.ImageRef)
	for _, tag := range p.Config.AdditionalTags {
		fmt.Fprintf(w, "tag:        %s:%s\n", p.Config.ImageName, tag)
	}
	fmt.Fprintf(w, "dockerfile: %s\n", p.Config.Dockerfile)
	for _, l := range p.Labels {
		fmt.Fprintf(w, "label:      %s=%s\n", l.Key, l.Value)
	}
	if p.ArchivePath != "" {
		fmt.Fprintf(w, "archive:    %s\n", p.ArchivePath)
	}
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}
