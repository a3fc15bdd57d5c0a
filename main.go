package main

import (
	"fmt"
	"io"
	"os"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"
)

func main() {
	os.Exit(run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var (
		verbose    bool
		configPath string
	)

	rootCmd := &cobra.Command{
		Use:   "git-facade",
		Short: "Mirror source repository commits into a façade repository",
		Long: "Create one placeholder commit in the façade repository for every non-merge commit " +
			"of the configured source repositories, resuming from the last replicated commit time.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(stderr, verbose)

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			log.Debug().Str("facade", cfg.Repo).Int("sources", len(cfg.Sources)).Msg("loaded configuration")

			facade, err := openFacade(cfg.Repo)
			if err != nil {
				log.Debug().Err(err).Str("facade", cfg.Repo).Msg("opening façade repository")
				return err
			}

			store := newWatermarkStore(osfs.New(facade.Path, osfs.WithBoundOS()))
			start, ok, err := store.Read()
			if err != nil {
				return err
			}
			if !ok {
				start = MinWatermark
				log.Debug().Msg("no watermark, replicating all commits")
			}

			r := &Replicator{
				Store:      store,
				Facade:     facade,
				Enumerator: gitEnumerator{},
				Order:      cfg.WatermarkOrder,
				Log:        log,
			}
			res, err := r.Run(start, cfg.Sources)
			if err != nil {
				return err
			}
			log.Info().Int("commits", res.Commits).Stringer("watermark", res.Watermark).Msg("replication finished")

			fmt.Fprintln(stdout, facade.Path)
			return nil
		},
	}

	rootCmd.Flags().StringVar(&configPath, "config", defaultConfigFile, "configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.SetArgs(args[1:])
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		return report(stderr, err)
	}
	return 0
}
