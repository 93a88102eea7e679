package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"abapseg/config"
)

var (
	cfgFile string
	cfg     *config.Config
	rootDir string
)

var rootCmd = &cobra.Command{
	Use:   "abapseg",
	Short: "Segment legacy block-structured source into typed, line-addressed records",
	Long: `abapseg splits FORM/CLASS/FUNCTION/MODULE/DEFINE style source text into an
ordered list of typed records with 1-based line ranges. Text between
recognized blocks is preserved as raw_code records, so every byte of input
is accounted for.

Example usage:
  abapseg segment zreport.abap        # Segment one file to NDJSON
  abapseg batch ./src                 # Segment a whole tree into a local store
  abapseg serve                       # Expose the engine over HTTP`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./abapseg.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "root directory (default is current directory)")
}

func GetConfig() *config.Config {
	return cfg
}

func GetRootDir() string {
	return rootDir
}
