package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"abapseg/internal/adapter/segmenter"
	"abapseg/internal/domain"
)

var (
	segmentPgmName string
	segmentIncName string
	segmentAsJSON  bool
)

var segmentCmd = &cobra.Command{
	Use:   "segment FILE",
	Short: "Segment a single source file",
	Long: `Segment one file and print the records to stdout, one JSON object per
line (NDJSON). Use --json for a single JSON array instead.

Examples:
  abapseg segment zreport.abap
  abapseg segment zreport.abap --pgm ZREPORT --inc ZREPORT_F01 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runSegment,
}

func init() {
	rootCmd.AddCommand(segmentCmd)
	segmentCmd.Flags().StringVar(&segmentPgmName, "pgm", "", "program name attached to every record (default: file base name)")
	segmentCmd.Flags().StringVar(&segmentIncName, "inc", "", "include name attached to every record (default: file base name)")
	segmentCmd.Flags().BoolVar(&segmentAsJSON, "json", false, "output a JSON array instead of NDJSON")
}

func runSegment(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	base := filepath.Base(path)
	pgm := segmentPgmName
	if pgm == "" {
		pgm = base
	}
	inc := segmentIncName
	if inc == "" {
		inc = base
	}

	engine := segmenter.New(segmenter.Options{
		KeepBlankGaps: GetConfig().Segment.KeepBlankGaps,
	})
	records := engine.Segment(domain.SourceUnit{
		PgmName: pgm,
		IncName: inc,
		Code:    string(data),
	})

	enc := json.NewEncoder(os.Stdout)
	if segmentAsJSON {
		return enc.Encode(records)
	}
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return nil
}
