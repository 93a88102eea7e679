package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"abapseg/config"
	"abapseg/internal/adapter/fs"
	"abapseg/internal/adapter/segmenter"
	"abapseg/internal/adapter/store"
	"abapseg/internal/domain"
	"abapseg/internal/usecase"
)

var batchPgmName string

var batchCmd = &cobra.Command{
	Use:   "batch [path]",
	Short: "Segment every matching file under a directory",
	Long: `Segment all files selected by the configured include/exclude patterns and
store the records in .abapseg/segments.db within the target directory.
Files whose content is unchanged since the previous run are skipped.

Examples:
  abapseg batch .                  # Segment current directory
  abapseg batch /path/to/sources   # Segment a specific tree`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().StringVar(&batchPgmName, "pgm", "", "program name attached to every record (default: directory base name)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	path := GetRootDir()
	if len(args) > 0 {
		var err error
		path, err = filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("invalid path: %w", err)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	cfg := GetConfig()

	pgm := batchPgmName
	if pgm == "" {
		pgm = cfg.Scan.PgmName
	}
	if pgm == "" {
		pgm = filepath.Base(path)
	}

	if err := config.EnsureWorkDir(path); err != nil {
		return fmt.Errorf("failed to create .abapseg directory: %w", err)
	}

	st, err := store.NewBoltStore(config.StoreDBPath(path))
	if err != nil {
		return fmt.Errorf("failed to open segment store: %w", err)
	}
	defer st.Close()

	walker := fs.NewWalker(cfg.Scan.Includes, cfg.Scan.Excludes)
	engine := segmenter.New(segmenter.Options{KeepBlankGaps: cfg.Segment.KeepBlankGaps})
	batchUC := usecase.NewSegmentUseCase(engine, st, walker)

	fmt.Printf("Scanning %s...\n", path)

	var bar *progressbar.ProgressBar
	var barMu sync.Mutex
	var initialized bool

	progress := func(done, total int, currentFile string) {
		barMu.Lock()
		defer barMu.Unlock()

		if total == 0 {
			return
		}
		if !initialized {
			bar = progressbar.NewOptions(total,
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Segmenting[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
			initialized = true
		}
		bar.Set(done)
	}

	result, err := batchUC.Batch(path, pgm, progress)
	if err != nil {
		return fmt.Errorf("batch segmentation failed: %w", err)
	}

	fmt.Printf("\nSegmentation complete:\n")
	fmt.Printf("  Files processed: %d\n", result.FilesProcessed)
	fmt.Printf("  Files skipped:   %d (unchanged)\n", result.FilesSkipped)
	fmt.Printf("  Records created: %d\n", result.RecordsCreated)
	for _, kind := range []domain.BlockKind{
		domain.KindPerform, domain.KindClassDefinition, domain.KindClassImpl,
		domain.KindMethod, domain.KindFunction, domain.KindModule,
		domain.KindMacro, domain.KindRawCode,
	} {
		if n := result.ByKind[kind]; n > 0 {
			fmt.Printf("    %-17s %d\n", string(kind)+":", n)
		}
	}

	if len(result.Errors) > 0 {
		fmt.Printf("\nWarnings:\n")
		for _, e := range result.Errors {
			fmt.Printf("  - %s\n", e)
		}
	}

	fmt.Printf("\nStore at: %s\n", config.StoreDBPath(path))
	return nil
}
