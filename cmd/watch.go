package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/zjrosen/opener/internal/log"
	"github.com/zjrosen/opener/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch [file]...",
	Short: "Reload the store whenever it changes",
	Long: `Watch commands.yaml, commands.xml and associations.xml and reload them
after every change. When files are given they are resolved again after each
reload, which is handy while editing associations.xml by hand.

Press Ctrl+C to stop.

Examples:
  opener watch
  opener watch report.pdf build.sh`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runWatch(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), args)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(ctx context.Context, stdout, stderr io.Writer, files []string) error {
	a, err := loadForRead(stderr)
	if err != nil {
		return err
	}
	if err := reportReload(stdout, a, files, nil); err != nil {
		return err
	}

	paths, err := a.storePaths()
	if err != nil {
		return err
	}
	watched := existingDirs(stderr, paths)
	if len(watched) == 0 {
		return fmt.Errorf("none of the store directories exist")
	}

	w, err := watcher.New(watcherConfig(watched, cfg.Watch.Debounce))
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	changes, err := w.Start()
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(stdout, "Watching %d store files. Press Ctrl+C to stop.\n", len(watched))

	for {
		select {
		case <-ctx.Done():
			return nil
		case change := <-changes:
			log.Info(log.CatWatcher, "reloading store", "changed", strings.Join(change.Paths, ","))
			a, err := loadForRead(stderr)
			if err != nil {
				// Nothing loaded; wait for the next change.
				_, _ = fmt.Fprintf(stderr, "reload failed: %v\n", err)
				continue
			}
			if err := reportReload(stdout, a, files, change.Paths); err != nil {
				return err
			}
		}
	}
}

// watcherConfig starts from the watcher defaults; a zero debounce keeps the
// default window.
func watcherConfig(paths []string, debounce time.Duration) watcher.Config {
	wc := watcher.DefaultConfig(paths...)
	if debounce > 0 {
		wc.DebounceDur = debounce
	}
	return wc
}

// existingDirs keeps the paths whose directory exists; the others are
// reported and skipped.
func existingDirs(stderr io.Writer, paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if info, err := os.Stat(filepath.Dir(p)); err != nil || !info.IsDir() {
			_, _ = fmt.Fprintf(stderr, "not watching %s: directory does not exist\n", p)
			continue
		}
		out = append(out, p)
	}
	return out
}

func reportReload(w io.Writer, a *app, files, changed []string) error {
	var from string
	if len(changed) > 0 {
		names := make([]string, len(changed))
		for i, p := range changed {
			names[i] = filepath.Base(p)
		}
		from = " after change to " + strings.Join(names, ", ")
	}
	_, err := fmt.Fprintf(w, "[%s] %d commands, %d user associations%s\n",
		time.Now().Format("15:04:05"), a.commands.Len(), a.associations.UserLen(), from)
	if err != nil || len(files) == 0 {
		return err
	}
	return runResolve(w, a.resolver, files, cfg.AllowExecutableFallback, false)
}
