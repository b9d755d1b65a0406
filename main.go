// Command uguisu runs Uguisu programs.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/grailbio/base/log"
	"github.com/urfave/cli/v2"
	"github.com/uguisu-dev/uguisu/uguisu"
)

func newSession(trace bool) *uguisu.Session {
	return uguisu.NewSession(uguisu.Options{
		Stdout: func(s string) { fmt.Print(s) },
		Trace:  trace,
	})
}

// check runs the front half of the pipeline and reports diagnostics.
func check(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	sess := newSession(false)
	file, err := sess.Parse(path, string(src))
	if err != nil {
		return err
	}
	_, result := sess.Analyze(file)
	for _, w := range result.WarningStrings() {
		log.Error.Printf("%s: warning: %s", path, w)
	}
	if !result.OK() {
		for _, e := range result.ErrorStrings() {
			log.Error.Printf("%s: error: %s", path, e)
		}
		return fmt.Errorf("%s: %d errors", path, len(result.Errors))
	}
	return nil
}

func run(ctx context.Context, path string, trace bool) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	sess := newSession(trace)
	file, err := sess.Parse(path, string(src))
	if err != nil {
		return err
	}
	_, result := sess.Analyze(file)
	for _, w := range result.WarningStrings() {
		log.Error.Printf("%s: warning: %s", path, w)
	}
	if !result.OK() {
		for _, e := range result.ErrorStrings() {
			log.Error.Printf("%s: error: %s", path, e)
		}
		return fmt.Errorf("%s: %d errors", path, len(result.Errors))
	}
	_, err = sess.Run(ctx, file)
	return err
}

// watch re-runs the script whenever the file changes. Each run's error is
// reported but does not end the watch.
func watch(ctx context.Context, path string, trace bool) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close() // nolint: errcheck
	if err := watcher.Add(path); err != nil {
		return err
	}
	runOnce := func() {
		if err := run(ctx, path, trace); err != nil {
			log.Error.Printf("%v", err)
		}
	}
	runOnce()
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				log.Printf("%s changed, re-running", path)
				runOnce()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error.Printf("watch %s: %v", path, err)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func main() {
	app := &cli.App{
		Name:  "uguisu",
		Usage: "Uguisu language interpreter",
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "run a script",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "watch", Usage: "re-run the script when the file changes"},
					&cli.BoolFlag{Name: "trace", Usage: "log each function call"},
				},
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.ShowSubcommandHelp(c)
					}
					if c.Bool("watch") {
						return watch(c.Context, c.Args().First(), c.Bool("trace"))
					}
					return run(c.Context, c.Args().First(), c.Bool("trace"))
				},
			},
			{
				Name:      "check",
				Usage:     "parse and analyze a script without running it",
				ArgsUsage: "FILE",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.ShowSubcommandHelp(c)
					}
					return check(c.Args().First())
				},
			},
		},
	}
	if err := app.RunContext(context.Background(), os.Args); err != nil {
		log.Error.Printf("%v", err)
		os.Exit(1)
	}
}
