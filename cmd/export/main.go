// Command export пишет JSON-отчёт и, по желанию, HTML-карту из файла данных без запуска сервера.
package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/jonboulle/clockwork"
	"github.com/natefinch/atomic"
	flag "github.com/spf13/pflag"

	"github.com/shenikar/activity_tracker/internal/mapview"
	"github.com/shenikar/activity_tracker/internal/query"
	"github.com/shenikar/activity_tracker/internal/report"
	"github.com/shenikar/activity_tracker/internal/repository"
)

const (
	defaultDataFile = "ice_activities.json"
	mapTitle        = "ICE Activity Monitor"
)

type options struct {
	dataFile string
	outDir   string
	mapPath  string
	status   string
	priority string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, clockwork.NewRealClock()))
}

func run(args []string, out, errOut io.Writer, clock clockwork.Clock) int {
	opts, code := parseFlags(errOut, args)
	if code != 0 {
		return code
	}

	criteria, err := query.ParseCriteria(opts.status, opts.priority)
	if err != nil {
		fmt.Fprintln(errOut, "error:", err)
		return 1
	}

	store := repository.NewStore(repository.NewFileStorage(opts.dataFile), clock)
	found, err := store.Load()
	if err != nil {
		fmt.Fprintln(errOut, "error:", err)
		return 1
	}
	if !found {
		fmt.Fprintf(errOut, "error: data file %s not found\n", opts.dataFile)
		return 1
	}

	records := query.Filter(store.List(), criteria)
	now := clock.Now()

	path, err := report.WriteFile(opts.outDir, report.Build(records, now))
	if err != nil {
		fmt.Fprintln(errOut, "error:", err)
		return 1
	}
	fmt.Fprintln(out, "report:", path)

	if opts.mapPath != "" {
		var buf bytes.Buffer
		if err := mapview.Render(&buf, records, mapview.Options{Title: mapTitle, GeneratedAt: now}); err != nil {
			fmt.Fprintln(errOut, "error:", err)
			return 1
		}
		if err := atomic.WriteFile(opts.mapPath, &buf); err != nil {
			fmt.Fprintln(errOut, "error: writing map:", err)
			return 1
		}
		fmt.Fprintln(out, "map:", opts.mapPath)
	}

	return 0
}

func parseFlags(errOut io.Writer, args []string) (options, int) {
	flagSet := flag.NewFlagSet("export", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	dataFile := flagSet.String("data", defaultDataFile, "Activity data file")
	outDir := flagSet.String("out", ".", "Directory for the report file")
	mapPath := flagSet.String("map", "", "Also write an HTML map to this path")
	status := flagSet.String("status", query.All, "Filter by status")
	priority := flagSet.String("priority", query.All, "Filter by priority")

	if err := flagSet.Parse(args); err != nil {
		fmt.Fprintln(errOut, "error:", err)
		return options{}, 1
	}

	if flagSet.NArg() > 0 {
		fmt.Fprintln(errOut, "error: unexpected arguments:", flagSet.Args())
		return options{}, 1
	}

	if *dataFile == "" {
		fmt.Fprintln(errOut, "error: --data must not be empty")
		return options{}, 1
	}

	return options{
		dataFile: *dataFile,
		outDir:   *outDir,
		mapPath:  *mapPath,
		status:   *status,
		priority: *priority,
	}, 0
}
