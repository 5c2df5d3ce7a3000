// Command rdbdump decodes one or more RDB snapshot files (or standard
// input) and writes their contents in JSON, plain-line, or RESP2 protocol
// form.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/upstash/rdbdump"
	"github.com/upstash/rdbdump/filter"
	"github.com/upstash/rdbdump/formatter"
	"github.com/upstash/rdbdump/internal/rdblog"
)

const usage = `usage: rdbdump [flags] [file ...]

Decode one or more RDB snapshot files and print their contents. With no
file arguments, reads from standard input.

flags:
  -format string      output format: json, plain, protocol (default "json")
  -databases string    comma-separated list of database indices to include
  -type string          comma-separated list of value types to include:
                         string,list,set,hash,zset,stream
  -output string         write to this file instead of standard output
  -no-verify             skip the trailing checksum verification
  -verify                only recompute the trailing checksum and report; does not decode or format
  -v, -verbose           log progress and per-file stats to standard error
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	fs := flag.NewFlagSet("rdbdump", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage) }

	format := fs.String("format", "json", "output format: json, plain, protocol")
	databases := fs.String("databases", "", "comma-separated list of database indices to include")
	types := fs.String("type", "", "comma-separated list of value types to include")
	output := fs.String("output", "", "write to this file instead of standard output")
	noVerify := fs.Bool("no-verify", false, "skip the trailing checksum verification")
	verify := fs.Bool("verify", false, "only recompute the trailing checksum and report; does not decode or format")
	verbose := fs.Bool("verbose", false, "log progress and per-file stats to standard error")
	fs.BoolVar(verbose, "v", false, "shorthand for -verbose")

	if err := fs.Parse(argv); err != nil {
		return 2
	}

	level := rdblog.LevelInfo
	if *verbose {
		level = rdblog.LevelDebug
	}
	logger := rdblog.New(os.Stderr, level)

	f, err := parseFilter(*databases, *types)
	if err != nil {
		fmt.Fprintln(os.Stderr, "rdbdump:", err)
		return 2
	}

	if *noVerify {
		logger.Warnf("checksum verification disabled")
	}

	var out io.Writer = os.Stdout
	if *output != "" {
		file, err := os.Create(*output)
		if err != nil {
			fmt.Fprintln(os.Stderr, "rdbdump:", err)
			return 1
		}
		defer file.Close()
		out = file
	}

	paths := fs.Args()
	if len(paths) == 0 {
		paths = []string{"-"}
	}

	if *verify {
		ok := true
		for _, path := range paths {
			good, err := verifyOne(path, out, logger)
			if err != nil {
				fmt.Fprintln(os.Stderr, "rdbdump:", err)
				return 1
			}
			ok = ok && good
		}
		if !ok {
			return 1
		}
		return 0
	}

	if _, _, err := newFormatter(*format, out); err != nil {
		fmt.Fprintln(os.Stderr, "rdbdump:", err)
		return 2
	}

	opts := rdb.Options{Filter: f, SkipChecksum: *noVerify}

	for _, path := range paths {
		// A fresh formatter per input, so no buffered state carries over.
		sink, flush, _ := newFormatter(*format, out)
		if err := decodeOne(path, sink, opts, logger); err != nil {
			fmt.Fprintln(os.Stderr, "rdbdump:", err)
			return 1
		}
		if err := flush(); err != nil {
			fmt.Fprintln(os.Stderr, "rdbdump:", err)
			return 1
		}
	}
	return 0
}

// verifyOne runs the fast whole-file checksum check (no structural decode)
// against path and writes a one-line report to out. It reports false
// (without an error) for a checksum mismatch, since that is an expected,
// reportable outcome rather than an I/O or format failure.
func verifyOne(path string, out io.Writer, logger *rdblog.Logger) (bool, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		file, err := os.Open(path)
		if err != nil {
			return false, err
		}
		defer file.Close()
		r = file
	}

	logger.Debugf("verifying %s", path)
	result, err := rdb.VerifyFile(r)
	if err != nil {
		return false, fmt.Errorf("%s: %w", path, err)
	}
	if result.OK {
		fmt.Fprintf(out, "%s: OK version=%d bytes=%d\n", path, result.Version, result.Bytes)
		return true, nil
	}
	fmt.Fprintf(out, "%s: CHECKSUM MISMATCH version=%d bytes=%d offset=%d\n",
		path, result.Version, result.Bytes, result.Offset)
	return false, nil
}

func decodeOne(path string, sink rdb.Sink, opts rdb.Options, logger *rdblog.Logger) error {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		r = file
	}

	logger.Debugf("decoding %s", path)
	stats, err := rdb.Decode(r, sink, opts)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	logger.Debugf("%s: %d databases, %d keys, %d bytes", path, stats.Databases, stats.Keys, stats.Bytes)
	return nil
}

func newFormatter(format string, out io.Writer) (rdb.Sink, func() error, error) {
	switch format {
	case "json":
		f := formatter.NewJSON(out)
		return f, f.Flush, nil
	case "plain":
		f := formatter.NewPlain(out)
		return f, f.Flush, nil
	case "protocol":
		f := formatter.NewProtocol(out)
		return f, f.Flush, nil
	default:
		return nil, nil, fmt.Errorf("unknown -format %q (want json, plain, or protocol)", format)
	}
}

func parseFilter(databases, types string) (rdb.Filter, error) {
	var dbs []uint64
	for _, s := range splitNonEmpty(databases) {
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid -databases value %q", s)
		}
		dbs = append(dbs, n)
	}

	var vts []rdb.ValueType
	for _, s := range splitNonEmpty(types) {
		vt, ok := parseValueType(s)
		if !ok {
			return nil, fmt.Errorf("invalid -type value %q", s)
		}
		vts = append(vts, vt)
	}

	if len(dbs) == 0 && len(vts) == 0 {
		return nil, nil
	}
	return filter.NewSimple(dbs, vts), nil
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseValueType(s string) (rdb.ValueType, bool) {
	switch strings.ToLower(s) {
	case "string":
		return rdb.ValueString, true
	case "list":
		return rdb.ValueList, true
	case "set":
		return rdb.ValueSet, true
	case "hash":
		return rdb.ValueHash, true
	case "zset":
		return rdb.ValueZset, true
	case "stream":
		return rdb.ValueStream, true
	default:
		return 0, false
	}
}
