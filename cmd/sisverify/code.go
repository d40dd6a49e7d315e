package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/meigma/sisverify/verification"
)

// runCode computes a verification code from field values given on the
// command line, for events whose document is not at hand.
func runCode(_ context.Context, e env, args []string) int {
	fs := flag.NewFlagSet("code", flag.ContinueOnError)
	category := fs.String("category", "", "document type: folder or voting")
	eventType := fs.String("type", "", "event type, e.g. creation or voteCasting")
	key := fs.String("key", "", "document hashKey")
	version := fs.String("version", verification.DefaultVersion, "verification code version suffix")
	showFormat := fs.Bool("format", false, "print the expected fields instead of computing a code")
	if !parseArgs(fs, e, args) {
		return exitUsage
	}

	format, ok := verification.FormatFor(*category, *eventType)
	if !ok {
		fmt.Fprintf(e.stderr, "sisverify code: no verification format for %s.%s\n", *category, *eventType)
		return exitUsage
	}
	if *showFormat {
		fmt.Fprintln(e.stdout, format.String())
		return exitOK
	}

	values := map[string]string{verification.FieldOperation: *eventType}
	for _, arg := range fs.Args() {
		name, value, found := strings.Cut(arg, "=")
		if !found || name == "" {
			fmt.Fprintf(e.stderr, "sisverify code: argument %q is not field=value\n", arg)
			return exitUsage
		}
		values[name] = value
	}

	code, err := verification.Calculate(*key, format, *version, values)
	if err != nil {
		fmt.Fprintf(e.stderr, "sisverify code: %v\n", err)
		return exitFailed
	}
	fmt.Fprintln(e.stdout, code)
	return exitOK
}
