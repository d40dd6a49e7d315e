package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/meigma/sisverify"
	"github.com/meigma/sisverify/primitive"
)

// runHash prints the SHA-256 of each file. With -doc, each hash is looked
// up in the document's file list.
func runHash(ctx context.Context, e env, args []string) int {
	fs := flag.NewFlagSet("hash", flag.ContinueOnError)
	var g globalFlags
	g.register(fs)
	docPath := fs.String("doc", "", "document whose file list the hashes are checked against")
	if !parseArgs(fs, e, args) {
		return exitUsage
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(e.stderr, "sisverify hash: expected at least one FILE argument")
		return exitUsage
	}
	cfg, err := g.config(fs, e.getenv)
	if err != nil {
		fmt.Fprintf(e.stderr, "sisverify: %v\n", err)
		return exitUsage
	}
	p := newPrinter(e.stdout, cfg.NoColor)

	var doc *sisverify.Document
	if *docPath != "" {
		client, err := newClient(cfg, newLogger(cfg, e.stderr))
		if err != nil {
			fmt.Fprintf(e.stderr, "sisverify: %v\n", err)
			return exitUsage
		}
		doc, err = client.LoadFile(ctx, *docPath)
		if err != nil {
			p.fail("document is not valid: %s", describeLoadError(err))
			return exitNotValid
		}
	}

	result := exitOK
	for _, path := range fs.Args() {
		sum, err := hashFile(path)
		if err != nil {
			p.fail("%s: %v", path, err)
			result = exitFailed
			continue
		}
		if doc == nil {
			p.line("%s  %s", sum, path)
			continue
		}
		if name, ok := doc.Filename(sum); ok {
			p.ok("%s  %s listed as %q", sum, path, name)
		} else {
			p.fail("%s  %s is not part of the document", sum, path)
			result = exitFailed
		}
	}
	return result
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path) //nolint:gosec // caller chooses the file to hash
	if err != nil {
		return "", err
	}
	defer f.Close()
	return primitive.DigestReader(f)
}
