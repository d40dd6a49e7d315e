package main

import (
	"context"
	"flag"
	"strconv"
	"strings"

	"github.com/meigma/sisverify/metadata"
)

func runInspect(ctx context.Context, e env, args []string) int {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	var g globalFlags
	g.register(fs)
	if !parseArgs(fs, e, args) {
		return exitUsage
	}

	_, doc, cfg, code := loadDocument(ctx, e, fs, &g)
	if code != exitOK {
		return code
	}
	p := newPrinter(e.stdout, cfg.NoColor)

	p.heading("Document")
	p.field("type", string(doc.Variant()))
	p.field("name", doc.Name())
	p.field("id", doc.ID())
	switch doc.Variant() {
	case metadata.VariantFolder:
		p.field("deadline", doc.Deadline())
	case metadata.VariantVoting:
		p.field("proceedings", doc.ProceedingsID())
	}
	p.field("version", doc.Version())
	p.field("checksum", doc.Checksum())
	if a, ok := doc.Anchor(); ok {
		p.field("blockchain", a.Type+" "+a.ID)
		p.field("node", a.NodeURL)
	} else {
		p.field("blockchain", "none")
	}

	p.line("")
	p.heading("Participants")
	for _, part := range doc.Participants() {
		roles := make([]string, len(part.Roles))
		for i, r := range part.Roles {
			roles[i] = r.String()
		}
		who := part.ID
		if part.Email != "" {
			who = part.Email + " (" + part.ID + ")"
		}
		p.field(strings.Join(roles, ", "), who)
	}

	p.line("")
	p.heading("Files")
	for _, f := range doc.Files() {
		p.field(f.Name, f.Hash)
	}

	p.line("")
	p.heading("Events")
	counts := doc.EventCounts()
	for _, t := range metadata.EventTypes(doc.Variant()) {
		p.field(t.DisplayName(), strconv.Itoa(counts[t]))
	}
	p.line("")
	for i, ev := range doc.Events() {
		invoker := ev.InvokerID
		if email, ok := doc.UserEmail(ev.InvokerID); ok && email != "" {
			invoker = email
		}
		p.line("%2d. %-22s %s  %s", i+1, ev.Type.DisplayName(), ev.Date, invoker)
		if tx, ok := doc.Transaction(ev); ok {
			link := tx.ID
			if tx.URL != "" {
				link = tx.URL
			}
			p.field("transaction", link)
		}
	}
	return exitOK
}
