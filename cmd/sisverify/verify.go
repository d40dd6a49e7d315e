package main

import (
	"context"
	"flag"

	"github.com/meigma/sisverify"
)

func runVerify(ctx context.Context, e env, args []string) int {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	var g globalFlags
	g.register(fs)
	verbose := fs.Bool("v", false, "print computed and anchored codes for every event")
	if !parseArgs(fs, e, args) {
		return exitUsage
	}

	client, doc, cfg, code := loadDocument(ctx, e, fs, &g)
	if code != exitOK {
		return code
	}
	p := newPrinter(e.stdout, cfg.NoColor)
	p.ok("checksum %s is valid", doc.Checksum())
	p.heading("%s %q (%s)", doc.Variant(), doc.Name(), doc.ID())

	report, err := client.Verify(ctx, doc)
	if err != nil {
		p.fail("verification interrupted: %v", err)
		return exitFailed
	}

	for _, r := range report.Results {
		p.line("%s %-22s %s", p.status(r.Status), r.Event.Type.DisplayName(), r.Event.Date)
		showCodes := *verbose || r.Status == sisverify.StatusMismatch || r.Status == sisverify.StatusUnavailable
		if r.Transaction.ID != "" && (showCodes || r.Transaction.URL != "") {
			tx := r.Transaction.ID
			if r.Transaction.URL != "" {
				tx = r.Transaction.URL
			}
			p.field("transaction", tx)
		}
		if showCodes && r.Code != "" {
			p.field("computed", r.Code)
		}
		if showCodes && r.Anchored != "" {
			p.field("anchored", r.Anchored)
		}
		if r.Err != nil {
			p.field("reason", r.Err.Error())
		}
	}

	p.line("")
	p.line("%d matched, %d mismatched, %d unavailable, %d without transaction, %d unverifiable",
		report.Count(sisverify.StatusMatch),
		report.Count(sisverify.StatusMismatch),
		report.Count(sisverify.StatusUnavailable),
		report.Count(sisverify.StatusNoTransaction),
		report.Count(sisverify.StatusUnverifiable),
	)
	if !report.OK() {
		p.fail("document does not match its blockchain record")
		return exitFailed
	}
	p.ok("no mismatches found")
	return exitOK
}
