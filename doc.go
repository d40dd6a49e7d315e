// Package sisverify verifies metadata documents exported by a document
// signing and voting service against the codes anchored for them on a
// public blockchain.
//
// A document describes either a folder workflow or a voting workflow and
// carries a chronological list of lifecycle events. Loading a document
// checks its embedded SHA-256 checksum; verifying it recomputes a keyed
// verification code for every event and compares it with the code stored
// in the event's anchoring transaction.
//
// # Quick Start
//
// Load a document, exported either as a PDF with an embedded metadata.json
// or as the raw JSON, and verify all of its events:
//
//	c, err := sisverify.NewClient(sisverify.WithCacheDir("/var/cache/sisverify"))
//	if err != nil {
//	    return err
//	}
//	doc, err := c.LoadFile(ctx, "export.pdf")
//	if err != nil {
//	    return err // tampered, unsupported or unreadable
//	}
//	report, err := c.Verify(ctx, doc)
//	if err != nil {
//	    return err
//	}
//	for _, r := range report.Results {
//	    fmt.Println(r.Event.Type, r.Status)
//	}
//
// Lookup failures never abort verification: events whose anchored code
// cannot be fetched are reported as [StatusUnavailable] together with the
// locally computed code so they can be compared by hand.
package sisverify
