package sisverify

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/meigma/sisverify/anchor"
	"github.com/meigma/sisverify/verification"
)

// Status is the outcome of verifying one event.
type Status int

const (
	// StatusMatch means the computed code equals the anchored code.
	StatusMatch Status = iota + 1
	// StatusMismatch means the computed code differs from the anchored code.
	StatusMismatch
	// StatusUnverifiable means the event type has no verification format.
	StatusUnverifiable
	// StatusNoTransaction means the event was not anchored on the document's chain.
	StatusNoTransaction
	// StatusUnavailable means the anchored code could not be fetched.
	StatusUnavailable
	// StatusError means the local code could not be computed.
	StatusError
)

var statusNames = map[Status]string{
	StatusMatch:         "match",
	StatusMismatch:      "mismatch",
	StatusUnverifiable:  "unverifiable",
	StatusNoTransaction: "no transaction",
	StatusUnavailable:   "unavailable",
	StatusError:         "error",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// EventResult is the verification outcome of one event.
type EventResult struct {
	// Index is the position of the event in the document.
	Index  int
	Event  Event
	Status Status

	// Code is the locally computed verification code. It is empty when the
	// event is unverifiable or computing it failed.
	Code string

	// Anchored is the code stored in the anchoring transaction, if fetched.
	Anchored string

	// Transaction is the anchoring transaction; zero when there is none.
	Transaction Transaction

	// Err holds the cause for StatusUnavailable and StatusError.
	Err error
}

// Report is the verification outcome of a whole document.
type Report struct {
	Document *Document
	Results  []EventResult
}

// Count returns how many events ended with status s.
func (r *Report) Count(s Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == s {
			n++
		}
	}
	return n
}

// OK reports whether no event mismatched or failed locally.
func (r *Report) OK() bool {
	return r.Count(StatusMismatch) == 0 && r.Count(StatusError) == 0
}

// ComputeCode computes the verification code of ev with the client's code
// version. It returns ErrUnknownFormat for events that cannot be verified.
func (c *Client) ComputeCode(doc *Document, ev Event) (string, error) {
	if doc == nil {
		return "", errors.New("document is nil")
	}
	data, ok := doc.EventData(ev)
	if !ok {
		return "", verification.ErrUnknownFormat
	}
	return data.Code(c.codeVersion)
}

// Verify verifies every event of doc. Anchored codes are fetched
// concurrently; results are in event order.
//
// Lookup failures are recorded per event and never abort verification.
// The returned error is non-nil only when doc is nil or ctx ends first.
func (c *Client) Verify(ctx context.Context, doc *Document) (*Report, error) {
	if doc == nil {
		return nil, errors.New("document is nil")
	}
	resolver, resolverErr := c.resolverFor(doc)

	events := doc.Events()
	report := &Report{
		Document: doc,
		Results:  make([]EventResult, len(events)),
	}

	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for i, ev := range events {
		g.Go(func() error {
			report.Results[i] = c.verifyEvent(ctx, doc, i, ev, resolver, resolverErr)
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // workers never return errors

	if err := ctx.Err(); err != nil {
		return report, err
	}
	c.log().Info("verified document",
		"id", doc.ID(),
		"match", report.Count(StatusMatch),
		"mismatch", report.Count(StatusMismatch),
		"unavailable", report.Count(StatusUnavailable),
	)
	return report, nil
}

// VerifyEvent verifies the event at index in doc.
func (c *Client) VerifyEvent(ctx context.Context, doc *Document, index int) (EventResult, error) {
	if doc == nil {
		return EventResult{}, errors.New("document is nil")
	}
	events := doc.Events()
	if index < 0 || index >= len(events) {
		return EventResult{}, fmt.Errorf("event index %d out of range [0, %d)", index, len(events))
	}
	resolver, resolverErr := c.resolverFor(doc)
	return c.verifyEvent(ctx, doc, index, events[index], resolver, resolverErr), nil
}

func (c *Client) verifyEvent(ctx context.Context, doc *Document, index int, ev Event, resolver anchor.Resolver, resolverErr error) EventResult {
	res := EventResult{Index: index, Event: ev}
	log := c.log().With("event", index, "type", string(ev.Type))

	data, ok := doc.EventData(ev)
	if !ok {
		res.Status = StatusUnverifiable
		log.Debug("event is not verifiable")
		return res
	}
	code, err := data.Code(c.codeVersion)
	if err != nil {
		res.Status = StatusError
		res.Err = err
		log.Warn("failed to compute verification code", "error", err)
		return res
	}
	res.Code = code

	tx, ok := doc.Transaction(ev)
	if !ok {
		res.Status = StatusNoTransaction
		log.Debug("event has no anchoring transaction")
		return res
	}
	res.Transaction = tx

	if resolverErr != nil {
		res.Status = StatusUnavailable
		res.Err = resolverErr
		return res
	}
	anchored, err := resolver.VerificationCode(ctx, tx.ID)
	if err != nil {
		res.Status = StatusUnavailable
		res.Err = err
		log.Warn("anchored code unavailable", "transaction", tx.ID, "error", err)
		return res
	}
	res.Anchored = anchored

	if anchored == code {
		res.Status = StatusMatch
	} else {
		res.Status = StatusMismatch
	}
	log.Debug("verified event", "transaction", tx.ID, "status", res.Status.String())
	return res
}

// resolverFor returns the resolver for doc's anchor: the configured
// resolver, or a node client for the anchor's node, cached when a cache is
// configured.
func (c *Client) resolverFor(doc *Document) (anchor.Resolver, error) {
	a, hasAnchor := doc.Anchor()
	var resolver anchor.Resolver
	switch {
	case c.resolver != nil:
		resolver = c.resolver
	case !hasAnchor:
		return nil, anchor.ErrNoAnchor
	default:
		nodeURL := c.nodeURL
		if nodeURL == "" {
			nodeURL = a.NodeURL
		}
		if nodeURL == "" {
			return nil, fmt.Errorf("%w: anchor %s has no node URL", anchor.ErrNoAnchor, a.ID)
		}
		opts := []anchor.Option{anchor.WithLogger(c.log())}
		if c.httpClient != nil {
			opts = append(opts, anchor.WithClient(c.httpClient))
		}
		if c.headers != nil {
			opts = append(opts, anchor.WithHeaders(c.headers))
		}
		node, err := anchor.NewNodeClient(nodeURL, opts...)
		if err != nil {
			return nil, err
		}
		resolver = node
	}

	if c.cache == nil {
		return resolver, nil
	}
	return anchor.NewCachedResolver(resolver, c.cache,
		anchor.WithNamespace(a.ID),
		anchor.WithCacheLogger(c.log()),
	), nil
}
