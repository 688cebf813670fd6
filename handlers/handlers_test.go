// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"testing"

	"github.com/danielhkuo/pollcast/cliparse"
	"github.com/danielhkuo/pollcast/ledger"
	"github.com/danielhkuo/pollcast/pubsub"
	"github.com/danielhkuo/pollcast/tally"
	"github.com/danielhkuo/pollcast/testutil"
	"github.com/danielhkuo/pollcast/voting"
)

// testEnv wires the full stack over an in-memory sqlite ledger and
// in-memory tally store, the same shape main assembles.
type testEnv struct {
	db     *sql.DB
	store  *tally.MemoryStore
	reg    *pubsub.Registry
	ledger *ledger.SQLLedger
	coord  *voting.Coordinator
	cfg    cliparse.Config

	pollID string
	opt1   string
	opt2   string
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	e := &testEnv{
		db:    testutil.SetupTestDB(t),
		store: tally.NewMemoryStore(),
		reg:   pubsub.NewRegistry(),
		cfg:   testutil.GetTestConfig(),
	}
	e.ledger = ledger.NewSQLLedger(e.db)
	e.coord = voting.NewCoordinator(e.ledger, e.store, e.reg)

	e.pollID = testutil.CreateTestPoll(t, e.db, "Best language?")
	e.opt1 = testutil.AddTestOption(t, e.db, e.pollID, "Go")
	e.opt2 = testutil.AddTestOption(t, e.db, e.pollID, "Rust")

	return e
}

// sessionCookie pulls the session cookie out of a recorded response.
func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == "sessionId" {
			return c
		}
	}
	return nil
}
