// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles server configuration from CLI flags and
environment variables. Flags win over environment variables; secrets
should come from the environment in production.

Settings:

  - PORT (-p): server port (default: 3318)
  - DATABASE_URL (-d): vote ledger connection string (required)
  - DATABASE_TYPE (-t): "sqlite" (default) or "postgres"
  - REDIS_URL (-r): Redis connection string for the tally store;
    when unset, tallies are kept in process memory
  - COOKIE_SECRET (--cookie-secret): HMAC secret for signed session
    cookies (required)
*/
package cliparse
