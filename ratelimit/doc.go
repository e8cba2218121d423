// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ratelimit bounds request rates per caller per event.

Write endpoints consult a Limiter before doing any persistence work:

	if !limiter.Allow(key, 10, time.Minute) {
		// 429
	}

Keys combine the endpoint, client IP, and share id, so one abusive
client cannot lock an event for everyone else.

Two implementations exist behind the Limiter interface. Memory keeps
fixed-window counters in a mutex-guarded map local to one process and
sweeps expired entries periodically. Redis keeps the counters in a
shared store (INCR + PEXPIRE) so horizontally scaled instances enforce
one global limit. main selects Redis when REDIS_ADDR is set.
*/
package ratelimit
