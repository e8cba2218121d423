// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"strconv"
)

// ErrNicknameExhausted is returned when no free nickname variant was
// found within the retry cap.
var ErrNicknameExhausted = errors.New("too many participants with similar nicknames")

const maxNicknameSuffix = 100

// ResolveNickname finds the first free variant of the requested
// nickname within one event: the name itself, then name2, name3, and
// so on. taken reports whether a candidate already exists; keeping it
// a callback keeps the resolver pure and testable without a store.
func ResolveNickname(requested string, taken func(string) (bool, error)) (string, error) {
	candidate := requested
	suffix := 1
	for {
		inUse, err := taken(candidate)
		if err != nil {
			return "", err
		}
		if !inUse {
			return candidate, nil
		}

		suffix++
		if suffix > maxNicknameSuffix {
			return "", ErrNicknameExhausted
		}
		candidate = requested + strconv.Itoa(suffix)
	}
}
