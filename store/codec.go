/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/mikeb26/swisschamp/championship"
	"github.com/mikeb26/swisschamp/internal"
)

// snapshot is the on-disk form of a championship. startedAt is written as
// epoch milliseconds; older snapshots may carry a date string or omit it.
type snapshot struct {
	championship.State
	StartedAt json.RawMessage `json:"startedAt,omitempty"`
}

var now = time.Now

func Encode(s championship.State) ([]byte, error) {
	snap := snapshot{State: s}
	if !s.StartedAt.IsZero() {
		snap.StartedAt = json.RawMessage(strconv.FormatInt(s.StartedAt.UnixMilli(), 10))
	}
	data, err := json.MarshalIndent(&snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("store.encode: %w", err)
	}

	return data, nil
}

// Decode parses a snapshot and repairs whatever an older writer left out.
func Decode(data []byte) (championship.State, error) {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return championship.State{}, fmt.Errorf("store.decode: %w", err)
	}

	s := snap.State
	startedAt, err := parseStartedAt(snap.StartedAt)
	if err != nil {
		log.Printf("store.decode: ignoring startedAt %s in %v: %v",
			snap.StartedAt, s.SeasonID, err)
	}
	if startedAt.IsZero() {
		startedAt = now()
	}
	s.StartedAt = startedAt
	if s.Pairings == nil {
		s.Pairings = []championship.Pairing{}
	}

	return championship.Normalize(s), nil
}

func parseStartedAt(raw json.RawMessage) (time.Time, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return time.Time{}, nil
	}

	var str string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &str); err != nil {
			return time.Time{}, err
		}
	} else {
		str = string(raw)
	}

	if ms, err := strconv.ParseInt(str, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}
	if f, err := strconv.ParseFloat(str, 64); err == nil {
		return time.UnixMilli(int64(f)).UTC(), nil
	}

	return internal.ParseDateOrZero(str)
}
