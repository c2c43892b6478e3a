// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resultdb

import (
	"database/sql"
	"time"
)

// DBSQL returns the underlying database handle for tests.
func DBSQL(db *DB) *sql.DB {
	return db.sql
}

// SetNow changes the time source for run timestamps. The zero time
// restores the real clock.
func SetNow(t time.Time) {
	if t.IsZero() {
		now = time.Now
		return
	}
	now = func() time.Time { return t }
}
