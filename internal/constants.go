/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

const (
	UserAgent = "swisschamp/0.3.0 (+https://github.com/mikeb26/swisschamp)"
	// default bucket for snapshots and the uschess http cache
	DefaultBucket   = "bopmatic-swisschamp-prod"
	DefaultStoreDir = ".champtd"
)
