package ingest

import "errors"

// ErrNoDBServers is returned when the shard map built from the shard
// distribution response for the requested vertex or edge collections
// is empty — spec.md §4.6 requires the dbserver count be asserted
// non-zero.
var ErrNoDBServers = errors.New("ingest: shard distribution has zero dbservers")

// ErrDumpStartFailed is returned when dump/start could not be opened on
// a dbserver after retries; the pipeline cleans up every context opened
// so far before surfacing this.
var ErrDumpStartFailed = errors.New("ingest: dump/start failed")
