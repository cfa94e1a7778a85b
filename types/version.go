package types

// Version is the canonical project version.
// The CLI, the receipt journal format, and the wire surface all report
// this single constant (lockstep versioning).
const Version = "0.2.0"
