// Package jobsift harvests job postings from a fixed set of job boards,
// extracts company, title and description with per-site HTML rules, and
// enriches each description with structured attributes produced by a
// language model.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, lmstudio/).
package jobsift
