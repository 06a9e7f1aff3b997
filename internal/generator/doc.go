// Package generator produces the candidate paths of a scan.
//
// Two modes exist and exactly one is active per scan:
//
//   - Enumeration mode walks every string over the 62 symbol pool
//     (a-z, A-Z, 0-9) up to a maximum length and appends every suffix.
//   - Dictionary mode expands template lines such as "backup%NUMBER%.zip"
//     or "admin%EXT%" into concrete paths.
//
// Emission order is deterministic in both modes. Candidates are pushed into
// a bounded channel, so a slow worker pool throttles generation.
package generator
