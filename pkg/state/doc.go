// Package state holds the live settings of one calculator instance.
//
// A Session owns a single settings.Configuration and serialises every
// change to it:
//   - Load and LoadFragment run a decode pass against a copy of the current
//     configuration and swap it in only when the pass succeeds, so readers
//     never observe a half-applied link.
//   - Mutate applies an in-process edit (toggling a recipe, changing a
//     target) with optional optimistic concurrency on the revision.
//   - View and Current give readers a consistent configuration.
//
// Each successful change bumps Meta.Revision and emits a settings.updated
// activity event when hooks are configured.
package state
