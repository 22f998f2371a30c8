// Package resolver turns the raw configuration documents into the resolved
// model in four sequential, fail-fast phases:
//
//  1. Bridges   - bridges and sub-bridges, their secrets and thing identities
//  2. Templates - the template library, with inheritance validated
//  3. Locations - the location tree and the equipment it owns; templates are
//     merged, variants constructed, things linked on their bridges, secrets
//     resolved and channel addresses checked
//  4. Persons   - persons, their states and personal equipment
//
// Each phase only reads the products of earlier phases. The first typed
// error aborts the run and is wrapped in a *PhaseError naming the phase.
// Unresolved secrets are not errors here: they are collected and reported
// through Result so the caller can refuse to write output.
package resolver
