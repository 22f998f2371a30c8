// Package secrets provides the process-wide secret store consulted while
// resolving the configuration tree.
//
// Secrets are keyed by a lower-case, underscore-joined context such as
// "zigbee_lightbulb_kitchenlamp_apikey". A lookup never fails: a missing or
// blank value yields a recognisable sentinel ("__ZIGBEE_LIGHTBULB_KITCHENLAMP_APIKEY__")
// and the key is recorded once so the caller can abort before any artifact
// is written.
//
// The table is a two-column CSV file (key,value). Files ending in ".age" are
// decrypted with an age X25519 identity first; both binary and ASCII-armored
// age files are accepted.
package secrets
