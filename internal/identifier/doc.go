// Package identifier derives the stable, programmatic identifiers used for
// every item, group and thing the generator emits.
//
// Identifiers are derived from human-readable names:
//
//	"Küche"          → "Kueche"
//	"Living Room"    → "Livingroom"
//	"bad_og"         → "Badog"
//	"Living-Room"    → "Livingroom"
//	"Kitchen"+"Lamp" → "KitchenLamp" (via Join)
//
// The derivation is deterministic and pure. Names are normalised to NFC, so
// precomposed and decomposed spellings agree. Locale-specific characters are
// transliterated with a fixed table and remaining diacritics are stripped.
// Everything but ASCII letters and digits is then removed and the result is
// capitalised (first letter upper case, the rest lower case), which keeps
// identifiers valid as item names.
package identifier
