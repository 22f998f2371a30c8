// Package model defines the resolved configuration graph of a home
// automation installation.
//
// The graph has four related structures, produced once by the resolver and
// read-only afterwards:
//
//	┌────────────────────┐      ┌────────────────────┐
//	│    LocationTree    │      │    BridgeGraph     │
//	│ area/building/     │      │ bridge ─▶ sub-     │
//	│ floor/room         │      │ bridge ─▶ things   │
//	└─────────┬──────────┘      └─────────▲──────────┘
//	          │ owns                      │ linked on (non-owning)
//	          ▼                           │
//	┌────────────────────┐                │
//	│  EquipmentForest   │────────────────┘
//	│ groups ─▶ terminal │
//	│ nodes (things)     │      ┌────────────────────┐
//	└─────────▲──────────┘      │      Persons       │
//	          └─────── owns ────│ states, equipment  │
//	                            └────────────────────┘
//
// # Key Types
//
//   - Location: typed node of the location tree with a subtype vocabulary
//   - Bridge: binding-family gateway; may be a thing itself and may have a parent bridge
//   - Thing: the binding data of a terminal equipment node or bridge
//   - Equipment: interface implemented by the variants (Lightbulb, Sensor, ...)
//   - Person, PersonState: occupants and their boolean states
//   - Replacements: the typed placeholder context used for rendering patterns
//
// # Channel Addresses
//
// A terminal equipment node computes the address of a point as
//
//	binding:thingtype[:parent bridge uid][:bridge uid]:thinguid:suffix
//
// where bridge uids appear only for bridges that are things and whose uid
// differs from the thing's own uid.
//
// # Errors
//
// ConfigurationError reports invalid input, BuildError reports a failure to
// compute a derived value such as a channel address. Unknown type tags are
// reported by the registry package.
//
// # Thread Safety
//
// A resolved Model is immutable and safe for concurrent reads. Construction
// is single-threaded; mutation after resolution is not supported.
package model
