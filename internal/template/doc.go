// Package template holds named configuration fragments and merges them into
// equipment documents.
//
// An equipment document may name a template:
//
//	templates:
//	  eco-sensor:
//	    typed: sensor
//	    points: {temperature: temp, humidity: hum}
//
//	equipment:
//	  - name: Climate
//	    template: eco-sensor
//	    points: {humidity: humidity}
//
// Merging copies the template's keys in as defaults; keys declared by the
// instance win at every nesting level, the "template" key is removed, and
// child "equipment" lists are merged recursively. Templates may inherit from
// other templates; chains are resolved base first and cycles are rejected.
//
// A document declaring "count: N" is expanded into a group of N identical
// children named "1" to "N".
//
// Templates are never mutated: every merge works on deep copies.
package template
