// Package inventory reads the declarative configuration tree from disk.
//
// Layout:
//
//	<config-dir>/
//	├── bridges/      bridges:   {key: document, ...}
//	├── templates/    templates: {name: document, ...}
//	├── locations/    locations: [document, ...]
//	├── persons/      persons:   [document, ...]
//	└── secrets.csv   key,value rows (optionally secrets.csv.age)
//
// Every *.yaml, *.yml, *.json and *.jsonc file below a section directory is
// read in lexical path order. JSON files may carry comments and trailing
// commas. Mapping order inside a file is preserved, so the documents come
// out in a deterministic declaration order.
package inventory
