// Package generator renders the resolved model into home-automation
// configuration artifacts.
//
// A Pipeline is an ordered list of stages; each stage holds independent
// units that run concurrently against the read-only model. Artifacts are
// collected in stage and unit order, so output is deterministic regardless
// of scheduling.
//
//	Pipeline
//	├── stage "things"   → things/<name>.things
//	├── stage "items"    → items/<name>.items
//	└── stage "sitemaps" → sitemaps/<name>.sitemap
//
// Write stores artifacts below an output directory together with a
// manifest.json of blake3 digests; files whose content is unchanged are not
// rewritten, and files listed in a previous manifest but no longer generated
// are removed.
package generator
