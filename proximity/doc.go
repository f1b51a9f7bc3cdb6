// Package proximity narrows a candidate list to institutions within practical
// driving distance of a named place. The judgment is delegated to a chat model
// when one is configured; any failure falls back to a deterministic metro rule
// table. Only the first location phrase is considered.
package proximity
