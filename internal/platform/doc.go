// Package platform contains OS and external tooling glue: filesystem helpers,
// supported-site checks, URL classification, and the playlist metadata
// queries behind the playlist-vs-single prompt.
package platform
