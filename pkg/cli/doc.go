// Package cli implements the recstore command line.
//
// Commands:
//
//	serve    start the memo and inventory surfaces
//	config   print the resolved configuration and its sources
//	version  print build information
//
// Settings resolve in increasing precedence: defaults, config file,
// RECSTORE_* environment variables, flags.
package cli
