// Package config loads probe settings.
//
// Settings come from, in increasing precedence: built-in defaults, a YAML
// file, and PROBE_* environment variables. A .env file is loaded into the
// environment first, without overriding variables that are already set.
// "${VAR}" references in the log path are expanded strictly.
//
//	render:
//	  max_depth: 6
//	  introspection: [source]
//	  color: auto
//	log:
//	  path: ${HOME}/probe.log
//	  perm: "0600"
//	observe:
//	  service_name: probe
//	  logging: {enabled: true, level: warn}
package config
