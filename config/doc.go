// Package config loads grid configuration files.
//
// A configuration file (YAML, JSON or TOML) declares the columns of a grid,
// its initial filters, sort and page size, where its rows come from and where
// its views are saved. Every key can be overridden from the environment with
// the GRIDKIT_ prefix, nested keys joined by underscores
// (GRIDKIT_SOURCE_URI, GRIDKIT_PAGESIZE). A .env file next to the
// configuration file is loaded first if it exists.
package config
