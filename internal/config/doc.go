// Package config provides configuration loading for docroutes.
//
// Settings come from a docroutes.yaml (or .json, .toml) file found in the
// working directory or one of its parents, or named with --config.
// Environment variables prefixed with DOCROUTES_ override file values,
// with dots replaced by underscores.
//
// # Configuration File Structure
//
//	source: .docusaurus/routes.js
//	format: auto
//	maxSize: 32MiB
//	server:
//	  host: localhost
//	  port: 3030
//	  preview: false
//	  shutdownTimeout: 10s
//	watch:
//	  enabled: true
//	  debounce: 250ms
//	  interval: 30s
//	match:
//	  sensitive: false
//	validate:
//	  allowMissingFallback: false
//	metrics:
//	  enabled: true
//	  namespace: docroutes
//	tracing:
//	  enabled: false
//	s3:
//	  region: eu-west-1
//	log:
//	  level: info
//	  format: text
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Listening on", cfg.Address())
package config
