// Package config loads relax.yaml, the configuration file read by the relax
// command.
//
// The file is optional. Missing sections and fields take their defaults, and
// command-line flags override whatever the file sets.
//
// # Configuration File Structure
//
//	app:
//	  title: Groceries
//	  items: [milk, eggs, bread]
//	log:
//	  level: debug      # debug, info, warn, error
//	  format: json      # text, json
//	inspector:
//	  addr: localhost:7070
//	  metrics: true
//	  namespace: relax
//	  runtime_metrics: false
//	  mutation_limit: 10000
//	tracing:
//	  enabled: true
//	  tracer_name: relax
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	logger := cfg.Log.NewLogger(os.Stderr)
package config
