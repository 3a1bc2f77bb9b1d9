// Package config handles loading and validating web device configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables
//   - Validation of required fields
//   - Default value handling
//
// The devices section declares the children of the root device. It is
// checked here for kind, target and identifier shape so that a bad file
// fails at startup rather than half way through building the tree.
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Site.Name)
package config
