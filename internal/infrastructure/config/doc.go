// Package config handles loading and validating the Gray Logic Alice bridge
// configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables
//   - Validation of required fields
//   - Default value handling
//   - Per-entity overrides (names, rooms, types, custom capabilities and
//     properties, error code rules) and the entity exposure filter
//
// Security Considerations:
//   - Sensitive values (passwords, tokens) should be set via environment variables
//   - The config file should have restricted permissions (0600)
//   - The JWT secret must be changed from defaults before production use
//
// Usage:
//
//	cfg, err := config.Load("configs/alice.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ec := cfg.Alice.Entity("light.kitchen")
package config
