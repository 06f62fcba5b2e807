// Package config loads custodian's configuration.
//
// Configuration is read from config.yaml in a single directory. The default
// directory is ~/.config/custodian; commands accept --config-path to point
// elsewhere. A missing config.yaml is not an error: defaults apply.
//
// # Example
//
//	server:
//	  host: 0.0.0.0
//	  port: 8090
//	  transport: streamable-http
//	catalog:
//	  backend: sqlite
//	  dsn: /var/lib/custodian/catalog.db
//	lookup:
//	  handlerTimeout: 5s
//	  includeContextDefault: true
//	audit:
//	  path: /var/log/custodian/audit.log
//	webhook:
//	  token: change-me
//	kubernetes:
//	  enabled: true
//	  cluster: prod-eu
//	  handlers:
//	    - pattern: "deploy/*"
//	      namespace: shop
//	      kind: deployment
//	      stripPrefix: "deploy/"
//
// Values are decoded on top of GetDefaultConfig and then checked by
// Validate, which reports every problem at once as ValidationErrors.
package config
