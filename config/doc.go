/*
Package config loads the toolkit settings from a YAML file with an
environment overlay: a variable named by a field's `env` tag overrides the
file value, and `envDefault` fills fields left empty by both. The loaded
configuration is validated before use, so a Service built from it never sees
a blank credential.
*/
package config
