// Package manifest reads and validates the manifest.json record that
// identifies an extension package. A manifest must name the extension; its
// id defaults to the normalized name and its version to "1.0". Validation
// runs against the JSON Schema embedded from schema/manifest.schema.json.
package manifest
