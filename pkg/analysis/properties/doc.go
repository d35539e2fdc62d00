// Package properties holds the per-property checks run while analyzing a
// configuration: field and rule scalars, message token syntax, localization
// key pairs and condition properties checked against condition descriptors.
//
// Each check returns diagnostic nodes only for properties with a problem;
// a clean property adds nothing.
package properties
