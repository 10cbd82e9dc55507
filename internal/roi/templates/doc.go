// Package templates registers the ESA Register of Information report
// templates: column order, column-to-store mappings, enumeration
// dictionaries, smart defaults and validation rules.
//
// Templates are static deploy-time configuration. Importing this
// package (blank import from main) registers everything via init.
package templates
