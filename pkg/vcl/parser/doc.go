// Package parser loads validation configuration files into ast.Config values.
//
// YAML is the primary format; files ending in .toml are read as TOML. Both
// formats share the same document shape:
//
//	schema_version: "1.0.0"
//	name: signup
//	fields:
//	  - name: age
//	    data_type: Integer
//	    label: Age
//	    rules:
//	      - error_code: ageRange
//	        condition:
//	          type: range
//	          minimum: 18
//	          maximum: 120
//	        error_message: "{Label} must be between {Minimum} and {Maximum}"
//
// Condition keys other than "type" and "children" become condition properties.
// The parser only rejects documents it cannot turn into a model: syntax errors,
// wrong node shapes and unsupported schema versions. Everything else (unknown
// condition types, missing properties, unresolved lookup keys) is left to the
// analyzer, which reports it as diagnostics.
//
// Errors are returned as *errors.Error or *errors.ErrorList from pkg/vcl/errors.
package parser
