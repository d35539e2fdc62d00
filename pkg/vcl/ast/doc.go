// Package ast defines the in-memory model of a validation configuration.
//
// A configuration is a list of fields. Each field names a data type through a
// symbolic lookup key (for example "Integer") and carries rules; each rule
// evaluates a condition, and composite conditions nest further conditions:
//
//	Config
//	└── Fields ([]*Field)
//	    ├── EnablerCondition (*Condition)
//	    └── Rules ([]*Rule)
//	        └── Condition (*Condition)
//	            └── Children ([]*Condition, composite types only)
//
// Nodes keep their source Location so diagnostics can point back at the file.
// The model is plain data: nothing in it executes a rule. Treat a Config as
// immutable once it has been handed to the analyzer.
//
// Use Walk with a Visitor for pre-order traversal:
//
//	err := ast.Walk(cfg, myVisitor)
package ast
