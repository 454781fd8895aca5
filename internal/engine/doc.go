// Package engine drives the external AssFontSubset.Console executable.
//
// Invoker filters the requested subtitle files, resolves the output
// directory, assembles the argument vector in the order the engine expects,
// runs the process synchronously through an Executor and turns the outcome
// into a Report whose Text is shown to the user verbatim. Launch failures and
// panics never escape Run; they are logged and reported.
package engine
