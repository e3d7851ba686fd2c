/*
Package domain contains the core entities of the stylebot pipeline: the
Workflow definition, the Run lifecycle and its strictly linear state
machine, and the lifecycle events used for observability.

The package has no dependencies on adapters or infrastructure; it only
describes what a run is, never how its steps are executed.
*/
package domain
