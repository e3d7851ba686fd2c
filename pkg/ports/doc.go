/*
Package ports defines the driven ports (interfaces) for the stylebot pipeline.

These interfaces decouple the engine from external implementations, allowing
it to work with various storage backends, version control clients and
tool runtimes.

# Key Interfaces

  - RunStore: Responsible for persisting and loading run records.
  - Locker: Provides locking to serialize runs against the same repository.
  - SourceFetcher / Toolchain / Linter / Publisher: The four external
    surfaces the pipeline delegates to.
*/
package ports
