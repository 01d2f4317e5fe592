/*
Package ports defines the driven ports (interfaces) around the botforge generator.

These interfaces decouple the generator from the places projects come from and
the places generated programs are kept, so that the CLI, the HTTP API and the
MCP server can share one Generator.

# Key Interfaces

  - BotGenerator: Turns a project into a Python program (implemented by botforge.Generator).
  - ProjectLoader: Reads a project document (e.g., a JSON or YAML file).
  - Watchable: Loaders that can signal when their source changes.
  - Cache: Keeps generated programs by content hash (memory or Redis).
*/
package ports
