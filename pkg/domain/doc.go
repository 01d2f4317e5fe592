/*
Package domain contains the core model of a botforge project.

It defines the entities the builder UI exports and the generator reads: Nodes,
Connections, Buttons and the per-project generation Options. The package is
kept pure: no I/O and no knowledge of the Python target. The generator treats
every value here as read-only.

# Key Entities

  - Node: a vertex of the bot flow (a screen, a command, a broadcast, an admin action).
  - Connection: a directed edge between two nodes.
  - Button: a keyboard entry nested in a node's data bag.
  - NodeData: the typed view of a node's kind-specific configuration bag.
  - Project: the document handed to the generator (nodes, connections, options).
*/
package domain
